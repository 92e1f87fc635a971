package nav

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// Policy is a fixed retry schedule. Delays[i] is slept before attempt i+1,
// InitialDelay once before everything.
type Policy struct {
	InitialDelay time.Duration
	Delays       []time.Duration
}

// DefaultPolicy tries at +0 (next frame), +100ms and +300ms.
func DefaultPolicy() Policy {
	return Policy{Delays: []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}}
}

func (p Policy) WithInitialDelay(d time.Duration) Policy {
	p.InitialDelay = d
	return p
}

// Sleeper waits for d or until ctx is done.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type SleeperFunc func(ctx context.Context, d time.Duration) error

func (f SleeperFunc) Sleep(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// RealSleeper sleeps on the wall clock.
var RealSleeper Sleeper = SleeperFunc(func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
})

type Outcome struct {
	Attempts  int
	Err       error // last action error, or ctx error
	Exhausted bool
}

func (o Outcome) OK() bool { return o.Err == nil }

// Retry runs action on the policy's schedule until it succeeds, the schedule
// runs out, or ctx is done.
func Retry(ctx context.Context, p Policy, s Sleeper, action func() error) Outcome {
	if s == nil {
		s = RealSleeper
	}
	var out Outcome
	if p.InitialDelay > 0 {
		if err := s.Sleep(ctx, p.InitialDelay); err != nil {
			out.Err = err
			return out
		}
	}
	for _, d := range p.Delays {
		if err := s.Sleep(ctx, d); err != nil {
			out.Err = err
			return out
		}
		out.Attempts++
		if out.Err = action(); out.Err == nil {
			return out
		}
	}
	out.Exhausted = true
	return out
}

// Helper performs route changes through a navigator with a retry policy.
// Failures are logged, never returned: the user stays where they are.
type Helper struct {
	Nav     Navigator
	Policy  Policy
	Sleeper Sleeper
	Log     *slog.Logger
}

func NewHelper(n Navigator, log *slog.Logger) *Helper {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Helper{Nav: n, Policy: DefaultPolicy(), Sleeper: RealSleeper, Log: log}
}

// SafeNavigate replaces the current route, optionally after delay.
func (h *Helper) SafeNavigate(ctx context.Context, r Route, delay time.Duration) Outcome {
	return h.run(ctx, "replace", r, h.Policy.WithInitialDelay(delay), func() error { return h.Nav.Replace(r) })
}

func (h *Helper) SafePush(ctx context.Context, r Route) Outcome {
	return h.run(ctx, "push", r, h.Policy, func() error { return h.Nav.Push(r) })
}

func (h *Helper) run(ctx context.Context, op string, r Route, p Policy, action func() error) Outcome {
	out := Retry(ctx, p, h.Sleeper, action)
	if out.Err != nil {
		h.Log.Error("navigation failed after retries", "op", op, "route", r.String(), "attempts", out.Attempts, "err", out.Err)
	}
	return out
}
