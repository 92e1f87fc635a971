package nav

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fakeClock records when each attempt would have happened.
type fakeClock struct {
	elapsed time.Duration
}

func (c *fakeClock) Sleep(_ context.Context, d time.Duration) error {
	c.elapsed += d
	return nil
}

func TestRetryThirdAttemptAt300ms(t *testing.T) {
	clock := &fakeClock{}
	var at []time.Duration
	out := Retry(context.Background(), DefaultPolicy(), clock, func() error {
		at = append(at, clock.elapsed)
		if len(at) < 3 {
			return ErrNotReady
		}
		return nil
	})
	if !out.OK() || out.Attempts != 3 || out.Exhausted {
		t.Fatalf("outcome = %+v", out)
	}
	want := []time.Duration{0, 100 * time.Millisecond, 300 * time.Millisecond}
	if diff := cmp.Diff(want, at); diff != "" {
		t.Fatalf("attempt times (-want +got):\n%s", diff)
	}
}

func TestRetryExhaustsAfterThree(t *testing.T) {
	calls := 0
	out := Retry(context.Background(), DefaultPolicy(), &fakeClock{}, func() error {
		calls++
		return ErrNotReady
	})
	if calls != 3 || out.Attempts != 3 || !out.Exhausted {
		t.Fatalf("calls=%d outcome=%+v", calls, out)
	}
	if !errors.Is(out.Err, ErrNotReady) {
		t.Fatalf("Err = %v", out.Err)
	}
}

func TestRetryInitialDelay(t *testing.T) {
	clock := &fakeClock{}
	var first time.Duration = -1
	Retry(context.Background(), DefaultPolicy().WithInitialDelay(2*time.Second), clock, func() error {
		first = clock.elapsed
		return nil
	})
	if first != 2*time.Second {
		t.Fatalf("first attempt at %v, want 2s", first)
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	out := Retry(ctx, DefaultPolicy(), RealSleeper, func() error {
		calls++
		return nil
	})
	if calls != 0 || !errors.Is(out.Err, context.Canceled) {
		t.Fatalf("calls=%d outcome=%+v", calls, out)
	}
}

func TestSafeNavigateSilentOnExhaustion(t *testing.T) {
	stack := NewStack(false)
	h := NewHelper(stack, nil)
	h.Sleeper = &fakeClock{}

	out := h.SafeNavigate(context.Background(), Login(""), 0)
	if !out.Exhausted || out.Attempts != 3 {
		t.Fatalf("outcome = %+v", out)
	}
	if _, ok := stack.Current(); ok {
		t.Fatalf("route changed on a stack that was never ready")
	}
}

func TestSafePushAndReplace(t *testing.T) {
	stack := NewStack(true)
	h := NewHelper(stack, nil)
	h.Sleeper = &fakeClock{}
	ctx := context.Background()

	h.SafePush(ctx, Signup())
	h.SafePush(ctx, VerifyOTP("a@b.com", FlowSignup))
	h.SafeNavigate(ctx, SetPassword(FlowSignup), 0)

	var got []string
	for _, r := range stack.History() {
		got = append(got, r.String())
	}
	want := []string{"/signup", "/set-password"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("history (-want +got):\n%s", diff)
	}
}

func TestRouteParseAndString(t *testing.T) {
	r := VerifyOTP("a@b.com", FlowReset)
	if s := r.String(); s != "/verify-otp?email=a%40b.com&type=reset" {
		t.Fatalf("String() = %q", s)
	}
	back, err := Parse(r.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if back.Param("email") != "a@b.com" || back.Flow() != FlowReset {
		t.Fatalf("parsed = %+v", back)
	}
	if s := SetPassword(FlowSignup).String(); s != "/set-password" {
		t.Fatalf("signup set-password = %q", s)
	}
	if c := Login("Password set successfully! Please login.").Command(); c != "wishline login" {
		t.Fatalf("Command() = %q", c)
	}
	if _, err := Parse("login"); err == nil {
		t.Fatalf("expected error for relative route")
	}
}

func TestStartOver(t *testing.T) {
	if StartOver(FlowReset).Path != PathForgotPassword {
		t.Fatalf("reset should go to forgot-password")
	}
	if StartOver(FlowSignup).Path != PathSignup {
		t.Fatalf("signup should go to signup")
	}
}
