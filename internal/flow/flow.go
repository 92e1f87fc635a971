// Package flow holds the screen handlers: signup, OTP verification, password
// set/reset, login, logout and profile edits. Each one validates, calls the
// backend, updates the session keys and navigates.
package flow

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"wishline/internal/api"
	"wishline/internal/nav"
	"wishline/internal/storage"
	"wishline/internal/wish"
)

const (
	DefaultResendCooldown = 30 * time.Second
	DefaultResetDelay     = 2 * time.Second
)

var (
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrMissingEmail = errors.New("Email is missing. Please start over.")
)

// AuthAPI is the subset of api.AuthService the flows use.
type AuthAPI interface {
	Register(ctx context.Context, in api.RegisterRequest) (api.RegisteredUser, string, error)
	VerifyOTP(ctx context.Context, in api.VerifyRequest) (string, error)
	UpdatePassword(ctx context.Context, in api.PasswordRequest) (string, error)
	Login(ctx context.Context, in api.LoginRequest) (api.LoginResult, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	UpdateProfile(ctx context.Context, in api.ProfileRequest) (wish.User, error)
}

type Deps struct {
	Session        *storage.Session
	Auth           AuthAPI
	Nav            *nav.Helper
	Logger         *slog.Logger
	ResendCooldown time.Duration
	ResetDelay     time.Duration
	Now            func() time.Time
}

type Flows struct {
	session    *storage.Session
	auth       AuthAPI
	nav        *nav.Helper
	log        *slog.Logger
	cooldown   time.Duration
	resetDelay time.Duration
	now        func() time.Time
}

func New(d Deps) *Flows {
	f := &Flows{
		session:    d.Session,
		auth:       d.Auth,
		nav:        d.Nav,
		log:        d.Logger,
		cooldown:   d.ResendCooldown,
		resetDelay: d.ResetDelay,
		now:        d.Now,
	}
	if f.log == nil {
		f.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if f.nav == nil {
		f.nav = nav.NewHelper(nav.NewStack(true), f.log)
	}
	// Zero means the default; negative disables the cooldown.
	switch {
	case d.ResendCooldown == 0:
		f.cooldown = DefaultResendCooldown
	case d.ResendCooldown < 0:
		f.cooldown = 0
	}
	if f.resetDelay <= 0 {
		f.resetDelay = DefaultResetDelay
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

func (f *Flows) Session() *storage.Session { return f.session }

// RequireUser returns the stored user or routes to /login.
func (f *Flows) RequireUser(ctx context.Context) (wish.User, error) {
	u, ok, err := f.session.User(ctx)
	if err != nil {
		return wish.User{}, err
	}
	if !ok {
		f.nav.SafeNavigate(ctx, nav.Login(""), 0)
		return wish.User{}, ErrNotLoggedIn
	}
	return u, nil
}
