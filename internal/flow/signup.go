package flow

import (
	"context"
	"strings"

	"wishline/internal/api"
	"wishline/internal/nav"
	"wishline/internal/storage"
	"wishline/internal/wish"
)

const msgAlreadyRegistered = "Email already registered. Please login instead."

// Signup registers the user, remembers who is being verified and opens the
// OTP screen.
func (f *Flows) Signup(ctx context.Context, form wish.SignupForm) error {
	if err := invalid(form.Validate()); err != nil {
		return err
	}
	req := api.RegisterRequest{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
		Email:     strings.TrimSpace(form.Email),
	}
	if _, _, err := f.auth.Register(ctx, req); err != nil {
		if api.IsAlreadyRegistered(err) {
			return fieldError(wish.FieldEmail, msgAlreadyRegistered, err)
		}
		return fieldError(wish.FieldEmail, messageOr(err, api.MsgFallback), err)
	}

	profile := storage.SignupProfile{FirstName: req.FirstName, LastName: req.LastName}
	if err := f.session.BeginSignup(ctx, req.Email, profile); err != nil {
		return err
	}
	if err := f.session.MarkOTPSent(ctx, f.now()); err != nil {
		f.log.Warn("record otp send time", "err", err)
	}
	f.log.Info("signup started", "email", req.Email)
	f.nav.SafePush(ctx, nav.VerifyOTP("", nav.FlowSignup))
	return nil
}
