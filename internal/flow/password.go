package flow

import (
	"context"
	"strings"

	"wishline/internal/api"
	"wishline/internal/nav"
	"wishline/internal/wish"
)

const (
	MsgPasswordReset = "Password reset successfully! Please login."
	MsgPasswordSet   = "Password set successfully! Please login."

	msgVerifyFirst       = "Please verify your email first"
	msgSetPasswordFailed = "Failed to set password. Please try again."
)

// SetPassword sets the password for the verified email and sends the user to
// login with a success banner.
func (f *Flows) SetPassword(ctx context.Context, flow nav.FlowType, form wish.PasswordForm) (nav.Route, error) {
	email, err := f.session.VerifiedEmail(ctx)
	if err != nil {
		return nav.Route{}, err
	}
	if err := invalid(form.Validate()); err != nil {
		return nav.Route{}, err
	}
	if email == "" {
		f.nav.SafeNavigate(ctx, nav.StartOver(flow), 0)
		return nav.Route{}, ErrMissingEmail
	}

	if _, err := f.auth.UpdatePassword(ctx, api.PasswordRequest{Email: email, Password: form.Password}); err != nil {
		if api.IsNotVerified(err) {
			return nav.Route{}, fieldError(wish.FieldPassword, msgVerifyFirst, err)
		}
		return nav.Route{}, fieldError(wish.FieldPassword, messageOr(err, msgSetPasswordFailed), err)
	}
	if err := f.session.FinishPassword(ctx); err != nil {
		return nav.Route{}, err
	}

	msg := MsgPasswordSet
	if flow == nav.FlowReset {
		msg = MsgPasswordReset
	}
	next := nav.Login(msg)
	f.nav.SafeNavigate(ctx, next, 0)
	return next, nil
}

// ForgotPassword requests a reset code and opens the OTP screen after a short
// pause so the confirmation can be read.
func (f *Flows) ForgotPassword(ctx context.Context, form wish.ForgotPasswordForm) (nav.Route, error) {
	if err := invalid(form.Validate()); err != nil {
		return nav.Route{}, err
	}
	email := strings.TrimSpace(form.Email)
	if _, err := f.auth.ForgotPassword(ctx, email); err != nil {
		return nav.Route{}, fieldError(wish.FieldEmail, messageOr(err, api.MsgFallback), err)
	}
	if err := f.session.BeginReset(ctx, email); err != nil {
		return nav.Route{}, err
	}
	if err := f.session.MarkOTPSent(ctx, f.now()); err != nil {
		f.log.Warn("record otp send time", "err", err)
	}
	next := nav.VerifyOTP(email, nav.FlowReset)
	f.nav.SafeNavigate(ctx, next, f.resetDelay)
	return next, nil
}
