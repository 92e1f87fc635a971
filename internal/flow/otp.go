package flow

import (
	"context"
	"strings"
	"time"

	"wishline/internal/api"
	"wishline/internal/nav"
	"wishline/internal/storage"
	"wishline/internal/wish"
)

type OTPState string

const (
	StateAwaitingEmail OTPState = "awaiting-email"
	StateEditing       OTPState = "editing-code"
	StateSubmitting    OTPState = "submitting"
	StateVerified      OTPState = "verified"
	StateFailed        OTPState = "failed"
)

const (
	MsgVerifyFailed = "Verification failed. Please try again."
	MsgResendFailed = "Failed to resend code. Please try again."
)

// OTP is one verification screen. It is not safe for concurrent use.
type OTP struct {
	f *Flows

	Flow      nav.FlowType
	Email     string
	Editor    OTPEditor
	State     OTPState
	Resending bool
	Message   string
	Next      nav.Route
}

// ResolveEmail picks signupEmail, then resetPasswordEmail, then the route's
// email parameter.
func (f *Flows) ResolveEmail(ctx context.Context, route nav.Route) (string, error) {
	if v, err := f.session.SignupEmail(ctx); err != nil || v != "" {
		return v, err
	}
	if v, err := f.session.ResetPasswordEmail(ctx); err != nil || v != "" {
		return v, err
	}
	return strings.TrimSpace(route.Param("email")), nil
}

// StartOTP opens the verification screen for route. Without an email it sends
// the user back to the start of the flow and returns ErrMissingEmail.
func (f *Flows) StartOTP(ctx context.Context, route nav.Route) (*OTP, error) {
	o := &OTP{f: f, Flow: route.Flow(), State: StateAwaitingEmail}
	email, err := f.ResolveEmail(ctx, route)
	if err != nil {
		return nil, err
	}
	if email == "" {
		f.nav.SafeNavigate(ctx, nav.StartOver(o.Flow), 0)
		return o, ErrMissingEmail
	}
	o.Email = email
	o.State = StateEditing
	return o, nil
}

// Submit verifies the editor's code. On failure the digits are cleared and
// focus returns to the first slot.
func (o *OTP) Submit(ctx context.Context) error {
	code, err := o.BeginSubmit()
	if err != nil {
		return err
	}
	next, err := o.f.VerifyCode(ctx, o.Flow, o.Email, code)
	o.FinishSubmit(next, err)
	return err
}

// BeginSubmit validates the editor's code and moves to StateSubmitting.
func (o *OTP) BeginSubmit() (string, error) {
	code := o.Editor.Code()
	if r := wish.ValidateCode(code); !r.OK() {
		o.Message = r.Get(wish.FieldCode)
		return "", invalid(r)
	}
	o.State = StateSubmitting
	o.Message = ""
	return code, nil
}

// FinishSubmit records the outcome of VerifyCode.
func (o *OTP) FinishSubmit(next nav.Route, err error) {
	if err != nil {
		o.State = StateFailed
		o.Message = messageOr(err, MsgVerifyFailed)
		o.Editor.Clear()
		return
	}
	o.State = StateVerified
	o.Next = next
}

// Resend requests a fresh code and resets the editor.
func (o *OTP) Resend(ctx context.Context) error {
	o.BeginResend()
	err := o.f.ResendCode(ctx, o.Flow, o.Email)
	o.FinishResend(err)
	return err
}

func (o *OTP) BeginResend() {
	o.Resending = true
	o.Message = ""
}

// FinishResend records the outcome of ResendCode.
func (o *OTP) FinishResend(err error) {
	o.Resending = false
	if err != nil {
		o.Message = messageOr(err, MsgResendFailed)
		return
	}
	o.Editor.Clear()
	o.Edit()
}

// Edit leaves StateFailed once the user starts typing again.
func (o *OTP) Edit() {
	if o.State == StateFailed {
		o.State = StateEditing
	}
}

// Busy reports whether a submit or resend is in flight.
func (o *OTP) Busy() bool {
	return o.State == StateSubmitting || o.Resending
}

// VerifyCode checks code with the backend, marks email verified and moves to
// set-password.
func (f *Flows) VerifyCode(ctx context.Context, flow nav.FlowType, email, code string) (nav.Route, error) {
	if r := wish.ValidateCode(code); !r.OK() {
		return nav.Route{}, invalid(r)
	}
	if email == "" {
		f.nav.SafeNavigate(ctx, nav.StartOver(flow), 0)
		return nav.Route{}, ErrMissingEmail
	}
	if _, err := f.auth.VerifyOTP(ctx, api.VerifyRequest{Email: email, VerificationCode: code}); err != nil {
		f.log.Info("otp rejected", "email", email, "err", err)
		return nav.Route{}, err
	}
	if err := f.session.MarkVerified(ctx, email); err != nil {
		return nav.Route{}, err
	}
	next := nav.SetPassword(flow)
	f.nav.SafeNavigate(ctx, next, 0)
	return next, nil
}

// ResendCooldown reports how long until another code may be requested.
func (f *Flows) ResendCooldown(ctx context.Context) (time.Duration, error) {
	if f.cooldown <= 0 {
		return 0, nil
	}
	last, err := f.session.OTPSentAt(ctx)
	if err != nil || last.IsZero() {
		return 0, err
	}
	left := f.cooldown - f.now().Sub(last)
	if left < 0 {
		return 0, nil
	}
	return left, nil
}

// ResendCode re-issues a code: forgot-password for resets, register for
// signups using the names captured at signup.
func (f *Flows) ResendCode(ctx context.Context, flow nav.FlowType, email string) error {
	if email == "" {
		return ErrMissingEmail
	}
	left, err := f.ResendCooldown(ctx)
	if err != nil {
		return err
	}
	if left > 0 {
		return CooldownError{Remaining: left}
	}

	if flow == nav.FlowReset {
		_, err = f.auth.ForgotPassword(ctx, email)
	} else {
		profile, ok, perr := f.session.SignupProfile(ctx)
		if perr != nil {
			return perr
		}
		if !ok {
			profile = profileFromEmail(email)
			f.log.Warn("no signup profile stored; deriving names from email", "email", email)
		}
		_, _, err = f.auth.Register(ctx, api.RegisterRequest{
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Email:     email,
		})
	}
	if err != nil {
		return err
	}
	if err := f.session.MarkOTPSent(ctx, f.now()); err != nil {
		f.log.Warn("record otp send time", "err", err)
	}
	f.log.Info("otp resent", "email", email, "flow", string(flow))
	return nil
}

// profileFromEmail splits the local part on "." for first and last name.
func profileFromEmail(email string) storage.SignupProfile {
	local, _, _ := strings.Cut(email, "@")
	parts := strings.Split(local, ".")
	p := storage.SignupProfile{FirstName: "User", LastName: "Name"}
	if len(parts) > 0 && parts[0] != "" {
		p.FirstName = parts[0]
	}
	if len(parts) > 1 && parts[1] != "" {
		p.LastName = parts[1]
	}
	return p
}
