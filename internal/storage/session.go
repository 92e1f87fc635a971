package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wishline/internal/wish"
)

// SignupProfile is the name captured at registration, kept so an OTP resend can
// re-register with the same names.
type SignupProfile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Session reads and writes the well-known session keys of a KV.
type Session struct {
	kv KV
}

func NewSession(kv KV) *Session {
	return &Session{kv: kv}
}

func (s *Session) KV() KV { return s.kv }

// Token returns the stored bearer token, or "" when logged out.
func (s *Session) Token(ctx context.Context) (string, error) {
	v, _, err := s.kv.Get(ctx, KeyAuthToken)
	return v, err
}

// User returns the stored user; ok is false when none is stored.
func (s *Session) User(ctx context.Context) (wish.User, bool, error) {
	var u wish.User
	raw, ok, err := s.kv.Get(ctx, KeyUser)
	if err != nil || !ok {
		return u, false, err
	}
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return u, false, fmt.Errorf("decode stored user: %w", err)
	}
	return u, true, nil
}

func (s *Session) SetUser(ctx context.Context, u wish.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return s.kv.Set(ctx, KeyUser, string(data))
}

// Start stores the token and user after a successful login.
func (s *Session) Start(ctx context.Context, token string, u wish.User) error {
	if err := s.kv.Set(ctx, KeyAuthToken, token); err != nil {
		return err
	}
	return s.SetUser(ctx, u)
}

// Clear removes the token and user. It runs on logout and on any 401.
func (s *Session) Clear(ctx context.Context) error {
	return s.kv.Remove(ctx, KeyAuthToken, KeyUser)
}

func (s *Session) LoggedIn(ctx context.Context) (bool, error) {
	tok, err := s.Token(ctx)
	return tok != "", err
}

func (s *Session) SignupEmail(ctx context.Context) (string, error) {
	v, _, err := s.kv.Get(ctx, KeySignupEmail)
	return v, err
}

func (s *Session) ResetPasswordEmail(ctx context.Context) (string, error) {
	v, _, err := s.kv.Get(ctx, KeyResetPasswordEmail)
	return v, err
}

func (s *Session) VerifiedEmail(ctx context.Context) (string, error) {
	v, _, err := s.kv.Get(ctx, KeyVerifiedEmail)
	return v, err
}

// BeginSignup records the email and names being verified.
func (s *Session) BeginSignup(ctx context.Context, email string, p SignupProfile) error {
	if err := s.kv.Set(ctx, KeySignupEmail, email); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode signup profile: %w", err)
	}
	return s.kv.Set(ctx, KeySignupProfile, string(data))
}

func (s *Session) SignupProfile(ctx context.Context) (SignupProfile, bool, error) {
	var p SignupProfile
	raw, ok, err := s.kv.Get(ctx, KeySignupProfile)
	if err != nil || !ok {
		return p, false, err
	}
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return p, false, fmt.Errorf("decode signup profile: %w", err)
	}
	return p, true, nil
}

func (s *Session) BeginReset(ctx context.Context, email string) error {
	return s.kv.Set(ctx, KeyResetPasswordEmail, email)
}

// MarkVerified stores the verified email and drops the pending OTP emails.
func (s *Session) MarkVerified(ctx context.Context, email string) error {
	if err := s.kv.Set(ctx, KeyVerifiedEmail, email); err != nil {
		return err
	}
	return s.kv.Remove(ctx, KeySignupEmail, KeyResetPasswordEmail)
}

// FinishPassword drops every OTP-flow key once a password has been set.
func (s *Session) FinishPassword(ctx context.Context) error {
	return s.kv.Remove(ctx, KeyVerifiedEmail, KeySignupEmail, KeyResetPasswordEmail, KeySignupProfile, KeyOTPSentAt)
}

// OTPSentAt is when a code was last requested; zero if never.
func (s *Session) OTPSentAt(ctx context.Context) (time.Time, error) {
	raw, ok, err := s.kv.Get(ctx, KeyOTPSentAt)
	if err != nil || !ok {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, nil
	}
	return t, nil
}

func (s *Session) MarkOTPSent(ctx context.Context, at time.Time) error {
	return s.kv.Set(ctx, KeyOTPSentAt, at.UTC().Format(time.RFC3339Nano))
}
