package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"wishline/internal/wish"
)

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type RegisteredUser struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

type VerifyRequest struct {
	Email            string `json:"email"`
	VerificationCode string `json:"verificationCode"`
}

type PasswordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	User    wish.User `json:"user"`
	Token   string    `json:"token"`
	Message string    `json:"-"`
}

type ProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthService wraps the /user endpoints.
type AuthService struct {
	c *Client
}

func NewAuthService(c *Client) *AuthService {
	return &AuthService{c: c}
}

// Register creates an unverified user and triggers an OTP email.
func (s *AuthService) Register(ctx context.Context, in RegisterRequest) (RegisteredUser, string, error) {
	env, err := s.c.call(ctx, http.MethodPost, "/user", in)
	if err != nil {
		return RegisteredUser{}, "", err
	}
	var u RegisteredUser
	if !isNull(env.Data) {
		if err := json.Unmarshal(env.Data, &u); err != nil {
			return RegisteredUser{}, "", fmt.Errorf("decode register: %w", err)
		}
	}
	return u, env.Message, nil
}

// VerifyOTP returns the verified email.
func (s *AuthService) VerifyOTP(ctx context.Context, in VerifyRequest) (string, error) {
	env, err := s.c.call(ctx, http.MethodPost, "/user/verify", in)
	if err != nil {
		return "", err
	}
	return dataString(env), nil
}

func (s *AuthService) UpdatePassword(ctx context.Context, in PasswordRequest) (string, error) {
	env, err := s.c.call(ctx, http.MethodPut, "/user/updatepassword", in)
	if err != nil {
		return "", err
	}
	return dataString(env), nil
}

func (s *AuthService) Login(ctx context.Context, in LoginRequest) (LoginResult, error) {
	env, err := s.c.call(ctx, http.MethodPost, "/user/login", in)
	if err != nil {
		return LoginResult{}, err
	}
	var out LoginResult
	if isNull(env.Data) {
		return out, ErrEmptyPayload
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return LoginResult{}, fmt.Errorf("decode login: %w", err)
	}
	if out.Token == "" {
		return LoginResult{}, fmt.Errorf("login: %w", ErrEmptyPayload)
	}
	out.Message = env.Message
	return out, nil
}

// ForgotPassword sends a reset OTP to email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	env, err := s.c.call(ctx, http.MethodPost, "/user/reset-password", map[string]string{"email": email})
	if err != nil {
		return "", err
	}
	return env.Message, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, in ProfileRequest) (wish.User, error) {
	env, err := s.c.call(ctx, http.MethodPut, "/user/profile", in)
	if err != nil {
		return wish.User{}, err
	}
	return decodeOne[wish.User](env.Data)
}

// dataString returns data when it is a JSON string, else the envelope message.
func dataString(env *envelope) string {
	var s string
	if err := json.Unmarshal(env.Data, &s); err == nil && s != "" {
		return s
	}
	return env.Message
}
