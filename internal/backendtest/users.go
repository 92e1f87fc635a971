package backendtest

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"wishline/internal/wish"
)

type userCtxKey struct{}

func withUser(ctx context.Context, u *user) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

func currentUser(r *http.Request) *user {
	u, _ := r.Context().Value(userCtxKey{}).(*user)
	return u
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
	}
	if err := decode(r, &in); err != nil || in.Email == "" {
		b.fail(w, http.StatusBadRequest, "BAD_REQUEST", "Email is required")
		return
	}

	b.mu.Lock()
	key := strings.ToLower(in.Email)
	u, exists := b.users[key]
	if exists && u.password != "" {
		b.mu.Unlock()
		b.fail(w, http.StatusConflict, "USER_EXISTS", "User already present with this email")
		return
	}
	if !exists {
		u = &user{User: wish.User{ID: uuid.NewString(), Email: in.Email}}
		b.users[key] = u
	}
	u.FirstName, u.LastName = in.FirstName, in.LastName
	u.code = Code
	u.verified = false
	out := map[string]string{"id": u.ID, "name": u.FullName(), "email": u.Email}
	b.mu.Unlock()

	b.ok(w, http.StatusCreated, "Verification code sent to email", out)
}

func (b *Backend) verify(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email            string `json:"email"`
		VerificationCode string `json:"verificationCode"`
	}
	if err := decode(r, &in); err != nil {
		b.fail(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[strings.ToLower(in.Email)]
	if !ok {
		b.fail(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}
	if u.code == "" || in.VerificationCode != u.code {
		b.fail(w, http.StatusBadRequest, "INVALID_CODE", "Invalid verification code")
		return
	}
	u.code = ""
	u.verified = true
	b.ok(w, http.StatusOK, "User verified successfully", u.Email)
}

func (b *Backend) updatePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &in); err != nil {
		b.fail(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[strings.ToLower(in.Email)]
	if !ok {
		b.fail(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}
	if !u.verified {
		b.fail(w, http.StatusForbidden, "USER_NOT_VERIFIED", "User not verified")
		return
	}
	u.password = in.Password
	b.ok(w, http.StatusOK, "Password updated successfully", u.Email)
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decode(r, &in); err != nil {
		b.fail(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[strings.ToLower(in.Email)]
	if !ok || u.password == "" || u.password != in.Password {
		b.fail(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		return
	}
	b.ok(w, http.StatusOK, "Login successful", map[string]any{
		"user":  u.User,
		"token": b.mint(u),
	})
}

// resetPassword issues a new code; the user must verify again before the
// password can change.
func (b *Backend) resetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := decode(r, &in); err != nil {
		b.fail(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[strings.ToLower(in.Email)]
	if !ok {
		b.fail(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
		return
	}
	u.code = Code
	u.verified = false
	b.ok(w, http.StatusOK, "Password reset code sent to email", u.Email)
}

func (b *Backend) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
	}
	if err := decode(r, &in); err != nil {
		b.fail(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}
	u := currentUser(r)

	b.mu.Lock()
	u.FirstName, u.LastName = in.FirstName, in.LastName
	out := u.User
	b.mu.Unlock()

	b.ok(w, http.StatusOK, "Profile updated successfully", out)
}
