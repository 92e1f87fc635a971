// Package backendtest is an in-memory Wishline backend for tests. It speaks the
// same envelopes and error bodies as the real service.
package backendtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"wishline/internal/wish"
)

// Code is the OTP every registration and reset accepts.
const Code = "123456"

type Options struct {
	// SingleObjectLists returns one-element lists as a bare object.
	SingleObjectLists bool
	// NullEmptyLists returns empty lists as data: null.
	NullEmptyLists bool
	// ErrorCodes adds a machine-readable code to error bodies.
	ErrorCodes bool
	TokenTTL   time.Duration
}

type user struct {
	wish.User
	password string
	verified bool
	code     string
}

// Request is a recorded call.
type Request struct {
	Method    string
	Path      string
	Body      string
	Auth      string
	RequestID string
}

type fault struct {
	status int
	body   string
}

type Backend struct {
	opts   Options
	secret []byte

	mu         sync.Mutex
	users      map[string]*user // by email
	tasks      map[string]wish.Task
	categories map[string]categoryRow
	requests   []Request
	faults     map[string]fault
	now        func() time.Time
}

type categoryRow struct {
	wish.Category
	owner string
}

func New(opts Options) *Backend {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = time.Hour
	}
	return &Backend{
		opts:       opts,
		secret:     []byte(uuid.NewString()),
		users:      map[string]*user{},
		tasks:      map[string]wish.Task{},
		categories: map[string]categoryRow{},
		faults:     map[string]fault{},
		now:        time.Now,
	}
}

// Start serves b under /api on an httptest server closed at test cleanup and
// returns the base URL to hand to api.NewClient.
func Start(t testing.TB, opts Options) (*Backend, string) {
	t.Helper()
	b := New(opts)
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return b, srv.URL + "/api"
}

func (b *Backend) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(b.record)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", b.health)

		r.Post("/user", b.register)
		r.Post("/user/verify", b.verify)
		r.Put("/user/updatepassword", b.updatePassword)
		r.Post("/user/login", b.login)
		r.Post("/user/reset-password", b.resetPassword)

		r.Group(func(r chi.Router) {
			r.Use(b.auth)
			r.Put("/user/profile", b.updateProfile)

			r.Get("/category", b.listCategories)
			r.Post("/category", b.createCategory)
			r.Put("/category/{id}", b.updateCategory)
			r.Delete("/category/{id}", b.deleteCategory)

			r.Get("/task", b.listTasks)
			r.Post("/task", b.createTask)
			r.Get("/task/{id}", b.getTask)
			r.Put("/task/{id}", b.updateTask)
			r.Delete("/task/{id}", b.deleteTask)
		})
	})
	return r
}

// Fail makes every following request to method+path answer with status and a
// raw body until cleared with status 0.
func (b *Backend) Fail(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := method + " " + path
	if status == 0 {
		delete(b.faults, key)
		return
	}
	b.faults[key] = fault{status: status, body: body}
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// LastRequest returns the most recent call to method+path.
func (b *Backend) LastRequest(method, path string) (Request, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		r := b.requests[i]
		if r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Request{}, false
}

// AddUser creates a verified user with a password.
func (b *Backend) AddUser(first, last, email, password string) wish.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := &user{
		User:     wish.User{ID: uuid.NewString(), FirstName: first, LastName: last, Email: email},
		password: password,
		verified: true,
	}
	b.users[strings.ToLower(email)] = u
	return u.User
}

// User returns the stored profile for email.
func (b *Backend) User(email string) (wish.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[strings.ToLower(email)]
	if !ok {
		return wish.User{}, false
	}
	return u.User, true
}

// Token mints a bearer token for email.
func (b *Backend) Token(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[strings.ToLower(email)]
	if !ok {
		return ""
	}
	return b.mint(u)
}

func (b *Backend) mint(u *user) string {
	now := b.now()
	claims := jwt.MapClaims{
		"sub":   u.ID,
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(b.opts.TokenTTL).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		panic(err)
	}
	return tok
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))
		path := strings.TrimPrefix(r.URL.Path, "/api")

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:    r.Method,
			Path:      path,
			Body:      string(body),
			Auth:      r.Header.Get("Authorization"),
			RequestID: r.Header.Get("X-Request-ID"),
		})
		f, faulted := b.faults[r.Method+" "+path]
		b.mu.Unlock()

		if faulted {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" {
			b.fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "No token provided")
			return
		}
		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return b.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(b.now))
		if err != nil {
			b.fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}
		email, _ := claims["email"].(string)

		b.mu.Lock()
		u, ok := b.users[strings.ToLower(email)]
		b.mu.Unlock()
		if !ok {
			b.fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "User no longer exists")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), u)))
	})
}

func (b *Backend) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "operational",
		"message":   "All systems go.",
		"region":    "local",
		"checkedAt": b.now().UTC().Format(time.RFC3339Nano),
		"latencyMs": 3,
	})
}

func (b *Backend) fail(w http.ResponseWriter, status int, code, message string) {
	body := map[string]string{"message": message}
	if b.opts.ErrorCodes && code != "" {
		body["code"] = code
	}
	writeJSON(w, status, body)
}

func (b *Backend) ok(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, map[string]any{"success": true, "message": message, "data": data})
}

// list applies the list-shape options.
func (b *Backend) list(w http.ResponseWriter, message string, items []any) {
	switch {
	case len(items) == 0 && b.opts.NullEmptyLists:
		b.ok(w, http.StatusOK, message, nil)
	case len(items) == 1 && b.opts.SingleObjectLists:
		b.ok(w, http.StatusOK, message, items[0])
	default:
		b.ok(w, http.StatusOK, message, items)
	}
}

func decode(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *Backend) stamp() string {
	return b.now().UTC().Format("2006-01-02T15:04:05.000Z")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
