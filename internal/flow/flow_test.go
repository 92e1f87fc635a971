package flow

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"wishline/internal/api"
	"wishline/internal/backendtest"
	"wishline/internal/nav"
	"wishline/internal/storage"
	"wishline/internal/wish"
)

type recordingSleeper struct {
	slept []time.Duration
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.slept = append(s.slept, d)
	return nil
}

type testEnv struct {
	flows   *Flows
	backend *backendtest.Backend
	kv      storage.KV
	stack   *nav.Stack
	sleeper *recordingSleeper
	now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	kv, err := storage.OpenKV(ctx, storage.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open kv: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	session := storage.NewSession(kv)

	b, baseURL := backendtest.Start(t, backendtest.Options{})
	client := api.NewClient(api.Options{BaseURL: baseURL, Timeout: 5 * time.Second, Tokens: session})

	env := &testEnv{
		backend: b,
		kv:      kv,
		stack:   nav.NewStack(true),
		sleeper: &recordingSleeper{},
		now:     time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	helper := nav.NewHelper(env.stack, nil)
	helper.Sleeper = env.sleeper

	env.flows = New(Deps{
		Session: session,
		Auth:    api.NewAuthService(client),
		Nav:     helper,
		Now:     func() time.Time { return env.now },
	})
	return env
}

func (e *testEnv) current(t *testing.T) nav.Route {
	t.Helper()
	r, ok := e.stack.Current()
	if !ok {
		t.Fatalf("no route navigated")
	}
	return r
}

func (e *testEnv) get(t *testing.T, key string) string {
	t.Helper()
	v, _, err := e.kv.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get %s: %v", key, err)
	}
	return v
}

func typeCode(o *OTP, code string) {
	for _, c := range code {
		o.Editor.Input(string(c))
	}
}

func TestSignupOTPSetPasswordEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.flows.Signup(ctx, wish.SignupForm{FirstName: "Ada", LastName: "Lovelace", Email: "a@b.com"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if got := env.get(t, storage.KeySignupEmail); got != "a@b.com" {
		t.Fatalf("signupEmail = %q", got)
	}
	route := env.current(t)
	if route.Path != nav.PathVerifyOTP {
		t.Fatalf("after signup at %s", route)
	}

	otp, err := env.flows.StartOTP(ctx, route)
	if err != nil {
		t.Fatalf("StartOTP: %v", err)
	}
	if otp.Email != "a@b.com" || otp.State != StateEditing {
		t.Fatalf("otp = %+v", otp)
	}
	typeCode(otp, backendtest.Code)
	if err := otp.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if otp.State != StateVerified {
		t.Fatalf("state = %s", otp.State)
	}
	if got := env.get(t, storage.KeyVerifiedEmail); got != "a@b.com" {
		t.Fatalf("verifiedEmail = %q", got)
	}
	if got := env.get(t, storage.KeySignupEmail); got != "" {
		t.Fatalf("signupEmail still set: %q", got)
	}
	if r := env.current(t); r.String() != "/set-password" {
		t.Fatalf("after verify at %s", r)
	}

	next, err := env.flows.SetPassword(ctx, nav.FlowSignup, wish.PasswordForm{Password: "secret1", Confirm: "secret1"})
	if err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if next.Path != nav.PathLogin || next.Param("message") != MsgPasswordSet {
		t.Fatalf("next = %s", next)
	}
	entries, err := env.kv.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("flow keys left behind: %+v", entries)
	}

	u, dest, err := env.flows.Login(ctx, wish.LoginForm{Email: "a@b.com", Password: "secret1"}, "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.FirstName != "Ada" || dest.Path != nav.PathDashboard {
		t.Fatalf("login user=%+v dest=%s", u, dest)
	}
	if env.get(t, storage.KeyAuthToken) == "" {
		t.Fatalf("token not stored")
	}
}

func TestLoginWrongPasswordLeavesStoreEmpty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.backend.AddUser("Ada", "Lovelace", "a@b.com", "secret1")

	_, _, err := env.flows.Login(ctx, wish.LoginForm{Email: "a@b.com", Password: "wrong"}, "")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if ve.Field(wish.FieldForm) != "Invalid email or password" {
		t.Fatalf("form error = %q", ve.Field(wish.FieldForm))
	}
	if env.get(t, storage.KeyAuthToken) != "" || env.get(t, storage.KeyUser) != "" {
		t.Fatalf("session written on failed login")
	}
	if _, ok := env.stack.Current(); ok {
		t.Fatalf("navigated away from login")
	}
}

// silentAuth fails logins without a message.
type silentAuth struct {
	AuthAPI
}

func (silentAuth) Login(context.Context, api.LoginRequest) (api.LoginResult, error) {
	return api.LoginResult{}, errors.New("")
}

func TestLoginFallbackMessage(t *testing.T) {
	env := newTestEnv(t)
	f := New(Deps{Session: env.flows.Session(), Auth: silentAuth{}})

	_, _, err := f.Login(context.Background(), wish.LoginForm{Email: "a@b.com", Password: "secret1"}, "")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if got := ve.Field(wish.FieldForm); got != MsgLoginFailed {
		t.Fatalf("message = %q, want %q", got, MsgLoginFailed)
	}
	if env.get(t, storage.KeyAuthToken) != "" {
		t.Fatalf("token stored after failed login")
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	env := newTestEnv(t)
	_, _, err := env.flows.Login(context.Background(), wish.LoginForm{Email: "a@b.com"}, "")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field(wish.FieldForm) != "Please enter both email and password" {
		t.Fatalf("err = %v", err)
	}
	if len(env.backend.Requests()) != 0 {
		t.Fatalf("validation failure reached the backend")
	}
}

func TestLoginRedirect(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddUser("Ada", "Lovelace", "a@b.com", "secret1")
	_, dest, err := env.flows.Login(context.Background(), wish.LoginForm{Email: "a@b.com", Password: "secret1"}, "/(tabs)/categories")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if dest.Path != nav.PathCategories {
		t.Fatalf("dest = %s", dest)
	}
}

func TestSignupAlreadyRegistered(t *testing.T) {
	env := newTestEnv(t)
	env.backend.AddUser("Ada", "Lovelace", "a@b.com", "secret1")

	err := env.flows.Signup(context.Background(), wish.SignupForm{FirstName: "Ada", LastName: "Lovelace", Email: "a@b.com"})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field(wish.FieldEmail) != msgAlreadyRegistered {
		t.Fatalf("err = %v", err)
	}
	if env.get(t, storage.KeySignupEmail) != "" {
		t.Fatalf("signupEmail stored for a failed signup")
	}
}

func TestOTPWrongCodeClearsEditor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if err := env.flows.Signup(ctx, wish.SignupForm{FirstName: "Ada", LastName: "Lovelace", Email: "a@b.com"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	otp, err := env.flows.StartOTP(ctx, env.current(t))
	if err != nil {
		t.Fatalf("StartOTP: %v", err)
	}

	typeCode(otp, "000000")
	if err := otp.Submit(ctx); err == nil {
		t.Fatalf("expected error for wrong code")
	}
	if otp.State != StateFailed || otp.Message != "Invalid verification code" {
		t.Fatalf("state=%s message=%q", otp.State, otp.Message)
	}
	if diff := cmp.Diff([]string{"", "", "", "", "", ""}, otp.Editor.Slots()); diff != "" {
		t.Fatalf("slots not cleared (-want +got):\n%s", diff)
	}
	if otp.Editor.Focus() != 0 {
		t.Fatalf("focus = %d", otp.Editor.Focus())
	}
	if env.get(t, storage.KeySignupEmail) != "a@b.com" {
		t.Fatalf("signupEmail dropped on failure")
	}
}

func TestOTPIncompleteCode(t *testing.T) {
	env := newTestEnv(t)
	otp := &OTP{f: env.flows, Email: "a@b.com", State: StateEditing}
	typeCode(otp, "123")
	err := otp.Submit(context.Background())
	if err == nil || otp.Message != "Please enter the complete 6-digit code" {
		t.Fatalf("err=%v message=%q", err, otp.Message)
	}
	if otp.Editor.Code() != "123" {
		t.Fatalf("incomplete code was cleared")
	}
}

func TestOTPFinishFallbackMessages(t *testing.T) {
	otp := &OTP{Email: "a@b.com", State: StateEditing}
	typeCode(otp, "123456")

	code, err := otp.BeginSubmit()
	if err != nil || code != "123456" || otp.State != StateSubmitting || !otp.Busy() {
		t.Fatalf("BeginSubmit: code=%q err=%v state=%s", code, err, otp.State)
	}
	otp.FinishSubmit(nav.Route{}, errors.New(""))
	if otp.State != StateFailed || otp.Message != MsgVerifyFailed || otp.Editor.Code() != "" {
		t.Fatalf("after failed submit: state=%s message=%q code=%q", otp.State, otp.Message, otp.Editor.Code())
	}

	otp.BeginResend()
	if !otp.Busy() {
		t.Fatalf("resend not in flight")
	}
	otp.FinishResend(errors.New(""))
	if otp.Resending || otp.Message != MsgResendFailed {
		t.Fatalf("after failed resend: resending=%v message=%q", otp.Resending, otp.Message)
	}

	otp.BeginResend()
	otp.FinishResend(nil)
	if otp.State != StateEditing || otp.Message != "" {
		t.Fatalf("after resend: state=%s message=%q", otp.State, otp.Message)
	}

	typeCode(otp, "654321")
	otp.BeginSubmit()
	otp.FinishSubmit(nav.SetPassword(nav.FlowSignup), nil)
	if otp.State != StateVerified || otp.Next.Path != nav.PathSetPassword {
		t.Fatalf("after submit: state=%s next=%s", otp.State, otp.Next)
	}
}

func TestOTPMissingEmailRoutesBack(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.flows.StartOTP(context.Background(), nav.VerifyOTP("", nav.FlowReset))
	if !errors.Is(err, ErrMissingEmail) {
		t.Fatalf("err = %v", err)
	}
	if r := env.current(t); r.Path != nav.PathForgotPassword {
		t.Fatalf("routed to %s", r)
	}
}

func TestOTPEmailResolutionOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.flows.Session()

	route := nav.VerifyOTP("param@b.com", nav.FlowSignup)
	if got, _ := env.flows.ResolveEmail(ctx, route); got != "param@b.com" {
		t.Fatalf("param only: %q", got)
	}
	_ = s.BeginReset(ctx, "reset@b.com")
	if got, _ := env.flows.ResolveEmail(ctx, route); got != "reset@b.com" {
		t.Fatalf("reset before param: %q", got)
	}
	_ = s.BeginSignup(ctx, "signup@b.com", storage.SignupProfile{})
	if got, _ := env.flows.ResolveEmail(ctx, route); got != "signup@b.com" {
		t.Fatalf("signup first: %q", got)
	}
}

func TestResendCooldownKeepsSignupNames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	email := "first.last@b.com"
	if err := env.flows.Signup(ctx, wish.SignupForm{FirstName: "Ada", LastName: "Lovelace", Email: email}); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	err := env.flows.ResendCode(ctx, nav.FlowSignup, email)
	var ce CooldownError
	if !errors.As(err, &ce) || ce.Remaining != DefaultResendCooldown {
		t.Fatalf("err = %v, want full cooldown", err)
	}

	env.now = env.now.Add(DefaultResendCooldown + time.Second)
	if err := env.flows.ResendCode(ctx, nav.FlowSignup, email); err != nil {
		t.Fatalf("ResendCode: %v", err)
	}
	u, ok := env.backend.User(email)
	if !ok || u.FirstName != "Ada" || u.LastName != "Lovelace" {
		t.Fatalf("backend user = %+v", u)
	}
}

func TestResendDerivesNamesWithoutProfile(t *testing.T) {
	env := newTestEnv(t)
	if err := env.flows.ResendCode(context.Background(), nav.FlowSignup, "jane.doe@b.com"); err != nil {
		t.Fatalf("ResendCode: %v", err)
	}
	u, _ := env.backend.User("jane.doe@b.com")
	if u.FirstName != "jane" || u.LastName != "doe" {
		t.Fatalf("derived names = %+v", u)
	}
	if p := profileFromEmail("solo@b.com"); p.FirstName != "solo" || p.LastName != "Name" {
		t.Fatalf("profileFromEmail = %+v", p)
	}
}

func TestForgotPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.backend.AddUser("Ada", "Lovelace", "a@b.com", "secret1")

	next, err := env.flows.ForgotPassword(ctx, wish.ForgotPasswordForm{Email: "a@b.com"})
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	if next.String() != "/verify-otp?email=a%40b.com&type=reset" {
		t.Fatalf("next = %s", next)
	}
	if env.sleeper.slept[0] != DefaultResetDelay {
		t.Fatalf("initial delay = %v", env.sleeper.slept[0])
	}
	if env.get(t, storage.KeyResetPasswordEmail) != "a@b.com" {
		t.Fatalf("resetPasswordEmail not stored")
	}

	otp, err := env.flows.StartOTP(ctx, env.current(t))
	if err != nil {
		t.Fatalf("StartOTP: %v", err)
	}
	otp.Editor.Paste(backendtest.Code)
	if err := otp.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if otp.Next.String() != "/set-password?type=reset" {
		t.Fatalf("otp next = %s", otp.Next)
	}

	dest, err := env.flows.SetPassword(ctx, nav.FlowReset, wish.PasswordForm{Password: "newpass1", Confirm: "newpass1"})
	if err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if dest.Param("message") != MsgPasswordReset {
		t.Fatalf("message = %q", dest.Param("message"))
	}
	if _, _, err := env.flows.Login(ctx, wish.LoginForm{Email: "a@b.com", Password: "newpass1"}, ""); err != nil {
		t.Fatalf("Login with new password: %v", err)
	}
}

func TestSetPasswordNotVerified(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if err := env.flows.Signup(ctx, wish.SignupForm{FirstName: "Ada", LastName: "Lovelace", Email: "a@b.com"}); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if err := env.kv.Set(ctx, storage.KeyVerifiedEmail, "a@b.com"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_, err := env.flows.SetPassword(ctx, nav.FlowSignup, wish.PasswordForm{Password: "secret1", Confirm: "secret1"})
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field(wish.FieldPassword) != msgVerifyFirst {
		t.Fatalf("err = %v", err)
	}
}

func TestSetPasswordWithoutVerifiedEmail(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.flows.SetPassword(context.Background(), nav.FlowReset, wish.PasswordForm{Password: "secret1", Confirm: "secret1"})
	if !errors.Is(err, ErrMissingEmail) {
		t.Fatalf("err = %v", err)
	}
	if r := env.current(t); r.Path != nav.PathForgotPassword {
		t.Fatalf("routed to %s", r)
	}
}

func TestLogoutAndRequireUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.backend.AddUser("Ada", "Lovelace", "a@b.com", "secret1")
	if _, _, err := env.flows.Login(ctx, wish.LoginForm{Email: "a@b.com", Password: "secret1"}, ""); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := env.flows.RequireUser(ctx); err != nil {
		t.Fatalf("RequireUser: %v", err)
	}

	if err := env.flows.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if r := env.current(t); r.Path != nav.PathLogin {
		t.Fatalf("after logout at %s", r)
	}
	if _, err := env.flows.RequireUser(ctx); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("RequireUser after logout = %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.backend.AddUser("Ada", "Lovelace", "a@b.com", "secret1")
	if _, _, err := env.flows.Login(ctx, wish.LoginForm{Email: "a@b.com", Password: "secret1"}, ""); err != nil {
		t.Fatalf("Login: %v", err)
	}

	u, err := env.flows.UpdateProfile(ctx, wish.ProfileForm{FirstName: "Augusta", LastName: "King"})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	stored, _, _ := env.flows.Session().User(ctx)
	if diff := cmp.Diff(u, stored); diff != "" {
		t.Fatalf("stored user (-want +got):\n%s", diff)
	}
	if stored.FirstName != "Augusta" || stored.Email != "a@b.com" {
		t.Fatalf("stored = %+v", stored)
	}
}
