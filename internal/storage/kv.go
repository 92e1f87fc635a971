package storage

import "context"

// Keys persisted on the device. All values are plain strings; User and the
// signup profile are JSON.
const (
	KeyAuthToken          = "authToken"
	KeyUser               = "user"
	KeyThemePreference    = "themePreference"
	KeySignupEmail        = "signupEmail"
	KeySignupProfile      = "signupProfile"
	KeyResetPasswordEmail = "resetPasswordEmail"
	KeyVerifiedEmail      = "verifiedEmail"
	KeyOTPSentAt          = "otpSentAt"
)

// KV is the device-local key-value store.
// Get reports ok=false for a missing key rather than an error.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, keys ...string) error
	List(ctx context.Context) ([]Entry, error)
	Close() error
}

// Driver names accepted by OpenKV.
const (
	DriverSQLite = "sqlite"
	DriverJSON   = "json"
)
