package flow

import (
	"fmt"
	"strings"
	"time"

	"wishline/internal/wish"
)

// ValidationError carries per-field messages for a form. Err is the backend
// error when the message came from a failed call.
type ValidationError struct {
	Result wish.Result
	Err    error
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Result.Messages(), "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

func (e *ValidationError) Field(name string) string { return e.Result.Get(name) }

func invalid(r wish.Result) error {
	if r.OK() {
		return nil
	}
	return &ValidationError{Result: r}
}

func fieldError(field, msg string, cause error) *ValidationError {
	var r wish.Result
	r.Add(field, msg)
	return &ValidationError{Result: r, Err: cause}
}

// CooldownError is returned when a code is requested again too soon.
type CooldownError struct {
	Remaining time.Duration
}

func (e CooldownError) Error() string {
	secs := int(e.Remaining.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return fmt.Sprintf("Please wait %ds before requesting a new code", secs)
}

// messageOr returns err's text, or fallback when it is empty.
func messageOr(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if m := err.Error(); m != "" {
		return m
	}
	return fallback
}
