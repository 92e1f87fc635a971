package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed call.
type Kind string

const (
	KindNetwork Kind = "network"
	KindTimeout Kind = "timeout"
	KindHTTP    Kind = "http"
)

// Messages shown when nothing better is available.
const (
	MsgTimeout  = "Request timeout. Please check your connection."
	MsgNetwork  = "Network error. Please check your internet connection."
	MsgFallback = "An error occurred. Please try again."
)

// Error codes the backend may send alongside message.
const (
	CodeUserExists  = "USER_EXISTS"
	CodeNotVerified = "USER_NOT_VERIFIED"
)

// Error is every failure returned by Client. Message is always human readable.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Detail includes status and code for logs.
func (e *Error) Detail() string {
	switch {
	case e.Kind != KindHTTP:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Code != "":
		return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
	default:
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
}

// httpMessage picks the first non-empty of backend message, status text,
// transport text, fallback.
func httpMessage(status int, backendMsg, transportMsg string) string {
	if m := strings.TrimSpace(backendMsg); m != "" {
		return m
	}
	if t := http.StatusText(status); t != "" {
		return t
	}
	if transportMsg != "" {
		return transportMsg
	}
	return MsgFallback
}

func asError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsUnauthorized(err error) bool {
	e, ok := asError(err)
	return ok && e.Kind == KindHTTP && e.Status == http.StatusUnauthorized
}

func IsTimeout(err error) bool {
	e, ok := asError(err)
	return ok && e.Kind == KindTimeout
}

// IsAlreadyRegistered reports a signup for an existing email. Backends without
// error codes are matched on their message text.
func IsAlreadyRegistered(err error) bool {
	e, ok := asError(err)
	if !ok {
		return false
	}
	if e.Code != "" {
		return e.Code == CodeUserExists
	}
	return strings.Contains(strings.ToLower(e.Message), "already present")
}

// IsNotVerified reports a password set for an email whose OTP was never verified.
func IsNotVerified(err error) bool {
	e, ok := asError(err)
	if !ok {
		return false
	}
	if e.Code != "" {
		return e.Code == CodeNotVerified
	}
	return strings.Contains(strings.ToLower(e.Message), "not verified")
}
