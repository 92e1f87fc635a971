// Package nav models Wishline screens as routes and performs route changes
// with a bounded retry while the navigator is not ready.
package nav

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	PathLogin          = "/login"
	PathSignup         = "/signup"
	PathVerifyOTP      = "/verify-otp"
	PathSetPassword    = "/set-password"
	PathForgotPassword = "/forgot-password"
	PathDashboard      = "/(tabs)"
	PathCategories     = "/(tabs)/categories"
	PathProfile        = "/(tabs)/profile"
	PathSettings       = "/(tabs)/settings"
)

// FlowType tells the OTP and set-password screens which flow they belong to.
type FlowType string

const (
	FlowSignup FlowType = ""
	FlowReset  FlowType = "reset"
)

func ParseFlowType(s string) FlowType {
	if strings.EqualFold(strings.TrimSpace(s), string(FlowReset)) {
		return FlowReset
	}
	return FlowSignup
}

type Route struct {
	Path  string
	Query url.Values
}

func (r Route) Param(key string) string {
	return r.Query.Get(key)
}

func (r Route) Flow() FlowType {
	return ParseFlowType(r.Param("type"))
}

func (r Route) String() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Parse reads a route such as "/verify-otp?email=a%40b.com&type=reset".
func Parse(s string) (Route, error) {
	u, err := url.Parse(s)
	if err != nil {
		return Route{}, fmt.Errorf("parse route %q: %w", s, err)
	}
	if !strings.HasPrefix(u.Path, "/") {
		return Route{}, fmt.Errorf("parse route %q: path must start with /", s)
	}
	r := Route{Path: u.Path}
	if q := u.Query(); len(q) > 0 {
		r.Query = q
	}
	return r, nil
}

func with(path string, kv ...string) Route {
	r := Route{Path: path}
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		if r.Query == nil {
			r.Query = url.Values{}
		}
		r.Query.Set(kv[i], kv[i+1])
	}
	return r
}

// Login optionally carries a success banner.
func Login(message string) Route { return with(PathLogin, "message", message) }

func Signup() Route { return with(PathSignup) }

func VerifyOTP(email string, flow FlowType) Route {
	return with(PathVerifyOTP, "email", email, "type", string(flow))
}

func SetPassword(flow FlowType) Route {
	return with(PathSetPassword, "type", string(flow))
}

func ForgotPassword() Route { return with(PathForgotPassword) }
func Dashboard() Route      { return with(PathDashboard) }
func Categories() Route     { return with(PathCategories) }
func Profile() Route        { return with(PathProfile) }
func Settings() Route       { return with(PathSettings) }

// StartOver is where a flow without an email goes back to.
func StartOver(flow FlowType) Route {
	if flow == FlowReset {
		return ForgotPassword()
	}
	return Signup()
}

// Command is the wishline invocation that opens r.
func (r Route) Command() string {
	switch r.Path {
	case PathLogin:
		return "wishline login"
	case PathSignup:
		return "wishline signup"
	case PathVerifyOTP:
		cmd := "wishline verify"
		if e := r.Param("email"); e != "" {
			cmd += " --email " + e
		}
		if r.Flow() == FlowReset {
			cmd += " --type reset"
		}
		return cmd
	case PathSetPassword:
		if r.Flow() == FlowReset {
			return "wishline set-password --type reset"
		}
		return "wishline set-password"
	case PathForgotPassword:
		return "wishline forgot-password"
	case PathDashboard:
		return "wishline dashboard"
	case PathCategories:
		return "wishline categories list"
	case PathProfile:
		return "wishline profile show"
	case PathSettings:
		return "wishline settings theme"
	default:
		return "wishline"
	}
}
