package wish

import (
	"regexp"
	"sort"
	"strings"
)

// Field names used as keys in Result.
const (
	FieldForm            = "form"
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
	FieldCode            = "code"
	FieldCategoryName    = "categoryName"
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldTargetDate      = "targetDate"
	FieldPriority        = "priority"
	FieldStatus          = "status"
)

const (
	minNameLen     = 3
	minPasswordLen = 6
	maxPasswordLen = 15
	CodeLength     = 6
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result is the outcome of a form validation: one message per failing field.
type Result struct {
	Fields map[string]string
}

func (r *Result) Add(field, msg string) {
	if r.Fields == nil {
		r.Fields = map[string]string{}
	}
	if _, exists := r.Fields[field]; exists {
		return
	}
	r.Fields[field] = msg
}

func (r Result) OK() bool { return len(r.Fields) == 0 }

func (r Result) Get(field string) string { return r.Fields[field] }

// Messages returns field messages ordered by field name.
func (r Result) Messages() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.Fields[k])
	}
	return out
}

func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

type SignupForm struct {
	FirstName string
	LastName  string
	Email     string
}

func (f SignupForm) Validate() Result {
	var r Result
	if len(strings.TrimSpace(f.FirstName)) < minNameLen {
		r.Add(FieldFirstName, "First name must be at least 3 characters")
	}
	if len(strings.TrimSpace(f.LastName)) < minNameLen {
		r.Add(FieldLastName, "Last name must be at least 3 characters")
	}
	switch {
	case strings.TrimSpace(f.Email) == "":
		r.Add(FieldEmail, "Email is required")
	case !IsValidEmail(f.Email):
		r.Add(FieldEmail, "Please enter a valid email")
	}
	return r
}

type LoginForm struct {
	Email    string
	Password string
}

func (f LoginForm) Validate() Result {
	var r Result
	if f.Email == "" || f.Password == "" {
		r.Add(FieldForm, "Please enter both email and password")
	}
	return r
}

type PasswordForm struct {
	Password string
	Confirm  string
}

func (f PasswordForm) Validate() Result {
	var r Result
	switch {
	case len(f.Password) < minPasswordLen:
		r.Add(FieldPassword, "Password must be at least 6 characters")
	case len(f.Password) > maxPasswordLen:
		r.Add(FieldPassword, "Password must be less than 15 characters")
	}
	if f.Password != f.Confirm {
		r.Add(FieldConfirmPassword, "Passwords do not match")
	}
	return r
}

type ForgotPasswordForm struct {
	Email string
}

func (f ForgotPasswordForm) Validate() Result {
	var r Result
	switch {
	case strings.TrimSpace(f.Email) == "":
		r.Add(FieldEmail, "Email is required")
	case !IsValidEmail(f.Email):
		r.Add(FieldEmail, "Please enter a valid email address")
	}
	return r
}

type ProfileForm struct {
	FirstName string
	LastName  string
}

func (f ProfileForm) Validate() Result {
	var r Result
	if strings.TrimSpace(f.FirstName) == "" {
		r.Add(FieldFirstName, "First name is required")
	}
	if strings.TrimSpace(f.LastName) == "" {
		r.Add(FieldLastName, "Last name is required")
	}
	return r
}

type CategoryForm struct {
	Name   string
	Parent string
}

func (f CategoryForm) Validate() Result {
	var r Result
	if strings.TrimSpace(f.Name) == "" {
		r.Add(FieldCategoryName, "Category name is required")
	}
	return r
}

// ValidateCode checks a joined OTP code.
func ValidateCode(code string) Result {
	var r Result
	if len(code) != CodeLength {
		r.Add(FieldCode, "Please enter the complete 6-digit code")
		return r
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			r.Add(FieldCode, "Please enter the complete 6-digit code")
			break
		}
	}
	return r
}
