package flow

import (
	"context"

	"wishline/internal/api"
	"wishline/internal/nav"
	"wishline/internal/wish"
)

// MsgLoginFailed is shown when a failed login carries no message.
const MsgLoginFailed = "Login failed. Please check your credentials."

// Login stores the token and user and opens redirect, or the dashboard when
// redirect is empty. A failed login leaves the store untouched.
func (f *Flows) Login(ctx context.Context, form wish.LoginForm, redirect string) (wish.User, nav.Route, error) {
	if err := invalid(form.Validate()); err != nil {
		return wish.User{}, nav.Route{}, err
	}
	res, err := f.auth.Login(ctx, api.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		return wish.User{}, nav.Route{}, fieldError(wish.FieldForm, messageOr(err, MsgLoginFailed), err)
	}
	if err := f.session.Start(ctx, res.Token, res.User); err != nil {
		return wish.User{}, nav.Route{}, err
	}

	next := nav.Dashboard()
	if redirect != "" {
		if r, err := nav.Parse(redirect); err == nil {
			next = r
		} else {
			f.log.Warn("ignoring bad redirect", "redirect", redirect, "err", err)
		}
	}
	f.log.Info("logged in", "user_id", res.User.ID)
	f.nav.SafeNavigate(ctx, next, 0)
	return res.User, next, nil
}

func (f *Flows) Logout(ctx context.Context) error {
	if err := f.session.Clear(ctx); err != nil {
		return err
	}
	f.nav.SafeNavigate(ctx, nav.Login(""), 0)
	return nil
}
