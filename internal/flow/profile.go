package flow

import (
	"context"
	"strings"

	"wishline/internal/api"
	"wishline/internal/wish"
)

// UpdateProfile saves new names and replaces the stored user with the
// backend's copy.
func (f *Flows) UpdateProfile(ctx context.Context, form wish.ProfileForm) (wish.User, error) {
	if _, err := f.RequireUser(ctx); err != nil {
		return wish.User{}, err
	}
	if err := invalid(form.Validate()); err != nil {
		return wish.User{}, err
	}
	u, err := f.auth.UpdateProfile(ctx, api.ProfileRequest{
		FirstName: strings.TrimSpace(form.FirstName),
		LastName:  strings.TrimSpace(form.LastName),
	})
	if err != nil {
		return wish.User{}, fieldError(wish.FieldForm, messageOr(err, "Failed to update profile. Please try again."), err)
	}
	if err := f.session.SetUser(ctx, u); err != nil {
		return wish.User{}, err
	}
	return u, nil
}
