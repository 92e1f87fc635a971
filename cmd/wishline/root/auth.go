package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wishline/internal/flow"
	"wishline/internal/nav"
	"wishline/internal/tui"
	"wishline/internal/ui"
	"wishline/internal/wish"
)

func newSignupCmd() *cobra.Command {
	var form wish.SignupForm

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and receive a verification code",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.flows.Signup(ctx, form); err != nil {
					return err
				}
				fmt.Fprintln(a.out, ui.Good.Render(ui.IconMail+" Verification code sent to "+form.Email))
				a.printNext()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&form.FirstName, "first", "", "First name (at least 3 characters)")
	cmd.Flags().StringVar(&form.LastName, "last", "", "Last name (at least 3 characters)")
	cmd.Flags().StringVar(&form.Email, "email", "", "Email address")

	return cmd
}

func newVerifyCmd() *cobra.Command {
	var flowType string
	var email string
	var code string
	var resend bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Enter the 6-digit code sent to your email",
		Long:  "Verify the emailed code. Without --code an interactive editor opens (paste with ctrl+v, resend with ctrl+r).",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				o, err := a.flows.StartOTP(ctx, nav.VerifyOTP(email, nav.ParseFlowType(flowType)))
				if err != nil {
					if errors.Is(err, flow.ErrMissingEmail) {
						a.printNext()
					}
					return err
				}

				if resend {
					if err := o.Resend(ctx); err != nil {
						return err
					}
					fmt.Fprintln(a.out, ui.Good.Render(ui.IconMail+" A new code was sent to "+o.Email))
					if code == "" {
						return nil
					}
				}

				if code != "" {
					o.Editor.Paste(code)
					if err := o.Submit(ctx); err != nil {
						return err
					}
					fmt.Fprintln(a.out, ui.Good.Render(ui.IconDone+" Email verified"))
					a.printNext()
					return nil
				}

				res, err := tui.RunOTP(ctx, a.flows, o, a.out)
				if err != nil {
					return err
				}
				if !res.Verified {
					fmt.Fprintln(a.out, ui.Muted.Render("Verification not completed."))
					return nil
				}
				fmt.Fprintln(a.out, ui.Good.Render(ui.IconDone+" Email verified"))
				a.printNext()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&flowType, "type", "", "Flow type: empty for signup, reset for password reset")
	cmd.Flags().StringVar(&email, "email", "", "Email the code was sent to (defaults to the pending signup or reset)")
	cmd.Flags().StringVar(&code, "code", "", "The 6-digit code; skips the interactive editor")
	cmd.Flags().BoolVar(&resend, "resend", false, "Request a new code")

	return cmd
}

func newSetPasswordCmd() *cobra.Command {
	var flowType string
	var form wish.PasswordForm

	cmd := &cobra.Command{
		Use:   "set-password",
		Short: "Choose a password after verifying your email",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.flows.SetPassword(ctx, nav.ParseFlowType(flowType), form); err != nil {
					return err
				}
				a.printNext()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&flowType, "type", "", "Flow type: empty for signup, reset for password reset")
	cmd.Flags().StringVar(&form.Password, "password", "", "New password (6-15 characters)")
	cmd.Flags().StringVar(&form.Confirm, "confirm", "", "Repeat the password")

	return cmd
}

func newForgotPasswordCmd() *cobra.Command {
	var form wish.ForgotPasswordForm

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Send a password reset code",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.flows.ForgotPassword(ctx, form); err != nil {
					return err
				}
				fmt.Fprintln(a.out, ui.Good.Render(ui.IconMail+" Reset code sent to "+form.Email))
				a.printNext()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&form.Email, "email", "", "Account email")

	return cmd
}

func newLoginCmd() *cobra.Command {
	var form wish.LoginForm
	var redirect string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				u, _, err := a.flows.Login(ctx, form, redirect)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, ui.Good.Render(ui.IconDone+" Welcome back, "+u.FullName()))
				a.printNext()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&form.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&form.Password, "password", "", "Password")
	cmd.Flags().StringVar(&redirect, "redirect", "", "Route to open after login, e.g. /(tabs)/categories")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.flows.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(a.out, ui.Muted.Render("Logged out."))
				a.printNext()
				return nil
			})
		},
	}

	return cmd
}
