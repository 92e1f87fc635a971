package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wishline/internal/ui"
	"wishline/internal/wish"
)

func newProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or edit your profile",
	}

	cmd.AddCommand(newProfileShowCmd(), newProfileEditCmd())

	return cmd
}

func printUser(a *app, u wish.User) error {
	if a.cfg.Format != formatTable {
		return render(a.out, a.cfg.Format, u, rows{})
	}
	fmt.Fprintln(a.out, ui.Heading(ui.IconUser, u.Initials()+"  "+u.FullName()))
	fmt.Fprintln(a.out, ui.LabelValue("Email", u.Email))
	fmt.Fprintln(a.out, ui.LabelValue("ID", u.ID))
	return nil
}

func newProfileShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				u, err := a.requireUser(ctx)
				if err != nil {
					return err
				}
				return printUser(a, u)
			})
		},
	}

	return cmd
}

func newProfileEditCmd() *cobra.Command {
	var first, last string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Change your first and last name",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				current, err := a.requireUser(ctx)
				if err != nil {
					return err
				}
				form := wish.ProfileForm{FirstName: current.FirstName, LastName: current.LastName}
				if cmd.Flags().Changed("first") {
					form.FirstName = first
				}
				if cmd.Flags().Changed("last") {
					form.LastName = last
				}
				u, err := a.flows.UpdateProfile(ctx, form)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.out, ui.Good.Render(ui.IconDone+" Profile updated"))
				return printUser(a, u)
			})
		},
	}

	cmd.Flags().StringVar(&first, "first", "", "First name")
	cmd.Flags().StringVar(&last, "last", "", "Last name")

	return cmd
}
