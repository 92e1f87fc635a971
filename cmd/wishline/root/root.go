package root

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"wishline/internal/flow"
	"wishline/internal/ui"
)

const Version = "0.1.0"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wishline",
		Short:         "Wishline — track wishes, goals and their subtasks",
		Long:          "Wishline is a CLI/TUI client for the Wishline backend: sign up, verify your email, and manage wishes and categories.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: ./wishline.yaml, ~/.wishline/wishline.yaml)")
	flags.String("api", "", "Backend base URL, e.g. http://localhost:3000/api")
	flags.String("store", "", "Local store path")
	flags.String("driver", "", "Local store driver (sqlite|json)")
	flags.Duration("timeout", 0, "Request timeout")
	flags.String("format", "table", "Output format (table|json|yaml)")
	flags.BoolP("verbose", "v", false, "Also log to stderr")

	rootCmd.AddCommand(
		newSignupCmd(),
		newVerifyCmd(),
		newSetPasswordCmd(),
		newForgotPasswordCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newDashboardCmd(),
		newWishesCmd(),
		newCategoriesCmd(),
		newProfileCmd(),
		newSettingsCmd(),
		newStatusCmd(),
	)

	return rootCmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		os.Exit(1)
	}
}

func renderError(err error) string {
	var ve *flow.ValidationError
	if errors.As(err, &ve) && len(ve.Result.Messages()) > 0 {
		return ui.FieldErrors(ve.Result.Messages())
	}
	return ui.Bad.Render(ui.IconError + " " + err.Error())
}
