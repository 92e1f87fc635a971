package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wishline/internal/theme"
	"wishline/internal/ui"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Local preferences",
	}

	cmd.AddCommand(newThemeCmd())

	return cmd
}

func newThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "theme [light|dark|system]",
		Short:     "Show or set the color theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "system"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if len(args) == 1 {
					p, err := theme.ParsePreference(args[0])
					if err != nil {
						return err
					}
					unsubscribe := a.themes.Subscribe(func(c theme.Change) { ui.Use(c.Scheme) })
					defer unsubscribe()
					if err := a.themes.Set(ctx, p); err != nil {
						return err
					}
				}
				fmt.Fprintln(a.out, ui.Heading(ui.IconPalette, "Theme"))
				fmt.Fprintln(a.out, ui.LabelValue("Preference", a.themes.Get()))
				fmt.Fprintln(a.out, ui.LabelValue("Showing", a.themes.Scheme()))
				return nil
			})
		},
	}

	return cmd
}
