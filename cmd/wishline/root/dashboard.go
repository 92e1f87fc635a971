package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wishline/internal/tui"
	"wishline/internal/ui"
	"wishline/internal/wish"
)

func newDashboardCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show wish totals and the most recent wishes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				u, err := a.requireUser(ctx)
				if err != nil {
					return err
				}
				if interactive {
					return tui.RunBoard(ctx, a.tasks, a.themes, u, a.out)
				}

				tasks, err := a.tasks.List(ctx)
				if err != nil {
					return err
				}
				s := wish.Summarize(tasks, wish.RecentLimit)
				if a.cfg.Format != formatTable {
					return render(a.out, a.cfg.Format, s, rows{})
				}

				fmt.Fprintln(a.out, ui.Heading(ui.IconStar, "Welcome back, "+u.FullName()))
				fmt.Fprintln(a.out, ui.LabelValue("Total wishes", s.Total))
				fmt.Fprintln(a.out, ui.LabelValue("Completed", s.Completed))
				fmt.Fprintln(a.out, ui.ProgressBar(s.Percent(), 20))
				fmt.Fprintln(a.out, "")
				fmt.Fprintln(a.out, ui.H2.Render(ui.IconList+" Recent wishes"))
				if len(s.Recent) == 0 {
					fmt.Fprintln(a.out, ui.Muted.Render("No wishes yet. Add one with `wishline wishes add`."))
					return nil
				}
				for _, t := range s.Recent {
					fmt.Fprintf(a.out, "- %s %s %s\n", t.Title, ui.StatusText(t.Status), ui.Muted.Render(t.Category))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&interactive, "tui", false, "Open the interactive board")

	return cmd
}
