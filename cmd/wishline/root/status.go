package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"wishline/internal/api"
	"wishline/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show backend health and the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				st := a.system.Status(ctx)
				if a.cfg.Format != formatTable {
					return render(a.out, a.cfg.Format, st, rows{})
				}

				fmt.Fprintln(a.out, ui.Heading(ui.IconPulse, "System Status"))
				fmt.Fprintln(a.out, ui.LabelValue("Backend", a.client.BaseURL()))
				fmt.Fprintln(a.out, ui.LabelValue("Status", healthText(st.Status)))
				if st.Message != "" {
					fmt.Fprintln(a.out, ui.LabelValue("Message", st.Message))
				}
				if st.Region != "" {
					fmt.Fprintln(a.out, ui.LabelValue("Region", st.Region))
				}
				fmt.Fprintln(a.out, ui.LabelValue("Latency", fmt.Sprintf("%dms", st.LatencyMs)))
				if st.Fallback {
					fmt.Fprintln(a.out, ui.Warn.Render(ui.IconWarn+" status endpoint unreachable; showing fallback"))
				}
				fmt.Fprintln(a.out, "")

				fmt.Fprintln(a.out, ui.H2.Render(ui.IconLock+" Session"))
				u, ok, err := a.session.User(ctx)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(a.out, "- "+ui.Muted.Render("not logged in"))
					return nil
				}
				fmt.Fprintf(a.out, "- %s %s <%s>\n", ui.Key.Render("User:"), u.FullName(), u.Email)
				token, err := a.session.Token(ctx)
				if err != nil {
					return err
				}
				claims, ok := api.InspectToken(token)
				switch {
				case !ok:
					fmt.Fprintf(a.out, "- %s %s\n", ui.Key.Render("Token:"), ui.Muted.Render("opaque"))
				case claims.ExpiresAt.IsZero():
					fmt.Fprintf(a.out, "- %s %s\n", ui.Key.Render("Token:"), ui.Good.Render("no expiry"))
				case claims.Expired(time.Now()):
					fmt.Fprintf(a.out, "- %s %s\n", ui.Key.Render("Token:"), ui.Bad.Render("expired "+claims.ExpiresAt.Local().Format(time.RFC1123)))
				default:
					fmt.Fprintf(a.out, "- %s %s\n", ui.Key.Render("Token:"), ui.Good.Render("valid until "+claims.ExpiresAt.Local().Format(time.RFC1123)))
				}
				return nil
			})
		},
	}

	return cmd
}

func healthText(h api.Health) string {
	switch h {
	case api.HealthOperational:
		return ui.Good.Render(string(h))
	case api.HealthDegraded:
		return ui.Warn.Render(string(h))
	default:
		return ui.Bad.Render(string(h))
	}
}
