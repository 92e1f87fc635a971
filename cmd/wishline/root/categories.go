package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wishline/internal/api"
	"wishline/internal/flow"
	"wishline/internal/ui"
	"wishline/internal/wish"
)

func newCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "List and manage categories",
	}

	cmd.AddCommand(
		newCategoryListCmd(),
		newCategoryAddCmd(),
		newCategoryEditCmd(),
		newCategoryDeleteCmd(),
	)

	return cmd
}

func newCategoryListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.requireUser(ctx); err != nil {
					return err
				}
				cats, err := a.categories.List(ctx)
				if err != nil {
					return err
				}
				t := rows{headers: []string{"ID", "Name", "Parent"}}
				for _, c := range cats {
					t.cells = append(t.cells, []string{c.ID, c.Name, c.Parent()})
				}
				return render(a.out, a.cfg.Format, cats, t)
			})
		},
	}

	return cmd
}

func newCategoryAddCmd() *cobra.Command {
	var form wish.CategoryForm

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				form.Name = args[0]
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.requireUser(ctx); err != nil {
					return err
				}
				if r := form.Validate(); !r.OK() {
					return &flow.ValidationError{Result: r}
				}
				c, err := a.categories.Create(ctx, api.CategoryInput{
					Name:   strings.TrimSpace(form.Name),
					Parent: strings.TrimSpace(form.Parent),
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s %s %s\n", ui.Good.Render(ui.IconFolder+" Added"), c.Name, ui.Muted.Render("("+c.ID+")"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&form.Parent, "parent", "", "Parent category name")

	return cmd
}

func newCategoryEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id> <new-name>",
		Short: "Rename a category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.requireUser(ctx); err != nil {
					return err
				}
				form := wish.CategoryForm{Name: args[1]}
				if r := form.Validate(); !r.OK() {
					return &flow.ValidationError{Result: r}
				}
				c, err := a.categories.Rename(ctx, args[0], strings.TrimSpace(form.Name))
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s %s\n", ui.Good.Render(ui.IconDone+" Renamed to"), c.Name)
				return nil
			})
		},
	}

	return cmd
}

func newCategoryDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  idArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.requireUser(ctx); err != nil {
					return err
				}
				if err := a.categories.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(a.out, ui.Muted.Render("Deleted "+args[0]+"."))
				return nil
			})
		},
	}

	return cmd
}
