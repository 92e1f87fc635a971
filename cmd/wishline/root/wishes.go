package root

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wishline/internal/api"
	"wishline/internal/flow"
	"wishline/internal/ui"
	"wishline/internal/wish"
)

func newWishesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "wishes",
		Aliases: []string{"wish"},
		Short:   "List and manage wishes",
	}

	cmd.AddCommand(
		newWishListCmd(),
		newWishAddCmd(),
		newWishEditCmd(),
		newWishDeleteCmd(),
		newWishStatusCmd("done", "Mark a wish completed", wish.StatusCompleted),
		newWishStatusCmd("reopen", "Mark a wish not started", wish.StatusNotStarted),
	)

	return cmd
}

func idArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errors.New("id is required")
	}
	return nil
}

func newWishListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wishes, most recently touched first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.requireUser(ctx); err != nil {
					return err
				}
				tasks, err := a.tasks.List(ctx)
				if err != nil {
					return err
				}
				tasks = wish.Summarize(tasks, -1).Recent

				t := rows{headers: []string{"ID", "Title", "Category", "Priority", "Status", "Target", "Subtasks"}}
				for _, w := range tasks {
					target := ""
					if ts, ok := w.Target(); ok {
						target = ts.Format("2006-01-02")
					}
					subs := ""
					if len(w.SubTasks) > 0 {
						subs = fmt.Sprintf("%d/%d", w.CompletedSubTasks(), len(w.SubTasks))
					}
					t.cells = append(t.cells, []string{
						w.ID, w.Title, w.Category, ui.PriorityText(w.Priority), ui.StatusText(w.Status), target, subs,
					})
				}
				return render(a.out, a.cfg.Format, tasks, t)
			})
		},
	}

	return cmd
}

// wishFlags binds the add/edit form fields.
type wishFlags struct {
	title       string
	description string
	category    string
	priority    string
	target      string
	status      string
	subtasks    []string
}

func (f *wishFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Title")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "Description")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "Category (defaults to the first category)")
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "Priority (high|medium|low)")
	cmd.Flags().StringVar(&f.target, "target", "", "Target date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&f.status, "status", "s", "", "Status (not-started|in-progress|completed)")
	cmd.Flags().StringArrayVar(&f.subtasks, "subtask", nil, "Subtask description (repeatable)")
}

// apply copies the flags that were set onto form.
func (f *wishFlags) apply(cmd *cobra.Command, form *wish.WishForm) error {
	changed := cmd.Flags().Changed
	if changed("title") {
		form.Title = f.title
	}
	if changed("description") {
		form.Description = f.description
	}
	if changed("category") {
		form.Category = f.category
	}
	if changed("target") {
		form.TargetDate = f.target
	}
	if changed("priority") {
		p, err := wish.ParsePriority(f.priority)
		if err != nil {
			return err
		}
		form.Priority = p
	}
	if changed("status") {
		s, err := wish.ParseStatus(f.status)
		if err != nil {
			return err
		}
		form.Status = s
	}
	if changed("subtask") {
		form.SubTasks = nil
		for _, d := range f.subtasks {
			form.AddSubTask(d)
		}
	}
	return nil
}

// categoryNames loads category names, falling back to the built-in list.
func (a *app) categoryNames(ctx context.Context) []string {
	cats, err := a.categories.List(ctx)
	if err != nil || len(cats) == 0 {
		if err != nil {
			a.log.Warn("categories unavailable, using fallback list", "err", err)
		}
		return wish.FallbackCategories
	}
	return api.Names(cats)
}

func newWishAddCmd() *cobra.Command {
	var f wishFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a wish",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.requireUser(ctx); err != nil {
					return err
				}
				form := wish.NewWishForm()
				form.ApplyCategories(a.categoryNames(ctx))
				if err := f.apply(cmd, &form); err != nil {
					return err
				}
				if r := form.Validate(); !r.OK() {
					return &flow.ValidationError{Result: r}
				}
				in, err := form.Input()
				if err != nil {
					return err
				}
				t, err := a.tasks.Create(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s %s %s\n", ui.Good.Render(ui.IconPlus+" Added"), t.Title, ui.Muted.Render("("+t.ID+")"))
				return nil
			})
		},
	}

	f.bind(cmd)

	return cmd
}

func newWishEditCmd() *cobra.Command {
	var f wishFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a wish; unset flags keep their current values",
		Args:  idArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.requireUser(ctx); err != nil {
					return err
				}
				current, err := a.tasks.Get(ctx, args[0])
				if err != nil {
					return err
				}
				form := wish.FormFromTask(current)
				if err := f.apply(cmd, &form); err != nil {
					return err
				}
				if r := form.Validate(); !r.OK() {
					return &flow.ValidationError{Result: r}
				}
				patch, err := form.Patch()
				if err != nil {
					return err
				}
				t, err := a.tasks.Update(ctx, form.EditingID(), patch)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s %s\n", ui.Good.Render(ui.IconDone+" Updated"), t.Title)
				return nil
			})
		},
	}

	f.bind(cmd)

	return cmd
}

func newWishDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a wish",
		Args:  idArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.requireUser(ctx); err != nil {
					return err
				}
				if err := a.tasks.Delete(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(a.out, ui.Muted.Render("Deleted "+args[0]+"."))
				return nil
			})
		},
	}

	return cmd
}

func newWishStatusCmd(use, short string, status wish.Status) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  idArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.requireUser(ctx); err != nil {
					return err
				}
				t, err := a.tasks.SetStatus(ctx, args[0], status)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s %s\n", ui.StatusText(t.Status), t.Title)
				return nil
			})
		},
	}

	return cmd
}
