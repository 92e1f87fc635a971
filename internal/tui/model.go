package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wishline/internal/theme"
	"wishline/internal/ui"
	"wishline/internal/wish"
)

// TaskSource is what the board needs from the task service.
type TaskSource interface {
	List(ctx context.Context) ([]wish.Task, error)
	SetStatus(ctx context.Context, id string, status wish.Status) (wish.Task, error)
	Update(ctx context.Context, id string, patch wish.TaskPatch) (wish.Task, error)
}

type boardModel struct {
	ctx    context.Context
	tasks  TaskSource
	themes *theme.Store
	user   wish.User

	width  int
	height int

	wishes  []wish.Task // most recently touched first
	summary wish.Summary

	expanded map[string]bool
	selected int

	lastLog string
	loading bool
	err     error
}

type loadedMsg struct {
	tasks []wish.Task
	err   error
}

type savedMsg struct {
	task wish.Task
	verb string
	err  error
}

type themeMsg struct {
	change theme.Change
	err    error
}

func newBoardModel(ctx context.Context, tasks TaskSource, themes *theme.Store, user wish.User) boardModel {
	return boardModel{
		ctx:      ctx,
		tasks:    tasks,
		themes:   themes,
		user:     user,
		expanded: map[string]bool{},
		loading:  true,
		lastLog:  "Loading wishes…",
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m boardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.tasks.List(m.ctx)
		return loadedMsg{tasks: tasks, err: err}
	}
}

func (m boardModel) completeCmd(id string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.tasks.SetStatus(m.ctx, id, wish.StatusCompleted)
		return savedMsg{task: t, verb: "Completed", err: err}
	}
}

func (m boardModel) toggleSubTaskCmd(t wish.Task, idx int) tea.Cmd {
	subs := append([]wish.SubTask(nil), t.SubTasks...)
	subs[idx].IsCompleted = !subs[idx].IsCompleted
	return func() tea.Msg {
		updated, err := m.tasks.Update(m.ctx, t.ID, wish.TaskPatch{SubTasks: &subs})
		return savedMsg{task: updated, verb: "Updated", err: err}
	}
}

func (m boardModel) cycleThemeCmd() tea.Cmd {
	if m.themes == nil {
		return nil
	}
	next := theme.PreferenceSystem
	for i, p := range theme.Preferences {
		if p == m.themes.Get() {
			next = theme.Preferences[(i+1)%len(theme.Preferences)]
		}
	}
	return func() tea.Msg {
		err := m.themes.Set(m.ctx, next)
		return themeMsg{change: theme.Change{Preference: m.themes.Get(), Scheme: m.themes.Scheme()}, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.lastLog = "Load failed: " + msg.err.Error()
			return m, nil
		}
		m.summary = wish.Summarize(msg.tasks, wish.RecentLimit)
		m.wishes = wish.Summarize(msg.tasks, -1).Recent
		m.lastLog = fmt.Sprintf("Refreshed at %s.", time.Now().Format("15:04:05"))
		return m, nil
	case savedMsg:
		if msg.err != nil {
			m.lastLog = "Save failed: " + msg.err.Error()
			return m, nil
		}
		m.lastLog = fmt.Sprintf("%s %q.", msg.verb, msg.task.Title)
		return m, m.loadCmd()
	case themeMsg:
		if msg.err != nil {
			m.lastLog = "Theme not saved: " + msg.err.Error()
			return m, nil
		}
		ui.Use(msg.change.Scheme)
		m.lastLog = fmt.Sprintf("Theme: %s (%s).", msg.change.Preference, msg.change.Scheme)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			m.lastLog = "Refreshing…"
			return m, m.loadCmd()
		case "t":
			return m, m.cycleThemeCmd()
		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		case "down", "j":
			lines := m.wishLines()
			if m.selected < len(lines)-1 {
				m.selected++
			}
			return m, nil
		case "enter":
			line, ok := m.selectedLine()
			if ok && line.sub < 0 && line.hasSubs {
				id := m.wishes[line.wish].ID
				m.expanded[id] = !m.expanded[id]
			}
			return m, nil
		case "c", " ":
			line, ok := m.selectedLine()
			if !ok {
				return m, nil
			}
			t := m.wishes[line.wish]
			if line.sub >= 0 {
				m.lastLog = "Saving subtask…"
				return m, m.toggleSubTaskCmd(t, line.sub)
			}
			if t.Status == wish.StatusCompleted {
				m.lastLog = "Already completed."
				return m, nil
			}
			m.lastLog = fmt.Sprintf("Completing %q…", t.Title)
			return m, m.completeCmd(t.ID)
		}
	}
	return m, nil
}

// wishLine is one row: a wish (sub == -1) or one of its subtasks.
type wishLine struct {
	wish    int
	sub     int
	hasSubs bool
}

func (m boardModel) wishLines() []wishLine {
	var out []wishLine
	for i, t := range m.wishes {
		out = append(out, wishLine{wish: i, sub: -1, hasSubs: len(t.SubTasks) > 0})
		if !m.expanded[t.ID] {
			continue
		}
		for j := range t.SubTasks {
			out = append(out, wishLine{wish: i, sub: j})
		}
	}
	return out
}

func (m boardModel) selectedLine() (wishLine, bool) {
	lines := m.wishLines()
	if m.selected < 0 || m.selected >= len(lines) {
		return wishLine{}, false
	}
	return lines[m.selected], true
}

func (m boardModel) View() string {
	if m.err != nil {
		return ui.Bad.Render("Error: "+m.err.Error()) + "\n\nPress r to retry or q to quit.\n"
	}

	header := m.renderHeader()
	sidebar := m.renderSidebar()
	main := m.renderMain()
	footer := m.renderFooter()

	leftW := 30
	if m.width > 0 {
		maxLeft := m.width / 2
		if maxLeft < leftW {
			leftW = maxLeft
		}
		if leftW < 20 {
			leftW = 20
		}
	}

	linesLeft := strings.Split(sidebar, "\n")
	linesRight := strings.Split(main, "\n")
	rows := max(len(linesLeft), len(linesRight))

	var body strings.Builder
	for i := 0; i < rows; i++ {
		l, r := "", ""
		if i < len(linesLeft) {
			l = linesLeft[i]
		}
		if i < len(linesRight) {
			r = linesRight[i]
		}
		body.WriteString(padRight(l, leftW))
		body.WriteString("  ")
		body.WriteString(r)
		body.WriteString("\n")
	}
	return header + "\n" + body.String() + footer
}

func (m boardModel) renderHeader() string {
	name := m.user.FullName()
	if name == "" {
		name = "there"
	}
	return ui.Heading(ui.IconStar, "Wishline") + "  " + ui.Muted.Render("Welcome back, "+name)
}

func (m boardModel) renderSidebar() string {
	lines := []string{ui.PanelTitle.Render("Dashboard")}
	if m.loading && m.summary.Total == 0 {
		lines = append(lines, "Total: …", "Completed: …")
	} else {
		lines = append(lines,
			fmt.Sprintf("Total: %d", m.summary.Total),
			fmt.Sprintf("Completed: %d", m.summary.Completed),
			ui.ProgressBar(m.summary.Percent(), 14),
		)
	}
	lines = append(lines, "", ui.PanelTitle.Render("Keys"),
		"- ↑/↓ or j/k: move",
		"- enter: show subtasks",
		"- c/space: complete/toggle",
		"- t: cycle theme",
		"- r: refresh",
		"- q: quit",
	)
	return strings.Join(lines, "\n")
}

func (m boardModel) renderMain() string {
	if m.loading && len(m.wishes) == 0 {
		return "Loading…"
	}
	out := []string{ui.PanelTitle.Render("Recent")}
	if len(m.summary.Recent) == 0 {
		out = append(out, ui.Muted.Render("No wishes yet. Add one with `wishline wishes add`."))
	}
	for _, t := range m.summary.Recent {
		out = append(out, fmt.Sprintf("- %s  %s", t.Title, ui.StatusText(t.Status)))
	}
	out = append(out, "", ui.PanelTitle.Render("All wishes"))

	lines := m.wishLines()
	if len(lines) == 0 {
		out = append(out, "(empty)")
		return strings.Join(out, "\n")
	}
	for i, ln := range lines {
		cursor := "  "
		if i == m.selected {
			cursor = "> "
		}
		t := m.wishes[ln.wish]
		if ln.sub >= 0 {
			st := t.SubTasks[ln.sub]
			box := "[ ]"
			if st.IsCompleted {
				box = "[x]"
			}
			out = append(out, fmt.Sprintf("%s    %s %s", cursor, box, st.Description))
			continue
		}
		fold := "  "
		if ln.hasSubs {
			if m.expanded[t.ID] {
				fold = "▾ "
			} else {
				fold = "▸ "
			}
		}
		out = append(out, fmt.Sprintf("%s%s%s  %s  %s  %s",
			cursor, fold, t.Title, ui.PriorityText(t.Priority), ui.StatusText(t.Status), ui.Muted.Render(t.Category)))
	}
	return strings.Join(out, "\n")
}

func (m boardModel) renderFooter() string {
	return "\n" + ui.Muted.Render(m.lastLog)
}

func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
