package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wishline/internal/wish"
)

// StatusText colors a wish status.
func StatusText(s wish.Status) string {
	label := string(wish.StatusToFrontend(s))
	if label == "" {
		label = string(s)
	}
	switch s {
	case wish.StatusCompleted:
		return Good.Render(label)
	case wish.StatusInProgress:
		return H2.Render(label)
	case wish.StatusNotStarted:
		return Warn.Render(label)
	default:
		return Muted.Render(label)
	}
}

func PriorityText(p wish.Priority) string {
	label := string(wish.PriorityToFrontend(p))
	if label == "" {
		label = string(p)
	}
	switch p {
	case wish.PriorityHigh:
		return Bad.Render(label)
	case wish.PriorityNormal:
		return Warn.Render(label)
	default:
		return Muted.Render(label)
	}
}

type ButtonVariant string

const (
	ButtonPrimary   ButtonVariant = "primary"
	ButtonSecondary ButtonVariant = "secondary"
	ButtonOutline   ButtonVariant = "outline"
)

// Button renders a key hint such as "[enter] Verify".
func Button(variant ButtonVariant, key, label string) string {
	p := PaletteFor(current)
	st := lipgloss.NewStyle().Padding(0, 1)
	switch variant {
	case ButtonPrimary:
		st = st.Bold(true).Foreground(p.Card).Background(p.Primary)
	case ButtonSecondary:
		st = st.Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(p.Secondary)
	default:
		st = st.Foreground(p.Primary).Border(lipgloss.NormalBorder(), false, true).BorderForeground(p.Primary)
	}
	if key != "" {
		label = "[" + key + "] " + label
	}
	return st.Render(label)
}

// Slot renders one OTP box; focused boxes use the primary border and boxes
// in error use the error color.
func Slot(value string, focused, hasError bool) string {
	p := PaletteFor(current)
	border := p.Border
	switch {
	case hasError:
		border = p.Error
	case focused:
		border = p.Primary
	}
	if value == "" {
		value = " "
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Foreground(p.Text).
		Bold(true).
		Padding(0, 1).
		Render(value)
}

// FieldErrors renders validation messages under a form, one per line.
func FieldErrors(messages []string) string {
	if len(messages) == 0 {
		return ""
	}
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, Bad.Render(IconError+" "+m))
	}
	return strings.Join(lines, "\n")
}

// ProgressBar draws a width-cell bar for pct (0..100).
func ProgressBar(pct, width int) string {
	if width <= 0 {
		width = 20
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * width / 100
	return Good.Render(strings.Repeat("█", filled)) + Dim.Render(strings.Repeat("░", width-filled)) + fmt.Sprintf(" %d%%", pct)
}
