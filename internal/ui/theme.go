package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"wishline/internal/theme"
)

// Wishline styles (CLI + TUI). Use swaps every style to the given scheme.

const (
	IconStar    = "⭐"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconList    = "📋"
	IconFolder  = "📁"
	IconUser    = "👤"
	IconMail    = "✉️"
	IconLock    = "🔒"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "❌"
	IconPalette = "🎨"
	IconPulse   = "📶"
)

// Palette is one scheme's colors.
type Palette struct {
	Text      lipgloss.Color
	TextMuted lipgloss.Color
	Card      lipgloss.Color
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Border    lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
}

var (
	LightPalette = Palette{
		Text:      lipgloss.Color("#1e1e1e"),
		TextMuted: lipgloss.Color("#6a6a6a"),
		Card:      lipgloss.Color("#ffffff"),
		Primary:   lipgloss.Color("#00a36c"),
		Secondary: lipgloss.Color("#004d40"),
		Accent:    lipgloss.Color("#55e68c"),
		Border:    lipgloss.Color("#d2d2d2"),
		Error:     lipgloss.Color("#dc2626"),
		Success:   lipgloss.Color("#16a34a"),
		Warning:   lipgloss.Color("#d97706"),
	}
	DarkPalette = Palette{
		Text:      lipgloss.Color("#ffffff"),
		TextMuted: lipgloss.Color("#afafaf"),
		Card:      lipgloss.Color("#1e1e1e"),
		Primary:   lipgloss.Color("#00d88b"),
		Secondary: lipgloss.Color("#006b5c"),
		Accent:    lipgloss.Color("#55e68c"),
		Border:    lipgloss.Color("#3a3a3a"),
		Error:     lipgloss.Color("#ef4444"),
		Success:   lipgloss.Color("#22c55e"),
		Warning:   lipgloss.Color("#f59e0b"),
	}
)

func PaletteFor(s theme.Scheme) Palette {
	if s == theme.SchemeDark {
		return DarkPalette
	}
	return LightPalette
}

var (
	Title lipgloss.Style
	H2    lipgloss.Style
	Muted lipgloss.Style
	Key   lipgloss.Style
	Good  lipgloss.Style
	Warn  lipgloss.Style
	Bad   lipgloss.Style
	Dim   lipgloss.Style

	Panel       lipgloss.Style
	PanelTitle  lipgloss.Style
	SelectedRow lipgloss.Style

	current = theme.SchemeLight
)

func init() {
	Use(theme.SchemeLight)
}

// Use rebuilds the styles for s. Not safe to call while rendering.
func Use(s theme.Scheme) {
	p := PaletteFor(s)
	current = s

	Title = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	H2 = lipgloss.NewStyle().Bold(true).Foreground(p.Secondary)
	if s == theme.SchemeDark {
		H2 = H2.Foreground(p.Accent)
	}
	Muted = lipgloss.NewStyle().Foreground(p.TextMuted)
	Key = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	Good = lipgloss.NewStyle().Bold(true).Foreground(p.Success)
	Warn = lipgloss.NewStyle().Bold(true).Foreground(p.Warning)
	Bad = lipgloss.NewStyle().Bold(true).Foreground(p.Error)
	Dim = lipgloss.NewStyle().Foreground(p.TextMuted).Faint(true)

	Panel = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(0, 1)
	PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(p.Primary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(p.Card).Background(p.Primary)
}

func Current() theme.Scheme { return current }

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}
