package root

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"wishline/internal/ui"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// rows is a rendered table: headers plus string cells.
type rows struct {
	headers []string
	cells   [][]string
}

// render writes data as JSON or YAML, or t as a table.
func render(out io.Writer, format string, data any, t rows) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case formatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		if len(t.cells) == 0 {
			fmt.Fprintln(out, ui.Muted.Render("(empty)"))
			return nil
		}
		tbl := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(ui.Dim).
			Headers(t.headers...).
			Rows(t.cells...).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return ui.Key.Padding(0, 1)
				}
				return lipgloss.NewStyle().Padding(0, 1)
			})
		fmt.Fprintln(out, tbl.Render())
		return nil
	}
}
