package report

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column represents a column configuration
type Column struct {
	Header string
	Align  lipgloss.Position
}

// Table is a static text table. Column widths follow the widest cell.
type Table struct {
	columns []Column
	rows    [][]string

	headerStyle lipgloss.Style
	rowStyle    lipgloss.Style
	borderStyle lipgloss.Style
}

// NewTable creates a bordered table
func NewTable(columns ...Column) *Table {
	palette := DefaultPalette()

	return &Table{
		columns: columns,

		headerStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Padding(0, 1),

		rowStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1),

		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),
	}
}

// AddRow adds a row to the table
func (t *Table) AddRow(data ...string) *Table {
	t.rows = append(t.rows, data)
	return t
}

// View renders the table
func (t *Table) View() string {
	if len(t.columns) == 0 {
		return "No columns defined"
	}

	widths := t.columnWidths()
	var content strings.Builder

	// Заголовки
	for i, col := range t.columns {
		content.WriteString(t.renderCell(col.Header, widths[i], col.Align, t.headerStyle))
		if i < len(t.columns)-1 {
			content.WriteString("│")
		}
	}
	content.WriteString("\n")

	for i, w := range widths {
		content.WriteString(strings.Repeat("─", w))
		if i < len(widths)-1 {
			content.WriteString("┼")
		}
	}

	for _, row := range t.rows {
		content.WriteString("\n")
		for i, col := range t.columns {
			cellData := ""
			if i < len(row) {
				cellData = row[i]
			}
			content.WriteString(t.renderCell(cellData, widths[i], col.Align, t.rowStyle))
			if i < len(t.columns)-1 {
				content.WriteString("│")
			}
		}
	}

	return t.borderStyle.Render(content.String())
}

// renderCell renders a single padded cell
func (t *Table) renderCell(content string, width int, align lipgloss.Position, style lipgloss.Style) string {
	return style.Width(width).Align(align).Render(content)
}

// columnWidths returns the rendered width of each column including padding
func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		widths[i] = lipgloss.Width(col.Header)
	}
	for _, row := range t.rows {
		for i := range t.columns {
			if i < len(row) {
				if w := lipgloss.Width(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}
	return widths
}
