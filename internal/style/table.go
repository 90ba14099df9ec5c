package style

import (
	"strings"
)

// Column describes one table column: a header and a fixed width.
type Column struct {
	Name  string
	Width int
}

// Table is a plain-text fixed-width table. Rendering never emits ANSI
// codes; callers style individual cells before adding them if they want
// color.
type Table struct {
	columns   []Column
	rows      [][]string
	headerSep bool
	indent    string
}

// NewTable creates a table with the given columns.
func NewTable(columns ...Column) *Table {
	return &Table{
		columns:   columns,
		headerSep: true,
		indent:    "  ",
	}
}

// SetIndent sets the left indent for every line. Chainable.
func (t *Table) SetIndent(indent string) *Table {
	t.indent = indent
	return t
}

// SetHeaderSeparator toggles the dashed line under the header. Chainable.
func (t *Table) SetHeaderSeparator(on bool) *Table {
	t.headerSep = on
	return t
}

// AddRow appends a row. Missing cells render empty; extra cells are
// dropped. Chainable.
func (t *Table) AddRow(values ...string) *Table {
	row := make([]string, len(t.columns))
	for i := range t.columns {
		if i < len(values) {
			row[i] = values[i]
		}
	}
	t.rows = append(t.rows, row)
	return t
}

// Render produces the table as a string, one trailing newline included.
func (t *Table) Render() string {
	if len(t.columns) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(t.indent)
	for i, col := range t.columns {
		b.WriteString(pad(col.Name, col.Width))
		if i < len(t.columns)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString("\n")

	if t.headerSep {
		b.WriteString(t.indent)
		for i, col := range t.columns {
			b.WriteString(strings.Repeat("-", col.Width))
			if i < len(t.columns)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	for _, row := range t.rows {
		b.WriteString(t.indent)
		for i, col := range t.columns {
			b.WriteString(pad(row[i], col.Width))
			if i < len(t.columns)-1 {
				b.WriteString("  ")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}

// pad fits s into width: truncated with an ellipsis when too long, space
// padded when too short. The last column still pads so separators align.
func pad(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return s + strings.Repeat(" ", width-len(runes))
}
