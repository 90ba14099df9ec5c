package style

import (
	"strings"
	"testing"
)

func TestNewTable(t *testing.T) {
	tbl := NewTable(
		Column{Name: "Name", Width: 10},
		Column{Name: "Value", Width: 20},
	)
	if tbl == nil {
		t.Fatal("NewTable() returned nil")
	}
	if len(tbl.columns) != 2 {
		t.Errorf("columns = %d, want 2", len(tbl.columns))
	}
	if !tbl.headerSep {
		t.Error("headerSep should default to true")
	}
	if tbl.indent != "  " {
		t.Errorf("indent = %q, want %q", tbl.indent, "  ")
	}
}

func TestTable_SetIndent(t *testing.T) {
	tbl := NewTable(Column{Name: "A", Width: 5})
	ret := tbl.SetIndent("    ")
	if ret != tbl {
		t.Error("SetIndent should return the table for chaining")
	}
	if tbl.indent != "    " {
		t.Errorf("indent = %q, want %q", tbl.indent, "    ")
	}
}

func TestTable_SetHeaderSeparator(t *testing.T) {
	tbl := NewTable(Column{Name: "A", Width: 5})
	ret := tbl.SetHeaderSeparator(false)
	if ret != tbl {
		t.Error("SetHeaderSeparator should return the table for chaining")
	}
	if tbl.headerSep {
		t.Error("headerSep should be false")
	}
}

func TestTable_AddRow(t *testing.T) {
	tbl := NewTable(
		Column{Name: "A", Width: 5},
		Column{Name: "B", Width: 5},
	)

	t.Run("exact columns", func(t *testing.T) {
		tbl.AddRow("x", "y")
		if len(tbl.rows) != 1 {
			t.Fatalf("rows = %d, want 1", len(tbl.rows))
		}
		if tbl.rows[0][0] != "x" || tbl.rows[0][1] != "y" {
			t.Errorf("row = %v, want [x y]", tbl.rows[0])
		}
	})

	t.Run("fewer columns padded", func(t *testing.T) {
		tbl.AddRow("only-one")
		last := tbl.rows[len(tbl.rows)-1]
		if len(last) != 2 {
			t.Fatalf("row len = %d, want 2 (padded)", len(last))
		}
		if last[1] != "" {
			t.Errorf("padded value = %q, want empty", last[1])
		}
	})

	t.Run("extra columns dropped", func(t *testing.T) {
		tbl.AddRow("a", "b", "c", "d")
		last := tbl.rows[len(tbl.rows)-1]
		if len(last) != 2 {
			t.Fatalf("row len = %d, want 2 (extras dropped)", len(last))
		}
	})

	t.Run("chaining", func(t *testing.T) {
		ret := tbl.AddRow("a", "b")
		if ret != tbl {
			t.Error("AddRow should return the table for chaining")
		}
	})
}

func TestTable_Render_Empty(t *testing.T) {
	tbl := NewTable()
	if result := tbl.Render(); result != "" {
		t.Errorf("Render() with no columns = %q, want empty", result)
	}
}

func TestTable_Render_Basic(t *testing.T) {
	tbl := NewTable(
		Column{Name: "ID", Width: 5},
		Column{Name: "Name", Width: 10},
	)
	tbl.SetHeaderSeparator(false)
	tbl.SetIndent("")
	tbl.AddRow("1", "Alice")
	tbl.AddRow("2", "Bob")

	result := tbl.Render()
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (header + 2 rows), got %d: %v", len(lines), lines)
	}

	if !strings.Contains(lines[1], "1") || !strings.Contains(lines[1], "Alice") {
		t.Errorf("row 1 missing data: %q", lines[1])
	}
	if !strings.Contains(lines[2], "2") || !strings.Contains(lines[2], "Bob") {
		t.Errorf("row 2 missing data: %q", lines[2])
	}
}

func TestTable_Render_WithSeparator(t *testing.T) {
	tbl := NewTable(
		Column{Name: "X", Width: 5},
	)
	tbl.SetIndent("")
	tbl.AddRow("val")

	result := tbl.Render()
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")

	// header + separator + 1 row = 3 lines
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (header + sep + row), got %d", len(lines))
	}
	if !strings.Contains(lines[1], "-") {
		t.Errorf("separator line doesn't look like a separator: %q", lines[1])
	}
}

func TestTable_Render_WithIndent(t *testing.T) {
	tbl := NewTable(Column{Name: "A", Width: 5})
	tbl.SetIndent(">>>")
	tbl.AddRow("x")

	result := tbl.Render()
	for _, line := range strings.Split(strings.TrimRight(result, "\n"), "\n") {
		if !strings.HasPrefix(line, ">>>") {
			t.Errorf("line missing indent: %q", line)
		}
	}
}

func TestTable_Render_Truncation(t *testing.T) {
	tbl := NewTable(Column{Name: "N", Width: 8})
	tbl.SetHeaderSeparator(false)
	tbl.SetIndent("")
	tbl.AddRow("this-is-way-too-long-for-the-column")

	result := tbl.Render()
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")

	if len(lines) < 2 {
		t.Fatal("expected at least 2 lines")
	}

	row := strings.TrimSpace(lines[1])
	if !strings.HasSuffix(row, "…") {
		t.Errorf("truncated row should end with ellipsis: %q", row)
	}
	if got := len([]rune(row)); got > 8 {
		t.Errorf("truncated row too wide: %d chars", got)
	}
}

func TestTable_Render_NoRows(t *testing.T) {
	tbl := NewTable(Column{Name: "Header", Width: 10})
	tbl.SetIndent("")

	result := tbl.Render()
	lines := strings.Split(strings.TrimRight(result, "\n"), "\n")

	// Should have header + separator only
	if len(lines) != 2 {
		t.Errorf("expected 2 lines (header + sep), got %d", len(lines))
	}
}

func TestPad(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{"short padded", "hi", 5, "hi   "},
		{"exact width", "hello", 5, "hello"},
		{"overflow ellipsis", "toolong", 3, "to…"},
		{"width one", "toolong", 1, "t"},
		{"empty", "", 3, "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pad(tt.input, tt.width); got != tt.want {
				t.Errorf("pad(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
		})
	}
}
