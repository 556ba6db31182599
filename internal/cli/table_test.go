// Package cli provides command-line interface utilities.
package cli

import (
	"strings"
	"testing"
)

func TestNewTable(t *testing.T) {
	headers := []string{"TOKEN", "HEX", "ROLE"}
	table := NewTable(headers)

	if table == nil {
		t.Fatal("NewTable returned nil")
	}
	if len(table.headers) != 3 {
		t.Errorf("Expected 3 headers, got %d", len(table.headers))
	}
	if table.padding != 2 {
		t.Errorf("Expected padding of 2, got %d", table.padding)
	}
}

func TestTableAddRow(t *testing.T) {
	table := NewTable([]string{"TOKEN", "HEX"})

	// Add matching row
	table.AddRow([]string{"blue", "#89b4fa"})
	if len(table.rows) != 1 {
		t.Errorf("Expected 1 row, got %d", len(table.rows))
	}

	// Add row with fewer columns (should be padded)
	table.AddRow([]string{"mauve"})
	if len(table.rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(table.rows))
	}
	if len(table.rows[1]) != 2 {
		t.Errorf("Expected row to be padded to 2 columns, got %d", len(table.rows[1]))
	}
	if table.rows[1][1] != "" {
		t.Errorf("Expected empty string for padded column, got %q", table.rows[1][1])
	}

	// Add row with more columns (should be truncated)
	table.AddRow([]string{"teal", "#94e2d5", "extra"})
	if len(table.rows) != 3 {
		t.Errorf("Expected 3 rows, got %d", len(table.rows))
	}
	if len(table.rows[2]) != 2 {
		t.Errorf("Expected row to be truncated to 2 columns, got %d", len(table.rows[2]))
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable([]string{"KEY", "TOKEN", "PURPOSE"})
	table.AddRow([]string{"--bg-color", "base", "background"})
	table.AddRow([]string{"--link", "blue", "accent"})

	output := table.Render()

	for _, want := range []string{"KEY", "TOKEN", "PURPOSE", "--bg-color", "base", "--link", "accent"} {
		if !strings.Contains(output, want) {
			t.Errorf("Output should contain %q", want)
		}
	}

	lines := strings.Split(output, "\n")
	if len(lines) < 4 { // header + separator + 2 data rows
		t.Errorf("Expected at least 4 lines, got %d", len(lines))
	}

	// Second line should be the separator.
	if !strings.Contains(lines[1], "---") {
		t.Errorf("Expected separator line with dashes, got: %q", lines[1])
	}
	if len(lines[1]) != len(lines[0]) {
		t.Errorf("Separator length (%d) should match header length (%d)", len(lines[1]), len(lines[0]))
	}
}

func TestTableRenderEmpty(t *testing.T) {
	table := &Table{
		headers: []string{},
		rows:    make([][]string, 0),
		padding: 2,
	}

	if output := table.Render(); output != "" {
		t.Errorf("Expected empty string for empty table, got: %q", output)
	}
}

func TestTableRenderNoRows(t *testing.T) {
	table := NewTable([]string{"TOKEN", "HEX"})

	output := table.Render()

	// Headers and separator still render.
	if !strings.Contains(output, "TOKEN") {
		t.Error("Output should contain headers even without rows")
	}
	if lines := strings.Split(output, "\n"); len(lines) < 2 {
		t.Error("Expected at least header and separator lines")
	}
}

func TestTableColumnAlignment(t *testing.T) {
	table := NewTable([]string{"KEY", "TOKEN", "PRIORITY"})
	table.AddRow([]string{"--x", "rosewater", "low"})
	table.AddRow([]string{"--main-background-color", "base", "critical"})

	output := table.Render()
	lines := strings.Split(output, "\n")
	if len(lines) < 4 {
		t.Fatalf("Expected at least 4 lines, got %d", len(lines))
	}

	// The widest cell per column sets that column's width, so every data
	// row pads out to the same length.
	if len(lines[2]) != len(lines[3]) {
		t.Errorf("Rows not aligned: %d vs %d columns", len(lines[2]), len(lines[3]))
	}
}

func TestTableColumnMaxWidthWraps(t *testing.T) {
	table := NewTable([]string{"KEY", "REASON"})
	table.SetColumnMaxWidth(1, 16)
	table.AddRow([]string{"--accent", "name suggests accent so the main accent token is assigned"})

	output := table.Render()
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	// Header + separator + at least two wrapped lines for the long reason.
	if len(lines) < 4 {
		t.Fatalf("Expected the reason to wrap onto extra lines, got %d lines:\n%s", len(lines), output)
	}
	if !strings.HasPrefix(lines[2], "--accent") {
		t.Errorf("First wrapped line should start with the key, got %q", lines[2])
	}
	// Continuation lines carry an empty key column.
	if strings.HasPrefix(lines[3], "--accent") {
		t.Errorf("Continuation line should not repeat the key, got %q", lines[3])
	}
}

func TestClampToTerminal(t *testing.T) {
	// Whatever the detected width, reserving more than the whole terminal
	// must clamp down to the floor, never zero or negative.
	table := NewTable([]string{"KEY", "REASON"})
	table.ClampToTerminal(1, 10000)

	got, ok := table.maxWidths[1]
	if !ok {
		t.Fatal("ClampToTerminal did not set a max width")
	}
	if got != 20 {
		t.Errorf("Floor-clamped width = %d, want 20", got)
	}

	// A clamped column wraps instead of stretching the row.
	long := strings.Repeat("structural flags: interactive, background ", 3)
	table.AddRow([]string{"a.nav-link", long})
	output := table.Render()
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) < 4 {
		t.Fatalf("Expected wrapped output, got %d lines:\n%s", len(lines), output)
	}
}

func TestClampToTerminalReserveSanity(t *testing.T) {
	// With nothing reserved the clamp must never be below the floor, and a
	// larger reservation can only shrink it.
	loose := NewTable([]string{"KEY", "REASON"})
	loose.ClampToTerminal(1, 0)
	tight := NewTable([]string{"KEY", "REASON"})
	tight.ClampToTerminal(1, 60)

	if loose.maxWidths[1] < 20 {
		t.Errorf("Unreserved clamp = %d, below floor", loose.maxWidths[1])
	}
	if tight.maxWidths[1] > loose.maxWidths[1] {
		t.Errorf("Reserving space widened the column: %d > %d", tight.maxWidths[1], loose.maxWidths[1])
	}
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		expected string
	}{
		{"blue", 10, "blue      "},
		{"mauve", 5, "mauve"},
		{"lavender", 3, "lavender"}, // Width less than string length
		{"", 5, "     "},
		{"x", 1, "x"},
	}

	for _, tt := range tests {
		result := padRight(tt.input, tt.width)
		if result != tt.expected {
			t.Errorf("padRight(%q, %d) = %q, want %q", tt.input, tt.width, result, tt.expected)
		}
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  []string
	}{
		{
			name:  "fits on one line",
			input: "neutral icon colour",
			width: 30,
			want:  []string{"neutral icon colour"},
		},
		{
			name:  "wraps at word boundary",
			input: "nearest accent to icon hue",
			width: 14,
			want:  []string{"nearest accent", "to icon hue"},
		},
		{
			name:  "breaks an overlong word",
			input: "--main-background-colour",
			width: 10,
			want:  []string{"--main-bac", "kground-co", "lour"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.input, tt.width)
			if len(got) != len(tt.want) {
				t.Fatalf("wrapText(%q, %d) = %v, want %v", tt.input, tt.width, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
