package report

import (
	"strings"
	"testing"
)

func TestTable_Render(t *testing.T) {
	table := NewTable("STAGE", "STATUS", "DETAIL")
	table.AddRow("clean", "ok", "cleaned 100 rows")
	table.AddRow("split", "failed", "bad chunk count")

	got := table.Render()

	want := strings.Join([]string{
		"STAGE  STATUS  DETAIL",
		"-----  ------  ------",
		"clean  ok      cleaned 100 rows",
		"split  failed  bad chunk count",
		"",
	}, "\n")

	if got != want {
		t.Errorf("Render mismatch.\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestTable_ColumnsWidenToLongestCell(t *testing.T) {
	table := NewTable("A", "B")
	table.AddRow("very long cell", "x")

	lines := strings.Split(table.Render(), "\n")

	if lines[0] != "A               B" {
		t.Errorf("Expected header padded to cell width, got %q", lines[0])
	}

	if lines[1] != "--------------  -" {
		t.Errorf("Expected separator matching widths, got %q", lines[1])
	}
}

func TestTable_ShortRowsPadded(t *testing.T) {
	table := NewTable("A", "B", "C")
	table.AddRow("1")

	got := table.Render()
	if !strings.Contains(got, "1") {
		t.Errorf("Expected short row rendered, got %q", got)
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 4 {
		t.Errorf("Expected 3 lines plus trailing newline, got %d", len(lines))
	}
}

func TestTable_NoTrailingPadding(t *testing.T) {
	table := NewTable("A", "B")
	table.AddRow("1", "x")
	table.AddRow("2", "longer")

	for _, line := range strings.Split(table.Render(), "\n") {
		if line != strings.TrimRight(line, " ") {
			t.Errorf("Expected no trailing spaces, got %q", line)
		}
	}
}

func TestTable_WideCharacters(t *testing.T) {
	table := NewTable("NAME", "VALUE")
	table.AddRow("qualità", "1")
	table.AddRow("日本語", "2")

	lines := strings.Split(table.Render(), "\n")

	// 日本語 is six display cells wide, so the VALUE column starts at the
	// same offset on every line
	if !strings.HasSuffix(lines[3], "  2") {
		t.Errorf("Expected wide row aligned, got %q", lines[3])
	}
}

func TestTable_Empty(t *testing.T) {
	table := NewTable("ONLY")

	got := table.Render()
	want := "ONLY\n----\n"
	if got != want {
		t.Errorf("Expected header and separator only, got %q", got)
	}
}
