package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Mode", "WPM", "Acc"}
	rows := [][]string{
		{"words", "72", "97.50%"},
		{"quote", "104", "8.00%"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Mode  WPM    Acc" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "words  72 97.50%" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "quote 104  8.00%" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableTrimsTrailingPadding(t *testing.T) {
	lines := formatTable([]string{"Trend", "x"}, [][]string{{"⣀⣤", ""}}, nil)
	if lines[1] != "⣀⣤" {
		t.Fatalf("expected trailing padding trimmed, got %q", lines[1])
	}
}
