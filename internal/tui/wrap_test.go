package tui

import (
	"testing"

	"github.com/verte-zerg/typesprint/internal/session"
)

func cursorAt(runes []styledRune) int {
	for i, r := range runes {
		if r.isCursor {
			return i
		}
	}
	return -1
}

func TestBuildStyledRunesCursor(t *testing.T) {
	st := session.RenderState{
		Words:       []string{"ab"},
		Active:      []session.Class{session.Correct, session.Unclassified},
		LetterIndex: 1,
	}
	runes := buildStyledRunes(st, []rune("a"))
	if len(runes) != 2 {
		t.Fatalf("expected 2 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if runes[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected cursor on second rune")
	}
	if cursorAt(runes) != 1 {
		t.Fatalf("expected cursor at 1, got %d", cursorAt(runes))
	}
}

func TestBuildStyledRunesCompletedWords(t *testing.T) {
	st := session.RenderState{
		Words:     []string{"one", "two"},
		Completed: [][]session.Class{{session.Correct, session.Incorrect, session.Correct}},
		Active:    make([]session.Class, 3),
		WordIndex: 1,
	}
	runes := buildStyledRunes(st, nil)
	if len(runes) != 7 {
		t.Fatalf("expected 7 runes, got %d", len(runes))
	}
	if runes[1].s != incorrectStyle.Render("n") {
		t.Fatalf("expected incorrect style for frozen mistake")
	}
	if !runes[3].isSpace {
		t.Fatalf("expected separator between words")
	}
	if cursorAt(runes) != 4 {
		t.Fatalf("expected cursor on next word, got %d", cursorAt(runes))
	}
	if runes[5].s != currentWordStyle.Render("w") {
		t.Fatalf("expected current word style for untyped letters")
	}
}

func TestBuildStyledRunesPendingWords(t *testing.T) {
	st := session.RenderState{
		Words:  []string{"one", "two"},
		Active: make([]session.Class, 3),
	}
	runes := buildStyledRunes(st, nil)
	if runes[4].s != pendingStyle.Render("t") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesCursorOnSeparator(t *testing.T) {
	st := session.RenderState{
		Words:       []string{"ab", "cd"},
		Active:      []session.Class{session.Correct, session.Correct},
		LetterIndex: 2,
	}
	runes := buildStyledRunes(st, []rune("ab"))
	if cursorAt(runes) != 2 || !runes[2].isSpace {
		t.Fatalf("expected cursor on separator, got %d", cursorAt(runes))
	}
}

func TestBuildStyledRunesShowsExtras(t *testing.T) {
	st := session.RenderState{
		Words:       []string{"ab", "cd"},
		Active:      []session.Class{session.Correct, session.Correct},
		LetterIndex: 2,
	}
	runes := buildStyledRunes(st, []rune("abxy"))
	if len(runes) != 7 {
		t.Fatalf("expected 7 runes with extras, got %d", len(runes))
	}
	if runes[2].s != extraStyle.Render("x") {
		t.Fatalf("expected extra style for overflow rune")
	}
	if cursorAt(runes) != 3 {
		t.Fatalf("expected cursor on last extra rune, got %d", cursorAt(runes))
	}
}

func TestBuildStyledRunesExhausted(t *testing.T) {
	st := session.RenderState{
		Words:     []string{"a"},
		Completed: [][]session.Class{{session.Correct}},
		WordIndex: 1,
	}
	runes := buildStyledRunes(st, nil)
	if len(runes) != 1 || cursorAt(runes) != -1 {
		t.Fatalf("expected one rune and no cursor, got %d/%d", len(runes), cursorAt(runes))
	}
}

func plain(s string) []styledRune {
	out := make([]styledRune, 0, len(s))
	for _, r := range s {
		out = append(out, styledRune{s: string(r), width: 1, isSpace: r == ' '})
	}
	return out
}

func TestWrapLinesBreaksAtSpaces(t *testing.T) {
	lines := wrapLines(plain("one two three"), 8)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if got := renderStyledRunes(lines[0]); got != "one two" {
		t.Fatalf("unexpected first line %q", got)
	}
	if got := renderStyledRunes(lines[1]); got != "three" {
		t.Fatalf("unexpected second line %q", got)
	}
}

func TestWrapLinesSplitsLongWords(t *testing.T) {
	lines := wrapLines(plain("abcdefgh"), 3)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if got := renderStyledRunes(lines[2]); got != "gh" {
		t.Fatalf("unexpected last line %q", got)
	}
}

func TestVisibleWindowFollowsCursor(t *testing.T) {
	lines := wrapLines(plain("aa bb cc dd ee"), 3)
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	lines[3][0].isCursor = true
	window := visibleWindow(lines)
	if len(window) != visibleLines {
		t.Fatalf("expected %d lines, got %d", visibleLines, len(window))
	}
	if renderStyledRunes(window[1]) != "dd" {
		t.Fatalf("expected cursor line second, got %q", renderStyledRunes(window[1]))
	}

	lines[3][0].isCursor = false
	lines[0][0].isCursor = true
	if got := renderStyledRunes(visibleWindow(lines)[0]); got != "aa" {
		t.Fatalf("expected window at top, got %q", got)
	}
}
