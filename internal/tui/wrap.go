package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typesprint/internal/session"
)

const visibleLines = 3

type styledRune struct {
	s        string
	width    int
	isSpace  bool
	isCursor bool
}

// buildStyledRunes lays out every target word with its classification.
// Runes typed past the end of the active word are shown as extras.
func buildStyledRunes(st session.RenderState, input []rune) []styledRune {
	activeLen := -1
	if st.WordIndex < len(st.Words) {
		activeLen = len([]rune(st.Words[st.WordIndex]))
	}
	// The cursor sits on the separator once the active word is fully typed.
	spaceCursor := activeLen >= 0 && st.LetterIndex >= activeLen && len(input) <= activeLen

	out := make([]styledRune, 0, len(st.Words)*6)
	for wi, word := range st.Words {
		if wi > 0 {
			out = append(out, render(' ', pendingStyle, spaceCursor && wi == st.WordIndex+1, true))
		}
		classes := classesFor(st, wi)
		letters := []rune(word)
		for li, r := range letters {
			style := pendingStyle
			switch {
			case classes[li] == session.Correct:
				style = correctStyle
			case classes[li] == session.Incorrect:
				style = incorrectStyle
			case wi == st.WordIndex:
				style = currentWordStyle
			}
			cursor := wi == st.WordIndex && li == st.LetterIndex
			out = append(out, render(r, style, cursor, false))
		}
		if wi == st.WordIndex && len(input) > len(letters) {
			extra := input[len(letters):]
			for i, r := range extra {
				out = append(out, render(r, extraStyle, false, false))
				if i == len(extra)-1 {
					out[len(out)-1].isCursor = true
				}
			}
		}
	}
	return out
}

func classesFor(st session.RenderState, wi int) []session.Class {
	n := len([]rune(st.Words[wi]))
	switch {
	case wi < len(st.Completed):
		return st.Completed[wi]
	case wi == st.WordIndex && len(st.Active) == n:
		return st.Active
	default:
		return make([]session.Class, n)
	}
}

func render(r rune, style lipgloss.Style, cursor, space bool) styledRune {
	if cursor {
		style = style.Underline(true)
	}
	return styledRune{
		s:        style.Render(string(r)),
		width:    runewidth.RuneWidth(r),
		isSpace:  space,
		isCursor: cursor,
	}
}

// wrapLines breaks runes into lines of at most width cells, preferring word boundaries.
// Breaking spaces are dropped.
func wrapLines(runes []styledRune, width int) [][]styledRune {
	if width <= 0 {
		return [][]styledRune{runes}
	}
	var lines [][]styledRune
	line := make([]styledRune, 0, width)
	lineWidth := 0
	lastSpace := -1
	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpace >= 0 {
				dropped := line[lastSpace]
				lines = append(lines, line[:lastSpace:lastSpace])
				line = append([]styledRune{}, line[lastSpace+1:]...)
				if dropped.isCursor && len(line) > 0 {
					line[0].isCursor = true
				}
			} else {
				lines = append(lines, line)
				line = []styledRune{}
			}
			lineWidth = lineWidthOf(line)
			lastSpace = lastSpaceIndex(line)
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpace = len(line) - 1
		}
		i++
	}
	return append(lines, line)
}

// visibleWindow returns up to visibleLines lines, keeping the cursor line second from the top.
func visibleWindow(lines [][]styledRune) [][]styledRune {
	cursorLine := 0
	for i, line := range lines {
		for _, item := range line {
			if item.isCursor {
				cursorLine = i
			}
		}
	}
	start := max(cursorLine-1, 0)
	end := min(start+visibleLines, len(lines))
	start = max(end-visibleLines, 0)
	return lines[start:end]
}

func renderLines(lines [][]styledRune) string {
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = renderStyledRunes(line)
	}
	return strings.Join(parts, "\n")
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
