// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Mode selects how target text is produced.
type Mode string

const (
	// ModeWords samples random words from the word list.
	ModeWords Mode = "words"
	// ModeQuote uses a single quote split into words.
	ModeQuote Mode = "quote"
)

// ParseMode normalizes a mode name. "random-words" and "quotes" are accepted aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "words", "random-words":
		return ModeWords, nil
	case "quote", "quotes":
		return ModeQuote, nil
	default:
		return "", fmt.Errorf("unknown mode %q (use words or quote)", s)
	}
}

// Config defines test settings.
type Config struct {
	Mode       Mode
	Duration   int
	Words      int
	WordsFile  string
	QuotesFile string
	Sound      bool
}

// HistoryConfig defines filters and options for history output.
type HistoryConfig struct {
	Mode        Mode
	Duration    int
	Since       *time.Time
	Last        int
	CurveWindow int
}

// SessionRecord captures a finished test.
type SessionRecord struct {
	ID          string
	StartedAt   time.Time
	EndedAt     time.Time
	Mode        Mode
	Duration    int
	Words       int
	NetWPM      int
	RawWPM      int
	Accuracy    float64
	Consistency int
	Correct     int
	Incorrect   int
	Samples     []int
}
