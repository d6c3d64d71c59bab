// Package session implements the typing test engine.
//
// A Session is driven from outside: the host forwards the input buffer of the
// active word to OnInputChange and calls Tick once per elapsed second. The
// engine never blocks, schedules or performs I/O.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/verte-zerg/typesprint/internal/corpus"
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/stats"
)

// DefaultWordCount is the number of words drawn in words mode.
const DefaultWordCount = 100

var (
	// ErrInvalidConfiguration reports a bad duration, mode or an empty corpus.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrSessionEnded reports use of a finalized or abandoned session.
	ErrSessionEnded = errors.New("session ended")
	// ErrWordsExhausted reports input after the last word was completed.
	ErrWordsExhausted = errors.New("all words completed")
)

// Config defines a test.
type Config struct {
	Mode      model.Mode
	Duration  int
	WordCount int
}

type status uint8

const (
	statusActive status = iota
	statusFinalized
	statusAbandoned
)

// Update is the result of one input change.
type Update struct {
	Classes     []Class
	WordIndex   int
	LetterIndex int
	Advanced    bool
	Exhausted   bool
	Key         Key
}

// RenderState is everything a presentation layer needs to draw the test.
type RenderState struct {
	Words       []string
	Completed   [][]Class
	Active      []Class
	WordIndex   int
	LetterIndex int
	Remaining   int
}

// Session is one typing test.
type Session struct {
	mode     model.Mode
	duration int
	words    []string

	wordIndex   int
	letterIndex int
	typed       []rune
	active      []Class

	completed        [][]Class
	completedCorrect int
	completedWrong   int

	elapsed    int
	samples    []int
	rawSamples []int

	status status
}

// Start builds a session from cfg, drawing target words from provider.
func Start(cfg Config, provider corpus.Provider) (*Session, error) {
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be > 0, got %d", ErrInvalidConfiguration, cfg.Duration)
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: no corpus", ErrInvalidConfiguration)
	}
	var words []string
	switch cfg.Mode {
	case model.ModeWords:
		count := cfg.WordCount
		if count <= 0 {
			count = DefaultWordCount
		}
		words = provider.Words(count)
	case model.ModeQuote:
		words = strings.Fields(provider.Quote())
	default:
		return nil, fmt.Errorf("%w: unknown mode %q", ErrInvalidConfiguration, cfg.Mode)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("%w: corpus is empty", ErrInvalidConfiguration)
	}
	return &Session{
		mode:     cfg.Mode,
		duration: cfg.Duration,
		words:    words,
		active:   make([]Class, len([]rune(words[0]))),
	}, nil
}

// OnInputChange re-classifies the active word against the full input buffer.
// A trailing space completes the word and moves the cursor to the next one.
func (s *Session) OnInputChange(typed string) (Update, error) {
	if s.status != statusActive {
		return Update{}, ErrSessionEnded
	}
	if s.Exhausted() {
		return Update{}, ErrWordsExhausted
	}
	target := []rune(s.words[s.wordIndex])
	runes := []rune(typed)
	classes := Classify(target, runes)

	upd := Update{Classes: classes}
	if len(runes) > len(s.typed) {
		upd.Key = keyFor(target, runes, classes)
	}

	if strings.HasSuffix(typed, " ") {
		correct, incorrect := Count(classes)
		s.completed = append(s.completed, classes)
		s.completedCorrect += correct
		s.completedWrong += incorrect
		s.wordIndex++
		s.letterIndex = 0
		s.typed = nil
		s.active = nil
		if !s.Exhausted() {
			s.active = make([]Class, len([]rune(s.words[s.wordIndex])))
		}
		upd.Advanced = true
	} else {
		s.letterIndex = min(len(runes), len(target))
		s.typed = runes
		s.active = classes
	}
	upd.WordIndex = s.wordIndex
	upd.LetterIndex = s.letterIndex
	upd.Exhausted = s.Exhausted()
	return upd, nil
}

// Tick advances the clock by one second, records a speed sample and returns the remaining seconds.
func (s *Session) Tick() (int, error) {
	if s.status != statusActive {
		return 0, ErrSessionEnded
	}
	s.elapsed++
	correct, incorrect := s.Counts()
	s.samples = append(s.samples, stats.WPM(correct, s.elapsed))
	s.rawSamples = append(s.rawSamples, stats.WPM(correct+incorrect, s.elapsed))
	return s.Remaining(), nil
}

// Statistics computes the bundle for the current state without ending the session.
func (s *Session) Statistics() stats.Bundle {
	correct, incorrect := s.Counts()
	return stats.Compute(correct, incorrect, s.duration, s.samples, s.rawSamples)
}

// Finalize ends the session and returns its statistics. It succeeds once.
func (s *Session) Finalize() (stats.Bundle, error) {
	if s.status != statusActive {
		return stats.Bundle{}, ErrSessionEnded
	}
	b := s.Statistics()
	s.status = statusFinalized
	return b, nil
}

// Abandon discards the session without computing statistics.
func (s *Session) Abandon() error {
	if s.status != statusActive {
		return ErrSessionEnded
	}
	s.status = statusAbandoned
	s.typed = nil
	s.active = nil
	return nil
}

// Counts returns correct and incorrect letters: completed words as frozen
// plus the current classification of the active word.
func (s *Session) Counts() (correct, incorrect int) {
	c, i := Count(s.active)
	return s.completedCorrect + c, s.completedWrong + i
}

// Remaining returns the seconds left, never below zero.
func (s *Session) Remaining() int {
	return max(s.duration-s.elapsed, 0)
}

// Elapsed returns the number of ticks so far.
func (s *Session) Elapsed() int {
	return s.elapsed
}

// TimeUp reports whether the configured duration has elapsed.
func (s *Session) TimeUp() bool {
	return s.elapsed >= s.duration
}

// Exhausted reports whether every target word has been completed.
func (s *Session) Exhausted() bool {
	return s.wordIndex >= len(s.words)
}

// Ended reports whether the session was finalized or abandoned.
func (s *Session) Ended() bool {
	return s.status != statusActive
}

// Mode returns the session mode.
func (s *Session) Mode() model.Mode {
	return s.mode
}

// Duration returns the configured length in seconds.
func (s *Session) Duration() int {
	return s.duration
}

// WordCount returns the number of target words.
func (s *Session) WordCount() int {
	return len(s.words)
}

// Cursor returns the active word and letter index.
func (s *Session) Cursor() (word, letter int) {
	return s.wordIndex, s.letterIndex
}

// State returns a snapshot for rendering.
func (s *Session) State() RenderState {
	completed := make([][]Class, len(s.completed))
	for i, c := range s.completed {
		completed[i] = append([]Class(nil), c...)
	}
	return RenderState{
		Words:       append([]string(nil), s.words...),
		Completed:   completed,
		Active:      append([]Class(nil), s.active...),
		WordIndex:   s.wordIndex,
		LetterIndex: s.letterIndex,
		Remaining:   s.Remaining(),
	}
}
