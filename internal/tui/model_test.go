package tui

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typesprint/internal/corpus"
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/stats"
)

type memStore struct {
	best     int
	sessions []model.SessionRecord
}

func (m *memStore) GetBest(context.Context) (int, error) { return m.best, nil }

func (m *memStore) SetBest(_ context.Context, wpm int) error {
	m.best = wpm
	return nil
}

func (m *memStore) InsertSession(_ context.Context, rec model.SessionRecord) (string, error) {
	m.sessions = append(m.sessions, rec)
	return "id", nil
}

type countingFeedback struct {
	correct, incorrect, finish int
}

func (c *countingFeedback) OnCorrectKey()   { c.correct++ }
func (c *countingFeedback) OnIncorrectKey() { c.incorrect++ }
func (c *countingFeedback) OnFinish()       { c.finish++ }

func newTestModel(t *testing.T, cfg model.Config, st *memStore, fb *countingFeedback) *Model {
	t.Helper()
	c := corpus.New([]string{"ab"}, []string{"ab cd"}, rand.New(rand.NewSource(1)))
	m, err := NewModel(cfg, c, st, fb)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m
}

func typeKeys(m *Model, text string) tea.Cmd {
	var last tea.Cmd
	for _, r := range text {
		var msg tea.KeyMsg
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		}
		_, cmd := m.Update(msg)
		if cmd != nil {
			last = cmd
		}
	}
	return last
}

func TestFirstKeyStartsTimer(t *testing.T) {
	fb := &countingFeedback{}
	m := newTestModel(t, model.Config{Mode: model.ModeWords, Duration: 30, Words: 5}, &memStore{}, fb)

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}); cmd != nil || m.started {
		t.Fatalf("expected leading space to be ignored")
	}
	if cmd := typeKeys(m, "a"); cmd == nil {
		t.Fatalf("expected tick command on first key")
	}
	if !m.started {
		t.Fatalf("expected timer to start")
	}
	if cmd := typeKeys(m, "x "); cmd != nil {
		t.Fatalf("expected no second tick command")
	}
	if fb.correct != 2 || fb.incorrect != 1 {
		t.Fatalf("unexpected feedback counts: %+v", fb)
	}
	if len(m.input) != 0 {
		t.Fatalf("expected input cleared after word, got %q", string(m.input))
	}
	if correct, incorrect := m.sess.Counts(); correct != 1 || incorrect != 1 {
		t.Fatalf("expected 1/1 counts, got %d/%d", correct, incorrect)
	}
}

func TestQuoteFinishesWhenWordsRunOut(t *testing.T) {
	st := &memStore{best: 1}
	fb := &countingFeedback{}
	m := newTestModel(t, model.Config{Mode: model.ModeQuote, Duration: 30}, st, fb)

	typeKeys(m, "ab cd ")
	if !m.finished {
		t.Fatalf("expected test to finish after the last word")
	}
	if fb.finish != 1 {
		t.Fatalf("expected one finish event, got %d", fb.finish)
	}
	if m.result.NetWPM != 2 || m.result.Correct != 4 {
		t.Fatalf("unexpected result: %+v", m.result)
	}
	if !m.newBest || st.best != 2 || m.best != 2 {
		t.Fatalf("expected new best 2, got stored=%d model=%d", st.best, m.best)
	}
	if len(st.sessions) != 1 || st.sessions[0].Mode != model.ModeQuote || st.sessions[0].Words != 2 {
		t.Fatalf("expected saved quote session, got %+v", st.sessions)
	}
	if !strings.Contains(m.View(), "accuracy") {
		t.Fatalf("expected results view")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.finished || m.started {
		t.Fatalf("expected a fresh test after restart")
	}
}

func TestTickEndsTest(t *testing.T) {
	st := &memStore{}
	m := newTestModel(t, model.Config{Mode: model.ModeWords, Duration: 2, Words: 5}, st, &countingFeedback{})
	typeKeys(m, "ab ab")

	if _, cmd := m.Update(tickMsg{gen: m.gen}); cmd == nil {
		t.Fatalf("expected next tick to be scheduled")
	}
	if m.finished {
		t.Fatalf("finished too early")
	}
	m.Update(tickMsg{gen: m.gen})
	if !m.finished {
		t.Fatalf("expected test to finish when time is up")
	}
	if len(m.result.Samples) != 2 {
		t.Fatalf("expected 2 samples, got %v", m.result.Samples)
	}
	if len(st.sessions) != 1 {
		t.Fatalf("expected session saved")
	}
}

func TestStaleTickIgnoredAfterRestart(t *testing.T) {
	m := newTestModel(t, model.Config{Mode: model.ModeWords, Duration: 30, Words: 5}, &memStore{}, &countingFeedback{})
	typeKeys(m, "a")
	old := m.gen

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.gen == old {
		t.Fatalf("expected new generation")
	}
	if _, cmd := m.Update(tickMsg{gen: old}); cmd != nil {
		t.Fatalf("expected stale tick to be dropped")
	}
	if m.sess.Elapsed() != 0 {
		t.Fatalf("stale tick advanced the new test")
	}
}

func TestBackspaceRestoresLetter(t *testing.T) {
	m := newTestModel(t, model.Config{Mode: model.ModeWords, Duration: 30, Words: 5}, &memStore{}, &countingFeedback{})
	typeKeys(m, "x")
	if _, incorrect := m.sess.Counts(); incorrect != 1 {
		t.Fatalf("expected one error")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if correct, incorrect := m.sess.Counts(); correct != 0 || incorrect != 0 {
		t.Fatalf("expected counts cleared, got %d/%d", correct, incorrect)
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel(t, model.Config{Mode: model.ModeWords, Duration: 30, Words: 5}, &memStore{best: 42}, &countingFeedback{})
	typeKeys(m, "ab ")
	m.Update(tickMsg{gen: m.gen})

	out := m.renderFooter()
	if !containsAll(out, []string{"words 30s", "WPM", "Best 42 WPM"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderResults(t *testing.T) {
	b := stats.Compute(100, 25, 60, []int{20, 22}, []int{25, 26})
	out := renderResults(b, 20, true, 0)
	if !containsAll(out, []string{"20 WPM", "80.00%", "100 / 25", "125", "new personal best"}) {
		t.Fatalf("results missing expected values: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
