// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesprint/internal/corpus"
	"github.com/verte-zerg/typesprint/internal/feedback"
	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/session"
	"github.com/verte-zerg/typesprint/internal/stats"
)

// Store persists finished tests and the personal best.
type Store interface {
	stats.BestStore
	InsertSession(ctx context.Context, rec model.SessionRecord) (string, error)
}

// tickMsg fires once per second for the session generation it was scheduled for.
type tickMsg struct {
	gen int
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config   model.Config
	provider corpus.Provider
	store    Store
	feedback feedback.Adapter

	width  int
	height int

	sess      *session.Session
	gen       int
	input     []rune
	started   bool
	startedAt time.Time
	errMsg    string

	finished bool
	result   stats.Bundle
	best     int
	newBest  bool
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	extraStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#9E2A2B"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	timerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// NewModel constructs a typing TUI model. It fails when the first session cannot start.
func NewModel(cfg model.Config, provider corpus.Provider, st Store, fb feedback.Adapter) (*Model, error) {
	if fb == nil {
		fb = feedback.Silent{}
	}
	m := &Model{
		config:   cfg,
		provider: provider,
		store:    st,
		feedback: fb,
	}
	if err := m.resetSession(); err != nil {
		return nil, err
	}
	if best, err := st.GetBest(context.Background()); err != nil {
		logErrf("failed to load personal best: %v\n", err)
	} else {
		m.best = best
	}
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.finished {
			return m.updateResults(msg)
		}
		switch msg.Type {
		case tea.KeyTab, tea.KeyEsc:
			m.restart()
			return m, nil
		case tea.KeyBackspace:
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
				return m, m.applyInput()
			}
			return m, nil
		case tea.KeyCtrlW:
			if len(m.input) > 0 {
				m.input = nil
				return m, m.applyInput()
			}
			return m, nil
		case tea.KeySpace:
			if len(m.input) == 0 {
				return m, nil
			}
			m.input = append(m.input, ' ')
			return m, m.applyInput()
		case tea.KeyRunes:
			m.input = append(m.input, msg.Runes...)
			return m, m.applyInput()
		}
	}
	return m, nil
}

func (m *Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "tab", "enter", "r":
		m.restart()
	}
	return m, nil
}

// applyInput forwards the active word buffer to the engine and starts the clock on the first key.
func (m *Model) applyInput() tea.Cmd {
	upd, err := m.sess.OnInputChange(string(m.input))
	if err != nil {
		if !errors.Is(err, session.ErrWordsExhausted) {
			m.errMsg = err.Error()
		}
		m.input = nil
		return nil
	}
	var cmd tea.Cmd
	if !m.started {
		m.started = true
		m.startedAt = time.Now()
		cmd = m.tickCmd()
	}
	feedback.Dispatch(m.feedback, upd.Key)
	if upd.Advanced {
		m.input = nil
	}
	if upd.Exhausted {
		m.finish()
		return nil
	}
	return cmd
}

func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	if msg.gen != m.gen || m.finished || m.sess.Ended() {
		return nil
	}
	remaining, err := m.sess.Tick()
	if err != nil {
		m.errMsg = err.Error()
		return nil
	}
	if remaining <= 0 {
		m.finish()
		return nil
	}
	return m.tickCmd()
}

func (m *Model) tickCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func (m *Model) finish() {
	b, err := m.sess.Finalize()
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.feedback.OnFinish()
	m.finished = true
	m.result = b

	ctx := context.Background()
	best, improved, err := stats.RecordBest(ctx, m.store, b.NetWPM)
	if err != nil {
		logErrf("%v\n", err)
		best = max(m.best, b.NetWPM)
	}
	m.best = best
	m.newBest = improved

	endedAt := time.Now()
	rec := model.SessionRecord{
		StartedAt:   m.startedAt,
		EndedAt:     endedAt,
		Mode:        m.sess.Mode(),
		Duration:    m.sess.Duration(),
		Words:       m.sess.WordCount(),
		NetWPM:      b.NetWPM,
		RawWPM:      b.RawWPM,
		Accuracy:    b.Accuracy,
		Consistency: b.Consistency,
		Correct:     b.Correct,
		Incorrect:   b.Incorrect,
		Samples:     b.Samples,
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = endedAt
	}
	if _, err := m.store.InsertSession(ctx, rec); err != nil {
		logErrf("failed to save session: %v\n", err)
	}
}

// restart abandons the running session; its pending tick is ignored by generation.
func (m *Model) restart() {
	if m.sess != nil && !m.sess.Ended() {
		if err := m.sess.Abandon(); err != nil {
			logErrf("failed to abandon session: %v\n", err)
		}
	}
	if err := m.resetSession(); err != nil {
		m.errMsg = err.Error()
	}
}

func (m *Model) resetSession() error {
	sess, err := session.Start(session.Config{
		Mode:      m.config.Mode,
		Duration:  m.config.Duration,
		WordCount: m.config.Words,
	}, m.provider)
	if err != nil {
		return fmt.Errorf("failed to start test: %w", err)
	}
	m.sess = sess
	m.gen++
	m.input = nil
	m.started = false
	m.startedAt = time.Time{}
	m.errMsg = ""
	m.finished = false
	m.result = stats.Bundle{}
	m.newBest = false
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.finished {
		return m.viewResults()
	}
	return m.viewTest()
}

func (m *Model) viewTest() string {
	st := m.sess.State()
	styled := buildStyledRunes(st, m.input)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styled)
	}
	contentWidth := max(int(float64(m.width)*0.70), 1)
	lines := visibleWindow(wrapLines(styled, contentWidth))
	text := lipgloss.NewStyle().Width(contentWidth).Render(renderLines(lines))
	content := lipgloss.JoinVertical(lipgloss.Left, timerStyle.Render(m.renderTimer()), "", text)
	return m.place(content, m.renderFooter())
}

func (m *Model) viewResults() string {
	content := renderResults(m.result, m.best, m.newBest, m.width)
	footer := footerStyle.Render("restart: tab/enter  quit: q")
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	return m.place(content, footer)
}

func (m *Model) place(content, footer string) string {
	if m.errMsg != "" {
		footer = errorStyle.Render(m.errMsg)
	}
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderTimer() string {
	if !m.started {
		return fmt.Sprintf("%ds", m.sess.Remaining())
	}
	return fmt.Sprintf("%d", m.sess.Remaining())
}

func (m *Model) renderFooter() string {
	segments := []string{fmt.Sprintf("%s %ds", m.sess.Mode(), m.sess.Duration())}
	if m.started && m.sess.Elapsed() > 0 {
		live := m.sess.Statistics()
		segments = append(segments, fmt.Sprintf("%d WPM · %.0f%%", live.Samples[len(live.Samples)-1], live.Accuracy))
	}
	segments = append(segments, fmt.Sprintf("Best %d WPM", m.best))
	segments = append(segments, "restart: tab")
	return footerStyle.Render(strings.Join(segments, "  "))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
