// Package statsui provides the Bubble Tea history browser.
package statsui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/stats"
)

const (
	tabOverview = iota
	tabSessions
	tabGraph
)

const fallbackWidth = 80

var tabNames = []string{"Overview", "Sessions", "Graph"}

// Model implements the Bubble Tea history UI.
type Model struct {
	src stats.HistorySource
	cfg model.HistoryConfig

	report stats.Report
	errMsg string

	tab      int
	pages    [tabGraph + 1]viewport.Model
	sessions table.Model

	keys       keyMap
	filterKeys filterKeyMap
	help       help.Model

	filtering bool
	filter    filterForm

	width  int
	height int
}

// NewModel constructs a history UI model and loads the first report.
func NewModel(src stats.HistorySource, cfg model.HistoryConfig) *Model {
	m := &Model{
		src:        src,
		cfg:        cfg,
		sessions:   newSessionTable(),
		keys:       newKeyMap(),
		filterKeys: newFilterKeyMap(),
		help:       help.New(),
		filter:     newFilterForm(),
	}
	for i := range m.pages {
		m.pages[i] = viewport.New(0, 0)
	}
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.renderPages()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filtering {
			return m, m.updateFilter(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Prev):
		m.selectTab(m.tab - 1)
		return tea.ClearScreen
	case key.Matches(msg, m.keys.Next):
		m.selectTab(m.tab + 1)
		return tea.ClearScreen
	case key.Matches(msg, m.keys.Wider):
		m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
		m.renderPages()
		return nil
	case key.Matches(msg, m.keys.Narrower):
		m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
		m.renderPages()
		return nil
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		m.filter.load(m.cfg)
		return m.filter.setFocus(0)
	case key.Matches(msg, m.keys.Open) && m.tab == tabSessions:
		if len(m.report.Sessions) == 0 {
			return nil
		}
		m.selectTab(tabGraph)
		return tea.ClearScreen
	case key.Matches(msg, m.keys.Top):
		if m.tab == tabSessions {
			m.sessions.GotoTop()
		} else {
			m.pages[m.tab].GotoTop()
		}
		return nil
	case key.Matches(msg, m.keys.Bottom):
		if m.tab == tabSessions {
			m.sessions.GotoBottom()
		} else {
			m.pages[m.tab].GotoBottom()
		}
		return nil
	}

	var cmd tea.Cmd
	if m.tab == tabSessions {
		m.sessions, cmd = m.sessions.Update(msg)
	} else {
		m.pages[m.tab], cmd = m.pages[m.tab].Update(msg)
	}
	return cmd
}

func (m *Model) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.filterKeys.Cancel):
		m.filtering = false
		return nil
	case key.Matches(msg, m.filterKeys.Apply):
		cfg, err := m.filter.parse()
		if err != nil {
			m.filter.err = err.Error()
			return nil
		}
		m.filtering = false
		m.cfg = cfg
		m.reload()
		m.resize()
		return nil
	case key.Matches(msg, m.filterKeys.NextField):
		return m.filter.setFocus(m.filter.focus + 1)
	case key.Matches(msg, m.filterKeys.PrevField):
		return m.filter.setFocus(m.filter.focus - 1)
	}
	return m.filter.update(msg)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layout()
	header := renderTabs(tabNames, m.tab) + "\n" + renderSettings(m.cfg, m.width)
	return lipgloss.JoinVertical(lipgloss.Left,
		fit(header, m.width, headerHeight),
		fit(m.body(), m.width, bodyHeight),
		fit(m.footer(), m.width, footerHeight),
	)
}

func (m *Model) body() string {
	switch {
	case m.filtering:
		return m.filter.view()
	case m.tab == tabSessions && len(m.report.Sessions) == 0:
		return "No sessions found."
	case m.tab == tabSessions:
		return tableStyle.Render(m.sessions.View())
	default:
		return m.pages[m.tab].View()
	}
}

func (m *Model) footer() string {
	if m.filtering {
		return m.help.View(m.filterKeys)
	}
	m.keys.onSession = m.tab == tabSessions
	out := m.help.View(m.keys)
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg)
	}
	return out
}

func (m *Model) layout() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(renderTabs(tabNames, m.tab)) + 1
	footerHeight = 1
	if !m.filtering && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(m.height-headerHeight-footerHeight, 1)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layout()
	for i := range m.pages {
		m.pages[i].Width = m.width
		m.pages[i].Height = bodyHeight
	}
	m.sessions.SetWidth(m.width)
	m.sessions.SetHeight(max(1, bodyHeight-1))
	m.filter.setWidth(m.width)
	m.help.Width = m.width
}

func (m *Model) selectTab(tab int) {
	n := len(tabNames)
	m.tab = (tab%n + n) % n
	if m.tab == tabSessions {
		m.sessions.Focus()
	} else {
		m.sessions.Blur()
	}
	if m.tab == tabGraph {
		m.renderPages()
	}
}

func (m *Model) reload() {
	report, err := stats.BuildReport(context.Background(), m.src, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.pages {
			m.pages[i].SetContent("Failed to load history.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	m.sessions.SetRows(sessionRows(report.Sessions))
	m.sessions.GotoTop()
	m.renderPages()
}

func (m *Model) renderPages() {
	if m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = fallbackWidth
	}
	m.pages[tabOverview].SetContent(renderOverview(m.report, m.cfg.CurveWindow, width))
	m.pages[tabGraph].SetContent(renderSessionGraph(m.selected(), width))
}

// selected returns the session under the table cursor. Rows are listed newest first.
func (m *Model) selected() *model.SessionRecord {
	n := len(m.report.Sessions)
	if n == 0 {
		return nil
	}
	idx := n - 1 - m.sessions.Cursor()
	if idx < 0 || idx >= n {
		idx = n - 1
	}
	return &m.report.Sessions[idx]
}

func nextCurveWindow(n int) int {
	if n < 5 {
		return 5
	}
	return (n/5 + 1) * 5
}

func prevCurveWindow(n int) int {
	if n <= 5 {
		return 1
	}
	if n%5 == 0 {
		return n - 5
	}
	return n / 5 * 5
}
