package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typesprint/internal/model"
	"github.com/verte-zerg/typesprint/internal/stats"
)

const (
	plotHeight  = 10
	trendWidth  = 20
	narrowWidth = 80
)

var (
	accent = lipgloss.Color("#C89A3A")
	muted  = lipgloss.Color("#4A4A4A")

	tabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(muted).
			Foreground(lipgloss.Color("#B0B0B0"))
	activeTabStyle = tabStyle.
			BorderForeground(accent).
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(muted)
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

func renderTabs(tabs []string, active int) string {
	parts := make([]string, len(tabs))
	for i, tab := range tabs {
		style := tabStyle
		if i == active {
			style = activeTabStyle
		}
		parts[i] = style.Render(tab)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderSettings(cfg model.HistoryConfig, width int) string {
	or := func(s, fallback string) string {
		if s == "" {
			return fallback
		}
		return s
	}
	since := ""
	if cfg.Since != nil {
		since = cfg.Since.Format(dateLayout)
	}
	duration := ""
	if cfg.Duration > 0 {
		duration = fmt.Sprintf("%ds", cfg.Duration)
	}
	line := fmt.Sprintf("mode=%s  time=%s  since=%s  last=%s  window=%d",
		or(string(cfg.Mode), "any"), or(duration, "any"), or(since, "any"), or(positive(cfg.Last), "all"), cfg.CurveWindow)
	return headerStyle.Render(truncate(line, width))
}

func renderOverview(report stats.Report, window, width int) string {
	if len(report.Sessions) == 0 {
		return "No sessions found."
	}
	s := stats.Summarize(report.Sessions)
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", s.Count)),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", s.AvgNetWPM)),
		metricCard("Personal Best", fmt.Sprintf("%d", report.Best)),
		metricCard("Avg Raw", fmt.Sprintf("%.1f", s.AvgRawWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", s.AvgAccuracy)),
		metricCard("Avg Cons", fmt.Sprintf("%.0f%%", s.AvgConsistency)),
	}
	var summary string
	if width < narrowWidth {
		summary = lipgloss.JoinVertical(lipgloss.Left, cards...)
	} else {
		summary = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[:3]...),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[3:]...))
	}

	var curves bytes.Buffer
	if err := stats.RenderCurves(&curves, report.Sessions, window, width, plotHeight, true); err != nil {
		return summary + "\n\n" + fmt.Sprintf("Failed to render curves: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+curves.String(), "\n")
}

func metricCard(label, value string) string {
	return cardStyle.Render(cardTitleStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

func renderSessionGraph(s *model.SessionRecord, width int) string {
	if s == nil {
		return "No sessions found."
	}
	header := headerStyle.Render(fmt.Sprintf("%s  %s %ds  %d WPM  %.2f%%",
		s.EndedAt.Local().Format("2006-01-02 15:04"), s.Mode, s.Duration, s.NetWPM, s.Accuracy))
	if len(s.Samples) == 0 {
		return header + "\nNo per-second samples recorded."
	}
	values := make([]float64, len(s.Samples))
	for i, v := range s.Samples {
		values[i] = float64(v)
	}
	var buf bytes.Buffer
	err := stats.Plot(&buf, stats.PlotOptions{
		Title:  "Speed (WPM per second)",
		Width:  stats.PlotWidthFor(width),
		Height: plotHeight,
		Color:  true,
	}, []stats.Series{{Name: "net", Values: values}})
	if err != nil {
		return fmt.Sprintf("Failed to render graph: %v", err)
	}
	return strings.TrimRight(header+"\n"+buf.String(), "\n")
}

func newSessionTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Mode", Width: 5},
		{Title: "Time", Width: 5},
		{Title: "WPM", Width: 4},
		{Title: "Raw", Width: 4},
		{Title: "Acc", Width: 8},
		{Title: "Cons", Width: 5},
		{Title: "Trend", Width: trendWidth},
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(muted).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		PaddingLeft(0)
	styles.Cell = styles.Cell.PaddingLeft(0)
	styles.Selected = styles.Cell.Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	return table.New(
		table.WithColumns(columns),
		table.WithHeight(1),
		table.WithStyles(styles),
	)
}

// sessionRows lists sessions newest first.
func sessionRows(sessions []model.SessionRecord) []table.Row {
	rows := make([]table.Row, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		row := stats.SessionRow(sessions[i])
		row[len(row)-1] = truncate(row[len(row)-1], trendWidth)
		rows = append(rows, row)
	}
	return rows
}

// fit pads or clips s to exactly width x height cells.
func fit(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return lipgloss.NewStyle().Width(width).Height(height).Render(strings.Join(lines, "\n"))
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}
