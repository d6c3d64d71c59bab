package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typesprint/internal/stats"
)

const resultsGraphHeight = 8

var (
	headlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	bestStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
)

// renderResults formats the statistics bundle of a finished test.
func renderResults(b stats.Bundle, best int, newBest bool, width int) string {
	lines := []string{
		headlineStyle.Render(fmt.Sprintf("%d WPM", b.NetWPM)),
		"",
		resultLine("raw", fmt.Sprintf("%d", b.RawWPM)),
		resultLine("accuracy", fmt.Sprintf("%.2f%%", b.Accuracy)),
		resultLine("consistency", fmt.Sprintf("%d%%", b.Consistency)),
		resultLine("characters", fmt.Sprintf("%d / %d", b.Correct, b.Incorrect)),
		resultLine("keystrokes", fmt.Sprintf("%d", b.Keystrokes)),
	}
	if newBest {
		lines = append(lines, bestStyle.Render(fmt.Sprintf("new personal best: %d WPM", best)))
	} else {
		lines = append(lines, resultLine("personal best", fmt.Sprintf("%d", best)))
	}

	if len(b.Samples) > 0 {
		var graph strings.Builder
		graphWidth := 0
		if width > 0 {
			graphWidth = max(int(float64(width)*0.70), 1)
		}
		if err := stats.RenderSpeedGraph(&graph, b, graphWidth, resultsGraphHeight, width > 0); err != nil {
			logErrf("failed to render speed graph: %v\n", err)
		} else {
			lines = append(lines, "", strings.TrimRight(graph.String(), "\n"))
		}
	}
	return strings.Join(lines, "\n")
}

func resultLine(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-14s", label)) + valueStyle.Render(value)
}
