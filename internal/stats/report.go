// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"fmt"
	"io"

	"github.com/verte-zerg/typesprint/internal/model"
)

// HistorySource lists finished tests.
type HistorySource interface {
	ListSessions(ctx context.Context, cfg model.HistoryConfig) ([]model.SessionRecord, error)
	GetBest(ctx context.Context) (int, error)
}

// Report contains precomputed data for history rendering.
type Report struct {
	Sessions []model.SessionRecord
	Best     int
}

// Summary aggregates a set of sessions.
type Summary struct {
	Count          int
	AvgNetWPM      float64
	AvgRawWPM      float64
	BestNetWPM     int
	AvgAccuracy    float64
	AvgConsistency float64
}

// BuildReport loads and prepares data for history rendering.
func BuildReport(ctx context.Context, src HistorySource, cfg model.HistoryConfig) (Report, error) {
	sessions, err := src.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}
	best, err := src.GetBest(ctx)
	if err != nil {
		return Report{}, err
	}
	return Report{Sessions: sessions, Best: best}, nil
}

// Summarize averages the sessions' metrics.
func Summarize(sessions []model.SessionRecord) Summary {
	sum := Summary{Count: len(sessions)}
	if len(sessions) == 0 {
		return sum
	}
	for _, s := range sessions {
		sum.AvgNetWPM += float64(s.NetWPM)
		sum.AvgRawWPM += float64(s.RawWPM)
		sum.AvgAccuracy += s.Accuracy
		sum.AvgConsistency += float64(s.Consistency)
		sum.BestNetWPM = max(sum.BestNetWPM, s.NetWPM)
	}
	n := float64(len(sessions))
	sum.AvgNetWPM /= n
	sum.AvgRawWPM /= n
	sum.AvgAccuracy /= n
	sum.AvgConsistency /= n
	return sum
}

// RenderSummary prints a summary block for sessions.
func RenderSummary(w io.Writer, report Report) error {
	if len(report.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	s := Summarize(report.Sessions)
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", s.Count),
		fmt.Sprintf("Avg WPM: %.2f", s.AvgNetWPM),
		fmt.Sprintf("Avg Raw: %.2f", s.AvgRawWPM),
		fmt.Sprintf("Best WPM: %d", s.BestNetWPM),
		fmt.Sprintf("Personal Best: %d", report.Best),
		fmt.Sprintf("Avg Accuracy: %.2f%%", s.AvgAccuracy),
		fmt.Sprintf("Avg Consistency: %.0f%%", s.AvgConsistency),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSessionTable prints one row per session, oldest first.
func RenderSessionTable(w io.Writer, sessions []model.SessionRecord) error {
	if len(sessions) == 0 {
		return nil
	}
	headers := []string{"Date", "Mode", "Time", "WPM", "Raw", "Acc", "Cons", "Trend"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, SessionRow(s))
	}
	lines := formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true})
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// SessionRow formats a session as table cells.
func SessionRow(s model.SessionRecord) []string {
	return []string{
		s.EndedAt.Local().Format("2006-01-02 15:04"),
		string(s.Mode),
		fmt.Sprintf("%ds", s.Duration),
		fmt.Sprintf("%d", s.NetWPM),
		fmt.Sprintf("%d", s.RawWPM),
		fmt.Sprintf("%.2f%%", s.Accuracy),
		fmt.Sprintf("%d%%", s.Consistency),
		Sparkline(s.Samples),
	}
}

// RenderCurves prints the learning curve of net WPM and accuracy across sessions.
func RenderCurves(w io.Writer, sessions []model.SessionRecord, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i] = float64(s.NetWPM)
		accs[i] = s.Accuracy
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return Plot(w, PlotOptions{
		Title:    "Learning Curve",
		Width:    width,
		Height:   height,
		Color:    useColor,
		PerScale: true,
	}, []Series{
		{Name: "WPM", Values: MovingAverage(wpms, window)},
		{Name: "Accuracy", Values: MovingAverage(accs, window)},
	})
}

// RenderSpeedGraph plots a single test's net and raw speed per second.
func RenderSpeedGraph(w io.Writer, b Bundle, totalWidth, height int, useColor bool) error {
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return Plot(w, PlotOptions{
		Title:  "Speed (WPM per second)",
		Width:  width,
		Height: height,
		Color:  useColor,
	}, []Series{
		{Name: "net", Values: toFloats(b.Samples)},
		{Name: "raw", Values: toFloats(b.RawSamples)},
	})
}
