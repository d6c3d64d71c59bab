package stats

import (
	"context"
	"fmt"
)

// BestStore reads and writes the personal best net WPM.
type BestStore interface {
	GetBest(ctx context.Context) (int, error)
	SetBest(ctx context.Context, wpm int) error
}

// RecordBest stores max(existing, netWPM) and reports whether netWPM set a new record.
func RecordBest(ctx context.Context, st BestStore, netWPM int) (best int, improved bool, err error) {
	old, err := st.GetBest(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read personal best: %w", err)
	}
	best = max(old, netWPM)
	if err := st.SetBest(ctx, best); err != nil {
		return old, false, fmt.Errorf("failed to write personal best: %w", err)
	}
	return best, netWPM > old, nil
}
