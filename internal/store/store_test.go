package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/typesprint/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "typesprint.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestBestDefaultsToZero(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	best, err := st.GetBest(ctx)
	if err != nil {
		t.Fatalf("get best: %v", err)
	}
	if best != 0 {
		t.Fatalf("expected 0, got %d", best)
	}

	if err := st.SetBest(ctx, 72); err != nil {
		t.Fatalf("set best: %v", err)
	}
	if err := st.SetBest(ctx, 80); err != nil {
		t.Fatalf("set best again: %v", err)
	}
	if best, _ = st.GetBest(ctx); best != 80 {
		t.Fatalf("expected 80, got %d", best)
	}

	if err := st.ResetBest(ctx); err != nil {
		t.Fatalf("reset best: %v", err)
	}
	if best, _ = st.GetBest(ctx); best != 0 {
		t.Fatalf("expected 0 after reset, got %d", best)
	}
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	inputs := []model.SessionRecord{
		{Mode: model.ModeWords, Duration: 30, Words: 100, NetWPM: 40, RawWPM: 44, Accuracy: 91, Consistency: 80, Correct: 100, Incorrect: 10, Samples: []int{36, 40, 42}},
		{Mode: model.ModeQuote, Duration: 60, Words: 12, NetWPM: 55, RawWPM: 57, Accuracy: 96.5, Consistency: 88, Correct: 275, Incorrect: 10},
		{Mode: model.ModeWords, Duration: 30, Words: 100, NetWPM: 48, RawWPM: 50, Accuracy: 97, Consistency: 90, Correct: 120, Incorrect: 4, Samples: []int{50, 46}},
	}
	var ids []string
	for i, rec := range inputs {
		rec.StartedAt = base.Add(time.Duration(i) * time.Hour)
		rec.EndedAt = rec.StartedAt.Add(time.Duration(rec.Duration) * time.Second)
		id, err := st.InsertSession(ctx, rec)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		if id == "" {
			t.Fatalf("expected generated id")
		}
		ids = append(ids, id)
	}

	all, err := st.ListSessions(ctx, model.HistoryConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(all))
	}
	if all[0].ID != ids[0] || all[2].ID != ids[2] {
		t.Fatalf("expected oldest first, got %s..%s", all[0].ID, all[2].ID)
	}
	if len(all[0].Samples) != 3 || all[0].Samples[2] != 42 {
		t.Fatalf("unexpected samples: %v", all[0].Samples)
	}
	if all[1].Samples != nil {
		t.Fatalf("expected no samples for quote session, got %v", all[1].Samples)
	}
	if all[1].Accuracy != 96.5 || all[1].Mode != model.ModeQuote {
		t.Fatalf("unexpected round trip: %+v", all[1])
	}

	words, err := st.ListSessions(ctx, model.HistoryConfig{Mode: model.ModeWords, Duration: 30})
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("expected 2 words sessions, got %d", len(words))
	}

	since := base.Add(90 * time.Minute)
	recent, err := st.ListSessions(ctx, model.HistoryConfig{Since: &since})
	if err != nil {
		t.Fatalf("list since: %v", err)
	}
	if len(recent) != 1 || recent[0].ID != ids[2] {
		t.Fatalf("expected only the last session, got %+v", recent)
	}
}
