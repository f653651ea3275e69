package scrobble

import (
	"context"
	"testing"

	"github.com/needledrop/needledrop/internal/player"
)

// createTestHistory creates an in-memory SQLite history for testing.
func createTestHistory(t *testing.T) *History {
	t.Helper()

	history, err := OpenHistory(":memory:")
	if err != nil {
		t.Fatalf("failed to create test history: %v", err)
	}
	t.Cleanup(func() { _ = history.Close() })
	return history
}

func TestHistory_RecordAndRecent(t *testing.T) {
	history := createTestHistory(t)
	ctx := context.Background()

	tracks := []*player.Track{
		{Name: "First", Artist: "A", Album: "X", Length: 180, StartedAt: 1000, Loved: true},
		{Name: "Second", Artist: "B", Album: "Y", Length: 240, StartedAt: 2000},
		{Name: "Third", Artist: "C", Album: "", Length: 200, StartedAt: 3000},
	}
	for _, tr := range tracks {
		if _, err := history.Record(ctx, tr); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	plays, err := history.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(plays) != 3 {
		t.Fatalf("expected 3 plays, got %d", len(plays))
	}

	// Newest first.
	if plays[0].Track != "Third" || plays[2].Track != "First" {
		t.Errorf("expected newest-first ordering, got %v, %v, %v",
			plays[0].Track, plays[1].Track, plays[2].Track)
	}
	if !plays[2].Loved {
		t.Error("expected loved flag to round-trip")
	}
	if plays[2].StartedAt.Unix() != 1000 {
		t.Errorf("expected started_at 1000, got %d", plays[2].StartedAt.Unix())
	}
	if plays[0].Album != "" {
		t.Errorf("expected empty album, got %q", plays[0].Album)
	}
}

func TestHistory_RecentLimit(t *testing.T) {
	history := createTestHistory(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		track := &player.Track{Name: "T", Artist: "A", Length: 100, StartedAt: int64(i)}
		if _, err := history.Record(ctx, track); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	plays, err := history.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(plays) != 2 {
		t.Errorf("expected 2 plays, got %d", len(plays))
	}
}

func TestHistory_RecentEmpty(t *testing.T) {
	history := createTestHistory(t)

	plays, err := history.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(plays) != 0 {
		t.Errorf("expected no plays, got %d", len(plays))
	}
}
