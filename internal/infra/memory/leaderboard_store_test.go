package memory

import (
	"context"
	"testing"

	"github.com/Nihil96/quiz-app/internal/domain"
)

func TestLeaderboardStoreRoundTrip(t *testing.T) {
	store := NewLeaderboardStore("quiz:leaderboard")

	entries := []domain.PlayerScoreEntry{
		{Username: "Alice", Score: 10, Timestamp: "2025-08-11T12:00:00Z"},
		{Username: "Bob", Score: 7, Timestamp: "2025-08-11T11:00:00Z"},
	}
	if err := store.Save(context.Background(), entries); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 || loaded[0].Username != "Alice" || loaded[1].Score != 7 {
		t.Fatalf("unexpected entries %+v", loaded)
	}
}

func TestLeaderboardStoreAbsentRecord(t *testing.T) {
	store := NewLeaderboardStore("quiz:leaderboard")

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty board, got %+v", loaded)
	}
}

func TestLeaderboardStoreCorruptRecordDegradesToEmpty(t *testing.T) {
	store := NewLeaderboardStore("quiz:leaderboard")
	store.records["quiz:leaderboard"] = "{not json"

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("corrupt record must not error: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty board, got %+v", loaded)
	}
}
