package app

import (
	"fmt"
	"testing"

	"github.com/Nihil96/quiz-app/internal/domain"
)

func TestMergeLeaderboardRanksDescending(t *testing.T) {
	existing := []domain.PlayerScoreEntry{
		{Username: "A", Score: 50},
		{Username: "B", Score: 80},
	}

	merged := mergeLeaderboard(existing, domain.PlayerScoreEntry{Username: "C", Score: 65})

	want := []string{"B", "C", "A"}
	if len(merged) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(merged))
	}
	for i, name := range want {
		if merged[i].Username != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, merged[i].Username)
		}
	}
}

func TestMergeLeaderboardTruncatesToTopTen(t *testing.T) {
	existing := make([]domain.PlayerScoreEntry, 0, 10)
	for i := 0; i < 10; i++ {
		existing = append(existing, domain.PlayerScoreEntry{
			Username: fmt.Sprintf("player-%d", i),
			Score:    100 - i*10, // 100 down to 10
		})
	}

	merged := mergeLeaderboard(existing, domain.PlayerScoreEntry{Username: "newcomer", Score: 55})

	if len(merged) != 10 {
		t.Fatalf("expected 10 entries after truncation, got %d", len(merged))
	}
	for _, entry := range merged {
		if entry.Username == "player-9" {
			t.Fatalf("lowest entry should have been dropped")
		}
	}
	if merged[5].Username != "newcomer" {
		t.Fatalf("expected newcomer at rank 6, got %s", merged[5].Username)
	}
}

func TestMergeLeaderboardTiesKeepInsertionOrder(t *testing.T) {
	existing := []domain.PlayerScoreEntry{
		{Username: "first", Score: 40},
		{Username: "second", Score: 40},
	}

	merged := mergeLeaderboard(existing, domain.PlayerScoreEntry{Username: "third", Score: 40})

	want := []string{"first", "second", "third"}
	for i, name := range want {
		if merged[i].Username != name {
			t.Fatalf("tie order broken at %d: expected %s, got %s", i, name, merged[i].Username)
		}
	}
}
