package app

import (
	"context"
	"sort"

	"github.com/Nihil96/quiz-app/internal/domain"
)

// leaderboard size cap; entries falling off the bottom are dropped for good.
const leaderboardSize = 10

// LeaderboardStore abstracts the durable record holding the ranked list
// (Redis string, in-memory map). Load treats absent or corrupt data as an
// empty board.
type LeaderboardStore interface {
	Load(ctx context.Context) ([]domain.PlayerScoreEntry, error)
	Save(ctx context.Context, entries []domain.PlayerScoreEntry) error
}

// mergeLeaderboard appends entry, sorts by score descending and truncates to
// the top entries. The sort is stable: ties keep insertion order, so an older
// equal score ranks above a newer one.
func mergeLeaderboard(entries []domain.PlayerScoreEntry, entry domain.PlayerScoreEntry) []domain.PlayerScoreEntry {
	merged := make([]domain.PlayerScoreEntry, 0, len(entries)+1)
	merged = append(merged, entries...)
	merged = append(merged, entry)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Score > merged[j].Score
	})

	if len(merged) > leaderboardSize {
		merged = merged[:leaderboardSize]
	}
	return merged
}
