package memory

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/Nihil96/quiz-app/internal/domain"
)

// LeaderboardStore keeps the leaderboard record in a string-keyed in-process
// map, mirroring the durable store contract: one JSON document under a fixed
// key, replaced wholesale on save.
type LeaderboardStore struct {
	key string

	mu      sync.RWMutex
	records map[string]string
}

func NewLeaderboardStore(key string) *LeaderboardStore {
	return &LeaderboardStore{
		key:     key,
		records: make(map[string]string),
	}
}

func (s *LeaderboardStore) Load(_ context.Context) ([]domain.PlayerScoreEntry, error) {
	s.mu.RLock()
	raw, ok := s.records[s.key]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	var entries []domain.PlayerScoreEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		// Corrupt records degrade to an empty board, never an error.
		log.Printf("leaderboard record corrupt, treating as empty: %v", err)
		return nil, nil
	}
	return entries, nil
}

func (s *LeaderboardStore) Save(_ context.Context, entries []domain.PlayerScoreEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.records[s.key] = string(raw)
	s.mu.Unlock()
	return nil
}
