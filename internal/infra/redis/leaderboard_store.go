package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/Nihil96/quiz-app/internal/domain"
	"github.com/redis/go-redis/v9"
)

// LeaderboardStore persists the leaderboard as a single JSON string under a
// fixed key. Save replaces the record wholesale; there is one writer.
type LeaderboardStore struct {
	client *redis.Client
	key    string
}

func NewLeaderboardStore(client *redis.Client, key string) *LeaderboardStore {
	return &LeaderboardStore{client: client, key: key}
}

func (s *LeaderboardStore) Load(ctx context.Context) ([]domain.PlayerScoreEntry, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []domain.PlayerScoreEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		// Corrupt records degrade to an empty board, never an error.
		log.Printf("leaderboard record corrupt, treating as empty: %v", err)
		return nil, nil
	}
	return entries, nil
}

func (s *LeaderboardStore) Save(ctx context.Context, entries []domain.PlayerScoreEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	// No TTL: the leaderboard record is durable.
	return s.client.Set(ctx, s.key, raw, 0).Err()
}
