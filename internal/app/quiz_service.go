package app

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/Nihil96/quiz-app/internal/domain"
	"github.com/google/uuid"
)

// RunRepository abstracts how live quiz runs are stored.
type RunRepository interface {
	Put(run *Run)
	Get(runID string) (*Run, bool)
	Delete(runID string)
}

// CountryRepository loads the country dataset (from cache/backing store).
type CountryRepository interface {
	GetCountries(ctx context.Context) ([]domain.Country, error)
}

// QuizService contains the quiz use cases: starting runs, driving their
// transitions, and reading the leaderboard.
type QuizService struct {
	runs      RunRepository
	countries CountryRepository
	board     LeaderboardStore

	now          func() time.Time
	newRand      func() *rand.Rand
	tickInterval time.Duration
}

func NewQuizService(runs RunRepository, countries CountryRepository, board LeaderboardStore) *QuizService {
	return &QuizService{
		runs:      runs,
		countries: countries,
		board:     board,
		now:       time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		tickInterval: time.Second,
	}
}

// NewQuizServiceWithDeps is test-only for deterministic clocks and decks.
// A zero tickInterval disables run ticker goroutines so tests drive Tick.
func NewQuizServiceWithDeps(runs RunRepository, countries CountryRepository, board LeaderboardStore, now func() time.Time, newRand func() *rand.Rand, tickInterval time.Duration) *QuizService {
	s := NewQuizService(runs, countries, board)
	s.now = now
	s.newRand = newRand
	s.tickInterval = tickInterval
	return s
}

// StartRun validates the username, generates a fresh deck and registers a new
// run on the quiz view with its countdown running.
func (s *QuizService) StartRun(ctx context.Context, username string) (*Run, error) {
	if strings.TrimSpace(username) == "" {
		return nil, domain.ErrInvalidUsername
	}

	countries, err := s.countries.GetCountries(ctx)
	if err != nil {
		return nil, err
	}

	deck := GenerateDeck(s.newRand(), countries)
	if len(deck) == 0 {
		return nil, domain.ErrNoCountries
	}

	run := newRun(uuid.NewString(), username, deck, s.now)
	run.onComplete = s.finalize
	s.runs.Put(run)

	if s.tickInterval > 0 {
		run.startClock(s.tickInterval)
	}
	return run, nil
}

// SelectAnswer records an answer on a run; re-answering is a silent no-op.
func (s *QuizService) SelectAnswer(runID, answer string) (domain.RunSnapshot, error) {
	run, ok := s.runs.Get(runID)
	if !ok {
		return domain.RunSnapshot{}, domain.ErrRunNotFound
	}
	return run.SelectAnswer(answer), nil
}

// Next advances a run to the following question or completes it.
func (s *QuizService) Next(runID string) (domain.RunSnapshot, error) {
	run, ok := s.runs.Get(runID)
	if !ok {
		return domain.RunSnapshot{}, domain.ErrRunNotFound
	}
	return run.Next()
}

// Previous steps a run back one question.
func (s *QuizService) Previous(runID string) (domain.RunSnapshot, error) {
	run, ok := s.runs.Get(runID)
	if !ok {
		return domain.RunSnapshot{}, domain.ErrRunNotFound
	}
	return run.Previous()
}

// Subscribe returns a channel receiving run snapshots on every transition and
// tick. The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(runID string) (<-chan domain.RunSnapshot, func(), error) {
	run, ok := s.runs.Get(runID)
	if !ok {
		return nil, nil, domain.ErrRunNotFound
	}
	ch, cancel := run.subscribe()
	return ch, cancel, nil
}

// Result returns the completion result of a finished run.
func (s *QuizService) Result(runID string) (domain.CompletionResult, error) {
	run, ok := s.runs.Get(runID)
	if !ok {
		return domain.CompletionResult{}, domain.ErrRunNotFound
	}
	result, done := run.Result()
	if !done {
		return domain.CompletionResult{}, domain.ErrRunActive
	}
	return result, nil
}

// Leaderboard returns the current persisted ranking.
func (s *QuizService) Leaderboard(ctx context.Context) ([]domain.PlayerScoreEntry, error) {
	return s.board.Load(ctx)
}

// CloseRun stops a run's ticker and forgets it (client navigated away).
func (s *QuizService) CloseRun(runID string) {
	run, ok := s.runs.Get(runID)
	if !ok {
		return
	}
	run.Close()
	s.runs.Delete(runID)
}

// finalize merges the finished run's entry into the durable leaderboard.
// Store failures degrade to an unpersisted board rather than failing the run.
func (s *QuizService) finalize(entry domain.PlayerScoreEntry) domain.CompletionResult {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	existing, err := s.board.Load(ctx)
	if err != nil {
		log.Printf("load leaderboard: %v", err)
		existing = nil
	}

	merged := mergeLeaderboard(existing, entry)
	if err := s.board.Save(ctx, merged); err != nil {
		log.Printf("save leaderboard: %v", err)
	}

	return domain.CompletionResult{
		Entry:       entry,
		Leaderboard: merged,
		UpdatedAt:   s.now(),
	}
}
