package app

import (
	"sync"
	"time"

	"github.com/Nihil96/quiz-app/internal/domain"
)

const questionSeconds = 30

// Run is the state machine for a single quiz attempt. All mutation goes
// through its transition methods; the mutex serializes user actions against
// the run's own ticker goroutine. The score always equals the number of
// correct entries in answered.
type Run struct {
	id       string
	username string
	deck     []domain.Question
	now      func() time.Time

	// onComplete is invoked exactly once, before the final snapshot is
	// broadcast, so subscribers observe a persisted leaderboard.
	onComplete func(domain.PlayerScoreEntry) domain.CompletionResult

	mu          sync.Mutex
	view        domain.View
	index       int
	score       int
	timeLeft    int
	timerActive bool
	selected    string
	answered    map[int]domain.AnsweredQuestion
	expired     bool // one-shot guard: a zero reading advances at most once
	completed   bool
	result      *domain.CompletionResult

	subscribers map[chan domain.RunSnapshot]struct{}
	closeOnce   sync.Once
	closed      chan struct{}
}

func newRun(id, username string, deck []domain.Question, now func() time.Time) *Run {
	return &Run{
		id:          id,
		username:    username,
		deck:        deck,
		now:         now,
		view:        domain.ViewQuiz,
		timeLeft:    questionSeconds,
		timerActive: true,
		answered:    make(map[int]domain.AnsweredQuestion),
		subscribers: make(map[chan domain.RunSnapshot]struct{}),
		closed:      make(chan struct{}),
	}
}

// NewRunWithClock is exported for tests that drive Tick manually with a
// deterministic clock. No ticker goroutine is started.
func NewRunWithClock(id, username string, deck []domain.Question, now func() time.Time) *Run {
	return newRun(id, username, deck, now)
}

// ID returns the run identifier.
func (r *Run) ID() string { return r.id }

// startClock drives Tick on a fixed cadence until the run completes or is
// closed. Ticks landing while the timer is paused are no-ops, so pausing
// never races with delivery.
func (r *Run) startClock(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !r.Tick() {
					return
				}
			case <-r.closed:
				return
			}
		}
	}()
}

// Close stops the ticker goroutine and drops all subscribers.
func (r *Run) Close() {
	r.closeOnce.Do(func() { close(r.closed) })
	r.mu.Lock()
	defer r.mu.Unlock()
	for ch := range r.subscribers {
		delete(r.subscribers, ch)
		close(ch)
	}
}

// SelectAnswer records an answer for the current question. Re-answering an
// already answered index is a silent no-op.
func (r *Run) SelectAnswer(answer string) domain.RunSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.completed {
		return r.snapshotLocked()
	}
	if _, ok := r.answered[r.index]; ok {
		return r.snapshotLocked()
	}

	r.timerActive = false
	r.selected = answer
	isCorrect := answer == r.deck[r.index].CorrectAnswer
	r.answered[r.index] = domain.AnsweredQuestion{Answer: answer, IsCorrect: isCorrect}
	if isCorrect {
		r.score++
	}
	return r.broadcastLocked()
}

// Next moves to the following question, or completes the run on the last
// index. It requires a recorded answer for the current question; timer expiry
// advances through the same path without that requirement.
func (r *Run) Next() (domain.RunSnapshot, error) {
	r.mu.Lock()
	if r.completed {
		snap := r.snapshotLocked()
		r.mu.Unlock()
		return snap, domain.ErrRunComplete
	}
	if _, ok := r.answered[r.index]; !ok {
		snap := r.snapshotLocked()
		r.mu.Unlock()
		return snap, domain.ErrAnswerRequired
	}
	return r.advanceUnlock(), nil
}

// Previous steps back one question. Revisited questions redisplay their
// recorded answer with a paused timer.
func (r *Run) Previous() (domain.RunSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.completed {
		return r.snapshotLocked(), domain.ErrRunComplete
	}
	if r.index == 0 {
		return r.snapshotLocked(), domain.ErrAtFirstQuestion
	}

	r.index--
	r.expired = false
	r.restoreSelectedLocked()
	r.timeLeft = questionSeconds
	r.timerActive = false
	return r.broadcastLocked(), nil
}

// Tick decrements the countdown by one second while the timer is active,
// flooring at zero. The first zero reading triggers exactly one auto-advance,
// recorded or not. It reports whether the run is still live.
func (r *Run) Tick() bool {
	r.mu.Lock()
	if r.completed {
		r.mu.Unlock()
		return false
	}
	if !r.timerActive || r.timeLeft <= 0 {
		r.mu.Unlock()
		return true
	}

	r.timeLeft--
	if r.timeLeft > 0 {
		r.broadcastLocked()
		r.mu.Unlock()
		return true
	}
	if r.expired {
		r.mu.Unlock()
		return true
	}
	r.expired = true
	r.advanceUnlock()

	r.mu.Lock()
	live := !r.completed
	r.mu.Unlock()
	return live
}

// advanceUnlock performs the shared advance transition. It is entered with
// the lock held and returns with it released, so the completion hook can
// persist the leaderboard before the final snapshot goes out.
func (r *Run) advanceUnlock() domain.RunSnapshot {
	r.expired = false

	if r.index >= len(r.deck)-1 {
		r.completed = true
		r.timerActive = false
		r.view = domain.ViewResults
		entry := domain.PlayerScoreEntry{
			Username:  r.username,
			Score:     r.score,
			Timestamp: r.now().Format(time.RFC3339),
		}
		hook := r.onComplete
		r.mu.Unlock()

		var result domain.CompletionResult
		if hook != nil {
			result = hook(entry)
		} else {
			result = domain.CompletionResult{Entry: entry, UpdatedAt: r.now()}
		}

		r.mu.Lock()
		r.result = &result
		snap := r.broadcastLocked()
		r.mu.Unlock()
		return snap
	}

	r.index++
	r.restoreSelectedLocked()
	r.timeLeft = questionSeconds
	// Revisited questions stay locked: the timer only restarts on a fresh,
	// unanswered index.
	_, alreadyAnswered := r.answered[r.index]
	r.timerActive = !alreadyAnswered
	snap := r.broadcastLocked()
	r.mu.Unlock()
	return snap
}

func (r *Run) restoreSelectedLocked() {
	if prev, ok := r.answered[r.index]; ok {
		r.selected = prev.Answer
	} else {
		r.selected = ""
	}
}

// Result returns the completion result once the run has finished.
func (r *Run) Result() (domain.CompletionResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result == nil {
		return domain.CompletionResult{}, false
	}
	return *r.result, true
}

// Snapshot returns a consistent copy of the run state.
func (r *Run) Snapshot() domain.RunSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Run) subscribe() (<-chan domain.RunSnapshot, func()) {
	ch := make(chan domain.RunSnapshot, 8)

	r.mu.Lock()
	r.subscribers[ch] = struct{}{}
	initial := r.snapshotLocked()
	r.mu.Unlock()

	ch <- initial

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

func (r *Run) broadcastLocked() domain.RunSnapshot {
	snap := r.snapshotLocked()
	for ch := range r.subscribers {
		select {
		case ch <- snap:
		default:
			// Drop the stale snapshot so a slow client never blocks transitions.
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (r *Run) snapshotLocked() domain.RunSnapshot {
	answered := make(map[int]domain.AnsweredQuestion, len(r.answered))
	for i, a := range r.answered {
		answered[i] = a
	}

	var question *domain.Question
	if !r.completed && r.index < len(r.deck) {
		q := r.deck[r.index]
		question = &q
	}

	return domain.RunSnapshot{
		RunID:          r.id,
		Username:       r.username,
		View:           r.view,
		QuestionIndex:  r.index,
		QuestionCount:  len(r.deck),
		Question:       question,
		TimeLeft:       r.timeLeft,
		TimerActive:    r.timerActive,
		SelectedAnswer: r.selected,
		Answered:       answered,
		Score:          r.score,
		Completed:      r.completed,
	}
}
