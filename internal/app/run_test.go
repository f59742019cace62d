package app_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Nihil96/quiz-app/internal/app"
	"github.com/Nihil96/quiz-app/internal/domain"
)

func fixedClock() func() time.Time {
	at := time.Date(2025, 8, 11, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func testDeck(n int) []domain.Question {
	deck := make([]domain.Question, 0, n)
	for i := 0; i < n; i++ {
		correct := fmt.Sprintf("right-%d", i)
		deck = append(deck, domain.Question{
			Type:          domain.QuestionCapital,
			Prompt:        fmt.Sprintf("question %d", i),
			CorrectAnswer: correct,
			Options:       []string{correct, "wrong-a", "wrong-b", "wrong-c"},
		})
	}
	return deck
}

func TestSelectAnswerScoresAndStopsTimer(t *testing.T) {
	run := app.NewRunWithClock("run-1", "Alice", testDeck(3), fixedClock())

	snap := run.SelectAnswer("right-0")
	if snap.Score != 1 {
		t.Fatalf("expected score 1, got %d", snap.Score)
	}
	if snap.TimerActive {
		t.Fatalf("expected timer stopped after answering")
	}
	entry, ok := snap.Answered[0]
	if !ok || !entry.IsCorrect || entry.Answer != "right-0" {
		t.Fatalf("expected correct entry at index 0, got %+v", snap.Answered)
	}
}

func TestSelectAnswerIsIdempotent(t *testing.T) {
	run := app.NewRunWithClock("run-1", "Alice", testDeck(3), fixedClock())

	run.SelectAnswer("right-0")
	snap := run.SelectAnswer("wrong-a")

	if snap.Score != 1 {
		t.Fatalf("re-answer changed score: %d", snap.Score)
	}
	if snap.Answered[0].Answer != "right-0" {
		t.Fatalf("re-answer overwrote entry: %+v", snap.Answered[0])
	}
}

func TestScoreMatchesCorrectCount(t *testing.T) {
	run := app.NewRunWithClock("run-1", "Alice", testDeck(4), fixedClock())

	answers := []string{"right-0", "wrong-a", "right-2"}
	for i, answer := range answers {
		snap := run.SelectAnswer(answer)
		correct := 0
		for _, a := range snap.Answered {
			if a.IsCorrect {
				correct++
			}
		}
		if snap.Score != correct {
			t.Fatalf("after answer %d: score %d != correct count %d", i, snap.Score, correct)
		}
		if _, err := run.Next(); err != nil {
			t.Fatalf("next after answer %d: %v", i, err)
		}
	}
}

func TestNextRequiresRecordedAnswer(t *testing.T) {
	run := app.NewRunWithClock("run-1", "Alice", testDeck(2), fixedClock())

	if _, err := run.Next(); !errors.Is(err, domain.ErrAnswerRequired) {
		t.Fatalf("expected ErrAnswerRequired, got %v", err)
	}
}

func TestPreviousAtFirstQuestion(t *testing.T) {
	run := app.NewRunWithClock("run-1", "Alice", testDeck(2), fixedClock())

	if _, err := run.Previous(); !errors.Is(err, domain.ErrAtFirstQuestion) {
		t.Fatalf("expected ErrAtFirstQuestion, got %v", err)
	}
}

func TestRevisitShowsRecordedAnswerWithPausedTimer(t *testing.T) {
	run := app.NewRunWithClock("run-1", "Alice", testDeck(4), fixedClock())

	run.SelectAnswer("right-0")
	mustNext(t, run)
	run.SelectAnswer("wrong-a")
	mustNext(t, run)
	run.SelectAnswer("right-2")

	// Back to question 0, then forward to question 2 again.
	mustPrevious(t, run)
	mustPrevious(t, run)
	mustNext(t, run)
	snap := mustNext(t, run)

	if snap.QuestionIndex != 2 {
		t.Fatalf("expected index 2, got %d", snap.QuestionIndex)
	}
	if snap.SelectedAnswer != "right-2" {
		t.Fatalf("expected recorded answer redisplayed, got %q", snap.SelectedAnswer)
	}
	if snap.TimerActive {
		t.Fatalf("timer must not restart on an already answered question")
	}
	if snap.TimeLeft != 30 {
		t.Fatalf("expected timeLeft reset to 30, got %d", snap.TimeLeft)
	}
}

func TestPreviousPausesTimer(t *testing.T) {
	run := app.NewRunWithClock("run-1", "Alice", testDeck(3), fixedClock())

	run.SelectAnswer("right-0")
	mustNext(t, run)
	snap := mustPrevious(t, run)

	if snap.QuestionIndex != 0 {
		t.Fatalf("expected index 0, got %d", snap.QuestionIndex)
	}
	if snap.TimerActive {
		t.Fatalf("revisiting history must pause the timer")
	}
}

func TestTickCountsDownAndAutoAdvancesOnce(t *testing.T) {
	run := app.NewRunWithClock("run-1", "Alice", testDeck(2), fixedClock())

	for i := 0; i < 29; i++ {
		run.Tick()
	}
	snap := run.Snapshot()
	if snap.TimeLeft != 1 || snap.QuestionIndex != 0 {
		t.Fatalf("expected timeLeft 1 at index 0, got timeLeft=%d index=%d", snap.TimeLeft, snap.QuestionIndex)
	}

	// The zero reading advances exactly once; the slot stays unanswered.
	run.Tick()
	snap = run.Snapshot()
	if snap.QuestionIndex != 1 {
		t.Fatalf("expected auto-advance to index 1, got %d", snap.QuestionIndex)
	}
	if _, ok := snap.Answered[0]; ok {
		t.Fatalf("expired question must stay unanswered, got %+v", snap.Answered)
	}
	if snap.TimeLeft != 30 || !snap.TimerActive {
		t.Fatalf("expected fresh active 30s timer, got timeLeft=%d active=%v", snap.TimeLeft, snap.TimerActive)
	}

	run.Tick()
	run.Tick()
	snap = run.Snapshot()
	if snap.QuestionIndex != 1 || snap.TimeLeft != 28 {
		t.Fatalf("expected countdown resumed at index 1, got index=%d timeLeft=%d", snap.QuestionIndex, snap.TimeLeft)
	}
}

func TestTickIgnoredWhileTimerPaused(t *testing.T) {
	run := app.NewRunWithClock("run-1", "Alice", testDeck(2), fixedClock())

	run.SelectAnswer("wrong-a")
	for i := 0; i < 5; i++ {
		run.Tick()
	}
	snap := run.Snapshot()
	if snap.TimeLeft != 30 {
		t.Fatalf("ticks while paused must not decrement, got %d", snap.TimeLeft)
	}
	if snap.QuestionIndex != 0 {
		t.Fatalf("ticks while paused must not advance, got index %d", snap.QuestionIndex)
	}
}

func TestCompletionProducesEntryOnce(t *testing.T) {
	clock := fixedClock()
	run := app.NewRunWithClock("run-1", "Alice", testDeck(1), clock)

	run.SelectAnswer("right-0")
	snap := mustNext(t, run)
	if !snap.Completed || snap.View != domain.ViewResults {
		t.Fatalf("expected completed run on results view, got %+v", snap)
	}

	result, ok := run.Result()
	if !ok {
		t.Fatalf("expected completion result")
	}
	if result.Entry.Username != "Alice" || result.Entry.Score != 1 {
		t.Fatalf("unexpected entry %+v", result.Entry)
	}
	if result.Entry.Timestamp != clock().Format(time.RFC3339) {
		t.Fatalf("unexpected timestamp %q", result.Entry.Timestamp)
	}

	if _, err := run.Next(); !errors.Is(err, domain.ErrRunComplete) {
		t.Fatalf("expected ErrRunComplete, got %v", err)
	}
	if run.Tick() {
		t.Fatalf("ticks after completion must report the run dead")
	}
}

func TestExpiryOnLastQuestionCompletesUnanswered(t *testing.T) {
	run := app.NewRunWithClock("run-1", "Alice", testDeck(1), fixedClock())

	for i := 0; i < 30; i++ {
		run.Tick()
	}
	snap := run.Snapshot()
	if !snap.Completed {
		t.Fatalf("expected completion after expiry on the last question")
	}
	if snap.Score != 0 {
		t.Fatalf("expected score 0, got %d", snap.Score)
	}

	// Extra zero readings must not produce a second completion entry.
	run.Tick()
	run.Tick()
	result, ok := run.Result()
	if !ok || result.Entry.Score != 0 {
		t.Fatalf("expected single zero-score entry, got %+v", result)
	}
}

func mustNext(t *testing.T, run *app.Run) domain.RunSnapshot {
	t.Helper()
	snap, err := run.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	return snap
}

func mustPrevious(t *testing.T, run *app.Run) domain.RunSnapshot {
	t.Helper()
	snap, err := run.Previous()
	if err != nil {
		t.Fatalf("previous: %v", err)
	}
	return snap
}
