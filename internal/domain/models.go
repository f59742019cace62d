package domain

import "time"

// QuestionType distinguishes the two question shapes the generator produces.
type QuestionType string

const (
	QuestionCapital   QuestionType = "capital"
	QuestionContinent QuestionType = "continent"
)

// View names the navigable screens of a quiz client.
type View string

const (
	ViewWelcome View = "welcome"
	ViewQuiz    View = "quiz"
	ViewResults View = "results"
)

// Continent is the continent a country belongs to.
type Continent struct {
	Name string `json:"name"`
}

// Language is one language spoken in a country.
type Language struct {
	Name string `json:"name"`
}

// Country is one entry of the source dataset. Countries without a capital
// exist in the data and are skipped by the generator.
type Country struct {
	Name      string     `json:"name"`
	Capital   string     `json:"capital"`
	Continent Continent  `json:"continent"`
	Languages []Language `json:"languages"`
}

// Question is a single multiple-choice question. CorrectAnswer is always one
// of Options.
type Question struct {
	Type          QuestionType `json:"type"`
	Prompt        string       `json:"question"`
	CorrectAnswer string       `json:"correctAnswer"`
	Options       []string     `json:"options"`
}

// AnsweredQuestion records the answer given at one question index. Entries
// are append-only: an index is never re-answered.
type AnsweredQuestion struct {
	Answer    string `json:"answer"`
	IsCorrect bool   `json:"isCorrect"`
}

// PlayerScoreEntry is one immutable leaderboard row, created at quiz completion.
type PlayerScoreEntry struct {
	Username  string `json:"username"`
	Score     int    `json:"score"`
	Timestamp string `json:"timestamp"` // RFC 3339
}

// RunSnapshot is a consistent view of a quiz run, safe to hand to transports.
type RunSnapshot struct {
	RunID          string                   `json:"runId"`
	Username       string                   `json:"username"`
	View           View                     `json:"view"`
	QuestionIndex  int                      `json:"questionIndex"`
	QuestionCount  int                      `json:"questionCount"`
	Question       *Question                `json:"question,omitempty"`
	TimeLeft       int                      `json:"timeLeft"`
	TimerActive    bool                     `json:"timerActive"`
	SelectedAnswer string                   `json:"selectedAnswer,omitempty"`
	Answered       map[int]AnsweredQuestion `json:"answered"`
	Score          int                      `json:"score"`
	Completed      bool                     `json:"completed"`
}

// CompletionResult is emitted once when a run finishes.
type CompletionResult struct {
	Entry       PlayerScoreEntry   `json:"entry"`
	Leaderboard []PlayerScoreEntry `json:"leaderboard"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
