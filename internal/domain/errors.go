package domain

import "errors"

var (
	// ErrRunNotFound is returned when a quiz run ID is unknown or already closed.
	ErrRunNotFound = errors.New("quiz run not found")
	// ErrInvalidUsername rejects blank usernames at quiz start.
	ErrInvalidUsername = errors.New("username must not be empty")
	// ErrNoCountries indicates the country dataset is empty or could not be loaded.
	ErrNoCountries = errors.New("no countries available")
	// ErrRunComplete is returned for transitions attempted after completion.
	ErrRunComplete = errors.New("quiz run already complete")
	// ErrRunActive is returned when results are requested before completion.
	ErrRunActive = errors.New("quiz run still in progress")
	// ErrAnswerRequired is returned when Next is requested with no recorded answer.
	ErrAnswerRequired = errors.New("current question has no recorded answer")
	// ErrAtFirstQuestion is returned when Previous is requested at index zero.
	ErrAtFirstQuestion = errors.New("already at the first question")
)
