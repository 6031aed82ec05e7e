package interview

import "errors"

var (
	// ErrInvalidContactID is returned before any remote call when the contact id is not positive.
	ErrInvalidContactID = errors.New("invalid contact id")

	// ErrNoActiveInterview is returned when an action needs a session that has no interview loaded.
	ErrNoActiveInterview = errors.New("no active interview")

	// ErrNoQuestions is returned by resume when the round has nothing to ask.
	ErrNoQuestions = errors.New("no questions available for this interview round")

	// ErrSessionCompleted is returned for state changes on a completed interview.
	ErrSessionCompleted = errors.New("interview already completed")

	// ErrSessionPaused is returned for state changes on a paused interview until it is resumed.
	ErrSessionPaused = errors.New("interview is paused")

	// ErrRequiredUnanswered is returned when advancing past a required question with no answer.
	ErrRequiredUnanswered = errors.New("current question is required and has no answer")

	// ErrQuestionNotInCatalog is returned when submitting an answer for an unknown question.
	ErrQuestionNotInCatalog = errors.New("question not in catalog")
)
