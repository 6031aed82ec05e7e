package model

import "encoding/json"

type QuestionType string

const (
	QuestionTypeText           QuestionType = "text"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeScale          QuestionType = "scale"
	QuestionTypeBoolean        QuestionType = "boolean"
)

// Question is an immutable catalog entry. A nil Round applies to every round.
type Question struct {
	ID           int64           `json:"id" db:"id"`
	Text         string          `json:"text" db:"text"`
	Type         QuestionType    `json:"type" db:"type"`
	Stage        int             `json:"stage" db:"stage"`
	Round        *int            `json:"round" db:"round"`
	Required     bool            `json:"required" db:"required"`
	Options      []string        `json:"options,omitempty" db:"options"`
	Section      *string         `json:"section,omitempty" db:"section"`
	RoutingLogic json.RawMessage `json:"routing_logic,omitempty" db:"routing_logic"`
}

// AppliesToRound reports whether q is asked in the given round.
func (q Question) AppliesToRound(round int) bool {
	return q.Round == nil || *q.Round == round
}
