package model

import (
	"strings"
	"time"
)

type RoundStatus string

const (
	RoundStatusPending   RoundStatus = "pending"
	RoundStatusActive    RoundStatus = "active"
	RoundStatusCompleted RoundStatus = "completed"
	RoundStatusCancelled RoundStatus = "cancelled"
)

type InterviewStatus string

const (
	InterviewStatusInProgress InterviewStatus = "in_progress"
	InterviewStatusCompleted  InterviewStatus = "completed"
	InterviewStatusPaused     InterviewStatus = "paused"
)

// FinalRound is the last scheduled round; it is run manually and never
// reported as due.
const FinalRound = 4

type InterviewRound struct {
	ID                int64       `json:"id" db:"id"`
	RoundNumber       int         `json:"round_number" db:"round_number"`
	Status            RoundStatus `json:"status" db:"status"`
	ScheduledAt       time.Time   `json:"scheduled_at" db:"scheduled_at"`
	CanStartInterview bool        `json:"can_start_interview" db:"can_start_interview"`
}

// Response is one answer to one question within one interview.
type Response struct {
	ID          int64      `json:"id,omitempty" db:"id"`
	QuestionID  int64      `json:"question_id" db:"question_id"`
	InterviewID *int64     `json:"interview_id,omitempty" db:"interview_id"`
	ContactID   *int64     `json:"contact_id,omitempty" db:"contact_id"`
	Answer      any        `json:"answer" db:"answer"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// Answered reports whether r carries a non-empty answer.
func (r *Response) Answered() bool {
	return r != nil && !AnswerIsEmpty(r.Answer)
}

// AnswerIsEmpty treats nil, falsy scalars (false, 0, blank strings) and empty
// collections as no answer.
func AnswerIsEmpty(answer any) bool {
	switch v := answer.(type) {
	case nil:
		return true
	case bool:
		return !v
	case float64:
		return v == 0
	case float32:
		return v == 0
	case int:
		return v == 0
	case int64:
		return v == 0
	case int32:
		return v == 0
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

type InterviewContact struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	SerialNumber string `json:"serialNumber"`
	CUID         string `json:"cuid"`
	TicketNumber string `json:"ticketNumber"`
	Location     string `json:"location"`
}

// Interview is a single session with a contact within one round.
type Interview struct {
	ID                   int64             `json:"id" db:"id"`
	ContactID            int64             `json:"contact_id" db:"contact_id"`
	Contact              *InterviewContact `json:"contact,omitempty"`
	Round                InterviewRound    `json:"interview_round"`
	Stage                int               `json:"stage" db:"stage"`
	Status               InterviewStatus   `json:"status" db:"status"`
	Responses            []Response        `json:"responses"`
	StartedAt            time.Time         `json:"started_at" db:"started_at"`
	CompletedAt          *time.Time        `json:"completed_at,omitempty" db:"completed_at"`
	CurrentQuestionIndex int               `json:"current_question_index" db:"current_question_index"`
}

// ResponseFor returns the recorded response for questionID, or nil.
func (iv *Interview) ResponseFor(questionID int64) *Response {
	for i := range iv.Responses {
		if iv.Responses[i].QuestionID == questionID {
			return &iv.Responses[i]
		}
	}
	return nil
}

// PutResponse replaces the response for the same question or appends it.
func (iv *Interview) PutResponse(r Response) {
	for i := range iv.Responses {
		if iv.Responses[i].QuestionID == r.QuestionID {
			iv.Responses[i] = r
			return
		}
	}
	iv.Responses = append(iv.Responses, r)
}

type CreateInterviewReq struct {
	ContactID            int64           `json:"contact_id"`
	InterviewRoundID     *int64          `json:"interview_round_id,omitempty"`
	Status               InterviewStatus `json:"status"`
	Stage                int             `json:"stage"`
	CurrentQuestionIndex int             `json:"current_question_index"`
	StartedAt            *time.Time      `json:"started_at,omitempty"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
	ID                   *int64          `json:"id,omitempty"`
}

// PatchInterviewReq carries only the fields being changed.
type PatchInterviewReq struct {
	Status               *InterviewStatus `json:"status,omitempty"`
	Stage                *int             `json:"stage,omitempty"`
	CurrentQuestionIndex *int             `json:"current_question_index,omitempty"`
	CompletedAt          *time.Time       `json:"completed_at,omitempty"`
}

type SubmitResponseReq struct {
	InterviewID int64      `json:"interview_id"`
	QuestionID  int64      `json:"question_id"`
	ContactID   *int64     `json:"contact_id,omitempty"`
	Answer      any        `json:"answer"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type StartInterviewReq struct {
	ContactID int64  `json:"contact_id" binding:"required"`
	RoundID   *int64 `json:"round_id"`
}

type AnswerReq struct {
	QuestionID int64 `json:"question_id" binding:"required"`
	Answer     any   `json:"answer"`
}
