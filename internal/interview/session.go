package interview

import (
	"time"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
)

// Session is the state of one active interview: the remote interview record,
// the question catalog loaded for its round and the question being asked.
// Only the Engine mutates a Session.
type Session struct {
	Interview *model.Interview `json:"interview"`
	Catalog   []model.Question `json:"catalog"`
	Current   *model.Question  `json:"current_question"`
	LastError string           `json:"last_error,omitempty"`
}

func newSession(iv *model.Interview) *Session {
	if iv.Stage < 1 {
		iv.Stage = 1
	}
	return &Session{Interview: iv}
}

// ID returns the interview id, or 0 when nothing is loaded.
func (s *Session) ID() int64 {
	if s == nil || s.Interview == nil {
		return 0
	}
	return s.Interview.ID
}

// Round returns the round number of the loaded interview.
func (s *Session) Round() int {
	if s == nil || s.Interview == nil {
		return 0
	}
	return s.Interview.Round.RoundNumber
}

func (s *Session) completed() bool {
	return s.Interview.Status == model.InterviewStatusCompleted
}

func (s *Session) hasQuestion(id int64) bool {
	for i := range s.Catalog {
		if s.Catalog[i].ID == id {
			return true
		}
	}
	return false
}

// State is the read-only view handed to callers after each action.
type State struct {
	InterviewID          int64                 `json:"interview_id"`
	Status               model.InterviewStatus `json:"status"`
	Round                int                   `json:"round"`
	Stage                int                   `json:"stage"`
	TotalStages          int                   `json:"total_stages"`
	CurrentQuestionIndex int                   `json:"current_question_index"`
	CurrentQuestion      *model.Question       `json:"current_question"`
	CurrentAnswer        any                   `json:"current_answer,omitempty"`
	StageQuestions       []model.Question      `json:"stage_questions"`
	CanAdvance           bool                  `json:"can_advance"`
	HasUnanswered        bool                  `json:"has_unanswered"`
	ProgressPercentage   int                   `json:"progress_percentage"`
	AnsweredCount        int                   `json:"answered_count"`
	CompletedAt          *time.Time            `json:"completed_at,omitempty"`
	LastError            string                `json:"last_error,omitempty"`
}

// Snapshot derives the current read-only state of s.
func (s *Session) Snapshot() State {
	if s == nil || s.Interview == nil {
		return State{}
	}
	iv := s.Interview
	st := State{
		InterviewID:          iv.ID,
		Status:               iv.Status,
		Round:                iv.Round.RoundNumber,
		Stage:                iv.Stage,
		TotalStages:          TotalStages(s.Catalog),
		CurrentQuestionIndex: iv.CurrentQuestionIndex,
		CurrentQuestion:      s.Current,
		StageQuestions:       StageQuestions(iv, s.Catalog),
		CanAdvance:           CanAdvance(iv, s.Current),
		HasUnanswered:        HasUnansweredQuestions(iv, s.Catalog),
		ProgressPercentage:   ProgressPercentage(iv, s.Catalog),
		AnsweredCount:        len(iv.Responses),
		CompletedAt:          iv.CompletedAt,
		LastError:            s.LastError,
	}
	if s.Current != nil {
		if r := iv.ResponseFor(s.Current.ID); r != nil {
			st.CurrentAnswer = r.Answer
		}
	}
	return st
}
