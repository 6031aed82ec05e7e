package interview

import (
	"math"
	"time"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
)

// StageQuestions returns, in catalog order, the questions asked at the
// interview's current stage in its round. This list is the unit of traversal.
func StageQuestions(iv *model.Interview, catalog []model.Question) []model.Question {
	if iv == nil {
		return nil
	}
	round := iv.Round.RoundNumber
	out := make([]model.Question, 0, len(catalog))
	for _, q := range catalog {
		if q.Stage == iv.Stage && q.AppliesToRound(round) {
			out = append(out, q)
		}
	}
	return out
}

// TotalStages is the highest stage in the catalog, or 1 for an empty catalog.
func TotalStages(catalog []model.Question) int {
	highest := 0
	for _, q := range catalog {
		if q.Stage > highest {
			highest = q.Stage
		}
	}
	if highest == 0 {
		return 1
	}
	return highest
}

// SetCurrentQuestion points the session at the first unanswered stage question
// at or after the cursor. When everything from the cursor on is answered the
// last stage question becomes current (the review position).
func SetCurrentQuestion(s *Session) {
	if s == nil || s.Interview == nil {
		return
	}
	iv := s.Interview
	qs := StageQuestions(iv, s.Catalog)

	idx := iv.CurrentQuestionIndex
	if idx < 0 {
		idx = 0
	}
	for i := idx; i < len(qs); i++ {
		if !iv.ResponseFor(qs[i].ID).Answered() {
			iv.CurrentQuestionIndex = i
			s.Current = &qs[i]
			return
		}
	}

	if len(qs) == 0 {
		iv.CurrentQuestionIndex = 0
		s.Current = nil
		return
	}
	last := len(qs) - 1
	iv.CurrentQuestionIndex = last
	s.Current = &qs[last]
}

// CanAdvance reports whether the interviewer may move past current.
// Only a required question without a non-empty answer blocks.
func CanAdvance(iv *model.Interview, current *model.Question) bool {
	if iv == nil || current == nil {
		return false
	}
	if !current.Required {
		return true
	}
	return iv.ResponseFor(current.ID).Answered()
}

// HasUnansweredQuestions reports whether any question of the current stage
// still lacks an answer.
func HasUnansweredQuestions(iv *model.Interview, catalog []model.Question) bool {
	for _, q := range StageQuestions(iv, catalog) {
		if !iv.ResponseFor(q.ID).Answered() {
			return true
		}
	}
	return false
}

// ProgressPercentage is the share of round-applicable questions (all stages)
// with a recorded response, rounded to a whole percent.
func ProgressPercentage(iv *model.Interview, catalog []model.Question) int {
	if iv == nil {
		return 0
	}
	total := 0
	for _, q := range catalog {
		if q.AppliesToRound(iv.Round.RoundNumber) {
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(len(iv.Responses)) / float64(total) * 100))
}

// IsDue reports whether iv should be picked up at now: its round is active,
// scheduled no later than now, and is not the final (manual) round.
func IsDue(iv model.Interview, now time.Time) bool {
	r := iv.Round
	if r.RoundNumber == 0 || r.RoundNumber >= model.FinalRound {
		return false
	}
	return r.Status == model.RoundStatusActive && !r.ScheduledAt.After(now)
}

// DueInterviews filters interviews down to the ones due at now.
func DueInterviews(interviews []model.Interview, now time.Time) []model.Interview {
	out := make([]model.Interview, 0)
	for _, iv := range interviews {
		if IsDue(iv, now) {
			out = append(out, iv)
		}
	}
	return out
}
