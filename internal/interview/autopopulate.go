package interview

import (
	"context"
	"strings"

	"github.com/Olatundeadedeji/streamcati/internal/metrics"
	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"go.uber.org/zap"
)

// DefaultMaxMatches caps how many questions one attribute may fill.
const DefaultMaxMatches = 2

// SubmitFunc records answer for questionID on the session being populated.
type SubmitFunc func(ctx context.Context, questionID int64, answer any) error

// PopulateReport describes one auto-population pass.
type PopulateReport struct {
	Submitted []int64
	Skipped   []int64
	Failed    map[int64]error
}

// Matcher pre-fills questions that ask for something already known about the
// contact. It never overwrites an existing answer.
type Matcher struct {
	table      KeywordTable
	maxMatches int
	logger     *zap.Logger
	metrics    *metrics.InterviewMetrics
}

func NewMatcher(table KeywordTable, logger *zap.Logger, m *metrics.InterviewMetrics) *Matcher {
	if table == nil {
		table = DefaultKeywordTable()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{
		table:      table.normalized(),
		maxMatches: DefaultMaxMatches,
		logger:     logger,
		metrics:    m,
	}
}

// Match returns, in catalog order, at most maxMatches questions of the round
// whose text asks for attr.
func (m *Matcher) Match(catalog []model.Question, round int, attr Attribute) []model.Question {
	var out []model.Question
	for _, q := range catalog {
		if len(out) == m.maxMatches {
			break
		}
		if q.AppliesToRound(round) && m.table.Matches(attr, q.Text) {
			out = append(out, q)
		}
	}
	return out
}

// Populate submits every known contact value into its matching, unanswered
// questions. submit is the regular answer path; fallback is tried once when
// submit fails. Failures never stop the pass.
func (m *Matcher) Populate(ctx context.Context, s *Session, values map[Attribute]string, submit, fallback SubmitFunc) PopulateReport {
	report := PopulateReport{Failed: map[int64]error{}}
	if s == nil || s.Interview == nil {
		return report
	}
	round := s.Round()

	for _, attr := range Attributes {
		value := strings.TrimSpace(values[attr])
		if value == "" {
			continue
		}
		for _, q := range m.Match(s.Catalog, round, attr) {
			if s.Interview.ResponseFor(q.ID).Answered() {
				report.Skipped = append(report.Skipped, q.ID)
				m.metrics.ObserveAutoPopulate(string(attr), "skipped")
				continue
			}

			err := submit(ctx, q.ID, value)
			if err != nil && fallback != nil {
				m.logger.Warn("auto_populate: submit failed, retrying directly",
					zap.Int64("interview_id", s.ID()),
					zap.Int64("question_id", q.ID),
					zap.String("attribute", string(attr)),
					zap.Error(err),
				)
				err = fallback(ctx, q.ID, value)
			}
			if err != nil {
				m.logger.Warn("auto_populate: question left unanswered",
					zap.Int64("interview_id", s.ID()),
					zap.Int64("question_id", q.ID),
					zap.String("attribute", string(attr)),
					zap.Error(err),
				)
				report.Failed[q.ID] = err
				m.metrics.ObserveAutoPopulate(string(attr), "failed")
				continue
			}
			report.Submitted = append(report.Submitted, q.ID)
			m.metrics.ObserveAutoPopulate(string(attr), "submitted")
		}
	}

	SetCurrentQuestion(s)
	return report
}
