package importer

import (
	"context"
	"fmt"

	"github.com/Olatundeadedeji/streamcati/internal/contacts"
	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"go.uber.org/zap"
)

// ContactImporter creates contacts that are not yet known.
type ContactImporter interface {
	Import(ctx context.Context, reqs []model.CreateContactReq) (contacts.ImportResult, error)
}

// InterviewStore is the part of the interview store the importer writes to.
type InterviewStore interface {
	ListInterviews(ctx context.Context) ([]model.Interview, error)
	CreateInterview(ctx context.Context, req model.CreateInterviewReq) (*model.Interview, error)
	SubmitResponse(ctx context.Context, req model.SubmitResponseReq) (*model.Response, error)
}

// Report summarizes one import run.
type Report struct {
	Contacts           contacts.ImportResult `json:"contacts"`
	InterviewsCreated  []int64               `json:"interviews_created"`
	InterviewsSkipped  []int64               `json:"interviews_skipped"`
	InterviewsFailed   map[int64]string      `json:"interviews_failed,omitempty"`
	ResponsesSubmitted int                   `json:"responses_submitted"`
	ResponsesFailed    int                   `json:"responses_failed"`
	Rejected           map[int]string        `json:"rejected,omitempty"`
}

type Runner struct {
	contacts   ContactImporter
	interviews InterviewStore
	logger     *zap.Logger
}

func NewRunner(c ContactImporter, s InterviewStore, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{contacts: c, interviews: s, logger: logger}
}

// Run imports contacts first, then every interview whose id is not already
// present together with its responses. Per-item failures are logged and
// reported; only failing to read the existing state aborts the run.
func (r *Runner) Run(ctx context.Context, b Batch) (Report, error) {
	rep := Report{InterviewsFailed: map[int64]string{}, Rejected: b.Rejected}

	res, err := r.contacts.Import(ctx, b.Contacts)
	rep.Contacts = res
	if err != nil {
		return rep, fmt.Errorf("import contacts: %w", err)
	}

	existing, err := r.interviews.ListInterviews(ctx)
	if err != nil {
		return rep, fmt.Errorf("list interviews: %w", err)
	}
	known := make(map[int64]bool, len(existing))
	for _, iv := range existing {
		known[iv.ID] = true
	}

	for _, req := range b.Interviews {
		id := *req.ID
		if known[id] {
			rep.InterviewsSkipped = append(rep.InterviewsSkipped, id)
			continue
		}
		created, err := r.interviews.CreateInterview(ctx, req)
		if err != nil {
			r.logger.Warn("import interview failed", zap.Int64("interview_id", id), zap.Error(err))
			rep.InterviewsFailed[id] = err.Error()
			continue
		}
		rep.InterviewsCreated = append(rep.InterviewsCreated, created.ID)

		for _, pr := range b.ResponsesFor(id) {
			contactID := pr.ContactID
			_, err := r.interviews.SubmitResponse(ctx, model.SubmitResponseReq{
				InterviewID: created.ID,
				QuestionID:  pr.QuestionID,
				ContactID:   &contactID,
				Answer:      pr.Answer,
				CompletedAt: pr.CompletedAt,
			})
			if err != nil {
				r.logger.Warn("import response failed",
					zap.Int64("interview_id", created.ID),
					zap.Int64("question_id", pr.QuestionID),
					zap.Error(err),
				)
				rep.ResponsesFailed++
				continue
			}
			rep.ResponsesSubmitted++
		}
	}

	r.logger.Info("import finished",
		zap.Int("contacts_created", len(rep.Contacts.Created)),
		zap.Int("interviews_created", len(rep.InterviewsCreated)),
		zap.Int("responses_submitted", rep.ResponsesSubmitted),
		zap.Int("rejected", len(rep.Rejected)),
	)
	return rep, nil
}
