package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/jackc/pgx/v5"
)

const interviewSelect = `
SELECT i.id, i.contact_id, i.stage, i.status, i.started_at, i.completed_at, i.current_question_index,
	COALESCE(ir.id, 0), COALESCE(ir.round_number, 0), COALESCE(ir.status, ''),
	COALESCE(ir.scheduled_at, i.started_at), COALESCE(ir.can_start_interview, false)
FROM interviews i
LEFT JOIN interview_rounds ir ON ir.id = i.interview_round_id
`

func scanInterview(row interface{ Scan(...any) error }) (*model.Interview, error) {
	var (
		iv          model.Interview
		status      string
		roundStatus string
	)
	if err := row.Scan(&iv.ID, &iv.ContactID, &iv.Stage, &status, &iv.StartedAt, &iv.CompletedAt, &iv.CurrentQuestionIndex,
		&iv.Round.ID, &iv.Round.RoundNumber, &roundStatus, &iv.Round.ScheduledAt, &iv.Round.CanStartInterview); err != nil {
		return nil, err
	}
	iv.Status = model.InterviewStatus(status)
	iv.Round.Status = model.RoundStatus(roundStatus)
	return &iv, nil
}

// CreateInterview inserts the interview and bumps the contact's interview
// count in one transaction. Without a round id the contact's earliest open
// round is used.
func (r *Repository) CreateInterview(ctx context.Context, req model.CreateInterviewReq) (*model.Interview, error) {
	startedAt := time.Now().UTC()
	if req.StartedAt != nil {
		startedAt = *req.StartedAt
	}
	stage := req.Stage
	if stage < 1 {
		stage = 1
	}

	var id int64
	err := r.execTx(ctx, func(tx pgx.Tx) error {
		roundID := req.InterviewRoundID
		if roundID == nil {
			const findRound = `
SELECT id FROM interview_rounds
WHERE contact_id = $1 AND status IN ('pending', 'active')
ORDER BY round_number
LIMIT 1
`
			var found int64
			switch err := tx.QueryRow(ctx, findRound, req.ContactID).Scan(&found); {
			case err == nil:
				roundID = &found
			case !errors.Is(err, pgx.ErrNoRows):
				return fmt.Errorf("find round: %w", err)
			}
		}

		const insert = `
INSERT INTO interviews (id, contact_id, interview_round_id, stage, status, started_at, completed_at, current_question_index)
VALUES (COALESCE($1, nextval('interviews_id_seq')), $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`
		if err := tx.QueryRow(ctx, insert, req.ID, req.ContactID, roundID, stage, string(req.Status),
			startedAt, req.CompletedAt, req.CurrentQuestionIndex).Scan(&id); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("interview: %w", ErrAlreadyExists)
			}
			return fmt.Errorf("insert interview: %w", err)
		}
		if req.ID != nil {
			if err := syncSequence(ctx, tx, "interviews"); err != nil {
				return err
			}
		}

		const bump = `UPDATE contacts SET interview_count = interview_count + 1, last_contact = $2 WHERE id = $1`
		if _, err := tx.Exec(ctx, bump, req.ContactID, startedAt); err != nil {
			return fmt.Errorf("update contact: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetInterview(ctx, id)
}

// GetInterview loads the interview with its round, contact and responses.
func (r *Repository) GetInterview(ctx context.Context, id int64) (*model.Interview, error) {
	iv, err := scanInterview(r.db.QueryRow(ctx, interviewSelect+`WHERE i.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "interview")
	}

	c, err := r.GetContact(ctx, iv.ContactID)
	if err == nil {
		iv.Contact = &model.InterviewContact{
			ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone,
			SerialNumber: c.SerialNumber, CUID: c.CUID, TicketNumber: c.TicketNumber, Location: c.Location,
		}
	}

	responses, err := r.listResponses(ctx, id)
	if err != nil {
		return nil, err
	}
	iv.Responses = responses
	return iv, nil
}

// ListInterviews returns interviews without their responses.
func (r *Repository) ListInterviews(ctx context.Context) ([]model.Interview, error) {
	rows, err := r.db.Query(ctx, interviewSelect+`ORDER BY i.started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query interviews: %w", err)
	}
	defer rows.Close()

	var out []model.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		out = append(out, *iv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interviews: %w", err)
	}
	return out, nil
}

// PatchInterview updates only the fields set on patch.
func (r *Repository) PatchInterview(ctx context.Context, id int64, patch model.PatchInterviewReq) (*model.Interview, error) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.Stage != nil {
		add("stage", *patch.Stage)
	}
	if patch.CurrentQuestionIndex != nil {
		add("current_question_index", *patch.CurrentQuestionIndex)
	}
	if patch.CompletedAt != nil {
		add("completed_at", *patch.CompletedAt)
	}
	if len(sets) == 0 {
		return r.GetInterview(ctx, id)
	}

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE interviews SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	tag, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("update interview: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("interview %d: %w", id, ErrNotFound)
	}
	return r.GetInterview(ctx, id)
}
