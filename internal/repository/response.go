package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
)

// SubmitResponse stores the answer, replacing an earlier answer to the same
// question of the same interview.
func (r *Repository) SubmitResponse(ctx context.Context, req model.SubmitResponseReq) (*model.Response, error) {
	answer, err := json.Marshal(req.Answer)
	if err != nil {
		return nil, fmt.Errorf("encode answer: %w", err)
	}

	const q = `
INSERT INTO responses (interview_id, question_id, contact_id, answer, completed_at)
VALUES ($1, $2, COALESCE($3, (SELECT contact_id FROM interviews WHERE id = $1)), $4, COALESCE($5, now()))
ON CONFLICT (interview_id, question_id)
DO UPDATE SET answer = EXCLUDED.answer, completed_at = EXCLUDED.completed_at
RETURNING id, contact_id, completed_at
`
	resp := model.Response{QuestionID: req.QuestionID, Answer: req.Answer}
	interviewID := req.InterviewID
	resp.InterviewID = &interviewID
	if err := r.db.QueryRow(ctx, q, req.InterviewID, req.QuestionID, req.ContactID, answer, req.CompletedAt).
		Scan(&resp.ID, &resp.ContactID, &resp.CompletedAt); err != nil {
		return nil, fmt.Errorf("upsert response: %w", err)
	}
	return &resp, nil
}

func (r *Repository) listResponses(ctx context.Context, interviewID int64) ([]model.Response, error) {
	const q = `
SELECT id, question_id, contact_id, answer, completed_at
FROM responses
WHERE interview_id = $1
ORDER BY id
`
	rows, err := r.db.Query(ctx, q, interviewID)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	var out []model.Response
	for rows.Next() {
		var (
			resp model.Response
			raw  []byte
		)
		if err := rows.Scan(&resp.ID, &resp.QuestionID, &resp.ContactID, &raw, &resp.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &resp.Answer); err != nil {
				return nil, fmt.Errorf("decode answer of response %d: %w", resp.ID, err)
			}
		}
		id := interviewID
		resp.InterviewID = &id
		out = append(out, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate responses: %w", err)
	}
	return out, nil
}
