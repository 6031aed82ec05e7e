package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
)

// ListQuestions returns the catalog in asking order. With a round, only
// questions for that round or for every round are returned.
func (r *Repository) ListQuestions(ctx context.Context, round *int) ([]model.Question, error) {
	const q = `
SELECT id, text, type, stage, round, required, options, section, routing_logic
FROM questions
WHERE $1::int IS NULL OR round IS NULL OR round = $1
ORDER BY stage, position, id
`
	rows, err := r.db.Query(ctx, q, round)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []model.Question
	for rows.Next() {
		var (
			qs      model.Question
			qType   string
			options []byte
			routing []byte
		)
		if err := rows.Scan(&qs.ID, &qs.Text, &qType, &qs.Stage, &qs.Round, &qs.Required, &options, &qs.Section, &routing); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		qs.Type = model.QuestionType(qType)
		if len(options) > 0 {
			if err := json.Unmarshal(options, &qs.Options); err != nil {
				return nil, fmt.Errorf("decode options of question %d: %w", qs.ID, err)
			}
		}
		if len(routing) > 0 {
			qs.RoutingLogic = json.RawMessage(routing)
		}
		out = append(out, qs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}
