package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
)

// ListQuestions fetches the catalog, filtered to round when given.
func (c *Client) ListQuestions(ctx context.Context, round *int) ([]model.Question, error) {
	var q url.Values
	if round != nil {
		q = url.Values{"round": {strconv.Itoa(*round)}}
	}
	var out page[model.Question]
	if err := c.doJSON(ctx, "list_questions", http.MethodGet, "/interviews/questions/", q, nil, &out); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return out.Items, nil
}

func (c *Client) CreateInterview(ctx context.Context, req model.CreateInterviewReq) (*model.Interview, error) {
	var iv model.Interview
	if err := c.doJSON(ctx, "create_interview", http.MethodPost, "/interviews/", nil, req, &iv); err != nil {
		return nil, fmt.Errorf("create interview: %w", err)
	}
	return &iv, nil
}

func (c *Client) GetInterview(ctx context.Context, id int64) (*model.Interview, error) {
	var iv model.Interview
	if err := c.doJSON(ctx, "get_interview", http.MethodGet, fmt.Sprintf("/interviews/%d/", id), nil, nil, &iv); err != nil {
		return nil, fmt.Errorf("get interview %d: %w", id, err)
	}
	return &iv, nil
}

func (c *Client) ListInterviews(ctx context.Context) ([]model.Interview, error) {
	var out page[model.Interview]
	if err := c.doJSON(ctx, "list_interviews", http.MethodGet, "/interviews/", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	return out.Items, nil
}

// PatchInterview sends only the fields set on patch. The backend may answer
// with an empty body, in which case nil is returned without error.
func (c *Client) PatchInterview(ctx context.Context, id int64, patch model.PatchInterviewReq) (*model.Interview, error) {
	var iv *model.Interview
	if err := c.doJSON(ctx, "patch_interview", http.MethodPatch, fmt.Sprintf("/interviews/%d/", id), nil, patch, &iv); err != nil {
		return nil, fmt.Errorf("patch interview %d: %w", id, err)
	}
	return iv, nil
}

func (c *Client) SubmitResponse(ctx context.Context, req model.SubmitResponseReq) (*model.Response, error) {
	var r model.Response
	if err := c.doJSON(ctx, "submit_response", http.MethodPost, "/interviews/response/", nil, req, &r); err != nil {
		return nil, fmt.Errorf("submit response: %w", err)
	}
	return &r, nil
}
