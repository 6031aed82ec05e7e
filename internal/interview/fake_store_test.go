package interview

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
)

var errBoom = errors.New("boom")

// fakeStore is an in-memory Store that records every call.
type fakeStore struct {
	mu sync.Mutex

	questions  []model.Question
	interviews map[int64]*model.Interview
	nextID     int64

	patches     []model.PatchInterviewReq
	submissions []model.SubmitResponseReq
	roundsAsked []*int

	failCreate    error
	failGet       error
	failList      error
	failQuestions error
	failPatch     error
	// failSubmit fails the next n submissions.
	failSubmit  error
	failSubmitN int
}

func newFakeStore(questions []model.Question) *fakeStore {
	return &fakeStore{
		questions:  questions,
		interviews: map[int64]*model.Interview{},
		nextID:     100,
	}
}

func (f *fakeStore) ListQuestions(_ context.Context, round *int) ([]model.Question, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roundsAsked = append(f.roundsAsked, round)
	if f.failQuestions != nil {
		return nil, f.failQuestions
	}
	out := make([]model.Question, 0, len(f.questions))
	for _, q := range f.questions {
		if round == nil || q.AppliesToRound(*round) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateInterview(_ context.Context, req model.CreateInterviewReq) (*model.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return nil, f.failCreate
	}
	f.nextID++
	iv := &model.Interview{
		ID:                   f.nextID,
		ContactID:            req.ContactID,
		Round:                model.InterviewRound{ID: 1, RoundNumber: 1, Status: model.RoundStatusActive},
		Stage:                req.Stage,
		Status:               req.Status,
		StartedAt:            time.Now().UTC(),
		CurrentQuestionIndex: req.CurrentQuestionIndex,
	}
	f.interviews[iv.ID] = iv
	cp := *iv
	return &cp, nil
}

func (f *fakeStore) GetInterview(_ context.Context, id int64) (*model.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	iv, ok := f.interviews[id]
	if !ok {
		return nil, errors.New("not found")
	}
	cp := *iv
	cp.Responses = append([]model.Response(nil), iv.Responses...)
	return &cp, nil
}

func (f *fakeStore) ListInterviews(context.Context) ([]model.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	out := make([]model.Interview, 0, len(f.interviews))
	for _, iv := range f.interviews {
		out = append(out, *iv)
	}
	return out, nil
}

func (f *fakeStore) PatchInterview(_ context.Context, id int64, patch model.PatchInterviewReq) (*model.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patch)
	if f.failPatch != nil {
		return nil, f.failPatch
	}
	iv, ok := f.interviews[id]
	if !ok {
		return nil, errors.New("not found")
	}
	if patch.Status != nil {
		iv.Status = *patch.Status
	}
	if patch.Stage != nil {
		iv.Stage = *patch.Stage
	}
	if patch.CurrentQuestionIndex != nil {
		iv.CurrentQuestionIndex = *patch.CurrentQuestionIndex
	}
	if patch.CompletedAt != nil {
		iv.CompletedAt = patch.CompletedAt
	}
	cp := *iv
	return &cp, nil
}

func (f *fakeStore) SubmitResponse(_ context.Context, req model.SubmitResponseReq) (*model.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, req)
	if f.failSubmit != nil && f.failSubmitN > 0 {
		f.failSubmitN--
		return nil, f.failSubmit
	}
	id := req.InterviewID
	resp := model.Response{ID: int64(len(f.submissions)), QuestionID: req.QuestionID, InterviewID: &id, Answer: req.Answer}
	if iv, ok := f.interviews[req.InterviewID]; ok {
		iv.PutResponse(resp)
	}
	return &resp, nil
}

func (f *fakeStore) seed(iv model.Interview) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := iv
	f.interviews[iv.ID] = &cp
}

type fakeContacts map[int64]*model.Contact

func (f fakeContacts) Get(_ context.Context, id int64) (*model.Contact, error) {
	c, ok := f[id]
	if !ok {
		return nil, errors.New("contact not found")
	}
	return c, nil
}

func intPtr(v int) *int { return &v }

func newQuestion(id int64, text string, stage int, round *int, required bool) model.Question {
	return model.Question{ID: id, Text: text, Type: model.QuestionTypeText, Stage: stage, Round: round, Required: required}
}
