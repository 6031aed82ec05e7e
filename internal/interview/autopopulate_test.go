package interview

import (
	"context"
	"testing"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amaka() *model.Contact {
	return &model.Contact{
		ID:       7,
		Name:     "Amaka Obi",
		Phone:    "08031234567",
		Location: "Lagos",
		Status:   model.ContactStatusRound1,
	}
}

func TestStartInterviewAutoPopulatesContact(t *testing.T) {
	ctx := context.Background()
	catalog := []model.Question{
		newQuestion(1, "What is your full name?", 1, nil, true),
		newQuestion(2, "Contact number?", 1, nil, true),
		newQuestion(3, "How satisfied are you?", 1, nil, true),
	}
	store := newFakeStore(catalog)
	e := newTestEngine(store, WithContacts(fakeContacts{7: amaka()}))

	s, err := e.StartInterview(ctx, 7, nil)
	require.NoError(t, err)

	assert.Equal(t, "Amaka Obi", s.Interview.ResponseFor(1).Answer)
	assert.Equal(t, "08031234567", s.Interview.ResponseFor(2).Answer)
	require.NotNil(t, s.Current)
	assert.Equal(t, int64(3), s.Current.ID, "cursor moves past pre-filled questions")
	assert.Equal(t, 2, s.Interview.CurrentQuestionIndex)

	submitted := len(store.submissions)
	report := e.autoPopulate(ctx, s)
	assert.Empty(t, report.Submitted)
	assert.ElementsMatch(t, []int64{1, 2}, report.Skipped)
	assert.Len(t, store.submissions, submitted, "second pass submits nothing")
}

func TestAutoPopulateUsesEmbeddedContact(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore([]model.Question{newQuestion(1, "Location of respondent (State)", 1, nil, false)})
	e := newTestEngine(store)
	s, err := e.StartInterview(ctx, 7, nil)
	require.NoError(t, err)
	require.Empty(t, s.Interview.Responses)

	s.Interview.Contact = &model.InterviewContact{ID: 7, Location: "Oyo"}
	report := e.autoPopulate(ctx, s)
	assert.Equal(t, []int64{1}, report.Submitted)
	assert.Equal(t, "Oyo", s.Interview.ResponseFor(1).Answer)
}

func TestAutoPopulateContactLookupFailure(t *testing.T) {
	store := newFakeStore([]model.Question{newQuestion(1, "Your name", 1, nil, false)})
	e := newTestEngine(store, WithContacts(fakeContacts{}))

	s, err := e.StartInterview(context.Background(), 7, nil)
	require.NoError(t, err)
	assert.Empty(t, s.Interview.Responses)
	assert.Empty(t, s.LastError)
}

func TestAutoPopulateFallbackRetry(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore([]model.Question{newQuestion(1, "Customer name", 1, nil, true)})
	store.failSubmit, store.failSubmitN = errBoom, 1
	e := newTestEngine(store, WithContacts(fakeContacts{7: amaka()}))

	s, err := e.StartInterview(ctx, 7, nil)
	require.NoError(t, err)
	assert.Len(t, store.submissions, 2, "one failure then one direct retry")
	assert.Equal(t, "Amaka Obi", s.Interview.ResponseFor(1).Answer)
	assert.Empty(t, s.LastError, "auto-population never surfaces its errors")
}

func TestAutoPopulateFailureLeavesQuestionOpen(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore([]model.Question{newQuestion(1, "Customer name", 1, nil, true)})
	store.failSubmit, store.failSubmitN = errBoom, 2
	e := newTestEngine(store, WithContacts(fakeContacts{7: amaka()}))

	s, err := e.StartInterview(ctx, 7, nil)
	require.NoError(t, err)
	assert.Nil(t, s.Interview.ResponseFor(1))
	assert.Equal(t, int64(1), s.Current.ID)
	assert.Empty(t, s.LastError)
}

func TestMatcherCapsMatchesPerAttribute(t *testing.T) {
	catalog := []model.Question{
		newQuestion(1, "Name of customer", 1, intPtr(1), false),
		newQuestion(2, "Respondent name", 1, nil, false),
		newQuestion(3, "Your name again", 1, nil, false),
		newQuestion(4, "Name for round two", 1, intPtr(2), false),
	}
	m := NewMatcher(nil, nil, nil)

	got := m.Match(catalog, 1, AttrName)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)

	got = m.Match(catalog, 2, AttrName)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, int64(3), got[1].ID)
}

func TestPopulateSkipsEmptyValues(t *testing.T) {
	catalog := []model.Question{
		newQuestion(1, "Ticket number", 1, nil, false),
		newQuestion(2, "Serial no", 1, nil, false),
	}
	s := sessionAt(1, 1, 0, catalog, nil)
	var calls []int64
	submit := func(_ context.Context, id int64, answer any) error {
		calls = append(calls, id)
		s.Interview.PutResponse(model.Response{QuestionID: id, Answer: answer})
		return nil
	}

	report := NewMatcher(nil, nil, nil).Populate(context.Background(), s, map[Attribute]string{
		AttrTicketNumber: "  ",
		AttrSerialNumber: "SN-1",
	}, submit, nil)

	assert.Equal(t, []int64{2}, calls)
	assert.Equal(t, []int64{2}, report.Submitted)
	assert.Empty(t, report.Failed)
}

func TestPopulateFillsFalsyAnswers(t *testing.T) {
	catalog := []model.Question{
		newQuestion(1, "Serial no", 1, nil, true),
		newQuestion(2, "Serial number on the meter", 1, nil, false),
	}
	s := sessionAt(1, 1, 0, catalog, map[int64]any{1: false, 2: "SN-9"})
	var calls []int64
	submit := func(_ context.Context, id int64, answer any) error {
		calls = append(calls, id)
		s.Interview.PutResponse(model.Response{QuestionID: id, Answer: answer})
		return nil
	}

	report := NewMatcher(nil, nil, nil).Populate(context.Background(), s, map[Attribute]string{
		AttrSerialNumber: "SN-1",
	}, submit, nil)

	assert.Equal(t, []int64{1}, calls)
	assert.Equal(t, []int64{2}, report.Skipped)
	assert.Equal(t, "SN-1", s.Interview.ResponseFor(1).Answer)
}

func TestPopulateNilSession(t *testing.T) {
	report := NewMatcher(nil, nil, nil).Populate(context.Background(), nil, nil, nil, nil)
	assert.Empty(t, report.Submitted)
}
