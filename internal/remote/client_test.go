package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", nil)
}

func TestListQuestionsSendsRoundAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/interviews/questions/", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("round"))
		assert.Equal(t, "Token abc", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"results":[{"id":1,"text":"Name?","type":"text","stage":1,"round":2,"required":true}]}`))
	})

	round := 2
	qs, err := c.WithToken("abc").ListQuestions(context.Background(), &round)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "Name?", qs[0].Text)
	require.NotNil(t, qs[0].Round)
	assert.Equal(t, 2, *qs[0].Round)
}

func TestListQuestionsBareArrayWithoutRound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
	})

	qs, err := c.ListQuestions(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, qs, 2)
}

func TestCreateInterviewPostsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/interviews/", r.URL.Path)
		var req model.CreateInterviewReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(7), req.ContactID)
		assert.Equal(t, model.InterviewStatusInProgress, req.Status)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":12,"contact_id":7,"stage":1,"status":"in_progress","interview_round":{"id":3,"round_number":2,"status":"active","scheduled_at":"2026-10-01T00:00:00Z"}}`))
	})

	iv, err := c.CreateInterview(context.Background(), model.CreateInterviewReq{
		ContactID: 7, Status: model.InterviewStatusInProgress, Stage: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), iv.ID)
	assert.Equal(t, 2, iv.Round.RoundNumber)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), iv.Round.ScheduledAt.UTC())
}

func TestPatchInterviewSendsOnlySetFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/interviews/12/", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"status": "paused"}, body)
		w.WriteHeader(http.StatusNoContent)
	})

	status := model.InterviewStatusPaused
	iv, err := c.PatchInterview(context.Background(), 12, model.PatchInterviewReq{Status: &status})
	require.NoError(t, err)
	assert.Nil(t, iv)
}

func TestStatusErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/interviews/404/":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not found."}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}
	})

	_, err := c.GetInterview(context.Background(), 404)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Not found.", se.Detail)

	_, err = c.ListInterviews(context.Background())
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.Equal(t, "upstream down", se.Detail)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestSubmitResponse(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/interviews/response/", r.URL.Path)
		var req model.SubmitResponseReq
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(4), req.Answer)
		_, _ = w.Write([]byte(`{"id":9,"question_id":301,"interview_id":12,"answer":4}`))
	})

	resp, err := c.SubmitResponse(context.Background(), model.SubmitResponseReq{InterviewID: 12, QuestionID: 301, Answer: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(301), resp.QuestionID)
	assert.Equal(t, float64(4), resp.Answer)
}

func TestContactsCRUD(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/contacts/":
			_, _ = w.Write([]byte(`[{"id":1,"name":"Ada","status":"2"}]`))
		case r.Method == http.MethodPatch && r.URL.Path == "/api/contacts/1/":
			_, _ = w.Write([]byte(`{"id":1,"name":"Ada Eze","status":"round_2"}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/api/contacts/1/":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	list, err := c.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.ContactStatus("2"), list[0].Status, "raw status is normalized by the directory")

	name := "Ada Eze"
	ct, err := c.PatchContact(ctx, 1, model.PatchContactReq{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada Eze", ct.Name)

	require.NoError(t, c.DeleteContact(ctx, 1))
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login/":
			var req model.LoginReq
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Password != "secret" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"detail":"Invalid credentials"}`))
				return
			}
			_, _ = w.Write([]byte(`{"token":"tok","user":{"id":3,"username":"amaka","role":"interviewer"}}`))
		case "/api/auth/me/":
			assert.Equal(t, "Token tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"id":3,"username":"amaka","role":"interviewer"}`))
		}
	})
	ctx := context.Background()

	token, u, err := c.Login(ctx, "amaka", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.True(t, u.CanLogin())

	me, err := c.WithToken(token).Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "amaka", me.Username)

	_, _, err = c.Login(ctx, "amaka", "wrong")
	assert.ErrorContains(t, err, "Invalid credentials")
}
