package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Olatundeadedeji/streamcati/pkg"
	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var contactColumns = []string{"id", "name", "email", "phone", "serial_number", "cuid", "ticket_number",
	"status", "location", "notes", "interview_count", "created_at", "last_contact"}

func newMockRepo(t *testing.T, crypto *pkg.Crypto) (*Repository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewRepository(mock, crypto), mock
}

func TestListQuestions(t *testing.T) {
	repo, mock := newMockRepo(t, nil)
	round := 2
	section := "Identity"

	rows := pgxmock.NewRows([]string{"id", "text", "type", "stage", "round", "required", "options", "section", "routing_logic"}).
		AddRow(int64(101), "Customer name", "text", 1, (*int)(nil), true, []byte(nil), &section, []byte(nil)).
		AddRow(int64(301), "Rate the signal", "scale", 2, &round, false, []byte(`["1","2","3","4","5"]`), (*string)(nil), []byte(`{"skip":false}`))
	mock.ExpectQuery("SELECT id, text, type").WithArgs(&round).WillReturnRows(rows)

	qs, err := repo.ListQuestions(context.Background(), &round)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, model.QuestionTypeText, qs[0].Type)
	assert.Nil(t, qs[0].Round)
	assert.Equal(t, "Identity", *qs[0].Section)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, qs[1].Options)
	assert.JSONEq(t, `{"skip":false}`, string(qs[1].RoutingLogic))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetContactNotFound(t *testing.T) {
	repo, mock := newMockRepo(t, nil)
	mock.ExpectQuery("SELECT .+ FROM contacts WHERE id").WithArgs(int64(9)).WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetContact(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateContactSealsPhone(t *testing.T) {
	crypto, err := pkg.NewCrypto("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	repo, mock := newMockRepo(t, crypto)

	sealed, err := crypto.Encrypt("08031234567")
	require.NoError(t, err)
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO contacts \\(id,").
		WithArgs(int64(42), "Amaka Obi", "", pgxmock.AnyArg(), "SN-1", "", "", "round_2", "Lagos", (*string)(nil)).
		WillReturnRows(pgxmock.NewRows(contactColumns).
			AddRow(int64(42), "Amaka Obi", "", sealed, "SN-1", "", "", "round_2", "Lagos", (*string)(nil), 0, now, (*time.Time)(nil)))
	mock.ExpectExec("SELECT setval").WillReturnResult(pgxmock.NewResult("SELECT", 1))

	c, err := repo.CreateContact(context.Background(), model.CreateContactReq{
		ID: 42, Name: "Amaka Obi", Phone: "08031234567", SerialNumber: "SN-1", Location: "Lagos", Status: "2",
	})
	require.NoError(t, err)
	assert.Equal(t, "08031234567", c.Phone)
	assert.Equal(t, model.ContactStatusRound2, c.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateContactDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t, nil)
	mock.ExpectQuery("INSERT INTO contacts \\(id,").
		WithArgs(int64(1), "Ada", "", "", "", "", "", "not_started", "", (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.CreateContact(context.Background(), model.CreateContactReq{ID: 1, Name: "Ada"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatchContactOnlySetFields(t *testing.T) {
	repo, mock := newMockRepo(t, nil)
	name := "Ada Eze"
	now := time.Now().UTC()

	mock.ExpectQuery("UPDATE contacts SET name = \\$1 WHERE id = \\$2").
		WithArgs("Ada Eze", int64(3)).
		WillReturnRows(pgxmock.NewRows(contactColumns).
			AddRow(int64(3), "Ada Eze", "", "", "", "", "", "not_started", "", (*string)(nil), 1, now, &now))

	c, err := repo.PatchContact(context.Background(), 3, model.PatchContactReq{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Ada Eze", c.Name)
	assert.Equal(t, 1, c.InterviewCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteContactMissing(t *testing.T) {
	repo, mock := newMockRepo(t, nil)
	mock.ExpectExec("DELETE FROM contacts").WithArgs(int64(5)).WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.DeleteContact(context.Background(), 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateInterviewRollsBackOnConflict(t *testing.T) {
	repo, mock := newMockRepo(t, nil)
	id := int64(77)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM interview_rounds").WithArgs(int64(4)).WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO interviews").
		WithArgs(&id, int64(4), (*int64)(nil), 1, "completed", pgxmock.AnyArg(), (*time.Time)(nil), 0).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := repo.CreateInterview(context.Background(), model.CreateInterviewReq{
		ID: &id, ContactID: 4, Status: model.InterviewStatusCompleted,
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInterviewBumpsContact(t *testing.T) {
	repo, mock := newMockRepo(t, nil)
	started := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM interview_rounds").WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(12)))
	mock.ExpectQuery("INSERT INTO interviews").
		WithArgs((*int64)(nil), int64(4), pgxmock.AnyArg(), 1, "in_progress", started, (*time.Time)(nil), 0).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(90)))
	mock.ExpectExec("UPDATE contacts SET interview_count").WithArgs(int64(4), started).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	mock.ExpectQuery("FROM interviews i").WithArgs(int64(90)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "contact_id", "stage", "status", "started_at", "completed_at", "current_question_index",
			"round_id", "round_number", "round_status", "scheduled_at", "can_start"}).
			AddRow(int64(90), int64(4), 1, "in_progress", started, (*time.Time)(nil), 0,
				int64(12), 2, "active", started, true))
	mock.ExpectQuery("SELECT .+ FROM contacts WHERE id").WithArgs(int64(4)).
		WillReturnRows(pgxmock.NewRows(contactColumns).
			AddRow(int64(4), "Amaka Obi", "", "0803", "", "", "", "round_2", "", (*string)(nil), 1, started, &started))
	mock.ExpectQuery("FROM responses").WithArgs(int64(90)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "question_id", "contact_id", "answer", "completed_at"}))

	iv, err := repo.CreateInterview(context.Background(), model.CreateInterviewReq{
		ContactID: 4, Status: model.InterviewStatusInProgress, StartedAt: &started,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(90), iv.ID)
	assert.Equal(t, 2, iv.Round.RoundNumber)
	require.NotNil(t, iv.Contact)
	assert.Equal(t, "Amaka Obi", iv.Contact.Name)
	assert.Empty(t, iv.Responses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatchInterviewMissing(t *testing.T) {
	repo, mock := newMockRepo(t, nil)
	status := model.InterviewStatusPaused

	mock.ExpectExec("UPDATE interviews SET status = \\$1 WHERE id = \\$2").
		WithArgs("paused", int64(8)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	_, err := repo.PatchInterview(context.Background(), 8, model.PatchInterviewReq{Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitResponseUpserts(t *testing.T) {
	repo, mock := newMockRepo(t, nil)
	contactID := int64(4)
	done := time.Date(2024, 5, 1, 9, 5, 0, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO responses").
		WithArgs(int64(90), int64(101), (*int64)(nil), []byte(`"Amaka Obi"`), (*time.Time)(nil)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "contact_id", "completed_at"}).AddRow(int64(1), &contactID, &done))

	resp, err := repo.SubmitResponse(context.Background(), model.SubmitResponseReq{
		InterviewID: 90, QuestionID: 101, Answer: "Amaka Obi",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, int64(90), *resp.InterviewID)
	assert.Equal(t, int64(4), *resp.ContactID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin(t *testing.T) {
	repo, mock := newMockRepo(t, nil)
	hash, err := pkg.HashPassword("s3cret")
	require.NoError(t, err)
	userColumns := []string{"id", "username", "email", "password_hash", "role", "phone", "created_at"}

	mock.ExpectQuery("FROM users WHERE username").WithArgs("ada").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(1), "ada", "ada@example.com", hash, "interviewer", (*string)(nil), time.Now()))
	u, err := repo.Login(context.Background(), "Ada", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, model.UserRoleInterviewer, u.Role)

	mock.ExpectQuery("FROM users WHERE username").WithArgs("ada").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(1), "ada", "ada@example.com", hash, "interviewer", (*string)(nil), time.Now()))
	_, err = repo.Login(context.Background(), "ada", "wrong")
	assert.ErrorIs(t, err, ErrBadLogin)

	mock.ExpectQuery("FROM users WHERE username").WithArgs("ghost").WillReturnError(pgx.ErrNoRows)
	_, err = repo.Login(context.Background(), "ghost", "x")
	assert.ErrorIs(t, err, ErrBadLogin)

	assert.NoError(t, mock.ExpectationsWereMet())
}
