package interview

import (
	"context"
	"fmt"
	"time"

	"github.com/Olatundeadedeji/streamcati/internal/metrics"
	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"go.uber.org/zap"
)

// Store is the remote side of an interview. Every call may fail or be slow.
type Store interface {
	ListQuestions(ctx context.Context, round *int) ([]model.Question, error)
	CreateInterview(ctx context.Context, req model.CreateInterviewReq) (*model.Interview, error)
	GetInterview(ctx context.Context, id int64) (*model.Interview, error)
	ListInterviews(ctx context.Context) ([]model.Interview, error)
	PatchInterview(ctx context.Context, id int64, patch model.PatchInterviewReq) (*model.Interview, error)
	SubmitResponse(ctx context.Context, req model.SubmitResponseReq) (*model.Response, error)
}

// ContactSource resolves the contact whose data feeds auto-population.
type ContactSource interface {
	Get(ctx context.Context, id int64) (*model.Contact, error)
}

// Transition is the kind of move NextQuestion made.
type Transition string

const (
	TransitionQuestion  Transition = "question"
	TransitionStage     Transition = "stage"
	TransitionCompleted Transition = "completed"
	TransitionRetreat   Transition = "retreat"
	TransitionNone      Transition = "none"
)

// SaveOutcome is the result of a best-effort state save. A failed save never
// rolls back local state.
type SaveOutcome struct {
	Err error
}

func (o SaveOutcome) OK() bool { return o.Err == nil }

type Engine struct {
	store    Store
	contacts ContactSource
	matcher  *Matcher
	logger   *zap.Logger
	metrics  *metrics.InterviewMetrics
	autoSave bool
	now      func() time.Time
}

type Option func(*Engine)

func WithContacts(c ContactSource) Option { return func(e *Engine) { e.contacts = c } }

func WithMatcher(m *Matcher) Option { return func(e *Engine) { e.matcher = m } }

func WithMetrics(m *metrics.InterviewMetrics) Option { return func(e *Engine) { e.metrics = m } }

func WithAutoSave(enabled bool) Option { return func(e *Engine) { e.autoSave = enabled } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func NewEngine(store Store, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		store:    store,
		logger:   logger,
		autoSave: true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.matcher == nil {
		e.matcher = NewMatcher(nil, logger, e.metrics)
	}
	return e
}

// StartInterview creates an interview for contactID, optionally pinned to a
// round, loads its catalog and auto-populates known contact data. On a catalog
// failure the created session is still returned alongside the error.
func (e *Engine) StartInterview(ctx context.Context, contactID int64, roundID *int64) (*Session, error) {
	if contactID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidContactID, contactID)
	}

	iv, err := e.store.CreateInterview(ctx, model.CreateInterviewReq{
		ContactID:            contactID,
		InterviewRoundID:     roundID,
		Status:               model.InterviewStatusInProgress,
		Stage:                1,
		CurrentQuestionIndex: 0,
	})
	if err != nil {
		e.logger.Error("start_interview: create failed", zap.Int64("contact_id", contactID), zap.Error(err))
		return nil, fmt.Errorf("start interview: %w", err)
	}
	if iv.ContactID == 0 {
		iv.ContactID = contactID
	}

	s := newSession(iv)
	if err := e.loadCatalog(ctx, s); err != nil {
		return s, err
	}
	SetCurrentQuestion(s)
	e.autoPopulate(ctx, s)

	e.logger.Info("start_interview: started",
		zap.Int64("interview_id", iv.ID),
		zap.Int64("contact_id", contactID),
		zap.Int("round", s.Round()),
		zap.Int("questions", len(s.Catalog)),
	)
	return s, nil
}

// ResumeInterview reloads an interview, reopens it if paused and always
// re-fetches the catalog for its round. When the round has no questions the
// session is returned together with ErrNoQuestions.
func (e *Engine) ResumeInterview(ctx context.Context, interviewID int64) (*Session, error) {
	iv, err := e.store.GetInterview(ctx, interviewID)
	if err != nil {
		e.logger.Error("resume_interview: fetch failed", zap.Int64("interview_id", interviewID), zap.Error(err))
		return nil, fmt.Errorf("resume interview: %w", err)
	}
	s := newSession(iv)

	if iv.Status == model.InterviewStatusPaused {
		status := model.InterviewStatusInProgress
		if _, err := e.store.PatchInterview(ctx, iv.ID, model.PatchInterviewReq{Status: &status}); err != nil {
			s.LastError = err.Error()
			return s, fmt.Errorf("resume interview: reopen: %w", err)
		}
		iv.Status = status
		e.metrics.ObserveTransition("resume")
	}

	if err := e.loadCatalog(ctx, s); err != nil {
		return s, err
	}
	SetCurrentQuestion(s)
	if !s.completed() {
		e.autoPopulate(ctx, s)
	}

	if s.Current == nil {
		s.LastError = ErrNoQuestions.Error()
		return s, ErrNoQuestions
	}
	e.logger.Info("resume_interview: resumed",
		zap.Int64("interview_id", iv.ID),
		zap.Int("stage", iv.Stage),
		zap.Int("index", iv.CurrentQuestionIndex),
	)
	return s, nil
}

func (e *Engine) loadCatalog(ctx context.Context, s *Session) error {
	var round *int
	if r := s.Round(); r > 0 {
		round = &r
	}
	catalog, err := e.store.ListQuestions(ctx, round)
	if err != nil {
		s.LastError = err.Error()
		e.logger.Error("load_catalog: fetch questions failed", zap.Int64("interview_id", s.ID()), zap.Error(err))
		return fmt.Errorf("fetch questions: %w", err)
	}
	s.Catalog = catalog
	return nil
}

// SubmitResponse records answer for questionID remotely and then locally,
// replacing any earlier answer to the same question.
func (e *Engine) SubmitResponse(ctx context.Context, s *Session, questionID int64, answer any) (*model.Response, error) {
	if err := checkActive(s); err != nil {
		return nil, err
	}
	resp, err := e.submit(ctx, s, questionID, answer)
	if err != nil {
		s.LastError = err.Error()
		return nil, err
	}
	if e.autoSave {
		e.saveState(ctx, s, model.PatchInterviewReq{})
	}
	return resp, nil
}

func (e *Engine) submit(ctx context.Context, s *Session, questionID int64, answer any) (*model.Response, error) {
	if len(s.Catalog) > 0 && !s.hasQuestion(questionID) {
		return nil, fmt.Errorf("%w: %d", ErrQuestionNotInCatalog, questionID)
	}

	resp, err := e.store.SubmitResponse(ctx, model.SubmitResponseReq{
		InterviewID: s.Interview.ID,
		QuestionID:  questionID,
		Answer:      answer,
	})
	if err != nil {
		e.logger.Error("submit_response: failed",
			zap.Int64("interview_id", s.Interview.ID),
			zap.Int64("question_id", questionID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("submit response: %w", err)
	}

	if resp.QuestionID == 0 {
		resp.QuestionID = questionID
	}
	if resp.Answer == nil {
		resp.Answer = answer
	}
	s.Interview.PutResponse(*resp)
	return resp, nil
}

// NextQuestion moves to the next unanswered question of the stage, then to the
// next stage, and finally completes the interview.
func (e *Engine) NextQuestion(ctx context.Context, s *Session) (Transition, error) {
	if err := checkActive(s); err != nil {
		return TransitionNone, err
	}
	if s.Current != nil && !CanAdvance(s.Interview, s.Current) {
		return TransitionNone, ErrRequiredUnanswered
	}

	iv := s.Interview
	qs := StageQuestions(iv, s.Catalog)
	for i := iv.CurrentQuestionIndex + 1; i < len(qs); i++ {
		if !iv.ResponseFor(qs[i].ID).Answered() {
			iv.CurrentQuestionIndex = i
			SetCurrentQuestion(s)
			e.saveState(ctx, s, model.PatchInterviewReq{})
			e.metrics.ObserveTransition(string(TransitionQuestion))
			return TransitionQuestion, nil
		}
	}

	if iv.Stage < TotalStages(s.Catalog) {
		iv.Stage++
		iv.CurrentQuestionIndex = 0
		SetCurrentQuestion(s)
		e.saveState(ctx, s, model.PatchInterviewReq{})
		e.metrics.ObserveTransition(string(TransitionStage))
		e.logger.Info("next_question: stage advanced", zap.Int64("interview_id", iv.ID), zap.Int("stage", iv.Stage))
		return TransitionStage, nil
	}

	now := e.now().UTC()
	status := model.InterviewStatusCompleted
	iv.Status = status
	iv.CompletedAt = &now
	e.saveState(ctx, s, model.PatchInterviewReq{Status: &status, CompletedAt: &now})
	e.metrics.ObserveTransition(string(TransitionCompleted))
	e.logger.Info("next_question: interview completed", zap.Int64("interview_id", iv.ID))
	return TransitionCompleted, nil
}

// PreviousQuestion steps the cursor back by one and settles on the first
// unanswered question from there. It is a no-op at index 0, and also when the
// settle lands back on the starting question.
func (e *Engine) PreviousQuestion(ctx context.Context, s *Session) (Transition, error) {
	if err := checkActive(s); err != nil {
		return TransitionNone, err
	}
	from := s.Interview.CurrentQuestionIndex
	if from <= 0 {
		return TransitionNone, nil
	}
	s.Interview.CurrentQuestionIndex--
	SetCurrentQuestion(s)
	if s.Interview.CurrentQuestionIndex == from {
		return TransitionNone, nil
	}
	e.saveState(ctx, s, model.PatchInterviewReq{})
	e.metrics.ObserveTransition(string(TransitionRetreat))
	return TransitionRetreat, nil
}

// PauseInterview marks the interview paused remotely, then locally.
func (e *Engine) PauseInterview(ctx context.Context, s *Session) error {
	if err := checkActive(s); err != nil {
		return err
	}
	status := model.InterviewStatusPaused
	if _, err := e.store.PatchInterview(ctx, s.Interview.ID, model.PatchInterviewReq{Status: &status}); err != nil {
		s.LastError = err.Error()
		e.logger.Error("pause_interview: failed", zap.Int64("interview_id", s.Interview.ID), zap.Error(err))
		return fmt.Errorf("pause interview: %w", err)
	}
	s.Interview.Status = status
	e.metrics.ObserveTransition("pause")
	return nil
}

// CompleteInterview marks the interview completed remotely, then locally.
func (e *Engine) CompleteInterview(ctx context.Context, s *Session) error {
	if err := checkActive(s); err != nil {
		return err
	}
	now := e.now().UTC()
	status := model.InterviewStatusCompleted
	if _, err := e.store.PatchInterview(ctx, s.Interview.ID, model.PatchInterviewReq{Status: &status, CompletedAt: &now}); err != nil {
		s.LastError = err.Error()
		e.logger.Error("complete_interview: failed", zap.Int64("interview_id", s.Interview.ID), zap.Error(err))
		return fmt.Errorf("complete interview: %w", err)
	}
	s.Interview.Status = status
	s.Interview.CompletedAt = &now
	e.metrics.ObserveTransition(string(TransitionCompleted))
	return nil
}

// FetchInterviews lists every interview visible to the current user.
func (e *Engine) FetchInterviews(ctx context.Context) ([]model.Interview, error) {
	list, err := e.store.ListInterviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch interviews: %w", err)
	}
	return list, nil
}

// DueInterviews lists the interviews due now.
func (e *Engine) DueInterviews(ctx context.Context) ([]model.Interview, error) {
	list, err := e.FetchInterviews(ctx)
	if err != nil {
		return nil, err
	}
	return DueInterviews(list, e.now()), nil
}

// saveState persists the cursor and stage, plus any extra fields. Failures are
// logged and swallowed.
func (e *Engine) saveState(ctx context.Context, s *Session, extra model.PatchInterviewReq) SaveOutcome {
	idx := s.Interview.CurrentQuestionIndex
	stage := s.Interview.Stage
	extra.CurrentQuestionIndex = &idx
	extra.Stage = &stage

	_, err := e.store.PatchInterview(ctx, s.Interview.ID, extra)
	e.metrics.ObserveSave(err == nil)
	if err != nil {
		e.logger.Warn("save_state: failed",
			zap.Int64("interview_id", s.Interview.ID),
			zap.Int("stage", stage),
			zap.Int("index", idx),
			zap.Error(err),
		)
	}
	return SaveOutcome{Err: err}
}

func (e *Engine) autoPopulate(ctx context.Context, s *Session) PopulateReport {
	values := interviewContactValues(s.Interview.Contact)
	if values == nil && e.contacts != nil {
		c, err := e.contacts.Get(ctx, s.Interview.ContactID)
		if err != nil {
			e.logger.Warn("auto_populate: contact lookup failed",
				zap.Int64("interview_id", s.ID()),
				zap.Int64("contact_id", s.Interview.ContactID),
				zap.Error(err),
			)
			return PopulateReport{}
		}
		values = ContactValues(c)
	}
	if values == nil {
		return PopulateReport{}
	}

	prevErr := s.LastError
	submit := func(ctx context.Context, questionID int64, answer any) error {
		_, err := e.SubmitResponse(ctx, s, questionID, answer)
		return err
	}
	direct := func(ctx context.Context, questionID int64, answer any) error {
		_, err := e.submit(ctx, s, questionID, answer)
		return err
	}
	report := e.matcher.Populate(ctx, s, values, submit, direct)
	s.LastError = prevErr

	if len(report.Submitted) > 0 || len(report.Failed) > 0 {
		e.logger.Info("auto_populate: done",
			zap.Int64("interview_id", s.ID()),
			zap.Int("submitted", len(report.Submitted)),
			zap.Int("skipped", len(report.Skipped)),
			zap.Int("failed", len(report.Failed)),
		)
	}
	return report
}

func checkActive(s *Session) error {
	if s == nil || s.Interview == nil {
		return ErrNoActiveInterview
	}
	switch s.Interview.Status {
	case model.InterviewStatusCompleted:
		return ErrSessionCompleted
	case model.InterviewStatusPaused:
		return ErrSessionPaused
	}
	return nil
}
