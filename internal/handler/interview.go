package handler

import (
	"context"
	"errors"

	"github.com/Olatundeadedeji/streamcati/internal/cache"
	"github.com/Olatundeadedeji/streamcati/internal/interview"
	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/Olatundeadedeji/streamcati/pkg/response"
	"github.com/gin-gonic/gin"
)

type stateRes struct {
	State      interview.State      `json:"state"`
	Transition interview.Transition `json:"transition,omitempty"`
	Response   *model.Response      `json:"response,omitempty"`
}

func (h *Handler) ListInterviews(c *gin.Context) {
	list, err := h.engine(c).FetchInterviews(c.Request.Context())
	if err != nil {
		h.fail(c, "list interviews", err)
		return
	}
	response.OKWithMeta(c, list, &response.Meta{Total: len(list)})
}

func (h *Handler) DueInterviews(c *gin.Context) {
	list, err := h.engine(c).DueInterviews(c.Request.Context())
	if err != nil {
		h.fail(c, "due interviews", err)
		return
	}
	response.OKWithMeta(c, list, &response.Meta{Total: len(list)})
}

// StartInterview creates an interview for a contact and opens its session.
func (h *Handler) StartInterview(c *gin.Context) {
	var req model.StartInterviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	s, err := h.engine(c).StartInterview(ctx, req.ContactID, req.RoundID)
	if s != nil {
		h.keep(ctx, s)
	}
	if err != nil {
		h.fail(c, "start interview", err)
		return
	}
	response.Created(c, stateRes{State: s.Snapshot()})
}

// ResumeInterview reloads the interview from the backend, replacing any live session.
func (h *Handler) ResumeInterview(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	unlock := h.Locks.Lock(id)
	defer unlock()

	ctx := c.Request.Context()
	s, err := h.engine(c).ResumeInterview(ctx, id)
	if s != nil {
		h.keep(ctx, s)
	}
	if err != nil {
		h.fail(c, "resume interview", err)
		return
	}
	response.OK(c, stateRes{State: s.Snapshot()})
}

func (h *Handler) GetState(c *gin.Context) {
	h.withSession(c, "get state", func(ctx context.Context, e *interview.Engine, s *interview.Session, res *stateRes) error {
		return nil
	})
}

func (h *Handler) SubmitResponse(c *gin.Context) {
	var req model.AnswerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	h.withSession(c, "submit response", func(ctx context.Context, e *interview.Engine, s *interview.Session, res *stateRes) error {
		resp, err := e.SubmitResponse(ctx, s, req.QuestionID, req.Answer)
		res.Response = resp
		return err
	})
}

func (h *Handler) NextQuestion(c *gin.Context) {
	h.withSession(c, "next question", func(ctx context.Context, e *interview.Engine, s *interview.Session, res *stateRes) error {
		tr, err := e.NextQuestion(ctx, s)
		res.Transition = tr
		return err
	})
}

func (h *Handler) PreviousQuestion(c *gin.Context) {
	h.withSession(c, "previous question", func(ctx context.Context, e *interview.Engine, s *interview.Session, res *stateRes) error {
		tr, err := e.PreviousQuestion(ctx, s)
		res.Transition = tr
		return err
	})
}

func (h *Handler) PauseInterview(c *gin.Context) {
	h.withSession(c, "pause interview", func(ctx context.Context, e *interview.Engine, s *interview.Session, _ *stateRes) error {
		return e.PauseInterview(ctx, s)
	})
}

func (h *Handler) CompleteInterview(c *gin.Context) {
	h.withSession(c, "complete interview", func(ctx context.Context, e *interview.Engine, s *interview.Session, res *stateRes) error {
		if err := e.CompleteInterview(ctx, s); err != nil {
			return err
		}
		res.Transition = interview.TransitionCompleted
		return nil
	})
}

type sessionAction func(ctx context.Context, e *interview.Engine, s *interview.Session, res *stateRes) error

// withSession runs action on the live session of the interview in the path,
// serialized per interview. A missing session is resumed from the backend
// first. The session is stored back even when the action fails so that
// LastError survives to the next read.
func (h *Handler) withSession(c *gin.Context, op string, action sessionAction) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	unlock := h.Locks.Lock(id)
	defer unlock()

	ctx := c.Request.Context()
	e := h.engine(c)

	s, err := h.Sessions.Get(ctx, id)
	if errors.Is(err, cache.ErrSessionNotFound) {
		s, err = e.ResumeInterview(ctx, id)
		if errors.Is(err, interview.ErrNoQuestions) {
			err = nil
		}
	}
	if err != nil {
		if s != nil {
			h.keep(ctx, s)
		}
		h.fail(c, op, err)
		return
	}

	var res stateRes
	err = action(ctx, e, s, &res)
	h.keep(ctx, s)
	if err != nil {
		h.fail(c, op, err)
		return
	}
	res.State = s.Snapshot()
	response.OK(c, res)
}

// keep stores s in the registry. Failure only costs a resume on the next request.
func (h *Handler) keep(ctx context.Context, s *interview.Session) {
	if s == nil || s.Interview == nil {
		return
	}
	if err := h.Sessions.Put(ctx, s); err != nil {
		h.Logger.Sugar().Warnw("session store failed", "interview_id", s.ID(), "err", err)
	}
}
