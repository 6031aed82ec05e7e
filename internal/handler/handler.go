package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/Olatundeadedeji/streamcati/internal/auth"
	"github.com/Olatundeadedeji/streamcati/internal/cache"
	"github.com/Olatundeadedeji/streamcati/internal/contacts"
	"github.com/Olatundeadedeji/streamcati/internal/importer"
	"github.com/Olatundeadedeji/streamcati/internal/interview"
	"github.com/Olatundeadedeji/streamcati/internal/metrics"
	"github.com/Olatundeadedeji/streamcati/internal/remote"
	"github.com/Olatundeadedeji/streamcati/internal/repository"
	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/Olatundeadedeji/streamcati/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Gin context keys set by the auth middleware.
const (
	ClaimsKey       = "claims"
	BackendTokenKey = "backend_token"
)

// Backend is the interview and contact store reached for one request.
type Backend interface {
	interview.Store
	contacts.Store
}

// Authenticator verifies interviewer credentials. The returned token is
// what later requests use to reach the backend as that user; it is empty
// for backends that need none.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (string, *model.User, error)
	Profile(ctx context.Context, backendToken string, userID int64) (*model.User, error)
}

type Handler struct {
	Logger        *zap.Logger
	Tokens        *auth.Maker
	Authenticator Authenticator
	// BackendFor returns the backend authenticated with backendToken.
	BackendFor func(backendToken string) Backend
	Directory  *contacts.Directory
	Matcher    *interview.Matcher
	Metrics    *metrics.InterviewMetrics
	Sessions   cache.Sessions
	Locks      *cache.Locks
	Normalizer *importer.Normalizer
	AutoSave   bool
}

// SetIdentity stores the verified claims and backend token on c.
func SetIdentity(c *gin.Context, claims *auth.UserClaims, backendToken string) {
	c.Set(ClaimsKey, claims)
	c.Set(BackendTokenKey, backendToken)
}

// GetClaimsFromContext returns the verified claims, or nil outside the auth group.
func (h *Handler) GetClaimsFromContext(c *gin.Context) *auth.UserClaims {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil
	}
	claims, _ := v.(*auth.UserClaims)
	return claims
}

func (h *Handler) backend(c *gin.Context) Backend {
	return h.BackendFor(c.GetString(BackendTokenKey))
}

// directory returns the shared contact cache reached through the caller's backend.
func (h *Handler) directory(c *gin.Context) *contacts.Directory {
	return h.Directory.WithStore(h.backend(c))
}

func (h *Handler) engine(c *gin.Context) *interview.Engine {
	return interview.NewEngine(h.backend(c), h.Logger,
		interview.WithContacts(h.directory(c)),
		interview.WithMatcher(h.Matcher),
		interview.WithMetrics(h.Metrics),
		interview.WithAutoSave(h.AutoSave),
	)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// fail maps err onto an error response and logs anything unexpected.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	var statusErr *remote.StatusError

	switch {
	case errors.Is(err, interview.ErrInvalidContactID), errors.Is(err, contacts.ErrInvalidID):
		response.BadRequest(c, err.Error())
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, remote.ErrNotFound):
		response.NotFound(c, "")
	case errors.Is(err, repository.ErrAlreadyExists),
		errors.Is(err, interview.ErrSessionCompleted),
		errors.Is(err, interview.ErrSessionPaused):
		response.Conflict(c, err.Error())
	case errors.Is(err, interview.ErrRequiredUnanswered),
		errors.Is(err, interview.ErrQuestionNotInCatalog),
		errors.Is(err, interview.ErrNoQuestions),
		errors.Is(err, interview.ErrNoActiveInterview):
		response.ValidationError(c, err.Error())
	case errors.As(err, &statusErr):
		h.Logger.Sugar().Warnw(op+" upstream error", "status", statusErr.StatusCode, "err", err)
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			response.Unauthorized(c, "survey backend rejected the session")
		case http.StatusBadRequest:
			response.BadRequest(c, statusErr.Detail)
		default:
			response.BadGateway(c, "")
		}
	default:
		h.Logger.Sugar().Errorw(op+" failed", "err", err)
		response.InternalError(c, "")
	}
}
