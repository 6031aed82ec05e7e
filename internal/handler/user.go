package handler

import (
	"errors"
	"net/http"

	"github.com/Olatundeadedeji/streamcati/internal/auth"
	"github.com/Olatundeadedeji/streamcati/internal/remote"
	"github.com/Olatundeadedeji/streamcati/internal/repository"
	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/Olatundeadedeji/streamcati/pkg/response"
	"github.com/gin-gonic/gin"
)

// Login verifies credentials against the backend and returns a JWT
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("login bad request", "err", err)
		response.BadRequest(c, err.Error())
		return
	}

	backendToken, user, err := h.Authenticator.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		var statusErr *remote.StatusError
		if errors.Is(err, repository.ErrBadLogin) ||
			(errors.As(err, &statusErr) && (statusErr.StatusCode == http.StatusBadRequest || statusErr.StatusCode == http.StatusUnauthorized)) {
			h.Logger.Sugar().Warnw("login rejected", "username", req.Username, "err", err)
			response.Unauthorized(c, "invalid credentials")
			return
		}
		h.fail(c, "login", err)
		return
	}

	token, claims, err := h.Tokens.Issue(user, backendToken)
	if errors.Is(err, auth.ErrForbiddenRole) {
		h.Logger.Sugar().Warnw("login forbidden role", "username", req.Username, "role", user.Role)
		response.Forbidden(c, err.Error())
		return
	}
	if err != nil {
		h.Logger.Sugar().Errorw("error creating token", "err", err)
		response.InternalError(c, "could not generate token")
		return
	}

	response.OK(c, model.LoginRes{
		AccessToken:          token,
		AccessTokenExpiresAt: claims.ExpiresAt.Time,
		User:                 *user,
	})
}

// Me returns the current user profile
func (h *Handler) Me(c *gin.Context) {
	claims := h.GetClaimsFromContext(c)
	if claims == nil {
		response.Unauthorized(c, "")
		return
	}

	user, err := h.Authenticator.Profile(c.Request.Context(), c.GetString(BackendTokenKey), claims.UserID)
	if err != nil {
		h.fail(c, "me", err)
		return
	}
	response.OK(c, user)
}
