package main

import (
	"context"
	"net/http"
	"time"

	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/Olatundeadedeji/streamcati/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (app *application) routes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(app.RequestLogger())
	r.Use(app.CORS())

	r.GET("/healthz", app.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(app.Registry, promhttp.HandlerOpts{})))

	h := app.Handler
	v1 := r.Group("/api/v1")
	v1.Use(app.RateLimit())
	{
		v1.POST("/login", h.Login)
	}

	protected := v1.Group("/")
	protected.Use(app.AuthMiddleware())
	{
		protected.GET("/me", h.Me)

		// contact routes
		protected.GET("/contacts", h.ListContacts)
		protected.GET("/contacts/:id", h.GetContact)
		protected.POST("/contacts", h.CreateContact)
		protected.PATCH("/contacts/:id", h.PatchContact)
		protected.DELETE("/contacts/:id", app.RequireRole(model.UserRoleAdmin), h.DeleteContact)
		protected.POST("/contacts/import", app.RequireRole(model.UserRoleAdmin), h.ImportContacts)

		// interview routes
		protected.GET("/interviews", h.ListInterviews)
		protected.GET("/interviews/due", h.DueInterviews)
		protected.POST("/interviews", h.StartInterview)
		protected.POST("/interviews/:id/resume", h.ResumeInterview)
		protected.GET("/interviews/:id/state", h.GetState)
		protected.POST("/interviews/:id/responses", h.SubmitResponse)
		protected.POST("/interviews/:id/next", h.NextQuestion)
		protected.POST("/interviews/:id/previous", h.PreviousQuestion)
		protected.POST("/interviews/:id/pause", h.PauseInterview)
		protected.POST("/interviews/:id/complete", h.CompleteInterview)
	}

	return r
}

func (app *application) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := app.ready(ctx); err != nil {
		app.Logger.Sugar().Warnw("health check failed", "err", err)
		c.JSON(http.StatusServiceUnavailable, response.Envelope{
			Success: false,
			Error:   &response.ErrorInfo{Code: "UNAVAILABLE", Message: "dependency unavailable"},
		})
		return
	}
	response.OK(c, gin.H{"status": "ok"})
}
