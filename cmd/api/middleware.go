package main

import (
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/Olatundeadedeji/streamcati/internal/auth"
	"github.com/Olatundeadedeji/streamcati/internal/handler"
	"github.com/Olatundeadedeji/streamcati/pkg/model"
	"github.com/Olatundeadedeji/streamcati/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// AuthMiddleware verifies the bearer token and exposes its claims and the
// unsealed backend token to handlers.
func (app *application) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := verifyClaimsFromAuthHeader(c, app.Tokens)
		if err != nil {
			response.Unauthorized(c, err.Error())
			c.Abort()
			return
		}
		backendToken, err := app.Tokens.BackendToken(claims)
		if err != nil {
			app.Logger.Sugar().Warnw("backend token rejected", "user_id", claims.UserID, "err", err)
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		handler.SetIdentity(c, claims, backendToken)
		c.Next()
	}
}

// RequireRole lets only the given roles through. It must run after AuthMiddleware.
func (app *application) RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := app.Handler.GetClaimsFromContext(c)
		if claims != nil {
			for _, r := range roles {
				if claims.Role == r {
					c.Next()
					return
				}
			}
		}
		response.Forbidden(c, "insufficient role")
		c.Abort()
	}
}

func verifyClaimsFromAuthHeader(c *gin.Context, tokens *auth.Maker) (*auth.UserClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header is missing")
	}

	fields := strings.Fields(authHeader)
	if len(fields) != 2 || fields[0] != "Bearer" {
		return nil, fmt.Errorf("invalid authorization header")
	}

	claims, err := tokens.Parse(fields[1])
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

// RequestID tags every request and its log line with an id.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func (app *application) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		app.Logger.Sugar().Infow("http",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"),
		)
	}
}

// CORS allows the configured origins only.
func (app *application) CORS() gin.HandlerFunc {
	allowed := make(map[string]bool)
	for _, o := range app.Config.GetCORSOrigins() {
		allowed[o] = true
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowed[origin] {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PATCH, DELETE")
			c.Writer.Header().Add("Vary", "Origin")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// ipLimiter hands out one token bucket per client IP.
type ipLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     rate.Limit
	burst   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(rps float64, burst int) *ipLimiter {
	return &ipLimiter{clients: map[string]*client{}, rps: rate.Limit(rps), burst: burst}
}

func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	cl, ok := l.clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// sweep drops clients idle since before cutoff.
func (l *ipLimiter) sweep(cutoff time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, cl := range l.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

func (app *application) RateLimit() gin.HandlerFunc {
	cfg := app.Config.Limiter
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := newIPLimiter(cfg.RPS, cfg.Burst)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for now := range ticker.C {
			limiter.sweep(now.Add(-10 * time.Minute))
		}
	}()

	return func(c *gin.Context) {
		ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			ip = c.ClientIP()
		}
		if !limiter.allow(ip, time.Now()) {
			response.TooManyRequests(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}
