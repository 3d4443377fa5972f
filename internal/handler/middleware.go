package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"weather-dashboard/internal/models"
	"weather-dashboard/internal/observability"
	"weather-dashboard/internal/service"
)

const (
	// SessionCookie carries the session token.
	SessionCookie = "session_token"

	// LoginURL is where expired sessions are sent.
	LoginURL = "/login"

	userIDKey = "userID"
)

// SessionAuthenticator resolves session tokens.
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

// RequireSession aborts with onMissing unless the request carries a live
// session cookie. The session's user id is stored for UserID.
func RequireSession(auth SessionAuthenticator, onMissing gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			onMissing(c)
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) {
				onMissing(c)
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
			return
		}

		c.Set(userIDKey, session.UserID)
		c.Next()
	}
}

// RedirectToLogin sends page requests without a session to the login form.
func RedirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusSeeOther, LoginURL)
	c.Abort()
}

// ChangeToLogin answers API requests without a session with a navigation
// instruction the page client follows.
func ChangeToLogin(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusOK, gin.H{"changeToURL": LoginURL})
}

// UserID returns the user id stored by RequireSession.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

// RequestLogger logs every request once it has been served.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Err(c.Errors.Last())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request served")
	}
}

// Metrics records request counts and latency by route template.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// RateLimit rejects requests beyond the limiter's rate with 429.
func RateLimit(limiter *rate.Limiter, m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			m.RateLimited.Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "too many requests"})
			return
		}
		c.Next()
	}
}
