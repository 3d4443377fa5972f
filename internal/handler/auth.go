package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"weather-dashboard/internal/models"
	"weather-dashboard/internal/observability"
	"weather-dashboard/internal/service"
)

// AuthService is the account and session logic the auth handler needs.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.Session, error)
	Logout(ctx context.Context, token string) error
}

// AuthHandler serves the login, registration and logout pages.
type AuthHandler struct {
	service      AuthService
	metrics      *observability.Metrics
	cookieSecure bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc AuthService, metrics *observability.Metrics, cookieSecure bool) *AuthHandler {
	return &AuthHandler{service: svc, metrics: metrics, cookieSecure: cookieSecure}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	data := gin.H{"Title": "Log in"}
	if c.Query("registered") != "" {
		data["Notice"] = "Account created. You can log in now."
	}
	c.HTML(http.StatusOK, "login", data)
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")

	session, err := h.service.Login(c.Request.Context(), username, c.PostForm("password"))
	if err != nil {
		h.metrics.LoginAttempts.WithLabelValues("failure").Inc()

		status := http.StatusInternalServerError
		message := "Something went wrong, please try again."
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			status, message = http.StatusUnauthorized, "Invalid username or password."
		case errors.Is(err, service.ErrMissingCredentials):
			status, message = http.StatusBadRequest, "Username and password are required."
		default:
			_ = c.Error(err)
		}
		c.HTML(status, "login", gin.H{"Title": "Log in", "Error": message, "Username": username})
		return
	}

	h.metrics.LoginAttempts.WithLabelValues("success").Inc()
	h.setSessionCookie(c, session.Token, time.Until(session.ExpiresAt))
	c.Redirect(http.StatusSeeOther, "/")
}

// RegisterPage handles GET /register
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register", gin.H{"Title": "Register"})
}

// Register handles POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	username := c.PostForm("username")

	if _, err := h.service.Register(c.Request.Context(), username, c.PostForm("password")); err != nil {
		status := http.StatusInternalServerError
		message := "Something went wrong, please try again."
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			status, message = http.StatusConflict, "That username is already taken."
		case errors.Is(err, service.ErrMissingCredentials):
			status, message = http.StatusBadRequest, "Username and password are required."
		default:
			_ = c.Error(err)
		}
		c.HTML(status, "register", gin.H{"Title": "Register", "Error": message, "Username": username})
		return
	}

	h.metrics.Registrations.Inc()
	c.Redirect(http.StatusSeeOther, LoginURL+"?registered=1")
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil {
		if err := h.service.Logout(c.Request.Context(), token); err != nil {
			_ = c.Error(err)
		}
	}
	h.setSessionCookie(c, "", -time.Second)
	c.Redirect(http.StatusSeeOther, LoginURL)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", h.cookieSecure, true)
}
