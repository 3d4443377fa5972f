package handler

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/time/rate"

	_ "weather-dashboard/docs"
	"weather-dashboard/internal/observability"
	"weather-dashboard/internal/validation"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// HealthChecker reports whether the database is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RouterConfig collects everything NewRouter wires together.
type RouterConfig struct {
	Auth          *AuthHandler
	Pages         *PageHandler
	Locations     *LocationHandler
	Authenticator SessionAuthenticator
	Health        HealthChecker

	Metrics *observability.Metrics
	Logger  zerolog.Logger

	RateLimit float64
	RateBurst int
}

// RegisterValidators installs the coordinate rules on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("handler: unexpected validator engine %T", binding.Validator.Engine())
	}
	return validation.RegisterRules(v)
}

// NewRouter builds the gin engine with every route of the application.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if err := RegisterValidators(); err != nil {
		return nil, err
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("handler: parse templates: %w", err)
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("handler: static files: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(cfg.Logger), Metrics(cfg.Metrics))
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", http.FS(static))

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := cfg.Health.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/login", cfg.Auth.LoginPage)
	r.POST("/login", cfg.Auth.Login)
	r.GET("/register", cfg.Auth.RegisterPage)
	r.POST("/register", cfg.Auth.Register)
	r.GET("/logout", cfg.Auth.Logout)

	r.GET("/", RequireSession(cfg.Authenticator, RedirectToLogin), cfg.Pages.Home)

	api := r.Group("/api",
		RateLimit(rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst), cfg.Metrics),
		RequireSession(cfg.Authenticator, ChangeToLogin),
	)
	api.POST("/add-location", cfg.Locations.AddLocation)
	api.POST("/remove-locations", cfg.Locations.RemoveLocations)
	api.GET("/get-locations", cfg.Locations.GetLocations)

	return r, nil
}
