package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-dashboard/internal/config"
	"weather-dashboard/internal/handler"
	"weather-dashboard/internal/observability"
	"weather-dashboard/internal/repository"
	"weather-dashboard/internal/scheduler"
	"weather-dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// @title        Weather Dashboard API
// @version      1.0
// @description  Per-user saved locations behind a session cookie.
// @BasePath     /
func main() {
	config, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger, err := observability.NewLogger(os.Stderr, config.LogLevel, config.LogFormat)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database connection
	conn, err := pgxpool.New(ctx, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	// Initialize layers
	repo := repository.NewRepository(conn)
	if err := repo.Migrate(ctx); err != nil {
		logger.Fatal().Err(err).Msg("cannot apply schema")
	}
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	authService := service.NewAuthService(repo, clock, config.SessionTTL)
	locationService := service.NewLocationService(repo)

	purge := scheduler.New(authService, config.SessionPurgeInterval, metrics, logger)
	if err := purge.Start(); err != nil {
		logger.Fatal().Err(err).Msg("cannot start scheduler")
	}
	defer purge.Stop()

	if config.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := handler.NewRouter(handler.RouterConfig{
		Auth:  handler.NewAuthHandler(authService, metrics, config.CookieSecure),
		Pages: handler.NewPageHandler(handler.ForecastEndpoints{
			DataURL:     config.ForecastDataURL,
			ImageURL:    config.ForecastImageURL,
			ImageLat:    config.ForecastImageLat,
			Placeholder: config.ForecastPlaceholderImage,
		}),
		Locations:     handler.NewLocationHandler(locationService, metrics),
		Authenticator: authService,
		Health:        repo,
		Metrics:       metrics,
		Logger:        logger,
		RateLimit:     config.APIRateLimit,
		RateBurst:     config.APIRateBurst,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot build router")
	}

	srv := &http.Server{
		Addr:              config.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", config.ServerAddress).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
