package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/prepmate/interview-server-go/internal/cache"
	"github.com/prepmate/interview-server-go/internal/config"
	"github.com/prepmate/interview-server-go/internal/database"
	"github.com/prepmate/interview-server-go/internal/handler"
	"github.com/prepmate/interview-server-go/internal/jobs"
	"github.com/prepmate/interview-server-go/internal/middleware"
	"github.com/prepmate/interview-server-go/internal/provider"
	"github.com/prepmate/interview-server-go/internal/redis"
	"github.com/prepmate/interview-server-go/internal/repository"
	"github.com/prepmate/interview-server-go/internal/service"
	"github.com/prepmate/interview-server-go/internal/ws"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	interviewRepo := repository.NewInterviewRepository(db.DB)
	exchangeRepo := repository.NewExchangeRepository(db)
	userRepo := repository.NewUserRepository(db.DB)

	sessionStore := cache.NewSessionStore(redisClient, cfg.SessionTTL())

	interviewService := service.NewInterviewService(
		interviewRepo, exchangeRepo, sessionStore,
		provider.New, cfg.ExchangeTarget, cfg.ProviderTimeout(),
	)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.EncryptionKey)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimitMiddleware := middleware.NewRedisRateLimitMiddleware(redisClient, cfg.RateLimitPerMin)
	bodyLimitMiddleware := middleware.NewBodyLimitMiddleware(0)

	interviewHandler := handler.NewInterviewHandler(interviewService, authService)
	authHandler := handler.NewAuthHandler(authService, authMiddleware)
	wsHandler := ws.NewHandler(interviewService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/auth", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
		r.Use(bodyLimitMiddleware.Handler)
		r.Mount("/", authHandler.Routes())
	})

	r.Route("/interview", func(r chi.Router) {
		// The websocket endpoint must stay outside the timeout middleware;
		// connections are long-lived by design.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.OptionalHandler)
			r.Get("/ws", wsHandler.Serve)
		})

		r.Group(func(r chi.Router) {
			r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))
			r.Use(bodyLimitMiddleware.Handler)
			r.Use(authMiddleware.OptionalHandler)
			r.Use(rateLimitMiddleware.Handler)
			r.Mount("/", interviewHandler.Routes())
		})
	})

	abandonJob := jobs.NewAbandonJob(interviewRepo, config.AbandonJobInterval, cfg.AbandonAfter())
	abandonJob.Start()
	defer abandonJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
