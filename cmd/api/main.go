// Package main is the entrypoint for the Travelog API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/travelog/travelog/internal/auth"
	"github.com/travelog/travelog/internal/cache"
	"github.com/travelog/travelog/internal/config"
	"github.com/travelog/travelog/internal/database"
	"github.com/travelog/travelog/internal/handler"
	"github.com/travelog/travelog/internal/maps"
	"github.com/travelog/travelog/internal/metrics"
	"github.com/travelog/travelog/internal/middleware"
	"github.com/travelog/travelog/internal/repository"
	"github.com/travelog/travelog/internal/server"
	"github.com/travelog/travelog/internal/service"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Schema migrations
	if cfg.AutoMigrate {
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			logger.Error("failed to run migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		logger.Info("database schema is current")
	}

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.DefaultPoolConfig())
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL, cache.DefaultOptions())
	if err != nil {
		repo.Close()
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewPrometheus(registry)

	// Auth primitives
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry)
	if err != nil {
		logger.Error("failed to create token manager", "error", err)
		os.Exit(1)
	}
	hasher := auth.NewPasswordHasher(auth.DefaultArgon2Params)

	// Services
	authService := service.NewAuthService(repo, hasher, tokens, cacheClient, recorder)
	diaryService := service.NewDiaryService(repo, repo, recorder)
	itineraryService := service.NewItineraryService(repo, repo, recorder)

	if cfg.MapsAPIKey == "" {
		logger.Warn("MAPS_API_KEY is not set; maps requests will be rejected upstream")
	}
	mapsClient := maps.NewClient(maps.Config{
		APIKey:  cfg.MapsAPIKey,
		BaseURL: cfg.MapsBaseURL,
		Timeout: cfg.MapsTimeout,
	}, nil, logger, recorder)

	// Router
	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.IsDevelopment = cfg.IsDevelopment()
	securityCfg.MaxRequestBodySize = cfg.MaxRequestBodySize

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	router := handler.NewRouter(handler.RouterDeps{
		Logger:      logger,
		Auth:        authService,
		Diary:       diaryService,
		Itinerary:   itineraryService,
		Maps:        mapsClient,
		Verifier:    tokens,
		Revocations: cacheClient,
		RateLimit: middleware.RateLimitConfig{
			Limiter:   cacheClient,
			Enabled:   cfg.RateLimitEnabled,
			UserRPM:   cfg.RateLimitUserRPM,
			UserBurst: cfg.RateLimitUserBurst,
			AuthRPS:   cfg.RateLimitAuthRPS,
			AuthBurst: cfg.RateLimitAuthBurst,
		},
		Metrics:  recorder,
		Gatherer: registry,
		DB:       repo,
		Cache:    cacheClient,
		Security: securityCfg,
		CORS:     corsCfg,
	})

	// Create and run server
	srv := server.New(router, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Registered first, closed last.
	srv.OnShutdown("postgres", func(ctx context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(ctx context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "travelog")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
