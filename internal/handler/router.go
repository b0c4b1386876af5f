package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/travelog/travelog/internal/metrics"
	"github.com/travelog/travelog/internal/middleware"
	"github.com/travelog/travelog/internal/service"
)

// RouterDeps carries everything the route table needs.
type RouterDeps struct {
	Logger *slog.Logger

	Auth      *service.AuthService
	Diary     *service.DiaryService
	Itinerary *service.ItineraryService
	Maps      MapsProvider

	Verifier    middleware.TokenVerifier
	Revocations middleware.RevocationChecker
	RateLimit   middleware.RateLimitConfig

	Metrics  metrics.Recorder
	Gatherer prometheus.Gatherer

	// Readiness checks; nil reports "not configured".
	DB    HealthChecker
	Cache HealthChecker

	Security middleware.SecurityConfig
	CORS     middleware.CORSConfig
}

// NewRouter builds the chi router with every route and middleware.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	recorder := deps.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	rateLimitCfg := deps.RateLimit
	rateLimitCfg.Logger = logger
	rateLimitCfg.Metrics = recorder
	if rateLimitCfg.Limiter == nil {
		rateLimitCfg.Enabled = false
	}

	authHandler := NewAuthHandler(deps.Auth, logger)
	diaryHandler := NewDiaryHandler(deps.Diary, logger)
	itineraryHandler := NewItineraryHandler(deps.Itinerary, logger)
	mapsHandler := NewMapsHandler(deps.Maps, logger)
	healthHandler := NewHealthHandler(deps.DB, deps.Cache, logger)
	metricsHandler := NewMetricsHandler(deps.Gatherer)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Metrics(recorder))
	r.Use(middleware.Security(deps.Security))
	r.Use(middleware.CORS(deps.CORS))
	if deps.Security.MaxRequestBodySize > 0 {
		r.Use(middleware.MaxBodySize(deps.Security.MaxRequestBodySize))
	}

	// Public operational endpoints
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	// Public auth endpoints, rate limited per client IP
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimitCfg))
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
	})

	// Everything else requires a bearer token
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(middleware.AuthConfig{
			Logger:      logger,
			Verifier:    deps.Verifier,
			Revocations: deps.Revocations,
		}))
		r.Use(middleware.RateLimitUser(rateLimitCfg))

		r.Post("/auth/logout", authHandler.Logout)
		r.Get("/auth/me", authHandler.Me)

		r.Route("/diary", func(r chi.Router) {
			r.Get("/entries", diaryHandler.List)
			r.Get("/entries/all", diaryHandler.ListAll)
			r.Post("/entry", diaryHandler.Create)
			r.Get("/entry/{id}", diaryHandler.Get)
			r.Put("/entry/{id}", diaryHandler.Update)
			r.Delete("/entry/{id}", diaryHandler.Delete)
		})

		r.Route("/itineraries", func(r chi.Router) {
			r.Get("/", itineraryHandler.List)
			r.Post("/", itineraryHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", itineraryHandler.Get)
				r.Put("/", itineraryHandler.Update)
				r.Delete("/", itineraryHandler.Delete)
				r.Post("/location", itineraryHandler.CreateLocation)
				r.Get("/location/{locationId}", itineraryHandler.GetLocation)
				r.Put("/location/{locationId}", itineraryHandler.UpdateLocation)
				r.Delete("/location/{locationId}", itineraryHandler.DeleteLocation)
			})
		})

		r.Route("/maps", func(r chi.Router) {
			r.Get("/geocode", mapsHandler.Geocode)
			r.Get("/search", mapsHandler.Search)
			r.Get("/place-details", mapsHandler.PlaceDetails)
			r.Get("/autocomplete", mapsHandler.Autocomplete)
			r.Get("/distance", mapsHandler.Distance)
		})
	})

	// 404 and 405 handlers
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	return r
}
