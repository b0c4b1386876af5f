package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder exposes Recorder events as Prometheus collectors.
type PrometheusRecorder struct {
	signups      prometheus.Counter
	logins       *prometheus.CounterVec
	logouts      prometheus.Counter
	mutations    *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	rateLimited  *prometheus.CounterVec
	mapsRequests *prometheus.CounterVec
	mapsDuration *prometheus.HistogramVec
}

// NewPrometheus creates a PrometheusRecorder and registers its collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *PrometheusRecorder {
	p := &PrometheusRecorder{
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travelog_signups_total",
			Help: "Total number of successful signups.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travelog_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "travelog_logouts_total",
			Help: "Total number of revoked tokens.",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travelog_mutations_total",
			Help: "Resource mutations by entity and action.",
		}, []string{"entity", "action"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travelog_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travelog_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travelog_rate_limited_total",
			Help: "Requests rejected by the rate limiter, by scope.",
		}, []string{"scope"}),
		mapsRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "travelog_maps_requests_total",
			Help: "Upstream maps requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		mapsDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "travelog_maps_request_duration_seconds",
			Help:    "Upstream maps latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}

	reg.MustRegister(
		p.signups,
		p.logins,
		p.logouts,
		p.mutations,
		p.httpRequests,
		p.httpDuration,
		p.rateLimited,
		p.mapsRequests,
		p.mapsDuration,
	)

	return p
}

// IncSignup records a signup.
func (p *PrometheusRecorder) IncSignup() {
	p.signups.Inc()
}

// IncLogin records a login attempt.
func (p *PrometheusRecorder) IncLogin(outcome string) {
	p.logins.WithLabelValues(outcome).Inc()
}

// IncLogout records a logout.
func (p *PrometheusRecorder) IncLogout() {
	p.logouts.Inc()
}

// IncMutation records a create, update or delete.
func (p *PrometheusRecorder) IncMutation(entity, action string) {
	p.mutations.WithLabelValues(entity, action).Inc()
}

// ObserveHTTPRequest records a served request.
func (p *PrometheusRecorder) ObserveHTTPRequest(route, method string, status int, duration time.Duration) {
	p.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// IncRateLimited records a rate-limited request.
func (p *PrometheusRecorder) IncRateLimited(scope string) {
	p.rateLimited.WithLabelValues(scope).Inc()
}

// ObserveMapsRequest records an upstream maps call.
func (p *PrometheusRecorder) ObserveMapsRequest(endpoint, outcome string, duration time.Duration) {
	p.mapsRequests.WithLabelValues(endpoint, outcome).Inc()
	p.mapsDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
