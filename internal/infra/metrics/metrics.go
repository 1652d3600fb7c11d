// Package metrics exposes Prometheus collectors for HTTP traffic and credential operations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"prolits/config"
	domainerrors "prolits/internal/domain/errors"
	"prolits/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultNamespace = "prolits"
	defaultPath      = "/metrics"
	unmatchedRoute   = "unmatched"
)

// Metrics owns a private registry so tests and multiple instances never collide on the default one.
type Metrics struct {
	enabled bool
	path    string

	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authEvents      *prometheus.CounterVec
}

// New builds the collectors. Counting is always on; Enabled only controls whether the scrape route is mounted.
func New(cfg *config.Config) (*Metrics, error) {
	namespace := defaultNamespace
	path := defaultPath
	enabled := false
	if cfg.Metrics != nil {
		enabled = cfg.Metrics.Enabled
		if cfg.Metrics.Namespace != "" {
			namespace = cfg.Metrics.Namespace
		}
		if cfg.Metrics.Path != "" {
			path = cfg.Metrics.Path
		}
	}

	m := &Metrics{
		enabled:  enabled,
		path:     path,
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method", "status"},
		),
		authEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "events_total",
				Help:      "Total number of credential operations by event and outcome",
			},
			[]string{"event", "outcome"},
		),
	}

	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requestsTotal,
		m.requestDuration,
		m.authEvents,
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, errors.Wrap(err, "failed to register collector")
		}
	}

	return m, nil
}

// Enabled reports whether the scrape endpoint should be exposed.
func (m *Metrics) Enabled() bool {
	return m.enabled
}

// Path is the route the scrape endpoint is mounted on.
func (m *Metrics) Path() string {
	return m.path
}

// RecordAuthEvent implements service.AuthEventRecorder.
func (m *Metrics) RecordAuthEvent(event service.AuthEvent, outcome service.AuthOutcome) {
	m.authEvents.WithLabelValues(string(event), string(outcome)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Middleware records request count and latency per route template.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			route := c.Path()
			if route == "" {
				route = unmatchedRoute
			}
			status := strconv.Itoa(responseStatus(c, err))
			method := c.Request().Method

			m.requestsTotal.WithLabelValues(route, method, status).Inc()
			m.requestDuration.WithLabelValues(route, method, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// responseStatus predicts the status the error handler will write when the handler returned an error.
func responseStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}

	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPCode()
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return http.StatusInternalServerError
}
