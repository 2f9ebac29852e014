package dashboard

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "driftdeck"

// Metrics holds the dashboard's Prometheus collectors. Each server owns its
// registry so tests can build several servers side by side.
type Metrics struct {
	registry        *prometheus.Registry
	reportLoads     *prometheus.CounterVec
	catalogListings *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewMetrics registers the dashboard collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reportLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "report_loads_total",
			Help:      "Report loads by result (ok or unavailable).",
		}, []string{"result"}),
		catalogListings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "catalog_listings_total",
			Help:      "Catalog listings by kind (projects or reports).",
		}, []string{"kind"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by method, route and status.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(m.reportLoads, m.catalogListings, m.requestDuration)
	return m
}

// Registry exposes the registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeLoad(ok bool) {
	result := "ok"
	if !ok {
		result = "unavailable"
	}
	m.reportLoads.WithLabelValues(result).Inc()
}

func (m *Metrics) observeListing(kind string) {
	m.catalogListings.WithLabelValues(kind).Inc()
}

// middleware records request durations keyed by the route pattern.
func (m *Metrics) middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)

		m.requestDuration.
			WithLabelValues(c.Request().Method, c.Path(), strconv.Itoa(responseStatus(c, err))).
			Observe(time.Since(start).Seconds())

		return err
	}
}

// responseStatus is the status the error handler will write for err. The
// response is not committed yet when a handler returns an error.
func responseStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
