package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reservation outcomes recorded by ReservationsTotal.
const (
	OutcomeReserved        = "reserved"
	OutcomeOccupied        = "occupied"
	OutcomeInvalidSeat     = "invalid_seat"
	OutcomeSessionNotFound = "session_not_found"
	OutcomeError           = "error"
)

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	ReservationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "seat_reservations_total",
			Help: "Seat reservation attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// NormalizePath collapses an unmatched request path to its first segment
// so that random URLs cannot blow up label cardinality.
func NormalizePath(p string) string {
	p = strings.TrimPrefix(p, "/")
	if idx := strings.Index(p, "/"); idx >= 0 {
		p = p[:idx]
	}
	if p == "" {
		return "root"
	}
	return p
}

// ObserveReservation counts one reservation attempt.
func ObserveReservation(outcome string) {
	ReservationsTotal.WithLabelValues(outcome).Inc()
}

// Middleware records request count and latency per route template.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().URL.Path == "/metrics" {
				return next(c)
			}
			start := time.Now()
			err := next(c)
			if err != nil {
				// let echo write the error response so the status is final
				c.Error(err)
			}
			path := c.Path()
			if path == "" {
				path = NormalizePath(c.Request().URL.Path)
			}
			status := strconv.Itoa(c.Response().Status)
			RequestTotal.WithLabelValues(c.Request().Method, path, status).Inc()
			RequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
