package middleware

import (
	"strconv"
	"time"

	"userhub/internal/errors"
	"userhub/internal/infra/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsSubsystem = "http"

// HTTPMetrics exposes Prometheus collectors for request instrumentation.
type HTTPMetrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics constructs the request collectors on the service registry.
// A disabled registry yields a nil *HTTPMetrics whose Handle is a pass-through.
func NewHTTPMetrics(reg *metrics.Registry) (*HTTPMetrics, error) {
	if reg == nil || !reg.Enabled() {
		return nil, nil
	}

	requests, err := registerCollector(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: reg.Namespace(),
		Subsystem: metricsSubsystem,
		Name:      "requests_total",
		Help:      "Total number of HTTP requests partitioned by method, route, and status code.",
	}, []string{"method", "route", "status"}))
	if err != nil {
		return nil, errors.Wrap(err, "register requests collector")
	}

	duration, err := registerCollector(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: reg.Namespace(),
		Subsystem: metricsSubsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of HTTP request latencies in seconds partitioned by method, route, and status code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"}))
	if err != nil {
		return nil, errors.Wrap(err, "register duration collector")
	}

	inFlight, err := registerCollector(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: reg.Namespace(),
		Subsystem: metricsSubsystem,
		Name:      "in_flight_requests",
		Help:      "Current number of in-flight HTTP requests.",
	}))
	if err != nil {
		return nil, errors.Wrap(err, "register inflight collector")
	}

	return &HTTPMetrics{
		Requests: requests,
		Duration: duration,
		InFlight: inFlight,
	}, nil
}

// registerCollector registers c, reusing an identical collector that is already registered.
func registerCollector[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return c, err
		}
		existing, ok := already.ExistingCollector.(T)
		if !ok {
			return c, errors.Errorf("existing collector has unexpected type %T", already.ExistingCollector)
		}

		return existing, nil
	}

	return c, nil
}

// Handle records the request count, latency and in-flight gauge.
func (m *HTTPMetrics) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	if m == nil {
		return next
	}

	return func(c echo.Context) error {
		start := time.Now()
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		if err := next(c); err != nil {
			// Render now so the recorded status is the one the client sees.
			c.Error(err)
		}

		route := c.Path()
		if route == "" {
			route = c.Request().URL.Path
		}

		labels := prometheus.Labels{
			"method": c.Request().Method,
			"route":  route,
			"status": strconv.Itoa(c.Response().Status),
		}
		m.Requests.With(labels).Inc()
		m.Duration.With(labels).Observe(time.Since(start).Seconds())

		return nil
	}
}
