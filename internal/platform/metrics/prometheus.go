package metrics

import (
	"net/http"

	"github.com/homenest/property-service/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Manager holds the custom Prometheus metrics for the service.
type Manager struct {
	Registry                  *prometheus.Registry
	PropertiesCreatedTotal    prometheus.Counter
	ReviewsAddedTotal         prometheus.Counter
	NotificationsCreatedTotal prometheus.Counter
	HTTPErrorsTotal           *prometheus.CounterVec
	HTTPRequestLatency        *prometheus.HistogramVec
}

// NewManager initializes and registers the service metrics on a custom registry.
func NewManager(serviceName string) *Manager {
	registry := prometheus.NewRegistry()

	propertiesCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "properties_created_total",
		Help:      "Total number of properties created.",
	})
	reviewsAddedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "reviews_added_total",
		Help:      "Total number of reviews appended to properties.",
	})
	notificationsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "notifications_created_total",
		Help:      "Total number of notifications created.",
	})
	httpErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: serviceName,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP error responses by route and status.",
	}, []string{"route", "status"})
	httpRequestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: serviceName,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	registry.MustRegister(
		propertiesCreatedTotal,
		reviewsAddedTotal,
		notificationsCreatedTotal,
		httpErrorsTotal,
		httpRequestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:                  registry,
		PropertiesCreatedTotal:    propertiesCreatedTotal,
		ReviewsAddedTotal:         reviewsAddedTotal,
		NotificationsCreatedTotal: notificationsCreatedTotal,
		HTTPErrorsTotal:           httpErrorsTotal,
		HTTPRequestLatency:        httpRequestLatency,
	}
}

// StartServer exposes the registry on /metrics. Blocks until the server stops.
func StartServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics port not configured, metrics server will not start")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}
	return server.ListenAndServe()
}
