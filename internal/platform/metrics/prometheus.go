package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Abdurahmanit/GroupProject/domain-market/internal/platform/logger"
)

// MetricsManager holds the service's Prometheus collectors.
type MetricsManager struct {
	Registry *prometheus.Registry

	ListingsSubmittedTotal prometheus.Counter
	ListingsReviewedTotal  *prometheus.CounterVec // by decision
	OffersSubmittedTotal   prometheus.Counter
	FeedQueriesTotal       *prometheus.CounterVec // by sort key
	FeedRevealsTotal       *prometheus.CounterVec // by outcome: advanced, duplicate, exhausted
	FeedResultSize         prometheus.Histogram
	CatalogListings        prometheus.Gauge
	APIErrorsTotal         *prometheus.CounterVec
	APILatency             *prometheus.HistogramVec
}

func NewMetricsManager(namespace string) *MetricsManager {
	m := &MetricsManager{
		Registry: prometheus.NewRegistry(),
		ListingsSubmittedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_submitted_total",
			Help:      "Total number of listings submitted for review.",
		}),
		ListingsReviewedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_reviewed_total",
			Help:      "Total number of admin review decisions.",
		}, []string{"decision"}),
		OffersSubmittedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "offers_submitted_total",
			Help:      "Total number of offers and bids accepted.",
		}),
		FeedQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_queries_total",
			Help:      "Total number of feed evaluations by sort key.",
		}, []string{"sort"}),
		FeedRevealsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_reveals_total",
			Help:      "Reveal-more triggers by outcome.",
		}, []string{"outcome"}),
		FeedResultSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_filtered_listings",
			Help:      "Size of the filtered set per feed evaluation.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		CatalogListings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_listings",
			Help:      "Listings in the current catalog snapshot.",
		}),
		APIErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "Total number of API errors by method and code.",
		}, []string{"method", "code"}),
		APILatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_latency_seconds",
			Help:      "Latency of API requests by method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	m.Registry.MustRegister(
		m.ListingsSubmittedTotal,
		m.ListingsReviewedTotal,
		m.OffersSubmittedTotal,
		m.FeedQueriesTotal,
		m.FeedRevealsTotal,
		m.FeedResultSize,
		m.CatalogListings,
		m.APIErrorsTotal,
		m.APILatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records latency and, when code is not "OK", an error.
func (m *MetricsManager) ObserveRequest(method, code string, d time.Duration) {
	m.APILatency.WithLabelValues(method).Observe(d.Seconds())
	if code != "OK" {
		m.APIErrorsTotal.WithLabelValues(method, code).Inc()
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *MetricsManager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve runs the /metrics endpoint until ctx is cancelled.
func (m *MetricsManager) Serve(ctx context.Context, port string, log *logger.Logger) error {
	if port == "" {
		log.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
