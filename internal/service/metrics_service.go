package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/admitdesk/admission-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation. Besides the usual
// HTTP and cache collectors it exposes gauges over the enquiry engine state,
// refreshed by a store observer after every committed mutation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	enquiriesByStatus    *prometheus.GaugeVec
	counsellorsAvailable prometheus.Gauge
	visitQueueDepth      prometheus.Gauge
	allocationsTotal     prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	enquiriesByStatus := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "enquiries_total",
		Help: "Current number of enquiries per status",
	}, []string{"status"})

	counsellorsAvailable := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "counsellors_available",
		Help: "Number of counsellors currently free for allocation",
	})

	visitQueueDepth := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "campus_visit_queue_depth",
		Help: "Requested but not yet completed campus visits",
	})

	allocationsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "allocations_total",
		Help: "Total counsellor assignments made by the allocation engine",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheHitRatio, cacheHits, cacheMisses,
		enquiriesByStatus, counsellorsAvailable, visitQueueDepth, allocationsTotal, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:             registry,
		handler:              handler,
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		cacheLatency:         cacheLatency,
		cacheHitRatio:        cacheHitRatio,
		cacheHits:            cacheHits,
		cacheMisses:          cacheMisses,
		enquiriesByStatus:    enquiriesByStatus,
		counsellorsAvailable: counsellorsAvailable,
		visitQueueDepth:      visitQueueDepth,
		allocationsTotal:     allocationsTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// RecordAllocation counts assignments made by the allocation engine.
func (m *MetricsService) RecordAllocation(assigned int) {
	if m == nil || assigned <= 0 {
		return
	}
	m.allocationsTotal.Add(float64(assigned))
}

// UpdateEngineGauges refreshes the domain gauges from a state snapshot.
func (m *MetricsService) UpdateEngineGauges(enquiries []models.Enquiry, counsellors []models.Counsellor) {
	if m == nil {
		return
	}
	counts := make(map[models.EnquiryStatus]int, len(models.EnquiryStatuses))
	visitQueue := 0
	for _, e := range enquiries {
		counts[e.Status]++
		if e.VisitRequested && !e.VisitCompleted {
			visitQueue++
		}
	}
	for _, status := range models.EnquiryStatuses {
		m.enquiriesByStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
	}

	available := 0
	for _, c := range counsellors {
		if c.IsAvailable {
			available++
		}
	}
	m.counsellorsAvailable.Set(float64(available))
	m.visitQueueDepth.Set(float64(visitQueue))
}
