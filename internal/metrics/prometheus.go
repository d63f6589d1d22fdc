package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/NikaNal/dept-of-excellence-training/internal/core"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcome labels.
const (
	OutcomeAssigned        = "assigned"
	OutcomeRejected        = "rejected"
	OutcomeDataUnavailable = "data_unavailable"
	OutcomeError           = "error"
)

// Manager owns the Prometheus instruments. It implements core.Observer.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry
	goCollectors     bool

	// Data loading
	loadsTotal        *prometheus.CounterVec
	loadDuration      prometheus.Histogram
	lastLoadSuccess   prometheus.Gauge
	entities          *prometheus.GaugeVec
	manualRefreshBusy prometheus.Counter

	// Requests
	submissions  *prometheus.CounterVec
	slotsFilled  *prometheus.CounterVec
	rejectReason *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewManager creates a Manager and registers its instruments.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "training",
		subsystem:        "scheduler",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	if m.goCollectors {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.loadsTotal = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feed_loads_total",
		Help:        "Feed loads by result",
		ConstLabels: m.constLabels,
	}, []string{"result"})

	m.loadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feed_load_duration_seconds",
		Help:        "Time to fetch, parse and map all feeds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.lastLoadSuccess = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "feed_last_success_timestamp_seconds",
		Help:        "Unix time of the last successful feed load",
		ConstLabels: m.constLabels,
	})

	m.entities = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "entities",
		Help:        "Entities in the current store by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.manualRefreshBusy = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "refresh_rejected_total",
		Help:        "Manual refreshes rejected because one was running",
		ConstLabels: m.constLabels,
	})

	m.submissions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "requests_total",
		Help:        "Training request submissions by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.slotsFilled = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "assignment_slots_total",
		Help:        "Assigned slots by slot and matching tier",
		ConstLabels: m.constLabels,
	}, []string{"slot", "tier"})

	m.rejectReason = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "request_rejections_total",
		Help:        "Rejected submissions by user error code",
		ConstLabels: m.constLabels,
	}, []string{"code"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "HTTP requests by route, method and status code",
		ConstLabels: m.constLabels,
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_seconds",
		Help:        "HTTP request duration by route and method",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"route", "method"})
}

// Registry returns the registry the instruments are registered with.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveLoad records one feed load.
func (m *Manager) ObserveLoad(duration time.Duration, stats core.StoreStats, err error) {
	m.loadDuration.Observe(duration.Seconds())
	if err != nil {
		m.loadsTotal.WithLabelValues("failure").Inc()
		return
	}

	m.loadsTotal.WithLabelValues("success").Inc()
	m.lastLoadSuccess.Set(float64(stats.LoadedAt.Unix()))
	m.entities.WithLabelValues("schools").Set(float64(stats.Schools))
	m.entities.WithLabelValues("resource_persons").Set(float64(stats.ResourcePersons))
	m.entities.WithLabelValues("topics").Set(float64(stats.Topics))
}

// ObserveSubmission records one submission and, on success, the tier
// that filled each slot.
func (m *Manager) ObserveSubmission(conf core.Confirmation, err error) {
	switch {
	case err == nil:
		m.submissions.WithLabelValues(OutcomeAssigned).Inc()
		m.slotsFilled.WithLabelValues("primary", conf.Assignment.Primary.Tier.String()).Inc()
		m.slotsFilled.WithLabelValues("secondary", conf.Assignment.Secondary.Tier.String()).Inc()
	case core.IsValidationError(err):
		m.submissions.WithLabelValues(OutcomeRejected).Inc()
		m.rejectReason.WithLabelValues(core.MapError(err).Code).Inc()
	case errors.Is(err, core.ErrDataUnavailable):
		m.submissions.WithLabelValues(OutcomeDataUnavailable).Inc()
	default:
		m.submissions.WithLabelValues(OutcomeError).Inc()
	}
}

// ObserveRejection records a request rejected before it reached Submit,
// e.g. by the calendar rules.
func (m *Manager) ObserveRejection(err error) {
	m.submissions.WithLabelValues(OutcomeRejected).Inc()
	m.rejectReason.WithLabelValues(core.MapError(err).Code).Inc()
}

// ObserveRefreshRejected records a manual refresh refused with
// ErrRefreshInProgress.
func (m *Manager) ObserveRefreshRejected() {
	m.manualRefreshBusy.Inc()
}

// RecordHTTPRequest records one served request.
func (m *Manager) RecordHTTPRequest(route, method string, status int, duration time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

// Middleware records request counts and durations labelled by the chi
// route pattern, so path parameters do not explode label cardinality.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.RecordHTTPRequest(route, r.Method, status, time.Since(start))
	})
}
