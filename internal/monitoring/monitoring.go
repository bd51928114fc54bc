package monitoring

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	nuts "github.com/vaudience/go-nuts"
)

const namespace = "beds"

// Config holds monitoring configuration
type Config struct {
	MetricsPath string
}

// Metrics holds the Prometheus counters of the hub.
type Metrics struct {
	MeasurementsIngested prometheus.Counter
	SiteStatus           *prometheus.CounterVec // labels: level
	StorageErrors        *prometheus.CounterVec // labels: op
	Events               *prometheus.CounterVec // labels: event
	HTTPRequests         *prometheus.CounterVec // labels: route, code
}

func newMetrics() *Metrics {
	return &Metrics{
		MeasurementsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "measurements_ingested_total",
			Help:      "Total measurements accepted by the ingest endpoint.",
		}),
		SiteStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "site_status_total",
			Help:      "Site status evaluations by resulting level.",
		}, []string{"level"}),
		StorageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Storage failures by operation.",
		}, []string{"op"}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Recorded domain events.",
		}, []string{"event"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template and status code.",
		}, []string{"route", "code"}),
	}
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(m.MeasurementsIngested, m.SiteStatus, m.StorageErrors, m.Events, m.HTTPRequests)
	return m
}

// Service provides monitoring functionality
type Service struct {
	config   Config
	metrics  *Metrics
	gatherer prometheus.Gatherer
}

// NewService creates a new monitoring service backed by its own registry.
func NewService(config Config) *Service {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &Service{
		config:   config,
		metrics:  NewMetrics(reg),
		gatherer: reg,
	}
}

// NewServiceForTesting skips the runtime collectors.
func NewServiceForTesting() *Service {
	reg := prometheus.NewRegistry()
	return &Service{metrics: NewMetrics(reg), gatherer: reg}
}

func (s *Service) Metrics() *Metrics { return s.metrics }

func (s *Service) MetricsPath() string {
	if s.config.MetricsPath == "" {
		return "/metrics"
	}
	return s.config.MetricsPath
}

// Handler serves the registry in the Prometheus exposition format.
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.metrics.Events.WithLabelValues(eventName).Inc()
	nuts.L.Debugf("[Monitoring] Event %s recorded with labels: %v", eventName, labels)
}

func (s *Service) RecordIngest() {
	s.metrics.MeasurementsIngested.Inc()
}

func (s *Service) RecordStatus(level string) {
	s.metrics.SiteStatus.WithLabelValues(level).Inc()
}

func (s *Service) RecordStorageError(op string) {
	s.metrics.StorageErrors.WithLabelValues(op).Inc()
}

func (s *Service) RecordRequest(route string, code int) {
	s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
