// Package prometheusmetrics exposes editor activity as Prometheus metrics
package prometheusmetrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Collector records editor and preview activity. Implements the
// layerkit.Metrics and preview.Collector interfaces.
type Collector struct {
	templateSaves     prometheus.Counter
	templateConflicts prometheus.Counter
	probeDuration     prometheus.Histogram
	probeErrors       prometheus.Counter

	previewsScheduled prometheus.Counter
	previewDuration   prometheus.Histogram
	previewsApplied   prometheus.Counter
	previewsDiscarded prometheus.Counter
	previewErrors     prometheus.Counter
}

// NewCollector creates Collector registered against reg, or the default
// registerer when nil
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Collector{
		templateSaves: factory.NewCounter(prometheus.CounterOpts{
			Name: "layerkit_template_saves_total",
			Help: "Total template documents saved",
		}),
		templateConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "layerkit_template_conflicts_total",
			Help: "Total template saves rejected by an existing document",
		}),
		probeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "layerkit_probe_duration_seconds",
			Help:    "Source image dimension probe duration",
			Buckets: prometheus.DefBuckets,
		}),
		probeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "layerkit_probe_errors_total",
			Help: "Total failed source image dimension probes",
		}),
		previewsScheduled: factory.NewCounter(prometheus.CounterOpts{
			Name: "layerkit_previews_scheduled_total",
			Help: "Total preview fetches scheduled after debounce",
		}),
		previewDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "layerkit_preview_fetch_duration_seconds",
			Help:    "Preview fetch duration",
			Buckets: prometheus.DefBuckets,
		}),
		previewsApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "layerkit_previews_applied_total",
			Help: "Total preview results applied",
		}),
		previewsDiscarded: factory.NewCounter(prometheus.CounterOpts{
			Name: "layerkit_previews_discarded_total",
			Help: "Total stale preview results discarded",
		}),
		previewErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "layerkit_preview_errors_total",
			Help: "Total failed preview fetches",
		}),
	}
}

// TemplateSaved implements layerkit.Metrics
func (c *Collector) TemplateSaved() {
	c.templateSaves.Inc()
}

// TemplateConflict implements layerkit.Metrics
func (c *Collector) TemplateConflict() {
	c.templateConflicts.Inc()
}

// LayerProbed implements layerkit.Metrics
func (c *Collector) LayerProbed(d time.Duration, err error) {
	c.probeDuration.Observe(d.Seconds())
	if err != nil {
		c.probeErrors.Inc()
	}
}

// PreviewScheduled implements preview.Collector
func (c *Collector) PreviewScheduled() {
	c.previewsScheduled.Inc()
}

// PreviewFetched implements preview.Collector
func (c *Collector) PreviewFetched(d time.Duration, err error) {
	c.previewDuration.Observe(d.Seconds())
	if err != nil {
		c.previewErrors.Inc()
	}
}

// PreviewApplied implements preview.Collector
func (c *Collector) PreviewApplied() {
	c.previewsApplied.Inc()
}

// PreviewDiscarded implements preview.Collector
func (c *Collector) PreviewDiscarded() {
	c.previewsDiscarded.Inc()
}

// Server wraps the metrics endpoint with http and app lifecycle handling
type Server struct {
	http.Server

	Host   string
	Port   int
	Path   string
	Logger *zap.Logger
}

// New create new metrics Server
func New(options ...Option) *Server {
	s := &Server{
		Port:   9000,
		Path:   "/metrics",
		Logger: zap.NewNop(),
	}
	for _, option := range options {
		option(s)
	}

	s.Addr = s.Host + ":" + strconv.Itoa(s.Port)

	mux := http.NewServeMux()
	mux.Handle(s.Path, promhttp.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, s.Path, http.StatusPermanentRedirect)
	})
	s.Handler = mux

	return s
}

// Run http metrics server
func (s *Server) Run() {
	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Fatal("prometheus listen", zap.Error(err))
		}
	}()
	s.Logger.Info("prometheus listen", zap.String("addr", s.Addr), zap.String("path", s.Path))
}

// Option Server option
type Option func(s *Server)

// WithHost with server address option
func WithHost(address string) Option {
	return func(s *Server) {
		s.Host = address
	}
}

// WithPort with port option
func WithPort(port int) Option {
	return func(s *Server) {
		s.Port = port
	}
}

// WithPath with path option
func WithPath(path string) Option {
	return func(s *Server) {
		s.Path = path
	}
}

// WithLogger with logger option
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}
