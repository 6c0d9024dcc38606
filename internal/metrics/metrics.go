package metrics

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Task outcomes used as the "outcome" label
const (
	OutcomeDecoded      = "decoded"
	OutcomeNoObject     = "fallback_no_object"
	OutcomeMalformed    = "fallback_malformed"
	OutcomeGatewayError = "gateway_error"
)

var (
	gatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quillcoach_gateway_request_duration_seconds",
			Help:    "Model gateway round-trip duration in seconds by model",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 0.1s to ~200s
		},
		[]string{"model", "status"},
	)

	tasksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quillcoach_tasks_total",
			Help: "Coaching tasks completed by task kind and outcome",
		},
		[]string{"task", "outcome"},
	)

	replyLength = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quillcoach_reply_length_chars",
			Help:    "Length of model replies in characters",
			Buckets: prometheus.ExponentialBuckets(64, 2, 10), // 64 to ~32k
		},
		[]string{"task"},
	)

	sessionSubmissions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quillcoach_session_submissions",
			Help: "Submissions recorded in the current session",
		},
	)
)

// Collector provides convenience methods for recording metrics.
// A nil *Collector is valid and records nothing.
type Collector struct {
	logger *slog.Logger
}

// NewCollector creates a new metrics collector
func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{
		logger: logger,
	}
}

// RecordGatewayRequest records a model round trip
func (c *Collector) RecordGatewayRequest(model string, duration time.Duration, success bool) {
	if c == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	gatewayRequestDuration.WithLabelValues(model, status).Observe(duration.Seconds())
}

// RecordTask counts a finished task and, for answered tasks, the reply size
func (c *Collector) RecordTask(task, outcome string, replyChars int) {
	if c == nil {
		return
	}
	tasksTotal.WithLabelValues(task, outcome).Inc()
	if outcome != OutcomeGatewayError {
		replyLength.WithLabelValues(task).Observe(float64(replyChars))
	}
}

// SetSessionSubmissions publishes the session log size
func (c *Collector) SetSessionSubmissions(n int) {
	if c == nil {
		return
	}
	sessionSubmissions.Set(float64(n))
}

// Serve exposes /metrics on addr in the background. Errors after startup
// are logged, not returned.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Error("Metrics server stopped", "addr", addr, "error", err)
		}
	}()
	c.logger.Info("Serving metrics", "addr", addr, "path", "/metrics")

	return srv
}

// Summary returns a one-line digest of task outcomes gathered from the
// default registry, e.g. "review: decoded=2 fallback_malformed=1".
func (c *Collector) Summary() string {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		if c != nil {
			c.logger.Warn("Failed to gather metrics", "error", err)
		}
		return ""
	}

	counts := map[string]map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "quillcoach_tasks_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var task, outcome string
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "task":
					task = lp.GetValue()
				case "outcome":
					outcome = lp.GetValue()
				}
			}
			if counts[task] == nil {
				counts[task] = map[string]float64{}
			}
			counts[task][outcome] += m.GetCounter().GetValue()
		}
	}

	tasks := make([]string, 0, len(counts))
	for task := range counts {
		tasks = append(tasks, task)
	}
	sort.Strings(tasks)

	parts := make([]string, 0, len(tasks))
	for _, task := range tasks {
		outcomes := make([]string, 0, len(counts[task]))
		for outcome := range counts[task] {
			outcomes = append(outcomes, outcome)
		}
		sort.Strings(outcomes)

		var b strings.Builder
		b.WriteString(task)
		b.WriteByte(':')
		for _, outcome := range outcomes {
			fmt.Fprintf(&b, " %s=%.0f", outcome, counts[task][outcome])
		}
		parts = append(parts, b.String())
	}

	return strings.Join(parts, "; ")
}
