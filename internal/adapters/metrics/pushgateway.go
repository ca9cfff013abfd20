// Package metrics reports run outcomes to a Prometheus Pushgateway.
// A scheduled job exits before any scraper could reach it, so each run pushes its
// gauges once at the end instead of serving /metrics.
package metrics

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/prometheus/common/expfmt"

	"github.com/jsamuelsen/readme-quote/internal/ports"
	"github.com/jsamuelsen/readme-quote/internal/platform/logging"
)

const namespace = "readme_quote"

// defaultPushTimeout applies when Config.Timeout is unset.
const defaultPushTimeout = 5 * time.Second

// Config configures the Pushgateway recorder.
type Config struct {
	Enabled        bool
	PushgatewayURL string
	Job            string
	Timeout        time.Duration

	// Client overrides the HTTP client used for pushing.
	Client *http.Client
}

// Recorder implements ports.RunRecorder by pushing gauges to a Pushgateway.
// When disabled it still tracks the gauges locally but never pushes.
type Recorder struct {
	cfg    Config
	logger *slog.Logger

	lastRun     prometheus.Gauge
	lastSuccess prometheus.Gauge
	duration    prometheus.Gauge
	changed     prometheus.Gauge
	written     prometheus.Gauge
	failed      prometheus.Gauge
	failedStep  *prometheus.GaugeVec
}

var _ ports.RunRecorder = (*Recorder)(nil)

// New creates a recorder. A nil logger falls back to slog.Default().
func New(cfg Config, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultPushTimeout
	}

	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}

	return &Recorder{
		cfg:         cfg,
		logger:      logger.With(slog.String("component", "metrics.Recorder")),
		lastRun:     gauge("last_run_timestamp_seconds", "Unix time the last run finished."),
		lastSuccess: gauge("last_success_timestamp_seconds", "Unix time the last successful run finished."),
		duration:    gauge("run_duration_seconds", "Wall-clock duration of the last run."),
		changed:     gauge("document_changed", "1 if the last run produced different document content."),
		written:     gauge("document_written", "1 if the last run wrote the document."),
		failed:      gauge("last_run_failed", "1 if the last run failed."),
		failedStep: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_failed_step",
			Help:      "1 for the step that failed the last run.",
		}, []string{"step"}),
	}
}

// RecordRun updates the gauges and, when enabled, pushes them.
// Push failures are logged and never fail the run.
func (r *Recorder) RecordRun(ctx context.Context, report ports.RunReport) {
	finishedAt := report.FinishedAt
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}

	r.lastRun.Set(float64(finishedAt.Unix()))
	r.duration.Set(report.Duration.Seconds())
	r.changed.Set(boolToFloat(report.Changed))
	r.written.Set(boolToFloat(report.Written))
	r.failed.Set(boolToFloat(!report.Succeeded))

	r.failedStep.Reset()

	if report.Succeeded {
		r.lastSuccess.Set(float64(finishedAt.Unix()))
	} else {
		r.failedStep.WithLabelValues(report.FailedStep).Set(1)
	}

	if !r.cfg.Enabled {
		return
	}

	logger := logging.FromContext(ctx).With(slog.String("job", r.cfg.Job))

	// The run context may already be cancelled by a signal; the report should still go out.
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.Timeout)
	defer cancel()

	if err := r.pusher(report.Succeeded).AddContext(pushCtx); err != nil {
		logger.Warn("pushing run metrics failed", slog.Any("error", err))
		return
	}

	logger.Debug("pushed run metrics", slog.String("pushgateway", r.cfg.PushgatewayURL))
}

// pusher collects the run gauges. The success timestamp is only sent on success
// and the failed step only on failure; Add (HTTP POST) leaves the previously
// pushed value in place otherwise.
func (r *Recorder) pusher(succeeded bool) *push.Pusher {
	p := push.New(r.cfg.PushgatewayURL, r.cfg.Job).
		Format(expfmt.NewFormat(expfmt.TypeTextPlain)).
		Collector(r.lastRun).
		Collector(r.duration).
		Collector(r.changed).
		Collector(r.written).
		Collector(r.failed)

	if succeeded {
		p = p.Collector(r.lastSuccess)
	} else {
		p = p.Collector(r.failedStep)
	}

	if r.cfg.Client != nil {
		p = p.Client(r.cfg.Client)
	}

	return p
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}

	return 0
}
