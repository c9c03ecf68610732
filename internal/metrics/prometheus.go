package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "cyclenotify"

// PrometheusRecorder exports run metrics through a dedicated registry.
type PrometheusRecorder struct {
	registry *prometheus.Registry

	runsStarted    prometheus.Counter
	runsFinished   *prometheus.CounterVec
	runDuration    prometheus.Histogram
	lastRun        prometheus.Gauge
	fetchDuration  *prometheus.HistogramVec
	recordsFetched *prometheus.CounterVec
	recordsInvalid *prometheus.CounterVec
	itemsSkipped   *prometheus.CounterVec
	alertGroups    prometheus.Gauge
	alertItems     prometheus.Counter
	emailsSent     *prometheus.CounterVec
	sendDuration   prometheus.Histogram
}

// NewPrometheus registers all collectors on a fresh registry.
func NewPrometheus() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "runs_started_total",
			Help: "Notification runs started.",
		}),
		runsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "runs_finished_total",
			Help: "Notification runs finished, by status.",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "run_duration_seconds",
			Help:    "Wall time of a notification run.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_run_timestamp_seconds",
			Help: "Unix time the last run finished.",
		}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "fetch_duration_seconds",
			Help:    "Upstream listing latency, by source.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		recordsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "records_fetched_total",
			Help: "Records read from upstream, by source.",
		}, []string{"source"}),
		recordsInvalid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "records_invalid_total",
			Help: "Records rejected at the boundary, by source.",
		}, []string{"source"}),
		itemsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "items_skipped_total",
			Help: "Items not evaluated, by reason.",
		}, []string{"reason"}),
		alertGroups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "alert_groups",
			Help: "Users with alert-worthy items in the last run.",
		}),
		alertItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "alert_items_total",
			Help: "Items inside the alert window.",
		}),
		emailsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "emails_sent_total",
			Help: "Alert emails dispatched, by status.",
		}, []string{"status"}),
		sendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "send_duration_seconds",
			Help:    "Mail provider latency per message.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	r.registry.MustRegister(
		r.runsStarted, r.runsFinished, r.runDuration, r.lastRun,
		r.fetchDuration, r.recordsFetched, r.recordsInvalid,
		r.itemsSkipped, r.alertGroups, r.alertItems,
		r.emailsSent, r.sendDuration,
	)
	return r
}

// Handler serves the registry in Prometheus exposition format.
func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Push sends the current values to a Pushgateway. Used when the process
// exits after a single run and cannot be scraped.
func (r *PrometheusRecorder) Push(ctx context.Context, gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(r.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}

// Gatherer exposes the registry for tests and custom exporters.
func (r *PrometheusRecorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

func (r *PrometheusRecorder) IncRunStarted() { r.runsStarted.Inc() }

func (r *PrometheusRecorder) IncRunFinished(status string) {
	r.runsFinished.WithLabelValues(status).Inc()
	r.lastRun.SetToCurrentTime()
}

func (r *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	r.runDuration.Observe(d.Seconds())
}

func (r *PrometheusRecorder) ObserveFetchDuration(source string, d time.Duration) {
	r.fetchDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (r *PrometheusRecorder) AddRecordsFetched(source string, n int) {
	r.recordsFetched.WithLabelValues(source).Add(float64(n))
}

func (r *PrometheusRecorder) IncRecordsInvalid(source string) {
	r.recordsInvalid.WithLabelValues(source).Inc()
}

func (r *PrometheusRecorder) AddItemsSkipped(reason string, n int) {
	r.itemsSkipped.WithLabelValues(reason).Add(float64(n))
}

func (r *PrometheusRecorder) SetAlertGroups(n int) { r.alertGroups.Set(float64(n)) }

func (r *PrometheusRecorder) AddAlertItems(n int) { r.alertItems.Add(float64(n)) }

func (r *PrometheusRecorder) IncEmailSent(status string) {
	r.emailsSent.WithLabelValues(status).Inc()
}

func (r *PrometheusRecorder) ObserveSendDuration(d time.Duration) {
	r.sendDuration.Observe(d.Seconds())
}
