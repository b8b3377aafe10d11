package metrics

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink using Prometheus client library.
// All methods are non-blocking and fire-and-forget.
// Registration errors are logged but never propagated.
type PrometheusSink struct {
	remoteCallsTotal   *prometheus.CounterVec
	remoteCallDuration prometheus.Histogram
	jobsListed         prometheus.Gauge

	specsBuiltTotal *prometheus.CounterVec

	auditWriteErrorsTotal prometheus.Counter
}

// NewPrometheusSink creates a new Prometheus metrics sink.
// If registration fails, it logs a warning and returns a functional sink.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{}

	s.remoteCallsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report2bq_scheduler_remote_calls_total",
		Help: "Total number of Cloud Scheduler admin API calls.",
	}, []string{"method", "status_class"})

	s.remoteCallDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "report2bq_scheduler_remote_call_duration_seconds",
		Help:    "Cloud Scheduler admin API call latency in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	s.jobsListed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "report2bq_scheduler_jobs_listed",
		Help: "Number of jobs returned by the most recent list call (after filtering).",
	})

	s.specsBuiltTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "report2bq_specs_built_total",
		Help: "Total number of job specifications built, by product.",
	}, []string{"product"})

	s.auditWriteErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "report2bq_audit_write_errors_total",
		Help: "Total number of failed audit trail writes.",
	})

	s.register(reg, s.remoteCallsTotal, "report2bq_scheduler_remote_calls_total")
	s.register(reg, s.remoteCallDuration, "report2bq_scheduler_remote_call_duration_seconds")
	s.register(reg, s.jobsListed, "report2bq_scheduler_jobs_listed")
	s.register(reg, s.specsBuiltTotal, "report2bq_specs_built_total")
	s.register(reg, s.auditWriteErrorsTotal, "report2bq_audit_write_errors_total")

	return s
}

// register attempts to register a collector, logging any errors without propagating them.
func (s *PrometheusSink) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if err := reg.Register(c); err != nil {
		log.Printf("metrics: failed to register %s: %v", name, err)
	}
}

func (s *PrometheusSink) RemoteCallCompleted(method string, statusClass string, duration time.Duration) {
	s.remoteCallsTotal.WithLabelValues(method, statusClass).Inc()
	s.remoteCallDuration.Observe(duration.Seconds())
}

func (s *PrometheusSink) JobsListed(count int) {
	s.jobsListed.Set(float64(count))
}

func (s *PrometheusSink) SpecBuilt(product string) {
	s.specsBuiltTotal.WithLabelValues(product).Inc()
}

func (s *PrometheusSink) AuditWriteError() {
	s.auditWriteErrorsTotal.Inc()
}
