package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"xcoderunner/executor"
	"xcoderunner/lang"
)

var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xcoderunner_jobs_total",
			Help: "Total number of jobs by final stage",
		},
		[]string{"language", "stage"},
	)

	CompilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xcoderunner_compiles_total",
			Help: "Total number of compile steps by outcome",
		},
		[]string{"language", "status"},
	)

	ExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xcoderunner_executions_total",
			Help: "Total number of program runs by outcome",
		},
		[]string{"language", "status"},
	)

	PhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "xcoderunner_phase_duration_ms",
			Help:    "Duration of each phase in milliseconds",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"language", "phase"}, // phase: "compile", "run", "total"
	)

	QueueWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "xcoderunner_process_queue_wait_ms",
			Help:    "Time spent waiting for a process slot",
			Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
		},
	)

	ActiveProcesses = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "xcoderunner_active_processes",
			Help: "Number of compile and run processes currently alive",
		},
	)

	CleanupFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xcoderunner_cleanup_failures_total",
			Help: "Workspace entries that could not be removed",
		},
		[]string{"language"},
	)

	ValidatorRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xcoderunner_validator_rejections_total",
			Help: "Snippets rejected by the restricted-import validator",
		},
		[]string{"language"},
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "xcoderunner_rate_limit_hits_total",
			Help: "Total number of requests rejected by rate limiter",
		},
	)
)

// Recorder feeds engine events into the collectors above.
type Recorder struct{}

var _ executor.Observer = Recorder{}

func (Recorder) CompileFinished(l lang.Language, o executor.CompileOutcome) {
	if o.Status == executor.CompileNotNeeded {
		return
	}
	CompilesTotal.WithLabelValues(l.String(), string(o.Status)).Inc()
	PhaseDuration.WithLabelValues(l.String(), "compile").Observe(ms(o.Duration))
}

func (Recorder) RunFinished(l lang.Language, o executor.ExecutionOutcome) {
	ExecutionsTotal.WithLabelValues(l.String(), string(o.Status)).Inc()
	PhaseDuration.WithLabelValues(l.String(), "run").Observe(ms(o.Duration))
}

func (Recorder) JobFinished(l lang.Language, stage executor.State, elapsed time.Duration) {
	JobsTotal.WithLabelValues(l.String(), string(stage)).Inc()
	PhaseDuration.WithLabelValues(l.String(), "total").Observe(ms(elapsed))
}

func (Recorder) CleanupFinished(l lang.Language, failures int) {
	if failures > 0 {
		CleanupFailures.WithLabelValues(l.String()).Add(float64(failures))
	}
}

func (Recorder) QueueWait(waited time.Duration) {
	QueueWait.Observe(ms(waited))
}

func (Recorder) ActiveProcesses(n int64) {
	ActiveProcesses.Set(float64(n))
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
