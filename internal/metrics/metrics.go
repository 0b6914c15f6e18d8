package metrics

import (
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Invocation outcome labels.
const (
	OutcomeSuccess    = "success"
	OutcomeExitError  = "exit_error"
	OutcomeSpawnError = "spawn_error"
)

var (
	registry = prometheus.NewRegistry()

	invocationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "runward",
		Name:      "invocations_total",
		Help:      "Total number of command invocations by outcome.",
	}, []string{"task", "outcome"})

	runDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "runward",
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of command invocations in seconds.",
	}, []string{"task"})

	terminations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "runward",
		Name:      "terminations_total",
		Help:      "Total number of out-of-band termination requests issued.",
	})

	buildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "runward",
		Name:      "build_info",
		Help:      "Build metadata for the running runward binary.",
	}, []string{"go_version", "vcs", "vcs_revision", "vcs_time", "vcs_modified"})

	buildInfoOnce sync.Once
)

func init() {
	registry.MustRegister(invocationsTotal, runDuration, terminations, buildInfo)
}

// Registry returns the Prometheus registry containing all runward metrics.
func Registry() *prometheus.Registry {
	return registry
}

// ObserveInvocation records one finished invocation with its outcome and
// duration.
func ObserveInvocation(task, outcome string, d time.Duration) {
	if task == "" {
		task = "unknown"
	}
	invocationsTotal.WithLabelValues(task, outcome).Inc()
	runDuration.WithLabelValues(task).Observe(d.Seconds())
}

// IncrementTermination counts an out-of-band termination request.
func IncrementTermination() {
	terminations.Inc()
}

// EmitBuildInfo publishes build metadata about the running binary.
func EmitBuildInfo() {
	buildInfoOnce.Do(func() {
		labels := prometheus.Labels{
			"go_version":   runtime.Version(),
			"vcs":          "",
			"vcs_revision": "",
			"vcs_time":     "",
			"vcs_modified": "",
		}
		if info, ok := debug.ReadBuildInfo(); ok {
			if info.GoVersion != "" {
				labels["go_version"] = info.GoVersion
			}
			for _, setting := range info.Settings {
				switch setting.Key {
				case "vcs":
					labels["vcs"] = setting.Value
				case "vcs.revision":
					labels["vcs_revision"] = setting.Value
				case "vcs.time":
					labels["vcs_time"] = setting.Value
				case "vcs.modified":
					labels["vcs_modified"] = setting.Value
				}
			}
		}
		buildInfo.With(labels).Set(1)
	})
}
