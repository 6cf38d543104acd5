package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	// Registry holds only gadgetctl metrics so textfile output stays free of
	// Go runtime collectors.
	Registry = prometheus.NewRegistry()

	commandRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gadgetctl",
			Subsystem: "command",
			Name:      "runs_total",
			Help:      "Total gadgetctl command invocations.",
		},
		[]string{"command", "exit_code"},
	)
	commandDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gadgetctl",
			Subsystem: "command",
			Name:      "duration_seconds",
			Help:      "gadgetctl command duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"command", "exit_code"},
	)
	gadgetActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gadgetctl",
			Subsystem: "gadget",
			Name:      "actions_total",
			Help:      "Gadget actions executed.",
		},
		[]string{"gadget", "action", "exit_code", "success"},
	)
	gadgetDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gadgetctl",
			Subsystem: "gadget",
			Name:      "action_duration_seconds",
			Help:      "Gadget action duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"gadget", "action"},
	)
	processEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gadgetctl",
			Subsystem: "process",
			Name:      "events_total",
			Help:      "Child process spawn and stop requests.",
		},
		[]string{"event", "success"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		Registry.MustRegister(commandRuns, commandDuration, gadgetActions, gadgetDuration, processEvents)
	})
}

func RecordCommand(command string, exitCode int, duration time.Duration) {
	RegisterMetrics()
	codeLabel := strconv.Itoa(exitCode)
	commandRuns.WithLabelValues(command, codeLabel).Inc()
	commandDuration.WithLabelValues(command, codeLabel).Observe(duration.Seconds())
}

func RecordGadgetAction(gadget, action string, exitCode int, duration time.Duration, success bool) {
	RegisterMetrics()
	gadgetActions.WithLabelValues(gadget, action, strconv.Itoa(exitCode), strconv.FormatBool(success)).Inc()
	gadgetDuration.WithLabelValues(gadget, action).Observe(duration.Seconds())
}

// RecordProcessEvent counts a spawn, terminate or kill request.
func RecordProcessEvent(event string, success bool) {
	RegisterMetrics()
	processEvents.WithLabelValues(event, strconv.FormatBool(success)).Inc()
}

// WriteTextfile writes the current metrics in the text exposition format for
// a node_exporter textfile collector. The file is replaced atomically.
func WriteTextfile(path string) error {
	RegisterMetrics()
	return prometheus.WriteToTextfile(path, Registry)
}
