// Package metrics provides Prometheus metrics for a termfolio process.
//
// The collectors live on a private registry and are never served over the
// network; [WriteFile] dumps them in the text exposition format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all termfolio collectors.
var Registry = prometheus.NewRegistry()

var (
	commandsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "termfolio_commands_total",
			Help: "Total number of dispatched commands",
		},
		[]string{"command", "result"},
	)

	fsMutationsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "termfolio_fs_mutations_total",
			Help: "Total number of virtual filesystem mutations",
		},
		[]string{"op", "result"},
	)

	sudoAttemptsTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "termfolio_sudo_attempts_total",
			Help: "Total number of sudo password attempts",
		},
		[]string{"result"},
	)

	resumeFetchesTotal = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "termfolio_resume_fetches_total",
			Help: "Total number of résumé asset fetches",
		},
		[]string{"source", "result"},
	)

	resumeFetchDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "termfolio_resume_fetch_duration_seconds",
			Help:    "Résumé asset fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	sessionsActive = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "termfolio_sessions_active",
			Help: "Number of live sessions",
		},
	)
)

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// RecordCommand records the outcome of one dispatched command.
func RecordCommand(name string, success bool) {
	commandsTotal.WithLabelValues(name, resultLabel(success)).Inc()
}

// RecordFSMutation records the outcome of a filesystem mutation. The result
// label is "success", or the class of the error otherwise.
func RecordFSMutation(op, result string) {
	fsMutationsTotal.WithLabelValues(op, result).Inc()
}

// RecordSudoAttempt records a sudo password attempt.
func RecordSudoAttempt(success bool) {
	sudoAttemptsTotal.WithLabelValues(resultLabel(success)).Inc()
}

// RecordResumeFetch records a résumé fetch from the given source kind
// ("http", "s3" or "file").
func RecordResumeFetch(source string, duration time.Duration, success bool) {
	resumeFetchesTotal.WithLabelValues(source, resultLabel(success)).Inc()
	resumeFetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// SessionStarted and SessionEnded track the number of live sessions.
func SessionStarted() { sessionsActive.Inc() }

func SessionEnded() { sessionsActive.Dec() }

// WriteFile writes all metrics to the named file in the Prometheus text
// format.
func WriteFile(filename string) error {
	return prometheus.WriteToTextfile(filename, Registry)
}
