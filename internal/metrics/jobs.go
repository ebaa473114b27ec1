package metrics

import "time"

// JobCompleted records a successful scheduled job run.
func JobCompleted(job string, duration time.Duration) {
	JobsTotal.WithLabelValues(job, "completed").Inc()
	JobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// JobFailed records a scheduled job run that returned an error or panicked.
func JobFailed(job string, duration time.Duration) {
	JobsTotal.WithLabelValues(job, "failed").Inc()
	JobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// SweepCompleted records a finished sweep and how many items it inspected.
func SweepCompleted(duration time.Duration, checked int) {
	SweepsTotal.WithLabelValues("completed").Inc()
	SweepDuration.Observe(duration.Seconds())
	SweepItemsChecked.Add(float64(checked))
}

// SweepFailed records a sweep aborted by a source query failure.
func SweepFailed(duration time.Duration) {
	SweepsTotal.WithLabelValues("failed").Inc()
	SweepDuration.Observe(duration.Seconds())
}

// ReminderOutcome records the per-item result of a sweep.
func ReminderOutcome(kind, reason string) {
	RemindersTotal.WithLabelValues(kind, reason).Inc()
}

// DispatchObserved records gateway latency under "ok", "failed" or "timeout".
func DispatchObserved(status string, duration time.Duration) {
	DispatchDuration.WithLabelValues(status).Observe(duration.Seconds())
}
