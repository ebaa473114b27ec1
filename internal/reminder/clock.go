package reminder

import "time"

// Clock abstracts time so the scheduler can be driven by a simulated clock.
type Clock interface {
	Now() time.Time
	// AfterFunc calls f in its own goroutine after d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable pending call created by Clock.AfterFunc.
type Timer interface {
	// Stop prevents the call from firing. It returns false if the call has
	// already fired or been stopped.
	Stop() bool
}

// SystemClock returns a Clock backed by the time package.
func SystemClock() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}
