package worker

import "context"

// Job is a unit of scheduled background work.
type Job interface {
	// Name identifies the job in logs and metrics.
	Name() string

	// Run executes one pass of the job. The context carries the job timeout.
	Run(ctx context.Context) error
}

// JobFunc adapts a function to the Job interface.
type JobFunc struct {
	JobName string
	Fn      func(ctx context.Context) error
}

func (f JobFunc) Name() string { return f.JobName }

func (f JobFunc) Run(ctx context.Context) error { return f.Fn(ctx) }
