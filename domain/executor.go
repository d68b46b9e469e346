package domain

import "context"

// ExecutableTask is a unit of work scheduled by a ParallelExecutor
type ExecutableTask interface {
	Name() string
	Execute(ctx context.Context) (interface{}, error)
	IsEnabled() bool
}

// ParallelExecutor runs independent tasks concurrently
type ParallelExecutor interface {
	Execute(ctx context.Context, tasks []ExecutableTask) error
}

// ProgressManager creates progress indicators for long-running work
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks the progress of a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
