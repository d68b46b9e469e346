package service

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/ludo-technologies/jsast/domain"
	"github.com/ludo-technologies/jsast/internal/config"
	"golang.org/x/sync/errgroup"
)

// Default values for the parallel executor
const (
	// DefaultMaxConcurrency is the fallback when configuration asks for 0 workers
	DefaultMaxConcurrency = 4
	DefaultTimeout        = 5 * time.Minute
)

// TaskError records the failure of one task
type TaskError struct {
	TaskName string
	Err      error
}

// Error implements the error interface
func (e TaskError) Error() string {
	return fmt.Sprintf("[%s] %v", e.TaskName, e.Err)
}

// Unwrap returns the underlying error
func (e TaskError) Unwrap() error {
	return e.Err
}

// AggregatedError collects every task failure of a run
type AggregatedError struct {
	Errors []TaskError
}

// Error implements the error interface
func (e *AggregatedError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d tasks failed:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes every task error to errors.Is and errors.As
func (e *AggregatedError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, te := range e.Errors {
		errs[i] = te
	}
	return errs
}

// ParallelExecutorImpl implements domain.ParallelExecutor on an errgroup
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
	progress       domain.ProgressManager
	description    string
	logger         *slog.Logger
	mu             sync.RWMutex
}

// NewParallelExecutor creates an executor using one worker per CPU
func NewParallelExecutor() *ParallelExecutorImpl {
	return &ParallelExecutorImpl{
		maxConcurrency: runtime.NumCPU(),
		timeout:        DefaultTimeout,
		description:    "Parsing files",
		logger:         slog.Default(),
	}
}

// NewParallelExecutorFromConfig creates an executor from performance settings
func NewParallelExecutorFromConfig(cfg *config.PerformanceConfig) *ParallelExecutorImpl {
	e := NewParallelExecutor()
	e.maxConcurrency = DefaultMaxConcurrency
	if cfg == nil {
		return e
	}
	if cfg.MaxGoroutines > 0 {
		e.maxConcurrency = cfg.MaxGoroutines
	}
	if timeout := time.Duration(cfg.TimeoutSeconds) * time.Second; timeout > 0 {
		e.timeout = timeout
	}
	return e
}

// NewParallelExecutorWithProgress creates an executor that reports progress
func NewParallelExecutorWithProgress(cfg *config.PerformanceConfig, pm domain.ProgressManager) *ParallelExecutorImpl {
	e := NewParallelExecutorFromConfig(cfg)
	e.progress = pm
	return e
}

// WithLogger sets the logger used for task failures
func (e *ParallelExecutorImpl) WithLogger(logger *slog.Logger) *ParallelExecutorImpl {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// Execute runs the enabled tasks with bounded concurrency. Every task runs
// to completion even when others fail; failures are returned together as an
// *AggregatedError. Tasks that never started because the run timed out are
// reported with the context error.
func (e *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	enabled := make([]domain.ExecutableTask, 0, len(tasks))
	for _, t := range tasks {
		if t.IsEnabled() {
			enabled = append(enabled, t)
		}
	}
	if len(enabled) == 0 {
		return nil
	}

	e.mu.RLock()
	maxConcurrency, timeout, description := e.maxConcurrency, e.timeout, e.description
	e.mu.RUnlock()

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var bar domain.TaskProgress = &NoOpTaskProgress{}
	if e.progress != nil {
		bar = e.progress.StartTask(description, len(enabled))
	}
	defer bar.Complete()

	g, gCtx := errgroup.WithContext(runCtx)
	g.SetLimit(maxConcurrency)

	var (
		errMu      sync.Mutex
		taskErrors []TaskError
	)
	record := func(name string, err error) {
		errMu.Lock()
		taskErrors = append(taskErrors, TaskError{TaskName: name, Err: err})
		errMu.Unlock()
	}

	for _, t := range enabled {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				record(t.Name(), err)
				return nil
			}

			_, err := t.Execute(gCtx)
			bar.Increment(1)
			if err != nil {
				e.logger.Debug("task failed", slog.String("task", t.Name()), slog.Any("error", err))
				record(t.Name(), err)
			}
			// Failures are collected, not propagated, so siblings keep running.
			return nil
		})
	}
	_ = g.Wait()

	if len(taskErrors) > 0 {
		return &AggregatedError{Errors: taskErrors}
	}
	return nil
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (e *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if max > 0 {
		e.maxConcurrency = max
	}
}

// SetTimeout sets the timeout for a whole run
func (e *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if timeout > 0 {
		e.timeout = timeout
	}
}

// SetDescription sets the progress bar label
func (e *ParallelExecutorImpl) SetDescription(description string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.description = description
}
