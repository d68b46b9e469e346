package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ludo-technologies/jsast/domain"
	"github.com/ludo-technologies/jsast/internal/config"
)

// funcTask adapts a function to domain.ExecutableTask
type funcTask struct {
	name    string
	enabled bool
	run     func(ctx context.Context) (interface{}, error)
}

func (t *funcTask) Name() string    { return t.name }
func (t *funcTask) IsEnabled() bool { return t.enabled }

func (t *funcTask) Execute(ctx context.Context) (interface{}, error) {
	if t.run == nil {
		return nil, nil
	}
	return t.run(ctx)
}

func task(name string, run func(ctx context.Context) (interface{}, error)) *funcTask {
	return &funcTask{name: name, enabled: true, run: run}
}

func TestNewParallelExecutorFromConfig(t *testing.T) {
	executor := NewParallelExecutorFromConfig(&config.PerformanceConfig{
		MaxGoroutines:  8,
		TimeoutSeconds: 120,
	})
	if executor.maxConcurrency != 8 {
		t.Errorf("maxConcurrency should be 8, got %d", executor.maxConcurrency)
	}
	if executor.timeout != 120*time.Second {
		t.Errorf("timeout should be 120s, got %v", executor.timeout)
	}

	executor = NewParallelExecutorFromConfig(&config.PerformanceConfig{})
	if executor.maxConcurrency != DefaultMaxConcurrency {
		t.Errorf("maxConcurrency should be %d, got %d", DefaultMaxConcurrency, executor.maxConcurrency)
	}
	if executor.timeout != DefaultTimeout {
		t.Errorf("timeout should be %v, got %v", DefaultTimeout, executor.timeout)
	}

	if NewParallelExecutorFromConfig(nil) == nil {
		t.Error("nil config should still produce an executor")
	}
}

func TestParallelExecutor_EmptyAndDisabled(t *testing.T) {
	executor := NewParallelExecutor()

	if err := executor.Execute(context.Background(), nil); err != nil {
		t.Errorf("empty task list should return nil, got %v", err)
	}

	var ran atomic.Bool
	disabled := task("disabled", func(ctx context.Context) (interface{}, error) {
		ran.Store(true)
		return nil, errors.New("should not run")
	})
	disabled.enabled = false

	if err := executor.Execute(context.Background(), []domain.ExecutableTask{disabled}); err != nil {
		t.Errorf("disabled tasks should be skipped, got %v", err)
	}
	if ran.Load() {
		t.Error("disabled task was executed")
	}
}

func TestParallelExecutor_AllTasksRun(t *testing.T) {
	executor := NewParallelExecutor()

	var count atomic.Int32
	tasks := make([]domain.ExecutableTask, 10)
	for i := range tasks {
		tasks[i] = task(fmt.Sprintf("file%d.js", i), func(ctx context.Context) (interface{}, error) {
			count.Add(1)
			return nil, nil
		})
	}

	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count.Load() != 10 {
		t.Errorf("expected 10 executions, got %d", count.Load())
	}
}

func TestParallelExecutor_PartialFailures(t *testing.T) {
	executor := NewParallelExecutor()
	sentinel := errors.New("broken file")

	var count atomic.Int32
	tasks := []domain.ExecutableTask{
		task("ok.js", func(ctx context.Context) (interface{}, error) { count.Add(1); return nil, nil }),
		task("bad.js", func(ctx context.Context) (interface{}, error) { count.Add(1); return nil, sentinel }),
		task("worse.ts", func(ctx context.Context) (interface{}, error) { count.Add(1); return nil, errors.New("other") }),
		task("fine.tsx", func(ctx context.Context) (interface{}, error) { count.Add(1); return nil, nil }),
	}

	err := executor.Execute(context.Background(), tasks)
	if err == nil {
		t.Fatal("expected an error")
	}
	if count.Load() != 4 {
		t.Errorf("every task should run despite failures, got %d", count.Load())
	}

	var agg *AggregatedError
	if !errors.As(err, &agg) {
		t.Fatalf("expected *AggregatedError, got %T", err)
	}
	if len(agg.Errors) != 2 {
		t.Errorf("expected 2 task errors, got %d", len(agg.Errors))
	}
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should reach a task's error")
	}
}

func TestParallelExecutor_Timeout(t *testing.T) {
	executor := NewParallelExecutor()
	executor.SetTimeout(50 * time.Millisecond)

	tasks := []domain.ExecutableTask{
		task("slow.js", func(ctx context.Context) (interface{}, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(5 * time.Second):
				return nil, nil
			}
		}),
	}

	start := time.Now()
	err := executor.Execute(context.Background(), tasks)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timeout was not honored")
	}
}

func TestParallelExecutor_ContextCancellation(t *testing.T) {
	executor := NewParallelExecutor()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Int32
	tasks := []domain.ExecutableTask{
		task("a.js", func(ctx context.Context) (interface{}, error) { ran.Add(1); return nil, nil }),
		task("b.js", func(ctx context.Context) (interface{}, error) { ran.Add(1); return nil, nil }),
	}

	err := executor.Execute(ctx, tasks)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if ran.Load() != 0 {
		t.Errorf("no task should run on a cancelled context, got %d", ran.Load())
	}
}

func TestParallelExecutor_ConcurrencyLimit(t *testing.T) {
	executor := NewParallelExecutor()
	executor.SetMaxConcurrency(2)

	var current, peak atomic.Int32
	tasks := make([]domain.ExecutableTask, 8)
	for i := range tasks {
		tasks[i] = task(fmt.Sprintf("t%d", i), func(ctx context.Context) (interface{}, error) {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			current.Add(-1)
			return nil, nil
		})
	}

	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peak.Load() > 2 {
		t.Errorf("expected at most 2 concurrent tasks, got %d", peak.Load())
	}
}

func TestParallelExecutor_Setters(t *testing.T) {
	executor := NewParallelExecutor()
	initial := executor.maxConcurrency

	executor.SetMaxConcurrency(0)
	if executor.maxConcurrency != initial {
		t.Error("non-positive concurrency should be ignored")
	}
	executor.SetMaxConcurrency(3)
	if executor.maxConcurrency != 3 {
		t.Errorf("expected 3, got %d", executor.maxConcurrency)
	}

	executor.SetTimeout(-time.Second)
	if executor.timeout != DefaultTimeout {
		t.Error("non-positive timeout should be ignored")
	}
	executor.SetDescription("Walking")
	if executor.description != "Walking" {
		t.Errorf("expected description 'Walking', got '%s'", executor.description)
	}
}

func TestParallelExecutor_ProgressIntegration(t *testing.T) {
	pm := &recordingProgressManager{}
	executor := NewParallelExecutorWithProgress(&config.PerformanceConfig{MaxGoroutines: 2}, pm)

	tasks := []domain.ExecutableTask{task("a", nil), task("b", nil), task("c", nil)}
	if err := executor.Execute(context.Background(), tasks); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if pm.total != 3 {
		t.Errorf("expected progress total 3, got %d", pm.total)
	}
	if pm.task.increments.Load() != 3 {
		t.Errorf("expected 3 increments, got %d", pm.task.increments.Load())
	}
	if !pm.task.completed.Load() {
		t.Error("progress should be completed")
	}
}

func TestAggregatedError_Error(t *testing.T) {
	if (&AggregatedError{}).Error() != "no errors" {
		t.Error("empty aggregate should say 'no errors'")
	}

	single := &AggregatedError{Errors: []TaskError{{TaskName: "a.js", Err: errors.New("boom")}}}
	if single.Error() != "[a.js] boom" {
		t.Errorf("unexpected single error text: %s", single.Error())
	}

	multi := &AggregatedError{Errors: []TaskError{
		{TaskName: "a.js", Err: errors.New("boom")},
		{TaskName: "b.js", Err: errors.New("bang")},
	}}
	msg := multi.Error()
	if !strings.HasPrefix(msg, "2 tasks failed:") {
		t.Errorf("unexpected header: %s", msg)
	}
	if !strings.Contains(msg, "2. [b.js] bang") {
		t.Errorf("missing second entry: %s", msg)
	}
}

// recordingProgressManager captures progress calls
type recordingProgressManager struct {
	mu    sync.Mutex
	total int
	task  *recordingTaskProgress
}

func (m *recordingProgressManager) StartTask(_ string, total int) domain.TaskProgress {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = total
	m.task = &recordingTaskProgress{}
	return m.task
}

func (m *recordingProgressManager) IsInteractive() bool { return true }
func (m *recordingProgressManager) Close()              {}

type recordingTaskProgress struct {
	increments atomic.Int32
	completed  atomic.Bool
}

func (p *recordingTaskProgress) Increment(n int)   { p.increments.Add(int32(n)) }
func (p *recordingTaskProgress) Describe(_ string) {}
func (p *recordingTaskProgress) Complete()         { p.completed.Store(true) }
