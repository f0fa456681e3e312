package relay

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// Executor runs asynchronous notifications.
// Execute must arrange for task to run exactly once, unless it returns an
// error, in which case task must not run at all. ctx bounds only the
// submission; the task itself is never cancelled.
type Executor interface {
	Execute(ctx context.Context, task func()) error
}

// ExecutorFunc adapts a function to Executor.
type ExecutorFunc func(ctx context.Context, task func()) error

// Execute calls f(ctx, task).
func (f ExecutorFunc) Execute(ctx context.Context, task func()) error {
	return f(ctx, task)
}

type spawnExecutor struct{}

// Spawn returns the default Executor: every task gets its own goroutine and
// nothing bounds how many run at once.
func Spawn() Executor { return spawnExecutor{} }

func (spawnExecutor) Execute(_ context.Context, task func()) error {
	go task()
	return nil
}

// BoundedExecutor runs each task on its own goroutine but never more than a
// fixed number at once. Execute blocks while the limit is reached.
type BoundedExecutor struct {
	sem   *semaphore.Weighted
	limit int64
}

// Bounded returns an Executor allowing at most limit concurrent tasks.
// A limit below 1 is treated as 1.
func Bounded(limit int) *BoundedExecutor {
	if limit < 1 {
		limit = 1
	}
	return &BoundedExecutor{
		sem:   semaphore.NewWeighted(int64(limit)),
		limit: int64(limit),
	}
}

// Limit returns the maximum number of concurrent tasks.
func (b *BoundedExecutor) Limit() int { return int(b.limit) }

// Execute waits for a free slot, then starts task.
// It returns ctx.Err() if ctx ends first.
func (b *BoundedExecutor) Execute(ctx context.Context, task func()) error {
	if err := b.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	go func() {
		defer b.sem.Release(1)
		task()
	}()
	return nil
}
