package poll

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is used when a non-positive interval is requested.
const DefaultInterval = 5 * time.Second

// Func is one poll cycle. It must honor ctx cancellation.
type Func func(ctx context.Context) error

// Task runs a Func on a fixed interval until stopped. Cycles never overlap;
// ticks that fire while a cycle is running are dropped, not queued.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Start runs fn immediately and then every interval until ctx is cancelled
// or Stop is called.
func Start(ctx context.Context, name string, interval time.Duration, fn Func, logger *zap.Logger) *Task {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go t.run(ctx, name, interval, fn, logger)
	return t
}

func (t *Task) run(ctx context.Context, name string, interval time.Duration, fn Func, logger *zap.Logger) {
	defer close(t.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var cycle uint64
	for {
		if ctx.Err() != nil {
			return
		}

		cycle++
		start := time.Now()
		if err := fn(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("poll cycle failed", zap.String("task", name), zap.Uint64("cycle", cycle), zap.Error(err))
		} else {
			logger.Debug("poll cycle complete", zap.String("task", name), zap.Uint64("cycle", cycle), zap.Duration("took", time.Since(start)))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop cancels the task and waits for the running cycle to return.
func (t *Task) Stop() {
	t.cancel()
	<-t.done
}

// Done is closed once the task has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
