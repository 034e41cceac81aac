package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-duel/internal/apperror"
)

// Task runs on the loop goroutine.
type Task func(ctx context.Context)

// Loop serializes every state transition onto a single goroutine.
// Tasks run strictly in the order they were posted.
type Loop struct {
	logger *slog.Logger

	tasks    chan Task
	stopped  chan struct{}
	stopOnce sync.Once
}

func NewLoop(logger *slog.Logger, size int) *Loop {
	return &Loop{
		logger:  logger.With("component", "loop"),
		tasks:   make(chan Task, size),
		stopped: make(chan struct{}),
	}
}

// Post enqueues task. It returns false once the loop has stopped.
func (that *Loop) Post(task Task) bool {
	select {
	case <-that.stopped:
		return false
	default:
	}

	select {
	case that.tasks <- task:
		return true
	case <-that.stopped:
		return false
	}
}

// Schedule posts task after delay.
func (that *Loop) Schedule(delay time.Duration, task Task) {
	time.AfterFunc(delay, func() {
		if !that.Post(task) {
			that.logger.Debug("scheduled task dropped, loop stopped")
		}
	})
}

// Do posts task and waits for it to finish.
func (that *Loop) Do(ctx context.Context, task Task) error {
	done := make(chan struct{})

	posted := that.Post(func(ctx context.Context) {
		defer close(done)
		task(ctx)
	})
	if !posted {
		return apperror.ErrLoopStopped
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-that.stopped:
		return apperror.ErrLoopStopped
	}
}

// Run processes tasks until ctx is canceled. Tasks still queued at that point are dropped.
func (that *Loop) Run(ctx context.Context) error {
	defer that.stopOnce.Do(func() {
		close(that.stopped)
	})

	for {
		select {
		case <-ctx.Done():
			that.logger.Info("event loop stopped")
			return nil
		case task := <-that.tasks:
			that.run(ctx, task)
		}
	}
}

func (that *Loop) run(ctx context.Context, task Task) {
	defer func() {
		if err := recover(); err != nil {
			that.logger.Error("recovered from panic in task", "panic", err)
		}
	}()

	task(ctx)
}
