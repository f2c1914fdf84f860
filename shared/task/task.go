package task

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Task is a detached unit of background work with its own error. The caller
// never has to wait for it; Wait exists for tests and shutdown.
type Task struct {
	name string
	done chan struct{}
	err  error
}

// Go starts fn on a context that outlives the caller's cancellation.
// A panic inside fn is recovered and reported as the task's error.
func Go(ctx context.Context, name string, fn func(ctx context.Context) error) *Task {
	t := &Task{name: name, done: make(chan struct{})}
	detached := context.WithoutCancel(ctx)

	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("task %s panicked: %v", name, r)
				log.Error().Str("task", name).Interface("panic", r).Msg("background task panicked")
			}
		}()

		t.err = fn(detached)
	}()

	return t
}

func (t *Task) Name() string {
	return t.name
}

func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return fmt.Errorf("waiting for task %s: %w", t.name, ctx.Err())
	}
}
