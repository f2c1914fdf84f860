package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"purohit/shared/task"
)

func TestTask_IndependentErrors(t *testing.T) {
	boom := errors.New("boom")

	ok := task.Go(context.Background(), "ok", func(context.Context) error { return nil })
	failed := task.Go(context.Background(), "failed", func(context.Context) error { return boom })

	assert.NoError(t, ok.Wait(context.Background()))
	assert.ErrorIs(t, failed.Wait(context.Background()), boom)
	assert.Equal(t, "failed", failed.Name())
}

func TestTask_SurvivesCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	tk := task.Go(ctx, "detached", func(ctx context.Context) error {
		close(started)
		time.Sleep(20 * time.Millisecond)

		return ctx.Err()
	})

	<-started
	cancel()

	assert.NoError(t, tk.Wait(context.Background()))
}

func TestTask_RecoversPanic(t *testing.T) {
	tk := task.Go(context.Background(), "panics", func(context.Context) error {
		panic("bad")
	})

	err := tk.Wait(context.Background())

	assert.ErrorContains(t, err, "panicked")
}

func TestTask_WaitRespectsContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	tk := task.Go(context.Background(), "slow", func(context.Context) error {
		<-release

		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, tk.Wait(ctx), context.DeadlineExceeded)
}
