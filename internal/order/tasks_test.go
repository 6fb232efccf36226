package order

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTasksRunExecutesDispatchedJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tasks := NewTasks(4)
	go tasks.Run(ctx, 2)

	done := make(chan string, 2)
	assert.True(t, tasks.Dispatch(func(ctx context.Context) { done <- "a" }))
	assert.True(t, tasks.Dispatch(func(ctx context.Context) { done <- "b" }))

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case v := <-done:
			got[v] = true
		case <-time.After(time.Second):
			t.Fatal("job was not executed")
		}
	}
	assert.True(t, got["a"])
	assert.True(t, got["b"])
}

func TestTasksDispatchDropsWhenSaturated(t *testing.T) {
	// No workers running: the queue fills and the overflow job is refused
	// instead of blocking the caller.
	tasks := NewTasks(1)

	assert.True(t, tasks.Dispatch(func(ctx context.Context) {}))
	assert.False(t, tasks.Dispatch(func(ctx context.Context) {}))
}

func TestTasksRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	tasks := NewTasks(1)
	stopped := make(chan struct{})
	go func() {
		tasks.Run(ctx, 1)
		close(stopped)
	}()

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}
