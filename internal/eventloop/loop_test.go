package eventloop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsTasksInOrder(t *testing.T) {
	l := New()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		l.Post(func() { order = append(order, i) })
	}

	require.NoError(t, l.RunUntilIdle(context.Background()))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestLoop_GoPostsContinuation(t *testing.T) {
	l := New()

	var got []string
	l.Post(func() {
		got = append(got, "start")
		l.Go(func() func() {
			time.Sleep(10 * time.Millisecond)
			return func() { got = append(got, "done") }
		})
		got = append(got, "after go")
	})

	require.NoError(t, l.RunUntilIdle(context.Background()))
	assert.Equal(t, []string{"start", "after go", "done"}, got)
}

func TestLoop_GoWithNilContinuation(t *testing.T) {
	l := New()
	l.Go(func() func() { return nil })

	require.NoError(t, l.RunUntilIdle(context.Background()))
}

func TestLoop_RunStopsOnContextCancel(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLoop_RunUntilIdleWaitsForInflightWork(t *testing.T) {
	l := New()
	release := make(chan struct{})

	ran := false
	l.Go(func() func() {
		<-release
		return func() { ran = true }
	})

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()

	require.NoError(t, l.RunUntilIdle(context.Background()))
	assert.True(t, ran)
}
