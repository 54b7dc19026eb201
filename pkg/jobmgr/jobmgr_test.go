package jobmgr

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartStop(t *testing.T) {
	m := New(zerolog.Nop())
	stopped := make(chan struct{})

	err := m.Start("tick", func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"tick"}, m.Running())

	// Duplicate names rejected while running.
	err = m.Start("tick", func(ctx context.Context) error { return nil })
	assert.Error(t, err)

	require.NoError(t, m.Stop("tick"))
	select {
	case <-stopped:
	default:
		t.Fatal("job did not observe cancellation")
	}
	assert.Empty(t, m.Running())

	assert.Error(t, m.Stop("tick"))
}

func TestFinishedJobFreesName(t *testing.T) {
	m := New(zerolog.Nop())
	require.NoError(t, m.Start("once", func(ctx context.Context) error { return nil }))
	require.Eventually(t, func() bool { return len(m.Running()) == 0 }, time.Second, 5*time.Millisecond)
	assert.NoError(t, m.Start("once", func(ctx context.Context) error { return nil }))
	m.StopAll()
}

func TestStopAll(t *testing.T) {
	m := New(zerolog.Nop())
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, m.Start(name, func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}))
	}
	assert.Equal(t, []string{"a", "b", "c"}, m.Running())
	m.StopAll()
	assert.Empty(t, m.Running())
}
