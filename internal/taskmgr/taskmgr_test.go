package taskmgr

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManager_AddAndKill(t *testing.T) {
	m := NewManager(zap.NewNop())

	started := make(chan struct{})
	stopped := make(chan struct{})
	ok := m.AddTask("follow", func(ctx context.Context) {
		close(started)
		<-ctx.Done()
		close(stopped)
	})
	require.True(t, ok)

	<-started
	assert.True(t, m.HasTask("follow"))
	assert.Contains(t, m.Names(), "follow")

	require.True(t, m.KillTask("follow"))

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("task did not stop")
	}
	assert.False(t, m.HasTask("follow"))
}

func TestManager_AddRejectsDuplicateName(t *testing.T) {
	m := NewManager(zap.NewNop())
	defer m.KillAll()

	require.True(t, m.AddTask("a", func(ctx context.Context) { <-ctx.Done() }))
	assert.False(t, m.AddTask("a", func(ctx context.Context) {}))
}

func TestManager_KillMissingTask(t *testing.T) {
	m := NewManager(zap.NewNop())
	assert.False(t, m.KillTask("nope"))
}

func TestManager_NameFreedAfterTaskReturns(t *testing.T) {
	m := NewManager(zap.NewNop())

	done := make(chan struct{})
	require.True(t, m.AddTask("a", func(ctx context.Context) { close(done) }))
	<-done

	require.Eventually(t, func() bool { return !m.HasTask("a") }, time.Second, 5*time.Millisecond)
	assert.True(t, m.AddTask("a", func(ctx context.Context) {}))
}

func TestManager_KillAll(t *testing.T) {
	m := NewManager(zap.NewNop())

	for _, name := range []string{"a", "b", "c"} {
		require.True(t, m.AddTask(name, func(ctx context.Context) { <-ctx.Done() }))
	}

	m.KillAll()
	assert.Empty(t, m.Names())
}
