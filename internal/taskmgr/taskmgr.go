// Package taskmgr runs named background tasks that can be killed on demand.
package taskmgr

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// TaskFunc is the body of a killable task. It must return promptly once ctx
// is cancelled.
type TaskFunc func(ctx context.Context)

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager owns a set of named killable tasks. Names are unique; starting a
// second task under a running name is rejected.
type Manager struct {
	logger *zap.Logger

	mu    sync.Mutex
	tasks map[string]*task
}

// NewManager creates an empty task manager.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		logger: logger,
		tasks:  make(map[string]*task),
	}
}

// AddTask starts fn under the given name. It reports false when a task with
// that name is already running.
//
// Postcondition: on true, fn runs in its own goroutine and the name stays
// taken until the task returns or is killed.
func (m *Manager) AddTask(name string, fn TaskFunc) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[name]; ok {
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel, done: make(chan struct{})}
	m.tasks[name] = t

	go func() {
		defer func() {
			close(t.done)
			m.mu.Lock()
			// Only drop the entry if it is still ours; KillTask may have
			// removed it already.
			if cur, ok := m.tasks[name]; ok && cur == t {
				delete(m.tasks, name)
			}
			m.mu.Unlock()
			m.logger.Debug("task finished", zap.String("task", name))
		}()
		fn(ctx)
	}()

	m.logger.Debug("task started", zap.String("task", name))
	return true
}

// HasTask reports whether a task with the given name is running.
func (m *Manager) HasTask(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.tasks[name]
	return ok
}

// KillTask cancels the named task and waits for it to finish. It reports
// false when no such task is running.
func (m *Manager) KillTask(name string) bool {
	m.mu.Lock()
	t, ok := m.tasks[name]
	if ok {
		delete(m.tasks, name)
	}
	m.mu.Unlock()

	if !ok {
		return false
	}

	t.cancel()
	<-t.done
	m.logger.Debug("task killed", zap.String("task", name))
	return true
}

// KillAll cancels every running task and waits for all of them.
func (m *Manager) KillAll() {
	m.mu.Lock()
	tasks := m.tasks
	m.tasks = make(map[string]*task)
	m.mu.Unlock()

	for _, t := range tasks {
		t.cancel()
	}
	for _, t := range tasks {
		<-t.done
	}
}

// Names returns the names of all running tasks.
func (m *Manager) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.tasks))
	for name := range m.tasks {
		names = append(names, name)
	}
	return names
}
