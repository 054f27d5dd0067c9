// Package user keeps the authenticated profile of each connected bot.
package user

import (
	"sync"

	"github.com/merijnkruithof/botty/internal/event"
)

// Manager maps session tickets to the profile the hotel reported for them.
type Manager struct {
	mu    sync.RWMutex
	users map[string]event.UserInfo
}

// NewManager creates an empty user manager.
func NewManager() *Manager {
	return &Manager{users: make(map[string]event.UserInfo)}
}

// Track consumes controller events for the bot identified by ticket until
// the channel closes, recording every profile update.
func (m *Manager) Track(ticket string, events <-chan event.ControllerEvent) {
	for ev := range events {
		info, ok := ev.(event.UserInfo)
		if !ok {
			continue
		}
		m.mu.Lock()
		m.users[ticket] = info
		m.mu.Unlock()
	}
}

// Get returns the profile recorded for ticket.
func (m *Manager) Get(ticket string) (event.UserInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.users[ticket]
	return info, ok
}

// All returns a snapshot of every recorded profile keyed by ticket.
func (m *Manager) All() map[string]event.UserInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make(map[string]event.UserInfo, len(m.users))
	for ticket, info := range m.users {
		all[ticket] = info
	}
	return all
}

// Forget drops the profile recorded for ticket.
func (m *Manager) Forget(ticket string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.users, ticket)
}
