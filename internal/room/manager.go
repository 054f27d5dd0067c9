package room

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/merijnkruithof/botty/internal/event"
)

// ErrUserNotInRoom reports a movement subscription for a user the room does
// not contain.
var ErrUserNotInRoom = errors.New("user not in room")

// IdentityFunc resolves a session ticket to its authenticated user id, when
// the profile is known.
type IdentityFunc func(ticket string) (uint32, bool)

// Manager aggregates room state across all bots of one hotel. Every bot
// feeds it controller events via Track; queries see the merged picture.
//
// botRooms is current-room bookkeeping, set as soon as a room load is
// confirmed. roomBots holds confirmed presence only: a ticket joins it when
// a room's user list carries the bot's own user id.
type Manager struct {
	logger   *zap.Logger
	identity IdentityFunc

	mu       sync.RWMutex
	rooms    map[uint32]*Room
	botRooms map[string]uint32
	roomBots map[uint32]map[string]struct{}
}

// NewManager creates an empty room manager. identity is consulted when a
// user list arrives, to recognize the bot among the room's users.
func NewManager(logger *zap.Logger, identity IdentityFunc) *Manager {
	return &Manager{
		logger:   logger,
		identity: identity,
		rooms:    make(map[uint32]*Room),
		botRooms: make(map[string]uint32),
		roomBots: make(map[uint32]map[string]struct{}),
	}
}

// Track consumes controller events for the bot identified by ticket until
// the channel closes. Run it in its own goroutine per session.
func (m *Manager) Track(ticket string, events <-chan event.ControllerEvent) {
	for ev := range events {
		switch ev := ev.(type) {
		case event.RoomModel:
			m.enterRoom(ticket, ev.RoomID, ev.Model)
		case event.RoomLoaded:
			m.enterRoom(ticket, ev.RoomID, "")
		case event.RoomUsers:
			m.applyUsers(ticket, ev.Users)
		case event.RoomUserStatus:
			m.applyStatus(ticket, ev.Units)
		}
	}
}

func (m *Manager) enterRoom(ticket string, roomID uint32, model string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.botRooms[ticket]; ok && prev != roomID {
		m.leaveLocked(ticket, prev)
	}

	r := m.roomLocked(roomID)
	if model != "" {
		r.Model = model
	}
	m.botRooms[ticket] = roomID

	m.logger.Debug("bot entering room",
		zap.String("ticket", ticket),
		zap.Uint32("roomId", roomID),
	)
}

func (m *Manager) applyUsers(ticket string, users []event.RoomUser) {
	m.mu.Lock()
	defer m.mu.Unlock()

	roomID, ok := m.botRooms[ticket]
	if !ok {
		return
	}
	r := m.roomLocked(roomID)
	for _, u := range users {
		r.upsert(u)
	}

	// Presence is only confirmed once the room's user list carries the
	// bot itself.
	selfID, ok := m.identity(ticket)
	if !ok {
		return
	}
	if _, ok := r.byUserID[selfID]; !ok {
		return
	}
	bots, ok := m.roomBots[roomID]
	if !ok {
		bots = make(map[string]struct{})
		m.roomBots[roomID] = bots
	}
	bots[ticket] = struct{}{}

	m.logger.Debug("bot presence confirmed",
		zap.String("ticket", ticket),
		zap.Uint32("roomId", roomID),
	)
}

func (m *Manager) applyStatus(ticket string, units []event.RoomUnit) {
	m.mu.Lock()
	defer m.mu.Unlock()

	roomID, ok := m.botRooms[ticket]
	if !ok {
		return
	}
	m.roomLocked(roomID).applyStatus(units)
}

func (m *Manager) roomLocked(roomID uint32) *Room {
	r, ok := m.rooms[roomID]
	if !ok {
		r = newRoom(roomID)
		m.rooms[roomID] = r
	}
	return r
}

func (m *Manager) leaveLocked(ticket string, roomID uint32) {
	delete(m.botRooms, ticket)
	if bots, ok := m.roomBots[roomID]; ok {
		delete(bots, ticket)
		if len(bots) == 0 {
			delete(m.roomBots, roomID)
		}
	}

	// Room state lives as long as any bot still observes the room.
	for _, other := range m.botRooms {
		if other == roomID {
			return
		}
	}
	delete(m.rooms, roomID)
}

// Forget drops a bot from the indexes, typically on session teardown.
func (m *Manager) Forget(ticket string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if roomID, ok := m.botRooms[ticket]; ok {
		m.leaveLocked(ticket, roomID)
	}
}

// BotRoom returns the room the given bot currently stands in.
func (m *Manager) BotRoom(ticket string) (uint32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	roomID, ok := m.botRooms[ticket]
	return roomID, ok
}

// BotsInRoom returns the tickets of all bots inside roomID.
func (m *Manager) BotsInRoom(roomID uint32) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tickets := make([]string, 0, len(m.roomBots[roomID]))
	for ticket := range m.roomBots[roomID] {
		tickets = append(tickets, ticket)
	}
	return tickets
}

// UsersInRoom returns a snapshot of the users tracked in roomID.
func (m *Manager) UsersInRoom(roomID uint32) []User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return nil
	}
	return r.users()
}

// FindUser looks a user up by name inside roomID.
func (m *Manager) FindUser(roomID uint32, username string) (User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return User{}, false
	}
	return r.userByName(username)
}

// SubscribeUserMoves delivers a Position each time the given user finishes
// walking. The returned cancel func releases the subscription; it is safe to
// call more than once.
//
// Precondition: the user must currently be tracked in roomID.
func (m *Manager) SubscribeUserMoves(roomID, userID uint32) (<-chan Position, func(), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok {
		return nil, nil, ErrUserNotInRoom
	}
	if _, ok := r.byUserID[userID]; !ok {
		return nil, nil, ErrUserNotInRoom
	}

	ch := make(chan Position, 8)
	subs, ok := r.moveSubs[userID]
	if !ok {
		subs = make(map[int]chan Position)
		r.moveSubs[userID] = subs
	}
	id := r.nextSub
	r.nextSub++
	subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if cur, ok := m.rooms[roomID]; ok && cur == r {
				delete(r.moveSubs[userID], id)
			}
		})
	}
	return ch, cancel, nil
}
