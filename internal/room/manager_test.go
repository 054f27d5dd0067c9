package room

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/merijnkruithof/botty/internal/event"
)

// botUserID is the user id the test identity resolver reports for every
// ticket.
const botUserID uint32 = 99

func newTestManager() *Manager {
	return NewManager(zap.NewNop(), func(string) (uint32, bool) {
		return botUserID, true
	})
}

func selfUser(roomUnitID, x, y uint32) event.RoomUser {
	return event.RoomUser{
		UserID:     botUserID,
		Username:   "bot",
		RoomUnitID: roomUnitID,
		X:          x,
		Y:          y,
		UserType:   1,
	}
}

func track(t *testing.T, m *Manager, ticket string, events ...event.ControllerEvent) {
	t.Helper()
	ch := make(chan event.ControllerEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)
	m.Track(ticket, ch)
}

func TestManager_RoomEntrySequence(t *testing.T) {
	m := newTestManager()

	track(t, m, "bot-1",
		event.RoomModel{Model: "model_a", RoomID: 42},
		event.RoomLoaded{RoomID: 42},
		event.RoomUsers{Users: []event.RoomUser{
			selfUser(102, 0, 0),
			{UserID: 10, Username: "alice", Figure: "fig", Sex: "F", RoomUnitID: 100, X: 3, Y: 4, UserType: 1},
			{UserID: 11, Username: "bob", Figure: "fig", Sex: "M", RoomUnitID: 101, X: 5, Y: 5, UserType: 1},
		}},
		event.RoomUserStatus{Units: []event.RoomUnit{
			{RoomUnitID: 100, X: 6, Y: 7, Actions: "mv 6,7"},
		}},
	)

	roomID, ok := m.BotRoom("bot-1")
	require.True(t, ok)
	assert.Equal(t, uint32(42), roomID)
	assert.ElementsMatch(t, []string{"bot-1"}, m.BotsInRoom(42))

	users := m.UsersInRoom(42)
	require.Len(t, users, 3)

	alice, ok := m.FindUser(42, "alice")
	require.True(t, ok)
	assert.Equal(t, uint32(6), alice.X)
	assert.Equal(t, uint32(7), alice.Y)
	assert.True(t, alice.IsWalking)

	bob, ok := m.FindUser(42, "bob")
	require.True(t, ok)
	assert.Equal(t, uint32(5), bob.X)
	assert.False(t, bob.IsWalking)
}

func TestManager_PresenceRequiresUserListConfirmation(t *testing.T) {
	m := newTestManager()

	// A confirmed room load alone records the current room but does not
	// confirm presence; the user list may never carry the bot at all.
	track(t, m, "bot-1", event.RoomLoaded{RoomID: 5})

	roomID, ok := m.BotRoom("bot-1")
	require.True(t, ok)
	assert.Equal(t, uint32(5), roomID)
	assert.Empty(t, m.BotsInRoom(5))

	// A user list without the bot's own id still does not confirm it.
	track(t, m, "bot-1",
		event.RoomUsers{Users: []event.RoomUser{
			{UserID: 10, Username: "alice", RoomUnitID: 100, UserType: 1},
		}},
	)
	assert.Empty(t, m.BotsInRoom(5))

	// Only the bot's own entry does.
	track(t, m, "bot-1",
		event.RoomUsers{Users: []event.RoomUser{selfUser(102, 1, 1)}},
	)
	assert.ElementsMatch(t, []string{"bot-1"}, m.BotsInRoom(5))
}

func TestManager_PresenceRequiresKnownIdentity(t *testing.T) {
	m := NewManager(zap.NewNop(), func(string) (uint32, bool) {
		return 0, false
	})

	track(t, m, "bot-1",
		event.RoomLoaded{RoomID: 5},
		event.RoomUsers{Users: []event.RoomUser{selfUser(102, 1, 1)}},
	)

	assert.Empty(t, m.BotsInRoom(5))
}

func TestManager_StatusAfterUserListYieldsFinalPosition(t *testing.T) {
	m := newTestManager()

	track(t, m, "bot-1",
		event.RoomLoaded{RoomID: 5},
		event.RoomUsers{Users: []event.RoomUser{
			{UserID: 1, Username: "u1", RoomUnitID: 10, X: 0, Y: 0, UserType: 1},
		}},
		event.RoomUserStatus{Units: []event.RoomUnit{
			{RoomUnitID: 10, X: 3, Y: 4, Actions: ""},
		}},
	)

	u, ok := m.FindUser(5, "u1")
	require.True(t, ok)
	assert.Equal(t, uint32(1), u.UserID)
	assert.Equal(t, uint32(3), u.X)
	assert.Equal(t, uint32(4), u.Y)
	assert.False(t, u.IsWalking)
}

func TestManager_UnknownUnitStatusIgnored(t *testing.T) {
	m := newTestManager()

	track(t, m, "bot-1",
		event.RoomLoaded{RoomID: 1},
		event.RoomUserStatus{Units: []event.RoomUnit{
			{RoomUnitID: 999, X: 1, Y: 1},
		}},
	)

	assert.Empty(t, m.UsersInRoom(1))
}

func TestManager_RejoinReplacesUnitIndex(t *testing.T) {
	m := newTestManager()

	track(t, m, "bot-1",
		event.RoomLoaded{RoomID: 1},
		event.RoomUsers{Users: []event.RoomUser{
			{UserID: 10, Username: "alice", RoomUnitID: 100, X: 1, Y: 1, UserType: 1},
		}},
		// Alice re-enters with a fresh unit id.
		event.RoomUsers{Users: []event.RoomUser{
			{UserID: 10, Username: "alice", RoomUnitID: 200, X: 2, Y: 2, UserType: 1},
		}},
		// The stale unit id must no longer resolve to her.
		event.RoomUserStatus{Units: []event.RoomUnit{
			{RoomUnitID: 100, X: 9, Y: 9},
		}},
	)

	alice, ok := m.FindUser(1, "alice")
	require.True(t, ok)
	assert.Equal(t, uint32(200), alice.RoomUnitID)
	assert.Equal(t, uint32(2), alice.X)

	users := m.UsersInRoom(1)
	assert.Len(t, users, 1)
}

func TestManager_RoomSwitchMovesBot(t *testing.T) {
	m := newTestManager()

	track(t, m, "bot-1",
		event.RoomLoaded{RoomID: 1},
		event.RoomUsers{Users: []event.RoomUser{selfUser(102, 1, 1)}},
		event.RoomLoaded{RoomID: 2},
	)

	roomID, ok := m.BotRoom("bot-1")
	require.True(t, ok)
	assert.Equal(t, uint32(2), roomID)
	assert.Empty(t, m.BotsInRoom(1))
	// The new room's presence is unconfirmed until its user list arrives.
	assert.Empty(t, m.BotsInRoom(2))

	track(t, m, "bot-1",
		event.RoomUsers{Users: []event.RoomUser{selfUser(103, 0, 0)}},
	)
	assert.ElementsMatch(t, []string{"bot-1"}, m.BotsInRoom(2))
}

func TestManager_ForgetRemovesBot(t *testing.T) {
	m := newTestManager()

	track(t, m, "bot-1",
		event.RoomLoaded{RoomID: 1},
		event.RoomUsers{Users: []event.RoomUser{selfUser(102, 1, 1)}},
	)
	require.ElementsMatch(t, []string{"bot-1"}, m.BotsInRoom(1))

	m.Forget("bot-1")

	_, ok := m.BotRoom("bot-1")
	assert.False(t, ok)
	assert.Empty(t, m.BotsInRoom(1))
	assert.Empty(t, m.UsersInRoom(1))
}

func TestManager_SubscribeUserMoves(t *testing.T) {
	m := newTestManager()

	track(t, m, "bot-1",
		event.RoomLoaded{RoomID: 1},
		event.RoomUsers{Users: []event.RoomUser{
			{UserID: 10, Username: "alice", RoomUnitID: 100, X: 1, Y: 1, UserType: 1},
		}},
	)

	moves, cancel, err := m.SubscribeUserMoves(1, 10)
	require.NoError(t, err)
	defer cancel()

	// Walking updates alone do not notify; arrival does.
	track(t, m, "bot-1",
		event.RoomUserStatus{Units: []event.RoomUnit{
			{RoomUnitID: 100, X: 2, Y: 2, Actions: "mv 2,2"},
		}},
		event.RoomUserStatus{Units: []event.RoomUnit{
			{RoomUnitID: 100, X: 3, Y: 3, Actions: ""},
		}},
	)

	select {
	case pos := <-moves:
		assert.Equal(t, Position{X: 3, Y: 3}, pos)
	case <-time.After(time.Second):
		t.Fatal("no movement notification")
	}

	select {
	case pos := <-moves:
		t.Fatalf("unexpected extra notification: %+v", pos)
	default:
	}
}

func TestManager_SubscribeUserMoves_UnknownUser(t *testing.T) {
	m := newTestManager()

	_, _, err := m.SubscribeUserMoves(1, 10)
	assert.ErrorIs(t, err, ErrUserNotInRoom)
}
