package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/merijnkruithof/botty/internal/event"
)

func TestManager_TrackRecordsProfile(t *testing.T) {
	m := NewManager()

	ch := make(chan event.ControllerEvent, 3)
	ch <- event.Ping{}
	ch <- event.UserInfo{UserID: 7, Username: "bot7", Motto: "hi"}
	ch <- event.UserInfo{UserID: 7, Username: "bot7", Motto: "updated"}
	close(ch)
	m.Track("t-1", ch)

	info, ok := m.Get("t-1")
	require.True(t, ok)
	assert.Equal(t, uint32(7), info.UserID)
	assert.Equal(t, "updated", info.Motto)
}

func TestManager_GetUnknown(t *testing.T) {
	m := NewManager()
	_, ok := m.Get("missing")
	assert.False(t, ok)
}

func TestManager_AllAndForget(t *testing.T) {
	m := NewManager()

	ch := make(chan event.ControllerEvent, 1)
	ch <- event.UserInfo{UserID: 1, Username: "a"}
	close(ch)
	m.Track("t-1", ch)

	all := m.All()
	require.Len(t, all, 1)
	assert.Equal(t, "a", all["t-1"].Username)

	m.Forget("t-1")
	assert.Empty(t, m.All())
}
