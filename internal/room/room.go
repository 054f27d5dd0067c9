package room

import "github.com/merijnkruithof/botty/internal/event"

// Room is the tracked state of one room. Users are indexed both by user id
// and by room unit id; status updates only carry unit ids, so both indexes
// must stay in lockstep. Not safe for concurrent use; the Manager holds the
// lock.
type Room struct {
	ID    uint32
	Model string

	byUserID map[uint32]*User
	byUnitID map[uint32]*User

	moveSubs map[uint32]map[int]chan Position
	nextSub  int
}

func newRoom(id uint32) *Room {
	return &Room{
		ID:       id,
		byUserID: make(map[uint32]*User),
		byUnitID: make(map[uint32]*User),
		moveSubs: make(map[uint32]map[int]chan Position),
	}
}

// upsert inserts or refreshes a user. A rejoin can hand the same user a new
// room unit id, so the stale unit index entry has to go first.
func (r *Room) upsert(ev event.RoomUser) {
	if existing, ok := r.byUserID[ev.UserID]; ok {
		delete(r.byUnitID, existing.RoomUnitID)
	}

	u := &User{
		UserID:     ev.UserID,
		RoomUnitID: ev.RoomUnitID,
		Username:   ev.Username,
		Figure:     ev.Figure,
		Sex:        ev.Sex,
		X:          ev.X,
		Y:          ev.Y,
	}
	r.byUserID[u.UserID] = u
	r.byUnitID[u.RoomUnitID] = u
}

// applyStatus updates positions from one status burst. Unknown unit ids are
// ignored; status frames race against the user list on room entry. It
// notifies movement subscribers for every user that just finished walking.
func (r *Room) applyStatus(units []event.RoomUnit) {
	for _, unit := range units {
		u, ok := r.byUnitID[unit.RoomUnitID]
		if !ok {
			continue
		}

		wasWalking := u.IsWalking
		u.X = unit.X
		u.Y = unit.Y
		u.IsWalking = unit.IsWalking()

		if wasWalking && !u.IsWalking {
			r.notifyMove(u.UserID, Position{X: u.X, Y: u.Y})
		}
	}
}

func (r *Room) notifyMove(userID uint32, pos Position) {
	for _, ch := range r.moveSubs[userID] {
		select {
		case ch <- pos:
		default:
		}
	}
}

func (r *Room) userByName(username string) (User, bool) {
	for _, u := range r.byUserID {
		if u.Username == username {
			return *u, true
		}
	}
	return User{}, false
}

func (r *Room) users() []User {
	all := make([]User, 0, len(r.byUserID))
	for _, u := range r.byUserID {
		all = append(all, *u)
	}
	return all
}
