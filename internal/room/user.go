// Package room tracks room state observed by connected bots: which room
// each bot stands in, who else is there, and where they move.
package room

// User is a habbo standing in a tracked room. Bots, pets, and rentable
// bots are filtered out before they get here.
type User struct {
	UserID     uint32
	RoomUnitID uint32
	Username   string
	Figure     string
	Sex        string
	X          uint32
	Y          uint32
	IsWalking  bool
}

// Position is a tile a user has arrived on.
type Position struct {
	X uint32
	Y uint32
}
