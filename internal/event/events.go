// Package event turns decoded frames into typed controller events and fans
// them out to per-session listeners over a broadcast bus.
package event

// ControllerEvent is a domain event produced by the dispatcher. The set of
// implementations is closed; listeners type-switch over it.
type ControllerEvent interface {
	controllerEvent()
}

// Ping is sent periodically by the server and must be answered with a Pong.
type Ping struct{}

// AuthenticationOk confirms the auth ticket was accepted.
type AuthenticationOk struct{}

// UserInfo carries the authenticated user's profile.
type UserInfo struct {
	UserID                  uint32
	Username                string
	Figure                  string
	Gender                  string
	Motto                   string
	RealName                string
	DirectMail              bool
	RespectsReceived        uint32
	RespectsRemaining       uint32
	RespectsPetRemaining    uint32
	StreamPublishingAllowed bool
	LastAccessDate          string
	CanChangeName           bool
	SafetyLocked            bool
}

// RoomLoaded signals the bot entered a room.
type RoomLoaded struct {
	RoomID uint32
}

// RoomModel carries the room's floor model name.
type RoomModel struct {
	Model  string
	RoomID uint32
}

// RoomOpen signals the room is ready to walk in.
type RoomOpen struct{}

// RoomUnit is one entity's position update within a room.
type RoomUnit struct {
	RoomUnitID    uint32
	X             uint32
	Y             uint32
	Z             string
	HeadDirection uint32
	Direction     uint32
	Actions       string
}

// RoomUserStatus carries a batch of position updates.
type RoomUserStatus struct {
	Units []RoomUnit
}

// RoomUser is one user's full presence record in a room.
type RoomUser struct {
	UserID     uint32
	Username   string
	Custom     string
	Figure     string
	Sex        string
	RoomUnitID uint32
	X          uint32
	Y          uint32
	Z          string
	Direction  uint32
	UserType   uint32
}

// RoomUsers carries the users present in the room the bot entered.
type RoomUsers struct {
	Users []RoomUser
}

func (Ping) controllerEvent()             {}
func (AuthenticationOk) controllerEvent() {}
func (UserInfo) controllerEvent()         {}
func (RoomLoaded) controllerEvent()       {}
func (RoomModel) controllerEvent()        {}
func (RoomOpen) controllerEvent()         {}
func (RoomUserStatus) controllerEvent()   {}
func (RoomUsers) controllerEvent()        {}
