package protocol

import "github.com/merijnkruithof/botty/internal/packet"

// Composable serializes a typed outgoing message into a wire-ready frame.
type Composable interface {
	Compose() []byte
}

// ClientHello is the first frame of the connection handshake.
type ClientHello struct{}

func (ClientHello) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingClientHello)
	w.WriteString(clientVersion)
	return w.Bytes()
}

// AuthTicket authenticates the session with its SSO ticket.
type AuthTicket struct {
	SSOTicket string
}

func (c AuthTicket) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingAuthTicket)
	w.WriteString(c.SSOTicket)
	w.WriteUint32(0) // last ticker time
	return w.Bytes()
}

// RequestUserData asks the server for the authenticated user's profile.
type RequestUserData struct{}

func (RequestUserData) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingRequestUserData)
	return w.Bytes()
}

// Pong answers a server ping.
type Pong struct{}

func (Pong) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingPong)
	return w.Bytes()
}

// RoomUserTalk makes the bot say a chat message in its current room.
type RoomUserTalk struct {
	Message string
}

func (c RoomUserTalk) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingRoomUserTalk)
	w.WriteString(c.Message)
	return w.Bytes()
}

// RequestRoomLoad asks the server to move the bot into a room.
type RequestRoomLoad struct {
	RoomID uint32
}

func (c RequestRoomLoad) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingRequestRoomLoad)
	w.WriteUint32(c.RoomID)
	w.WriteString("") // room password
	return w.Bytes()
}

// RequestRoomHeightmap requests the floor heightmap of the current room.
type RequestRoomHeightmap struct{}

func (RequestRoomHeightmap) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingRequestRoomHeightmap)
	return w.Bytes()
}

// FloorPlanEditorRequestDoorSettings requests the room entry tile.
type FloorPlanEditorRequestDoorSettings struct{}

func (FloorPlanEditorRequestDoorSettings) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingFloorPlanEditorRequestDoorSettings)
	return w.Bytes()
}

// FloorPlanEditorRequestBlockedTiles requests the occupied tiles of the room.
type FloorPlanEditorRequestBlockedTiles struct{}

func (FloorPlanEditorRequestBlockedTiles) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingFloorPlanEditorRequestBlockedTiles)
	return w.Bytes()
}

// RequestRoomData requests room metadata by id.
type RequestRoomData struct {
	RoomID uint32
}

func (c RequestRoomData) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingRequestRoomData)
	w.WriteUint32(c.RoomID)
	w.WriteUint32(0)
	return w.Bytes()
}

// WalkInRoom makes the bot walk to a tile in its current room.
type WalkInRoom struct {
	X uint32
	Y uint32
}

func (c WalkInRoom) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingWalkInRoom)
	w.WriteUint32(c.X)
	w.WriteUint32(c.Y)
	return w.Bytes()
}

// Report files a call-for-help report against a room or user.
type Report struct {
	Message string
	Topic   uint32
	UserID  int32
	RoomID  uint32
}

func (c Report) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingReport)
	w.WriteString(c.Message)
	w.WriteUint32(c.Topic)
	w.WriteInt32(c.UserID)
	w.WriteUint32(c.RoomID)
	w.WriteUint32(0) // message count
	return w.Bytes()
}

// UpdateMotto changes the bot's motto.
type UpdateMotto struct {
	Motto string
}

func (c UpdateMotto) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingUpdateMotto)
	w.WriteString(c.Motto)
	return w.Bytes()
}

// UpdateLook changes the bot's figure and gender.
type UpdateLook struct {
	Figure string
	Gender string
}

func (c UpdateLook) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingUpdateLook)
	w.WriteString(c.Gender)
	w.WriteString(c.Figure)
	return w.Bytes()
}

// Dance starts or stops a dance. Dance id 0 stops dancing.
type Dance struct {
	DanceID uint32
}

func (c Dance) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingDance)
	w.WriteUint32(c.DanceID)
	return w.Bytes()
}

// FriendRequest sends a friend request to a user by name.
type FriendRequest struct {
	Username string
}

func (c FriendRequest) Compose() []byte {
	w := packet.NewWriter()
	w.WriteUint16(OutgoingFriendRequest)
	w.WriteString(c.Username)
	return w.Bytes()
}
