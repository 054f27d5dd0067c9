// Package protocol defines the hotel wire protocol: the header codes the
// dispatcher consumes, and composers that serialize typed outgoing messages
// into frames. Header values are fixed by the server and must be preserved
// bit-for-bit.
package protocol

// Incoming header codes.
const (
	IncomingPing             uint16 = 3928
	IncomingAuthenticationOk uint16 = 2491
	IncomingUserData         uint16 = 2725
	IncomingRoomModel        uint16 = 2031
	IncomingRoomLoad         uint16 = 687
	IncomingRoomOpen         uint16 = 758
	IncomingRoomUserStatus   uint16 = 1640
	IncomingRoomUsers        uint16 = 374
)

// Outgoing header codes.
const (
	OutgoingClientHello                        uint16 = 4000
	OutgoingAuthTicket                         uint16 = 2419
	OutgoingRequestUserData                    uint16 = 357
	OutgoingPong                               uint16 = 2596
	OutgoingRoomUserTalk                       uint16 = 1314
	OutgoingRequestRoomLoad                    uint16 = 2312
	OutgoingRequestRoomHeightmap               uint16 = 2300
	OutgoingFloorPlanEditorRequestDoorSettings uint16 = 3559
	OutgoingFloorPlanEditorRequestBlockedTiles uint16 = 1687
	OutgoingRequestRoomData                    uint16 = 2230
	OutgoingWalkInRoom                         uint16 = 3320
	OutgoingReport                             uint16 = 1691
	OutgoingUpdateMotto                        uint16 = 2228
	OutgoingUpdateLook                         uint16 = 2730
	OutgoingDance                              uint16 = 2080
	OutgoingFriendRequest                      uint16 = 3157
)

// clientVersion is the fixed version string sent in the ClientHello frame.
const clientVersion = "NITRO-1-6-6-HTML5"
