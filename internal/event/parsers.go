package event

import (
	"errors"
	"fmt"
	"strings"

	"github.com/merijnkruithof/botty/internal/packet"
)

// ErrShortFrame reports that a frame ended before a requested field. It is
// local to the one frame and never fatal to the connection.
var ErrShortFrame = errors.New("frame too short")

func parseUserInfo(r *packet.Reader) (UserInfo, error) {
	var ev UserInfo
	var ok bool

	if ev.UserID, ok = r.ReadUint32(); !ok {
		return ev, fmt.Errorf("user info user id: %w", ErrShortFrame)
	}
	if ev.Username, ok = r.ReadString(); !ok {
		return ev, fmt.Errorf("user info username: %w", ErrShortFrame)
	}
	if ev.Figure, ok = r.ReadString(); !ok {
		return ev, fmt.Errorf("user info figure: %w", ErrShortFrame)
	}
	if ev.Gender, ok = r.ReadString(); !ok {
		return ev, fmt.Errorf("user info gender: %w", ErrShortFrame)
	}
	if ev.Motto, ok = r.ReadString(); !ok {
		return ev, fmt.Errorf("user info motto: %w", ErrShortFrame)
	}
	if ev.RealName, ok = r.ReadString(); !ok {
		return ev, fmt.Errorf("user info real name: %w", ErrShortFrame)
	}
	if ev.DirectMail, ok = r.ReadBool(); !ok {
		return ev, fmt.Errorf("user info direct mail: %w", ErrShortFrame)
	}
	if ev.RespectsReceived, ok = r.ReadUint32(); !ok {
		return ev, fmt.Errorf("user info respects received: %w", ErrShortFrame)
	}
	if ev.RespectsRemaining, ok = r.ReadUint32(); !ok {
		return ev, fmt.Errorf("user info respects remaining: %w", ErrShortFrame)
	}
	if ev.RespectsPetRemaining, ok = r.ReadUint32(); !ok {
		return ev, fmt.Errorf("user info pet respects remaining: %w", ErrShortFrame)
	}
	if ev.StreamPublishingAllowed, ok = r.ReadBool(); !ok {
		return ev, fmt.Errorf("user info stream publishing: %w", ErrShortFrame)
	}
	if ev.LastAccessDate, ok = r.ReadString(); !ok {
		return ev, fmt.Errorf("user info last access date: %w", ErrShortFrame)
	}
	if ev.CanChangeName, ok = r.ReadBool(); !ok {
		return ev, fmt.Errorf("user info can change name: %w", ErrShortFrame)
	}
	if ev.SafetyLocked, ok = r.ReadBool(); !ok {
		return ev, fmt.Errorf("user info safety locked: %w", ErrShortFrame)
	}
	return ev, nil
}

func parseRoomLoaded(r *packet.Reader) (RoomLoaded, error) {
	if _, ok := r.ReadBool(); !ok {
		return RoomLoaded{}, fmt.Errorf("room loaded flag: %w", ErrShortFrame)
	}
	roomID, ok := r.ReadUint32()
	if !ok {
		return RoomLoaded{}, fmt.Errorf("room loaded room id: %w", ErrShortFrame)
	}
	return RoomLoaded{RoomID: roomID}, nil
}

func parseRoomModel(r *packet.Reader) (RoomModel, error) {
	model, ok := r.ReadString()
	if !ok {
		return RoomModel{}, fmt.Errorf("room model name: %w", ErrShortFrame)
	}
	roomID, ok := r.ReadUint32()
	if !ok {
		return RoomModel{}, fmt.Errorf("room model room id: %w", ErrShortFrame)
	}
	return RoomModel{Model: model, RoomID: roomID}, nil
}

func parseRoomUserStatus(r *packet.Reader) (RoomUserStatus, error) {
	count, ok := r.ReadUint32()
	if !ok {
		return RoomUserStatus{}, fmt.Errorf("room user status count: %w", ErrShortFrame)
	}

	units := make([]RoomUnit, 0, count)
	for i := uint32(0); i < count; i++ {
		var u RoomUnit
		if u.RoomUnitID, ok = r.ReadUint32(); !ok {
			return RoomUserStatus{}, fmt.Errorf("room unit id: %w", ErrShortFrame)
		}
		if u.X, ok = r.ReadUint32(); !ok {
			return RoomUserStatus{}, fmt.Errorf("room unit x: %w", ErrShortFrame)
		}
		if u.Y, ok = r.ReadUint32(); !ok {
			return RoomUserStatus{}, fmt.Errorf("room unit y: %w", ErrShortFrame)
		}
		if u.Z, ok = r.ReadString(); !ok {
			return RoomUserStatus{}, fmt.Errorf("room unit z: %w", ErrShortFrame)
		}
		if u.HeadDirection, ok = r.ReadUint32(); !ok {
			return RoomUserStatus{}, fmt.Errorf("room unit head direction: %w", ErrShortFrame)
		}
		if u.Direction, ok = r.ReadUint32(); !ok {
			return RoomUserStatus{}, fmt.Errorf("room unit direction: %w", ErrShortFrame)
		}
		if u.Actions, ok = r.ReadString(); !ok {
			return RoomUserStatus{}, fmt.Errorf("room unit actions: %w", ErrShortFrame)
		}
		units = append(units, u)
	}
	return RoomUserStatus{Units: units}, nil
}

// User types inside a RoomUsers frame.
const (
	userTypeUser        = 1
	userTypePet         = 2
	userTypeRentableBot = 4
)

func parseRoomUsers(r *packet.Reader) (RoomUsers, error) {
	count, ok := r.ReadUint32()
	if !ok {
		return RoomUsers{}, fmt.Errorf("room users count: %w", ErrShortFrame)
	}

	users := make([]RoomUser, 0, count)
	for i := uint32(0); i < count; i++ {
		var u RoomUser
		if u.UserID, ok = r.ReadUint32(); !ok {
			return RoomUsers{}, fmt.Errorf("room user id: %w", ErrShortFrame)
		}
		if u.Username, ok = r.ReadString(); !ok {
			return RoomUsers{}, fmt.Errorf("room user username: %w", ErrShortFrame)
		}
		if u.Custom, ok = r.ReadString(); !ok {
			return RoomUsers{}, fmt.Errorf("room user custom: %w", ErrShortFrame)
		}
		if u.Figure, ok = r.ReadString(); !ok {
			return RoomUsers{}, fmt.Errorf("room user figure: %w", ErrShortFrame)
		}
		if u.RoomUnitID, ok = r.ReadUint32(); !ok {
			return RoomUsers{}, fmt.Errorf("room user unit id: %w", ErrShortFrame)
		}
		if u.X, ok = r.ReadUint32(); !ok {
			return RoomUsers{}, fmt.Errorf("room user x: %w", ErrShortFrame)
		}
		if u.Y, ok = r.ReadUint32(); !ok {
			return RoomUsers{}, fmt.Errorf("room user y: %w", ErrShortFrame)
		}
		if u.Z, ok = r.ReadString(); !ok {
			return RoomUsers{}, fmt.Errorf("room user z: %w", ErrShortFrame)
		}
		if u.Direction, ok = r.ReadUint32(); !ok {
			return RoomUsers{}, fmt.Errorf("room user direction: %w", ErrShortFrame)
		}
		if u.UserType, ok = r.ReadUint32(); !ok {
			return RoomUsers{}, fmt.Errorf("room user type: %w", ErrShortFrame)
		}

		// Only real users are tracked; pets and rentable bots are parsed
		// to keep the cursor aligned but not emitted.
		switch u.UserType {
		case userTypeUser:
			if u.Sex, ok = r.ReadString(); !ok {
				return RoomUsers{}, fmt.Errorf("room user sex: %w", ErrShortFrame)
			}
			if err := skip(r, "uint32", "uint32", "string", "string", "uint32", "bool"); err != nil {
				return RoomUsers{}, err
			}
			users = append(users, u)

		case userTypePet:
			if err := skip(r, "uint32", "uint32", "string", "uint32",
				"bool", "bool", "bool", "bool", "bool", "bool",
				"uint32", "string"); err != nil {
				return RoomUsers{}, err
			}

		case userTypeRentableBot:
			if err := skip(r, "string", "uint32", "string"); err != nil {
				return RoomUsers{}, err
			}
			skills, ok := r.ReadUint32()
			if !ok {
				return RoomUsers{}, fmt.Errorf("rentable bot skills: %w", ErrShortFrame)
			}
			for j := uint32(0); j < skills; j++ {
				if _, ok := r.ReadUint16(); !ok {
					return RoomUsers{}, fmt.Errorf("rentable bot skill: %w", ErrShortFrame)
				}
			}
		}
	}
	return RoomUsers{Users: users}, nil
}

func skip(r *packet.Reader, kinds ...string) error {
	for _, kind := range kinds {
		var ok bool
		switch kind {
		case "uint32":
			_, ok = r.ReadUint32()
		case "string":
			_, ok = r.ReadString()
		case "bool":
			_, ok = r.ReadBool()
		}
		if !ok {
			return fmt.Errorf("skipping %s field: %w", kind, ErrShortFrame)
		}
	}
	return nil
}

// IsWalking reports whether a room unit's action string marks it as moving.
func (u RoomUnit) IsWalking() bool {
	return strings.Contains(u.Actions, "mv")
}
