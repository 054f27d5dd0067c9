package event

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/merijnkruithof/botty/internal/packet"
	"github.com/merijnkruithof/botty/internal/protocol"
)

// Dispatcher maps incoming frame headers to parsers and publishes the
// resulting events on the bus. The mapping is closed: headers outside it are
// swallowed, since the wire protocol defines far more message types than the
// bots consume.
type Dispatcher struct {
	bus    *Bus
	logger *zap.Logger
}

// NewDispatcher creates a Dispatcher publishing to bus.
func NewDispatcher(bus *Bus, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{bus: bus, logger: logger}
}

// Bus returns the bus this dispatcher publishes to.
func (d *Dispatcher) Bus() *Bus {
	return d.bus
}

// Dispatch decodes one received frame and publishes its event. A short or
// malformed frame yields an error that is local to that frame; the caller
// logs it and keeps the connection alive.
func (d *Dispatcher) Dispatch(frame []byte) error {
	r := packet.NewReader(frame)

	header, ok := r.ReadUint16()
	if !ok {
		return fmt.Errorf("frame header: %w", ErrShortFrame)
	}

	var (
		ev  ControllerEvent
		err error
	)
	switch header {
	case protocol.IncomingPing:
		ev = Ping{}
	case protocol.IncomingAuthenticationOk:
		ev = AuthenticationOk{}
	case protocol.IncomingUserData:
		ev, err = parseUserInfo(r)
	case protocol.IncomingRoomLoad:
		ev, err = parseRoomLoaded(r)
	case protocol.IncomingRoomModel:
		ev, err = parseRoomModel(r)
	case protocol.IncomingRoomOpen:
		ev = RoomOpen{}
	case protocol.IncomingRoomUserStatus:
		ev, err = parseRoomUserStatus(r)
	case protocol.IncomingRoomUsers:
		ev, err = parseRoomUsers(r)
	default:
		d.logger.Debug("ignoring frame with unhandled header", zap.Uint16("header", header))
		return nil
	}
	if err != nil {
		return fmt.Errorf("parsing frame %d: %w", header, err)
	}

	d.bus.Publish(ev)
	return nil
}
