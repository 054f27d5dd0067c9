// Package hotel ties one hotel's connector, session registry, and state
// managers together and runs the per-bot client lifecycle.
package hotel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/merijnkruithof/botty/internal/connection"
	"github.com/merijnkruithof/botty/internal/event"
	"github.com/merijnkruithof/botty/internal/observability"
	"github.com/merijnkruithof/botty/internal/protocol"
	"github.com/merijnkruithof/botty/internal/room"
	"github.com/merijnkruithof/botty/internal/user"
)

// sendTimeout bounds frame deliveries made from event listeners so one
// stuck session cannot pin a listener goroutine forever.
const sendTimeout = 5 * time.Second

// eventBufferSize is the per-subscriber bus capacity.
const eventBufferSize = 128

// Handler runs all bot sessions of a single hotel.
type Handler struct {
	name      string
	connector *connection.Connector
	sessions  *connection.Service
	rooms     *room.Manager
	users     *user.Manager
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewHandler creates a Handler for one hotel.
func NewHandler(name string, connector *connection.Connector, metrics *observability.Metrics, logger *zap.Logger) *Handler {
	logger = logger.With(zap.String("hotel", name))
	users := user.NewManager()
	rooms := room.NewManager(logger, func(ticket string) (uint32, bool) {
		info, ok := users.Get(ticket)
		return info.UserID, ok
	})
	return &Handler{
		name:      name,
		connector: connector,
		sessions:  connection.NewService(logger),
		rooms:     rooms,
		users:     users,
		metrics:   metrics,
		logger:    logger,
	}
}

// Name returns the hotel's configured name.
func (h *Handler) Name() string { return h.name }

// Rooms exposes the hotel's room state.
func (h *Handler) Rooms() *room.Manager { return h.rooms }

// Users exposes the hotel's bot profiles.
func (h *Handler) Users() *user.Manager { return h.users }

// SessionCount returns the number of live sessions.
func (h *Handler) SessionCount() int { return h.sessions.Count() }

// HasSession reports whether a session runs under ticket.
func (h *Handler) HasSession(ticket string) bool { return h.sessions.Has(ticket) }

// Tickets returns the tickets of all live sessions.
func (h *Handler) Tickets() []string {
	sessions := h.sessions.All()
	tickets := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		tickets = append(tickets, sess.Ticket())
	}
	return tickets
}

// NewClient connects a bot with the given SSO ticket and runs its session
// until the peer disconnects or the session is killed. It blocks; run it in
// its own goroutine.
//
// Precondition: no session with the same ticket may be live.
// Postcondition: on return, the session and all bot state for the ticket
// have been removed.
func (h *Handler) NewClient(ctx context.Context, ticket string) error {
	// Register before dialing: the ticket is reserved atomically, so a
	// concurrent duplicate fails here and never reaches the upstream server.
	sess := connection.NewSession(ticket)
	if err := h.sessions.Add(sess); err != nil {
		return err
	}

	conn, err := h.connector.Connect(ctx)
	if err != nil {
		h.sessions.Delete(ticket)
		h.metrics.ConnectFailures.WithLabelValues(h.name, connectFailureReason(err)).Inc()
		return fmt.Errorf("connecting client: %w", err)
	}

	// The hello and ticket frames open every session, in that order, before
	// any server traffic is processed.
	if err := h.handshake(conn, ticket); err != nil {
		h.sessions.Delete(ticket)
		conn.Close()
		return err
	}
	h.metrics.SessionsActive.WithLabelValues(h.name).Inc()

	bus := event.NewBus(eventBufferSize, h.logger)
	bus.OnDrop(func() { h.metrics.EventsDropped.WithLabelValues(h.name).Inc() })
	dispatcher := event.NewDispatcher(bus, h.logger)

	respondEvents, _ := bus.Subscribe()
	go h.respond(sess, respondEvents)

	userEvents, _ := bus.Subscribe()
	go h.users.Track(ticket, userEvents)

	roomEvents, _ := bus.Subscribe()
	go h.rooms.Track(ticket, roomEvents)

	h.logger.Info("bot session started", zap.String("ticket", ticket))

	duplex := connection.NewDuplex(conn, sess, dispatcher, h.logger, connection.DuplexHooks{
		OnFrame:     func() { h.metrics.FramesDecoded.WithLabelValues(h.name).Inc() },
		OnDecodeErr: func() { h.metrics.DecodeFailures.WithLabelValues(h.name).Inc() },
		OnSendErr:   func() { h.metrics.SendFailures.WithLabelValues(h.name).Inc() },
	})
	duplex.Run()

	// Closing the bus ends the tracker goroutines.
	bus.Close()
	h.sessions.Delete(ticket)
	h.rooms.Forget(ticket)
	h.users.Forget(ticket)
	h.metrics.SessionsActive.WithLabelValues(h.name).Dec()

	h.logger.Info("bot session ended", zap.String("ticket", ticket))
	return nil
}

func (h *Handler) handshake(conn *websocket.Conn, ticket string) error {
	frames := [][]byte{
		protocol.ClientHello{}.Compose(),
		protocol.AuthTicket{SSOTicket: ticket}.Compose(),
	}
	for _, frame := range frames {
		if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			return fmt.Errorf("writing handshake frame: %w", err)
		}
	}
	return nil
}

// respond answers protocol obligations: pings, the post-auth profile
// request, and the room negotiation sequence after a room model arrives.
func (h *Handler) respond(sess *connection.Session, events <-chan event.ControllerEvent) {
	for ev := range events {
		switch ev := ev.(type) {
		case event.Ping:
			h.reply(sess, protocol.Pong{})
		case event.AuthenticationOk:
			h.reply(sess, protocol.RequestUserData{})
		case event.RoomModel:
			h.reply(sess, protocol.RequestRoomHeightmap{})
			h.reply(sess, protocol.FloorPlanEditorRequestDoorSettings{})
			h.reply(sess, protocol.FloorPlanEditorRequestBlockedTiles{})
			h.reply(sess, protocol.RequestRoomData{RoomID: ev.RoomID})
		}
	}
}

func (h *Handler) reply(sess *connection.Session, c protocol.Composable) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := sess.Send(ctx, c.Compose()); err != nil {
		h.logger.Warn("protocol reply not delivered",
			zap.String("ticket", sess.Ticket()),
			zap.Error(err),
		)
	}
}

// BotsInRoom returns the tickets of the hotel's bots inside roomID.
func (h *Handler) BotsInRoom(roomID uint32) []string {
	return h.rooms.BotsInRoom(roomID)
}

// Kill terminates the session registered under ticket.
func (h *Handler) Kill(ticket string) error {
	sess, err := h.sessions.Get(ticket)
	if err != nil {
		return err
	}
	sess.Kill()
	return nil
}

// KillAll terminates every live session of the hotel.
func (h *Handler) KillAll() {
	for _, sess := range h.sessions.All() {
		sess.Kill()
	}
}

// Send delivers a composed message to one bot.
func (h *Handler) Send(ctx context.Context, ticket string, c protocol.Composable) error {
	return h.sessions.Send(ctx, ticket, c.Compose())
}

// Broadcast delivers a composed message to every bot of the hotel. Each
// delivery runs independently with its own deadline.
func (h *Handler) Broadcast(c protocol.Composable) {
	h.sessions.Broadcast(c.Compose())
}

// SendToRoom delivers a composed message to every bot inside roomID.
func (h *Handler) SendToRoom(ctx context.Context, roomID uint32, c protocol.Composable) {
	frame := c.Compose()
	for _, ticket := range h.rooms.BotsInRoom(roomID) {
		if err := h.sessions.Send(ctx, ticket, frame); err != nil {
			h.logger.Warn("room delivery failed",
				zap.String("ticket", ticket),
				zap.Uint32("roomId", roomID),
				zap.Error(err),
			)
		}
	}
}

func connectFailureReason(err error) string {
	switch {
	case errors.Is(err, connection.ErrConnectTimeout):
		return "timeout"
	case errors.Is(err, connection.ErrHandshakeFailed):
		return "handshake"
	default:
		return "other"
	}
}
