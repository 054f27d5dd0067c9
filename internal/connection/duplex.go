package connection

import (
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// FrameHandler consumes one inbound binary frame.
type FrameHandler interface {
	Dispatch(frame []byte) error
}

// DuplexHooks are optional observation callbacks; nil members are skipped.
type DuplexHooks struct {
	OnFrame     func()
	OnDecodeErr func()
	OnSendErr   func()
}

// Duplex pumps frames between a websocket connection and a session: one
// goroutine reads inbound frames into the handler, one writes the session's
// outgoing frames to the socket. Run returns when the session is killed or
// the peer closes the connection.
type Duplex struct {
	conn    *websocket.Conn
	sess    *Session
	handler FrameHandler
	logger  *zap.Logger
	hooks   DuplexHooks
}

// NewDuplex wires a connection, a session, and a frame handler together.
func NewDuplex(conn *websocket.Conn, sess *Session, handler FrameHandler, logger *zap.Logger, hooks DuplexHooks) *Duplex {
	return &Duplex{
		conn:    conn,
		sess:    sess,
		handler: handler,
		logger:  logger,
		hooks:   hooks,
	}
}

// Run drives both pump loops until either side stops, then kills the session
// and closes the connection so the other loop unwinds too.
func (d *Duplex) Run() {
	readerClosed := make(chan struct{})

	// The blocking ReadMessage only returns once the connection closes, so
	// a kill must close the socket out from under it.
	go func() {
		<-d.sess.Done()
		d.conn.Close()
	}()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		d.writeLoop(readerClosed)
	}()

	d.readLoop(readerClosed)

	d.sess.Kill()
	<-writerDone
	d.conn.Close()
}

func (d *Duplex) readLoop(readerClosed chan struct{}) {
	defer close(readerClosed)

	for {
		msgType, frame, err := d.conn.ReadMessage()
		if err != nil {
			if !d.sess.Killed() {
				d.logger.Info("connection closed by peer",
					zap.String("ticket", d.sess.Ticket()),
					zap.Error(err),
				)
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}

		if err := d.handler.Dispatch(frame); err != nil {
			if d.hooks.OnDecodeErr != nil {
				d.hooks.OnDecodeErr()
			}
			d.logger.Warn("dropping undecodable frame",
				zap.String("ticket", d.sess.Ticket()),
				zap.Int("size", len(frame)),
				zap.Error(err),
			)
			continue
		}
		if d.hooks.OnFrame != nil {
			d.hooks.OnFrame()
		}
	}
}

func (d *Duplex) writeLoop(readerClosed <-chan struct{}) {
	for {
		select {
		case frame := <-d.sess.Outgoing():
			if err := d.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				if d.hooks.OnSendErr != nil {
					d.hooks.OnSendErr()
				}
				d.logger.Warn("frame write failed",
					zap.String("ticket", d.sess.Ticket()),
					zap.Error(err),
				)
			}
		case <-d.sess.Done():
			return
		case <-readerClosed:
			return
		}
	}
}
