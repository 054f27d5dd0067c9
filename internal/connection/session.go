package connection

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// broadcastTimeout bounds each broadcast delivery independently of whatever
// triggered the broadcast; a request handler returning must not abort sends
// still waiting on backpressure.
const broadcastTimeout = 10 * time.Second

// Session is one live bot connection identified by its SSO ticket.
// Frames flow through a single-slot outgoing channel so producers feel
// backpressure from a slow socket instead of growing an unbounded queue.
type Session struct {
	ticket   string
	outgoing chan []byte

	done     chan struct{}
	killOnce sync.Once
}

// NewSession creates a Session for the given ticket.
func NewSession(ticket string) *Session {
	return &Session{
		ticket:   ticket,
		outgoing: make(chan []byte, 1),
		done:     make(chan struct{}),
	}
}

// Ticket returns the SSO ticket identifying this session.
func (s *Session) Ticket() string {
	return s.ticket
}

// Send queues a frame for transmission. It blocks until the writer drains
// the channel, the session is killed, or ctx expires.
func (s *Session) Send(ctx context.Context, frame []byte) error {
	select {
	case <-s.done:
		return ErrSessionKilled
	default:
	}

	select {
	case s.outgoing <- frame:
		return nil
	case <-s.done:
		return ErrSessionKilled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Outgoing exposes the queued frames to the writer loop.
func (s *Session) Outgoing() <-chan []byte {
	return s.outgoing
}

// Kill cancels the session. Safe to call more than once; every goroutine
// selecting on Done observes the close.
func (s *Session) Kill() {
	s.killOnce.Do(func() {
		close(s.done)
	})
}

// Done is closed once the session has been killed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Killed reports whether Kill has been called.
func (s *Session) Killed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Service is the registry of live sessions for one hotel.
type Service struct {
	logger *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates an empty session registry.
func NewService(logger *zap.Logger) *Service {
	return &Service{
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Add registers sess under its ticket.
//
// Precondition: no session with the same ticket may be registered.
// Postcondition: the session is retrievable via Get until deleted.
func (s *Service) Add(sess *Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sess.Ticket()]; ok {
		return ErrDuplicateSession
	}
	s.sessions[sess.Ticket()] = sess
	return nil
}

// Has reports whether a session is registered under ticket.
func (s *Service) Has(ticket string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sessions[ticket]
	return ok
}

// Get returns the session registered under ticket.
func (s *Service) Get(ticket string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[ticket]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes the session registered under ticket, if any.
func (s *Service) Delete(ticket string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, ticket)
}

// Count returns the number of registered sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.sessions)
}

// All returns a snapshot of the registered sessions.
func (s *Service) All() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		all = append(all, sess)
	}
	return all
}

// Broadcast queues frame on every registered session. Deliveries happen
// concurrently and failures are logged, never propagated; one dead session
// must not block the rest. Each delivery gets its own deadline so a briefly
// full outgoing queue suspends the send instead of losing the frame.
func (s *Service) Broadcast(frame []byte) {
	for _, sess := range s.All() {
		go func(sess *Session) {
			ctx, cancel := context.WithTimeout(context.Background(), broadcastTimeout)
			defer cancel()
			if err := sess.Send(ctx, frame); err != nil {
				s.logger.Warn("broadcast delivery failed",
					zap.String("ticket", sess.Ticket()),
					zap.Error(err),
				)
			}
		}(sess)
	}
}

// Send queues frame on the session registered under ticket.
func (s *Service) Send(ctx context.Context, ticket string, frame []byte) error {
	sess, err := s.Get(ticket)
	if err != nil {
		return err
	}
	return sess.Send(ctx, frame)
}
