// Package connection maintains the websocket link to a hotel: dialing,
// per-session duplex I/O, and the registry of live sessions.
package connection

import "errors"

var (
	// ErrConnectTimeout reports that the websocket handshake did not
	// complete within the connect deadline. Callers may retry.
	ErrConnectTimeout = errors.New("websocket connection timeout")

	// ErrHandshakeFailed reports that the server rejected the websocket
	// handshake. Retrying without a config change is pointless.
	ErrHandshakeFailed = errors.New("websocket handshake failed")

	// ErrDuplicateSession reports that a session with the same ticket is
	// already registered.
	ErrDuplicateSession = errors.New("session already exists")

	// ErrSessionNotFound reports that no session is registered under the
	// given ticket.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionKilled reports a send attempted on a killed session.
	ErrSessionKilled = errors.New("session killed")
)
