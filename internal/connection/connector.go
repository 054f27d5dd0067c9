package connection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// connectTimeout bounds the websocket dial and handshake.
const connectTimeout = 2 * time.Second

// Connector dials the upstream hotel websocket endpoint with the
// configured Origin header.
type Connector struct {
	wsLink string
	origin string
	logger *zap.Logger
}

// NewConnector creates a Connector for one hotel endpoint.
func NewConnector(wsLink, origin string, logger *zap.Logger) *Connector {
	return &Connector{wsLink: wsLink, origin: origin, logger: logger}
}

// Endpoint returns the websocket URL this connector dials.
func (c *Connector) Endpoint() string {
	return c.wsLink
}

// Connect dials the endpoint. A timeout yields ErrConnectTimeout, any other
// handshake failure yields ErrHandshakeFailed; callers use the distinction
// to decide whether to retry.
func (c *Connector) Connect(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	header := http.Header{"Origin": []string{c.origin}}

	start := time.Now()
	conn, resp, err := websocket.DefaultDialer.DialContext(dialCtx, c.wsLink, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("connecting to %s: %w", c.wsLink, ErrConnectTimeout)
		}
		return nil, fmt.Errorf("connecting to %s: %v: %w", c.wsLink, err, ErrHandshakeFailed)
	}

	c.logger.Debug("websocket connected",
		zap.String("endpoint", c.wsLink),
		zap.Duration("elapsed", time.Since(start)),
	)
	return conn, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
