package connection

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnector_SendsOriginHeader(t *testing.T) {
	gotOrigin := make(chan string, 1)

	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOrigin <- r.Header.Get("Origin")
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		conn.Close()
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	connector := NewConnector(url, "https://origin.example", zap.NewNop())
	assert.Equal(t, url, connector.Endpoint())

	conn, err := connector.Connect(context.Background())
	require.NoError(t, err)
	conn.Close()

	assert.Equal(t, "https://origin.example", <-gotOrigin)
}

func TestConnector_HandshakeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusForbidden)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	connector := NewConnector(url, "http://localhost", zap.NewNop())

	_, err := connector.Connect(context.Background())
	assert.ErrorIs(t, err, ErrHandshakeFailed)
}

func TestConnector_Timeout(t *testing.T) {
	// Non-routable address per RFC 5737; the dial hangs until the deadline.
	connector := NewConnector("ws://192.0.2.1:9", "http://localhost", zap.NewNop())

	_, err := connector.Connect(context.Background())
	assert.ErrorIs(t, err, ErrConnectTimeout)
}
