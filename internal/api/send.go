package api

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/merijnkruithof/botty/internal/hotel"
)

// detachedSendTimeout bounds deliveries that outlive their HTTP request.
const detachedSendTimeout = 10 * time.Second

func requestlessContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), detachedSendTimeout)
}

func sendFields(h *hotel.Handler, ticket string, err error) []zap.Field {
	return []zap.Field{
		zap.String("hotel", h.Name()),
		zap.String("ticket", ticket),
		zap.Error(err),
	}
}
