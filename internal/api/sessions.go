package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/merijnkruithof/botty/internal/connection"
	"github.com/merijnkruithof/botty/internal/hotel"
)

type addSessionRequest struct {
	AuthTicket string `json:"auth_ticket"`
}

type bulkSessionRequest struct {
	Tickets []string `json:"tickets"`
}

func (s *Server) handleAddSession(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handlerFor(w, r)
	if !ok {
		return
	}

	var req addSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.AuthTicket == "" {
		writeError(w, http.StatusBadRequest, "auth_ticket is required")
		return
	}
	if h.HasSession(req.AuthTicket) {
		writeError(w, http.StatusConflict, "session already exists")
		return
	}

	s.spawnClient(h, req.AuthTicket)
	writeJSON(w, http.StatusAccepted, map[string]string{"auth_ticket": req.AuthTicket})
}

func (s *Server) handleAddSessionsBulk(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handlerFor(w, r)
	if !ok {
		return
	}

	var req bulkSessionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Tickets) == 0 {
		writeError(w, http.StatusBadRequest, "tickets is required")
		return
	}

	for _, ticket := range req.Tickets {
		s.spawnClient(h, ticket)
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"spawned": len(req.Tickets)})
}

// spawnClient runs the session off the request path; connect and auth take
// longer than a request should.
func (s *Server) spawnClient(h *hotel.Handler, ticket string) {
	go func() {
		if err := h.NewClient(context.Background(), ticket); err != nil {
			s.logger.Warn("bot session failed",
				zap.String("hotel", h.Name()),
				zap.String("ticket", ticket),
				zap.Error(err),
			)
		}
	}()
}

func (s *Server) handleKillSession(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handlerFor(w, r)
	if !ok {
		return
	}

	ticket := chi.URLParam(r, "ticket")
	if err := h.Kill(ticket); err != nil {
		if errors.Is(err, connection.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "unknown session")
			return
		}
		writeError(w, http.StatusInternalServerError, "killing session failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"ticket": ticket})
}
