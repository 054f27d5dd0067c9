package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/merijnkruithof/botty/internal/connection"
	"github.com/merijnkruithof/botty/internal/protocol"
)

type mottoRequest struct {
	Motto string `json:"motto"`
}

type lookRequest struct {
	Figure string `json:"figure"`
	Gender string `json:"gender"`
}

type friendRequestRequest struct {
	Username string `json:"username"`
}

func (s *Server) handleBotMotto(w http.ResponseWriter, r *http.Request) {
	var req mottoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	s.sendToBot(w, r, protocol.UpdateMotto{Motto: req.Motto})
}

func (s *Server) handleBotLook(w http.ResponseWriter, r *http.Request) {
	var req lookRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Figure == "" || req.Gender == "" {
		writeError(w, http.StatusBadRequest, "figure and gender are required")
		return
	}
	s.sendToBot(w, r, protocol.UpdateLook{Figure: req.Figure, Gender: req.Gender})
}

func (s *Server) handleBotFriendRequest(w http.ResponseWriter, r *http.Request) {
	var req friendRequestRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	s.sendToBot(w, r, protocol.FriendRequest{Username: req.Username})
}

func (s *Server) sendToBot(w http.ResponseWriter, r *http.Request, c protocol.Composable) {
	h, ok := s.handlerFor(w, r)
	if !ok {
		return
	}

	ticket := chi.URLParam(r, "ticket")
	if err := h.Send(r.Context(), ticket, c); err != nil {
		switch {
		case errors.Is(err, connection.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, "unknown session")
		case errors.Is(err, connection.ErrSessionKilled):
			writeError(w, http.StatusGone, "session killed")
		default:
			writeError(w, http.StatusInternalServerError, "delivery failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"ticket": ticket})
}
