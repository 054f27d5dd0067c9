package api

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/merijnkruithof/botty/internal/connection"
	"github.com/merijnkruithof/botty/internal/hotel"
)

type addHotelRequest struct {
	Name   string `json:"name"`
	WSLink string `json:"ws_link"`
	Origin string `json:"origin"`
}

type botInfo struct {
	Ticket   string  `json:"ticket"`
	UserID   uint32  `json:"user_id,omitempty"`
	Username string  `json:"username,omitempty"`
	Figure   string  `json:"figure,omitempty"`
	Motto    string  `json:"motto,omitempty"`
	RoomID   *uint32 `json:"room_id,omitempty"`
}

func (s *Server) handleListHotels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"hotels": s.registry.ListHotels()})
}

func (s *Server) handleAddHotel(w http.ResponseWriter, r *http.Request) {
	var req addHotelRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" || req.Origin == "" || !strings.HasPrefix(req.WSLink, "ws") {
		writeError(w, http.StatusBadRequest, "name, ws_link (ws:// or wss://) and origin are required")
		return
	}

	connector := connection.NewConnector(req.WSLink, req.Origin, s.logger)
	handler := hotel.NewHandler(req.Name, connector, s.metrics, s.logger)
	if err := s.registry.AddHotel(handler); err != nil {
		if errors.Is(err, hotel.ErrDuplicateHotel) {
			writeError(w, http.StatusConflict, "hotel already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "adding hotel failed")
		return
	}

	s.logger.Info("hotel registered",
		zap.String("hotel", req.Name),
		zap.String("endpoint", req.WSLink),
	)
	writeJSON(w, http.StatusCreated, map[string]string{"name": req.Name})
}

func (s *Server) handleListBots(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handlerFor(w, r)
	if !ok {
		return
	}

	profiles := h.Users().All()
	bots := make([]botInfo, 0, h.SessionCount())
	for _, ticket := range h.Tickets() {
		info := botInfo{Ticket: ticket}
		if profile, ok := profiles[ticket]; ok {
			info.UserID = profile.UserID
			info.Username = profile.Username
			info.Figure = profile.Figure
			info.Motto = profile.Motto
		}
		if roomID, ok := h.Rooms().BotRoom(ticket); ok {
			info.RoomID = &roomID
		}
		bots = append(bots, info)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(bots),
		"bots":  bots,
	})
}
