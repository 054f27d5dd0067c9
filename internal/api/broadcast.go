package api

import (
	"net/http"

	"github.com/merijnkruithof/botty/internal/hotel"
	"github.com/merijnkruithof/botty/internal/protocol"
)

// reportTopicCallForHelp is the call-for-help topic used for room reports.
const reportTopicCallForHelp = 35

type broadcastMessageRequest struct {
	Message string `json:"message"`
}

type enterRoomRequest struct {
	RoomID           uint32   `json:"room_id"`
	AllBotsMustEnter bool     `json:"all_bots_must_enter"`
	Bots             []string `json:"bots"`
}

type reportRequest struct {
	Message string `json:"message"`
	RoomID  uint32 `json:"room_id"`
	UserID  int32  `json:"user_id"`
}

func (s *Server) handleBroadcastMessage(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handlerFor(w, r)
	if !ok {
		return
	}

	var req broadcastMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	h.Broadcast(protocol.RoomUserTalk{Message: req.Message})
	writeJSON(w, http.StatusOK, map[string]string{"message": req.Message})
}

func (s *Server) handleBroadcastEnterRoom(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handlerFor(w, r)
	if !ok {
		return
	}

	var req enterRoomRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.RoomID == 0 {
		writeError(w, http.StatusBadRequest, "room_id is required")
		return
	}
	if !req.AllBotsMustEnter && len(req.Bots) == 0 {
		writeError(w, http.StatusBadRequest, "bots is required unless all_bots_must_enter is set")
		return
	}

	tickets := req.Bots
	if req.AllBotsMustEnter {
		tickets = h.Tickets()
	}
	s.sendToEach(h, tickets, protocol.RequestRoomLoad{RoomID: req.RoomID})

	writeJSON(w, http.StatusAccepted, map[string]any{
		"room_id": req.RoomID,
		"bots":    len(tickets),
	})
}

func (s *Server) handleBroadcastReport(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handlerFor(w, r)
	if !ok {
		return
	}

	var req reportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Message == "" || req.RoomID == 0 {
		writeError(w, http.StatusBadRequest, "message and room_id are required")
		return
	}

	h.Broadcast(protocol.Report{
		Message: req.Message,
		Topic:   reportTopicCallForHelp,
		UserID:  req.UserID,
		RoomID:  req.RoomID,
	})
	writeJSON(w, http.StatusOK, map[string]uint32{"room_id": req.RoomID})
}

// sendToEach delivers a composed message to each ticket off the request
// path; failures are logged by the handler.
func (s *Server) sendToEach(h *hotel.Handler, tickets []string, c protocol.Composable) {
	for _, ticket := range tickets {
		ticket := ticket
		go func() {
			ctx, cancel := requestlessContext()
			defer cancel()
			if err := h.Send(ctx, ticket, c); err != nil {
				s.logger.Warn("send failed", sendFields(h, ticket, err)...)
			}
		}()
	}
}
