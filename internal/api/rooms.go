package api

import (
	"context"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/merijnkruithof/botty/internal/hotel"
	"github.com/merijnkruithof/botty/internal/protocol"
	"github.com/merijnkruithof/botty/internal/room"
)

// maxRandomWalkCoord bounds random walk targets; walking outside the floor
// plan is a no-op server side.
const maxRandomWalkCoord = 25

type danceRequest struct {
	DanceID          uint32   `json:"dance_id"`
	AllBotsMustDance bool     `json:"all_bots_must_dance"`
	Bots             []string `json:"bots"`
}

type walkRequest struct {
	Position struct {
		X uint32 `json:"x"`
		Y uint32 `json:"y"`
	} `json:"position"`
	AllBotsMustWalk bool     `json:"all_bots_must_walk"`
	Bots            []string `json:"bots"`
}

type walkRandomRequest struct {
	AllBotsMustWalk bool     `json:"all_bots_must_walk"`
	Bots            []string `json:"bots"`
}

type followRequest struct {
	UserID uint32 `json:"user_id"`
}

// roomIDParam parses the {roomID} route parameter, writing a 400 on failure.
func roomIDParam(w http.ResponseWriter, r *http.Request) (uint32, bool) {
	raw := chi.URLParam(r, "roomID")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid room id")
		return 0, false
	}
	return uint32(id), true
}

// roomBots resolves the selected bots inside the room: all of them, or the
// requested subset filtered to those actually present. An explicit selection
// must be non-empty (400); commanding an empty room is a 409.
func roomBots(w http.ResponseWriter, h *hotel.Handler, roomID uint32, all bool, requested []string) ([]string, bool) {
	if !all && len(requested) == 0 {
		writeError(w, http.StatusBadRequest, "bots is required unless selecting all")
		return nil, false
	}

	present := h.Rooms().BotsInRoom(roomID)
	if len(present) == 0 {
		writeError(w, http.StatusConflict, "no bots in room")
		return nil, false
	}
	if all {
		return present, true
	}

	inRoom := make(map[string]struct{}, len(present))
	for _, ticket := range present {
		inRoom[ticket] = struct{}{}
	}
	selected := make([]string, 0, len(requested))
	for _, ticket := range requested {
		if _, ok := inRoom[ticket]; ok {
			selected = append(selected, ticket)
		}
	}
	if len(selected) == 0 {
		writeError(w, http.StatusConflict, "no selected bots in room")
		return nil, false
	}
	return selected, true
}

func (s *Server) handleRoomDance(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handlerFor(w, r)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(w, r)
	if !ok {
		return
	}

	var req danceRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tickets, ok := roomBots(w, h, roomID, req.AllBotsMustDance, req.Bots)
	if !ok {
		return
	}

	s.sendToEach(h, tickets, protocol.Dance{DanceID: req.DanceID})
	writeJSON(w, http.StatusAccepted, map[string]int{"bots": len(tickets)})
}

func (s *Server) handleRoomWalk(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handlerFor(w, r)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(w, r)
	if !ok {
		return
	}

	var req walkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tickets, ok := roomBots(w, h, roomID, req.AllBotsMustWalk, req.Bots)
	if !ok {
		return
	}

	s.sendToEach(h, tickets, protocol.WalkInRoom{X: req.Position.X, Y: req.Position.Y})
	writeJSON(w, http.StatusAccepted, map[string]int{"bots": len(tickets)})
}

func (s *Server) handleRoomWalkRandom(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handlerFor(w, r)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(w, r)
	if !ok {
		return
	}

	var req walkRandomRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tickets, ok := roomBots(w, h, roomID, req.AllBotsMustWalk, req.Bots)
	if !ok {
		return
	}

	// Each bot gets its own target so they scatter instead of stacking.
	for _, ticket := range tickets {
		s.sendToEach(h, []string{ticket}, protocol.WalkInRoom{
			X: rand.Uint32N(maxRandomWalkCoord),
			Y: rand.Uint32N(maxRandomWalkCoord),
		})
	}
	writeJSON(w, http.StatusAccepted, map[string]int{"bots": len(tickets)})
}

func (s *Server) handleRoomFollow(w http.ResponseWriter, r *http.Request) {
	h, ok := s.handlerFor(w, r)
	if !ok {
		return
	}
	roomID, ok := roomIDParam(w, r)
	if !ok {
		return
	}

	var req followRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tickets, ok := roomBots(w, h, roomID, true, nil)
	if !ok {
		return
	}

	moves, cancelSub, err := h.Rooms().SubscribeUserMoves(roomID, req.UserID)
	if err != nil {
		if errors.Is(err, room.ErrUserNotInRoom) {
			writeError(w, http.StatusNotFound, "user not in room")
			return
		}
		writeError(w, http.StatusInternalServerError, "subscribing to movement failed")
		return
	}

	taskName := "follow-" + uuid.NewString()
	started := s.tasks.AddTask(taskName, func(ctx context.Context) {
		defer cancelSub()
		for {
			select {
			case <-ctx.Done():
				return
			case pos, ok := <-moves:
				if !ok {
					return
				}
				s.sendToEach(h, tickets, protocol.WalkInRoom{X: pos.X, Y: pos.Y})
			}
		}
	})
	if !started {
		cancelSub()
		writeError(w, http.StatusConflict, "task already running")
		return
	}

	s.logger.Info("follow task started",
		zap.String("hotel", h.Name()),
		zap.Uint32("roomId", roomID),
		zap.Uint32("userId", req.UserID),
		zap.String("task", taskName),
	)
	writeJSON(w, http.StatusAccepted, map[string]string{"task": taskName})
}
