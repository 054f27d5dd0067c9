// Package api exposes the HTTP control surface: hotel and session
// management, broadcasts, room commands, and task control.
package api

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/merijnkruithof/botty/internal/hotel"
	"github.com/merijnkruithof/botty/internal/observability"
	"github.com/merijnkruithof/botty/internal/taskmgr"
)

// Server wires the HTTP handlers to the hotel registry and task manager.
type Server struct {
	registry  *hotel.Registry
	tasks     *taskmgr.Manager
	metrics   *observability.Metrics
	authToken string
	logger    *zap.Logger
}

// NewServer creates the control surface server.
func NewServer(registry *hotel.Registry, tasks *taskmgr.Manager, metrics *observability.Metrics, authToken string, logger *zap.Logger) *Server {
	return &Server{
		registry:  registry,
		tasks:     tasks,
		metrics:   metrics,
		authToken: authToken,
		logger:    logger,
	}
}

// Router builds the HTTP routes. gatherer feeds /metrics; health and
// metrics are unauthenticated, everything under /api requires the token.
func (s *Server) Router(gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireToken)

		r.Route("/hotels", func(r chi.Router) {
			r.Get("/", s.handleListHotels)
			r.Post("/", s.handleAddHotel)

			r.Route("/{hotel}", func(r chi.Router) {
				r.Get("/bots", s.handleListBots)

				r.Post("/sessions", s.handleAddSession)
				r.Post("/sessions/bulk", s.handleAddSessionsBulk)
				r.Delete("/sessions/{ticket}", s.handleKillSession)

				r.Post("/broadcast/message", s.handleBroadcastMessage)
				r.Post("/broadcast/enter-room", s.handleBroadcastEnterRoom)
				r.Post("/broadcast/report", s.handleBroadcastReport)

				r.Route("/rooms/{roomID}", func(r chi.Router) {
					r.Post("/dance", s.handleRoomDance)
					r.Post("/walk", s.handleRoomWalk)
					r.Post("/walk-random", s.handleRoomWalkRandom)
					r.Post("/follow", s.handleRoomFollow)
				})

				r.Route("/bots/{ticket}", func(r chi.Router) {
					r.Post("/motto", s.handleBotMotto)
					r.Post("/look", s.handleBotLook)
					r.Post("/friend-request", s.handleBotFriendRequest)
				})
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/{name}", s.handleGetTask)
			r.Delete("/{name}", s.handleKillTask)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireToken checks the x-auth-token header against the configured token.
// Preflight requests pass through untouched.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("x-auth-token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid auth token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handlerFor resolves the {hotel} route parameter, writing a 404 on miss.
func (s *Server) handlerFor(w http.ResponseWriter, r *http.Request) (*hotel.Handler, bool) {
	name := chi.URLParam(r, "hotel")
	h, err := s.registry.GetHandler(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "unknown hotel")
		return nil, false
	}
	return h, true
}
