package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !s.tasks.HasTask(name) {
		writeError(w, http.StatusNotFound, "unknown task")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"name": name, "running": true})
}

func (s *Server) handleKillTask(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !s.tasks.KillTask(name) {
		writeError(w, http.StatusNotFound, "unknown task")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}
