package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

const maxBodyBytes = 64 * 1024

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   "shmoopland",
		Sessions:  s.sessions.Len(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	reply, err := s.sessions.Start(r.Context())
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.logger.Info("Session created", "session_id", reply.SessionID)
	s.writeJSON(w, http.StatusCreated, toResponse(reply))
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	info, err := s.sessions.Info(r.PathValue("id"))
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	world, err := s.sessions.Snapshot(info.ID)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, struct {
		Session any `json:"session"`
		World   any `json:"world"`
	}{info, world})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.End(r.PathValue("id")); err != nil {
		s.writeSessionError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req CommandRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.logger.Warn("Invalid command request", "session_id", id, "error", err)
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		s.writeError(w, http.StatusBadRequest, "No command provided")
		return
	}

	reply, err := s.sessions.Handle(r.Context(), id, req.Command)
	if err != nil {
		s.writeSessionError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toResponse(reply))
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	if s.transcripts == nil {
		s.writeError(w, http.StatusNotFound, "Transcripts are not readable on this server")
		return
	}
	entries, err := s.transcripts.Entries(r.Context(), r.PathValue("id"))
	if err != nil {
		s.logger.Error("Failed to read transcript", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}
