// Package server exposes game sessions over HTTP and WebSocket.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nathoo/shmoopland/session"
	"github.com/nathoo/shmoopland/transcript"
)

// Response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// CommandRequest is the body of POST /v1/sessions/{id}/commands and of each
// WebSocket text frame.
type CommandRequest struct {
	Command string `json:"command"`
}

// CommandResponse is the reply to a command.
type CommandResponse struct {
	SessionID string   `json:"session_id"`
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Location  string   `json:"location"`
	Inventory []string `json:"inventory"`
	Running   bool     `json:"running"`
	Error     string   `json:"error,omitempty"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Sessions  int       `json:"sessions"`
}

type Server struct {
	sessions    *session.Manager
	transcripts transcript.Reader
	logger      *slog.Logger
	upgrader    websocket.Upgrader
}

// New builds a server. transcripts may be nil, in which case the transcript
// endpoint answers 404.
func New(sessions *session.Manager, transcripts transcript.Reader, logger *slog.Logger) *Server {
	return &Server{
		sessions:    sessions,
		transcripts: transcripts,
		logger:      logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /v1/sessions", s.handleCreate)
	mux.HandleFunc("GET /v1/sessions/{id}", s.handleRead)
	mux.HandleFunc("DELETE /v1/sessions/{id}", s.handleDelete)
	mux.HandleFunc("POST /v1/sessions/{id}/commands", s.handleCommand)
	mux.HandleFunc("GET /v1/sessions/{id}/transcript", s.handleTranscript)
	mux.HandleFunc("GET /v1/sessions/{id}/ws", s.handleWS)
	return cors(requestLogger(s.logger, mux))
}

func toResponse(r session.Reply) CommandResponse {
	status := StatusSuccess
	if r.Error != "" {
		status = StatusError
	}
	return CommandResponse{
		SessionID: r.SessionID,
		Status:    status,
		Message:   r.Text,
		Location:  r.Location,
		Inventory: r.Inventory,
		Running:   r.Running,
		Error:     r.Error,
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeSessionError maps session errors to HTTP statuses.
func (s *Server) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, session.ErrEnded):
		s.writeError(w, http.StatusGone, "Session has ended")
	default:
		s.logger.Error("Session operation failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
