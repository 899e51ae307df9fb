package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nathoo/shmoopland/session"
)

const (
	wsReadTimeout  = 10 * time.Minute
	wsWriteTimeout = 5 * time.Second
)

// handleWS plays a session over a WebSocket. Each text frame carries one
// command, either as raw text or as a CommandRequest; each reply is one
// CommandResponse frame. The connection closes when the player quits.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.sessions.Info(id); err != nil {
		s.writeSessionError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", "session_id", id, "error", err)
		return
	}
	defer conn.Close()
	s.logger.Info("WebSocket connected", "session_id", id)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Debug("WebSocket read ended", "session_id", id, "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		reply, err := s.sessions.Handle(r.Context(), id, commandFromFrame(msg))
		if err != nil {
			reason := "session unavailable"
			if errors.Is(err, session.ErrEnded) {
				reason = "session has ended"
			}
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason),
				time.Now().Add(time.Second))
			return
		}
		if err := writeFrame(conn, toResponse(reply)); err != nil {
			return
		}
		if !reply.Running {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "farewell"),
				time.Now().Add(time.Second))
			return
		}
	}
}

func commandFromFrame(msg []byte) string {
	trimmed := strings.TrimSpace(string(msg))
	if strings.HasPrefix(trimmed, "{") {
		var req CommandRequest
		if err := json.Unmarshal(msg, &req); err == nil {
			return req.Command
		}
	}
	return trimmed
}

func writeFrame(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}
