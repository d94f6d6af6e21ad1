package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"loft/internal/events"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPingPeriod = 30 * time.Second
)

type wsFrame struct {
	Type    string       `json:"type"`
	Payload events.Event `json:"payload"`
}

// handleWebSocket upgrades the connection and streams hub events as JSON
// frames until the client goes away.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed: %v", err)
		return
	}

	eventCh, unsubscribe := s.hub.Subscribe()
	defer unsubscribe()
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			s.logger.Debug("Error closing websocket: %v", cerr)
		}
	}()

	// Reader goroutine only drains control frames and detects disconnect.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, rerr := conn.ReadMessage(); rerr != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			if werr := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); werr != nil {
				return
			}
			if werr := conn.WriteJSON(wsFrame{Type: event.EventType(), Payload: event}); werr != nil {
				s.logger.Debug("WebSocket write failed: %v", werr)
				return
			}
		case <-ticker.C:
			if werr := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); werr != nil {
				return
			}
			if werr := conn.WriteMessage(websocket.PingMessage, nil); werr != nil {
				return
			}
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
