// internal/handlers/events_ws.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"

	"github.com/mkarasz/holdem/internal/middleware"
	"github.com/mkarasz/holdem/internal/models"
)

// handleEventsWS delivers the same broker subscription as poll-events over
// a websocket, one JSON-encoded event per text message. Channel
// authorization, the implicit private channel and cancel-poll semantics
// are identical.
func (s *Server) handleEventsWS(w http.ResponseWriter, r *http.Request) {
	player, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	channels, connID, ok := s.subscribeParams(w, r, player.Name)
	if !ok {
		return
	}

	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{"events"},
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.Logger.Warnf("events-ws: accept error: %v", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler exit")

	if c.Subprotocol() != "events" {
		c.Close(websocket.StatusPolicyViolation, "client must use the 'events' subprotocol")
		return
	}
	middleware.LogWebSocketConnect(s.Logger, r.RemoteAddr, r.URL.Path)

	events := make(chan *models.Event, 32)
	unsubscribe := s.Broker.Subscribe(channels, connID, func(ev *models.Event) {
		select {
		case events <- ev:
		default:
			s.Logger.Warnf("events-ws: dropping event for slow connection %s", connID)
		}
	})
	defer unsubscribe()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, ctx.Err())
			return
		case ev := <-events:
			if ev == nil {
				c.Close(websocket.StatusNormalClosure, "connection cancelled")
				middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, nil)
				return
			}
			buf, err := json.Marshal(ev)
			if err != nil {
				s.Logger.WithError(err).Error("events-ws: marshal failed")
				continue
			}
			if err := c.Write(ctx, websocket.MessageText, buf); err != nil {
				middleware.LogWebSocketDisconnect(s.Logger, r.RemoteAddr, r.URL.Path, err)
				return
			}
		}
	}
}
