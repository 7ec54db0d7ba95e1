// internal/handlers/events.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/mkarasz/holdem/internal/broker"
	"github.com/mkarasz/holdem/internal/models"
)

// separatorFrame delimits events inside the single streaming response
// body. The token is fixed so clients can split on it verbatim.
const separatorFrame = "\n{\"separator\":\"cb935688-891a-45d1-9692-0275ab14be96\"}\n"

// subscribeParams validates the shared query parameters of the streaming
// endpoints and returns the resolved channel list (including the caller's
// implicit private channel) and the scoped connection id.
func (s *Server) subscribeParams(w http.ResponseWriter, r *http.Request, playerName string) (channels []string, connID string, ok bool) {
	q := r.URL.Query()
	if q.Get("channel") == "" || q.Get("id") == "" {
		s.fail(w, http.StatusBadRequest, "Missing properties: channel, id")
		return nil, "", false
	}
	channels = strings.Split(q.Get("channel"), ",")

	owner, err := broker.NeedsAuth(channels)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return nil, "", false
	}
	if owner != "" && owner != playerName {
		s.fail(w, http.StatusForbidden, "Unauthorized channel for this user")
		return nil, "", false
	}

	channels = append(channels, "player-"+playerName)
	// Connection ids are client-chosen; scoping them by player keeps one
	// client from cancelling another's stream.
	return channels, playerName + ":" + q.Get("id"), true
}

// handlePollEvents streams events over a long-lived chunked response.
// Each event is serialized as JSON followed by the separator frame. The
// stream stays open until the client disconnects, the connection is
// cancelled, or, with the "once" parameter, the first event is sent.
func (s *Server) handlePollEvents(w http.ResponseWriter, r *http.Request) {
	player, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	channels, connID, ok := s.subscribeParams(w, r, player.Name)
	if !ok {
		return
	}
	once := r.URL.Query().Has("once")

	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		s.fail(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := make(chan *models.Event, 32)
	unsubscribe := s.Broker.Subscribe(channels, connID, func(ev *models.Event) {
		select {
		case events <- ev:
		default:
			s.Logger.Warnf("poll-events: dropping event for slow connection %s", connID)
		}
	})
	// Runs on every exit path, so neither an orderly close nor a transport
	// error can leak the subscription.
	defer unsubscribe()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if ev == nil {
				// Cancelled via /api/cancel-poll.
				return
			}
			buf, err := json.MarshalIndent(ev, "", "  ")
			if err != nil {
				s.Logger.WithError(err).Error("poll-events: marshal failed")
				continue
			}
			if _, err := w.Write(buf); err != nil {
				return
			}
			if _, err := w.Write([]byte(separatorFrame)); err != nil {
				return
			}
			flusher.Flush()
			if once {
				return
			}
		}
	}
}

// handleCancelPoll closes all subscriptions of a previously opened stream,
// typically before reconnecting with the same id.
func (s *Server) handleCancelPoll(w http.ResponseWriter, r *http.Request) {
	player, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		s.fail(w, http.StatusBadRequest, "Missing properties: id")
		return
	}
	if !s.Broker.CloseConnection(player.Name + ":" + id) {
		s.fail(w, http.StatusNotFound, fmt.Sprintf("id %s not found", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
