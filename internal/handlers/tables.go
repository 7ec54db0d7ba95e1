// internal/handlers/tables.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mkarasz/holdem/internal/game"
	"github.com/mkarasz/holdem/internal/models"
)

// handleListTables returns the known table names.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}
	s.writeJSON(w, s.Tables.Names())
}

// handleCreateTable registers a new table owned by the caller.
func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	player, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	name := r.PathValue("name")
	if _, err := s.Tables.Create(name, player); err != nil {
		if errors.Is(err, game.ErrTableExists) {
			s.fail(w, http.StatusConflict, fmt.Sprintf("Table with name %s already exists!", name))
			return
		}
		s.fail(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleJoinTable seats the caller; joining twice is a no-op.
func (s *Server) handleJoinTable(w http.ResponseWriter, r *http.Request) {
	player, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	table, ok := s.table(w, r)
	if !ok {
		return
	}
	table.AddPlayer(player)
	w.WriteHeader(http.StatusNoContent)
}

// handleStartGame deals the next hand.
func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.authenticate(w, r); !ok {
		return
	}
	table, ok := s.table(w, r)
	if !ok {
		return
	}
	if err := table.StartGame(); err != nil {
		s.Logger.Info(err)
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// actionRequest is the body of POST /api/tables/{name}/action.
type actionRequest struct {
	What        string `json:"what"`
	RaiseAmount *int   `json:"raise_amount"`
}

// handleAction submits a betting move for the caller.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	player, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	table, ok := s.table(w, r)
	if !ok {
		return
	}
	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.What == "" {
		s.fail(w, http.StatusBadRequest, "Missing properties: what")
		return
	}
	what, err := game.ParseAction(req.What)
	if err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Sprintf("Invalid action %s", req.What))
		return
	}

	raiseAmount := 0
	if what == game.ActionBet || what == game.ActionRaise {
		if req.RaiseAmount == nil {
			s.fail(w, http.StatusBadRequest, "Missing properties: raise_amount")
			return
		}
		if *req.RaiseAmount == 0 {
			s.fail(w, http.StatusBadRequest, "Invalid raise amount '0'")
			return
		}
		raiseAmount = *req.RaiseAmount
	}

	if err := table.Act(what, player.Name, raiseAmount); err != nil {
		s.Logger.Info(err)
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleTestEvent injects a message event on an arbitrary channel, handy
// for poking subscribers manually.
func (s *Server) handleTestEvent(w http.ResponseWriter, r *http.Request) {
	msg := r.URL.Query().Get("msg")
	if msg == "" {
		msg = "Hello world"
	}
	channel := r.URL.Query().Get("channel")
	if channel == "" {
		channel = "test"
	}
	s.Broker.Notify(models.NewEvent(channel, models.EventMessage, fmt.Sprintf("Msg: %s", msg)))
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintf(w, "Event with message '%s' created\n", msg)
}

// table resolves the {name} path segment, answering 404 itself when the
// table does not exist.
func (s *Server) table(w http.ResponseWriter, r *http.Request) (*game.Table, bool) {
	name := r.PathValue("name")
	table := s.Tables.Get(name)
	if table == nil {
		s.fail(w, http.StatusNotFound, fmt.Sprintf("Table with name %s not found!", name))
		return nil, false
	}
	return table, true
}
