// internal/handlers/api_server.go
package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/mkarasz/holdem/internal/auth"
	"github.com/mkarasz/holdem/internal/broker"
	"github.com/mkarasz/holdem/internal/game"
	"github.com/mkarasz/holdem/internal/middleware"
)

// Server bundles the repositories and broker behind the HTTP API.
type Server struct {
	Logger   *logrus.Logger
	Users    *auth.UserStore
	Sessions *auth.Sessions
	Tables   *game.TableStore
	Broker   *broker.Broker
}

// NewServer wires the API server; the caller owns the stores.
func NewServer(logger *logrus.Logger, users *auth.UserStore, sessions *auth.Sessions, tables *game.TableStore, b *broker.Broker) *Server {
	return &Server{
		Logger:   logger,
		Users:    users,
		Sessions: sessions,
		Tables:   tables,
		Broker:   b,
	}
}

// Routes builds the full handler chain.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", s.handleLogin)

	mux.HandleFunc("GET /api/tables", s.handleListTables)
	mux.HandleFunc("POST /api/tables/{name}", s.handleCreateTable)
	mux.HandleFunc("POST /api/tables/{name}/join", s.handleJoinTable)
	mux.HandleFunc("POST /api/tables/{name}/start", s.handleStartGame)
	mux.HandleFunc("POST /api/tables/{name}/action", s.handleAction)

	mux.HandleFunc("GET /api/poll-events", s.handlePollEvents)
	mux.HandleFunc("GET /api/cancel-poll", s.handleCancelPoll)
	mux.HandleFunc("GET /api/events/ws", s.handleEventsWS)

	mux.HandleFunc("GET /api/test", s.handleTestEvent)
	mux.HandleFunc("OPTIONS /", s.handlePreflight)

	return middleware.LogMiddleware(s.Logger)(corsMiddleware(mux))
}

// corsMiddleware mirrors the permissive CORS policy of the browser
// frontend's origin expectations.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handlePreflight(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Access-Control-Allow-Methods", "GET, PUT, POST, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept, X-Username")
	h.Set("Access-Control-Max-Age", "1")
	w.WriteHeader(http.StatusNoContent)
}

// handleLogin exchanges name:password credentials for a bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	player, ok := s.authenticate(w, r)
	if !ok {
		return
	}
	token, err := s.Sessions.CreateToken(player.Name)
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "failed to create token")
		return
	}
	s.writeJSON(w, map[string]string{"token": token})
}
