// internal/handlers/utils.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mkarasz/holdem/internal/models"
)

// fail writes a plain-text error body, newline-terminated like the rest of
// the protocol's error responses.
func (s *Server) fail(w http.ResponseWriter, code int, msg string) {
	s.Logger.Debugf("fail: %d %s", code, msg)
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(code)
	w.Write([]byte(msg + "\n"))
}

// writeJSON pretty-prints, which keeps the streaming frames readable when
// debugging with curl.
func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.fail(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf)
}

// authenticate resolves the caller identity from either a bearer token or
// the X-Username "name:password" header, registering new names on first
// use. On failure it writes the 403 itself and returns ok=false.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (*models.Player, bool) {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		name, err := s.Sessions.Verify(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			s.fail(w, http.StatusForbidden, "invalid token")
			return nil, false
		}
		player := s.Users.Get(name)
		if player == nil {
			s.fail(w, http.StatusForbidden, "unknown user")
			return nil, false
		}
		return player, true
	}

	header := r.Header.Get("X-Username")
	if header == "" {
		// Websocket clients cannot always set headers.
		header = r.URL.Query().Get("auth")
	}
	if header == "" {
		s.fail(w, http.StatusForbidden, "Missing X-Username header")
		return nil, false
	}
	name, password, _ := strings.Cut(header, ":")
	if name == "" {
		s.fail(w, http.StatusForbidden, "Missing username")
		return nil, false
	}
	player, err := s.Users.Authenticate(name, password)
	if err != nil {
		s.fail(w, http.StatusForbidden, "Bad password")
		return nil, false
	}
	s.Logger.Debugf("%q %s - authenticated as %s", r.Method, r.URL.Path, player.Name)
	return player, true
}
