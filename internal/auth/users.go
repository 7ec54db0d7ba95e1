// internal/auth/users.go
package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mkarasz/holdem/internal/models"
)

// ErrUnauthorized covers missing and mismatched credentials.
var ErrUnauthorized = errors.New("unauthorized")

type user struct {
	player *models.Player
	hash   string
}

// UserStore is the process-wide player registry. There is no signup flow:
// the first request with a new name registers it, and later requests must
// present the same password.
type UserStore struct {
	mu     sync.Mutex
	users  map[string]*user
	logger *logrus.Logger
}

func NewUserStore(logger *logrus.Logger) *UserStore {
	return &UserStore{users: make(map[string]*user), logger: logger}
}

// Authenticate verifies name:password, creating the user on first use.
func (s *UserStore) Authenticate(name, password string) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[name]; ok {
		match, err := VerifyPassword(password, u.hash)
		if err != nil {
			return nil, err
		}
		if !match {
			return nil, fmt.Errorf("%w: bad password", ErrUnauthorized)
		}
		return u.player, nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &user{
		player: &models.Player{ID: uuid.New(), Name: name},
		hash:   hash,
	}
	s.users[name] = u
	s.logger.Debugf("users: registered %s", name)
	return u.player, nil
}

// Get looks up an already registered player, nil if unknown. Used by the
// bearer-token path, which must never register implicitly.
func (s *UserStore) Get(name string) *models.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[name]; ok {
		return u.player
	}
	return nil
}
