// internal/auth/users_test.go
package auth

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestAuthenticateRegistersOnFirstUse(t *testing.T) {
	s := NewUserStore(testLogger())

	p1, err := s.Authenticate("alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", p1.Name)
	assert.NotEqual(t, "", p1.ID.String())

	// Same credentials resolve to the same player.
	p2, err := s.Authenticate("alice", "secret")
	require.NoError(t, err)
	assert.Same(t, p1, p2)
}

func TestAuthenticateRejectsWrongPassword(t *testing.T) {
	s := NewUserStore(testLogger())
	_, err := s.Authenticate("alice", "secret")
	require.NoError(t, err)

	_, err = s.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestGetNeverRegisters(t *testing.T) {
	s := NewUserStore(testLogger())
	assert.Nil(t, s.Get("alice"))

	p, err := s.Authenticate("alice", "secret")
	require.NoError(t, err)
	assert.Same(t, p, s.Get("alice"))
}
