// internal/game/errors.go
package game

import "errors"

// Domain errors surfaced to clients. Handlers unwrap these with errors.Is
// and map them onto HTTP status codes.
var (
	ErrInvalidAction = errors.New("invalid action")
	ErrTableExists   = errors.New("table already exists")
)
