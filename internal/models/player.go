// internal/models/player.go
package models

import "github.com/google/uuid"

// Player is a bare identity. Table-scoped money lives on game.Seat, and
// credentials stay inside the auth package.
type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (p *Player) String() string {
	return p.Name
}
