// internal/game/seat.go
package game

import (
	"fmt"

	"github.com/mkarasz/holdem/internal/models"
)

// Seat is one player's place at one table: the identity plus the
// table-scoped bankroll. A Seat belongs to exactly one Table.
type Seat struct {
	Player        *models.Player
	StartingMoney int
	Money         int
}

func newSeat(p *models.Player, startingMoney int) *Seat {
	return &Seat{Player: p, StartingMoney: startingMoney, Money: startingMoney}
}

func (s *Seat) Name() string {
	return s.Player.Name
}

// AddMoney credits winnings.
func (s *Seat) AddMoney(amount int) {
	s.Money += amount
}

// SubtractMoney debits a bet.
func (s *Seat) SubtractMoney(amount int) {
	s.Money -= amount
}

// SeatState is the public, serializable view of a seat.
type SeatState struct {
	Name          string `json:"name"`
	StartingMoney int    `json:"starting_money"`
	Money         int    `json:"money"`
}

func (s *Seat) State() SeatState {
	return SeatState{Name: s.Name(), StartingMoney: s.StartingMoney, Money: s.Money}
}

func (s *Seat) String() string {
	return fmt.Sprintf("%s(%d)", s.Name(), s.Money)
}
