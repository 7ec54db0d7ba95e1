// internal/models/deck.go
package models

import (
	"errors"
	"math/rand"
)

// ErrDeckExhausted signals a draw from a deck with too few cards left. With
// at most 9 seats the 52 cards always suffice, so hitting this in play is a
// programming error rather than an expected game outcome.
var ErrDeckExhausted = errors.New("deck exhausted")

// Deck is a mutable, exclusively owned sequence of cards. Draws are
// destructive; a deck is never refilled.
type Deck struct {
	cards []Card
}

// NewDeck builds a full 52-card deck, shuffled.
func NewDeck() *Deck {
	cards := make([]Card, 0, 52)
	for _, s := range Suits {
		for r := 1; r <= 13; r++ {
			cards = append(cards, Card{Suit: s, Rank: r})
		}
	}
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{cards: cards}
}

// NewStackedDeck builds a deck that deals the given cards front to back.
// Used by tests to script exact hands.
func NewStackedDeck(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Remaining reports how many cards are left.
func (d *Deck) Remaining() int {
	return len(d.cards)
}

// Draw removes and returns the next card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, nil
}

// DrawN removes and returns the next n cards.
func (d *Deck) DrawN(n int) ([]Card, error) {
	if len(d.cards) < n {
		return nil, ErrDeckExhausted
	}
	cards := append([]Card(nil), d.cards[:n]...)
	d.cards = d.cards[n:]
	return cards, nil
}
