// internal/models/card.go
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit is one of the four card suits, identified by its single-letter code.
type Suit byte

const (
	Clubs    Suit = 'C'
	Diamonds Suit = 'D'
	Hearts   Suit = 'H'
	Spades   Suit = 'S'
)

// Suits lists all suits in deck-building order.
var Suits = []Suit{Clubs, Diamonds, Hearts, Spades}

func (s Suit) valid() bool {
	switch s {
	case Clubs, Diamonds, Hearts, Spades:
		return true
	}
	return false
}

// Card is an immutable playing card. Rank is 1-13 with the ace stored as 1;
// the ace only counts as high (14) when cards are compared.
type Card struct {
	Suit Suit
	Rank int
}

// NewCard validates suit and rank and returns the card.
func NewCard(suit Suit, rank int) (Card, error) {
	if !suit.valid() {
		return Card{}, fmt.Errorf("invalid card suit %q", string(suit))
	}
	if rank < 1 || rank > 13 {
		return Card{}, fmt.Errorf("invalid card rank %d", rank)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// ParseCard parses the one-letter suit plus rank notation, e.g. "C10", "DA",
// "hj". Face cards are J, Q, K and A; the ace maps to rank 1.
func ParseCard(s string) (Card, error) {
	if len(s) < 2 || len(s) > 3 {
		return Card{}, fmt.Errorf("invalid card name %q", s)
	}
	suit := Suit(strings.ToUpper(s[:1])[0])
	var rank int
	switch strings.ToUpper(s[1:]) {
	case "A":
		rank = 1
	case "J":
		rank = 11
	case "Q":
		rank = 12
	case "K":
		rank = 13
	default:
		n, err := strconv.Atoi(s[1:])
		if err != nil {
			return Card{}, fmt.Errorf("invalid card name %q", s)
		}
		rank = n
	}
	return NewCard(suit, rank)
}

// MustParseCard is ParseCard for hardcoded card literals; it panics on bad input.
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Card) String() string {
	var r string
	switch c.Rank {
	case 1:
		r = "A"
	case 11:
		r = "J"
	case 12:
		r = "Q"
	case 13:
		r = "K"
	default:
		r = strconv.Itoa(c.Rank)
	}
	return string(c.Suit) + r
}

// HighRank returns the rank with the ace counted as 14.
func (c Card) HighRank() int {
	if c.Rank == 1 {
		return 14
	}
	return c.Rank
}

// Compare orders cards by rank only, ace high. Suits never break ties.
func (c Card) Compare(other Card) int {
	switch {
	case c.HighRank() < other.HighRank():
		return -1
	case c.HighRank() > other.HighRank():
		return 1
	}
	return 0
}

// MarshalText serializes the card in its string notation, so card slices
// appear as ["C10","DA",...] on the wire.
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses the string notation produced by MarshalText.
func (c *Card) UnmarshalText(b []byte) error {
	parsed, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
