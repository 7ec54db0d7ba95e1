// internal/models/deck_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	d := NewDeck()
	require.Equal(t, 52, d.Remaining())

	seen := make(map[Card]bool)
	for d.Remaining() > 0 {
		c, err := d.Draw()
		require.NoError(t, err)
		assert.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestDeckExhaustion(t *testing.T) {
	d := NewStackedDeck([]Card{MustParseCard("CA")})
	_, err := d.Draw()
	require.NoError(t, err)
	_, err = d.Draw()
	assert.ErrorIs(t, err, ErrDeckExhausted)
	_, err = d.DrawN(1)
	assert.ErrorIs(t, err, ErrDeckExhausted)
}

func TestStackedDeckDealsInOrder(t *testing.T) {
	stack := []Card{MustParseCard("SA"), MustParseCard("SK"), MustParseCard("SQ")}
	d := NewStackedDeck(stack)

	first, err := d.Draw()
	require.NoError(t, err)
	assert.Equal(t, stack[0], first)

	rest, err := d.DrawN(2)
	require.NoError(t, err)
	assert.Equal(t, stack[1:], rest)
	assert.Equal(t, 0, d.Remaining())
}

func TestDrawNTooMany(t *testing.T) {
	d := NewDeck()
	_, err := d.DrawN(53)
	assert.ErrorIs(t, err, ErrDeckExhausted)
	// A failed DrawN must not consume anything.
	assert.Equal(t, 52, d.Remaining())
}
