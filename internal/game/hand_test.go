// internal/game/hand_test.go
package game

import (
	"testing"

	"github.com/paulhankin/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarasz/holdem/internal/models"
)

func cards(names ...string) []models.Card {
	cs := make([]models.Card, len(names))
	for i, n := range names {
		cs[i] = models.MustParseCard(n)
	}
	return cs
}

func TestRank5Categories(t *testing.T) {
	e := NewEvaluator()
	cases := []struct {
		name     string
		cards    []models.Card
		category Category
		order    []int
	}{
		{"royal flush", cards("CA", "CK", "CQ", "CJ", "C10"), RoyalFlush, []int{14, 13, 12, 11, 10}},
		{"straight flush", cards("C9", "C8", "C7", "C6", "C5"), StraightFlush, []int{9, 8, 7, 6, 5}},
		{"steel wheel", cards("CA", "C2", "C3", "C4", "C5"), StraightFlush, []int{5, 4, 3, 2, 1}},
		{"four of a kind", cards("CA", "DA", "HA", "SA", "C9"), FourOfAKind, []int{14, 9}},
		{"four sevens", cards("C7", "D7", "H7", "CK", "S7"), FourOfAKind, []int{7, 13}},
		{"full house", cards("CK", "DK", "HK", "S2", "D2"), FullHouse, []int{13, 2}},
		{"flush", cards("C2", "C5", "C9", "CJ", "CK"), Flush, []int{13, 11, 9, 5, 2}},
		{"ace high straight", cards("C10", "DJ", "HQ", "SK", "CA"), Straight, []int{14, 13, 12, 11, 10}},
		{"wheel", cards("CA", "D2", "H3", "S4", "C5"), Straight, []int{5, 4, 3, 2, 1}},
		{"three of a kind", cards("C7", "D7", "H7", "S2", "C9"), ThreeOfAKind, []int{7, 9, 2}},
		{"two pairs", cards("CJ", "DJ", "H4", "S4", "CA"), TwoPairs, []int{11, 4, 14}},
		{"pair", cards("C8", "D8", "H2", "S5", "CK"), Pair, []int{8, 13, 5, 2}},
		{"high card", cards("C2", "D5", "H9", "SJ", "CK"), HighCard, []int{13, 11, 9, 5, 2}},
		{"ace high", cards("C3", "CQ", "C7", "CK", "HA"), HighCard, []int{14, 13, 12, 7, 3}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := e.rank5(tc.cards)
			assert.Equal(t, tc.category, r.Category)
			assert.Equal(t, tc.order, r.Order)
		})
	}
}

func TestRankCompare(t *testing.T) {
	e := NewEvaluator()
	cases := []struct {
		name   string
		better []models.Card
		worse  []models.Card
	}{
		{"royal beats straight flush", cards("CA", "CK", "CQ", "CJ", "C10"), cards("C9", "C8", "C7", "C6", "C5")},
		{"flush beats straight", cards("C2", "C5", "C9", "CJ", "CK"), cards("C10", "DJ", "HQ", "SK", "CA")},
		{"aces beat kings", cards("CA", "DA", "H2", "S5", "C9"), cards("CK", "DK", "H2", "S5", "C9")},
		{"kicker decides", cards("C8", "D8", "H2", "S5", "CA"), cards("H8", "S8", "D2", "C5", "DK")},
		{"six high straight beats wheel", cards("C2", "D3", "H4", "S5", "C6"), cards("CA", "D2", "H3", "S4", "C5")},
		{"higher two pairs", cards("CA", "DA", "H3", "S3", "C4"), cards("CK", "DK", "HQ", "SQ", "C4")},
		{"full house over flush", cards("C2", "D2", "H2", "S9", "C9"), cards("D2", "D5", "D9", "DJ", "DK")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			better := e.rank5(tc.better)
			worse := e.rank5(tc.worse)
			assert.Equal(t, 1, better.Compare(worse))
			assert.Equal(t, -1, worse.Compare(better))
		})
	}
}

func TestRankCompareTies(t *testing.T) {
	e := NewEvaluator()
	a := e.rank5(cards("C8", "D8", "H2", "S5", "CK"))
	b := e.rank5(cards("H8", "S8", "C2", "D5", "DK"))
	assert.Equal(t, 0, a.Compare(b))
}

func TestBestHandPicksBestSubset(t *testing.T) {
	e := NewEvaluator()

	// Seven cards hiding a royal flush among noise.
	hand, rank, err := e.BestHand(cards("SA", "D5", "SK", "SQ", "D9", "SJ", "S10"))
	require.NoError(t, err)
	assert.Equal(t, RoyalFlush, rank.Category)
	assert.Len(t, hand, 5)
	for _, c := range hand {
		assert.Equal(t, models.Spades, c.Suit)
	}

	// A pair of hole cards plus a paired board makes two pairs, not a pair.
	_, rank, err = e.BestHand(cards("C7", "D7", "H2", "S2", "C9", "DJ", "HK"))
	require.NoError(t, err)
	assert.Equal(t, TwoPairs, rank.Category)
	assert.Equal(t, []int{7, 2, 13}, rank.Order)
}

func TestBestHandCardCountBounds(t *testing.T) {
	e := NewEvaluator()
	_, _, err := e.BestHand(cards("CA", "CK", "CQ", "CJ"))
	assert.Error(t, err)
	_, _, err = e.BestHand(cards("CA", "CK", "CQ", "CJ", "C10", "D2", "D3", "D4"))
	assert.Error(t, err)
	_, _, err = e.BestHand(cards("CA", "CK", "CQ", "CJ", "C10"))
	assert.NoError(t, err)
}

func TestCombinations(t *testing.T) {
	var got [][]int
	combinations(5, 3, func(idx []int) {
		got = append(got, append([]int(nil), idx...))
	})
	want := [][]int{
		{0, 1, 2}, {0, 1, 3}, {0, 1, 4}, {0, 2, 3}, {0, 2, 4},
		{0, 3, 4}, {1, 2, 3}, {1, 2, 4}, {1, 3, 4}, {2, 3, 4},
	}
	assert.Equal(t, want, got)

	count := 0
	combinations(7, 5, func([]int) { count++ })
	assert.Equal(t, 21, count)
}

// oracleScore ranks a 7-card hand with the paulhankin/poker evaluator, used
// as an independent reference below.
func oracleScore(t *testing.T, cs []models.Card) int16 {
	t.Helper()
	suits := map[models.Suit]poker.Suit{
		models.Clubs:    poker.Club,
		models.Diamonds: poker.Diamond,
		models.Hearts:   poker.Heart,
		models.Spades:   poker.Spade,
	}
	var hand [7]poker.Card
	for i, c := range cs {
		pc, err := poker.MakeCard(suits[c.Suit], poker.Rank(c.Rank))
		require.NoError(t, err)
		hand[i] = pc
	}
	return poker.Eval7(&hand)
}

func TestBestHandAgreesWithReferenceEvaluator(t *testing.T) {
	e := NewEvaluator()
	for i := 0; i < 200; i++ {
		deck := models.NewDeck()
		a, err := deck.DrawN(7)
		require.NoError(t, err)
		b, err := deck.DrawN(7)
		require.NoError(t, err)

		_, rankA, err := e.BestHand(a)
		require.NoError(t, err)
		_, rankB, err := e.BestHand(b)
		require.NoError(t, err)

		scoreA, scoreB := oracleScore(t, a), oracleScore(t, b)
		switch {
		case scoreA > scoreB:
			assert.Equal(t, 1, rankA.Compare(rankB), "%v vs %v", a, b)
		case scoreA < scoreB:
			assert.Equal(t, -1, rankA.Compare(rankB), "%v vs %v", a, b)
		default:
			assert.Equal(t, 0, rankA.Compare(rankB), "%v vs %v", a, b)
		}
	}
}
