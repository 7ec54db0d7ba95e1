// internal/game/hand.go
package game

import (
	"fmt"
	"sort"

	"github.com/mkarasz/holdem/internal/models"
)

// Category is a poker hand category. Higher is better.
type Category int

const (
	HighCard Category = iota + 1
	Pair
	TwoPairs
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var categoryNames = map[Category]string{
	HighCard:      "high_card",
	Pair:          "pair",
	TwoPairs:      "two_pairs",
	ThreeOfAKind:  "three_of_a_kind",
	Straight:      "straight",
	Flush:         "flush",
	FullHouse:     "full_house",
	FourOfAKind:   "four_of_a_kind",
	StraightFlush: "straight_flush",
	RoyalFlush:    "royal_flush",
}

func (c Category) String() string {
	if n, ok := categoryNames[c]; ok {
		return n
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Rank is the totally ordered value of a 5-card hand: the category plus a
// tie-break sequence of card values (ace counted as 14, except for the
// wheel where it closes the [5 4 3 2 1] run).
type Rank struct {
	Category Category
	Order    []int
}

// Compare returns -1, 0 or 1. Category decides first, then the order
// sequence element-wise.
func (r Rank) Compare(other Rank) int {
	switch {
	case r.Category < other.Category:
		return -1
	case r.Category > other.Category:
		return 1
	}
	for i := 0; i < len(r.Order) && i < len(other.Order); i++ {
		switch {
		case r.Order[i] < other.Order[i]:
			return -1
		case r.Order[i] > other.Order[i]:
			return 1
		}
	}
	return 0
}

func (r Rank) String() string {
	return fmt.Sprintf("%s%v", r.Category, r.Order)
}

// Evaluator ranks 5-7 card hands. The suit-blind category of every possible
// 5-card rank multiset (6188 of them) is precomputed once, so ranking a
// hand in play is a single table lookup plus the flush upgrades.
type Evaluator struct {
	categories map[uint32]Category
}

// NewEvaluator builds the category lookup table.
func NewEvaluator() *Evaluator {
	cats := make(map[uint32]Category, 6188)
	// Every non-decreasing 5-tuple over 1..13.
	for c1 := 1; c1 <= 13; c1++ {
		for c2 := c1; c2 <= 13; c2++ {
			for c3 := c2; c3 <= 13; c3++ {
				for c4 := c3; c4 <= 13; c4++ {
					for c5 := c4; c5 <= 13; c5++ {
						cats[sigKey(c1, c2, c3, c4, c5)] = classify(c1, c2, c3, c4, c5)
					}
				}
			}
		}
	}
	return &Evaluator{categories: cats}
}

// sigKey packs five ascending ranks into a lookup key, 4 bits each.
func sigKey(c1, c2, c3, c4, c5 int) uint32 {
	return uint32(c1)<<16 | uint32(c2)<<12 | uint32(c3)<<8 | uint32(c4)<<4 | uint32(c5)
}

// classify determines the suit-blind category of five ascending ranks.
func classify(c1, c2, c3, c4, c5 int) Category {
	distinct := map[int]bool{c1: true, c2: true, c3: true, c4: true, c5: true}
	consecutive := c2 == c1+1 && c3 == c2+1 && c4 == c3+1 && c5 == c4+1
	aceHigh := c1 == 1 && c2 == 10 && c3 == 11 && c4 == 12 && c5 == 13
	switch {
	case consecutive || aceHigh:
		return Straight
	case c1 == c4 || c2 == c5:
		return FourOfAKind
	case len(distinct) == 2:
		return FullHouse
	case c1 == c3 || c2 == c4 || c3 == c5:
		return ThreeOfAKind
	case len(distinct) == 3:
		return TwoPairs
	case len(distinct) == 4:
		return Pair
	}
	return HighCard
}

// rank5 ranks exactly five cards.
func (e *Evaluator) rank5(cards []models.Card) Rank {
	ranks := make([]int, 5)
	for i, c := range cards {
		ranks[i] = c.Rank
	}
	sort.Ints(ranks)

	cat := e.categories[sigKey(ranks[0], ranks[1], ranks[2], ranks[3], ranks[4])]

	sameSuit := true
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			sameSuit = false
			break
		}
	}
	if sameSuit {
		if cat == Straight {
			cat = StraightFlush
		}
		if cat == StraightFlush && contains(ranks, 1) && contains(ranks, 13) {
			cat = RoyalFlush
		}
		if cat < Flush {
			cat = Flush
		}
	}

	var order []int
	if (cat == Straight || cat == StraightFlush) && contains(ranks, 1) && contains(ranks, 2) {
		// The wheel: the ace closes the low end.
		order = []int{5, 4, 3, 2, 1}
	} else {
		counts := map[int]int{}
		for _, r := range ranks {
			if r == 1 {
				r = 14
			}
			counts[r]++
		}
		for v := range counts {
			order = append(order, v)
		}
		sort.Slice(order, func(i, j int) bool {
			a, b := order[i], order[j]
			if counts[a] != counts[b] {
				return counts[a] > counts[b]
			}
			return a > b
		})
	}
	return Rank{Category: cat, Order: order}
}

func contains(ranks []int, v int) bool {
	for _, r := range ranks {
		if r == v {
			return true
		}
	}
	return false
}

// BestHand finds the highest-ranked 5-card subset of 5 to 7 cards, trying
// every C(n,5) combination.
func (e *Evaluator) BestHand(cards []models.Card) ([]models.Card, Rank, error) {
	if len(cards) < 5 || len(cards) > 7 {
		return nil, Rank{}, fmt.Errorf("hand must hold 5 to 7 cards, got %d", len(cards))
	}
	var best []models.Card
	var bestRank Rank
	combinations(len(cards), 5, func(idx []int) {
		hand := make([]models.Card, 5)
		for i, j := range idx {
			hand[i] = cards[j]
		}
		r := e.rank5(hand)
		if r.Compare(bestRank) > 0 {
			bestRank = r
			best = hand
		}
	})
	return best, bestRank, nil
}

// combinations yields every k-subset of 0..n-1 in lexicographic order. The
// index slice is reused between calls.
func combinations(n, k int, fn func(idx []int)) {
	if k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}
