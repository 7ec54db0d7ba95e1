// internal/game/game.go
package game

import (
	"fmt"
	"time"

	"github.com/mkarasz/holdem/internal/models"
)

// Action is one of the betting moves a player can submit.
type Action string

const (
	ActionCheck Action = "check"
	ActionCall  Action = "call"
	ActionBet   Action = "bet"
	ActionRaise Action = "raise"
	ActionFold  Action = "fold"
)

// ParseAction validates a client-supplied action name.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionCheck, ActionCall, ActionBet, ActionRaise, ActionFold:
		return Action(s), nil
	}
	return "", fmt.Errorf("%w: unknown action %q", ErrInvalidAction, s)
}

// PlayerInGame is one seat's participation in a single hand: hole cards,
// fold state and the money committed in the current betting round. It is
// created when the hand starts and discarded with the Game.
type PlayerInGame struct {
	Seat         *Seat
	Cards        []models.Card
	MoneyInRound int
	Folded       bool
	LastAction   Action

	game *Game
}

// addToPot moves money from the seat into the pot.
func (p *PlayerInGame) addToPot(amount int) {
	p.Seat.SubtractMoney(amount)
	p.game.pot += amount
	p.MoneyInRound += amount
}

// act validates and applies a single move. Validation happens before any
// transfer, so a rejected action leaves the game untouched. Bet must be
// translated to raise by the caller.
func (p *PlayerInGame) act(what Action, maxBet, raiseAmount int) error {
	if p.Folded {
		return fmt.Errorf("%w: player %s already folded", ErrInvalidAction, p.Seat.Name())
	}
	toCall := maxBet - p.MoneyInRound
	switch what {
	case ActionCheck:
		if toCall > 0 {
			return fmt.Errorf("%w: invalid check, need to call %d", ErrInvalidAction, toCall)
		}
	case ActionCall:
		p.addToPot(toCall)
	case ActionRaise:
		if raiseAmount <= 0 {
			return fmt.Errorf("%w: invalid raise amount %d", ErrInvalidAction, raiseAmount)
		}
		p.addToPot(toCall + raiseAmount)
	case ActionFold:
		p.Folded = true
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidAction, what)
	}
	p.LastAction = what
	return nil
}

// PigState is the table-visible view of a PlayerInGame. Hole cards are
// never included here.
type PigState struct {
	Name          string `json:"name"`
	StartingMoney int    `json:"starting_money"`
	Money         int    `json:"money"`
	LastAction    Action `json:"last_action,omitempty"`
	MoneyInRound  int    `json:"money_in_round"`
	Folded        bool   `json:"folded"`
}

// GameState is the public, serializable state of a hand.
type GameState struct {
	CommunityCards []models.Card `json:"community_cards"`
	MoneyInPot     int           `json:"money_in_pot"`
	Button         int           `json:"button"`
	Round          int           `json:"round"`
	LastRaiser     int           `json:"last_raiser"`
	WaitingFor     int           `json:"waiting_for"`
	Deadline       time.Time     `json:"deadline"`
	RemainingTime  float64       `json:"remaining_time"`
	Pigs           []PigState    `json:"pigs"`
	Winners        []string      `json:"winners"`
	Finished       bool          `json:"finished"`
}

// NextActions tells clients whose turn it is and which moves are legal.
type NextActions struct {
	Player     string   `json:"player"`
	Actions    []Action `json:"actions"`
	CallAmount *int     `json:"call_amount"`
}

// PrivateCards is the per-player view: hole cards, plus the current best
// hand category once community cards are on the table.
type PrivateCards struct {
	Player string        `json:"player"`
	Cards  []models.Card `json:"cards"`
	Rank   string        `json:"rank,omitempty"`
}

// Game drives one hand of hold'em from the deal through settlement.
// Rounds 0..3 are preflop, flop, turn and river. The Table owning the
// game serializes access to it.
type Game struct {
	deck      *models.Deck
	evaluator *Evaluator
	pigs      []*PlayerInGame

	button     int
	round      int
	waitingFor int
	lastRaiser int

	timeout  time.Duration
	deadline time.Time

	communityCards []models.Card
	pot            int
	finished       bool
	winners        []string
}

// NewGame deals a fresh hand: two hole cards per seat in seating order,
// blinds posted by the two seats after the button, first action on the
// seat after the big blind.
func NewGame(seats []*Seat, button, smallBlind int, timeout time.Duration, evaluator *Evaluator) (*Game, error) {
	return newGame(seats, button, smallBlind, timeout, evaluator, models.NewDeck())
}

func newGame(seats []*Seat, button, smallBlind int, timeout time.Duration, evaluator *Evaluator, deck *models.Deck) (*Game, error) {
	n := len(seats)
	if n < 2 {
		return nil, fmt.Errorf("%w: not enough players", ErrInvalidAction)
	}
	g := &Game{
		deck:           deck,
		evaluator:      evaluator,
		button:         button,
		timeout:        timeout,
		communityCards: []models.Card{},
		winners:        []string{},
	}
	for i, seat := range seats {
		cards, err := deck.DrawN(2)
		if err != nil {
			return nil, err
		}
		pig := &PlayerInGame{Seat: seat, Cards: cards, game: g}
		g.pigs = append(g.pigs, pig)
		switch i {
		case (button + 1) % n:
			pig.addToPot(smallBlind)
		case (button + 2) % n:
			pig.addToPot(2 * smallBlind)
		}
	}
	g.waitingFor = (button + 3) % n
	// A full circle with no raise still ends the round.
	g.lastRaiser = g.waitingFor
	g.deadline = time.Now().Add(timeout)
	return g, nil
}

// Finished reports whether the hand is over.
func (g *Game) Finished() bool {
	return g.finished
}

// Pigs exposes the participation records in seating order.
func (g *Game) Pigs() []*PlayerInGame {
	return g.pigs
}

// Pot returns the total money wagered in this hand.
func (g *Game) Pot() int {
	return g.pot
}

// Winners returns the winner names once the hand has finished.
func (g *Game) Winners() []string {
	return g.winners
}

func (g *Game) actPig() *PlayerInGame {
	return g.pigs[g.waitingFor]
}

func (g *Game) maxBet() int {
	max := 0
	for _, p := range g.pigs {
		if !p.Folded && p.MoneyInRound > max {
			max = p.MoneyInRound
		}
	}
	return max
}

// Act applies one player's move and advances the turn, dealing community
// cards or settling the pot when the betting round or hand completes.
func (g *Game) Act(what Action, who string, raiseAmount int) error {
	if g.finished {
		return fmt.Errorf("%w: game has finished", ErrInvalidAction)
	}
	if g.actPig().Seat.Name() != who {
		return fmt.Errorf("%w: action from player %s but it's %s's turn",
			ErrInvalidAction, who, g.actPig().Seat.Name())
	}
	if what == ActionBet {
		what = ActionRaise
	}
	if err := g.actPig().act(what, g.maxBet(), raiseAmount); err != nil {
		return err
	}
	if what == ActionRaise {
		g.lastRaiser = g.waitingFor
	}

	still := g.stillPlaying()
	if err := g.advanceTurn(len(still)); err != nil {
		return err
	}
	if g.finished {
		return g.settle(still)
	}
	return nil
}

func (g *Game) stillPlaying() []*PlayerInGame {
	var still []*PlayerInGame
	for _, p := range g.pigs {
		if !p.Folded {
			still = append(still, p)
		}
	}
	return still
}

// advanceTurn moves waitingFor to the next seat still in the hand. When
// action returns to lastRaiser the betting round is complete: burn a card,
// reveal the flop/turn/river, and hand the action back to the first live
// seat after the button, or finish after the river.
func (g *Game) advanceTurn(stillPlaying int) error {
	if stillPlaying == 1 {
		g.finished = true
		return nil
	}
	n := len(g.pigs)
	for {
		g.waitingFor = (g.waitingFor + 1) % n
		if g.waitingFor == g.lastRaiser {
			break
		}
		if !g.actPig().Folded {
			break
		}
	}

	if g.waitingFor == g.lastRaiser {
		g.round++
		switch g.round {
		case 1:
			if err := g.revealCommunity(3); err != nil {
				return err
			}
		case 2, 3:
			if err := g.revealCommunity(1); err != nil {
				return err
			}
		default:
			g.finished = true
			return nil
		}
		for _, p := range g.pigs {
			p.MoneyInRound = 0
		}
		// waitingFor must always land on a live seat.
		g.waitingFor = (g.button + 1) % n
		for g.actPig().Folded {
			g.waitingFor = (g.waitingFor + 1) % n
		}
		g.lastRaiser = g.waitingFor
	}
	g.deadline = time.Now().Add(g.timeout)
	return nil
}

// revealCommunity burns one card and turns over n community cards.
func (g *Game) revealCommunity(n int) error {
	if _, err := g.deck.Draw(); err != nil {
		return err
	}
	cards, err := g.deck.DrawN(n)
	if err != nil {
		return err
	}
	g.communityCards = append(g.communityCards, cards...)
	return nil
}

// settle awards the pot. With one player left they take everything;
// otherwise the best evaluated hand wins and ties split the pot equally,
// the integer remainder going to the first tied winner in seat order.
func (g *Game) settle(still []*PlayerInGame) error {
	var winners []*Seat
	if len(still) == 1 {
		winners = []*Seat{still[0].Seat}
	} else {
		var ranks []Rank
		best := Rank{}
		for _, p := range still {
			cards := append(append([]models.Card{}, g.communityCards...), p.Cards...)
			_, r, err := g.evaluator.BestHand(cards)
			if err != nil {
				return err
			}
			ranks = append(ranks, r)
			if r.Compare(best) > 0 {
				best = r
			}
		}
		for i, p := range still {
			if ranks[i].Compare(best) == 0 {
				winners = append(winners, p.Seat)
			}
		}
	}
	share := g.pot / len(winners)
	for _, w := range winners {
		w.AddMoney(share)
	}
	winners[0].AddMoney(g.pot - share*len(winners))
	g.winners = g.winners[:0]
	for _, w := range winners {
		g.winners = append(g.winners, w.Name())
	}
	return nil
}

// State builds the public snapshot of the hand.
func (g *Game) State() GameState {
	remaining := time.Until(g.deadline).Seconds()
	if remaining < 0 {
		remaining = 0
	}
	st := GameState{
		CommunityCards: g.communityCards,
		MoneyInPot:     g.pot,
		Button:         g.button,
		Round:          g.round,
		LastRaiser:     g.lastRaiser,
		WaitingFor:     g.waitingFor,
		Deadline:       g.deadline,
		RemainingTime:  remaining,
		Winners:        g.winners,
		Finished:       g.finished,
	}
	for _, p := range g.pigs {
		seat := p.Seat.State()
		st.Pigs = append(st.Pigs, PigState{
			Name:          seat.Name,
			StartingMoney: seat.StartingMoney,
			Money:         seat.Money,
			LastAction:    p.LastAction,
			MoneyInRound:  p.MoneyInRound,
			Folded:        p.Folded,
		})
	}
	return st
}

// NextActions describes the legal moves for the seat holding the action.
func (g *Game) NextActions() NextActions {
	act := g.actPig()
	res := NextActions{
		Player:  act.Seat.Name(),
		Actions: []Action{ActionFold},
	}
	maxBet := g.maxBet()
	if maxBet <= act.MoneyInRound {
		res.Actions = append(res.Actions, ActionCheck)
	} else {
		res.Actions = append(res.Actions, ActionCall)
		call := maxBet - act.MoneyInRound
		res.CallAmount = &call
	}
	if act.Seat.Money > 0 {
		if maxBet == 0 {
			res.Actions = append(res.Actions, ActionBet)
		} else {
			res.Actions = append(res.Actions, ActionRaise)
		}
	}
	return res
}

// PrivateCards builds the view only the given player may see.
func (g *Game) PrivateCards(p *PlayerInGame) (PrivateCards, error) {
	pc := PrivateCards{Player: p.Seat.Name(), Cards: p.Cards}
	if g.round > 0 {
		cards := append(append([]models.Card{}, g.communityCards...), p.Cards...)
		_, r, err := g.evaluator.BestHand(cards)
		if err != nil {
			return PrivateCards{}, err
		}
		pc.Rank = r.Category.String()
	}
	return pc, nil
}
