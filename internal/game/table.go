// internal/game/table.go
package game

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mkarasz/holdem/internal/models"
)

// Notifier publishes events to subscribers. Satisfied by broker.Broker;
// tests plug in a recorder.
type Notifier interface {
	Notify(ev *models.Event)
}

// TableConfig carries the per-table game parameters.
type TableConfig struct {
	StartingMoney int
	SmallBlind    int
	ActionTimeout time.Duration
}

// Table owns its seating order (which is also betting order) and at most
// one live Game. Players joining mid-hand wait in pending until the next
// hand starts. All access goes through the table mutex; event emission
// happens inside it, which is safe because subscriber callbacks only
// enqueue.
type Table struct {
	mu sync.Mutex

	name    string
	owner   *Seat
	seats   []*Seat
	pending []*Seat

	game   *Game
	button int

	cfg       TableConfig
	notifier  Notifier
	evaluator *Evaluator
	logger    *logrus.Logger
}

// NewTable seats the owner and leaves the table idle until StartGame.
func NewTable(name string, owner *models.Player, cfg TableConfig, notifier Notifier, evaluator *Evaluator, logger *logrus.Logger) *Table {
	t := &Table{
		name:      name,
		cfg:       cfg,
		notifier:  notifier,
		evaluator: evaluator,
		logger:    logger,
	}
	t.owner = newSeat(owner, cfg.StartingMoney)
	t.seats = []*Seat{t.owner}
	return t
}

func (t *Table) Name() string {
	return t.name
}

// Owner returns the seat of the table's creator.
func (t *Table) Owner() *Seat {
	return t.owner
}

// Seat finds a seated player by name, nil if absent.
func (t *Table) Seat(name string) *Seat {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seatLocked(name)
}

func (t *Table) seatLocked(name string) *Seat {
	for _, s := range t.seats {
		if s.Name() == name {
			return s
		}
	}
	for _, s := range t.pending {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// AddPlayer seats a player, or returns their existing seat (joining is
// idempotent by name). While a hand is running the player is queued and
// merged in at the next StartGame.
func (t *Table) AddPlayer(p *models.Player) *Seat {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s := t.seatLocked(p.Name); s != nil {
		t.logger.Debugf("table %s: player %s already seated", t.name, p.Name)
		return s
	}
	s := newSeat(p, t.cfg.StartingMoney)
	if t.game != nil && !t.game.Finished() {
		t.pending = append(t.pending, s)
	} else {
		t.seats = append(t.seats, s)
	}
	return s
}

// StartGame merges pending joiners, deals a new hand at the current button
// and rotates the button for the next one.
func (t *Table) StartGame() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.seats = append(t.seats, t.pending...)
	t.pending = nil

	if len(t.seats) < 2 {
		return fmt.Errorf("%w: not enough players", ErrInvalidAction)
	}
	if t.game != nil && !t.game.Finished() {
		return fmt.Errorf("%w: a game is ongoing", ErrInvalidAction)
	}

	g, err := NewGame(t.seats, t.button, t.cfg.SmallBlind, t.cfg.ActionTimeout, t.evaluator)
	if err != nil {
		return err
	}
	t.game = g
	t.button = (t.button + 1) % len(t.seats)
	t.logger.WithFields(logrus.Fields{"table": t.name, "players": len(t.seats)}).Info("hand started")
	t.emitEventsLocked()
	return nil
}

// Game returns the current hand, nil before the first StartGame.
func (t *Table) Game() *Game {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.game
}

// Act forwards a player action to the current game and publishes the
// resulting state. Without a game it is a no-op.
func (t *Table) Act(what Action, who string, raiseAmount int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.game == nil {
		return nil
	}
	if err := t.game.Act(what, who, raiseAmount); err != nil {
		return err
	}
	t.emitEventsLocked()
	return nil
}

// EmitEvents republishes the current game state, e.g. for a fresh
// subscriber catching up.
func (t *Table) EmitEvents() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.emitEventsLocked()
}

func (t *Table) emitEventsLocked() {
	if t.game == nil {
		return
	}
	tableCh := "table-" + t.name
	t.notifier.Notify(models.NewEvent(tableCh, models.EventGameState, t.game.State()))
	t.notifier.Notify(models.NewEvent(tableCh, models.EventWhosNext, t.game.NextActions()))
	for _, pig := range t.game.Pigs() {
		ch := tableCh
		if !t.game.Finished() {
			// Hole cards stay on the player's private table channel until
			// the showdown reveals them.
			ch = "player-" + pig.Seat.Name() + ":" + t.name
		}
		pc, err := t.game.PrivateCards(pig)
		if err != nil {
			t.logger.WithError(err).Errorf("table %s: building private state for %s", t.name, pig.Seat.Name())
			continue
		}
		t.notifier.Notify(models.NewEvent(ch, models.EventPlayerCards, pc))
	}
}

// TableStore is the process-wide table repository.
type TableStore struct {
	mu     sync.Mutex
	tables map[string]*Table

	cfg       TableConfig
	notifier  Notifier
	evaluator *Evaluator
	logger    *logrus.Logger
}

// NewTableStore builds an empty repository; tables created through it share
// the notifier, evaluator and config.
func NewTableStore(cfg TableConfig, notifier Notifier, evaluator *Evaluator, logger *logrus.Logger) *TableStore {
	return &TableStore{
		tables:    make(map[string]*Table),
		cfg:       cfg,
		notifier:  notifier,
		evaluator: evaluator,
		logger:    logger,
	}
}

// Create registers a new table owned by the given player.
func (s *TableStore) Create(name string, owner *models.Player) (*Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tables[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrTableExists, name)
	}
	t := NewTable(name, owner, s.cfg, s.notifier, s.evaluator, s.logger)
	s.tables[name] = t
	return t, nil
}

// Get returns the named table, nil if absent.
func (s *TableStore) Get(name string) *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tables[name]
}

// Names lists all table names. The leading "dummy" entry is kept for
// clients that probe the endpoint before any table exists.
func (s *TableStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tables)+1)
	names = append(names, "dummy")
	for n := range s.tables {
		names = append(names, n)
	}
	sort.Strings(names[1:])
	return names
}
