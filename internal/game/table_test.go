// internal/game/table_test.go
package game

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarasz/holdem/internal/models"
)

// recorder collects published events instead of delivering them.
type recorder struct {
	mu     sync.Mutex
	events []*models.Event
}

func (r *recorder) Notify(ev *models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) byChannel(channel string) []*models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Event
	for _, ev := range r.events {
		if ev.Channel == channel {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func player(name string) *models.Player {
	return &models.Player{ID: uuid.New(), Name: name}
}

func testTableConfig() TableConfig {
	return TableConfig{StartingMoney: 1000, SmallBlind: 10, ActionTimeout: time.Minute}
}

func newTestTable(t *testing.T, name string) (*Table, *recorder) {
	t.Helper()
	rec := &recorder{}
	return NewTable(name, player("alice"), testTableConfig(), rec, NewEvaluator(), testLogger()), rec
}

func TestAddPlayerIdempotent(t *testing.T) {
	table, _ := newTestTable(t, "main")

	s1 := table.AddPlayer(player("bob"))
	s2 := table.AddPlayer(player("bob"))
	assert.Same(t, s1, s2)
	assert.NotNil(t, table.Seat("alice"))
	assert.NotNil(t, table.Seat("bob"))
	assert.Nil(t, table.Seat("carol"))
}

func TestStartGameRequiresTwoPlayers(t *testing.T) {
	table, _ := newTestTable(t, "main")
	assert.ErrorIs(t, table.StartGame(), ErrInvalidAction)

	table.AddPlayer(player("bob"))
	require.NoError(t, table.StartGame())
	assert.NotNil(t, table.Game())
}

func TestStartGameWhileOngoing(t *testing.T) {
	table, _ := newTestTable(t, "main")
	table.AddPlayer(player("bob"))
	require.NoError(t, table.StartGame())
	assert.ErrorIs(t, table.StartGame(), ErrInvalidAction)
}

func TestJoinDuringHandWaitsForNextOne(t *testing.T) {
	table, _ := newTestTable(t, "main")
	table.AddPlayer(player("bob"))
	require.NoError(t, table.StartGame())

	table.AddPlayer(player("carol"))
	assert.Len(t, table.Game().Pigs(), 2, "late joiner must not enter the live hand")
	assert.NotNil(t, table.Seat("carol"))

	// Bob folds, the hand ends, the next one includes carol.
	require.NoError(t, table.Act(ActionFold, "bob", 0))
	require.True(t, table.Game().Finished())
	require.NoError(t, table.StartGame())
	assert.Len(t, table.Game().Pigs(), 3)
}

func TestTableEmitsEventsOnStart(t *testing.T) {
	table, rec := newTestTable(t, "main")
	table.AddPlayer(player("bob"))
	require.NoError(t, table.StartGame())

	tableEvents := rec.byChannel("table-main")
	require.Len(t, tableEvents, 2)
	assert.Equal(t, models.EventGameState, tableEvents[0].Evt.Type)
	assert.Equal(t, models.EventWhosNext, tableEvents[1].Evt.Type)

	// Hole cards go to the private per-player channels.
	alice := rec.byChannel("player-alice:main")
	require.Len(t, alice, 1)
	assert.Equal(t, models.EventPlayerCards, alice[0].Evt.Type)
	pc, ok := alice[0].Evt.Event.(PrivateCards)
	require.True(t, ok)
	assert.Equal(t, "alice", pc.Player)
	assert.Len(t, pc.Cards, 2)
}

func TestTableRevealsCardsAtShowdown(t *testing.T) {
	table, rec := newTestTable(t, "main")
	table.AddPlayer(player("bob"))
	require.NoError(t, table.StartGame())
	rec.clear()

	require.NoError(t, table.Act(ActionFold, "bob", 0))
	require.True(t, table.Game().Finished())

	// After the hand every PlayerCardsEvent lands on the public channel.
	assert.Empty(t, rec.byChannel("player-alice:main"))
	assert.Empty(t, rec.byChannel("player-bob:main"))
	tableEvents := rec.byChannel("table-main")
	var reveals int
	for _, ev := range tableEvents {
		if ev.Evt.Type == models.EventPlayerCards {
			reveals++
		}
	}
	assert.Equal(t, 2, reveals)
}

func TestTableActWithoutGame(t *testing.T) {
	table, rec := newTestTable(t, "main")
	require.NoError(t, table.Act(ActionCheck, "alice", 0))
	assert.Empty(t, rec.byChannel("table-main"))
}

func TestButtonRotatesBetweenHands(t *testing.T) {
	table, _ := newTestTable(t, "main")
	table.AddPlayer(player("bob"))
	table.AddPlayer(player("carol"))

	require.NoError(t, table.StartGame())
	first := table.Game().State().Button

	require.NoError(t, table.Act(ActionFold, table.Game().NextActions().Player, 0))
	require.NoError(t, table.Act(ActionFold, table.Game().NextActions().Player, 0))
	require.True(t, table.Game().Finished())

	require.NoError(t, table.StartGame())
	assert.Equal(t, (first+1)%3, table.Game().State().Button)
}

func TestTableStore(t *testing.T) {
	store := NewTableStore(testTableConfig(), &recorder{}, NewEvaluator(), testLogger())

	_, err := store.Create("main", player("alice"))
	require.NoError(t, err)
	_, err = store.Create("main", player("bob"))
	assert.ErrorIs(t, err, ErrTableExists)

	assert.NotNil(t, store.Get("main"))
	assert.Nil(t, store.Get("other"))

	_, err = store.Create("alpha", player("carol"))
	require.NoError(t, err)
	assert.Equal(t, []string{"dummy", "alpha", "main"}, store.Names())
}
