// internal/broker/broker.go
package broker

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mkarasz/holdem/internal/models"
)

// ErrMultiplePrivateChannels is returned by NeedsAuth when one subscribe
// request names private channels of more than one player.
var ErrMultiplePrivateChannels = errors.New("cannot subscribe to more than one player's private channels")

// Callback receives published events for one subscription. A nil event is
// the connection-closed sentinel: the callback must shut down its stream,
// and the transport side is responsible for unsubscribing.
type Callback func(ev *models.Event)

// subscription is one channel binding. A connection usually holds several,
// one per channel, sharing a connection id.
type subscription struct {
	channel string
	connID  string
	cb      Callback
}

var (
	tableChannelRe  = regexp.MustCompile(`^table-([^:]+)`)
	playerChannelRe = regexp.MustCompile(`^player-([^:]+):`)
)

// Broker is the channel-addressed publish/subscribe registry. Notify
// delivers synchronously, in registration order, to every subscription
// whose channel matches exactly. A lazily started heartbeat keeps idle
// connections alive through intermediaries.
type Broker struct {
	mu     sync.Mutex
	subs   []*subscription
	nextID int64

	heartbeatEvery time.Duration
	heartbeatOn    bool
	stop           chan struct{}
	stopOnce       sync.Once

	// replayTable, when set, is invoked with the table name on every
	// subscribe that includes a table channel. It closes over the table
	// repository so the new subscriber immediately receives the current
	// state instead of racing an explicit resend request.
	replayTable func(table string)

	logger *logrus.Logger
}

// New builds a broker. The heartbeat ticker starts with the first
// subscription.
func New(logger *logrus.Logger, heartbeatEvery time.Duration) *Broker {
	return &Broker{
		nextID:         1,
		heartbeatEvery: heartbeatEvery,
		stop:           make(chan struct{}),
		logger:         logger,
	}
}

// SetTableReplay installs the table state replay hook.
func (b *Broker) SetTableReplay(fn func(table string)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replayTable = fn
}

// Subscribe registers the callback on every listed channel under the given
// connection id and returns a handle that removes all of them. Calling the
// handle more than once is harmless.
func (b *Broker) Subscribe(channels []string, connID string, cb Callback) (unsubscribe func()) {
	created := make([]*subscription, 0, len(channels))
	b.mu.Lock()
	b.startHeartbeatLocked()
	for _, ch := range channels {
		s := &subscription{channel: ch, connID: connID, cb: cb}
		b.subs = append(b.subs, s)
		created = append(created, s)
	}
	replay := b.replayTable
	b.mu.Unlock()

	b.logger.WithFields(logrus.Fields{"channels": channels, "conn_id": connID}).Debug("broker: subscribe")

	if replay != nil {
		if table := tableName(channels); table != "" {
			replay(table)
		}
	}
	return func() { b.remove(created) }
}

// tableName extracts the first table a channel list refers to.
func tableName(channels []string) string {
	for _, ch := range channels {
		if m := tableChannelRe.FindStringSubmatch(ch); m != nil {
			return m[1]
		}
	}
	return ""
}

func (b *Broker) remove(subs []*subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, target := range subs {
		for i, s := range b.subs {
			if s == target {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				b.logger.Debugf("broker: subscriber on channel %s with id %s removed", s.channel, s.connID)
				break
			}
		}
	}
}

// Notify assigns the event its id and delivers it to every subscription on
// the event's channel, in registration order. Delivery happens outside the
// registry lock so a callback may itself publish.
func (b *Broker) Notify(ev *models.Event) {
	b.mu.Lock()
	ev.ID = b.nextID
	b.nextID++
	matched := make([]*subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.channel == ev.Channel {
			matched = append(matched, s)
		}
	}
	b.mu.Unlock()

	b.logger.Debugf("broker: notify(%s) to %d subscriber(s)", ev, len(matched))
	for _, s := range matched {
		b.deliver(s, ev)
	}
}

// deliver shields the fan-out from a misbehaving callback; one panicking
// subscriber must not cut off the rest.
func (b *Broker) deliver(s *subscription, ev *models.Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf("broker: callback for %s (conn %s) panicked: %v", s.channel, s.connID, r)
		}
	}()
	s.cb(ev)
}

// CloseConnection pushes the closed sentinel to every subscription held by
// the connection id and reports whether any matched. The subscriptions
// themselves are removed by the transport teardown each sentinel triggers.
func (b *Broker) CloseConnection(connID string) bool {
	b.mu.Lock()
	var matched []*subscription
	for _, s := range b.subs {
		if s.connID == connID {
			matched = append(matched, s)
		}
	}
	b.mu.Unlock()

	b.logger.Debugf("broker: close connection %s (%d subscription(s))", connID, len(matched))
	for _, s := range matched {
		// Shared callbacks see this once per channel; closing an already
		// closed stream is a no-op for them.
		b.deliver(s, nil)
	}
	return len(matched) > 0
}

// NeedsAuth inspects the channel list for private player channels
// ("player-<name>:<suffix>") and returns the single owner name they refer
// to, or empty if none. Mixing private channels of different players in
// one request is rejected.
func NeedsAuth(channels []string) (string, error) {
	owner := ""
	for _, ch := range channels {
		m := playerChannelRe.FindStringSubmatch(ch)
		if m == nil {
			continue
		}
		if owner != "" && owner != m[1] {
			return "", fmt.Errorf("%w: %s and %s", ErrMultiplePrivateChannels, owner, m[1])
		}
		owner = m[1]
	}
	return owner, nil
}

// startHeartbeatLocked launches the heartbeat ticker once. Ticks go to
// every subscriber regardless of channel so that long-lived connections
// always see periodic traffic.
func (b *Broker) startHeartbeatLocked() {
	if b.heartbeatOn || b.heartbeatEvery <= 0 {
		return
	}
	b.heartbeatOn = true
	b.logger.Debug("broker: starting heartbeat ticker")
	go func() {
		ticker := time.NewTicker(b.heartbeatEvery)
		defer ticker.Stop()
		for {
			select {
			case <-b.stop:
				return
			case <-ticker.C:
				b.tick()
			}
		}
	}()
}

func (b *Broker) tick() {
	ev := models.NewEvent("", models.EventTick, map[string]any{})
	b.mu.Lock()
	ev.ID = b.nextID
	b.nextID++
	all := append([]*subscription(nil), b.subs...)
	b.mu.Unlock()

	for _, s := range all {
		b.deliver(s, ev)
	}
}

// Close stops the heartbeat. Registered subscriptions stay valid; this is
// process-teardown cleanup, not a mass disconnect.
func (b *Broker) Close() {
	b.stopOnce.Do(func() { close(b.stop) })
}
