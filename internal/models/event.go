// internal/models/event.go
package models

import (
	"fmt"
	"time"
)

// EventType tags the kind of payload an Event carries. The names are part
// of the wire protocol.
type EventType string

const (
	EventGameState   EventType = "GameStateEvent"
	EventWhosNext    EventType = "WhosNextEvent"
	EventPlayerCards EventType = "PlayerCardsEvent"
	EventMessage     EventType = "MessageEvent"
	EventTick        EventType = "TickEvent"
)

// EventBody is the typed inner envelope of an Event.
type EventBody struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Event     any       `json:"event"`
}

// Event is a single notification addressed to one channel. The broker
// assigns IDs monotonically when the event is published.
type Event struct {
	Channel string    `json:"channel"`
	ID      int64     `json:"id"`
	Evt     EventBody `json:"evt"`
}

// NewEvent stamps an event with the current time. The ID stays zero until
// the broker publishes it.
func NewEvent(channel string, typ EventType, payload any) *Event {
	return &Event{
		Channel: channel,
		Evt: EventBody{
			Timestamp: time.Now(),
			Type:      typ,
			Event:     payload,
		},
	}
}

func (e *Event) String() string {
	return fmt.Sprintf("%s:%s:%d", e.Evt.Type, e.Channel, e.ID)
}
