// Package eventbus routes named events to in-process subscribers.
// It knows nothing about leads or analyses; those events live in internal/events.
package eventbus

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event is anything that can be routed by name.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// Meta is embedded by concrete events to carry identity and time.
type Meta struct {
	EventID uuid.UUID `json:"eventId"`
	At      time.Time `json:"occurredAt"`
}

// NewMeta stamps a fresh event ID and the current UTC time.
func NewMeta() Meta {
	return Meta{EventID: uuid.New(), At: time.Now().UTC()}
}

func (m Meta) OccurredAt() time.Time { return m.At }

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a closure subscribe.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus is implemented by InMemoryBus and by recording fakes in tests.
// Publish is fire-and-forget; PublishSync returns the joined handler errors.
type Bus interface {
	Publish(ctx context.Context, event Event)
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
