package hub

import (
	"context"
	"time"
)

// Entity is one monitored device in the hub's registry. Entities are
// enumerated fresh on every snapshot request and never cached here.
type Entity struct {
	ID          int
	Description string
	States      []AttributeState
}

// AttributeState is one (class, attribute, value) triple reported by the
// hub for an entity at a point in time. Values are raw hub strings.
type AttributeState struct {
	Class     string
	Attribute string
	Value     string
	Observed  time.Time
}

// ChangeEvent describes one state mutation delivered by the hub.
// OldValue is nil for an attribute seen for the first time; NewValue is
// nil when the hub drops the attribute.
type ChangeEvent struct {
	EntityID  int
	Class     string
	Attribute string
	OldValue  *string
	NewValue  *string
}

// ChangeFunc receives change events for a subscribed class
type ChangeFunc func(ChangeEvent)

// Enumerator yields the full entity population with current state.
// Enumeration is synchronous, idempotent and side-effect-free.
type Enumerator interface {
	Enumerate(ctx context.Context) ([]Entity, error)
}

// Subscriber registers class-scoped change subscriptions. The hub
// delivers all matching events regardless of entity.
type Subscriber interface {
	Subscribe(class string, fn ChangeFunc) error
}
