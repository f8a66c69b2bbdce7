package events

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

type Event interface {
	Kind() Kind
	ID() string
	Timestamp() time.Time
}

type Base struct {
	id        string
	kind      Kind
	timestamp time.Time
}

func NewBase(kind Kind) Base {
	return Base{id: uuid.NewString(), kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

// ID identifies one delivery of an event. The reconciler compares IDs to
// guard against the same event being handed to it twice.
func (b Base) ID() string {
	return b.id
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
