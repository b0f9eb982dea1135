package journal

import (
	"context"
	"time"
)

// Collector records every line-protocol record handed to the
// transport. It is an audit trail, not a delivery queue: entries are
// written after the send and never replayed.
type Collector interface {
	Record(ctx context.Context, entry *Entry) error
	Close() error
}

// Repository defines the interface for journal storage
type Repository interface {
	Record(entry *Entry) error
	Close() error
}

// Entry is one journaled record. SentAt is the observation timestamp
// the wire format deliberately omits.
type Entry struct {
	SentAt time.Time
	Host   string
	Key    string
	Value  string
}
