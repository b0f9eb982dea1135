package transport

// Channel is the write-only streaming connection to the collector
// sender. Delivery is fire-and-forget: no acknowledgment is read back,
// reliability is the sender process's own concern. Send is safe for
// concurrent use; records never interleave.
type Channel interface {
	Send(record []byte) error
	Close() error
}
