// internal/types/interfaces.go
package types

import "context"

// KV is the durable key-value storage behind the persisted request queue and
// the identity records. Implementations sync every mutation before returning.
type KV interface {
	Get(key string) (value []byte, ok bool, err error)
	Put(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Disposition is the outcome of a delivery attempt that reached the server.
type Disposition int

const (
	// Delivered means the collector accepted the payload.
	Delivered Disposition = iota
	// Discard means the collector rejected the payload permanently; the
	// worker advances without re-enqueueing.
	Discard
)

// Sender posts one serialized payload to the remote collector. A non-nil
// error marks the attempt transient and eligible for retry.
type Sender interface {
	Send(ctx context.Context, payload []byte) (Disposition, error)
}
