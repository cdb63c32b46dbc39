// internal/queue/queue.go
package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vadr-vr/vrtrace/internal/types"
)

// storageKey holds the serialized queue in external storage, matching the
// local-storage key of the original web SDK.
const storageKey = "__vadrDataStorage"

// ErrEmpty signals an empty queue. Expected during normal operation, not a fault.
var ErrEmpty = errors.New("queue empty")

// persisted is the storage layout: one key holding the full list.
type persisted struct {
	List []string `json:"list"`
}

// Queue is a durable FIFO of serialized request payloads. The in-memory list
// is authoritative; every mutation is written through to storage before
// returning, and a failed sync is logged rather than surfaced so no payload
// is lost for the lifetime of the process.
type Queue struct {
	mu    sync.Mutex
	kv    types.KV
	log   *slog.Logger
	items []string
}

// Load reads any previously persisted queue from storage; absent storage
// starts the queue empty. A nil log falls back to the default logger.
func Load(kv types.KV, log *slog.Logger) (*Queue, error) {
	if log == nil {
		log = slog.Default()
	}
	q := &Queue{kv: kv, log: log}

	raw, ok, err := kv.Get(storageKey)
	if err != nil {
		return nil, fmt.Errorf("read persisted queue: %w", err)
	}
	if !ok {
		return q, nil
	}

	var p persisted
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("unmarshal persisted queue: %w", err)
	}
	q.items = p.List
	return q, nil
}

// sync writes the whole list through to storage. Caller must hold the lock.
// Storage failure is fail-soft: the in-memory list stays authoritative.
func (q *Queue) sync() {
	raw, err := json.Marshal(persisted{List: append([]string{}, q.items...)})
	if err != nil {
		q.log.Warn("queue marshal failed", "error", err)
		return
	}
	if err := q.kv.Put(storageKey, raw); err != nil {
		q.log.Warn("queue persist failed", "size", len(q.items), "error", err)
	}
}

// Enqueue appends a payload to the tail and syncs storage before returning.
func (q *Queue) Enqueue(payload []byte) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.items = append(q.items, string(payload))
	q.sync()
}

// DequeueFront pops the oldest payload and syncs storage. Returns ErrEmpty
// when nothing remains.
func (q *Queue) DequeueFront() ([]byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return nil, ErrEmpty
	}
	head := q.items[0]
	q.items = q.items[1:]
	q.sync()
	return []byte(head), nil
}

// Len returns the number of queued payloads.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
