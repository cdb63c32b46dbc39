// internal/delivery/worker.go
package delivery

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/vadr-vr/vrtrace/internal/queue"
	"github.com/vadr-vr/vrtrace/internal/types"
)

// Worker drains the persisted queue to the collector, one payload in flight
// at a time. On success it proceeds immediately to the next payload; on a
// transient failure it re-enqueues the payload at the tail and schedules a
// single retry sweep after a fixed delay. Newly scheduled sweeps cancel any
// pending one, so sweeps never pile up during an outage.
type Worker struct {
	queue      *queue.Queue
	sender     types.Sender
	retryDelay time.Duration
	log        *slog.Logger

	// inflight is the single-flight guard: one drain at a time, ever.
	inflight *semaphore.Weighted
	stopped  atomic.Bool

	mu         sync.Mutex
	retryTimer *time.Timer

	wg sync.WaitGroup
}

// NewWorker creates a Worker over the queue and sender. A nil log falls back
// to the default logger.
func NewWorker(q *queue.Queue, sender types.Sender, retryDelay time.Duration, log *slog.Logger) *Worker {
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		queue:      q,
		sender:     sender,
		retryDelay: retryDelay,
		log:        log,
		inflight:   semaphore.NewWeighted(1),
	}
}

// Wake starts a drain unless one is already in flight or the worker has been
// stopped. Called after every enqueue and by the retry timer.
func (w *Worker) Wake() {
	if w.stopped.Load() {
		return
	}
	if !w.inflight.TryAcquire(1) {
		return
	}
	w.wg.Add(1)
	go w.drain()
}

func (w *Worker) drain() {
	defer w.wg.Done()

	for {
		payload, err := w.queue.DequeueFront()
		if errors.Is(err, queue.ErrEmpty) {
			w.inflight.Release(1)
			// An enqueue between the empty dequeue and the release has lost
			// its wake; pick it up here.
			if w.queue.Len() > 0 {
				w.Wake()
			}
			return
		}
		if err != nil {
			w.log.Error("queue dequeue failed", "error", err)
			w.inflight.Release(1)
			return
		}

		// Sends survive teardown on purpose: a response arriving after Stop
		// only touches the persisted queue, which outlives the process.
		disposition, err := w.sender.Send(context.Background(), payload)
		if err != nil {
			w.log.Warn("payload delivery failed, requeueing", "error", err, "queued", w.queue.Len()+1)
			w.queue.Enqueue(payload)
			w.inflight.Release(1)
			w.scheduleRetry()
			return
		}
		if disposition == types.Discard {
			w.log.Info("payload dropped on server instruction")
		} else {
			w.log.Debug("payload delivered", "remaining", w.queue.Len())
		}
	}
}

// scheduleRetry arms the retry sweep, replacing any pending one.
func (w *Worker) scheduleRetry() {
	if w.stopped.Load() {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.retryTimer != nil {
		w.retryTimer.Stop()
	}
	w.retryTimer = time.AfterFunc(w.retryDelay, w.Wake)
}

// Stop clears any pending retry timer and prevents new drains. An in-flight
// send is not aborted; its completion is harmless since the queue persists.
func (w *Worker) Stop() {
	w.stopped.Store(true)
	w.mu.Lock()
	if w.retryTimer != nil {
		w.retryTimer.Stop()
		w.retryTimer = nil
	}
	w.mu.Unlock()
}

// WaitIdle blocks until any in-flight drain finishes, or the timeout expires.
// Reports true if idle. Used by the CLI drain command and tests.
func (w *Worker) WaitIdle(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
