// Package queue implements the ack-gated control write queue: at most
// one vendor control transfer is ever in flight, and the next queued
// write is only submitted once the device acknowledges the previous one.
package queue

import (
	"fmt"
	"sync"

	"ledkbd/internal/driver/drivererr"
	"ledkbd/internal/driver/usbhal"
	"ledkbd/internal/driver/wire"
)

// ControlQueue serializes outbound control writes behind the device's
// single-in-flight ack protocol. Enqueue is safe to call from any
// goroutine; ReleaseNext is expected to be driven by the event loop each
// time parser.ControlParser recognizes an ack.
type ControlQueue struct {
	transport usbhal.Interface

	mu        sync.Mutex
	pending   []wire.Payload
	inFlight  bool
}

// New returns an empty ControlQueue that submits writes through transport.
func New(transport usbhal.Interface) *ControlQueue {
	return &ControlQueue{transport: transport}
}

// Enqueue appends p to the queue. If nothing is currently in flight, p is
// submitted immediately; otherwise it waits for ReleaseNext.
func (q *ControlQueue) Enqueue(p wire.Payload) error {
	q.mu.Lock()
	if q.inFlight {
		q.pending = append(q.pending, p)
		q.mu.Unlock()
		return nil
	}
	q.inFlight = true
	q.mu.Unlock()

	if err := q.transport.ControlOut(p); err != nil {
		q.mu.Lock()
		q.inFlight = false
		q.mu.Unlock()
		return fmt.Errorf("submit control write: %w", err)
	}
	return nil
}

// ReleaseNext is called when the control parser recognizes an
// acknowledgement. It clears the in-flight flag and, if anything is
// queued, submits the next payload. Calling ReleaseNext with nothing in
// flight and nothing queued reports drivererr.ErrQueueBroken.
func (q *ControlQueue) ReleaseNext() error {
	q.mu.Lock()
	if !q.inFlight {
		q.mu.Unlock()
		return drivererr.ErrQueueBroken
	}
	q.inFlight = false

	if len(q.pending) == 0 {
		q.mu.Unlock()
		return nil
	}

	next := q.pending[0]
	q.pending = q.pending[1:]
	q.inFlight = true
	q.mu.Unlock()

	if err := q.transport.ControlOut(next); err != nil {
		q.mu.Lock()
		q.inFlight = false
		q.mu.Unlock()
		return fmt.Errorf("submit queued control write: %w", err)
	}
	return nil
}

// Len reports how many writes are waiting behind the in-flight one.
func (q *ControlQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
