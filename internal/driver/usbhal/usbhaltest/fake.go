// Package usbhaltest provides a fake usbhal.Interface for tests that
// exercise the driver with the device mocked at the USB boundary, as
// required by the testable properties in SPEC_FULL.md.
package usbhaltest

import (
	"sync"
	"time"

	"ledkbd/internal/driver/usbhal"
	"ledkbd/internal/driver/wire"
)

// Fake records every control write submitted to it and lets a test feed
// back synthetic completions (key reports, control acks, or simulated
// USB errors) through Feed.
type Fake struct {
	mu sync.Mutex

	// Sent holds every payload passed to ControlOut, in submission order.
	Sent []wire.Payload

	// ControlOutErr, if set, is returned by the next ControlOut call.
	ControlOutErr error

	pending []completionOrErr

	// ReleaseCount counts calls to Release.
	ReleaseCount int
	// ReconnectCount counts calls to Reconnect.
	ReconnectCount int
	// ReconnectErrs is popped front-to-back on each Reconnect call; once
	// empty, Reconnect succeeds.
	ReconnectErrs []error

	// KernelDriverAttached simulates which interfaces had a kernel driver
	// attached at acquire time, for teardown-reattach assertions.
	KernelDriverAttached map[int]bool
	// Reattached records interfaces whose kernel driver was reattached by
	// a simulated Release.
	Reattached []int
}

type completionOrErr struct {
	c   *usbhal.Completion
	err error
}

// New returns an empty fake transport.
func New() *Fake {
	return &Fake{KernelDriverAttached: map[int]bool{}}
}

// ControlOut records the payload. It is the test's job to later Feed a
// matching ack completion, mirroring the real ack-gated endpoint.
func (f *Fake) ControlOut(p wire.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ControlOutErr != nil {
		err := f.ControlOutErr
		f.ControlOutErr = nil
		return err
	}
	f.Sent = append(f.Sent, p)
	return nil
}

// Feed queues a completion (or error) to be returned by the next WaitAny call.
func (f *Fake) Feed(endpoint uint8, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, completionOrErr{c: &usbhal.Completion{Endpoint: endpoint, Data: data}})
}

// FeedErr queues a USB error to be returned by the next WaitAny call.
func (f *Fake) FeedErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = append(f.pending, completionOrErr{err: err})
}

// WaitAny returns the next queued completion/error, or nil, nil
// (timeout) if nothing is queued. timeout is accepted for interface
// compatibility but not actually waited on, so tests run instantly.
func (f *Fake) WaitAny(timeout time.Duration) (*usbhal.Completion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pending) == 0 {
		return nil, nil
	}
	next := f.pending[0]
	f.pending = f.pending[1:]
	return next.c, next.err
}

// Release simulates teardown, reattaching any interface it was told had
// a kernel driver attached.
func (f *Fake) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReleaseCount++
	for iface, attached := range f.KernelDriverAttached {
		if attached {
			f.Reattached = append(f.Reattached, iface)
		}
	}
}

// Reconnect pops the next scripted error off ReconnectErrs, or succeeds
// if none remain.
func (f *Fake) Reconnect() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReconnectCount++
	if len(f.ReconnectErrs) == 0 {
		return nil
	}
	err := f.ReconnectErrs[0]
	f.ReconnectErrs = f.ReconnectErrs[1:]
	return err
}

var _ usbhal.Interface = (*Fake)(nil)
