// Package drivererr defines the sentinel error kinds shared across the
// driver, matching the error-wrapping style used throughout the rest of
// the codebase (fmt.Errorf("...: %w", err), compared with errors.Is).
package drivererr

import "errors"

var (
	// ErrDeviceAbsent means no device matching the vendor/product id was found.
	ErrDeviceAbsent = errors.New("ledkbd: no matching USB device")
	// ErrAccessDenied means a kernel driver could not be detached or an
	// interface could not be claimed.
	ErrAccessDenied = errors.New("ledkbd: access denied claiming device")
	// ErrIO means a transient transfer failure occurred.
	ErrIO = errors.New("ledkbd: USB transfer failed")
	// ErrBusy means the device reported itself busy.
	ErrBusy = errors.New("ledkbd: device busy")
	// ErrUnknownControl means a control packet carried an unrecognized opcode.
	ErrUnknownControl = errors.New("ledkbd: unknown control packet")
	// ErrInvalidTarget means the caller tried to set a color on a Media key,
	// which has no programmable LED.
	ErrInvalidTarget = errors.New("ledkbd: media keys have no programmable color")
	// ErrQueueBroken means an acknowledgement arrived with an empty control
	// queue. This should be unreachable; it is reported, never silently
	// absorbed.
	ErrQueueBroken = errors.New("ledkbd: control ack with empty queue")
	// ErrReconnectExhausted means every reconnection attempt failed.
	ErrReconnectExhausted = errors.New("ledkbd: reconnect attempts exhausted")
)
