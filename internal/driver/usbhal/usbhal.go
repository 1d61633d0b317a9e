// Package usbhal wraps the host USB library (google/gousb) for the
// keyboard's three interfaces: it acquires the device, detaches/reattaches
// kernel drivers, claims interfaces 0 and 1, keeps the two long-lived
// interrupt reads pending, and submits vendor control writes.
//
// gousb's endpoint calls are synchronous, unlike the libusb async-group
// API some USB host drivers are built on; this package reproduces "submit
// many, wait for any completion" with one goroutine per long-lived read
// feeding a shared completions channel, which WaitAny selects against
// alongside a deadline timer.
package usbhal

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/gousb"

	"ledkbd/internal/driver/drivererr"
	"ledkbd/internal/driver/wire"
)

// Endpoints used by the device, direction bit included where it matters.
const (
	EpStandardIn = 0x81 // 8-byte standard HID report
	EpAuxIn      = 0x82 // 64-byte rollover/media/ack report
	EpControlOut = 0x80 // vendor command writes

	standardReadSize = 8
	auxReadSize      = 64

	// longReadTimeout is effectively "forever": the interrupt reads are
	// cancelled via ctx, not via this timeout, expiring it only as a backstop.
	longReadTimeout = 365 * 24 * time.Hour
)

// Completion is one USB transfer result delivered to the event loop.
type Completion struct {
	// Endpoint has the direction bit already masked off (0x01, 0x02, or
	// 0x00 for the control writes' local echo).
	Endpoint uint8
	Data     []byte
}

// Interface is what the rest of the driver depends on instead of gousb
// directly, so tests can swap in a fake transport.
type Interface interface {
	ControlOut(p wire.Payload) error
	WaitAny(timeout time.Duration) (*Completion, error)
	Release()
	Reconnect() error
}

// Endpoint owns the USB context, device handle, and the two long-lived
// interrupt readers. Context, handle, and the reader goroutines are
// destroyed in reverse order on Release, and never exposed as separable
// values. This is the single-owner arena the resources must live in.
type Endpoint struct {
	vendorID, productID gousb.ID

	ctx    *gousb.Context
	dev    *gousb.Device
	cfg    *gousb.Config
	iface0 *gousb.Interface
	iface1 *gousb.Interface

	epStandard *gousb.InEndpoint
	epAux      *gousb.InEndpoint

	completions chan Completion
	cancel      context.CancelFunc
	wg          sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// Open acquires the device matching vendorID/productID: enables gousb's
// auto-detach so kernel drivers on interfaces 0 and 1 are detached on
// claim (gousb, not Endpoint, tracks which were attached), claims both,
// resets the device, then arms the two long-lived interrupt
// reads. Interface 2 is never claimed but still produces input reports
// once interface 1 is claimed.
func Open(vendorID, productID gousb.ID) (*Endpoint, error) {
	e := &Endpoint{vendorID: vendorID, productID: productID}
	if err := e.acquire(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Endpoint) acquire() error {
	ctx := gousb.NewContext()

	dev, err := ctx.OpenDeviceWithVIDPID(e.vendorID, e.productID)
	if err != nil {
		ctx.Close()
		return fmt.Errorf("open USB device: %w", wrapUSBErr(err))
	}
	if dev == nil {
		ctx.Close()
		return fmt.Errorf("no device matching vid=%s pid=%s: %w", e.vendorID, e.productID, drivererr.ErrDeviceAbsent)
	}

	// SetAutoDetach makes gousb detach any attached kernel driver before
	// claiming an interface below, and reattach it when the interface is
	// released — that bookkeeping lives inside gousb/libusb rather than
	// in this struct.
	if err := dev.SetAutoDetach(true); err != nil {
		dev.Close()
		ctx.Close()
		return fmt.Errorf("enable auto kernel driver detach: %w", drivererr.ErrAccessDenied)
	}

	cfg, err := dev.Config(1)
	if err != nil {
		dev.Close()
		ctx.Close()
		return fmt.Errorf("set USB config: %w", wrapUSBErr(err))
	}

	iface0, err := cfg.Interface(0, 0)
	if err != nil {
		cfg.Close()
		dev.Close()
		ctx.Close()
		return fmt.Errorf("claim interface 0: %w", drivererr.ErrAccessDenied)
	}
	iface1, err := cfg.Interface(1, 0)
	if err != nil {
		iface0.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return fmt.Errorf("claim interface 1: %w", drivererr.ErrAccessDenied)
	}

	if err := dev.Reset(); err != nil {
		iface1.Close()
		iface0.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return fmt.Errorf("reset device: %w", wrapUSBErr(err))
	}

	epStandard, err := iface0.InEndpoint(EpStandardIn & 0x7f)
	if err != nil {
		iface1.Close()
		iface0.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return fmt.Errorf("open standard in endpoint: %w", wrapUSBErr(err))
	}
	epAux, err := iface1.InEndpoint(EpAuxIn & 0x7f)
	if err != nil {
		iface1.Close()
		iface0.Close()
		cfg.Close()
		dev.Close()
		ctx.Close()
		return fmt.Errorf("open aux in endpoint: %w", wrapUSBErr(err))
	}

	e.ctx, e.dev, e.cfg, e.iface0, e.iface1 = ctx, dev, cfg, iface0, iface1
	e.epStandard, e.epAux = epStandard, epAux
	e.completions = make(chan Completion, 16)
	e.closed = false

	readCtx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.armReads(readCtx)
	return nil
}

// armReads starts the two resubmitting interrupt-read goroutines. Each
// loop reads once, posts the completion, and immediately reads again,
// the "always resubmitted" rule for 0x81/0x82 expressed as control flow
// instead of explicit transfer resubmission.
func (e *Endpoint) armReads(ctx context.Context) {
	e.wg.Add(2)
	go e.readLoop(ctx, e.epStandard, EpStandardIn&0x7f, standardReadSize)
	go e.readLoop(ctx, e.epAux, EpAuxIn&0x7f, auxReadSize)
}

func (e *Endpoint) readLoop(ctx context.Context, ep *gousb.InEndpoint, maskedEndpoint uint8, size int) {
	defer e.wg.Done()
	buf := make([]byte, size)
	for {
		readCtx, cancel := context.WithTimeout(ctx, longReadTimeout)
		n, err := ep.ReadContext(readCtx, buf)
		cancel()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Printf("ledkbd: interrupt read on endpoint 0x%02x failed: %v", maskedEndpoint, err)
			continue
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		select {
		case e.completions <- Completion{Endpoint: maskedEndpoint, Data: data}:
		case <-ctx.Done():
			return
		}
	}
}

// ControlOut submits one outbound control transfer with the fixed
// parameters from wire.Payload. It does not block the event loop: the
// actual write happens on its own goroutine, and its local echo is
// posted to the completions channel like any other transfer, but is
// never resubmitted.
func (e *Endpoint) ControlOut(p wire.Payload) error {
	e.mu.Lock()
	dev := e.dev
	e.mu.Unlock()
	if dev == nil {
		return drivererr.ErrIO
	}

	go func() {
		// gousb has no context-based cancellation for Control; the
		// per-operation timeout is enforced by gousb/libusb itself via
		// Device.ControlTimeout, set here before the call.
		dev.ControlTimeout = p.Timeout
		_, err := dev.Control(p.RequestType, p.Request, p.Value, p.Index, p.Bytes)
		if err != nil {
			log.Printf("ledkbd: control write failed: %v", err)
			return
		}
		select {
		case e.completions <- Completion{Endpoint: 0x00, Data: p.Bytes}:
		case <-time.After(p.Timeout):
		}
	}()
	return nil
}

// WaitAny blocks for the next USB completion, up to timeout. It returns
// nil, nil on timeout.
func (e *Endpoint) WaitAny(timeout time.Duration) (*Completion, error) {
	select {
	case c, ok := <-e.completions:
		if !ok {
			return nil, drivererr.ErrIO
		}
		return &c, nil
	case <-time.After(timeout):
		return nil, nil
	}
}

// Release stops the reader goroutines, releases both claimed interfaces,
// and reattaches any kernel driver that was previously attached. Errors
// during release are logged and swallowed; teardown is best-effort.
func (e *Endpoint) Release() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
	}
	e.wg.Wait()

	// Closing each Interface releases it and, because SetAutoDetach was
	// enabled at acquire time, reattaches any kernel driver gousb detached
	// for it. Interface 1 first, then interface 0, mirroring the order
	// they were claimed in reverse.
	if e.iface1 != nil {
		e.iface1.Close()
	}
	if e.iface0 != nil {
		e.iface0.Close()
	}
	if e.cfg != nil {
		if err := e.cfg.Close(); err != nil {
			log.Printf("ledkbd: failed to release USB config: %v", err)
		}
	}
	if e.dev != nil {
		if err := e.dev.Close(); err != nil {
			log.Printf("ledkbd: failed to close device handle: %v", err)
		}
	}
	if e.ctx != nil {
		if err := e.ctx.Close(); err != nil {
			log.Printf("ledkbd: failed to close USB context: %v", err)
		}
	}

	e.ctx, e.dev, e.cfg, e.iface0, e.iface1 = nil, nil, nil, nil, nil
}

// Reconnect fully releases the current handle, then re-acquires and
// re-arms both long-lived reads.
func (e *Endpoint) Reconnect() error {
	e.Release()
	return e.acquire()
}

func wrapUSBErr(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", drivererr.ErrIO, err)
}
