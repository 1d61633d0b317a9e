package keyboard

import (
	"errors"
	"log"
	"time"

	"ledkbd/internal/driver/drivererr"
	"ledkbd/internal/driver/parser"
)

// forever stands in for "no handler has a tick": the loop still wakes
// periodically rather than blocking literally forever, so shutdown is
// noticed promptly even with zero handlers registered.
const forever = 5 * time.Second

// RunLoop runs the cooperative event loop until Shutdown is called or a
// non-recoverable USB error occurs. Recoverable errors trigger reconnect
// only when Config.AutoReconnect is set; otherwise they are returned too.
// It runs each registered handler's
// Init exactly once before dispatching the first packet.
func (k *Keyboard) RunLoop() error {
	if err := k.registry.InitAll(k); err != nil {
		return err
	}

	for {
		select {
		case <-k.shutdown:
			return nil
		default:
		}

		timeout := k.nextTimeout()
		completion, err := k.transport.WaitAny(timeout)
		if err != nil {
			if isRecoverable(err) && k.cfg.AutoReconnect {
				if rerr := k.reconnect(); rerr != nil {
					return rerr
				}
				continue
			}
			return err
		}
		if completion == nil {
			k.runDueTicks()
			continue
		}

		pkt := parser.Packet{Endpoint: completion.Endpoint, Buf: completion.Data}
		k.dispatchPacket(pkt)
	}
}

// Shutdown requests the loop exit at its next suspension point.
func (k *Keyboard) Shutdown() {
	select {
	case <-k.shutdown:
	default:
		close(k.shutdown)
	}
}

func (k *Keyboard) nextTimeout() time.Duration {
	ticked := k.registry.WithTicks()
	if len(ticked) == 0 {
		return forever
	}
	now := time.Now()
	min := ticked[0].SleepDuration(now)
	for _, h := range ticked[1:] {
		if d := h.SleepDuration(now); d < min {
			min = d
		}
	}
	return min
}

func (k *Keyboard) runDueTicks() {
	now := time.Now()
	for _, h := range k.registry.WithTicks() {
		if h.SleepDuration(now) == 0 {
			if err := h.Tick(now, k); err != nil {
				log.Printf("ledkbd: handler tick failed: %v", err)
			}
		}
	}
}

func (k *Keyboard) dispatchPacket(pkt parser.Packet) {
	switch {
	case k.keyParser.Accept(pkt):
		events := k.keyParser.Parse(pkt)
		k.dispatchEvents(events)
	case k.ctlParser.Accept(pkt):
		if err := k.ctlParser.Parse(pkt); err != nil {
			log.Printf("ledkbd: control packet rejected: %v", err)
		}
	default:
		log.Printf("ledkbd: unparsed packet on endpoint 0x%02x, %d bytes", pkt.Endpoint, len(pkt.Buf))
	}
}

func (k *Keyboard) dispatchEvents(events []parser.KeyEvent) {
	for _, evt := range events {
		handled := false
		for _, h := range k.registry.All() {
			if h.Accept(evt) {
				handled = true
				if err := h.Handle(evt, k); err != nil {
					log.Printf("ledkbd: handler failed on key event: %v", err)
				}
			}
		}
		if !handled {
			log.Printf("ledkbd: unhandled key event: %+v", evt)
		}
	}
}

func isRecoverable(err error) bool {
	return errors.Is(err, drivererr.ErrDeviceAbsent) ||
		errors.Is(err, drivererr.ErrIO) ||
		errors.Is(err, drivererr.ErrBusy)
}
