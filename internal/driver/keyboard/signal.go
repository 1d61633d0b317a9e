package keyboard

import (
	"log"
	"os"
	"os/signal"
	"syscall"
)

// EnableSignalHandling installs a SIGINT/SIGTERM handler that requests
// an orderly Shutdown instead of letting the process die immediately.
// Go has no scope-based destruction to lean on, so this uses an explicit
// shutdown channel polled at the loop's single suspension point, plus a
// Teardown that callers must always run on every exit path. It returns a
// stop function that undoes the signal.Notify registration.
func (k *Keyboard) EnableSignalHandling() (stop func()) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case s := <-sig:
			log.Printf("ledkbd: received %v, shutting down", s)
			k.Shutdown()
		case <-done:
		}
	}()

	return func() {
		close(done)
		signal.Stop(sig)
	}
}

// Teardown releases the USB transport. It must run on every exit path
// regardless of how RunLoop returned; release failures are logged and
// swallowed by the transport itself (usbhal.Endpoint.Release is
// best-effort).
func (k *Keyboard) Teardown() {
	k.transport.Release()
}
