package main

import (
	"ledkbd/internal/driver/handler"
	"ledkbd/internal/driver/parser"
)

// keyEventMsg carries a parser.KeyEvent into the bubbletea Update loop.
type keyEventMsg parser.KeyEvent

// newBridgeHandler builds a handler that forwards every key event onto
// events for the TUI to render; it never calls back into the keyboard,
// so it has no tick and no init.
func newBridgeHandler(events chan<- keyEventMsg) *handler.Handler {
	return handler.New(nil).
		OnAccept(func(userData any, evt parser.KeyEvent) bool { return true }).
		OnHandle(func(userData any, evt parser.KeyEvent, kb handler.KeyboardAPI) error {
			select {
			case events <- keyEventMsg(evt):
			default:
				// Drop under backpressure: the dashboard is best-effort, not
				// a lossless event log.
			}
			return nil
		}).
		Build()
}
