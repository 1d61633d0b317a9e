// Package handler implements the polymorphic handler record: a builder
// of function-valued fields over opaque user state, expressed as Go
// closures over an any-typed payload rather than a generic type
// parameter.
package handler

import (
	"time"

	"ledkbd/internal/driver/color"
	"ledkbd/internal/driver/parser"
)

// KeyboardAPI is the subset of the keyboard driver a handler may call
// back into. Handlers never see the USB layer directly.
type KeyboardAPI interface {
	SetColor(kc color.KeyColor) error
	SetKeyColors(colors []color.KeyColor) error
	SetAllColors(c color.Color) error
}

// Handler is one registered callback set: init runs once, accept/handle
// process key events, and an optional tick fires on its own period.
type Handler struct {
	userData any

	initFn   func(any, KeyboardAPI) error
	acceptFn func(any, parser.KeyEvent) bool
	handleFn func(any, parser.KeyEvent, KeyboardAPI) error

	hasTick    bool
	tickFn     func(any, time.Duration, KeyboardAPI) error
	tickPeriod time.Duration
	lastTick   time.Time
}

// Init runs the handler's init callback, if any, exactly once.
func (h *Handler) Init(kb KeyboardAPI) error {
	if h.initFn == nil {
		return nil
	}
	return h.initFn(h.userData, kb)
}

// Accept reports whether this handler wants to see evt.
func (h *Handler) Accept(evt parser.KeyEvent) bool {
	if h.acceptFn == nil {
		return false
	}
	return h.acceptFn(h.userData, evt)
}

// Handle dispatches evt to the handler's callback.
func (h *Handler) Handle(evt parser.KeyEvent, kb KeyboardAPI) error {
	if h.handleFn == nil {
		return nil
	}
	return h.handleFn(h.userData, evt, kb)
}

// HasTick reports whether this handler registered a tick callback.
func (h *Handler) HasTick() bool {
	return h.hasTick
}

// SleepDuration returns how long until this handler's tick is next due:
// zero if its period has already elapsed, otherwise the remainder.
// Callers must not call this on a handler with HasTick() == false.
func (h *Handler) SleepDuration(now time.Time) time.Duration {
	elapsed := now.Sub(h.lastTick)
	if elapsed >= h.tickPeriod {
		return 0
	}
	return h.tickPeriod - elapsed
}

// Tick invokes the handler's tick callback with the elapsed time since
// its previous tick, then resets that timestamp to now.
func (h *Handler) Tick(now time.Time, kb KeyboardAPI) error {
	if !h.hasTick {
		return nil
	}
	elapsed := now.Sub(h.lastTick)
	err := h.tickFn(h.userData, elapsed, kb)
	h.lastTick = now
	return err
}

// Builder assembles a Handler one callback at a time, mirroring the
// original HandlerBuilder<T>'s fluent construction.
type Builder struct {
	h *Handler
}

// New starts a builder over userData, the handler's private state.
func New(userData any) *Builder {
	return &Builder{h: &Handler{userData: userData}}
}

// OnInit registers a one-time setup callback, run before the first
// packet is dispatched.
func (b *Builder) OnInit(f func(userData any, kb KeyboardAPI) error) *Builder {
	b.h.initFn = f
	return b
}

// OnAccept registers the predicate that decides whether OnHandle should
// see a given key event.
func (b *Builder) OnAccept(f func(userData any, evt parser.KeyEvent) bool) *Builder {
	b.h.acceptFn = f
	return b
}

// OnHandle registers the key-event callback.
func (b *Builder) OnHandle(f func(userData any, evt parser.KeyEvent, kb KeyboardAPI) error) *Builder {
	b.h.handleFn = f
	return b
}

// OnTick registers a periodic callback, fired roughly every period by
// the event loop's timeout-driven branch.
func (b *Builder) OnTick(period time.Duration, f func(userData any, elapsed time.Duration, kb KeyboardAPI) error) *Builder {
	b.h.hasTick = true
	b.h.tickFn = f
	b.h.tickPeriod = period
	b.h.lastTick = time.Now()
	return b
}

// Build finalizes the handler.
func (b *Builder) Build() *Handler {
	return b.h
}
