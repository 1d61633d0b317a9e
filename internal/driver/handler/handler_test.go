package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ledkbd/internal/driver/color"
	"ledkbd/internal/driver/keys"
	"ledkbd/internal/driver/parser"
)

type fakeKeyboard struct {
	set []color.KeyColor
}

func (f *fakeKeyboard) SetColor(kc color.KeyColor) error { f.set = append(f.set, kc); return nil }
func (f *fakeKeyboard) SetKeyColors(colors []color.KeyColor) error {
	f.set = append(f.set, colors...)
	return nil
}
func (f *fakeKeyboard) SetAllColors(c color.Color) error { return nil }

func TestHandlerInitAcceptHandle(t *testing.T) {
	var initCalled bool
	h := New("state").
		OnInit(func(userData any, kb KeyboardAPI) error {
			assert.Equal(t, "state", userData)
			initCalled = true
			return nil
		}).
		OnAccept(func(userData any, evt parser.KeyEvent) bool { return evt.Kind == parser.Pressed }).
		OnHandle(func(userData any, evt parser.KeyEvent, kb KeyboardAPI) error {
			return kb.SetColor(color.KeyColor{Key: evt.Key, Color: color.Color{R: 1}})
		}).
		Build()

	kb := &fakeKeyboard{}
	assert.NoError(t, h.Init(kb))
	assert.True(t, initCalled)

	pressed := parser.KeyEvent{Kind: parser.Pressed, Key: keys.NewStandard(keys.KeyA)}
	released := parser.KeyEvent{Kind: parser.Released, Key: keys.NewStandard(keys.KeyA)}

	assert.True(t, h.Accept(pressed))
	assert.False(t, h.Accept(released))

	assert.NoError(t, h.Handle(pressed, kb))
	assert.Equal(t, []color.KeyColor{{Key: pressed.Key, Color: color.Color{R: 1}}}, kb.set)
}

func TestHandlerWithoutCallbacksIsInert(t *testing.T) {
	h := New(nil).Build()
	kb := &fakeKeyboard{}

	assert.NoError(t, h.Init(kb))
	assert.False(t, h.Accept(parser.KeyEvent{}))
	assert.NoError(t, h.Handle(parser.KeyEvent{}, kb))
	assert.False(t, h.HasTick())
}

func TestHandlerTickSchedule(t *testing.T) {
	var ticks int
	h := New(nil).
		OnTick(10*time.Millisecond, func(userData any, elapsed time.Duration, kb KeyboardAPI) error {
			ticks++
			return nil
		}).
		Build()

	assert.True(t, h.HasTick())

	now := time.Now()
	assert.Greater(t, h.SleepDuration(now), time.Duration(0), "tick just registered, not due yet")

	due := now.Add(20 * time.Millisecond)
	assert.Equal(t, time.Duration(0), h.SleepDuration(due))

	assert.NoError(t, h.Tick(due, &fakeKeyboard{}))
	assert.Equal(t, 1, ticks)
	assert.Greater(t, h.SleepDuration(due), time.Duration(0), "lastTick reset, not due immediately again")
}
