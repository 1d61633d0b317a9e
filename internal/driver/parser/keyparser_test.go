package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ledkbd/internal/driver/keys"
)

func standardReport(modifiers uint8, codes ...uint8) Packet {
	buf := make([]byte, 8)
	buf[0] = modifiers
	copy(buf[2:8], codes)
	return Packet{Endpoint: 1, Buf: buf}
}

func rolloverReport(codes ...uint8) Packet {
	buf := make([]byte, 21)
	buf[0] = 0x01
	copy(buf[1:21], codes)
	return Packet{Endpoint: 2, Buf: buf}
}

func mediaReport(bitmap uint8) Packet {
	return Packet{Endpoint: 2, Buf: []byte{0x02, bitmap}}
}

func TestKeyParserAccept(t *testing.T) {
	p := NewKeyParser()
	assert.True(t, p.Accept(standardReport(0, keys.KeyA)))
	assert.True(t, p.Accept(rolloverReport(keys.KeyA)))
	assert.True(t, p.Accept(mediaReport(0x01)))
	assert.False(t, p.Accept(Packet{Endpoint: 0, Buf: []byte{0x11}}))
}

func TestStandardDiffSequence(t *testing.T) {
	p := NewKeyParser()

	events := p.Parse(standardReport(0, keys.KeyA))
	assert.Equal(t, []KeyEvent{{Kind: Pressed, Key: keys.NewStandard(keys.KeyA)}}, events)

	events = p.Parse(standardReport(0x02, keys.KeyA)) // left shift + A
	assert.Len(t, events, 1)
	assert.Equal(t, Pressed, events[0].Kind)
	assert.Equal(t, keys.NewStandard(keys.KeyLeftShift), events[0].Key)

	events = p.Parse(standardReport(0))
	assert.Len(t, events, 2)
	kinds := map[keys.Key]KeyEventKind{}
	for _, e := range events {
		kinds[e.Key] = e.Kind
	}
	assert.Equal(t, Released, kinds[keys.NewStandard(keys.KeyLeftShift)])
	assert.Equal(t, Released, kinds[keys.NewStandard(keys.KeyA)])
}

func TestStreamIndependence(t *testing.T) {
	p := NewKeyParser()

	events := p.Parse(standardReport(0, keys.KeyA))
	assert.Equal(t, []KeyEvent{{Kind: Pressed, Key: keys.NewStandard(keys.KeyA)}}, events)

	// Rollover reports arriving afterward must not affect the standard stream.
	events = p.Parse(rolloverReport(keys.KeyB))
	assert.Equal(t, []KeyEvent{{Kind: Pressed, Key: keys.NewStandard(keys.KeyB)}}, events)

	events = p.Parse(standardReport(0, keys.KeyA))
	assert.Empty(t, events, "standard A is still held, rollover must not have released it")
}

func TestMediaBitmapExactCoverage(t *testing.T) {
	p := NewKeyParser()
	events := p.Parse(mediaReport(0x05)) // bits 0x01 and 0x04 set, not 0x02

	pressed := map[uint8]bool{}
	for _, e := range events {
		assert.Equal(t, Pressed, e.Kind)
		pressed[e.Key.Code] = true
	}
	assert.True(t, pressed[keys.MediaMute])
	assert.True(t, pressed[keys.MediaPrevTrack])
	assert.False(t, pressed[keys.MediaPlayPause])
}

func TestRolloverIgnoresModifierByte(t *testing.T) {
	p := NewKeyParser()
	// Rollover byte 0 is the report id (0x01), not a modifier bitmap.
	// Only bytes 1..21 are scanned for codes.
	events := p.Parse(rolloverReport(keys.KeyA))
	assert.Equal(t, []KeyEvent{{Kind: Pressed, Key: keys.NewStandard(keys.KeyA)}}, events)
}
