package keyboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"ledkbd/internal/driver/color"
	"ledkbd/internal/driver/drivererr"
	"ledkbd/internal/driver/keys"
	"ledkbd/internal/driver/usbhal/usbhaltest"
	"ledkbd/internal/driver/wire"
)

func TestSetKeyColorsSplitsByCategoryInFixedOrder(t *testing.T) {
	fake := usbhaltest.New()
	kb := New(fake, Config{})

	var colors []color.KeyColor
	for i := 0; i < 20; i++ {
		colors = append(colors, color.KeyColor{Key: keys.NewStandard(uint8(i + 1)), Color: color.Color{R: 1}})
	}
	for i := 0; i < 5; i++ {
		colors = append(colors, color.KeyColor{Key: keys.NewGaming(uint8(i + 1)), Color: color.Color{G: 1}})
	}
	colors = append(colors, color.KeyColor{Key: keys.NewLogo(1), Color: color.Color{B: 1}})

	assert.NoError(t, kb.SetKeyColors(colors))

	// The queue submits one payload per device ack; acknowledge the four
	// payloads ahead of the Flush so every payload reaches the transport.
	for i := 0; i < 4; i++ {
		assert.NoError(t, kb.queue.ReleaseNext())
	}

	// 2 Standard batches (14 + 6), 1 Gaming batch (5), 1 Logo batch (1), 1 Flush.
	assert.Len(t, fake.Sent, 5)
	for _, p := range fake.Sent[:4] {
		assert.Equal(t, wire.ColorBatchMagic, magicOf(p))
	}
	assert.Equal(t, wire.FlushMagic, magicOf(fake.Sent[4]))
}

func magicOf(p wire.Payload) uint32 {
	return uint32(p.Bytes[0])<<24 | uint32(p.Bytes[1])<<16 | uint32(p.Bytes[2])<<8 | uint32(p.Bytes[3])
}

func TestSetKeyColorsRejectsMediaTarget(t *testing.T) {
	fake := usbhaltest.New()
	kb := New(fake, Config{})

	err := kb.SetColor(color.KeyColor{Key: keys.NewMedia(keys.MediaMute), Color: color.Color{R: 1}})
	assert.ErrorIs(t, err, drivererr.ErrInvalidTarget)
	assert.Empty(t, fake.Sent, "a rejected call must not enqueue any outbound packet")
}

func TestReconnectResumesAfterTransientErrors(t *testing.T) {
	fake := usbhaltest.New()
	fake.ReconnectErrs = []error{drivererr.ErrIO, drivererr.ErrIO}
	kb := New(fake, Config{ReconnectAttempts: 5, ReconnectInterval: time.Millisecond})

	err := kb.reconnect()
	assert.NoError(t, err)
	assert.Equal(t, 3, fake.ReconnectCount, "two failures then the third attempt succeeds")
}

func TestReconnectReturnsExhaustedError(t *testing.T) {
	fake := usbhaltest.New()
	fake.ReconnectErrs = []error{drivererr.ErrIO, drivererr.ErrIO, drivererr.ErrIO}
	kb := New(fake, Config{ReconnectAttempts: 2, ReconnectInterval: time.Millisecond})

	err := kb.reconnect()
	assert.ErrorIs(t, err, drivererr.ErrReconnectExhausted)
	assert.Equal(t, 2, fake.ReconnectCount)
}
