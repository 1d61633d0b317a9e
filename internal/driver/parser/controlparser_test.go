package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ledkbd/internal/driver/drivererr"
)

type fakeReleaser struct {
	calls int
	err   error
}

func (f *fakeReleaser) ReleaseNext() error {
	f.calls++
	return f.err
}

func TestControlParserAccept(t *testing.T) {
	p := NewControlParser(&fakeReleaser{})

	assert.True(t, p.Accept(Packet{Endpoint: 0, Buf: make([]byte, 20)}))
	assert.True(t, p.Accept(Packet{Endpoint: 0, Buf: make([]byte, 64)}))
	assert.True(t, p.Accept(Packet{Endpoint: 2, Buf: append([]byte{opAck}, make([]byte, 19)...)}))

	assert.False(t, p.Accept(Packet{Endpoint: 2, Buf: append([]byte{0x99}, make([]byte, 19)...)}))
	assert.False(t, p.Accept(Packet{Endpoint: 1, Buf: make([]byte, 20)}))
	assert.False(t, p.Accept(Packet{Endpoint: 0, Buf: make([]byte, 8)}))
}

func TestControlParserEchoValidation(t *testing.T) {
	p := NewControlParser(&fakeReleaser{})

	echo := make([]byte, 20)
	echo[0] = opFlushEcho
	assert.NoError(t, p.Parse(Packet{Endpoint: 0, Buf: echo}))

	echo[0] = opColorBatchEcho
	assert.NoError(t, p.Parse(Packet{Endpoint: 0, Buf: echo}))

	echo[0] = 0x99
	err := p.Parse(Packet{Endpoint: 0, Buf: echo})
	assert.ErrorIs(t, err, drivererr.ErrUnknownControl)
}

func TestControlParserAckReleasesQueue(t *testing.T) {
	releaser := &fakeReleaser{}
	p := NewControlParser(releaser)

	ack := make([]byte, 20)
	ack[0] = opAck
	assert.NoError(t, p.Parse(Packet{Endpoint: 2, Buf: ack}))
	assert.Equal(t, 1, releaser.calls)
}

func TestControlParserPropagatesQueueBroken(t *testing.T) {
	releaser := &fakeReleaser{err: drivererr.ErrQueueBroken}
	p := NewControlParser(releaser)

	ack := make([]byte, 20)
	ack[0] = opAck
	err := p.Parse(Packet{Endpoint: 2, Buf: ack})
	assert.ErrorIs(t, err, drivererr.ErrQueueBroken)
}
