package usbhaltest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ledkbd/internal/driver/wire"
)

func TestControlOutDoesNotAutoGenerateACompletion(t *testing.T) {
	f := New()
	assert.NoError(t, f.ControlOut(wire.EncodeFlush()))

	// A control write never resubmits itself; the test must Feed the
	// echo/ack explicitly, mirroring usbhal.Endpoint.ControlOut posting
	// its completion exactly once.
	c, err := f.WaitAny(0)
	assert.NoError(t, err)
	assert.Nil(t, c)
}

func TestReleaseReattachesOnlyPreviouslyAttachedInterfaces(t *testing.T) {
	f := New()
	f.KernelDriverAttached[0] = true
	f.KernelDriverAttached[1] = false

	f.Release()

	assert.Equal(t, []int{0}, f.Reattached)
	assert.Equal(t, 1, f.ReleaseCount)
}

func TestReleaseReattachesOnEveryCall(t *testing.T) {
	f := New()
	f.KernelDriverAttached[0] = true

	f.Release()
	f.Release()

	assert.Equal(t, 2, f.ReleaseCount)
	assert.Equal(t, []int{0, 0}, f.Reattached, "the fake keeps no closed state, so each Release call re-reports the same attached set")
}
