// Package wire encodes ColorBatch and Flush commands into the vendor
// control payloads the device expects, and holds the fixed control
// request parameters used for every outbound write.
package wire

import (
	"encoding/binary"
	"time"

	"ledkbd/internal/driver/color"
)

// Magic headers for the two control packet kinds, big-endian in bytes 0..4.
const (
	ColorBatchMagic uint32 = 0x12FF0F3B
	FlushMagic      uint32 = 0x11FF0F5B
)

// ColorBatchPayloadSize and FlushPayloadSize are the fixed lengths of the
// two control payload kinds.
const (
	ColorBatchPayloadSize = 64
	FlushPayloadSize      = 20
)

// Fixed control request parameters, identical for every color and flush
// packet.
const (
	RequestTypeOut = 0x21
	Request        = 9
	Value          = 0x0212
	Index          = 0x0001
	ControlTimeout = 10 * time.Second
	EndpointOut    = 0x80
)

// Payload is a fully-framed outbound control transfer, ready to submit.
type Payload struct {
	Bytes       []byte
	EndpointDir uint8
	RequestType uint8
	Request     uint8
	Value       uint16
	Index       uint16
	Timeout     time.Duration
}

func newPayload(buf []byte) Payload {
	return Payload{
		Bytes:       buf,
		EndpointDir: EndpointOut,
		RequestType: RequestTypeOut,
		Request:     Request,
		Value:       Value,
		Index:       Index,
		Timeout:     ControlTimeout,
	}
}

// EncodeColorBatch serializes a color batch into its 64-byte control
// payload: magic, category id, reserved byte, entry count, then up to 14
// 4-byte (code, r, g, b) entries, zero-padded to 64 bytes.
func EncodeColorBatch(b *color.Batch) Payload {
	wireID, ok := b.Category.WireID()
	if !ok {
		// Media has no wire id; callers must reject Media batches before
		// reaching the codec (see keyboard.SetKeyColors).
		wireID = 0
	}

	buf := make([]byte, ColorBatchPayloadSize)
	binary.BigEndian.PutUint32(buf[0:4], ColorBatchMagic)
	binary.BigEndian.PutUint16(buf[4:6], wireID)
	buf[6] = 0x00
	buf[7] = uint8(len(b.Entries))

	for i, e := range b.Entries {
		off := 8 + i*4
		buf[off] = e.Code
		buf[off+1] = e.Color.R
		buf[off+2] = e.Color.G
		buf[off+3] = e.Color.B
	}

	return newPayload(buf)
}

// EncodeFlush serializes the zero-payload flush marker that tells the
// device to commit the last-written color registers to the LEDs.
func EncodeFlush() Payload {
	buf := make([]byte, FlushPayloadSize)
	binary.BigEndian.PutUint32(buf[0:4], FlushMagic)
	return newPayload(buf)
}
