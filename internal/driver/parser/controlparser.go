package parser

import "ledkbd/internal/driver/drivererr"

// Local-echo opcodes observed on endpoint 0, and the device acknowledgement
// opcode on endpoint 2.
const (
	opColorBatchEcho = 0x12
	opFlushEcho      = 0x11
	opAck            = 0x11
)

// ControlReleaser is the subset of queue.ControlQueue that ControlParser
// needs: releasing the head of the queue so the next enqueued write can
// be submitted.
type ControlReleaser interface {
	ReleaseNext() error
}

// ControlParser recognizes the control endpoint's local echo (endpoint 0)
// and the device's acknowledgement (endpoint 2, prefixed 0x11), and
// drives the control queue's ack gate from the latter.
type ControlParser struct {
	queue ControlReleaser
}

// NewControlParser binds a ControlParser to the queue it releases on ack.
func NewControlParser(queue ControlReleaser) *ControlParser {
	return &ControlParser{queue: queue}
}

// Accept recognizes the local echo of an outbound transfer (endpoint 0,
// 20 or 64 bytes) and the device's acknowledgement (endpoint 2, 20 bytes,
// first byte 0x11).
func (p *ControlParser) Accept(pkt Packet) bool {
	if pkt.Endpoint == 0x00 && (len(pkt.Buf) == 20 || len(pkt.Buf) == 64) {
		return true
	}
	if pkt.Endpoint == 0x02 && len(pkt.Buf) == 20 && pkt.Buf[0] == opAck {
		return true
	}
	return false
}

// Parse validates the opcode and, for a genuine device acknowledgement,
// releases the next queued control write.
func (p *ControlParser) Parse(pkt Packet) error {
	if len(pkt.Buf) == 0 {
		return nil
	}
	switch pkt.Endpoint {
	case 0x00:
		if pkt.Buf[0] != opColorBatchEcho && pkt.Buf[0] != opFlushEcho {
			return drivererr.ErrUnknownControl
		}
		return nil
	case 0x02:
		if pkt.Buf[0] != opAck {
			return drivererr.ErrUnknownControl
		}
		return p.queue.ReleaseNext()
	default:
		return nil
	}
}
