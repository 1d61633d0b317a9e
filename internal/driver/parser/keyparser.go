package parser

import "ledkbd/internal/driver/keys"

// pressedSet is a set of keys, used independently per input stream
// because each stream reports its own bitmap and must be diffed on its own.
type pressedSet map[keys.Key]struct{}

// diff computes added/removed against a new snapshot and replaces the
// receiver's contents with it.
func (s *pressedSet) diff(next pressedSet) (added, removed []keys.Key) {
	for k := range next {
		if _, ok := (*s)[k]; !ok {
			added = append(added, k)
		}
	}
	for k := range *s {
		if _, ok := next[k]; !ok {
			removed = append(removed, k)
		}
	}
	*s = next
	return added, removed
}

// KeyParser maintains three independent pressed-sets, standard,
// rollover, and media, and diffs each independently to emit
// Pressed/Released events.
type KeyParser struct {
	standard pressedSet
	rollover pressedSet
	media    pressedSet
}

// NewKeyParser returns a KeyParser with all three streams empty.
func NewKeyParser() *KeyParser {
	return &KeyParser{
		standard: pressedSet{},
		rollover: pressedSet{},
		media:    pressedSet{},
	}
}

// Accept recognizes the three input report shapes by (endpoint, length,
// first byte).
func (p *KeyParser) Accept(pkt Packet) bool {
	return isStandardReport(pkt) || isRolloverReport(pkt) || isMediaReport(pkt)
}

func isStandardReport(pkt Packet) bool {
	return pkt.Endpoint == 1 && len(pkt.Buf) == 8 && pkt.Buf[0] == 0x00
}

func isRolloverReport(pkt Packet) bool {
	return pkt.Endpoint == 2 && len(pkt.Buf) == 21 && pkt.Buf[0] == 0x01
}

func isMediaReport(pkt Packet) bool {
	return pkt.Endpoint == 2 && len(pkt.Buf) == 2 && pkt.Buf[0] == 0x02
}

// modifier bit -> Standard key code, in the device's bit order.
var modifierBits = []struct {
	mask uint8
	code uint8
}{
	{0x01, keys.KeyLeftControl},
	{0x02, keys.KeyLeftShift},
	{0x04, keys.KeyLeftAlt},
	{0x08, keys.KeyLeftWindows},
	{0x10, keys.KeyRightControl},
	{0x20, keys.KeyRightShift},
	{0x40, keys.KeyRightAlt},
	{0x80, keys.KeyRightWindows},
}

// Parse computes the new pressed-set for whichever stream pkt belongs
// to, diffs it against that stream's prior state, and returns the
// resulting events: every Pressed event before every Released event,
// matching the order the device reports apply.
func (p *KeyParser) Parse(pkt Packet) []KeyEvent {
	switch {
	case isStandardReport(pkt):
		return p.parseStandard(pkt)
	case isRolloverReport(pkt):
		return p.parseRollover(pkt)
	case isMediaReport(pkt):
		return p.parseMedia(pkt)
	default:
		return nil
	}
}

func (p *KeyParser) parseStandard(pkt Packet) []KeyEvent {
	next := pressedSet{}
	for _, m := range modifierBits {
		if pkt.Buf[0]&m.mask == m.mask {
			next[keys.NewStandard(m.code)] = struct{}{}
		}
	}
	for _, b := range pkt.Buf[2:8] {
		if b == 0 {
			continue
		}
		if k, ok := keys.StandardByCode(b); ok {
			next[k] = struct{}{}
		}
	}
	added, removed := p.standard.diff(next)
	return toEvents(added, removed)
}

func (p *KeyParser) parseRollover(pkt Packet) []KeyEvent {
	next := pressedSet{}
	for _, b := range pkt.Buf[1:21] {
		if b == 0 {
			continue
		}
		if k, ok := keys.StandardByCode(b); ok {
			next[k] = struct{}{}
		}
	}
	added, removed := p.rollover.diff(next)
	return toEvents(added, removed)
}

func (p *KeyParser) parseMedia(pkt Packet) []KeyEvent {
	next := pressedSet{}
	bitmap := pkt.Buf[1]
	for _, code := range keys.MediaCodes() {
		if bitmap&code == code {
			next[keys.NewMedia(code)] = struct{}{}
		}
	}
	added, removed := p.media.diff(next)
	return toEvents(added, removed)
}

func toEvents(added, removed []keys.Key) []KeyEvent {
	events := make([]KeyEvent, 0, len(added)+len(removed))
	for _, k := range added {
		events = append(events, KeyEvent{Kind: Pressed, Key: k})
	}
	for _, k := range removed {
		events = append(events, KeyEvent{Kind: Released, Key: k})
	}
	return events
}
