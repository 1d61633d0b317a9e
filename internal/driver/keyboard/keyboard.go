// Package keyboard implements the KeyboardApi color-set contract and
// the cooperative event loop that ties the USB transport, the control
// queue, the two packet parsers, and the handler registry together.
package keyboard

import (
	"fmt"
	"time"

	"ledkbd/internal/driver/color"
	"ledkbd/internal/driver/drivererr"
	"ledkbd/internal/driver/handler"
	"ledkbd/internal/driver/keys"
	"ledkbd/internal/driver/parser"
	"ledkbd/internal/driver/queue"
	"ledkbd/internal/driver/usbhal"
	"ledkbd/internal/driver/wire"
)

// Config holds the tunables exposed to callers as
// setAutoReconnect/setReconnectInterval/setReconnectAttempts. The
// deadline used when no handler has a tick registered is the fixed
// package constant forever, not a Config field.
type Config struct {
	ReconnectAttempts int
	ReconnectInterval time.Duration
	AutoReconnect     bool
}

// Keyboard is the full driver: transport, control queue, parsers, and
// the handler registry, all owned by a single event-loop goroutine.
type Keyboard struct {
	transport usbhal.Interface
	queue     *queue.ControlQueue
	keyParser *parser.KeyParser
	ctlParser *parser.ControlParser
	registry  *handler.Registry
	cfg       Config

	shutdown chan struct{}
}

var _ handler.KeyboardAPI = (*Keyboard)(nil)

// New wires a Keyboard around an already-open transport.
func New(transport usbhal.Interface, cfg Config) *Keyboard {
	q := queue.New(transport)
	return &Keyboard{
		transport: transport,
		queue:     q,
		keyParser: parser.NewKeyParser(),
		ctlParser: parser.NewControlParser(q),
		registry:  handler.NewRegistry(),
		cfg:       cfg,
		shutdown:  make(chan struct{}),
	}
}

// AddHandler registers h and returns its id.
func (k *Keyboard) AddHandler(h *handler.Handler) handler.ID {
	return k.registry.Add(h)
}

// RemoveHandler unregisters the handler with the given id.
func (k *Keyboard) RemoveHandler(id handler.ID) (*handler.Handler, bool) {
	return k.registry.Remove(id)
}

// SetColor sets a single key's color.
func (k *Keyboard) SetColor(kc color.KeyColor) error {
	return k.SetKeyColors([]color.KeyColor{kc})
}

// SetAllColors sets every colorable (non-Media) key in the catalog to c.
func (k *Keyboard) SetAllColors(c color.Color) error {
	all := keys.AllColorable()
	colors := make([]color.KeyColor, len(all))
	for i, key := range all {
		colors[i] = color.KeyColor{Key: key, Color: c}
	}
	return k.SetKeyColors(colors)
}

// SetKeyColors partitions colors by category into Standard/Gaming/Logo
// batch accumulators, collecting each batch as it fills. Once every
// entry is processed, it enqueues all collected batches and non-empty
// tail batches in Standard/Gaming/Logo order, then a final Flush. A Media key in the
// input aborts immediately with ErrInvalidTarget: prior appends to the
// accumulators in this call are simply discarded, since nothing has
// been encoded or enqueued yet.
func (k *Keyboard) SetKeyColors(colors []color.KeyColor) error {
	order := []keys.Category{keys.Standard, keys.Gaming, keys.Logo}
	accumulators := map[keys.Category]*color.Accumulator{
		keys.Standard: color.NewAccumulator(keys.Standard),
		keys.Gaming:   color.NewAccumulator(keys.Gaming),
		keys.Logo:     color.NewAccumulator(keys.Logo),
	}
	completed := map[keys.Category][]*color.Batch{}

	for _, kc := range colors {
		if kc.Key.Category == keys.Media {
			return drivererr.ErrInvalidTarget
		}
		acc := accumulators[kc.Key.Category]
		if full := acc.Add(kc.Key.Code, kc.Color); full != nil {
			completed[kc.Key.Category] = append(completed[kc.Key.Category], full)
		}
	}
	for _, cat := range order {
		if tail := accumulators[cat].Drain(); tail != nil {
			completed[cat] = append(completed[cat], tail)
		}
	}

	// Standard-before-Gaming-before-Logo regardless of input interleaving,
	// each category's own batches kept in append order.
	var pending []*color.Batch
	for _, cat := range order {
		pending = append(pending, completed[cat]...)
	}

	for _, b := range pending {
		if err := k.queue.Enqueue(wire.EncodeColorBatch(b)); err != nil {
			return fmt.Errorf("enqueue color batch: %w", err)
		}
	}
	if err := k.queue.Enqueue(wire.EncodeFlush()); err != nil {
		return fmt.Errorf("enqueue flush: %w", err)
	}
	return nil
}
