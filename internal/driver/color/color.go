// Package color holds the color value types and the per-category batch
// builder used to accumulate key/color pairs before they are handed to
// the wire codec.
package color

import "ledkbd/internal/driver/keys"

// Color is an RGB triple. Value type, no invariants.
type Color struct {
	R, G, B uint8
}

// KeyColor pairs a key with the color it should be set to.
type KeyColor struct {
	Key   keys.Key
	Color Color
}

// MaxBatchEntries is the most (code, Color) pairs a single ColorBatch may
// carry before it must be flushed to the wire.
const MaxBatchEntries = 14

// Entry is one (code, color) pair inside a batch.
type Entry struct {
	Code  uint8
	Color Color
}

// Batch is an ordered sequence of up to MaxBatchEntries entries sharing a
// single category. It is the unit of transmission on the control
// endpoint.
type Batch struct {
	Category keys.Category
	Entries  []Entry
}

// NewBatch starts an empty batch for the given category.
func NewBatch(category keys.Category) *Batch {
	return &Batch{Category: category, Entries: make([]Entry, 0, MaxBatchEntries)}
}

// Full reports whether the batch already holds the maximum 14 entries.
func (b *Batch) Full() bool {
	return len(b.Entries) >= MaxBatchEntries
}

// Len returns the number of entries currently in the batch.
func (b *Batch) Len() int {
	return len(b.Entries)
}

// Append adds one entry to the batch. The caller is responsible for
// flushing a full batch before calling Append again. Append itself does
// not reject or wrap around; see Accumulator for that behavior.
func (b *Batch) Append(code uint8, c Color) {
	b.Entries = append(b.Entries, Entry{Code: code, Color: c})
}

// Accumulator builds batches for a single category, automatically
// rotating in a fresh batch once the current one reaches 14 entries.
type Accumulator struct {
	category keys.Category
	current  *Batch
}

// NewAccumulator starts an accumulator for the given category.
func NewAccumulator(category keys.Category) *Accumulator {
	return &Accumulator{category: category, current: NewBatch(category)}
}

// Add appends one entry. If the current batch was already full (14
// entries), it is returned so the caller can encode and enqueue it, and
// a fresh batch is started with the new entry as its sole content.
func (a *Accumulator) Add(code uint8, c Color) *Batch {
	var full *Batch
	if a.current.Full() {
		full = a.current
		a.current = NewBatch(a.category)
	}
	a.current.Append(code, c)
	return full
}

// Drain returns the in-progress batch if it has any entries, resetting
// the accumulator to empty. Call this once all entries have been added
// to flush the tail batch.
func (a *Accumulator) Drain() *Batch {
	if a.current.Len() == 0 {
		return nil
	}
	b := a.current
	a.current = NewBatch(a.category)
	return b
}
