package color

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ledkbd/internal/driver/keys"
)

func TestAccumulatorCapRotatesBatch(t *testing.T) {
	acc := NewAccumulator(keys.Standard)

	var rotated *Batch
	for i := 0; i < MaxBatchEntries; i++ {
		full := acc.Add(uint8(i), Color{R: uint8(i)})
		assert.Nil(t, full, "batch should not rotate before 14 entries")
	}
	rotated = acc.Add(keys.KeyA, Color{R: 0xAA})
	assert.NotNil(t, rotated, "the 15th Add should return the full prior batch")
	assert.Equal(t, MaxBatchEntries, rotated.Len())

	tail := acc.Drain()
	assert.NotNil(t, tail)
	assert.Equal(t, 1, tail.Len())
	assert.Equal(t, uint8(keys.KeyA), tail.Entries[0].Code)
}

func TestAccumulatorDrainEmptyReturnsNil(t *testing.T) {
	acc := NewAccumulator(keys.Logo)
	assert.Nil(t, acc.Drain())
}
