package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegistryDispatchOrderMatchesRegistration(t *testing.T) {
	r := NewRegistry()
	var order []string

	first := New(nil).OnInit(func(any, KeyboardAPI) error { order = append(order, "first"); return nil }).Build()
	second := New(nil).OnInit(func(any, KeyboardAPI) error { order = append(order, "second"); return nil }).Build()

	r.Add(first)
	r.Add(second)

	assert.NoError(t, r.InitAll(&fakeKeyboard{}))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	id := r.Add(New(nil).Build())

	h, ok := r.Remove(id)
	assert.True(t, ok)
	assert.NotNil(t, h)
	assert.Empty(t, r.All())

	_, ok = r.Remove(id)
	assert.False(t, ok)
}

func TestRegistryWithTicksFiltersNonTickers(t *testing.T) {
	r := NewRegistry()
	r.Add(New(nil).Build())
	ticked := New(nil).OnTick(1, func(any, time.Duration, KeyboardAPI) error { return nil }).Build()
	r.Add(ticked)

	ticks := r.WithTicks()
	assert.Len(t, ticks, 1)
	assert.Same(t, ticked, ticks[0])
}

func TestRegistryInitAllStopsOnFirstError(t *testing.T) {
	r := NewRegistry()
	var calledSecond bool
	r.Add(New(nil).OnInit(func(any, KeyboardAPI) error { return assert.AnError }).Build())
	r.Add(New(nil).OnInit(func(any, KeyboardAPI) error { calledSecond = true; return nil }).Build())

	err := r.InitAll(&fakeKeyboard{})
	assert.Error(t, err)
	assert.False(t, calledSecond)
}
