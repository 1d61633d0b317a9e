package handler

// ID identifies a registered Handler for later removal.
type ID int

// Registry holds every registered handler in registration order, which
// is also dispatch order and init order.
type Registry struct {
	order []ID
	byID  map[ID]*Handler
	next  ID
}

// NewRegistry returns an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{byID: map[ID]*Handler{}}
}

// Add registers h and returns its id.
func (r *Registry) Add(h *Handler) ID {
	r.next++
	id := r.next
	r.byID[id] = h
	r.order = append(r.order, id)
	return id
}

// Remove unregisters the handler with the given id, if present, and
// returns it.
func (r *Registry) Remove(id ID) (*Handler, bool) {
	h, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	delete(r.byID, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return h, true
}

// InitAll runs every handler's Init callback in registration order.
func (r *Registry) InitAll(kb KeyboardAPI) error {
	for _, id := range r.order {
		if err := r.byID[id].Init(kb); err != nil {
			return err
		}
	}
	return nil
}

// All returns every handler in registration order.
func (r *Registry) All() []*Handler {
	handlers := make([]*Handler, 0, len(r.order))
	for _, id := range r.order {
		handlers = append(handlers, r.byID[id])
	}
	return handlers
}

// WithTicks returns every handler that registered a tick callback, in
// registration order.
func (r *Registry) WithTicks() []*Handler {
	var ticked []*Handler
	for _, id := range r.order {
		if h := r.byID[id]; h.HasTick() {
			ticked = append(ticked, h)
		}
	}
	return ticked
}
