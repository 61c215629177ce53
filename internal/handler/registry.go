package handler

import (
	"fmt"

	"github.com/aevumlab/aevum/internal/domain"
	"github.com/aevumlab/aevum/internal/index"
)

// Registry holds the routable handlers in registration order. Order is
// meaningful: the first handler is the fallback when no routing signal
// clears its threshold.
type Registry struct {
	ordered []domain.Handler
	byName  map[string]domain.Handler
}

func NewRegistry(handlers ...domain.Handler) (*Registry, error) {
	if len(handlers) == 0 {
		return nil, fmt.Errorf("registry requires at least one handler")
	}
	r := &Registry{byName: make(map[string]domain.Handler, len(handlers))}
	for _, h := range handlers {
		if _, exists := r.byName[h.Name()]; exists {
			return nil, fmt.Errorf("duplicate handler name %q", h.Name())
		}
		r.ordered = append(r.ordered, h)
		r.byName[h.Name()] = h
	}
	return r, nil
}

// All returns the handlers in registration order.
func (r *Registry) All() []domain.Handler {
	return append([]domain.Handler{}, r.ordered...)
}

// ByName returns the handler registered under name, or nil.
func (r *Registry) ByName(name string) domain.Handler {
	return r.byName[name]
}

// Fallback returns the first registered handler.
func (r *Registry) Fallback() domain.Handler {
	return r.ordered[0]
}

// Examples returns every handler's domain examples labeled by handler
// name, ready for indexing.
func (r *Registry) Examples() []index.Example {
	var out []index.Example
	for _, h := range r.ordered {
		for _, content := range h.DomainExamples() {
			out = append(out, index.Example{Label: h.Name(), Content: content})
		}
	}
	return out
}
