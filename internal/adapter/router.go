package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-field-sync/models"
)

// Router is a [RemoteSubmitter] that dispatches each operation to the
// [KindHandler] registered for its kind.
type Router struct {
	mu       sync.RWMutex
	handlers map[models.OperationKind]KindHandler
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{handlers: make(map[models.OperationKind]KindHandler)}
}

// Register binds h to kind, replacing any previous handler.
func (r *Router) Register(kind models.OperationKind, h KindHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = h
}

// Kinds returns the registered kinds in no particular order.
func (r *Router) Kinds() []models.OperationKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]models.OperationKind, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	return kinds
}

// Submit implements [RemoteSubmitter].
func (r *Router) Submit(ctx context.Context, kind models.OperationKind, payload json.RawMessage) error {
	r.mu.RLock()
	h, ok := r.handlers[kind]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	return h.Handle(ctx, payload)
}
