// Package docstore implements the document store the application persists
// its collections in: slip-keyed documents grouped into named collections,
// with upsert, delete, atomic batch and change-notification semantics.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Collection names used by the application.
const (
	CollectionParties        = "parties"
	CollectionItems          = "items"
	CollectionItemGroups     = "itemGroups"
	CollectionBillingRecords = "billingRecords"
	CollectionOrders         = "orders"
	CollectionLoadingSlips   = "loadingSlips"
	CollectionProductionLogs = "productionLogs"
)

// ErrNotFound indicates a missing document.
var ErrNotFound = errors.New("docstore: document not found")

// Document is a stored document with its collection-scoped identifier.
// For slip-keyed collections the ID is the user-visible slip number string.
type Document struct {
	ID     string
	Fields map[string]any
}

// OpKind enumerates batch operation kinds.
type OpKind string

const (
	// OpSet upserts a document.
	OpSet OpKind = "set"
	// OpDelete removes a document.
	OpDelete OpKind = "delete"
)

// BatchOp is a single operation inside an atomic batch.
type BatchOp struct {
	Kind       OpKind
	Collection string
	ID         string
	Fields     map[string]any
	Merge      bool
}

// Store is the persistence contract the repositories build on.
type Store interface {
	// GetOne returns a single document or ErrNotFound.
	GetOne(ctx context.Context, collection, id string) (Document, error)
	// Set upserts a document keyed by id. With merge the supplied fields
	// are shallow-merged over the stored ones, otherwise the document body
	// is fully replaced.
	Set(ctx context.Context, collection, id string, fields map[string]any, merge bool) error
	// Delete removes a document. Deleting an absent document is a no-op.
	Delete(ctx context.Context, collection, id string) error
	// List returns a snapshot of every document in the collection.
	List(ctx context.Context, collection string) ([]Document, error)
	// RunBatch applies all operations atomically.
	RunBatch(ctx context.Context, ops []BatchOp) error
	// Watch returns a coalesced change-notification channel for the
	// collection and a cancel function releasing the subscription.
	Watch(collection string) (<-chan struct{}, func())
}

// Encode converts an entity struct into a document field map.
func Encode(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}
	return fields, nil
}

// Decode populates an entity struct from a document.
func Decode(doc Document, v any) error {
	raw, err := json.Marshal(doc.Fields)
	if err != nil {
		return fmt.Errorf("docstore: decode: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("docstore: decode: %w", err)
	}
	return nil
}

// hub fans change notifications out to collection watchers. Notifications
// are coalesced: a watcher that has not drained its channel yet does not
// queue further ticks.
type hub struct {
	mu   sync.Mutex
	subs map[string][]chan struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[string][]chan struct{})}
}

func (h *hub) subscribe(collection string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.subs[collection] = append(h.subs[collection], ch)
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		watchers := h.subs[collection]
		for i, c := range watchers {
			if c == ch {
				h.subs[collection] = append(watchers[:i], watchers[i+1:]...)
				break
			}
		}
	}
	return ch, cancel
}

func (h *hub) notify(collections ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, collection := range collections {
		for _, ch := range h.subs[collection] {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}
