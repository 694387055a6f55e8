package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/slipbook-erp/slipbook/internal/docstore"
)

// Repository persists slip documents in the document store, one collection
// per workflow, keyed by slip number.
type Repository struct {
	store docstore.Store
}

// NewRepository constructs Repository.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// Get returns the document stored under the slip number.
func (r *Repository) Get(ctx context.Context, kind Kind, slipNo string) (SlipDocument, error) {
	doc, err := r.store.GetOne(ctx, string(kind), slipNo)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return SlipDocument{}, ErrNotFound
		}
		return SlipDocument{}, err
	}
	var out SlipDocument
	if err := docstore.Decode(doc, &out); err != nil {
		return SlipDocument{}, fmt.Errorf("documents: decode %s/%s: %w", kind, slipNo, err)
	}
	out.ID = doc.ID
	return out, nil
}

// Put overwrites the document stored under its slip number.
func (r *Repository) Put(ctx context.Context, kind Kind, doc SlipDocument) error {
	fields, err := docstore.Encode(doc)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, string(kind), doc.ID, fields, false)
}

// Delete removes the document stored under the slip number.
func (r *Repository) Delete(ctx context.Context, kind Kind, slipNo string) error {
	return r.store.Delete(ctx, string(kind), slipNo)
}

// List returns a snapshot of every saved document of the kind.
func (r *Repository) List(ctx context.Context, kind Kind) ([]SlipDocument, error) {
	docs, err := r.store.List(ctx, string(kind))
	if err != nil {
		return nil, err
	}
	out := make([]SlipDocument, 0, len(docs))
	for _, doc := range docs {
		var entity SlipDocument
		if err := docstore.Decode(doc, &entity); err != nil {
			return nil, fmt.Errorf("documents: decode %s/%s: %w", kind, doc.ID, err)
		}
		entity.ID = doc.ID
		out = append(out, entity)
	}
	return out, nil
}

// Watch subscribes to change notifications for the kind's collection.
func (r *Repository) Watch(kind Kind) (<-chan struct{}, func()) {
	return r.store.Watch(string(kind))
}
