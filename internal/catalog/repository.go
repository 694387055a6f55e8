package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/slipbook-erp/slipbook/internal/docstore"
)

// Repository persists catalog entities in the document store.
type Repository struct {
	store docstore.Store
}

// NewRepository constructs Repository.
func NewRepository(store docstore.Store) *Repository {
	return &Repository{store: store}
}

// ListParties returns all parties.
func (r *Repository) ListParties(ctx context.Context) ([]Party, error) {
	return listAs[Party](ctx, r.store, docstore.CollectionParties)
}

// GetParty returns one party by id.
func (r *Repository) GetParty(ctx context.Context, id string) (Party, error) {
	return getAs[Party](ctx, r.store, docstore.CollectionParties, id)
}

// PutParty upserts a party keyed by its id.
func (r *Repository) PutParty(ctx context.Context, party Party) error {
	return putAs(ctx, r.store, docstore.CollectionParties, party.ID, party)
}

// DeleteParty removes a party.
func (r *Repository) DeleteParty(ctx context.Context, id string) error {
	return r.store.Delete(ctx, docstore.CollectionParties, id)
}

// ListItems returns all items.
func (r *Repository) ListItems(ctx context.Context) ([]Item, error) {
	return listAs[Item](ctx, r.store, docstore.CollectionItems)
}

// GetItem returns one item by id.
func (r *Repository) GetItem(ctx context.Context, id string) (Item, error) {
	return getAs[Item](ctx, r.store, docstore.CollectionItems, id)
}

// PutItem upserts an item keyed by its id.
func (r *Repository) PutItem(ctx context.Context, item Item) error {
	return putAs(ctx, r.store, docstore.CollectionItems, item.ID, item)
}

// DeleteItem removes an item.
func (r *Repository) DeleteItem(ctx context.Context, id string) error {
	return r.store.Delete(ctx, docstore.CollectionItems, id)
}

// ListGroups returns all item groups.
func (r *Repository) ListGroups(ctx context.Context) ([]ItemGroup, error) {
	return listAs[ItemGroup](ctx, r.store, docstore.CollectionItemGroups)
}

// PutGroup upserts an item group keyed by its id.
func (r *Repository) PutGroup(ctx context.Context, group ItemGroup) error {
	return putAs(ctx, r.store, docstore.CollectionItemGroups, group.ID, group)
}

// DeleteGroup removes an item group.
func (r *Repository) DeleteGroup(ctx context.Context, id string) error {
	return r.store.Delete(ctx, docstore.CollectionItemGroups, id)
}

func listAs[T any](ctx context.Context, store docstore.Store, collection string) ([]T, error) {
	docs, err := store.List(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var entity T
		if err := docstore.Decode(doc, &entity); err != nil {
			return nil, fmt.Errorf("catalog: decode %s/%s: %w", collection, doc.ID, err)
		}
		out = append(out, entity)
	}
	return out, nil
}

func getAs[T any](ctx context.Context, store docstore.Store, collection, id string) (T, error) {
	var entity T
	doc, err := store.GetOne(ctx, collection, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return entity, ErrNotFound
		}
		return entity, err
	}
	if err := docstore.Decode(doc, &entity); err != nil {
		return entity, fmt.Errorf("catalog: decode %s/%s: %w", collection, id, err)
	}
	return entity, nil
}

func putAs(ctx context.Context, store docstore.Store, collection, id string, entity any) error {
	fields, err := docstore.Encode(entity)
	if err != nil {
		return err
	}
	return store.Set(ctx, collection, id, fields, false)
}
