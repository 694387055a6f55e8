package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-process Store used by tests and local development.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
	hub         *hub
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		collections: make(map[string]map[string]map[string]any),
		hub:         newHub(),
	}
}

// GetOne returns a single document or ErrNotFound.
func (s *Memory) GetOne(ctx context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Fields: deepCopy(fields)}, nil
}

// Set upserts a document keyed by id.
func (s *Memory) Set(ctx context.Context, collection, id string, fields map[string]any, merge bool) error {
	s.mu.Lock()
	s.applySet(collection, id, fields, merge)
	s.mu.Unlock()
	s.hub.notify(collection)
	return nil
}

// Delete removes a document. Absent documents are ignored.
func (s *Memory) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	delete(s.collections[collection], id)
	s.mu.Unlock()
	s.hub.notify(collection)
	return nil
}

// List returns a snapshot of the collection ordered by document id.
func (s *Memory) List(ctx context.Context, collection string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	docs := make([]Document, 0, len(s.collections[collection]))
	for id, fields := range s.collections[collection] {
		docs = append(docs, Document{ID: id, Fields: deepCopy(fields)})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

// RunBatch applies all operations under one lock acquisition.
func (s *Memory) RunBatch(ctx context.Context, ops []BatchOp) error {
	s.mu.Lock()
	for _, op := range ops {
		switch op.Kind {
		case OpSet:
			s.applySet(op.Collection, op.ID, op.Fields, op.Merge)
		case OpDelete:
			delete(s.collections[op.Collection], op.ID)
		default:
			s.mu.Unlock()
			return fmt.Errorf("docstore: batch: unknown op kind %q", op.Kind)
		}
	}
	s.mu.Unlock()
	s.hub.notify(touchedCollections(ops)...)
	return nil
}

// Watch subscribes to change notifications for the collection.
func (s *Memory) Watch(collection string) (<-chan struct{}, func()) {
	return s.hub.subscribe(collection)
}

func (s *Memory) applySet(collection, id string, fields map[string]any, merge bool) {
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]map[string]any)
	}
	next := deepCopy(fields)
	if merge {
		if existing, ok := s.collections[collection][id]; ok {
			merged := deepCopy(existing)
			for k, v := range next {
				merged[k] = v
			}
			next = merged
		}
	}
	s.collections[collection][id] = next
}

// deepCopy isolates stored state from caller mutation. Field maps only ever
// hold JSON-compatible values, so a marshal round trip is sufficient.
func deepCopy(fields map[string]any) map[string]any {
	if fields == nil {
		return map[string]any{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		out := make(map[string]any, len(fields))
		for k, v := range fields {
			out[k] = v
		}
		return out
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
