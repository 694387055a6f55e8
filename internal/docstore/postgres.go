package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slipbook-erp/slipbook/internal/platform/db"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
    collection TEXT NOT NULL,
    doc_id     TEXT NOT NULL,
    data       JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (collection, doc_id)
)`

// Postgres persists documents in a single JSONB-backed table keyed by
// (collection, doc_id).
type Postgres struct {
	pool *pgxpool.Pool
	hub  *hub
}

// NewPostgres constructs the Postgres-backed store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, hub: newHub()}
}

// EnsureSchema creates the documents table when missing.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("docstore: ensure schema: %w", err)
	}
	return nil
}

// GetOne returns a single document or ErrNotFound.
func (s *Postgres) GetOne(ctx context.Context, collection, id string) (Document, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND doc_id = $2`,
		collection, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, fmt.Errorf("docstore: get %s/%s: %w", collection, id, err)
	}
	return decodeRow(id, raw)
}

// Set upserts a document keyed by id.
func (s *Postgres) Set(ctx context.Context, collection, id string, fields map[string]any, merge bool) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("docstore: set %s/%s: %w", collection, id, err)
	}
	if _, err := s.pool.Exec(ctx, setSQL(merge), collection, id, raw); err != nil {
		return fmt.Errorf("docstore: set %s/%s: %w", collection, id, err)
	}
	s.hub.notify(collection)
	return nil
}

// Delete removes a document. Absent documents are ignored.
func (s *Postgres) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND doc_id = $2`,
		collection, id,
	); err != nil {
		return fmt.Errorf("docstore: delete %s/%s: %w", collection, id, err)
	}
	s.hub.notify(collection)
	return nil
}

// List returns a snapshot of the collection ordered by document id.
func (s *Postgres) List(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT doc_id, data FROM documents WHERE collection = $1 ORDER BY doc_id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("docstore: list %s: %w", collection, err)
		}
		doc, err := decodeRow(id, raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("docstore: list %s: %w", collection, err)
	}
	return docs, nil
}

// RunBatch applies all operations inside one transaction.
func (s *Postgres) RunBatch(ctx context.Context, ops []BatchOp) error {
	if len(ops) == 0 {
		return nil
	}
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		for _, op := range ops {
			switch op.Kind {
			case OpSet:
				raw, err := json.Marshal(op.Fields)
				if err != nil {
					return fmt.Errorf("docstore: batch set %s/%s: %w", op.Collection, op.ID, err)
				}
				if _, err := tx.Exec(ctx, setSQL(op.Merge), op.Collection, op.ID, raw); err != nil {
					return fmt.Errorf("docstore: batch set %s/%s: %w", op.Collection, op.ID, err)
				}
			case OpDelete:
				if _, err := tx.Exec(ctx,
					`DELETE FROM documents WHERE collection = $1 AND doc_id = $2`,
					op.Collection, op.ID,
				); err != nil {
					return fmt.Errorf("docstore: batch delete %s/%s: %w", op.Collection, op.ID, err)
				}
			default:
				return fmt.Errorf("docstore: batch: unknown op kind %q", op.Kind)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.hub.notify(touchedCollections(ops)...)
	return nil
}

// Watch subscribes to change notifications for the collection.
func (s *Postgres) Watch(collection string) (<-chan struct{}, func()) {
	return s.hub.subscribe(collection)
}

func setSQL(merge bool) string {
	if merge {
		return `INSERT INTO documents (collection, doc_id, data, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (collection, doc_id)
			DO UPDATE SET data = documents.data || EXCLUDED.data, updated_at = now()`
	}
	return `INSERT INTO documents (collection, doc_id, data, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (collection, doc_id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
}

func decodeRow(id string, raw []byte) (Document, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Document{}, fmt.Errorf("docstore: decode row %s: %w", id, err)
	}
	return Document{ID: id, Fields: fields}, nil
}

func touchedCollections(ops []BatchOp) []string {
	seen := make(map[string]struct{}, len(ops))
	var out []string
	for _, op := range ops {
		if _, ok := seen[op.Collection]; ok {
			continue
		}
		seen[op.Collection] = struct{}{}
		out = append(out, op.Collection)
	}
	return out
}
