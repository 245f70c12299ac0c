// Package postgres implements the entity gateway over a jsonb document table,
// mirroring the hosted backend's collection semantics: one row per document,
// shallow merge on update, equality predicates pushed down to the database.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shutterops/internal/gateway"
	"shutterops/pkg/platform/sentinel"
)

// Schema is the table this gateway reads and writes.
//
//	CREATE TABLE IF NOT EXISTS records (
//	    collection text NOT NULL,
//	    id         text NOT NULL,
//	    doc        jsonb NOT NULL,
//	    PRIMARY KEY (collection, id)
//	);
//	CREATE INDEX IF NOT EXISTS records_email_idx
//	    ON records (collection, (doc->>'email'));
const Schema = `
CREATE TABLE IF NOT EXISTS records (
    collection text NOT NULL,
    id         text NOT NULL,
    doc        jsonb NOT NULL,
    PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS records_email_idx
    ON records (collection, (doc->>'email'));
`

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the records table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	return err
}

func scanDocs(rows pgx.Rows) ([]gateway.Doc, error) {
	defer rows.Close()

	var docs []gateway.Doc
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan doc: %w", err)
		}
		var d gateway.Doc
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("unmarshal doc: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Store) List(ctx context.Context, c gateway.Collection) ([]gateway.Doc, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc FROM records WHERE collection = $1`, string(c))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c, err)
	}
	return scanDocs(rows)
}

func (s *Store) Filter(ctx context.Context, c gateway.Collection, preds ...gateway.Predicate) ([]gateway.Doc, error) {
	query := `SELECT doc FROM records WHERE collection = $1`
	args := []any{string(c)}
	for _, p := range preds {
		args = append(args, p.Field, p.Equals)
		query += fmt.Sprintf(` AND doc->>$%d = $%d`, len(args)-1, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter %s: %w", c, err)
	}
	return scanDocs(rows)
}

func (s *Store) Get(ctx context.Context, c gateway.Collection, id string) (gateway.Doc, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM records WHERE collection = $1 AND id = $2`,
		string(c), id,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s %q: %w", c, id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %q: %w", c, id, err)
	}

	var d gateway.Doc
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("unmarshal %s %q: %w", c, id, err)
	}
	return d, nil
}

func (s *Store) Create(ctx context.Context, c gateway.Collection, doc gateway.Doc) error {
	id := doc.ID()
	if id == "" {
		return fmt.Errorf("%s: document missing id: %w", c, sentinel.ErrInvalidState)
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s %q: %w", c, id, err)
	}

	tag, err := s.pool.Exec(ctx, `
		INSERT INTO records (collection, id, doc)
		VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO NOTHING`,
		string(c), id, raw,
	)
	if err != nil {
		return fmt.Errorf("create %s %q: %w", c, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %q: %w", c, id, sentinel.ErrConflict)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, c gateway.Collection, id string, patch gateway.Doc) error {
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal patch for %s %q: %w", c, id, err)
	}

	// doc || patch is a shallow merge, matching the hosted backend's
	// update(id, patch) semantics.
	tag, err := s.pool.Exec(ctx, `
		UPDATE records SET doc = doc || $3::jsonb
		WHERE collection = $1 AND id = $2`,
		string(c), id, raw,
	)
	if err != nil {
		return fmt.Errorf("update %s %q: %w", c, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s %q: %w", c, id, sentinel.ErrNotFound)
	}
	return nil
}

func (s *Store) BulkCreate(ctx context.Context, c gateway.Collection, docs []gateway.Doc) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin bulk create: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, d := range docs {
		id := d.ID()
		if id == "" {
			return fmt.Errorf("%s: document missing id: %w", c, sentinel.ErrInvalidState)
		}
		raw, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("marshal %s %q: %w", c, id, err)
		}
		if _, err := tx.Exec(ctx, `
			INSERT INTO records (collection, id, doc) VALUES ($1, $2, $3)`,
			string(c), id, raw,
		); err != nil {
			return fmt.Errorf("bulk create %s %q: %w", c, id, err)
		}
	}

	return tx.Commit(ctx)
}

var _ gateway.Gateway = (*Store)(nil)
