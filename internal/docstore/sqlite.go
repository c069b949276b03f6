package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLite stores documents as JSON rows in a single-file database. Suited
// to single-node deployments where running Postgres is overkill.
type SQLite struct {
	db *sql.DB
}

var _ Store = (*SQLite)(nil)

// OpenSQLite opens (or creates) the document database at path, creating
// parent directories as needed.
func OpenSQLite(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening document db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		collection TEXT NOT NULL,
		id         TEXT NOT NULL,
		data       TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (collection, id)
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Get(ctx context.Context, collection, id string) (Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("reading document %s/%s: %w", collection, id, err)
	}
	return decodeDocument(id, data)
}

func (s *SQLite) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents
		 WHERE collection = ? AND json_extract(data, '$.' || ?) = ?`,
		collection, filter.Field, filter.Value)
	if err != nil {
		return nil, fmt.Errorf("querying %s by %s: %w", collection, filter.Field, err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		doc, err := decodeDocument(id, data)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// Put merges fields into the stored document inside a transaction: read,
// merge in memory, write back. Creates the document when absent.
func (s *SQLite) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting put transaction: %w", err)
	}
	defer tx.Rollback()

	existing := map[string]any{}
	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id).Scan(&data)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("reading document %s/%s: %w", collection, id, err)
	}
	if err == nil {
		if uerr := json.Unmarshal([]byte(data), &existing); uerr != nil {
			return fmt.Errorf("decoding document %s/%s: %w", collection, id, uerr)
		}
	}

	for k, v := range fields {
		existing[k] = v
	}
	merged, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("encoding document %s/%s: %w", collection, id, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		collection, id, string(merged))
	if err != nil {
		return fmt.Errorf("writing document %s/%s: %w", collection, id, err)
	}
	return tx.Commit()
}

func (s *SQLite) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`,
		collection, id, string(data))
	if err != nil {
		return "", fmt.Errorf("inserting into %s: %w", collection, err)
	}
	return id, nil
}

func decodeDocument(id, data string) (Document, error) {
	var fields map[string]any
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return Document{}, fmt.Errorf("decoding document %s: %w", id, err)
	}
	return Document{ID: id, Fields: fields}, nil
}
