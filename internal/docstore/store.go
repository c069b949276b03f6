// Package docstore is the document-store boundary the tracker engine writes
// through. A store holds named JSON documents in collections and offers
// read-after-write consistency per document; everything richer (schemas,
// joins, transactions across documents) lives outside this interface.
//
// Three implementations: Memory (tests and throwaway dev runs), SQLite
// (single-node deployments), Postgres (the default server setup).
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Collection names used by the tracker.
const (
	Schedules = "schedules"
	Progress  = "progress"
	History   = "workoutHistory"
)

// ErrNotFound is returned by Get for an absent document.
var ErrNotFound = errors.New("document not found")

// Document is a stored record: its id plus the decoded top-level fields.
type Document struct {
	ID     string
	Fields map[string]any
}

// Decode unmarshals the document fields into a typed value.
func (d Document) Decode(v any) error {
	raw, err := json.Marshal(d.Fields)
	if err != nil {
		return fmt.Errorf("encoding document %s: %w", d.ID, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decoding document %s: %w", d.ID, err)
	}
	return nil
}

// Filter selects documents whose top-level field equals a string value.
// Equality on a single field is all the tracker needs (owner scoping).
type Filter struct {
	Field string
	Value string
}

// Store is the abstract document store.
//
// Put merges the given fields into the document at (collection, id),
// creating it if absent; fields not mentioned keep their stored value.
// Insert creates a new document with a generated id. Query returns
// documents matching the filter in unspecified order.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Query(ctx context.Context, collection string, filter Filter) ([]Document, error)
	Put(ctx context.Context, collection, id string, fields map[string]any) error
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
}

// Fields converts a typed value into a top-level field map via its JSON
// representation. Used when writing whole documents.
func Fields(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding fields: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decoding fields: %w", err)
	}
	return fields, nil
}
