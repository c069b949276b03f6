package docstore

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store. It backs engine tests and the memory
// driver for throwaway dev runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]map[string]any // collection -> id -> fields
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: map[string]map[string]map[string]any{}}
}

func (m *Memory) Get(ctx context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	fields, ok := m.data[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Fields: cloneFields(fields)}, nil
}

func (m *Memory) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Document
	for id, fields := range m.data[collection] {
		if v, ok := fields[filter.Field].(string); ok && v == filter.Value {
			out = append(out, Document{ID: id, Fields: cloneFields(fields)})
		}
	}
	return out, nil
}

func (m *Memory) Put(ctx context.Context, collection, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data[collection] == nil {
		m.data[collection] = map[string]map[string]any{}
	}
	existing, ok := m.data[collection][id]
	if !ok {
		existing = map[string]any{}
		m.data[collection][id] = existing
	}
	for k, v := range cloneFields(fields) {
		existing[k] = v
	}
	return nil
}

func (m *Memory) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	if err := m.Put(ctx, collection, id, fields); err != nil {
		return "", err
	}
	return id, nil
}

// cloneFields deep-copies a field map through JSON so callers can't mutate
// stored state through returned documents.
func cloneFields(fields map[string]any) map[string]any {
	raw, err := json.Marshal(fields)
	if err != nil {
		return map[string]any{}
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return out
}
