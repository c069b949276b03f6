package docstore

import (
	"context"
	"errors"
	"testing"
)

// TestMemoryGetAbsent verifies Get on a missing document returns ErrNotFound.
func TestMemoryGetAbsent(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), "schedules", "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestMemoryPutMerges verifies Put merges top-level fields, leaving
// unmentioned fields intact, and creates absent documents.
func TestMemoryPutMerges(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Put(ctx, "progress", "u1", map[string]any{
		"currentDay": 1,
		"weights":    map[string]any{"a": 50.0},
	}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := m.Put(ctx, "progress", "u1", map[string]any{
		"currentDay": 3,
	}); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	doc, err := m.Get(ctx, "progress", "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got := doc.Fields["currentDay"].(float64); got != 3 {
		t.Errorf("currentDay = %v, want 3", got)
	}
	weights, ok := doc.Fields["weights"].(map[string]any)
	if !ok || weights["a"].(float64) != 50.0 {
		t.Errorf("weights lost on merge: %v", doc.Fields["weights"])
	}
}

// TestMemoryDocumentsAreCopies verifies a returned document can't mutate
// stored state.
func TestMemoryDocumentsAreCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Put(ctx, "progress", "u1", map[string]any{"currentDay": 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	doc, _ := m.Get(ctx, "progress", "u1")
	doc.Fields["currentDay"] = 99

	again, _ := m.Get(ctx, "progress", "u1")
	if got := again.Fields["currentDay"].(float64); got != 1 {
		t.Errorf("stored state mutated through returned document: %v", got)
	}
}

// TestMemoryQueryByField verifies owner-scoped equality filtering.
func TestMemoryQueryByField(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for _, owner := range []string{"u1", "u1", "u2"} {
		if _, err := m.Insert(ctx, "schedules", map[string]any{"userId": owner}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	docs, err := m.Query(ctx, "schedules", Filter{Field: "userId", Value: "u1"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("got %d documents, want 2", len(docs))
	}
}

// TestFieldsRoundTrip verifies the typed-value → field-map → typed-value
// conversion used at the tracker boundary.
func TestFieldsRoundTrip(t *testing.T) {
	type payload struct {
		Name  string  `json:"name"`
		Count int     `json:"count"`
		Rate  float64 `json:"rate"`
	}

	fields, err := Fields(payload{Name: "x", Count: 2, Rate: 1.5})
	if err != nil {
		t.Fatalf("Fields: %v", err)
	}
	var out payload
	if err := (Document{ID: "d", Fields: fields}).Decode(&out); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Name != "x" || out.Count != 2 || out.Rate != 1.5 {
		t.Errorf("round trip = %+v", out)
	}
}
