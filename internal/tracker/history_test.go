package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/Phuzzle/exerpal/internal/docstore"
	"github.com/Phuzzle/exerpal/internal/models"
)

// seedHistory inserts two archived cycles directly into the store: an
// older one where only the bench was completed, a newer one where bench
// and row were completed at higher loads.
func seedHistory(t *testing.T, store *docstore.Memory, scheduleID string) {
	t.Helper()
	ctx := context.Background()
	bench := models.ExerciseID(scheduleID, "Barbell Bench Press")
	row := models.ExerciseID(scheduleID, "Barbell Row")
	day := 1

	older := models.HistoryEntry{
		UserID:           "u1",
		ScheduleID:       scheduleID,
		Date:             time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		LastCompletedDay: &day,
		Status:           map[string]models.Status{bench: models.StatusCompleted, row: models.StatusFailed},
		Weights:          map[string]float64{bench: 100, row: 60},
	}
	newer := models.HistoryEntry{
		UserID:           "u1",
		ScheduleID:       scheduleID,
		Date:             time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		LastCompletedDay: &day,
		Status:           map[string]models.Status{bench: models.StatusCompleted, row: models.StatusCompleted},
		Weights:          map[string]float64{bench: 105, row: 60},
	}

	for _, entry := range []models.HistoryEntry{older, newer} {
		fields, err := docstore.Fields(entry)
		if err != nil {
			t.Fatalf("Fields: %v", err)
		}
		if _, err := store.Insert(ctx, docstore.History, fields); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
}

// TestHistoryNewestFirst verifies history ordering.
func TestHistoryNewestFirst(t *testing.T) {
	tr, store := newTestTracker()
	seedHistory(t, store, "sched1")

	entries, err := tr.History(context.Background(), "u1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if !entries[0].Date.After(entries[1].Date) {
		t.Errorf("entries not newest-first: %v then %v", entries[0].Date, entries[1].Date)
	}
}

// TestStats verifies the aggregation: three completions over four
// attempts, bench completed most often.
func TestStats(t *testing.T) {
	tr, store := newTestTracker()
	seedHistory(t, store, "sched1")

	stats, err := tr.Stats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalWorkouts != 3 {
		t.Errorf("totalWorkouts = %d, want 3", stats.TotalWorkouts)
	}
	if stats.CompletionRate != 75.0 {
		t.Errorf("completionRate = %v, want 75.0", stats.CompletionRate)
	}
	if stats.MostFrequentExercise != "Barbell Bench Press" {
		t.Errorf("mostFrequentExercise = %q, want bench", stats.MostFrequentExercise)
	}
}

// TestStatsEmpty verifies the zero-history defaults.
func TestStatsEmpty(t *testing.T) {
	tr, _ := newTestTracker()
	stats, err := tr.Stats(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalWorkouts != 0 || stats.CompletionRate != 0 || stats.MostFrequentExercise != "None" {
		t.Errorf("empty stats = %+v", stats)
	}
}

// TestWeightProgression verifies the chronological per-exercise series.
func TestWeightProgression(t *testing.T) {
	tr, store := newTestTracker()
	seedHistory(t, store, "sched1")

	series, err := tr.WeightProgression(context.Background(), "u1")
	if err != nil {
		t.Fatalf("WeightProgression: %v", err)
	}

	benchSeries := series["Barbell Bench Press"]
	if len(benchSeries) != 2 {
		t.Fatalf("bench series has %d points, want 2", len(benchSeries))
	}
	if benchSeries[0].Weight != 100 || benchSeries[1].Weight != 105 {
		t.Errorf("bench series = %v, want 100 then 105", benchSeries)
	}
	if !benchSeries[0].Date.Before(benchSeries[1].Date) {
		t.Errorf("series not chronological")
	}
}
