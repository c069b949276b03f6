package tracker

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Phuzzle/exerpal/internal/docstore"
	"github.com/Phuzzle/exerpal/internal/models"
)

// History returns a user's archived cycles, newest first.
func (t *Tracker) History(ctx context.Context, userID string) ([]models.HistoryEntry, error) {
	docs, err := t.store.Query(ctx, docstore.History, docstore.Filter{Field: "userId", Value: userID})
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	entries := make([]models.HistoryEntry, 0, len(docs))
	for _, doc := range docs {
		var e models.HistoryEntry
		if err := doc.Decode(&e); err != nil {
			return nil, err
		}
		e.ID = doc.ID
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}

// HistoryStats is the simple aggregation over archived cycles shown on the
// history overview.
type HistoryStats struct {
	TotalWorkouts        int     `json:"totalWorkouts"`
	CompletionRate       float64 `json:"completionRate"`
	MostFrequentExercise string  `json:"mostFrequentExercise"`
}

// Stats aggregates all archived cycles: total completed exercises,
// completion rate over every attempted exercise, and the most frequently
// completed exercise (ties broken by name).
func (t *Tracker) Stats(ctx context.Context, userID string) (*HistoryStats, error) {
	entries, err := t.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &HistoryStats{MostFrequentExercise: "None"}
	if len(entries) == 0 {
		return stats, nil
	}

	totalAttempted := 0
	counts := map[string]int{}
	for _, entry := range entries {
		for exerciseID, status := range entry.Status {
			totalAttempted++
			if status == models.StatusCompleted {
				stats.TotalWorkouts++
				counts[exerciseName(entry.ScheduleID, exerciseID)]++
			}
		}
	}

	if totalAttempted > 0 {
		rate := float64(stats.TotalWorkouts) / float64(totalAttempted) * 100
		stats.CompletionRate = math.Round(rate*10) / 10
	}

	best, bestCount := "None", 0
	for name, count := range counts {
		if count > bestCount || (count == bestCount && name < best) {
			best, bestCount = name, count
		}
	}
	stats.MostFrequentExercise = best
	return stats, nil
}

// WeightPoint is one recorded load at one archival date.
type WeightPoint struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
}

// WeightProgression returns the chronological weight series per exercise,
// keyed by exercise name. Oldest entry first, so the first point is the
// starting load and the last the current one.
func (t *Tracker) WeightProgression(ctx context.Context, userID string) (map[string][]WeightPoint, error) {
	entries, err := t.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	series := map[string][]WeightPoint{}
	// History is newest-first; walk it backwards.
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		for exerciseID, weight := range entry.Weights {
			name := exerciseName(entry.ScheduleID, exerciseID)
			series[name] = append(series[name], WeightPoint{Date: entry.Date, Weight: weight})
		}
	}
	return series, nil
}

// exerciseName strips the schedule-id prefix from a composite exercise id.
func exerciseName(scheduleID, exerciseID string) string {
	return strings.TrimPrefix(exerciseID, scheduleID+"-")
}
