package tracker

import (
	"context"
	"fmt"

	"github.com/Phuzzle/exerpal/internal/docstore"
	"github.com/Phuzzle/exerpal/internal/models"
	"github.com/Phuzzle/exerpal/internal/progression"
)

// IsDayComplete reports whether every exercise assigned to the day carries
// a terminal status. An unset status blocks completion; a day with no
// assignments is trivially complete.
func IsDayComplete(schedule *models.Schedule, progress *models.Progress, day int) bool {
	for _, ex := range schedule.Exercises[models.DayKey(day)] {
		status := progress.Status[models.ExerciseID(schedule.ID, ex.Name)]
		if !status.Valid() {
			return false
		}
	}
	return true
}

// CompleteDay confirms a training day and advances progression.
//
// The progress record is re-read from the store before computing
// transitions, so stale caller state (another tab, an earlier edit) can't
// leak into the stage math. Every exercise whose status is completed moves
// one stage forward; wrapping past the last tier increments the recorded
// weight by the fixed step instead of regressing. Failed exercises keep
// stage and weight. Stage, weight, and the last-completed-day pointer land
// in one store update; the weights map is only included when an increment
// occurred, and nothing is written when the day is incomplete.
func (t *Tracker) CompleteDay(ctx context.Context, userID, scheduleID string, day int) (*models.Progress, error) {
	if day < 1 || day > models.DayCount {
		return nil, fmt.Errorf("%w: day %d", ErrInvalidInput, day)
	}

	schedule, err := t.getOwnedSchedule(ctx, userID, scheduleID)
	if err != nil {
		return nil, err
	}

	// Authoritative read; everything below works off this snapshot.
	progress, err := t.GetOrInitProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !IsDayComplete(schedule, progress, day) {
		return nil, fmt.Errorf("day %d: %w", day, ErrDayIncomplete)
	}

	weightsChanged := false
	for _, ex := range schedule.Exercises[models.DayKey(day)] {
		exerciseID := models.ExerciseID(schedule.ID, ex.Name)
		if progress.Status[exerciseID] != models.StatusCompleted {
			continue
		}

		next := progression.NextIndex(progress.StageIndex(exerciseID))
		if next == 0 && ex.Type == models.Weighted {
			if weight, ok := progress.Weights[exerciseID]; ok {
				progress.Weights[exerciseID] = weight + progression.WeightIncrement
				weightsChanged = true
			}
		}
		progress.Stages[exerciseID] = next
	}

	progress.LastCompletedDay = &day
	progress.CurrentDay = day%models.DayCount + 1
	progress.LastUpdated = t.now()

	fields := map[string]any{
		"progressionStages": progress.Stages,
		"lastCompletedDay":  progress.LastCompletedDay,
		"currentDay":        progress.CurrentDay,
		"lastUpdated":       progress.LastUpdated,
	}
	// Weights only move on a wrap; don't rewrite the map otherwise.
	if weightsChanged {
		fields["weights"] = progress.Weights
	}
	if err := t.store.Put(ctx, docstore.Progress, userID, fields); err != nil {
		return nil, fmt.Errorf("completing day %d: %w", day, err)
	}

	t.log.Info("day completed", "user", userID, "schedule", scheduleID, "day", day)
	return progress, nil
}
