package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/Phuzzle/exerpal/internal/docstore"
	"github.com/Phuzzle/exerpal/internal/models"
)

// GetOrInitProgress loads the user's progress record, creating the default
// one on first access. The progress document id is the user id, so
// initialization happens at most once per user: a record that already
// exists is returned untouched.
func (t *Tracker) GetOrInitProgress(ctx context.Context, userID string) (*models.Progress, error) {
	doc, err := t.store.Get(ctx, docstore.Progress, userID)
	if err == nil {
		return decodeProgress(doc, userID)
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		return nil, fmt.Errorf("loading progress for %s: %w", userID, err)
	}

	progress := models.NewProgress(userID)
	progress.LastUpdated = t.now()
	fields, err := docstore.Fields(progress)
	if err != nil {
		return nil, err
	}
	if err := t.store.Put(ctx, docstore.Progress, userID, fields); err != nil {
		return nil, fmt.Errorf("initializing progress for %s: %w", userID, err)
	}

	t.log.Info("progress record initialized", "user", userID)
	return progress, nil
}

func decodeProgress(doc docstore.Document, userID string) (*models.Progress, error) {
	var progress models.Progress
	if err := doc.Decode(&progress); err != nil {
		return nil, err
	}
	progress.UserID = userID
	if progress.Status == nil {
		progress.Status = map[string]models.Status{}
	}
	if progress.Weights == nil {
		progress.Weights = map[string]float64{}
	}
	if progress.Stages == nil {
		progress.Stages = map[string]int{}
	}
	if progress.CurrentDay == 0 {
		progress.CurrentDay = 1
	}
	return &progress, nil
}

// SetWeight records the working load for a weighted exercise.
func (t *Tracker) SetWeight(ctx context.Context, userID, scheduleID, exerciseName string, weight float64) error {
	exercise, err := t.findExercise(ctx, userID, scheduleID, exerciseName)
	if err != nil {
		return err
	}
	if exercise.Type != models.Weighted {
		return fmt.Errorf("%w: %q is a bodyweight exercise", ErrInvalidInput, exerciseName)
	}
	if weight < 0 {
		return fmt.Errorf("%w: negative weight", ErrInvalidInput)
	}

	progress, err := t.GetOrInitProgress(ctx, userID)
	if err != nil {
		return err
	}
	exerciseID := models.ExerciseID(scheduleID, exerciseName)
	progress.Weights[exerciseID] = weight

	if err := t.store.Put(ctx, docstore.Progress, userID, map[string]any{
		"weights":     progress.Weights,
		"lastUpdated": t.now(),
	}); err != nil {
		return fmt.Errorf("recording weight for %s: %w", exerciseID, err)
	}
	return nil
}

// SetStatus records the outcome of one exercise on the current day.
// Completing a weighted exercise requires a recorded weight first: the
// completion would otherwise advance the stage with no load to increment
// when the cycle wraps.
func (t *Tracker) SetStatus(ctx context.Context, userID, scheduleID, exerciseName string, status models.Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidInput, status)
	}

	exercise, err := t.findExercise(ctx, userID, scheduleID, exerciseName)
	if err != nil {
		return err
	}

	progress, err := t.GetOrInitProgress(ctx, userID)
	if err != nil {
		return err
	}
	exerciseID := models.ExerciseID(scheduleID, exerciseName)

	if status == models.StatusCompleted && exercise.Type == models.Weighted {
		if _, ok := progress.Weights[exerciseID]; !ok {
			return fmt.Errorf("%q: %w", exerciseName, ErrMissingWeight)
		}
	}

	progress.Status[exerciseID] = status
	if err := t.store.Put(ctx, docstore.Progress, userID, map[string]any{
		"exercises":   progress.Status,
		"lastUpdated": t.now(),
	}); err != nil {
		return fmt.Errorf("recording status for %s: %w", exerciseID, err)
	}
	return nil
}

// findExercise locates an assigned exercise by name within one of the
// user's own schedules.
func (t *Tracker) findExercise(ctx context.Context, userID, scheduleID, exerciseName string) (models.Exercise, error) {
	schedule, err := t.getOwnedSchedule(ctx, userID, scheduleID)
	if err != nil {
		return models.Exercise{}, err
	}
	for _, dayKey := range models.Days() {
		for _, ex := range schedule.Exercises[dayKey] {
			if ex.Name == exerciseName {
				return ex, nil
			}
		}
	}
	return models.Exercise{}, fmt.Errorf("exercise %q in schedule %s: %w", exerciseName, scheduleID, docstore.ErrNotFound)
}
