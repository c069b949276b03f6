package tracker

import (
	"context"
	"fmt"
	"sort"

	"github.com/Phuzzle/exerpal/internal/docstore"
	"github.com/Phuzzle/exerpal/internal/models"
	"github.com/Phuzzle/exerpal/internal/progression"
)

// CreateSchedule validates a five-day assignment against the catalog and
// per-day category limits and persists it. Exercises arriving without a
// sets/reps tier start at the first stage (3×8); a non-zero tier must be
// one of the nine valid combinations. All validation happens before the
// write.
func (t *Tracker) CreateSchedule(ctx context.Context, userID, name string, days map[string][]models.Exercise) (*models.Schedule, error) {
	validated, err := validateAssignments(days)
	if err != nil {
		return nil, err
	}

	schedule := &models.Schedule{
		UserID:    userID,
		Name:      name,
		CreatedAt: t.now(),
		Exercises: validated,
	}

	fields, err := docstore.Fields(schedule)
	if err != nil {
		return nil, err
	}
	id, err := t.store.Insert(ctx, docstore.Schedules, fields)
	if err != nil {
		return nil, fmt.Errorf("creating schedule: %w", err)
	}
	schedule.ID = id

	t.log.Info("schedule created", "user", userID, "schedule", id)
	return schedule, nil
}

// validateAssignments checks day keys, catalog membership, category
// limits, tier validity, and schedule-wide name uniqueness (exercise ids
// are collision-free only when names are unique).
func validateAssignments(days map[string][]models.Exercise) (map[string][]models.Exercise, error) {
	seenNames := map[string]bool{}
	out := map[string][]models.Exercise{}

	for dayKey, exercises := range days {
		limits, ok := models.DayLimits[dayKey]
		if !ok {
			return nil, fmt.Errorf("%w: unknown day %q", ErrInvalidInput, dayKey)
		}

		counts := map[string]int{}
		validated := make([]models.Exercise, 0, len(exercises))
		for _, ex := range exercises {
			entry, ok := models.LookupExercise(ex.Name)
			if !ok {
				return nil, fmt.Errorf("%w: unknown exercise %q", ErrInvalidInput, ex.Name)
			}
			category, ok := models.CategoryOf(dayKey, ex.Name)
			if !ok {
				return nil, fmt.Errorf("%w: %q is not allowed on %s", ErrInvalidInput, ex.Name, dayKey)
			}
			counts[category]++
			if counts[category] > limits[category] {
				return nil, fmt.Errorf("%w: %s allows at most %d %s exercises", ErrInvalidInput, dayKey, limits[category], category)
			}
			if seenNames[ex.Name] {
				return nil, fmt.Errorf("%w: exercise %q assigned more than once", ErrInvalidInput, ex.Name)
			}
			seenNames[ex.Name] = true

			ex.Type = entry.Type
			if ex.Sets == 0 && ex.Reps == 0 {
				first := progression.StageAt(0)
				ex.Sets, ex.Reps = first.Sets, first.Reps
			} else if _, err := progression.FindStageIndex(ex.Sets, ex.Reps); err != nil {
				return nil, fmt.Errorf("%q: %w", ex.Name, err)
			}
			validated = append(validated, ex)
		}
		out[dayKey] = validated
	}

	for _, dayKey := range models.Days() {
		if _, ok := out[dayKey]; !ok {
			out[dayKey] = []models.Exercise{}
		}
	}
	return out, nil
}

// GetSchedule reads one schedule by id.
func (t *Tracker) GetSchedule(ctx context.Context, scheduleID string) (*models.Schedule, error) {
	doc, err := t.store.Get(ctx, docstore.Schedules, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("loading schedule %s: %w", scheduleID, err)
	}
	var schedule models.Schedule
	if err := doc.Decode(&schedule); err != nil {
		return nil, err
	}
	schedule.ID = doc.ID
	return &schedule, nil
}

// getOwnedSchedule loads a schedule and verifies it belongs to userID.
// Mutating operations go through this so one user's progress entries can
// never be keyed against another user's schedule. A foreign schedule reads
// as absent rather than forbidden.
func (t *Tracker) getOwnedSchedule(ctx context.Context, userID, scheduleID string) (*models.Schedule, error) {
	schedule, err := t.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.UserID != userID {
		return nil, fmt.Errorf("schedule %s for user %s: %w", scheduleID, userID, docstore.ErrNotFound)
	}
	return schedule, nil
}

// ListSchedules returns a user's schedules ordered oldest first.
func (t *Tracker) ListSchedules(ctx context.Context, userID string) ([]models.Schedule, error) {
	docs, err := t.store.Query(ctx, docstore.Schedules, docstore.Filter{Field: "userId", Value: userID})
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}

	schedules := make([]models.Schedule, 0, len(docs))
	for _, doc := range docs {
		var s models.Schedule
		if err := doc.Decode(&s); err != nil {
			return nil, err
		}
		s.ID = doc.ID
		schedules = append(schedules, s)
	}
	sort.Slice(schedules, func(i, j int) bool {
		return schedules[i].CreatedAt.Before(schedules[j].CreatedAt)
	})
	return schedules, nil
}

// LatestSchedule returns the user's most recently created schedule, the
// record the adjust and workout views operate on.
func (t *Tracker) LatestSchedule(ctx context.Context, userID string) (*models.Schedule, error) {
	schedules, err := t.ListSchedules(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return nil, docstore.ErrNotFound
	}
	return &schedules[len(schedules)-1], nil
}

// UpdateExerciseField edits one field of one assigned exercise.
//
// "sets" and "reps" edits must still resolve to a valid tier when combined
// with the exercise's other current field; an edit with no matching tier is
// rejected before anything is written. A valid edit updates the schedule
// document and then the matching stage index in the progress record so the
// two stay consistent. "weight" edits route to the progress record and are
// only valid for weighted exercises.
func (t *Tracker) UpdateExerciseField(ctx context.Context, userID, scheduleID, dayKey string, index int, field string, value float64) error {
	schedule, err := t.getOwnedSchedule(ctx, userID, scheduleID)
	if err != nil {
		return err
	}

	exercises, ok := schedule.Exercises[dayKey]
	if !ok {
		return fmt.Errorf("%w: unknown day %q", ErrInvalidInput, dayKey)
	}
	if index < 0 || index >= len(exercises) {
		return fmt.Errorf("%w: exercise index %d out of range for %s", ErrInvalidInput, index, dayKey)
	}
	exercise := exercises[index]
	exerciseID := models.ExerciseID(schedule.ID, exercise.Name)

	switch field {
	case "sets", "reps":
		sets, reps := exercise.Sets, exercise.Reps
		if field == "sets" {
			sets = int(value)
		} else {
			reps = int(value)
		}
		stage, err := progression.FindStageIndex(sets, reps)
		if err != nil {
			return err
		}

		exercise.Sets, exercise.Reps = sets, reps
		schedule.Exercises[dayKey][index] = exercise
		if err := t.store.Put(ctx, docstore.Schedules, schedule.ID, map[string]any{
			"exercises": schedule.Exercises,
		}); err != nil {
			return fmt.Errorf("updating schedule %s: %w", schedule.ID, err)
		}

		progress, err := t.GetOrInitProgress(ctx, userID)
		if err != nil {
			return err
		}
		progress.Stages[exerciseID] = stage
		if err := t.store.Put(ctx, docstore.Progress, userID, map[string]any{
			"progressionStages": progress.Stages,
			"lastUpdated":       t.now(),
		}); err != nil {
			return fmt.Errorf("updating progress for %s: %w", userID, err)
		}

		t.log.Info("exercise tier updated",
			"user", userID, "exercise", exerciseID, "sets", sets, "reps", reps, "stage", stage)
		return nil

	case "weight":
		return t.SetWeight(ctx, userID, scheduleID, exercise.Name, value)

	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidInput, field)
	}
}
