package tracker

import (
	"context"
	"fmt"

	"github.com/Phuzzle/exerpal/internal/docstore"
	"github.com/Phuzzle/exerpal/internal/models"
)

// StartNewCycle archives the current progress into an immutable history
// entry and resets the record for a fresh week.
//
// The snapshot insert strictly precedes the reset; if the insert fails the
// reset is not issued, so a cycle's history is never silently dropped.
// A record with no statuses yet produces no history entry — there is
// nothing to archive. Weights and stage indexes carry forward: progression
// earned is not lost between cycles.
func (t *Tracker) StartNewCycle(ctx context.Context, userID, scheduleID string) (*models.Progress, error) {
	progress, err := t.GetOrInitProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(progress.Status) > 0 {
		entry := models.HistoryEntry{
			UserID:           userID,
			ScheduleID:       scheduleID,
			Date:             t.now(),
			LastCompletedDay: progress.LastCompletedDay,
			Status:           progress.Status,
			Weights:          progress.Weights,
		}
		fields, err := docstore.Fields(entry)
		if err != nil {
			return nil, err
		}
		id, err := t.store.Insert(ctx, docstore.History, fields)
		if err != nil {
			return nil, fmt.Errorf("archiving cycle: %w", err)
		}
		t.log.Info("cycle archived", "user", userID, "entry", id)
	}

	progress.Status = map[string]models.Status{}
	progress.CurrentDay = 1
	progress.LastCompletedDay = nil
	progress.LastUpdated = t.now()

	if err := t.store.Put(ctx, docstore.Progress, userID, map[string]any{
		"exercises":        progress.Status,
		"currentDay":       progress.CurrentDay,
		"lastCompletedDay": nil,
		"lastUpdated":      progress.LastUpdated,
	}); err != nil {
		return nil, fmt.Errorf("resetting progress for new cycle: %w", err)
	}

	return progress, nil
}
