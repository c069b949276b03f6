package mcp

import (
	"context"

	"github.com/Phuzzle/exerpal/internal/models"
	"github.com/Phuzzle/exerpal/internal/tracker"
)

// DataSource abstracts the data layer for MCP tools. Both *tracker.Tracker
// (local) and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	GetSchedule(ctx context.Context, scheduleID string) (*models.Schedule, error)
	ListSchedules(ctx context.Context, userID string) ([]models.Schedule, error)
	LatestSchedule(ctx context.Context, userID string) (*models.Schedule, error)
	GetOrInitProgress(ctx context.Context, userID string) (*models.Progress, error)
	History(ctx context.Context, userID string) ([]models.HistoryEntry, error)
	Stats(ctx context.Context, userID string) (*tracker.HistoryStats, error)
	WeightProgression(ctx context.Context, userID string) (map[string][]tracker.WeightPoint, error)
}

// Compile-time check: *tracker.Tracker satisfies DataSource.
var _ DataSource = (*tracker.Tracker)(nil)
