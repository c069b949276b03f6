package mcp

import (
	"context"

	"github.com/Phuzzle/exerpal/internal/progression"
	"github.com/Phuzzle/exerpal/internal/tracker"
	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolGetSchedule = mcp.NewTool("get_schedule",
	mcp.WithDescription("Retrieve a workout schedule: the exercises assigned to each of the five training days with their current sets and reps. Defaults to the most recent schedule."),
	mcp.WithString("schedule_id", mcp.Description("Schedule ID. Defaults to the user's latest schedule.")),
)

var toolGetProgress = mcp.NewTool("get_progress",
	mcp.WithDescription("Retrieve the user's progression state: per-exercise completion statuses for the current day, recorded working weights, progression tier indices, and the current training day."),
)

var toolGetHistory = mcp.NewTool("get_history",
	mcp.WithDescription("Retrieve archived training cycles, newest first. Each entry snapshots the exercise statuses and weights at the moment the cycle was archived."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of entries to return. Defaults to all.")),
)

var toolGetHistoryStats = mcp.NewTool("get_history_stats",
	mcp.WithDescription("Aggregate statistics over all archived cycles: total completed exercises, completion rate, and the most frequently completed exercise."),
)

var toolGetWeightProgression = mcp.NewTool("get_weight_progression",
	mcp.WithDescription("Per-exercise working weight over time, oldest first. Shows how the load on each weighted exercise has grown across archived cycles."),
	mcp.WithString("exercise", mcp.Description("Filter to a single exercise name (exact match, e.g. 'Barbell Bench Press')")),
)

var toolGetProgressionTable = mcp.NewTool("get_progression_table",
	mcp.WithDescription("The fixed sets/reps progression ladder. Completing an exercise advances it one tier; wrapping past the last tier adds weight for weighted exercises."),
)

// --- Tool handlers ---

func (h *handlers) getSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	scheduleID := req.GetString("schedule_id", "")
	if scheduleID == "" {
		schedule, err := h.ds.LatestSchedule(ctx, uid)
		if err != nil {
			h.log.Error("mcp get_schedule", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		result, err := mcp.NewToolResultJSON(schedule)
		if err != nil {
			return mcp.NewToolResultError("serialization failed"), nil
		}
		return result, nil
	}

	schedule, err := h.ds.GetSchedule(ctx, scheduleID)
	if err != nil {
		h.log.Error("mcp get_schedule", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(schedule)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	progress, err := h.ds.GetOrInitProgress(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(progress)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	entries, err := h.ds.History(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if limit := req.GetInt("limit", 0); limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getHistoryStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	stats, err := h.ds.Stats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_history_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeightProgression(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	series, err := h.ds.WeightProgression(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_weight_progression", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if name := req.GetString("exercise", ""); name != "" {
		points, ok := series[name]
		if !ok {
			return mcp.NewToolResultError("no recorded weights for exercise: " + name), nil
		}
		series = map[string][]tracker.WeightPoint{name: points}
	}

	result, err := mcp.NewToolResultJSON(series)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgressionTable(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	table := map[string]any{
		"stages":           progression.Stages(),
		"weight_increment": progression.WeightIncrement,
	}

	result, err := mcp.NewToolResultJSON(table)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
