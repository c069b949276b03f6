package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Phuzzle/exerpal/internal/docstore"
	"github.com/Phuzzle/exerpal/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) currentState(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	progress, err := h.ds.GetOrInitProgress(ctx, uid)
	if err != nil {
		return nil, err
	}

	state := map[string]any{"progress": progress}

	schedule, err := h.ds.LatestSchedule(ctx, uid)
	switch {
	case err == nil:
		state["schedule"] = schedule
	case errors.Is(err, docstore.ErrNotFound):
		// No schedule yet; progress alone is still useful.
	default:
		h.log.Warn("current_state: schedule lookup failed", "error", err)
	}

	data, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) exerciseCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	catalog := map[string]any{
		"exercises": models.Catalog,
		"dayLimits": models.DayLimits,
	}

	data, err := json.Marshal(catalog)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
