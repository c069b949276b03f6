package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok && id != "" {
		return id
	}
	return "local"
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Exerpal", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Exerpal workout tracking server. Query workout schedules, progression state, weights, and cycle history. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetSchedule, Handler: h.getSchedule},
		server.ServerTool{Tool: toolGetProgress, Handler: h.getProgress},
		server.ServerTool{Tool: toolGetHistory, Handler: h.getHistory},
		server.ServerTool{Tool: toolGetHistoryStats, Handler: h.getHistoryStats},
		server.ServerTool{Tool: toolGetWeightProgression, Handler: h.getWeightProgression},
		server.ServerTool{Tool: toolGetProgressionTable, Handler: h.getProgressionTable},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCurrentState, Handler: h.currentState},
		server.ServerResource{Resource: resExerciseCatalog, Handler: h.exerciseCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resCurrentState = mcp.NewResource(
	"exerpal://current_state",
	"Current Training State",
	mcp.WithResourceDescription("The active schedule plus progression state: exercise statuses, recorded weights, per-exercise tiers, and the current training day"),
	mcp.WithMIMEType("application/json"),
)

var resExerciseCatalog = mcp.NewResource(
	"exerpal://exercise_catalog",
	"Exercise Catalog",
	mcp.WithResourceDescription("All selectable exercises grouped by movement category, with per-day category limits"),
	mcp.WithMIMEType("application/json"),
)
