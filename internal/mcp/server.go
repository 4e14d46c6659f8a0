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
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftPlan", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftPlan strength training server. Query progressions, programs, upcoming sessions, and performance history. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetProgressions, Handler: h.getProgressions},
		server.ServerTool{Tool: toolGetProgressionSchedule, Handler: h.getProgressionSchedule},
		server.ServerTool{Tool: toolGetPrograms, Handler: h.getPrograms},
		server.ServerTool{Tool: toolGetProgramSchedule, Handler: h.getProgramSchedule},
		server.ServerTool{Tool: toolGetUpcomingSessions, Handler: h.getUpcomingSessions},
		server.ServerTool{Tool: toolGetPerformanceHistory, Handler: h.getPerformanceHistory},
		server.ServerTool{Tool: toolGetTrainingSummary, Handler: h.getTrainingSummary},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCurrentPlan, Handler: h.currentPlan},
		server.ServerResource{Resource: resRecentPerformance, Handler: h.recentPerformance},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resCurrentPlan = mcp.NewResource(
	"liftplan://current_plan",
	"Current Plan",
	mcp.WithResourceDescription("Active progressions and programs with their current week and the next scheduled sessions"),
	mcp.WithMIMEType("application/json"),
)

var resRecentPerformance = mcp.NewResource(
	"liftplan://recent_performance",
	"Recent Performance",
	mcp.WithResourceDescription("Completed sessions from the last 30 days with planned vs actual rep totals"),
	mcp.WithMIMEType("application/json"),
)
