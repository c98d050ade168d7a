package mcp

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const profileIDKey contextKey = iota

// ProfileIDFromContext extracts the profile ID injected by the transport
// layer. A nil UUID means the transport attached no identity.
func ProfileIDFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(profileIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// WithProfileID returns a context carrying the given profile ID.
func WithProfileID(ctx context.Context, profileID uuid.UUID) context.Context {
	return context.WithValue(ctx, profileIDKey, profileID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("JuniFit", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("JuniFit workout tracking server. Query training programs, workout history, set data, volume statistics, and personal bests. All data is scoped to the authenticated profile."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetPrograms, Handler: h.getPrograms},
		server.ServerTool{Tool: toolGetSessions, Handler: h.getSessions},
		server.ServerTool{Tool: toolGetSessionSets, Handler: h.getSessionSets},
		server.ServerTool{Tool: toolGetVolumeStats, Handler: h.getVolumeStats},
		server.ServerTool{Tool: toolGetTrainingCalendar, Handler: h.getTrainingCalendar},
		server.ServerTool{Tool: toolGetPersonalBests, Handler: h.getPersonalBests},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
		server.ServerResource{Resource: resProgramCatalog, Handler: h.programCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentSessions = mcp.NewResource(
	"junifit://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("Completed workout sessions from the last 14 days"),
	mcp.WithMIMEType("application/json"),
)

var resProgramCatalog = mcp.NewResource(
	"junifit://program_catalog",
	"Program Catalog",
	mcp.WithResourceDescription("All active training programs with their exercise slots and targets"),
	mcp.WithMIMEType("application/json"),
)
