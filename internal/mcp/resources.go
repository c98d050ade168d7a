package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

var errNoProfile = errors.New("no authenticated profile")

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	pid := ProfileIDFromContext(ctx)
	if pid == uuid.Nil {
		return nil, errNoProfile
	}

	end := time.Now()
	start := end.AddDate(0, 0, -14)

	sessions, err := h.ds.QuerySessions(ctx, pid, start, end)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(sessions)
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

func (h *handlers) programCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	pid := ProfileIDFromContext(ctx)
	if pid == uuid.Nil {
		return nil, errNoProfile
	}

	programs, err := h.ds.ListPrograms(ctx, pid)
	if err != nil {
		return nil, err
	}

	// Listings carry no slots; fetch each program in full for the catalog.
	full := make([]any, 0, len(programs))
	for _, p := range programs {
		detail, err := h.ds.GetProgram(ctx, p.ID, pid)
		if err != nil {
			h.log.Warn("program_catalog: detail fetch failed", "program", p.ID, "error", err)
			full = append(full, p)
			continue
		}
		full = append(full, detail)
	}

	data, err := json.Marshal(full)
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
