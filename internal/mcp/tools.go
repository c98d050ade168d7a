package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/heraheo/JuniFit-sub000/internal/storage"
)

// defaultTimeRange returns start/end defaulting to the last 30 days.
func defaultTimeRange(startStr, endStr string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -30)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolGetPrograms = mcp.NewTool("get_programs",
	mcp.WithDescription("List the profile's active training programs. Each program includes its exercise slots with target sets, reps, weight or time, and rest periods."),
)

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("Query completed workout sessions in a time range. Returns session timing, program reference, and session notes."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetSessionSets = mcp.NewTool("get_session_sets",
	mcp.WithDescription("Retrieve the recorded sets of one workout session: exercise names, set numbers, weight, reps, and time values."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Workout session UUID")),
)

var toolGetVolumeStats = mcp.NewTool("get_volume_stats",
	mcp.WithDescription("Aggregate training volume over a time range: total tonnage (weight x reps), total reps, total time under tension, session and set counts."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
)

var toolGetTrainingCalendar = mcp.NewTool("get_training_calendar",
	mcp.WithDescription("Which days of a month had completed workouts, with per-day session counts."),
	mcp.WithString("year", mcp.Description("Four-digit year. Defaults to the current year.")),
	mcp.WithString("month", mcp.Description("Month number 1-12. Defaults to the current month.")),
)

var toolGetPersonalBests = mcp.NewTool("get_personal_bests",
	mcp.WithDescription("Best recorded weight, reps, and time per exercise across all history."),
)

// --- Tool handlers ---

func (h *handlers) getPrograms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pid := ProfileIDFromContext(ctx)
	if pid == uuid.Nil {
		return mcp.NewToolResultError("no authenticated profile"), nil
	}

	programs, err := h.ds.ListPrograms(ctx, pid)
	if err != nil {
		h.log.Error("mcp get_programs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(programs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pid := ProfileIDFromContext(ctx)
	if pid == uuid.Nil {
		return mcp.NewToolResultError("no authenticated profile"), nil
	}

	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	sessions, err := h.ds.QuerySessions(ctx, pid, start, end)
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionSets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pid := ProfileIDFromContext(ctx)
	if pid == uuid.Nil {
		return mcp.NewToolResultError("no authenticated profile"), nil
	}

	sessionStr, err := req.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}
	sessionID, err := uuid.Parse(sessionStr)
	if err != nil {
		return mcp.NewToolResultError("session_id must be a UUID"), nil
	}

	// Ownership check: the session must belong to the calling profile.
	if _, err := h.ds.GetSession(ctx, sessionID, pid); err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return mcp.NewToolResultError("session not found"), nil
		}
		h.log.Error("mcp get_session_sets", "session", sessionID, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	sets, err := h.ds.QuerySessionSets(ctx, sessionID)
	if err != nil {
		h.log.Error("mcp get_session_sets", "session", sessionID, "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sets)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getVolumeStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pid := ProfileIDFromContext(ctx)
	if pid == uuid.Nil {
		return mcp.NewToolResultError("no authenticated profile"), nil
	}

	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""))
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	stats, err := h.ds.GetVolumeStats(ctx, pid, start, end)
	if err != nil {
		h.log.Error("mcp get_volume_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getTrainingCalendar(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pid := ProfileIDFromContext(ctx)
	if pid == uuid.Nil {
		return mcp.NewToolResultError("no authenticated profile"), nil
	}

	now := time.Now()
	year, month := now.Year(), now.Month()
	if v := req.GetString("year", ""); v != "" {
		t, err := time.Parse("2006", v)
		if err != nil {
			return mcp.NewToolResultError("year must be four digits"), nil
		}
		year = t.Year()
	}
	if v := req.GetString("month", ""); v != "" {
		t, err := time.Parse("1", v)
		if err != nil {
			return mcp.NewToolResultError("month must be 1-12"), nil
		}
		month = t.Month()
	}

	days, err := h.ds.MonthlyCalendar(ctx, pid, year, month)
	if err != nil {
		h.log.Error("mcp get_training_calendar", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"year":  year,
		"month": int(month),
		"days":  days,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPersonalBests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pid := ProfileIDFromContext(ctx)
	if pid == uuid.Nil {
		return mcp.NewToolResultError("no authenticated profile"), nil
	}

	bests, err := h.ds.GetPersonalBests(ctx, pid)
	if err != nil {
		h.log.Error("mcp get_personal_bests", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(bests)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
