package mcp

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

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

// sinceOrDefault parses the since parameter, falling back the given number
// of days.
func sinceOrDefault(s string, days int) (time.Time, error) {
	if s == "" {
		return time.Now().AddDate(0, 0, -days), nil
	}
	return parseFlexTime(s)
}

// --- Tool definitions ---

var toolGetProgressions = mcp.NewTool("get_progressions",
	mcp.WithDescription("List the user's single-exercise progressions: exercise, style, status, current/target max, and week position. Does not include the full session schedule."),
	mcp.WithString("status", mcp.Description("Filter by status"), mcp.Enum("active", "paused", "completed")),
)

var toolGetProgressionSchedule = mcp.NewTool("get_progression_schedule",
	mcp.WithDescription("Get one progression's full schedule: every session with its date, week, planned weight, and per-set targets and logged actuals."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Progression UUID")),
)

var toolGetPrograms = mcp.NewTool("get_programs",
	mcp.WithDescription("List the user's multi-exercise programs: name, template, status, and week position. Does not include training days or sessions."),
	mcp.WithString("status", mcp.Description("Filter by status"), mcp.Enum("active", "paused", "completed")),
)

var toolGetProgramSchedule = mcp.NewTool("get_program_schedule",
	mcp.WithDescription("Get one program's full schedule: training days, their exercises with current working weights, and every scheduled exercise session with sets."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Program UUID")),
)

var toolGetUpcomingSessions = mcp.NewTool("get_upcoming_sessions",
	mcp.WithDescription("List not-yet-completed sessions from active progressions and programs, soonest first."),
	mcp.WithString("from", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to today.")),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 10.")),
)

var toolGetPerformanceHistory = mcp.NewTool("get_performance_history",
	mcp.WithDescription("List completed sessions with planned vs actual rep totals and the derived performance percentage, newest first."),
	mcp.WithString("exercise", mcp.Description("Filter by exercise name (partial match, e.g. 'bench')")),
	mcp.WithString("since", mcp.Description("Start date. Defaults to 90 days ago.")),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 50.")),
)

var toolGetTrainingSummary = mcp.NewTool("get_training_summary",
	mcp.WithDescription("Per-exercise aggregates over completed sessions: session count, average performance percentage, and the weight range worked."),
	mcp.WithString("since", mcp.Description("Start date. Defaults to 90 days ago.")),
)

// --- Tool handlers ---

func (h *handlers) getProgressions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	progs, err := h.ds.ListProgressions(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_progressions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if status := req.GetString("status", ""); status != "" {
		filtered := progs[:0]
		for _, p := range progs {
			if string(p.Status) == status {
				filtered = append(filtered, p)
			}
		}
		progs = filtered
	}

	result, err := mcp.NewToolResultJSON(progs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgressionSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid progression UUID"), nil
	}

	uid := UserIDFromContext(ctx)
	prog, err := h.ds.GetProgression(ctx, uid, id)
	if err != nil {
		h.log.Error("mcp get_progression_schedule", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(prog)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPrograms(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	progs, err := h.ds.ListPrograms(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_programs", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	if status := req.GetString("status", ""); status != "" {
		filtered := progs[:0]
		for _, p := range progs {
			if string(p.Status) == status {
				filtered = append(filtered, p)
			}
		}
		progs = filtered
	}

	result, err := mcp.NewToolResultJSON(progs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgramSchedule(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	idStr, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return mcp.NewToolResultError("invalid program UUID"), nil
	}

	uid := UserIDFromContext(ctx)
	prog, err := h.ds.GetProgram(ctx, uid, id)
	if err != nil {
		h.log.Error("mcp get_program_schedule", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(prog)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getUpcomingSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	from := time.Now().Truncate(24 * time.Hour)
	if s := req.GetString("from", ""); s != "" {
		parsed, err := parseFlexTime(s)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		from = parsed
	}
	limit := req.GetInt("limit", 10)
	if limit < 1 {
		limit = 10
	}

	uid := UserIDFromContext(ctx)
	sessions, err := h.ds.UpcomingSessions(ctx, uid, from, limit)
	if err != nil {
		h.log.Error("mcp get_upcoming_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getPerformanceHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	since, err := sinceOrDefault(req.GetString("since", ""), 90)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}
	limit := req.GetInt("limit", 50)
	if limit < 1 {
		limit = 50
	}

	uid := UserIDFromContext(ctx)
	entries, err := h.ds.PerformanceHistory(ctx, uid, req.GetString("exercise", ""), since, limit)
	if err != nil {
		h.log.Error("mcp get_performance_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(entries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// exerciseSummary is one row of the training summary aggregation.
type exerciseSummary struct {
	Exercise       string  `json:"exercise"`
	Sessions       int     `json:"sessions"`
	AvgPerformance float64 `json:"avg_performance_percentage"`
	MinWeight      float64 `json:"min_weight"`
	MaxWeight      float64 `json:"max_weight"`
}

func (h *handlers) getTrainingSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	since, err := sinceOrDefault(req.GetString("since", ""), 90)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	uid := UserIDFromContext(ctx)
	entries, err := h.ds.PerformanceHistory(ctx, uid, "", since, 1000)
	if err != nil {
		h.log.Error("mcp get_training_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	byExercise := map[string]*exerciseSummary{}
	for _, e := range entries {
		s := byExercise[e.Exercise]
		if s == nil {
			s = &exerciseSummary{Exercise: e.Exercise, MinWeight: e.PlannedWeight, MaxWeight: e.PlannedWeight}
			byExercise[e.Exercise] = s
		}
		s.Sessions++
		s.AvgPerformance += e.Performance
		if e.PlannedWeight < s.MinWeight {
			s.MinWeight = e.PlannedWeight
		}
		if e.PlannedWeight > s.MaxWeight {
			s.MaxWeight = e.PlannedWeight
		}
	}

	summaries := make([]exerciseSummary, 0, len(byExercise))
	for _, s := range byExercise {
		s.AvgPerformance /= float64(s.Sessions)
		summaries = append(summaries, *s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Exercise < summaries[j].Exercise })

	result, err := mcp.NewToolResultJSON(summaries)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
