package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) currentPlan(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)

	progressions, err := h.ds.ListProgressions(ctx, uid)
	if err != nil {
		return nil, err
	}
	programs, err := h.ds.ListPrograms(ctx, uid)
	if err != nil {
		return nil, err
	}

	active := func(s models.Status) bool { return s == models.StatusActive }
	var activeProgressions []models.Progression
	for _, p := range progressions {
		if active(p.Status) {
			activeProgressions = append(activeProgressions, p)
		}
	}
	var activePrograms []models.Program
	for _, p := range programs {
		if active(p.Status) {
			activePrograms = append(activePrograms, p)
		}
	}

	upcoming, err := h.ds.UpcomingSessions(ctx, uid, time.Now().Truncate(24*time.Hour), 10)
	if err != nil {
		h.log.Warn("current_plan: upcoming query failed", "error", err)
	}

	plan := map[string]any{
		"progressions":      activeProgressions,
		"programs":          activePrograms,
		"upcoming_sessions": upcoming,
	}

	data, err := json.Marshal(plan)
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

func (h *handlers) recentPerformance(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uid := UserIDFromContext(ctx)
	since := time.Now().AddDate(0, 0, -30)

	entries, err := h.ds.PerformanceHistory(ctx, uid, "", since, 100)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(entries)
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
