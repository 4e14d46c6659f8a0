package mcp

import (
	"context"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/claude/liftplan/internal/storage"
	"github.com/google/uuid"
)

// DataSource abstracts the data layer for MCP tools so the server can run
// against *storage.DB directly.
type DataSource interface {
	ListProgressions(ctx context.Context, userID int) ([]models.Progression, error)
	GetProgression(ctx context.Context, userID int, id uuid.UUID) (*models.Progression, error)
	ListPrograms(ctx context.Context, userID int) ([]models.Program, error)
	GetProgram(ctx context.Context, userID int, id uuid.UUID) (*models.Program, error)
	UpcomingSessions(ctx context.Context, userID int, from time.Time, limit int) ([]storage.UpcomingSession, error)
	PerformanceHistory(ctx context.Context, userID int, exercise string, since time.Time, limit int) ([]storage.PerformanceEntry, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
