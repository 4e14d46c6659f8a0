package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// InsertProgression persists a freshly generated progression tree —
// progression, sessions, and sets — in one transaction. A partial tree is
// never visible.
func (db *DB) InsertProgression(ctx context.Context, userID int, p *models.Progression) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO progressions (id, user_id, exercise, template, style, status,
			 current_max, target_max, starting_weight, total_weeks, current_week,
			 sessions_per_week, start_date, notes)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			p.ID, userID, p.Exercise, p.Template, p.Style, p.Status,
			p.CurrentMax, p.TargetMax, p.StartingWeight, p.TotalWeeks, p.CurrentWeek,
			p.SessionsPerWeek, p.StartDate, p.Notes)
		if err != nil {
			return fmt.Errorf("inserting progression: %w", err)
		}

		if err := insertWorkoutSessions(ctx, tx, p.Sessions); err != nil {
			return err
		}

		var sets []models.WorkoutSet
		for i := range p.Sessions {
			sets = append(sets, p.Sessions[i].Sets...)
		}
		return insertWorkoutSets(ctx, tx, sets)
	})
}

func insertWorkoutSessions(ctx context.Context, tx pgx.Tx, sessions []models.WorkoutSession) error {
	if len(sessions) == 0 {
		return nil
	}

	query := `INSERT INTO workout_sessions (id, progression_id, session_date, week, day,
		planned_weight, planned_sets, planned_reps, completed, completed_at, paused, notes) VALUES `
	args := make([]any, 0, len(sessions)*12)
	valueStrings := make([]string, 0, len(sessions))

	for i := range sessions {
		s := &sessions[i]
		base := i * 12
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
			base+7, base+8, base+9, base+10, base+11, base+12,
		))
		args = append(args, s.ID, s.ProgressionID, s.Date, s.Week, s.Day,
			s.PlannedWeight, s.PlannedSets, s.PlannedReps, s.Completed, s.CompletedAt, s.Paused, s.Notes)
	}

	query += strings.Join(valueStrings, ",")
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting workout sessions: %w", err)
	}
	return nil
}

func insertWorkoutSets(ctx context.Context, tx pgx.Tx, sets []models.WorkoutSet) error {
	if len(sets) == 0 {
		return nil
	}

	query := `INSERT INTO workout_sets (id, session_id, exercise_session_id, set_number,
		target_reps, target_weight, actual_reps, actual_weight, rpe, completed, notes) VALUES `
	args := make([]any, 0, len(sets)*11)
	valueStrings := make([]string, 0, len(sets))

	for i := range sets {
		s := &sets[i]
		base := i * 11
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
			base+7, base+8, base+9, base+10, base+11,
		))
		args = append(args, s.ID, nullUUID(s.SessionID), nullUUID(s.ExerciseSessionID), s.Number,
			s.TargetReps, s.TargetWeight, s.ActualReps, s.ActualWeight, s.RPE, s.Completed, s.Notes)
	}

	query += strings.Join(valueStrings, ",")
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting workout sets: %w", err)
	}
	return nil
}

// nullUUID maps the zero UUID to SQL NULL for the optional ownership
// columns on workout_sets.
func nullUUID(id uuid.UUID) any {
	if id == uuid.Nil {
		return nil
	}
	return id
}

// ListProgressions retrieves a user's progressions without their subtrees,
// newest first.
func (db *DB) ListProgressions(ctx context.Context, userID int) ([]models.Progression, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, exercise, template, style, status, current_max, target_max,
		 starting_weight, total_weeks, current_week, sessions_per_week, start_date, notes
		 FROM progressions WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying progressions: %w", err)
	}
	defer rows.Close()

	var result []models.Progression
	for rows.Next() {
		var p models.Progression
		if err := rows.Scan(&p.ID, &p.Exercise, &p.Template, &p.Style, &p.Status,
			&p.CurrentMax, &p.TargetMax, &p.StartingWeight, &p.TotalWeeks,
			&p.CurrentWeek, &p.SessionsPerWeek, &p.StartDate, &p.Notes); err != nil {
			return nil, fmt.Errorf("scanning progression: %w", err)
		}
		p.UserID = userID
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetProgression retrieves one progression with its ordered sessions and
// sets.
func (db *DB) GetProgression(ctx context.Context, userID int, id uuid.UUID) (*models.Progression, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, exercise, template, style, status, current_max, target_max,
		 starting_weight, total_weeks, current_week, sessions_per_week, start_date, notes
		 FROM progressions WHERE id = $1 AND user_id = $2`,
		id, userID)

	var p models.Progression
	err := row.Scan(&p.ID, &p.Exercise, &p.Template, &p.Style, &p.Status,
		&p.CurrentMax, &p.TargetMax, &p.StartingWeight, &p.TotalWeeks,
		&p.CurrentWeek, &p.SessionsPerWeek, &p.StartDate, &p.Notes)
	if err != nil {
		return nil, fmt.Errorf("querying progression: %w", err)
	}
	p.UserID = userID

	sessRows, err := db.Pool.Query(ctx,
		`SELECT id, progression_id, session_date, week, day, planned_weight,
		 planned_sets, planned_reps, completed, completed_at, paused, notes
		 FROM workout_sessions WHERE progression_id = $1
		 ORDER BY week ASC, day ASC`,
		id)
	if err != nil {
		return nil, fmt.Errorf("querying workout sessions: %w", err)
	}
	defer sessRows.Close()

	index := map[uuid.UUID]int{}
	for sessRows.Next() {
		var s models.WorkoutSession
		if err := sessRows.Scan(&s.ID, &s.ProgressionID, &s.Date, &s.Week, &s.Day,
			&s.PlannedWeight, &s.PlannedSets, &s.PlannedReps,
			&s.Completed, &s.CompletedAt, &s.Paused, &s.Notes); err != nil {
			return nil, fmt.Errorf("scanning workout session: %w", err)
		}
		index[s.ID] = len(p.Sessions)
		p.Sessions = append(p.Sessions, s)
	}
	if err := sessRows.Err(); err != nil {
		return nil, err
	}

	setRows, err := db.Pool.Query(ctx,
		`SELECT ws.id, ws.session_id, ws.set_number, ws.target_reps, ws.target_weight,
		 ws.actual_reps, ws.actual_weight, ws.rpe, ws.completed, ws.notes
		 FROM workout_sets ws
		 JOIN workout_sessions s ON s.id = ws.session_id
		 WHERE s.progression_id = $1
		 ORDER BY ws.set_number ASC`,
		id)
	if err != nil {
		return nil, fmt.Errorf("querying workout sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var set models.WorkoutSet
		if err := setRows.Scan(&set.ID, &set.SessionID, &set.Number, &set.TargetReps,
			&set.TargetWeight, &set.ActualReps, &set.ActualWeight, &set.RPE,
			&set.Completed, &set.Notes); err != nil {
			return nil, fmt.Errorf("scanning workout set: %w", err)
		}
		if i, ok := index[set.SessionID]; ok {
			p.Sessions[i].Sets = append(p.Sessions[i].Sets, set)
		}
	}
	return &p, setRows.Err()
}

// DeleteProgression removes the progression root row; the schema cascades
// into every owned session and set.
func (db *DB) DeleteProgression(ctx context.Context, userID int, id uuid.UUID) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM progressions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting progression: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateProgressionStatus writes a validated lifecycle transition.
func (db *DB) UpdateProgressionStatus(ctx context.Context, userID int, id uuid.UUID, status models.Status) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE progressions SET status = $1 WHERE id = $2 AND user_id = $3`,
		status, id, userID)
	if err != nil {
		return fmt.Errorf("updating progression status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// LogWorkoutSet records the actuals for one set and marks it complete.
// Completed sets are immutable: the guarded update touches zero rows and
// the caller is told so.
func (db *DB) LogWorkoutSet(ctx context.Context, sessionID uuid.UUID, setNumber int, actualReps int, actualWeight *float64, rpe *int, notes string) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workout_sets
		 SET actual_reps = $1, actual_weight = $2, rpe = $3, completed = TRUE,
		     notes = CASE WHEN $4 <> '' THEN $4 ELSE notes END
		 WHERE session_id = $5 AND set_number = $6 AND completed = FALSE`,
		actualReps, actualWeight, rpe, notes, sessionID, setNumber)
	if err != nil {
		return false, fmt.Errorf("logging workout set: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CompleteWorkoutSession marks a session complete and, when the engine
// decided the week rolled over, moves the progression's current week —
// both in the same transaction so a failed commit never leaves the two
// out of step.
func (db *DB) CompleteWorkoutSession(ctx context.Context, progressionID, sessionID uuid.UUID, completedAt time.Time, newCurrentWeek int) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE workout_sessions SET completed = TRUE, completed_at = $1
			 WHERE id = $2 AND progression_id = $3 AND completed = FALSE`,
			completedAt, sessionID, progressionID)
		if err != nil {
			return fmt.Errorf("completing workout session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}

		if newCurrentWeek > 0 {
			if _, err := tx.Exec(ctx,
				`UPDATE progressions SET current_week = $1 WHERE id = $2`,
				newCurrentWeek, progressionID); err != nil {
				return fmt.Errorf("advancing progression week: %w", err)
			}
		}
		return nil
	})
}

// SaveAdjustedSessions writes back planned-weight changes produced by the
// schedule adjuster in one transaction. Only not-completed sets are
// rewritten; completed ones keep their targets.
func (db *DB) SaveAdjustedSessions(ctx context.Context, sessions []*models.WorkoutSession) error {
	if len(sessions) == 0 {
		return nil
	}
	return db.withTx(ctx, func(tx pgx.Tx) error {
		for _, s := range sessions {
			if _, err := tx.Exec(ctx,
				`UPDATE workout_sessions SET planned_weight = $1 WHERE id = $2 AND completed = FALSE`,
				s.PlannedWeight, s.ID); err != nil {
				return fmt.Errorf("updating session plan: %w", err)
			}
			for i := range s.Sets {
				set := &s.Sets[i]
				if _, err := tx.Exec(ctx,
					`UPDATE workout_sets SET target_weight = $1 WHERE id = $2 AND completed = FALSE`,
					set.TargetWeight, set.ID); err != nil {
					return fmt.Errorf("updating set target: %w", err)
				}
			}
		}
		return nil
	})
}
