package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UpcomingSession is one scheduled occurrence across both track kinds,
// flattened for dashboards and MCP queries.
type UpcomingSession struct {
	Kind          string    `json:"kind"` // "progression" or "program"
	SessionID     uuid.UUID `json:"session_id"`
	TrackID       uuid.UUID `json:"track_id"`
	TrackName     string    `json:"track_name"`
	Exercise      string    `json:"exercise"`
	Date          time.Time `json:"date"`
	Week          int       `json:"week"`
	PlannedWeight float64   `json:"planned_weight"`
	PlannedSets   int       `json:"planned_sets"`
	PlannedReps   int       `json:"planned_reps"`
}

// UpcomingSessions lists not-yet-completed sessions from active tracks,
// soonest first, across progressions and programs.
func (db *DB) UpcomingSessions(ctx context.Context, userID int, from time.Time, limit int) ([]UpcomingSession, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT 'progression', ws.id, p.id, p.exercise, p.exercise, ws.session_date, ws.week,
		       ws.planned_weight, ws.planned_sets, ws.planned_reps
		FROM workout_sessions ws
		JOIN progressions p ON p.id = ws.progression_id
		WHERE p.user_id = $1 AND p.status = 'active'
		  AND ws.completed = FALSE AND ws.session_date >= $2
		UNION ALL
		SELECT 'program', es.id, pr.id, pr.name, pe.exercise, es.session_date, es.week,
		       es.planned_weight, es.planned_sets, es.planned_reps
		FROM exercise_sessions es
		JOIN program_exercises pe ON pe.id = es.program_exercise_id
		JOIN training_days td ON td.id = es.training_day_id
		JOIN programs pr ON pr.id = td.program_id
		WHERE pr.user_id = $1 AND pr.status = 'active'
		  AND es.completed = FALSE AND es.session_date >= $2
		ORDER BY 6 ASC
		LIMIT $3`,
		userID, from, limit)
	if err != nil {
		return nil, fmt.Errorf("querying upcoming sessions: %w", err)
	}
	defer rows.Close()

	var result []UpcomingSession
	for rows.Next() {
		var u UpcomingSession
		if err := rows.Scan(&u.Kind, &u.SessionID, &u.TrackID, &u.TrackName, &u.Exercise,
			&u.Date, &u.Week, &u.PlannedWeight, &u.PlannedSets, &u.PlannedReps); err != nil {
			return nil, fmt.Errorf("scanning upcoming session: %w", err)
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

// PerformanceEntry is one completed session with its logged rep total.
type PerformanceEntry struct {
	Kind          string    `json:"kind"`
	SessionID     uuid.UUID `json:"session_id"`
	Exercise      string    `json:"exercise"`
	Date          time.Time `json:"date"`
	Week          int       `json:"week"`
	PlannedWeight float64   `json:"planned_weight"`
	PlannedReps   int       `json:"planned_reps_total"`
	ActualReps    int       `json:"actual_reps_total"`
	Performance   float64   `json:"performance_percentage"`
}

// likePattern wraps a filter term for substring ILIKE matching, escaping
// the LIKE metacharacters so user input matches literally. Empty stays
// empty, which the queries treat as no filter.
func likePattern(term string) string {
	if term == "" {
		return ""
	}
	esc := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + esc + "%"
}

// PerformanceHistory lists a user's completed sessions with planned vs
// actual rep totals, newest first, optionally filtered by exercise
// substring (case-insensitive, so "bench" matches "Bench Press").
func (db *DB) PerformanceHistory(ctx context.Context, userID int, exercise string, since time.Time, limit int) ([]PerformanceEntry, error) {
	rows, err := db.Pool.Query(ctx, `
		SELECT 'progression', ws.id, p.exercise, ws.session_date, ws.week, ws.planned_weight,
		       ws.planned_sets * ws.planned_reps,
		       COALESCE((SELECT SUM(s.actual_reps) FROM workout_sets s
		                 WHERE s.session_id = ws.id AND s.actual_reps IS NOT NULL), 0)
		FROM workout_sessions ws
		JOIN progressions p ON p.id = ws.progression_id
		WHERE p.user_id = $1 AND ws.completed = TRUE AND ws.session_date >= $2
		  AND ($3 = '' OR p.exercise ILIKE $3)
		UNION ALL
		SELECT 'program', es.id, pe.exercise, es.session_date, es.week, es.planned_weight,
		       es.planned_sets * es.planned_reps,
		       COALESCE((SELECT SUM(s.actual_reps) FROM workout_sets s
		                 WHERE s.exercise_session_id = es.id AND s.actual_reps IS NOT NULL), 0)
		FROM exercise_sessions es
		JOIN program_exercises pe ON pe.id = es.program_exercise_id
		JOIN training_days td ON td.id = es.training_day_id
		JOIN programs pr ON pr.id = td.program_id
		WHERE pr.user_id = $1 AND es.completed = TRUE AND es.session_date >= $2
		  AND ($3 = '' OR pe.exercise ILIKE $3)
		ORDER BY 4 DESC
		LIMIT $4`,
		userID, since, likePattern(exercise), limit)
	if err != nil {
		return nil, fmt.Errorf("querying performance history: %w", err)
	}
	defer rows.Close()

	var result []PerformanceEntry
	for rows.Next() {
		var e PerformanceEntry
		if err := rows.Scan(&e.Kind, &e.SessionID, &e.Exercise, &e.Date, &e.Week,
			&e.PlannedWeight, &e.PlannedReps, &e.ActualReps); err != nil {
			return nil, fmt.Errorf("scanning performance entry: %w", err)
		}
		if e.PlannedReps > 0 {
			e.Performance = 100 * float64(e.ActualReps) / float64(e.PlannedReps)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// ScheduledSet locates one plannable set for the importer: the owning
// session kind, session id, and whether the set is still open.
type ScheduledSet struct {
	Kind      string
	SessionID uuid.UUID
	TrackID   uuid.UUID
	SetNumber int
	Open      bool
}

// FindScheduledSet matches a logged set to the schedule by exercise name,
// calendar date, and set number, preferring progression sessions. The
// exercise match is exact up to case: import rows carry full names, and a
// substring match would let "Press" hit both bench and overhead sessions.
func (db *DB) FindScheduledSet(ctx context.Context, userID int, exercise string, date time.Time, setNumber int) (*ScheduledSet, error) {
	row := db.Pool.QueryRow(ctx, `
		SELECT 'progression', ws.id, p.id, s.set_number, NOT s.completed
		FROM workout_sets s
		JOIN workout_sessions ws ON ws.id = s.session_id
		JOIN progressions p ON p.id = ws.progression_id
		WHERE p.user_id = $1 AND p.exercise ILIKE $2
		  AND ws.session_date = $3 AND s.set_number = $4
		UNION ALL
		SELECT 'program', es.id, pr.id, s.set_number, NOT s.completed
		FROM workout_sets s
		JOIN exercise_sessions es ON es.id = s.exercise_session_id
		JOIN program_exercises pe ON pe.id = es.program_exercise_id
		JOIN training_days td ON td.id = es.training_day_id
		JOIN programs pr ON pr.id = td.program_id
		WHERE pr.user_id = $1 AND pe.exercise ILIKE $2
		  AND es.session_date = $3 AND s.set_number = $4
		ORDER BY 1 DESC
		LIMIT 1`,
		userID, exercise, date, setNumber)

	var m ScheduledSet
	if err := row.Scan(&m.Kind, &m.SessionID, &m.TrackID, &m.SetNumber, &m.Open); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}
