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

// InsertProgram persists a freshly generated program tree — program, days,
// exercise definitions, exercise sessions, and sets — in one transaction.
func (db *DB) InsertProgram(ctx context.Context, userID int, prog *models.Program) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO programs (id, user_id, name, template, status, total_weeks,
			 current_week, start_date, notes)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			prog.ID, userID, prog.Name, prog.Template, prog.Status,
			prog.TotalWeeks, prog.CurrentWeek, prog.StartDate, prog.Notes)
		if err != nil {
			return fmt.Errorf("inserting program: %w", err)
		}

		var sets []models.WorkoutSet
		for d := range prog.Days {
			day := &prog.Days[d]
			if _, err := tx.Exec(ctx,
				`INSERT INTO training_days (id, program_id, name, day_of_week)
				 VALUES ($1,$2,$3,$4)`,
				day.ID, day.ProgramID, day.Name, day.DayOfWeek); err != nil {
				return fmt.Errorf("inserting training day: %w", err)
			}
			for e := range day.Exercises {
				ex := &day.Exercises[e]
				if _, err := tx.Exec(ctx,
					`INSERT INTO program_exercises (id, training_day_id, exercise, order_index,
					 starting_weight, current_weight, target_sets, target_reps, increment, notes)
					 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
					ex.ID, ex.TrainingDayID, ex.Exercise, ex.OrderIndex,
					ex.StartingWeight, ex.CurrentWeight, ex.TargetSets, ex.TargetReps,
					ex.Increment, ex.Notes); err != nil {
					return fmt.Errorf("inserting program exercise: %w", err)
				}
			}
			if err := insertExerciseSessions(ctx, tx, day.Sessions); err != nil {
				return err
			}
			for s := range day.Sessions {
				sets = append(sets, day.Sessions[s].Sets...)
			}
		}
		return insertWorkoutSets(ctx, tx, sets)
	})
}

func insertExerciseSessions(ctx context.Context, tx pgx.Tx, sessions []models.ExerciseSession) error {
	if len(sessions) == 0 {
		return nil
	}

	query := `INSERT INTO exercise_sessions (id, program_exercise_id, training_day_id,
		session_date, week, session_number, planned_weight, planned_sets, planned_reps,
		completed, completed_at, notes) VALUES `
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
		args = append(args, s.ID, s.ProgramExerciseID, s.TrainingDayID, s.Date, s.Week,
			s.SessionNumber, s.PlannedWeight, s.PlannedSets, s.PlannedReps,
			s.Completed, s.CompletedAt, s.Notes)
	}

	query += strings.Join(valueStrings, ",")
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting exercise sessions: %w", err)
	}
	return nil
}

// ListPrograms retrieves a user's programs without their subtrees, newest
// first.
func (db *DB) ListPrograms(ctx context.Context, userID int) ([]models.Program, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, template, status, total_weeks, current_week, start_date, notes
		 FROM programs WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying programs: %w", err)
	}
	defer rows.Close()

	var result []models.Program
	for rows.Next() {
		var p models.Program
		if err := rows.Scan(&p.ID, &p.Name, &p.Template, &p.Status,
			&p.TotalWeeks, &p.CurrentWeek, &p.StartDate, &p.Notes); err != nil {
			return nil, fmt.Errorf("scanning program: %w", err)
		}
		p.UserID = userID
		result = append(result, p)
	}
	return result, rows.Err()
}

// GetProgram retrieves one program with its full ordered subtree.
func (db *DB) GetProgram(ctx context.Context, userID int, id uuid.UUID) (*models.Program, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, name, template, status, total_weeks, current_week, start_date, notes
		 FROM programs WHERE id = $1 AND user_id = $2`,
		id, userID)

	var p models.Program
	err := row.Scan(&p.ID, &p.Name, &p.Template, &p.Status,
		&p.TotalWeeks, &p.CurrentWeek, &p.StartDate, &p.Notes)
	if err != nil {
		return nil, fmt.Errorf("querying program: %w", err)
	}
	p.UserID = userID

	dayRows, err := db.Pool.Query(ctx,
		`SELECT id, program_id, name, day_of_week
		 FROM training_days WHERE program_id = $1 ORDER BY day_of_week ASC`,
		id)
	if err != nil {
		return nil, fmt.Errorf("querying training days: %w", err)
	}
	defer dayRows.Close()

	dayIndex := map[uuid.UUID]int{}
	for dayRows.Next() {
		var d models.TrainingDay
		if err := dayRows.Scan(&d.ID, &d.ProgramID, &d.Name, &d.DayOfWeek); err != nil {
			return nil, fmt.Errorf("scanning training day: %w", err)
		}
		dayIndex[d.ID] = len(p.Days)
		p.Days = append(p.Days, d)
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	exRows, err := db.Pool.Query(ctx,
		`SELECT pe.id, pe.training_day_id, pe.exercise, pe.order_index, pe.starting_weight,
		 pe.current_weight, pe.target_sets, pe.target_reps, pe.increment, pe.notes
		 FROM program_exercises pe
		 JOIN training_days td ON td.id = pe.training_day_id
		 WHERE td.program_id = $1
		 ORDER BY pe.order_index ASC`,
		id)
	if err != nil {
		return nil, fmt.Errorf("querying program exercises: %w", err)
	}
	defer exRows.Close()

	for exRows.Next() {
		var ex models.ProgramExercise
		if err := exRows.Scan(&ex.ID, &ex.TrainingDayID, &ex.Exercise, &ex.OrderIndex,
			&ex.StartingWeight, &ex.CurrentWeight, &ex.TargetSets, &ex.TargetReps,
			&ex.Increment, &ex.Notes); err != nil {
			return nil, fmt.Errorf("scanning program exercise: %w", err)
		}
		if i, ok := dayIndex[ex.TrainingDayID]; ok {
			p.Days[i].Exercises = append(p.Days[i].Exercises, ex)
		}
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}

	sessIndex := map[uuid.UUID][2]int{}
	sessRows, err := db.Pool.Query(ctx,
		`SELECT es.id, es.program_exercise_id, es.training_day_id, es.session_date, es.week,
		 es.session_number, es.planned_weight, es.planned_sets, es.planned_reps,
		 es.completed, es.completed_at, es.notes
		 FROM exercise_sessions es
		 JOIN training_days td ON td.id = es.training_day_id
		 WHERE td.program_id = $1
		 ORDER BY es.session_number ASC`,
		id)
	if err != nil {
		return nil, fmt.Errorf("querying exercise sessions: %w", err)
	}
	defer sessRows.Close()

	for sessRows.Next() {
		var s models.ExerciseSession
		if err := sessRows.Scan(&s.ID, &s.ProgramExerciseID, &s.TrainingDayID, &s.Date,
			&s.Week, &s.SessionNumber, &s.PlannedWeight, &s.PlannedSets, &s.PlannedReps,
			&s.Completed, &s.CompletedAt, &s.Notes); err != nil {
			return nil, fmt.Errorf("scanning exercise session: %w", err)
		}
		if i, ok := dayIndex[s.TrainingDayID]; ok {
			sessIndex[s.ID] = [2]int{i, len(p.Days[i].Sessions)}
			p.Days[i].Sessions = append(p.Days[i].Sessions, s)
		}
	}
	if err := sessRows.Err(); err != nil {
		return nil, err
	}

	setRows, err := db.Pool.Query(ctx,
		`SELECT ws.id, ws.exercise_session_id, ws.set_number, ws.target_reps, ws.target_weight,
		 ws.actual_reps, ws.actual_weight, ws.rpe, ws.completed, ws.notes
		 FROM workout_sets ws
		 JOIN exercise_sessions es ON es.id = ws.exercise_session_id
		 JOIN training_days td ON td.id = es.training_day_id
		 WHERE td.program_id = $1
		 ORDER BY ws.set_number ASC`,
		id)
	if err != nil {
		return nil, fmt.Errorf("querying workout sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var set models.WorkoutSet
		if err := setRows.Scan(&set.ID, &set.ExerciseSessionID, &set.Number, &set.TargetReps,
			&set.TargetWeight, &set.ActualReps, &set.ActualWeight, &set.RPE,
			&set.Completed, &set.Notes); err != nil {
			return nil, fmt.Errorf("scanning workout set: %w", err)
		}
		if loc, ok := sessIndex[set.ExerciseSessionID]; ok {
			sess := &p.Days[loc[0]].Sessions[loc[1]]
			sess.Sets = append(sess.Sets, set)
		}
	}
	return &p, setRows.Err()
}

// DeleteProgram removes the program root row; the schema cascades into
// training days, program exercises, exercise sessions, and sets.
func (db *DB) DeleteProgram(ctx context.Context, userID int, id uuid.UUID) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM programs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("deleting program: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// UpdateProgramStatus writes a validated lifecycle transition.
func (db *DB) UpdateProgramStatus(ctx context.Context, userID int, id uuid.UUID, status models.Status) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE programs SET status = $1 WHERE id = $2 AND user_id = $3`,
		status, id, userID)
	if err != nil {
		return fmt.Errorf("updating program status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// LogExerciseSet records the actuals for one set of a program exercise
// session and marks it complete. Completed sets are immutable.
func (db *DB) LogExerciseSet(ctx context.Context, exerciseSessionID uuid.UUID, setNumber int, actualReps int, actualWeight *float64, rpe *int, notes string) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workout_sets
		 SET actual_reps = $1, actual_weight = $2, rpe = $3, completed = TRUE,
		     notes = CASE WHEN $4 <> '' THEN $4 ELSE notes END
		 WHERE exercise_session_id = $5 AND set_number = $6 AND completed = FALSE`,
		actualReps, actualWeight, rpe, notes, exerciseSessionID, setNumber)
	if err != nil {
		return false, fmt.Errorf("logging exercise set: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CompleteExerciseSession marks a program exercise session complete,
// auto-progresses the exercise's working weight, and applies a week
// advancement when the engine decided one — all in one transaction.
func (db *DB) CompleteExerciseSession(ctx context.Context, programID, sessionID uuid.UUID, completedAt time.Time, exerciseID uuid.UUID, newCurrentWeight float64, newCurrentWeek int) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE exercise_sessions SET completed = TRUE, completed_at = $1
			 WHERE id = $2 AND completed = FALSE`,
			completedAt, sessionID)
		if err != nil {
			return fmt.Errorf("completing exercise session: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}

		if newCurrentWeight > 0 {
			if _, err := tx.Exec(ctx,
				`UPDATE program_exercises SET current_weight = $1 WHERE id = $2`,
				newCurrentWeight, exerciseID); err != nil {
				return fmt.Errorf("progressing exercise weight: %w", err)
			}
		}
		if newCurrentWeek > 0 {
			if _, err := tx.Exec(ctx,
				`UPDATE programs SET current_week = $1 WHERE id = $2`,
				newCurrentWeek, programID); err != nil {
				return fmt.Errorf("advancing program week: %w", err)
			}
		}
		return nil
	})
}

// SaveAdjustedExerciseSessions writes back planned-weight changes produced
// by the schedule adjuster in one transaction.
func (db *DB) SaveAdjustedExerciseSessions(ctx context.Context, sessions []*models.ExerciseSession) error {
	if len(sessions) == 0 {
		return nil
	}
	return db.withTx(ctx, func(tx pgx.Tx) error {
		for _, s := range sessions {
			if _, err := tx.Exec(ctx,
				`UPDATE exercise_sessions SET planned_weight = $1 WHERE id = $2 AND completed = FALSE`,
				s.PlannedWeight, s.ID); err != nil {
				return fmt.Errorf("updating exercise session plan: %w", err)
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
