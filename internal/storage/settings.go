package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/claude/liftplan/internal/engine"
	"github.com/jackc/pgx/v5"
)

// GetSettings loads the user's adjustment-rule snapshot: the global row
// plus every per-exercise override. A user without a stored row gets the
// shipped defaults.
func (db *DB) GetSettings(ctx context.Context, userID int) (engine.Settings, error) {
	s := engine.DefaultSettings()

	row := db.Pool.QueryRow(ctx,
		`SELECT adjustment_mode, excellent_threshold, good_threshold, adjustment_threshold,
		 reduction_percent, deload_percent, lower_body_increment, upper_body_increment,
		 use_metric, auto_deload_enabled, auto_deload_frequency
		 FROM settings WHERE user_id = $1`,
		userID)
	err := row.Scan(&s.AdjustmentMode, &s.ExcellentThreshold, &s.GoodThreshold,
		&s.AdjustmentThreshold, &s.ReductionPercent, &s.DeloadPercent,
		&s.LowerBodyIncrement, &s.UpperBodyIncrement, &s.UseMetric,
		&s.AutoDeloadEnabled, &s.AutoDeloadFrequency)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return s, fmt.Errorf("querying settings: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT exercise, excellent_threshold, good_threshold, adjustment_threshold,
		 reduction_percent, deload_percent, increment
		 FROM exercise_settings WHERE user_id = $1`,
		userID)
	if err != nil {
		return s, fmt.Errorf("querying exercise settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var exercise string
		var o engine.Override
		if err := rows.Scan(&exercise, &o.ExcellentThreshold, &o.GoodThreshold,
			&o.AdjustmentThreshold, &o.ReductionPercent, &o.DeloadPercent,
			&o.Increment); err != nil {
			return s, fmt.Errorf("scanning exercise settings: %w", err)
		}
		if s.Overrides == nil {
			s.Overrides = map[string]engine.Override{}
		}
		s.Overrides[exercise] = o
	}
	return s, rows.Err()
}

// PutSettings upserts the user's global adjustment rules.
func (db *DB) PutSettings(ctx context.Context, userID int, s engine.Settings) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO settings (user_id, adjustment_mode, excellent_threshold, good_threshold,
		 adjustment_threshold, reduction_percent, deload_percent, lower_body_increment,
		 upper_body_increment, use_metric, auto_deload_enabled, auto_deload_frequency)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 ON CONFLICT (user_id) DO UPDATE SET
		   adjustment_mode = EXCLUDED.adjustment_mode,
		   excellent_threshold = EXCLUDED.excellent_threshold,
		   good_threshold = EXCLUDED.good_threshold,
		   adjustment_threshold = EXCLUDED.adjustment_threshold,
		   reduction_percent = EXCLUDED.reduction_percent,
		   deload_percent = EXCLUDED.deload_percent,
		   lower_body_increment = EXCLUDED.lower_body_increment,
		   upper_body_increment = EXCLUDED.upper_body_increment,
		   use_metric = EXCLUDED.use_metric,
		   auto_deload_enabled = EXCLUDED.auto_deload_enabled,
		   auto_deload_frequency = EXCLUDED.auto_deload_frequency`,
		userID, s.AdjustmentMode, s.ExcellentThreshold, s.GoodThreshold,
		s.AdjustmentThreshold, s.ReductionPercent, s.DeloadPercent,
		s.LowerBodyIncrement, s.UpperBodyIncrement, s.UseMetric,
		s.AutoDeloadEnabled, s.AutoDeloadFrequency)
	if err != nil {
		return fmt.Errorf("upserting settings: %w", err)
	}
	return nil
}

// PutExerciseSettings upserts a per-exercise override row.
func (db *DB) PutExerciseSettings(ctx context.Context, userID int, exercise string, o engine.Override) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO exercise_settings (user_id, exercise, excellent_threshold, good_threshold,
		 adjustment_threshold, reduction_percent, deload_percent, increment)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (user_id, exercise) DO UPDATE SET
		   excellent_threshold = EXCLUDED.excellent_threshold,
		   good_threshold = EXCLUDED.good_threshold,
		   adjustment_threshold = EXCLUDED.adjustment_threshold,
		   reduction_percent = EXCLUDED.reduction_percent,
		   deload_percent = EXCLUDED.deload_percent,
		   increment = EXCLUDED.increment`,
		userID, exercise, o.ExcellentThreshold, o.GoodThreshold,
		o.AdjustmentThreshold, o.ReductionPercent, o.DeloadPercent, o.Increment)
	if err != nil {
		return fmt.Errorf("upserting exercise settings: %w", err)
	}
	return nil
}

// DeleteExerciseSettings removes a per-exercise override, restoring the
// global fallback.
func (db *DB) DeleteExerciseSettings(ctx context.Context, userID int, exercise string) (bool, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM exercise_settings WHERE user_id = $1 AND exercise = $2`,
		userID, exercise)
	if err != nil {
		return false, fmt.Errorf("deleting exercise settings: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
