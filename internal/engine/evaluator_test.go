package engine

import (
	"strings"
	"testing"

	"github.com/claude/liftplan/internal/models"
)

func sessionWithReps(planned int, reps ...int) *models.WorkoutSession {
	sess := &models.WorkoutSession{PlannedSets: len(reps), PlannedReps: planned}
	for i, r := range reps {
		r := r
		sess.Sets = append(sess.Sets, models.WorkoutSet{
			Number:     i + 1,
			TargetReps: planned,
			ActualReps: &r,
		})
	}
	return sess
}

// TestEvaluateThresholdLadder pins the default ladder on a 3×5 session:
// 15/15 reps → continue, 8/15 (53%) → repeat, 5/15 (33%) → reduce 5%.
func TestEvaluateThresholdLadder(t *testing.T) {
	es := DefaultSettings().ForExercise("Bench Press")

	tests := []struct {
		name     string
		sess     *models.WorkoutSession
		wantKind AdjustmentKind
		wantPct  float64
	}{
		{"all reps hit", sessionWithReps(5, 5, 5, 5), AdjustContinue, 0},
		{"good tier", sessionWithReps(5, 5, 4, 3), AdjustContinue, 0}, // 12/15 = 80%
		{"repeat tier", sessionWithReps(5, 4, 3, 1), AdjustRepeat, 0}, // 8/15 = 53%
		{"reduce tier", sessionWithReps(5, 3, 2, 0), AdjustReduce, 5}, // 5/15 = 33%
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Evaluate(tt.sess.PerformancePercentage(), es, false)
			if rec.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", rec.Kind, tt.wantKind)
			}
			if rec.Percent != tt.wantPct {
				t.Errorf("percent = %v, want %v", rec.Percent, tt.wantPct)
			}
			if rec.Message == "" {
				t.Error("empty message")
			}
		})
	}
}

// TestEvaluateGoodTierMessage verifies good and excellent share the action
// but not the message text.
func TestEvaluateGoodTierMessage(t *testing.T) {
	es := DefaultSettings().ForExercise("Bench Press")
	excellent := Evaluate(95, es, false)
	good := Evaluate(80, es, false)
	if excellent.Kind != AdjustContinue || good.Kind != AdjustContinue {
		t.Fatalf("kinds = %q/%q, want both continue", excellent.Kind, good.Kind)
	}
	if excellent.Message == good.Message {
		t.Error("good and excellent tiers share a message")
	}
}

// TestEvaluateDeloadCheckpoint verifies a below-threshold session on an
// auto-deload week upgrades the reduction to a deload at the configured
// percent.
func TestEvaluateDeloadCheckpoint(t *testing.T) {
	es := DefaultSettings().ForExercise("Squat")
	es.AutoDeloadEnabled = true
	es.AutoDeloadFrequency = 4

	rec := Evaluate(30, es, true)
	if rec.Kind != AdjustDeload {
		t.Fatalf("kind = %q, want deload", rec.Kind)
	}
	if rec.Percent != es.DeloadPercent {
		t.Errorf("percent = %v, want %v", rec.Percent, es.DeloadPercent)
	}
	if !strings.Contains(rec.Message, "Deload") {
		t.Errorf("message %q does not mention deload", rec.Message)
	}
}

// TestEvaluateSessionCheckpointFromWeek verifies EvaluateSession derives
// the checkpoint from currentWeek mod autoDeloadFrequency.
func TestEvaluateSessionCheckpointFromWeek(t *testing.T) {
	s := DefaultSettings()
	s.AutoDeloadEnabled = true
	s.AutoDeloadFrequency = 4
	es := s.ForExercise("Squat")

	p := &models.Progression{Exercise: "Squat", CurrentWeek: 4, TotalWeeks: 12}
	rec := EvaluateSession(p, sessionWithReps(5, 1, 1, 1), es) // 20%
	if rec.Kind != AdjustDeload {
		t.Errorf("week 4 kind = %q, want deload", rec.Kind)
	}

	p.CurrentWeek = 5
	rec = EvaluateSession(p, sessionWithReps(5, 1, 1, 1), es)
	if rec.Kind != AdjustReduce {
		t.Errorf("week 5 kind = %q, want reduce", rec.Kind)
	}
}

// TestEvaluateZeroPlannedReps verifies the 0-planned-reps guard yields a
// 0% performance instead of dividing by zero.
func TestEvaluateZeroPlannedReps(t *testing.T) {
	sess := &models.WorkoutSession{}
	if got := sess.PerformancePercentage(); got != 0 {
		t.Errorf("performance = %v, want 0", got)
	}
}

// TestEvaluatePerExerciseOverride verifies per-exercise thresholds win
// over the global values.
func TestEvaluatePerExerciseOverride(t *testing.T) {
	s := DefaultSettings()
	low := 30.0
	s.Overrides = map[string]Override{
		"Deadlift": {AdjustmentThreshold: &low},
	}

	// 40% is below the global adjustment threshold (50) but above the
	// deadlift override (30): repeat, not reduce.
	rec := Evaluate(40, s.ForExercise("Deadlift"), false)
	if rec.Kind != AdjustRepeat {
		t.Errorf("kind = %q, want repeat", rec.Kind)
	}
	rec = Evaluate(40, s.ForExercise("Bench Press"), false)
	if rec.Kind != AdjustReduce {
		t.Errorf("kind = %q, want reduce", rec.Kind)
	}
}
