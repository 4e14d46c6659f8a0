package engine

import (
	"fmt"

	"github.com/claude/liftplan/internal/models"
)

// AdjustmentKind is the recommended action after evaluating a finished
// session.
type AdjustmentKind string

const (
	AdjustContinue AdjustmentKind = "continue_as_planned"
	AdjustRepeat   AdjustmentKind = "repeat_weight"
	AdjustReduce   AdjustmentKind = "reduce_weight"
	AdjustDeload   AdjustmentKind = "deload"
)

// Valid reports whether the kind is one of the four adjustment outcomes.
func (k AdjustmentKind) Valid() bool {
	switch k {
	case AdjustContinue, AdjustRepeat, AdjustReduce, AdjustDeload:
		return true
	}
	return false
}

// Recommendation is the evaluator's advisory output. It never mutates
// state by itself; the adjuster applies it only once the user accepts.
type Recommendation struct {
	Kind        AdjustmentKind `json:"kind"`
	Percent     float64        `json:"percent,omitempty"`
	Performance float64        `json:"performance_percentage"`
	Message     string         `json:"message"`
}

// Evaluate runs the one-dimensional threshold ladder over a session's
// performance percentage. atDeloadCheckpoint signals that this occurrence
// lands on an auto-deload week, upgrading a reduction to a full deload.
func Evaluate(performance float64, es ExerciseSettings, atDeloadCheckpoint bool) Recommendation {
	switch {
	case performance >= es.ExcellentThreshold:
		return Recommendation{
			Kind:        AdjustContinue,
			Performance: performance,
			Message:     fmt.Sprintf("Excellent work (%.0f%%). Keep following the plan.", performance),
		}
	case performance >= es.GoodThreshold:
		// Good is a pass-through tier: same action, different message.
		return Recommendation{
			Kind:        AdjustContinue,
			Performance: performance,
			Message:     fmt.Sprintf("Good session (%.0f%%). Continue as planned.", performance),
		}
	case performance >= es.AdjustmentThreshold:
		return Recommendation{
			Kind:        AdjustRepeat,
			Performance: performance,
			Message:     fmt.Sprintf("Tough session (%.0f%%). Repeat this weight next time instead of advancing.", performance),
		}
	case atDeloadCheckpoint:
		return Recommendation{
			Kind:        AdjustDeload,
			Percent:     es.DeloadPercent,
			Performance: performance,
			Message:     fmt.Sprintf("Deload week: dropping remaining weights by %.0f%% to recover.", es.DeloadPercent),
		}
	default:
		return Recommendation{
			Kind:        AdjustReduce,
			Percent:     es.ReductionPercent,
			Performance: performance,
			Message:     fmt.Sprintf("Below target (%.0f%%). Reducing remaining weights by %.0f%%.", performance, es.ReductionPercent),
		}
	}
}

// EvaluateSession evaluates a finished progression session against the
// resolved settings, checking the owning progression for an auto-deload
// checkpoint.
func EvaluateSession(p *models.Progression, sess *models.WorkoutSession, es ExerciseSettings) Recommendation {
	return Evaluate(sess.PerformancePercentage(), es, atDeloadCheckpoint(p.CurrentWeek, es))
}

// EvaluateExerciseSession evaluates a finished program exercise session.
func EvaluateExerciseSession(prog *models.Program, sess *models.ExerciseSession, es ExerciseSettings) Recommendation {
	return Evaluate(sess.PerformancePercentage(), es, atDeloadCheckpoint(prog.CurrentWeek, es))
}

func atDeloadCheckpoint(currentWeek int, es ExerciseSettings) bool {
	return es.AutoDeloadEnabled && es.AutoDeloadFrequency > 0 && currentWeek%es.AutoDeloadFrequency == 0
}
