package engine

import (
	"github.com/claude/liftplan/internal/models"
	"github.com/google/uuid"
)

// AdjustProgression applies an accepted recommendation to every
// not-yet-completed session after the evaluated one. Completed sessions
// and sets are never touched. Returns the sessions that were mutated so
// the caller can persist them in one unit of work.
//
// Reductions operate on the current planned values, so a second adjustment
// compounds on the first rather than resetting to the original curve.
func AdjustProgression(p *models.Progression, evaluatedID uuid.UUID, rec Recommendation, es ExerciseSettings) ([]*models.WorkoutSession, error) {
	if p.Status == models.StatusCompleted {
		return nil, &InvariantViolation{Op: "adjust progression", Reason: "progression is completed"}
	}
	if !rec.Kind.Valid() {
		return nil, validationErr("kind", "unknown adjustment %q", rec.Kind)
	}
	if rec.Kind == AdjustContinue {
		return nil, nil
	}

	from := -1
	for i := range p.Sessions {
		if p.Sessions[i].ID == evaluatedID {
			from = i
			break
		}
	}
	if from < 0 {
		return nil, &InvariantViolation{Op: "adjust progression", Reason: "evaluated session not found"}
	}

	freeze := p.Sessions[from].PlannedWeight
	var changed []*models.WorkoutSession
	for i := from + 1; i < len(p.Sessions); i++ {
		sess := &p.Sessions[i]
		if sess.Completed {
			continue
		}
		sess.PlannedWeight = adjustedWeight(sess.PlannedWeight, freeze, rec, es)
		for j := range sess.Sets {
			set := &sess.Sets[j]
			if set.Completed {
				continue
			}
			set.TargetWeight = adjustedWeight(set.TargetWeight, freeze, rec, es)
		}
		changed = append(changed, sess)
	}
	return changed, nil
}

// AdjustProgramExercise applies an accepted recommendation to the future
// sessions of one program exercise. Adjustments are scoped per exercise: a
// missed bench day does not touch the squat curve.
func AdjustProgramExercise(prog *models.Program, evaluatedID uuid.UUID, rec Recommendation, es ExerciseSettings) ([]*models.ExerciseSession, error) {
	if prog.Status == models.StatusCompleted {
		return nil, &InvariantViolation{Op: "adjust program", Reason: "program is completed"}
	}
	if !rec.Kind.Valid() {
		return nil, validationErr("kind", "unknown adjustment %q", rec.Kind)
	}
	if rec.Kind == AdjustContinue {
		return nil, nil
	}

	evaluated := prog.ExerciseSessionByID(evaluatedID)
	if evaluated == nil {
		return nil, &InvariantViolation{Op: "adjust program", Reason: "evaluated session not found"}
	}
	freeze := evaluated.PlannedWeight

	var changed []*models.ExerciseSession
	for d := range prog.Days {
		for i := range prog.Days[d].Sessions {
			sess := &prog.Days[d].Sessions[i]
			if sess.ProgramExerciseID != evaluated.ProgramExerciseID {
				continue
			}
			if sess.SessionNumber <= evaluated.SessionNumber || sess.Completed {
				continue
			}
			sess.PlannedWeight = adjustedWeight(sess.PlannedWeight, freeze, rec, es)
			for j := range sess.Sets {
				set := &sess.Sets[j]
				if set.Completed {
					continue
				}
				set.TargetWeight = adjustedWeight(set.TargetWeight, freeze, rec, es)
			}
			changed = append(changed, sess)
		}
	}
	return changed, nil
}

func adjustedWeight(current, freeze float64, rec Recommendation, es ExerciseSettings) float64 {
	switch rec.Kind {
	case AdjustRepeat:
		// Freeze the curve at the evaluated session's weight.
		return freeze
	case AdjustReduce, AdjustDeload:
		return RoundToIncrement(current*(1-rec.Percent/100), es.Increment)
	default:
		return current
	}
}
