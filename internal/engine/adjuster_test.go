package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/claude/liftplan/internal/models"
)

func generated(t *testing.T) *models.Progression {
	t.Helper()
	p, err := GenerateProgression(linearInput(), DefaultSettings())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return p
}

func complete(sess *models.WorkoutSession) {
	now := time.Now()
	sess.Completed = true
	sess.CompletedAt = &now
	for i := range sess.Sets {
		sess.Sets[i].Completed = true
	}
}

// TestAdjustProgressionReduceScope verifies reduceBy(10) rewrites only the
// future, not-completed sessions (×0.90 rounded) and leaves completed
// sessions bit-identical.
func TestAdjustProgressionReduceScope(t *testing.T) {
	p := generated(t)
	es := DefaultSettings().ForExercise(p.Exercise)

	complete(&p.Sessions[0])
	complete(&p.Sessions[1])
	evaluated := &p.Sessions[1]

	before := make([]float64, len(p.Sessions))
	for i := range p.Sessions {
		before[i] = p.Sessions[i].PlannedWeight
	}

	rec := Recommendation{Kind: AdjustReduce, Percent: 10}
	changed, err := AdjustProgression(p, evaluated.ID, rec, es)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if want := len(p.Sessions) - 2; len(changed) != want {
		t.Errorf("changed = %d sessions, want %d", len(changed), want)
	}

	for i := range p.Sessions {
		sess := &p.Sessions[i]
		if i <= 1 {
			if sess.PlannedWeight != before[i] {
				t.Errorf("completed session %d mutated: %v -> %v", i, before[i], sess.PlannedWeight)
			}
			for _, set := range sess.Sets {
				if set.TargetWeight != before[i] {
					t.Errorf("completed set mutated: %v", set.TargetWeight)
				}
			}
			continue
		}
		want := RoundToIncrement(before[i]*0.90, es.Increment)
		if sess.PlannedWeight != want {
			t.Errorf("session %d weight = %v, want %v", i, sess.PlannedWeight, want)
		}
		for _, set := range sess.Sets {
			if set.TargetWeight != want {
				t.Errorf("session %d set weight = %v, want %v", i, set.TargetWeight, want)
			}
		}
	}
}

// TestAdjustProgressionRepeatFreezesCurve verifies repeatWeight sets every
// future weight to the evaluated session's planned weight instead of
// resuming the climb.
func TestAdjustProgressionRepeatFreezesCurve(t *testing.T) {
	p := generated(t)
	es := DefaultSettings().ForExercise(p.Exercise)
	complete(&p.Sessions[0])
	freeze := p.Sessions[0].PlannedWeight

	_, err := AdjustProgression(p, p.Sessions[0].ID, Recommendation{Kind: AdjustRepeat}, es)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	for i := 1; i < len(p.Sessions); i++ {
		if p.Sessions[i].PlannedWeight != freeze {
			t.Errorf("session %d weight = %v, want frozen %v", i, p.Sessions[i].PlannedWeight, freeze)
		}
	}
}

// TestAdjustProgressionContinueNoOp verifies continueAsPlanned changes
// nothing.
func TestAdjustProgressionContinueNoOp(t *testing.T) {
	p := generated(t)
	es := DefaultSettings().ForExercise(p.Exercise)
	before := make([]float64, len(p.Sessions))
	for i := range p.Sessions {
		before[i] = p.Sessions[i].PlannedWeight
	}

	changed, err := AdjustProgression(p, p.Sessions[0].ID, Recommendation{Kind: AdjustContinue}, es)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if changed != nil {
		t.Errorf("changed = %v, want nil", changed)
	}
	for i := range p.Sessions {
		if p.Sessions[i].PlannedWeight != before[i] {
			t.Errorf("session %d mutated by no-op", i)
		}
	}
}

// TestAdjustProgressionCompounds verifies a second reduction applies to the
// already-adjusted curve, matching the source behavior of always operating
// on current planned values.
func TestAdjustProgressionCompounds(t *testing.T) {
	p := generated(t)
	es := DefaultSettings().ForExercise(p.Exercise)
	rec := Recommendation{Kind: AdjustReduce, Percent: 10}

	last := len(p.Sessions) - 1
	original := p.Sessions[last].PlannedWeight

	if _, err := AdjustProgression(p, p.Sessions[0].ID, rec, es); err != nil {
		t.Fatalf("first adjust: %v", err)
	}
	afterFirst := p.Sessions[last].PlannedWeight
	if _, err := AdjustProgression(p, p.Sessions[0].ID, rec, es); err != nil {
		t.Fatalf("second adjust: %v", err)
	}
	afterSecond := p.Sessions[last].PlannedWeight

	want := RoundToIncrement(afterFirst*0.90, es.Increment)
	if afterSecond != want {
		t.Errorf("after second = %v, want %v (compounded from %v, original %v)", afterSecond, want, afterFirst, original)
	}
}

// TestAdjustCompletedProgressionRefused verifies adjusting a completed
// progression is an invariant violation, not a silent no-op.
func TestAdjustCompletedProgressionRefused(t *testing.T) {
	p := generated(t)
	p.Status = models.StatusCompleted
	es := DefaultSettings().ForExercise(p.Exercise)

	_, err := AdjustProgression(p, p.Sessions[0].ID, Recommendation{Kind: AdjustReduce, Percent: 5}, es)
	var inv *InvariantViolation
	if !errors.As(err, &inv) {
		t.Fatalf("error = %v, want InvariantViolation", err)
	}
}

// TestAdjustProgramExerciseScoped verifies a program adjustment only
// rewrites future sessions of the evaluated exercise, leaving sibling
// exercises untouched.
func TestAdjustProgramExerciseScoped(t *testing.T) {
	prog, err := GenerateProgram(ProgramInput{
		Name:     "SL",
		Template: models.TemplateStrongLifts,
		Maxes: map[string]float64{
			"Squat":          300,
			"Bench Press":    200,
			"Barbell Row":    180,
			"Overhead Press": 120,
			"Deadlift":       350,
		},
		TotalWeeks: 4,
		StartDate:  time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}, DefaultSettings())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Evaluate the first bench session on Workout A.
	var bench *models.ExerciseSession
	var benchExerciseID = prog.Days[0].Exercises[1].ID
	for i := range prog.Days[0].Sessions {
		sess := &prog.Days[0].Sessions[i]
		if sess.ProgramExerciseID == benchExerciseID && sess.SessionNumber == 1 {
			bench = sess
		}
	}
	if bench == nil {
		t.Fatal("no bench session 1")
	}

	squatBefore := map[int]float64{}
	for _, sess := range prog.Days[0].Sessions {
		if sess.ProgramExerciseID == prog.Days[0].Exercises[0].ID {
			squatBefore[sess.SessionNumber] = sess.PlannedWeight
		}
	}

	es := DefaultSettings().ForExercise("Bench Press")
	changed, err := AdjustProgramExercise(prog, bench.ID, Recommendation{Kind: AdjustReduce, Percent: 10}, es)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if len(changed) == 0 {
		t.Fatal("no sessions adjusted")
	}
	for _, sess := range changed {
		if sess.ProgramExerciseID != benchExerciseID {
			t.Errorf("adjusted a non-bench session %v", sess.ID)
		}
		if sess.SessionNumber <= bench.SessionNumber {
			t.Errorf("adjusted session %d at or before evaluated %d", sess.SessionNumber, bench.SessionNumber)
		}
	}
	for _, sess := range prog.Days[0].Sessions {
		if sess.ProgramExerciseID != prog.Days[0].Exercises[0].ID {
			continue
		}
		if sess.PlannedWeight != squatBefore[sess.SessionNumber] {
			t.Errorf("squat session %d mutated by bench adjustment", sess.SessionNumber)
		}
	}
}
