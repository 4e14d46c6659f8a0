package models

import "testing"

func intp(v int) *int { return &v }

// TestWasSuccessful verifies a set counts as successful only when actual
// reps are logged and meet the target.
func TestWasSuccessful(t *testing.T) {
	tests := []struct {
		name string
		set  WorkoutSet
		want bool
	}{
		{"unlogged", WorkoutSet{TargetReps: 5}, false},
		{"under target", WorkoutSet{TargetReps: 5, ActualReps: intp(4)}, false},
		{"at target", WorkoutSet{TargetReps: 5, ActualReps: intp(5)}, true},
		{"over target", WorkoutSet{TargetReps: 5, ActualReps: intp(7)}, true},
	}
	for _, tt := range tests {
		if got := tt.set.WasSuccessful(); got != tt.want {
			t.Errorf("%s: WasSuccessful = %v, want %v", tt.name, got, tt.want)
		}
	}
}

// TestPerformancePercentage verifies the logged share of planned reps,
// including the 0-planned guard and unlogged sets counting as 0.
func TestPerformancePercentage(t *testing.T) {
	sess := WorkoutSession{
		PlannedSets: 3,
		PlannedReps: 5,
		Sets: []WorkoutSet{
			{Number: 1, TargetReps: 5, ActualReps: intp(5)},
			{Number: 2, TargetReps: 5, ActualReps: intp(3)},
			{Number: 3, TargetReps: 5}, // never logged
		},
	}
	if got := sess.TotalPlannedReps(); got != 15 {
		t.Fatalf("total planned = %d, want 15", got)
	}
	want := 100 * 8.0 / 15.0
	if got := sess.PerformancePercentage(); got != want {
		t.Errorf("performance = %v, want %v", got, want)
	}

	empty := WorkoutSession{}
	if got := empty.PerformancePercentage(); got != 0 {
		t.Errorf("zero-planned performance = %v, want 0", got)
	}
}

// TestStatusTransitions verifies the lifecycle state machine: pausing is
// reversible, completion is terminal.
func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusActive, StatusPaused, true},
		{StatusActive, StatusCompleted, true},
		{StatusPaused, StatusActive, true},
		{StatusPaused, StatusCompleted, false},
		{StatusCompleted, StatusActive, false},
		{StatusCompleted, StatusPaused, false},
		{StatusActive, StatusActive, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
