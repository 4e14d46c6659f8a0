package engine

import "testing"

// TestForExerciseFallback verifies absent override fields fall back to the
// global values field by field.
func TestForExerciseFallback(t *testing.T) {
	s := DefaultSettings()
	inc := 10.0
	s.Overrides = map[string]Override{
		"Deadlift": {Increment: &inc},
	}

	es := s.ForExercise("Deadlift")
	if es.Increment != 10 {
		t.Errorf("increment = %v, want override 10", es.Increment)
	}
	if es.ExcellentThreshold != s.ExcellentThreshold {
		t.Errorf("excellent = %v, want global %v", es.ExcellentThreshold, s.ExcellentThreshold)
	}

	es = s.ForExercise("Bench Press")
	if es.Increment != 5 {
		t.Errorf("no-override increment = %v, want global 5", es.Increment)
	}
}

// TestRoundingIncrementMetric verifies the 2.5 increment under metric
// display and 5 otherwise.
func TestRoundingIncrementMetric(t *testing.T) {
	s := DefaultSettings()
	if got := s.RoundingIncrement(); got != 5 {
		t.Errorf("imperial increment = %v, want 5", got)
	}
	s.UseMetric = true
	if got := s.RoundingIncrement(); got != 2.5 {
		t.Errorf("metric increment = %v, want 2.5", got)
	}
}

// TestBodyIncrement verifies lower-body lifts get the larger increment.
func TestBodyIncrement(t *testing.T) {
	s := DefaultSettings()
	if got := s.BodyIncrement("Squat"); got != s.LowerBodyIncrement {
		t.Errorf("squat increment = %v, want %v", got, s.LowerBodyIncrement)
	}
	if got := s.BodyIncrement("Bench Press"); got != s.UpperBodyIncrement {
		t.Errorf("bench increment = %v, want %v", got, s.UpperBodyIncrement)
	}
}

// TestTemplateCatalogClosed verifies every program template resolves and
// the custom kind does not masquerade as one.
func TestTemplateCatalogClosed(t *testing.T) {
	for _, spec := range ProgramTemplates() {
		got, ok := TemplateFor(spec.Kind)
		if !ok {
			t.Errorf("template %q missing from catalog", spec.Kind)
		}
		if len(got.Days) == 0 {
			t.Errorf("template %q has no days", spec.Kind)
		}
		for _, day := range got.Days {
			for _, ex := range day.Exercises {
				if ex.PercentOfMax <= 0 || ex.Sets < 1 || ex.Reps < 1 {
					t.Errorf("template %q exercise %q has invalid scheme", spec.Kind, ex.Name)
				}
			}
		}
	}
	if _, ok := TemplateFor("custom"); ok {
		t.Error("custom resolved as a program template")
	}
}
