package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/google/uuid"
)

func linearInput() ProgressionInput {
	return ProgressionInput{
		Exercise:        "Bench Press",
		Template:        models.TemplateCustom,
		Style:           models.StyleLinear,
		CurrentMax:      200,
		TargetMax:       260,
		TotalWeeks:      12,
		SessionsPerWeek: 3,
		Sets:            3,
		Reps:            5,
		StartDate:       time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}
}

// TestGenerateProgressionCompleteness verifies the generated graph has
// exactly totalWeeks × sessionsPerWeek sessions, each with the planned
// number of sets, dense set numbers, and week 1 at the starting weight.
func TestGenerateProgressionCompleteness(t *testing.T) {
	p, err := GenerateProgression(linearInput(), DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := 12 * 3; len(p.Sessions) != want {
		t.Fatalf("sessions = %d, want %d", len(p.Sessions), want)
	}
	for _, sess := range p.Sessions {
		if len(sess.Sets) != 3 {
			t.Fatalf("week %d day %d: sets = %d, want 3", sess.Week, sess.Day, len(sess.Sets))
		}
		for i, set := range sess.Sets {
			if set.Number != i+1 {
				t.Errorf("set number = %d, want %d", set.Number, i+1)
			}
			if set.SessionID != sess.ID {
				t.Errorf("set back-reference = %v, want %v", set.SessionID, sess.ID)
			}
			if set.TargetWeight != sess.PlannedWeight {
				t.Errorf("set target %v != planned %v", set.TargetWeight, sess.PlannedWeight)
			}
		}
	}

	if p.StartingWeight != 170 {
		t.Errorf("starting weight = %v, want 170", p.StartingWeight)
	}
	if p.Sessions[0].PlannedWeight != p.StartingWeight {
		t.Errorf("week 1 weight = %v, want starting weight %v", p.Sessions[0].PlannedWeight, p.StartingWeight)
	}
	if p.CurrentWeek != 1 {
		t.Errorf("current week = %d, want 1", p.CurrentWeek)
	}
	if p.Status != models.StatusActive {
		t.Errorf("status = %q, want active", p.Status)
	}
}

// TestGenerateProgressionLinearCurve pins the linear fixture: 200→260 over
// 12 weeks gives weeklyIncrease 5, startingWeight 170, and week 6 at 195.
func TestGenerateProgressionLinearCurve(t *testing.T) {
	p, err := GenerateProgression(linearInput(), DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var week6 *models.WorkoutSession
	for i := range p.Sessions {
		if p.Sessions[i].Week == 6 {
			week6 = &p.Sessions[i]
			break
		}
	}
	if week6 == nil {
		t.Fatal("no week 6 session")
	}
	if week6.PlannedWeight != 195 {
		t.Errorf("week 6 weight = %v, want 195", week6.PlannedWeight)
	}
}

// TestGenerateProgressionPeriodizationWave pins the 3-week wave: with
// starting 170 and weekly 5, week 1 (light) is 170×0.90 rounded to 155 and
// week 3 (heavy) is the full 170.
func TestGenerateProgressionPeriodizationWave(t *testing.T) {
	in := linearInput()
	in.Style = models.StylePeriodization
	p, err := GenerateProgression(in, DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	weights := map[int]float64{}
	for _, sess := range p.Sessions {
		weights[sess.Week] = sess.PlannedWeight
	}
	if weights[1] != 155 {
		t.Errorf("week 1 = %v, want 155", weights[1])
	}
	if weights[2] != 160 { // 170×0.95 = 161.5 → 160
		t.Errorf("week 2 = %v, want 160", weights[2])
	}
	if weights[3] != 170 {
		t.Errorf("week 3 = %v, want 170", weights[3])
	}
	// Second wave works off a raised base: 170+15 = 185.
	if weights[6] != 185 {
		t.Errorf("week 6 = %v, want 185", weights[6])
	}
}

// TestGenerateProgressionDateSpread verifies occurrences are spread with
// daysBetween = floor(7/sessionsPerWeek) inside each 7-day window.
func TestGenerateProgressionDateSpread(t *testing.T) {
	p, err := GenerateProgression(linearInput(), DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	// 3 sessions/week → 2 days between occurrences.
	wantOffsets := map[[2]int]int{
		{1, 1}: 0, {1, 2}: 2, {1, 3}: 4,
		{2, 1}: 7, {2, 2}: 9, {2, 3}: 11,
	}
	for _, sess := range p.Sessions {
		want, ok := wantOffsets[[2]int{sess.Week, sess.Day}]
		if !ok {
			continue
		}
		got := int(sess.Date.Sub(start).Hours() / 24)
		if got != want {
			t.Errorf("week %d day %d: offset %d days, want %d", sess.Week, sess.Day, got, want)
		}
	}
}

// TestGenerateProgressionValidation verifies each rejected precondition
// returns a ValidationError and no tree.
func TestGenerateProgressionValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProgressionInput)
	}{
		{"target not above current", func(in *ProgressionInput) { in.TargetMax = in.CurrentMax }},
		{"zero weeks", func(in *ProgressionInput) { in.TotalWeeks = 0 }},
		{"zero sessions per week", func(in *ProgressionInput) { in.SessionsPerWeek = 0 }},
		{"zero sets", func(in *ProgressionInput) { in.Sets = 0 }},
		{"zero reps", func(in *ProgressionInput) { in.Reps = 0 }},
		{"negative max", func(in *ProgressionInput) { in.CurrentMax = -100 }},
		{"empty exercise", func(in *ProgressionInput) { in.Exercise = "" }},
		{"bad style", func(in *ProgressionInput) { in.Style = "sorcery" }},
		{"bad template", func(in *ProgressionInput) { in.Template = "smolov" }},
		{"empty template", func(in *ProgressionInput) { in.Template = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := linearInput()
			tt.mutate(&in)
			p, err := GenerateProgression(in, DefaultSettings())
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if p != nil {
				t.Fatal("partial tree returned alongside error")
			}
		})
	}
}

// TestGenerateProgramSessionNumbers verifies the program-global session
// number is shared by all exercises on the same calendar slot and grows
// monotonically across the program.
func TestGenerateProgramSessionNumbers(t *testing.T) {
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
		t.Fatalf("unexpected error: %v", err)
	}

	// Every session sharing a session number must share week and date.
	type slot struct {
		week int
		date time.Time
	}
	slots := map[int]slot{}
	maxNum := 0
	for _, day := range prog.Days {
		for _, sess := range day.Sessions {
			if prev, ok := slots[sess.SessionNumber]; ok {
				if prev.week != sess.Week || !prev.date.Equal(sess.Date) {
					t.Errorf("session number %d spans slots (%v vs %v)", sess.SessionNumber, prev, slot{sess.Week, sess.Date})
				}
			} else {
				slots[sess.SessionNumber] = slot{sess.Week, sess.Date}
			}
			if sess.SessionNumber > maxNum {
				maxNum = sess.SessionNumber
			}
		}
	}
	// 4 weeks × 2 training days.
	if maxNum != 8 {
		t.Errorf("max session number = %d, want 8", maxNum)
	}
	if len(slots) != 8 {
		t.Errorf("distinct instances = %d, want 8", len(slots))
	}
}

// TestGenerateProgramTexasMethodRawMax verifies Texas Method volume-day
// weights work off the raw 5RM instead of an 85% cut.
func TestGenerateProgramTexasMethodRawMax(t *testing.T) {
	prog, err := GenerateProgram(ProgramInput{
		Name:     "TM",
		Template: models.TemplateTexasMethod,
		Maxes: map[string]float64{
			"Squat":          300,
			"Bench Press":    200,
			"Overhead Press": 120,
			"Deadlift":       350,
		},
		TotalWeeks: 2,
		StartDate:  time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}, DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var volumeSquat *models.ProgramExercise
	for d := range prog.Days {
		if prog.Days[d].Name != "Volume Day" {
			continue
		}
		for e := range prog.Days[d].Exercises {
			if prog.Days[d].Exercises[e].Exercise == "Squat" {
				volumeSquat = &prog.Days[d].Exercises[e]
			}
		}
	}
	if volumeSquat == nil {
		t.Fatal("no volume day squat")
	}
	if volumeSquat.StartingWeight != 300 {
		t.Errorf("volume squat starting weight = %v, want 300 (raw 5RM)", volumeSquat.StartingWeight)
	}
}

// TestGenerateProgramMissingMax verifies a template exercise without a
// declared max rejects the whole program with no partial graph.
func TestGenerateProgramMissingMax(t *testing.T) {
	prog, err := GenerateProgram(ProgramInput{
		Name:      "SL",
		Template:  models.TemplateStrongLifts,
		Maxes:     map[string]float64{"Squat": 300},
		StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}, DefaultSettings())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if prog != nil {
		t.Fatal("partial program returned alongside error")
	}
}

// TestGenerateProgramBelowBarMinimum verifies a starting weight under the
// empty bar is rejected for whole-program templates.
func TestGenerateProgramBelowBarMinimum(t *testing.T) {
	_, err := GenerateProgram(ProgramInput{
		Name:     "SL",
		Template: models.TemplateStrongLifts,
		Maxes: map[string]float64{
			"Squat":          40,
			"Bench Press":    200,
			"Barbell Row":    180,
			"Overhead Press": 120,
			"Deadlift":       350,
		},
		StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}, DefaultSettings())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

// TestGenerateProgressionUniqueIDs verifies identifiers are assigned and
// unique across the generated tree.
func TestGenerateProgressionUniqueIDs(t *testing.T) {
	p, err := GenerateProgression(linearInput(), DefaultSettings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := map[uuid.UUID]bool{p.ID: true}
	for _, sess := range p.Sessions {
		if seen[sess.ID] {
			t.Fatalf("duplicate id %v", sess.ID)
		}
		seen[sess.ID] = true
		for _, set := range sess.Sets {
			if seen[set.ID] {
				t.Fatalf("duplicate id %v", set.ID)
			}
			seen[set.ID] = true
		}
	}
}
