package engine

import (
	"math"
	"time"

	"github.com/claude/liftplan/internal/models"
	"github.com/google/uuid"
)

// ProgressionInput is everything needed to expand a single-exercise track
// into its full session/set schedule.
type ProgressionInput struct {
	Exercise        string
	Template        models.TemplateKind
	Style           models.ProgressionStyle
	CurrentMax      float64
	TargetMax       float64
	TotalWeeks      int
	SessionsPerWeek int
	Sets            int
	Reps            int
	StartDate       time.Time
	Notes           string
}

// ProgramInput is everything needed to expand a program template. Maxes
// carries the user's tested max per template exercise name.
type ProgramInput struct {
	Name       string
	Template   models.TemplateKind
	Style      models.ProgressionStyle
	TotalWeeks int
	Maxes      map[string]float64
	StartDate  time.Time
	Notes      string
}

// startingPercent is the default share of the tested max a progression
// starts at, leaving room for the curve to climb.
const startingPercent = 0.85

// GenerateProgression expands the input into a fully populated progression
// tree: totalWeeks × sessionsPerWeek sessions, each with its planned sets.
// On validation failure no partial tree is created.
func GenerateProgression(in ProgressionInput, s Settings) (*models.Progression, error) {
	if err := validateProgressionInput(in); err != nil {
		return nil, err
	}

	inc := s.ForExercise(in.Exercise).Increment
	startingWeight := RoundToIncrement(in.CurrentMax*startingPercent, inc)
	weeklyIncrease := RoundToIncrement((in.TargetMax-in.CurrentMax)/float64(in.TotalWeeks), inc)

	p := &models.Progression{
		ID:              uuid.New(),
		Exercise:        in.Exercise,
		Template:        in.Template,
		Style:           in.Style,
		Status:          models.StatusActive,
		CurrentMax:      in.CurrentMax,
		TargetMax:       in.TargetMax,
		StartingWeight:  startingWeight,
		TotalWeeks:      in.TotalWeeks,
		CurrentWeek:     1,
		SessionsPerWeek: in.SessionsPerWeek,
		StartDate:       in.StartDate,
		Notes:           in.Notes,
	}

	daysBetween := sessionSpacing(in.SessionsPerWeek)
	for w := 1; w <= in.TotalWeeks; w++ {
		weight := RoundToIncrement(weekWeight(in.Style, startingWeight, weeklyIncrease, w), inc)
		for d := 1; d <= in.SessionsPerWeek; d++ {
			sess := models.WorkoutSession{
				ID:            uuid.New(),
				ProgressionID: p.ID,
				Date:          in.StartDate.AddDate(0, 0, 7*(w-1)+daysBetween*(d-1)),
				Week:          w,
				Day:           d,
				PlannedWeight: weight,
				PlannedSets:   in.Sets,
				PlannedReps:   in.Reps,
			}
			sess.Sets = buildSets(sess.ID, uuid.Nil, in.Sets, in.Reps, weight)
			p.Sessions = append(p.Sessions, sess)
		}
	}

	return p, nil
}

// GenerateProgram expands a program template: each template exercise gets
// its own weight curve, and every exercise scheduled on the same calendar
// slot shares one program-global session number.
func GenerateProgram(in ProgramInput, s Settings) (*models.Program, error) {
	spec, ok := TemplateFor(in.Template)
	if !ok {
		return nil, validationErr("template", "unknown program template %q", in.Template)
	}

	style := in.Style
	if style == "" {
		style = models.StyleLinear
	}
	if !style.Valid() {
		return nil, validationErr("style", "unknown progression style %q", style)
	}

	weeks := in.TotalWeeks
	if weeks == 0 {
		weeks = spec.DefaultWeeks
	}
	if weeks < 1 {
		return nil, validationErr("total_weeks", "must be positive, got %d", weeks)
	}

	// Validate every exercise before creating anything: a rejected input
	// must not leave a partial graph behind.
	starting := map[string]float64{}
	for _, day := range spec.Days {
		for _, ex := range day.Exercises {
			max, ok := in.Maxes[ex.Name]
			if !ok {
				return nil, validationErr("maxes", "missing max for %q", ex.Name)
			}
			if math.IsNaN(max) || math.IsInf(max, 0) || max <= 0 {
				return nil, validationErr("maxes", "max for %q must be a finite positive number", ex.Name)
			}
			inc := s.ForExercise(ex.Name).Increment
			w := RoundToIncrement(max*ex.PercentOfMax, inc)
			if w < BarWeight {
				return nil, validationErr("maxes", "starting weight %.1f for %q is below the empty bar (%.0f)", w, ex.Name, BarWeight)
			}
			starting[day.Name+"/"+ex.Name] = w
		}
	}

	prog := &models.Program{
		ID:          uuid.New(),
		Name:        in.Name,
		Template:    in.Template,
		Status:      models.StatusActive,
		TotalWeeks:  weeks,
		CurrentWeek: 1,
		StartDate:   in.StartDate,
		Notes:       in.Notes,
	}

	daysBetween := sessionSpacing(len(spec.Days))
	for di, tday := range spec.Days {
		day := models.TrainingDay{
			ID:        uuid.New(),
			ProgramID: prog.ID,
			Name:      tday.Name,
			DayOfWeek: di + 1,
		}

		for ei, tex := range tday.Exercises {
			incSet := s.ForExercise(tex.Name)
			weekly := s.BodyIncrement(tex.Name)
			start := starting[tday.Name+"/"+tex.Name]

			pe := models.ProgramExercise{
				ID:             uuid.New(),
				TrainingDayID:  day.ID,
				Exercise:       tex.Name,
				OrderIndex:     ei + 1,
				StartingWeight: start,
				CurrentWeight:  start,
				TargetSets:     tex.Sets,
				TargetReps:     tex.Reps,
				Increment:      weekly,
			}
			day.Exercises = append(day.Exercises, pe)

			for w := 1; w <= weeks; w++ {
				weight := RoundToIncrement(weekWeight(style, start, weekly, w), incSet.Increment)
				sess := models.ExerciseSession{
					ID:                uuid.New(),
					ProgramExerciseID: pe.ID,
					TrainingDayID:     day.ID,
					Date:              in.StartDate.AddDate(0, 0, 7*(w-1)+daysBetween*di),
					Week:              w,
					SessionNumber:     (w-1)*len(spec.Days) + di + 1,
					PlannedWeight:     weight,
					PlannedSets:       tex.Sets,
					PlannedReps:       tex.Reps,
				}
				sess.Sets = buildSets(uuid.Nil, sess.ID, tex.Sets, tex.Reps, weight)
				day.Sessions = append(day.Sessions, sess)
			}
		}

		prog.Days = append(prog.Days, day)
	}

	return prog, nil
}

func validateProgressionInput(in ProgressionInput) error {
	if in.Exercise == "" {
		return validationErr("exercise", "must not be empty")
	}
	if !in.Template.Valid() {
		return validationErr("template", "unknown template %q", in.Template)
	}
	if !in.Style.Valid() {
		return validationErr("style", "unknown progression style %q", in.Style)
	}
	if math.IsNaN(in.CurrentMax) || math.IsInf(in.CurrentMax, 0) || in.CurrentMax <= 0 {
		return validationErr("current_max", "must be a finite positive number")
	}
	if math.IsNaN(in.TargetMax) || math.IsInf(in.TargetMax, 0) {
		return validationErr("target_max", "must be a finite number")
	}
	if in.TargetMax <= in.CurrentMax {
		return validationErr("target_max", "must exceed current max (%.1f <= %.1f)", in.TargetMax, in.CurrentMax)
	}
	if in.TotalWeeks < 1 {
		return validationErr("total_weeks", "must be positive, got %d", in.TotalWeeks)
	}
	if in.SessionsPerWeek < 1 {
		return validationErr("sessions_per_week", "must be positive, got %d", in.SessionsPerWeek)
	}
	if in.Sets < 1 {
		return validationErr("sets", "must be positive, got %d", in.Sets)
	}
	if in.Reps < 1 {
		return validationErr("reps", "must be positive, got %d", in.Reps)
	}
	return nil
}

// sessionSpacing spreads n weekly occurrences across a 7-day window.
func sessionSpacing(n int) int {
	if n > 1 {
		return 7 / n
	}
	return 7
}

// weekWeight computes the unrounded target weight for week w (1-based)
// under the given style. linear, percentage and rpe share the same curve
// at generation time; rpe only changes post-hoc evaluation.
func weekWeight(style models.ProgressionStyle, starting, weekly float64, w int) float64 {
	switch style {
	case models.StylePeriodization:
		// 3-week waves: light, medium, heavy, each wave starting from a
		// higher base.
		cycleIndex := (w - 1) / 3
		cycleWeek := (w - 1) % 3
		cycleBase := starting + weekly*3*float64(cycleIndex)
		switch cycleWeek {
		case 0:
			return cycleBase * 0.90
		case 1:
			return cycleBase * 0.95
		default:
			return cycleBase
		}
	default:
		return starting + weekly*float64(w-1)
	}
}

func buildSets(sessionID, exerciseSessionID uuid.UUID, sets, reps int, weight float64) []models.WorkoutSet {
	out := make([]models.WorkoutSet, 0, sets)
	for n := 1; n <= sets; n++ {
		out = append(out, models.WorkoutSet{
			ID:                uuid.New(),
			SessionID:         sessionID,
			ExerciseSessionID: exerciseSessionID,
			Number:            n,
			TargetReps:        reps,
			TargetWeight:      weight,
		})
	}
	return out
}
