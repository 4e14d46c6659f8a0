package engine

import "github.com/claude/liftplan/internal/models"

// TemplateExercise describes one exercise slot in a program template:
// which lift, what share of the user's tested max it starts at, and its
// set/rep scheme.
type TemplateExercise struct {
	Name         string  `json:"name"`
	PercentOfMax float64 `json:"percent_of_max"`
	Sets         int     `json:"sets"`
	Reps         int     `json:"reps"`
	LowerBody    bool    `json:"lower_body"`
}

// TemplateDay is one training day slot in a program template.
type TemplateDay struct {
	Name      string             `json:"name"`
	Exercises []TemplateExercise `json:"exercises"`
}

// TemplateSpec holds the structural parameters of a program template. The
// catalog below is the single source of truth for per-template behavior;
// call sites look structure up here instead of branching on the kind.
type TemplateSpec struct {
	Kind         models.TemplateKind `json:"kind"`
	Label        string              `json:"label"`
	DefaultWeeks int                 `json:"default_weeks"`
	Days         []TemplateDay       `json:"days"`
}

var templateCatalog = map[models.TemplateKind]TemplateSpec{
	models.TemplateStrongLifts: {
		Kind:         models.TemplateStrongLifts,
		Label:        "StrongLifts 5x5",
		DefaultWeeks: 12,
		Days: []TemplateDay{
			{
				Name: "Workout A",
				Exercises: []TemplateExercise{
					{Name: "Squat", PercentOfMax: 0.85, Sets: 5, Reps: 5, LowerBody: true},
					{Name: "Bench Press", PercentOfMax: 0.85, Sets: 5, Reps: 5},
					{Name: "Barbell Row", PercentOfMax: 0.85, Sets: 5, Reps: 5},
				},
			},
			{
				Name: "Workout B",
				Exercises: []TemplateExercise{
					{Name: "Squat", PercentOfMax: 0.85, Sets: 5, Reps: 5, LowerBody: true},
					{Name: "Overhead Press", PercentOfMax: 0.85, Sets: 5, Reps: 5},
					{Name: "Deadlift", PercentOfMax: 0.85, Sets: 1, Reps: 5, LowerBody: true},
				},
			},
		},
	},
	models.TemplateTexasMethod: {
		Kind:         models.TemplateTexasMethod,
		Label:        "Texas Method",
		DefaultWeeks: 12,
		Days: []TemplateDay{
			{
				Name: "Volume Day",
				Exercises: []TemplateExercise{
					// Texas Method works off the raw 5RM, not a percentage cut.
					{Name: "Squat", PercentOfMax: 1.0, Sets: 5, Reps: 5, LowerBody: true},
					{Name: "Bench Press", PercentOfMax: 1.0, Sets: 5, Reps: 5},
				},
			},
			{
				Name: "Recovery Day",
				Exercises: []TemplateExercise{
					{Name: "Squat", PercentOfMax: 0.80, Sets: 2, Reps: 5, LowerBody: true},
					{Name: "Overhead Press", PercentOfMax: 0.90, Sets: 3, Reps: 5},
				},
			},
			{
				Name: "Intensity Day",
				Exercises: []TemplateExercise{
					{Name: "Squat", PercentOfMax: 1.0, Sets: 1, Reps: 5, LowerBody: true},
					{Name: "Bench Press", PercentOfMax: 1.0, Sets: 1, Reps: 5},
					{Name: "Deadlift", PercentOfMax: 1.0, Sets: 1, Reps: 5, LowerBody: true},
				},
			},
		},
	},
	models.TemplateMadcow: {
		Kind:         models.TemplateMadcow,
		Label:        "Madcow 5x5",
		DefaultWeeks: 12,
		Days: []TemplateDay{
			{
				Name: "Heavy Day",
				Exercises: []TemplateExercise{
					{Name: "Squat", PercentOfMax: 0.85, Sets: 5, Reps: 5, LowerBody: true},
					{Name: "Bench Press", PercentOfMax: 0.85, Sets: 5, Reps: 5},
					{Name: "Barbell Row", PercentOfMax: 0.85, Sets: 5, Reps: 5},
				},
			},
			{
				Name: "Light Day",
				Exercises: []TemplateExercise{
					{Name: "Squat", PercentOfMax: 0.70, Sets: 4, Reps: 5, LowerBody: true},
					{Name: "Overhead Press", PercentOfMax: 0.85, Sets: 4, Reps: 5},
					{Name: "Deadlift", PercentOfMax: 0.85, Sets: 4, Reps: 5, LowerBody: true},
				},
			},
			{
				Name: "Medium Day",
				Exercises: []TemplateExercise{
					{Name: "Squat", PercentOfMax: 0.80, Sets: 4, Reps: 5, LowerBody: true},
					{Name: "Bench Press", PercentOfMax: 0.80, Sets: 4, Reps: 5},
					{Name: "Barbell Row", PercentOfMax: 0.80, Sets: 4, Reps: 5},
				},
			},
		},
	},
}

// TemplateFor looks up the structural spec for a program template kind.
func TemplateFor(kind models.TemplateKind) (TemplateSpec, bool) {
	spec, ok := templateCatalog[kind]
	return spec, ok
}

// ProgramTemplates lists all multi-exercise templates in a stable order.
func ProgramTemplates() []TemplateSpec {
	return []TemplateSpec{
		templateCatalog[models.TemplateStrongLifts],
		templateCatalog[models.TemplateTexasMethod],
		templateCatalog[models.TemplateMadcow],
	}
}
