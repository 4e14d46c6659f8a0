package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a progression or program.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// CanTransitionTo reports whether the status change is a valid lifecycle move.
// Completed is terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusActive:
		return next == StatusPaused || next == StatusCompleted
	case StatusPaused:
		return next == StatusActive
	default:
		return false
	}
}

// ProgressionStyle selects the week-weight curve used at generation time.
type ProgressionStyle string

const (
	StyleLinear        ProgressionStyle = "linear"
	StylePercentage    ProgressionStyle = "percentage"
	StyleRPE           ProgressionStyle = "rpe"
	StylePeriodization ProgressionStyle = "periodization"
)

// Valid reports whether the style is one of the supported curves.
func (s ProgressionStyle) Valid() bool {
	switch s {
	case StyleLinear, StylePercentage, StyleRPE, StylePeriodization:
		return true
	}
	return false
}

// TemplateKind identifies the structural template a track was built from.
type TemplateKind string

const (
	TemplateCustom      TemplateKind = "custom"
	TemplateStrongLifts TemplateKind = "stronglifts"
	TemplateTexasMethod TemplateKind = "texas_method"
	TemplateMadcow      TemplateKind = "madcow"
)

// Valid reports whether the kind is one of the known templates.
func (k TemplateKind) Valid() bool {
	switch k {
	case TemplateCustom, TemplateStrongLifts, TemplateTexasMethod, TemplateMadcow:
		return true
	}
	return false
}

// Progression is a single-exercise scheduled track with weekly target
// weights. It owns its sessions; deleting a progression deletes every
// session and set beneath it.
type Progression struct {
	ID              uuid.UUID        `json:"id"`
	UserID          int              `json:"-"`
	Exercise        string           `json:"exercise"`
	Template        TemplateKind     `json:"template"`
	Style           ProgressionStyle `json:"style"`
	Status          Status           `json:"status"`
	CurrentMax      float64          `json:"current_max"`
	TargetMax       float64          `json:"target_max"`
	StartingWeight  float64          `json:"starting_weight"`
	TotalWeeks      int              `json:"total_weeks"`
	CurrentWeek     int              `json:"current_week"`
	SessionsPerWeek int              `json:"sessions_per_week"`
	StartDate       time.Time        `json:"start_date"`
	Notes           string           `json:"notes,omitempty"`

	Sessions []WorkoutSession `json:"sessions,omitempty"`
}

// SessionByID returns a pointer into the Sessions slice, or nil.
func (p *Progression) SessionByID(id uuid.UUID) *WorkoutSession {
	for i := range p.Sessions {
		if p.Sessions[i].ID == id {
			return &p.Sessions[i]
		}
	}
	return nil
}

// WorkoutSession is one scheduled occurrence of the progression's exercise.
// ProgressionID is a non-owning back-reference.
type WorkoutSession struct {
	ID            uuid.UUID  `json:"id"`
	ProgressionID uuid.UUID  `json:"progression_id"`
	Date          time.Time  `json:"date"`
	Week          int        `json:"week"`
	Day           int        `json:"day"`
	PlannedWeight float64    `json:"planned_weight"`
	PlannedSets   int        `json:"planned_sets"`
	PlannedReps   int        `json:"planned_reps"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	Paused        bool       `json:"paused"`
	Notes         string     `json:"notes,omitempty"`

	Sets []WorkoutSet `json:"sets,omitempty"`
}

// TotalPlannedReps is plannedSets × plannedReps.
func (s *WorkoutSession) TotalPlannedReps() int {
	return s.PlannedSets * s.PlannedReps
}

// PerformancePercentage is the logged share of planned reps, 0–100+.
// Returns 0 when nothing was planned.
func (s *WorkoutSession) PerformancePercentage() float64 {
	return performancePercentage(s.TotalPlannedReps(), s.Sets)
}

// WorkoutSet is one planned/performed unit of reps at a target weight.
// Exactly one of SessionID/ExerciseSessionID is set, depending on which
// kind of session owns it.
type WorkoutSet struct {
	ID                uuid.UUID `json:"id"`
	SessionID         uuid.UUID `json:"session_id,omitempty"`
	ExerciseSessionID uuid.UUID `json:"exercise_session_id,omitempty"`
	Number            int       `json:"number"`
	TargetReps        int       `json:"target_reps"`
	TargetWeight      float64   `json:"target_weight"`
	ActualReps        *int      `json:"actual_reps,omitempty"`
	ActualWeight      *float64  `json:"actual_weight,omitempty"`
	RPE               *int      `json:"rpe,omitempty"`
	Completed         bool      `json:"completed"`
	Notes             string    `json:"notes,omitempty"`
}

// WasSuccessful reports whether the set hit its rep target.
func (s *WorkoutSet) WasSuccessful() bool {
	return s.ActualReps != nil && *s.ActualReps >= s.TargetReps
}

func performancePercentage(totalPlanned int, sets []WorkoutSet) float64 {
	if totalPlanned == 0 {
		return 0
	}
	actual := 0
	for i := range sets {
		if sets[i].ActualReps != nil {
			actual += *sets[i].ActualReps
		}
	}
	return 100 * float64(actual) / float64(totalPlanned)
}
