package models

import (
	"time"

	"github.com/google/uuid"
)

// Program is a multi-exercise scheduled track composed of training days,
// each carrying several exercises progressing in parallel. The whole
// day/exercise/session/set subtree is owned by the program.
type Program struct {
	ID          uuid.UUID    `json:"id"`
	UserID      int          `json:"-"`
	Name        string       `json:"name"`
	Template    TemplateKind `json:"template"`
	Status      Status       `json:"status"`
	TotalWeeks  int          `json:"total_weeks"`
	CurrentWeek int          `json:"current_week"`
	StartDate   time.Time    `json:"start_date"`
	Notes       string       `json:"notes,omitempty"`

	Days []TrainingDay `json:"days,omitempty"`
}

// ExerciseSessionByID searches every training day for the session.
func (p *Program) ExerciseSessionByID(id uuid.UUID) *ExerciseSession {
	for d := range p.Days {
		for s := range p.Days[d].Sessions {
			if p.Days[d].Sessions[s].ID == id {
				return &p.Days[d].Sessions[s]
			}
		}
	}
	return nil
}

// ExerciseByID searches every training day for the exercise definition.
func (p *Program) ExerciseByID(id uuid.UUID) *ProgramExercise {
	for d := range p.Days {
		for e := range p.Days[d].Exercises {
			if p.Days[d].Exercises[e].ID == id {
				return &p.Days[d].Exercises[e]
			}
		}
	}
	return nil
}

// TrainingDay groups the exercises performed together on one weekday slot.
type TrainingDay struct {
	ID        uuid.UUID `json:"id"`
	ProgramID uuid.UUID `json:"program_id"`
	Name      string    `json:"name"`
	DayOfWeek int       `json:"day_of_week"`

	Exercises []ProgramExercise `json:"exercises,omitempty"`
	Sessions  []ExerciseSession `json:"sessions,omitempty"`
}

// ProgramExercise is one exercise definition within a training day. It
// generates one ExerciseSession per scheduled occurrence over the life of
// the program. CurrentWeight auto-progresses as sessions complete.
type ProgramExercise struct {
	ID             uuid.UUID `json:"id"`
	TrainingDayID  uuid.UUID `json:"training_day_id"`
	Exercise       string    `json:"exercise"`
	OrderIndex     int       `json:"order_index"`
	StartingWeight float64   `json:"starting_weight"`
	CurrentWeight  float64   `json:"current_weight"`
	TargetSets     int       `json:"target_sets"`
	TargetReps     int       `json:"target_reps"`
	Increment      float64   `json:"increment"`
	Notes          string    `json:"notes,omitempty"`
}

// ExerciseSession is one scheduled occurrence of a program exercise.
// SessionNumber is program-global and monotonic: every exercise scheduled
// on the same calendar slot shares it, which makes it the grouping key for
// "was this whole workout instance completed".
type ExerciseSession struct {
	ID                uuid.UUID  `json:"id"`
	ProgramExerciseID uuid.UUID  `json:"program_exercise_id"`
	TrainingDayID     uuid.UUID  `json:"training_day_id"`
	Date              time.Time  `json:"date"`
	Week              int        `json:"week"`
	SessionNumber     int        `json:"session_number"`
	PlannedWeight     float64    `json:"planned_weight"`
	PlannedSets       int        `json:"planned_sets"`
	PlannedReps       int        `json:"planned_reps"`
	Completed         bool       `json:"completed"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	Notes             string     `json:"notes,omitempty"`

	Sets []WorkoutSet `json:"sets,omitempty"`
}

// TotalPlannedReps is plannedSets × plannedReps.
func (s *ExerciseSession) TotalPlannedReps() int {
	return s.PlannedSets * s.PlannedReps
}

// PerformancePercentage is the logged share of planned reps, 0 when
// nothing was planned.
func (s *ExerciseSession) PerformancePercentage() float64 {
	return performancePercentage(s.TotalPlannedReps(), s.Sets)
}
