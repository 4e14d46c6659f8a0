package engine

import "strings"

// AdjustmentMode controls whether an accepted recommendation is applied
// automatically after evaluation or only on explicit user confirmation.
type AdjustmentMode string

const (
	AdjustmentManual    AdjustmentMode = "manual"
	AdjustmentAutomatic AdjustmentMode = "automatic"
)

// Settings is the global adjustment-rule configuration snapshot consumed by
// every engine entry point. The engine never reads ambient state; callers
// load a snapshot and pass it in.
type Settings struct {
	AdjustmentMode      AdjustmentMode `json:"adjustment_mode"`
	ExcellentThreshold  float64        `json:"excellent_threshold"`
	GoodThreshold       float64        `json:"good_threshold"`
	AdjustmentThreshold float64        `json:"adjustment_threshold"`
	ReductionPercent    float64        `json:"reduction_percent"`
	DeloadPercent       float64        `json:"deload_percent"`
	LowerBodyIncrement  float64        `json:"lower_body_increment"`
	UpperBodyIncrement  float64        `json:"upper_body_increment"`
	UseMetric           bool           `json:"use_metric"`
	AutoDeloadEnabled   bool           `json:"auto_deload_enabled"`
	AutoDeloadFrequency int            `json:"auto_deload_frequency"`

	// Overrides maps exercise name to per-exercise settings. Absent fields
	// fall back to the global values.
	Overrides map[string]Override `json:"overrides,omitempty"`
}

// Override carries optional per-exercise replacements for the global
// adjustment rules. Nil means "use the global value".
type Override struct {
	ExcellentThreshold  *float64 `json:"excellent_threshold,omitempty"`
	GoodThreshold       *float64 `json:"good_threshold,omitempty"`
	AdjustmentThreshold *float64 `json:"adjustment_threshold,omitempty"`
	ReductionPercent    *float64 `json:"reduction_percent,omitempty"`
	DeloadPercent       *float64 `json:"deload_percent,omitempty"`
	Increment           *float64 `json:"increment,omitempty"`
}

// ExerciseSettings is the fully resolved rule set for one exercise.
type ExerciseSettings struct {
	ExcellentThreshold  float64
	GoodThreshold       float64
	AdjustmentThreshold float64
	ReductionPercent    float64
	DeloadPercent       float64
	Increment           float64
	AutoDeloadEnabled   bool
	AutoDeloadFrequency int
}

// DefaultSettings returns the shipped global rule set.
func DefaultSettings() Settings {
	return Settings{
		AdjustmentMode:      AdjustmentManual,
		ExcellentThreshold:  90,
		GoodThreshold:       75,
		AdjustmentThreshold: 50,
		ReductionPercent:    5,
		DeloadPercent:       10,
		LowerBodyIncrement:  5,
		UpperBodyIncrement:  2.5,
		UseMetric:           false,
		AutoDeloadEnabled:   false,
		AutoDeloadFrequency: 4,
	}
}

// RoundingIncrement is the progression increment weights are rounded to
// when no per-exercise override applies: 5 base units, 2.5 under metric
// display.
func (s Settings) RoundingIncrement() float64 {
	if s.UseMetric {
		return 2.5
	}
	return 5
}

// ForExercise resolves the effective rule set for the named exercise:
// per-exercise override fields where present, global values otherwise.
func (s Settings) ForExercise(name string) ExerciseSettings {
	es := ExerciseSettings{
		ExcellentThreshold:  s.ExcellentThreshold,
		GoodThreshold:       s.GoodThreshold,
		AdjustmentThreshold: s.AdjustmentThreshold,
		ReductionPercent:    s.ReductionPercent,
		DeloadPercent:       s.DeloadPercent,
		Increment:           s.RoundingIncrement(),
		AutoDeloadEnabled:   s.AutoDeloadEnabled,
		AutoDeloadFrequency: s.AutoDeloadFrequency,
	}

	o, ok := s.Overrides[name]
	if !ok {
		return es
	}
	if o.ExcellentThreshold != nil {
		es.ExcellentThreshold = *o.ExcellentThreshold
	}
	if o.GoodThreshold != nil {
		es.GoodThreshold = *o.GoodThreshold
	}
	if o.AdjustmentThreshold != nil {
		es.AdjustmentThreshold = *o.AdjustmentThreshold
	}
	if o.ReductionPercent != nil {
		es.ReductionPercent = *o.ReductionPercent
	}
	if o.DeloadPercent != nil {
		es.DeloadPercent = *o.DeloadPercent
	}
	if o.Increment != nil {
		es.Increment = *o.Increment
	}
	return es
}

// BodyIncrement picks the lower- or upper-body weight increment based on
// the exercise name.
func (s Settings) BodyIncrement(exercise string) float64 {
	if IsLowerBody(exercise) {
		return s.LowerBodyIncrement
	}
	return s.UpperBodyIncrement
}

var lowerBodyExercises = map[string]bool{
	"squat":             true,
	"back squat":        true,
	"front squat":       true,
	"deadlift":          true,
	"sumo deadlift":     true,
	"romanian deadlift": true,
	"leg press":         true,
	"lunge":             true,
	"hip thrust":        true,
	"power clean":       true,
}

// IsLowerBody reports whether the exercise trains the lower body, which
// tolerates larger weekly jumps than upper-body lifts.
func IsLowerBody(exercise string) bool {
	return lowerBodyExercises[strings.ToLower(strings.TrimSpace(exercise))]
}
