package rater

import (
	"errors"
	"fmt"
)

// WeightTotal is the exact sum a Weightage must reach before a score is computed.
const WeightTotal = 100

// displayScale maps the [0,1] composite onto the 0-10 range shown to users.
const displayScale = 10

// ErrInvalidWeightage is returned by Weightage.Validate.
var ErrInvalidWeightage = errors.New("invalid weightage")

// Weightage is a user-chosen relative weighting of the three aggregate scores.
type Weightage struct {
	RMP          int `json:"rmp" form:"rmp" yaml:"rmp"`
	BoilerGrades int `json:"boilerGrades" form:"boilerGrades" yaml:"boilerGrades"`
	Hecticness   int `json:"hecticness" form:"hecticness" yaml:"hecticness"`
}

// DefaultWeightage splits the weight as evenly as integers allow.
func DefaultWeightage() Weightage {
	return Weightage{RMP: 33, BoilerGrades: 33, Hecticness: 34}
}

// Sum returns the total weight.
func (w Weightage) Sum() int {
	return w.RMP + w.BoilerGrades + w.Hecticness
}

// ValidateWeightage reports whether the weights sum to exactly WeightTotal.
// The check is strict equality: a sum of 99 is rejected.
func ValidateWeightage(w Weightage) bool {
	return w.Sum() == WeightTotal
}

// Validate combines the non-negativity invariant with ValidateWeightage and
// explains the failure.
func (w Weightage) Validate() error {
	if w.RMP < 0 || w.BoilerGrades < 0 || w.Hecticness < 0 {
		return fmt.Errorf("%w: weights must not be negative", ErrInvalidWeightage)
	}
	if !ValidateWeightage(w) {
		return fmt.Errorf("%w: weights sum to %d, must sum to %d", ErrInvalidWeightage, w.Sum(), WeightTotal)
	}
	return nil
}

// CalculateFinalScore blends the parsed aggregate scores with w and scales the
// result to the display range. A zero total weight yields 0.
func CalculateFinalScore(w Weightage, ps *ParsedSchedule) float64 {
	total := float64(w.Sum())
	if total == 0 || ps == nil {
		return 0
	}

	composite := (ps.RMPScore*float64(w.RMP) +
		ps.BoilerGradesScore*float64(w.BoilerGrades) +
		ps.HecticnessScore*float64(w.Hecticness)) / total

	return composite * displayScale
}

// Score parses ds and replaces its final score with the weighted composite.
func Score(w Weightage, ds *Dataset) *ParsedSchedule {
	ps := Parse(ds)
	ps.FinalScore = CalculateFinalScore(w, ps)
	return ps
}

// Compose builds a Dataset from stored course records and externally computed
// aggregate scores. Records are used in the given order.
func Compose(records []CourseRecord, scores Scores) *Dataset {
	courses := make([]CourseRecord, len(records))
	copy(courses, records)
	return &Dataset{Courses: courses, Scores: scores}
}
