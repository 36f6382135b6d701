// Package rater scores a class schedule from per-course review and grade data.
//
// Everything in this package is pure: no I/O, no shared state. Callers decode a
// ScheduleRaterJson document (or compose one from stored course records), parse it
// into a ParsedSchedule, and blend the three aggregate scores with a Weightage.
package rater

// Reserved top-level keys of a ScheduleRaterJson document. Every other key is a
// course name.
const (
	KeyHecticness   = "hecticness_final_score"
	KeyBoilerGrades = "boilergrades_final_score"
	KeyRMP          = "rmp_final_score"
	KeyFinal        = "final_score"
)

// Review is a single professor review attached to a course.
type Review struct {
	QualityRating  float64 `json:"qualityRating"`
	Difficulty     float64 `json:"difficulty"`
	WouldTakeAgain *bool   `json:"wouldTakeAgain,omitempty"`
}

// CourseRecord holds everything known about one course in a schedule.
type CourseRecord struct {
	Name          string   `json:"name"`
	AverageGPA    *float64 `json:"averageGpa"`
	UsedCourseAvg bool     `json:"usedCourseAvg"`
	Reviews       []Review `json:"professorReviews"`
	Summary       string   `json:"summary"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
}

// Scores are the three precomputed aggregate scores of a schedule, each in [0,1].
type Scores struct {
	RMP          float64 `json:"rmp"`
	BoilerGrades float64 `json:"boilerGrades"`
	Hecticness   float64 `json:"hecticness"`
}

// Dataset is a decoded schedule. Courses keep the order they had in the input
// document; ties in every reduction resolve to the earliest course.
type Dataset struct {
	Courses    []CourseRecord
	Scores     Scores
	FinalScore *float64
}

// CourseOverview is the per-course explanation block of a ParsedSchedule.
type CourseOverview struct {
	CourseName string   `json:"courseName"`
	Summary    string   `json:"summary,omitempty"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// ParsedSchedule is the read-only summary of a Dataset. Pointer fields are nil when
// no course qualified for the corresponding reduction.
type ParsedSchedule struct {
	FinalScore        float64 `json:"finalScore"`
	HecticnessScore   float64 `json:"hecticnessScore"`
	BoilerGradesScore float64 `json:"boilergradesScore"`
	RMPScore          float64 `json:"rmpScore"`

	LowestGPACourse       *string  `json:"lowestGpaCourse"`
	LowestGPA             *float64 `json:"lowestGpa"`
	LowestRMPCourse       *string  `json:"lowestRmpCourse"`
	LowestRMP             *float64 `json:"lowestRmp"`
	HardestCourse         *string  `json:"hardestCourse"`
	HighestDifficulty     *float64 `json:"highestDifficulty"`
	MostLovedCourse       *string  `json:"mostLovedCourse"`
	HighestWouldTakeAgain *float64 `json:"highestWouldTakeAgain"`
	MostReviewedCourse    *string  `json:"mostReviewedCourse"`
	MostReviews           *int     `json:"mostReviews"`

	AllCourses []CourseOverview `json:"allCourses"`
}
