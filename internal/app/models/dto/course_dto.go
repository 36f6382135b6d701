package dto

import "github.com/huddlesocial/huddle/internal/rater"

// ReviewRequest is one professor review in a course upsert.
type ReviewRequest struct {
	QualityRating  float64 `json:"qualityRating" binding:"required,gte=1,lte=5"`
	Difficulty     float64 `json:"difficulty" binding:"required,gte=1,lte=5"`
	WouldTakeAgain *bool   `json:"wouldTakeAgain"`
}

// UpsertCourseRequest is the body of PUT /courses/:name.
type UpsertCourseRequest struct {
	AverageGPA    *float64        `json:"averageGpa" binding:"omitempty,gte=0,lte=4"`
	UsedCourseAvg bool            `json:"usedCourseAvg"`
	Reviews       []ReviewRequest `json:"professorReviews" binding:"dive"`
	Summary       string          `json:"summary" binding:"max=2000"`
	Strengths     []string        `json:"strengths" binding:"dive,max=200"`
	Weaknesses    []string        `json:"weaknesses" binding:"dive,max=200"`
}

// ToRecord builds the stored record for the named course.
func (r *UpsertCourseRequest) ToRecord(name string) rater.CourseRecord {
	reviews := make([]rater.Review, 0, len(r.Reviews))
	for _, rv := range r.Reviews {
		reviews = append(reviews, rater.Review{
			QualityRating:  rv.QualityRating,
			Difficulty:     rv.Difficulty,
			WouldTakeAgain: rv.WouldTakeAgain,
		})
	}

	rec := rater.CourseRecord{
		Name:          name,
		AverageGPA:    r.AverageGPA,
		UsedCourseAvg: r.UsedCourseAvg,
		Reviews:       reviews,
		Summary:       r.Summary,
		Strengths:     r.Strengths,
		Weaknesses:    r.Weaknesses,
	}
	if rec.Strengths == nil {
		rec.Strengths = []string{}
	}
	if rec.Weaknesses == nil {
		rec.Weaknesses = []string{}
	}
	return rec
}

// CourseListResponse is one page of the course catalog.
type CourseListResponse struct {
	Courses    []rater.CourseRecord `json:"courses"`
	Pagination PaginationInfo       `json:"pagination"`
}
