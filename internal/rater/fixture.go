package rater

import (
	"context"
	"fmt"
	"strings"

	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
)

// FixtureSource serves course records from memory. It backs development setups
// without a database and the tests of everything that consumes course data.
type FixtureSource struct {
	courses map[string]CourseRecord
}

// NewFixtureSource indexes records by their normalized course name.
func NewFixtureSource(records ...CourseRecord) *FixtureSource {
	fs := &FixtureSource{courses: make(map[string]CourseRecord, len(records))}
	for _, r := range records {
		fs.courses[NormalizeCourseName(r.Name)] = r
	}
	return fs
}

// FetchCourse returns a copy of the named course or apperrors.ErrCourseNotFound.
func (fs *FixtureSource) FetchCourse(_ context.Context, name string) (*CourseRecord, error) {
	r, ok := fs.courses[NormalizeCourseName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrCourseNotFound, name)
	}
	return &r, nil
}

// NormalizeCourseName upper-cases a course name and collapses inner whitespace,
// so "cs  18000" and "CS 18000" refer to the same course.
func NormalizeCourseName(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}

func ptr[T any](v T) *T { return &v }

// DemoCourses is the development catalog used by the fixture source and the seed.
func DemoCourses() []CourseRecord {
	return []CourseRecord{
		{
			Name:       "CS 18000",
			AverageGPA: ptr(2.91),
			Reviews: []Review{
				{QualityRating: 4, Difficulty: 3, WouldTakeAgain: ptr(true)},
				{QualityRating: 5, Difficulty: 4, WouldTakeAgain: ptr(true)},
				{QualityRating: 3, Difficulty: 4, WouldTakeAgain: ptr(false)},
			},
			Summary:    "Fast-paced introduction to Java with weekly projects.",
			Strengths:  []string{"Clear lectures", "Helpful TAs"},
			Weaknesses: []string{"Heavy project load"},
		},
		{
			Name:       "MA 26100",
			AverageGPA: ptr(2.54),
			Reviews: []Review{
				{QualityRating: 2, Difficulty: 5, WouldTakeAgain: ptr(false)},
				{QualityRating: 3, Difficulty: 4},
			},
			Summary:    "Multivariate calculus with common exams.",
			Strengths:  []string{"Good practice exams"},
			Weaknesses: []string{"Exams are long", "Grading is strict"},
		},
		{
			Name:          "PHYS 17200",
			AverageGPA:    ptr(2.68),
			UsedCourseAvg: true,
			Reviews: []Review{
				{QualityRating: 3, Difficulty: 4, WouldTakeAgain: ptr(true)},
			},
			Summary:    "Calculus-based mechanics.",
			Strengths:  []string{"Engaging demos"},
			Weaknesses: []string{"Online homework is unforgiving"},
		},
		{
			Name:       "ENGL 10600",
			AverageGPA: ptr(3.42),
			Summary:    "First-year composition.",
			Strengths:  []string{"Small class size"},
			Weaknesses: []string{},
		},
	}
}
