package rater

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
)

const sampleSchedule = `{
	"hecticness_final_score": 0.456,
	"CS 18000": {
		"boilergrades_data": {"average_gpa": 3.5, "used_course_avg": false},
		"rmp_comments": [
			{"qualityRating": 4, "difficulty": 2, "wouldTakeAgain": 1},
			{"qualityRating": 2, "difficulty": 4, "wouldTakeAgain": 0}
		],
		"comments_summary": {"summary": "Projects every week", "strengths": ["TAs"], "weaknesses": ["Workload"]}
	},
	"MA 26100": {
		"boilergrades_data": {"average_gpa": 2.0, "used_course_avg": true},
		"rmp_comments": [
			{"qualityRating": 1, "difficulty": 5, "wouldTakeAgain": null},
			{"qualityRating": 2, "difficulty": 5, "wouldTakeAgain": 0},
			{"qualityRating": 3, "difficulty": 4, "wouldTakeAgain": 1}
		]
	},
	"ENGL 10600": {
		"comments_summary": {"summary": "Essays", "strengths": [], "weaknesses": []}
	},
	"boilergrades_final_score": 0.7777,
	"rmp_final_score": 0.6123,
	"final_score": 6.129
}`

func mustDecode(t *testing.T, doc string) *Dataset {
	t.Helper()
	ds, err := Decode([]byte(doc))
	require.NoError(t, err)
	return ds
}

func TestDecode_PreservesOrderAndPartitionsReservedKeys(t *testing.T) {
	ds := mustDecode(t, sampleSchedule)

	require.Len(t, ds.Courses, 3)
	assert.Equal(t, "CS 18000", ds.Courses[0].Name)
	assert.Equal(t, "MA 26100", ds.Courses[1].Name)
	assert.Equal(t, "ENGL 10600", ds.Courses[2].Name)

	assert.InDelta(t, 0.456, ds.Scores.Hecticness, 1e-9)
	assert.InDelta(t, 0.7777, ds.Scores.BoilerGrades, 1e-9)
	assert.InDelta(t, 0.6123, ds.Scores.RMP, 1e-9)
	require.NotNil(t, ds.FinalScore)
	assert.InDelta(t, 6.129, *ds.FinalScore, 1e-9)

	cs := ds.Courses[0]
	require.NotNil(t, cs.AverageGPA)
	assert.Equal(t, 3.5, *cs.AverageGPA)
	require.Len(t, cs.Reviews, 2)
	require.NotNil(t, cs.Reviews[0].WouldTakeAgain)
	assert.True(t, *cs.Reviews[0].WouldTakeAgain)
	assert.False(t, *cs.Reviews[1].WouldTakeAgain)
	assert.Nil(t, ds.Courses[1].Reviews[0].WouldTakeAgain)
	assert.Equal(t, []string{"TAs"}, cs.Strengths)
}

func TestDecode_RejectsNonObject(t *testing.T) {
	for _, doc := range []string{`[]`, `42`, `"x"`, ``} {
		_, err := Decode([]byte(doc))
		assert.True(t, errors.Is(err, ErrNotObject), "doc %q", doc)
	}
}

func TestDecode_MalformedFieldsDegrade(t *testing.T) {
	ds := mustDecode(t, `{
		"rmp_final_score": "high",
		"A": 17,
		"B": {"boilergrades_data": "n/a", "rmp_comments": [{"qualityRating": "five"}, {"qualityRating": 3, "difficulty": 2}]},
		"C": {"rmp_comments": {"not": "a list"}, "comments_summary": 3}
	}`)

	require.Len(t, ds.Courses, 3)
	assert.Zero(t, ds.Scores.RMP)
	assert.Nil(t, ds.Courses[0].AverageGPA)
	assert.Empty(t, ds.Courses[0].Reviews)
	assert.Nil(t, ds.Courses[1].AverageGPA)
	require.Len(t, ds.Courses[1].Reviews, 1)
	assert.Equal(t, 3.0, ds.Courses[1].Reviews[0].QualityRating)
	assert.Empty(t, ds.Courses[2].Reviews)
	assert.Equal(t, []string{}, ds.Courses[2].Strengths)
}

func TestDecode_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	ds := mustDecode(t, `{"A": {}, "B": {}, "A": {"boilergrades_data": {"average_gpa": 1.5}}}`)

	require.Len(t, ds.Courses, 2)
	assert.Equal(t, "A", ds.Courses[0].Name)
	require.NotNil(t, ds.Courses[0].AverageGPA)
	assert.Equal(t, 1.5, *ds.Courses[0].AverageGPA)
}

func TestParse_Extremes(t *testing.T) {
	ps := Parse(mustDecode(t, sampleSchedule))

	assert.Equal(t, 0.46, ps.HecticnessScore)
	assert.Equal(t, 0.78, ps.BoilerGradesScore)
	assert.Equal(t, 0.61, ps.RMPScore)
	assert.Equal(t, 6.13, ps.FinalScore)

	require.NotNil(t, ps.LowestGPACourse)
	assert.Equal(t, "MA 26100", *ps.LowestGPACourse)
	assert.Equal(t, 2.0, *ps.LowestGPA)

	require.NotNil(t, ps.LowestRMPCourse)
	assert.Equal(t, "MA 26100", *ps.LowestRMPCourse)
	assert.Equal(t, 2.0, *ps.LowestRMP)

	require.NotNil(t, ps.HardestCourse)
	assert.Equal(t, "MA 26100", *ps.HardestCourse)
	assert.Equal(t, 4.67, *ps.HighestDifficulty)

	require.NotNil(t, ps.MostLovedCourse)
	assert.Equal(t, "CS 18000", *ps.MostLovedCourse)
	assert.Equal(t, 50.0, *ps.HighestWouldTakeAgain)

	require.NotNil(t, ps.MostReviewedCourse)
	assert.Equal(t, "MA 26100", *ps.MostReviewedCourse)
	assert.Equal(t, 3, *ps.MostReviews)

	require.Len(t, ps.AllCourses, 3)
	assert.Equal(t, "ENGL 10600", ps.AllCourses[2].CourseName)
	assert.Equal(t, []string{}, ps.AllCourses[2].Strengths)
}

func TestParse_ReviewMeans(t *testing.T) {
	ds := mustDecode(t, `{"X": {"rmp_comments": [
		{"qualityRating": 4, "difficulty": 2, "wouldTakeAgain": 1},
		{"qualityRating": 2, "difficulty": 4, "wouldTakeAgain": 0}
	]}}`)

	ps := Parse(ds)
	assert.Equal(t, 3.0, *ps.LowestRMP)
	assert.Equal(t, 3.0, *ps.HighestDifficulty)
	assert.Equal(t, 50.0, *ps.HighestWouldTakeAgain)
	assert.Equal(t, 2, *ps.MostReviews)
}

func TestParse_LowestGPAOnlyAmongCoursesWithGPA(t *testing.T) {
	ps := Parse(mustDecode(t, `{
		"A": {"boilergrades_data": {"average_gpa": 2.0}},
		"N": {"boilergrades_data": {"average_gpa": null}},
		"B": {"boilergrades_data": {"average_gpa": 3.5}},
		"C": {}
	}`))

	require.NotNil(t, ps.LowestGPACourse)
	assert.Equal(t, "A", *ps.LowestGPACourse)
	assert.Equal(t, 2.0, *ps.LowestGPA)
}

func TestParse_TiesGoToFirstCourse(t *testing.T) {
	ps := Parse(mustDecode(t, `{
		"First":  {"boilergrades_data": {"average_gpa": 3.0}, "rmp_comments": [{"qualityRating": 3, "difficulty": 3, "wouldTakeAgain": 1}]},
		"Second": {"boilergrades_data": {"average_gpa": 3.0}, "rmp_comments": [{"qualityRating": 3, "difficulty": 3, "wouldTakeAgain": 1}]}
	}`))

	for _, name := range []*string{ps.LowestGPACourse, ps.LowestRMPCourse, ps.HardestCourse, ps.MostLovedCourse, ps.MostReviewedCourse} {
		require.NotNil(t, name)
		assert.Equal(t, "First", *name)
	}
}

func TestParse_CoursesWithoutReviewsAreExcluded(t *testing.T) {
	ps := Parse(mustDecode(t, `{"Lonely": {"rmp_comments": [], "boilergrades_data": {"average_gpa": 3.1}}}`))

	assert.Nil(t, ps.LowestRMPCourse)
	assert.Nil(t, ps.LowestRMP)
	assert.Nil(t, ps.HardestCourse)
	assert.Nil(t, ps.HighestDifficulty)
	assert.Nil(t, ps.MostLovedCourse)
	assert.Nil(t, ps.HighestWouldTakeAgain)
	assert.Nil(t, ps.MostReviewedCourse)
	assert.Nil(t, ps.MostReviews)
	require.NotNil(t, ps.LowestGPACourse)

	ps = Parse(mustDecode(t, `{
		"Empty": {"rmp_comments": []},
		"Reviewed": {"rmp_comments": [{"qualityRating": 5, "difficulty": 1, "wouldTakeAgain": 0}]}
	}`))
	for _, name := range []*string{ps.LowestRMPCourse, ps.HardestCourse, ps.MostLovedCourse, ps.MostReviewedCourse} {
		require.NotNil(t, name)
		assert.Equal(t, "Reviewed", *name)
	}
	assert.Equal(t, 0.0, *ps.HighestWouldTakeAgain)
}

func TestParse_EmptyDataset(t *testing.T) {
	ps := Parse(mustDecode(t, `{}`))
	assert.Nil(t, ps.LowestGPACourse)
	assert.Nil(t, ps.MostReviews)
	assert.Equal(t, []CourseOverview{}, ps.AllCourses)
	assert.Zero(t, ps.FinalScore)

	assert.NotNil(t, Parse(nil))
}

func TestParse_ClampsAggregatesToUnitRange(t *testing.T) {
	ps := Parse(mustDecode(t, `{"rmp_final_score": 1.7, "hecticness_final_score": -0.2}`))
	assert.Equal(t, 1.0, ps.RMPScore)
	assert.Equal(t, 0.0, ps.HecticnessScore)
}

func TestParse_IsIdempotent(t *testing.T) {
	ds := mustDecode(t, sampleSchedule)
	assert.Equal(t, Parse(ds), Parse(ds))

	again := mustDecode(t, sampleSchedule)
	assert.Equal(t, Parse(ds), Parse(again))
}

func TestCalculateFinalScore(t *testing.T) {
	ps := &ParsedSchedule{RMPScore: 0.61, BoilerGradesScore: 0.78, HecticnessScore: 0.46}

	tests := []struct {
		name string
		w    Weightage
	}{
		{"even", DefaultWeightage()},
		{"rmp only", Weightage{RMP: 100}},
		{"unbalanced", Weightage{RMP: 10, BoilerGrades: 70, Hecticness: 20}},
		{"not summing to 100", Weightage{RMP: 1, BoilerGrades: 2, Hecticness: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := tt.w
			want := (0.61*float64(w.RMP) + 0.78*float64(w.BoilerGrades) + 0.46*float64(w.Hecticness)) /
				float64(w.RMP+w.BoilerGrades+w.Hecticness) * 10
			assert.InDelta(t, want, CalculateFinalScore(w, ps), 1e-9)
		})
	}
}

func TestCalculateFinalScore_ZeroWeights(t *testing.T) {
	ps := &ParsedSchedule{RMPScore: 1, BoilerGradesScore: 1, HecticnessScore: 1}
	score := CalculateFinalScore(Weightage{}, ps)
	assert.Equal(t, 0.0, score)
	assert.False(t, math.IsNaN(score))
}

func TestValidateWeightage(t *testing.T) {
	assert.True(t, ValidateWeightage(Weightage{RMP: 33, BoilerGrades: 33, Hecticness: 34}))
	assert.False(t, ValidateWeightage(Weightage{RMP: 50, BoilerGrades: 50, Hecticness: 1}))
	assert.False(t, ValidateWeightage(Weightage{RMP: 33, BoilerGrades: 33, Hecticness: 33}))
	assert.True(t, ValidateWeightage(DefaultWeightage()))
}

func TestWeightage_Validate(t *testing.T) {
	assert.NoError(t, DefaultWeightage().Validate())

	err := Weightage{RMP: 150, BoilerGrades: -50}.Validate()
	assert.ErrorIs(t, err, ErrInvalidWeightage)

	err = Weightage{RMP: 40, BoilerGrades: 40, Hecticness: 10}.Validate()
	assert.ErrorIs(t, err, ErrInvalidWeightage)
	assert.Contains(t, err.Error(), "sum to 90")
}

func TestScore_ReplacesFinalScore(t *testing.T) {
	ds := mustDecode(t, sampleSchedule)
	ps := Score(Weightage{RMP: 100}, ds)
	assert.InDelta(t, 6.1, ps.FinalScore, 1e-9)
}

func TestCompose_UsesRecordOrder(t *testing.T) {
	records := DemoCourses()
	ds := Compose(records, Scores{RMP: 0.5, BoilerGrades: 0.5, Hecticness: 0.5})

	require.Len(t, ds.Courses, len(records))
	assert.Equal(t, records[0].Name, ds.Courses[0].Name)

	ps := Score(DefaultWeightage(), ds)
	assert.InDelta(t, 5.0, ps.FinalScore, 1e-9)
	require.NotNil(t, ps.LowestGPACourse)
	assert.Equal(t, "MA 26100", *ps.LowestGPACourse)
	require.NotNil(t, ps.MostLovedCourse)
	assert.Equal(t, "PHYS 17200", *ps.MostLovedCourse)
}

func TestFixtureSource(t *testing.T) {
	src := NewFixtureSource(DemoCourses()...)

	course, err := src.FetchCourse(context.Background(), "cs   18000")
	require.NoError(t, err)
	assert.Equal(t, "CS 18000", course.Name)

	_, err = src.FetchCourse(context.Background(), "CS 99999")
	assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
}

func TestDecode_WouldTakeAgainForms(t *testing.T) {
	ds := mustDecode(t, `{"X": {"rmp_comments": [
		{"qualityRating": 3, "difficulty": 3, "wouldTakeAgain": true},
		{"qualityRating": 3, "difficulty": 3, "wouldTakeAgain": false},
		{"qualityRating": 3, "difficulty": 3, "wouldTakeAgain": 1},
		{"qualityRating": 3, "difficulty": 3, "wouldTakeAgain": 0.5},
		{"qualityRating": 3, "difficulty": 3, "wouldTakeAgain": "yes"},
		{"qualityRating": 3, "difficulty": 3}
	]}}`)

	reviews := ds.Courses[0].Reviews
	require.Len(t, reviews, 6)
	assert.True(t, *reviews[0].WouldTakeAgain)
	assert.False(t, *reviews[1].WouldTakeAgain)
	assert.True(t, *reviews[2].WouldTakeAgain)
	assert.False(t, *reviews[3].WouldTakeAgain)
	assert.Nil(t, reviews[4].WouldTakeAgain)
	assert.Nil(t, reviews[5].WouldTakeAgain)

	ps := Parse(ds)
	assert.Equal(t, 33.0, *ps.HighestWouldTakeAgain)
}
