package rater

import "math"

// extremum tracks the best value seen so far. offer only replaces the current
// holder on a strict improvement, so the first course wins ties.
type extremum struct {
	course string
	value  float64
	found  bool
}

func (e *extremum) offer(course string, value float64, better func(candidate, current float64) bool) {
	if !e.found || better(value, e.value) {
		e.course, e.value, e.found = course, value, true
	}
}

func less(a, b float64) bool    { return a < b }
func greater(a, b float64) bool { return a > b }

type reviewStats struct {
	count          int
	meanQuality    float64
	meanDifficulty float64
	wouldTakeAgain float64 // percentage of all reviews
}

func summarizeReviews(reviews []Review) reviewStats {
	stats := reviewStats{count: len(reviews)}
	if stats.count == 0 {
		return stats
	}

	var quality, difficulty float64
	again := 0
	for _, r := range reviews {
		quality += r.QualityRating
		difficulty += r.Difficulty
		if r.WouldTakeAgain != nil && *r.WouldTakeAgain {
			again++
		}
	}

	n := float64(stats.count)
	stats.meanQuality = quality / n
	stats.meanDifficulty = difficulty / n
	stats.wouldTakeAgain = float64(again) / n * 100
	return stats
}

// Parse derives the score summary of a dataset. It never fails: a reduction no
// course qualifies for leaves its fields nil.
func Parse(ds *Dataset) *ParsedSchedule {
	out := &ParsedSchedule{AllCourses: []CourseOverview{}}
	if ds == nil {
		return out
	}

	out.RMPScore = round2(clampUnit(ds.Scores.RMP))
	out.BoilerGradesScore = round2(clampUnit(ds.Scores.BoilerGrades))
	out.HecticnessScore = round2(clampUnit(ds.Scores.Hecticness))
	if ds.FinalScore != nil {
		out.FinalScore = round2(*ds.FinalScore)
	}

	var lowestGPA, lowestRMP, hardest, mostLoved, mostReviewed extremum

	for _, c := range ds.Courses {
		out.AllCourses = append(out.AllCourses, CourseOverview{
			CourseName: c.Name,
			Summary:    c.Summary,
			Strengths:  nonNil(c.Strengths),
			Weaknesses: nonNil(c.Weaknesses),
		})

		if c.AverageGPA != nil {
			lowestGPA.offer(c.Name, *c.AverageGPA, less)
		}

		stats := summarizeReviews(c.Reviews)
		if stats.count == 0 {
			continue
		}
		lowestRMP.offer(c.Name, stats.meanQuality, less)
		hardest.offer(c.Name, stats.meanDifficulty, greater)
		mostLoved.offer(c.Name, stats.wouldTakeAgain, greater)
		mostReviewed.offer(c.Name, float64(stats.count), greater)
	}

	out.LowestGPACourse, out.LowestGPA = lowestGPA.result(round2)
	out.LowestRMPCourse, out.LowestRMP = lowestRMP.result(round2)
	out.HardestCourse, out.HighestDifficulty = hardest.result(round2)
	out.MostLovedCourse, out.HighestWouldTakeAgain = mostLoved.result(math.Round)
	if mostReviewed.found {
		name, count := mostReviewed.course, int(mostReviewed.value)
		out.MostReviewedCourse, out.MostReviews = &name, &count
	}

	return out
}

func (e extremum) result(round func(float64) float64) (*string, *float64) {
	if !e.found {
		return nil, nil
	}
	name, value := e.course, round(e.value)
	return &name, &value
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
