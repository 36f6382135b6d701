package rater

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotObject is returned by Decode when the document is not a JSON object.
var ErrNotObject = errors.New("schedule document must be a JSON object")

type rawCourse struct {
	BoilerGrades    json.RawMessage `json:"boilergrades_data"`
	RMPComments     json.RawMessage `json:"rmp_comments"`
	CommentsSummary json.RawMessage `json:"comments_summary"`
}

type rawBoilerGrades struct {
	AverageGPA    *float64 `json:"average_gpa"`
	UsedCourseAvg bool     `json:"used_course_avg"`
}

type rawComment struct {
	QualityRating  *float64        `json:"qualityRating"`
	Difficulty     *float64        `json:"difficulty"`
	WouldTakeAgain json.RawMessage `json:"wouldTakeAgain"`
}

type rawSummary struct {
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// Decode reads a ScheduleRaterJson document. Key order is preserved so that the
// reductions in Parse can break ties by input order. Malformed course fields are
// dropped rather than reported; only a document that is not a JSON object fails.
func Decode(data []byte) (*Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, ErrNotObject
	}

	ds := &Dataset{}
	index := make(map[string]int)
	var hectic, grades, rmp *float64

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read schedule key: %w", err)
		}
		key, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("read value of %q: %w", key, err)
		}

		switch key {
		case KeyHecticness:
			hectic = decodeNumber(value)
		case KeyBoilerGrades:
			grades = decodeNumber(value)
		case KeyRMP:
			rmp = decodeNumber(value)
		case KeyFinal:
			ds.FinalScore = decodeNumber(value)
		default:
			course := decodeCourse(key, value)
			// A repeated key overwrites the earlier value but keeps its position.
			if i, ok := index[key]; ok {
				ds.Courses[i] = course
				continue
			}
			index[key] = len(ds.Courses)
			ds.Courses = append(ds.Courses, course)
		}
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read end of schedule: %w", err)
	}

	ds.Scores = Scores{RMP: deref(rmp), BoilerGrades: deref(grades), Hecticness: deref(hectic)}
	return ds, nil
}

func decodeNumber(raw json.RawMessage) *float64 {
	var v *float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func decodeCourse(name string, raw json.RawMessage) CourseRecord {
	course := CourseRecord{Name: name, Strengths: []string{}, Weaknesses: []string{}}

	var rc rawCourse
	if err := json.Unmarshal(raw, &rc); err != nil {
		return course
	}

	if len(rc.BoilerGrades) > 0 {
		var bg rawBoilerGrades
		if err := json.Unmarshal(rc.BoilerGrades, &bg); err == nil {
			course.AverageGPA = bg.AverageGPA
			course.UsedCourseAvg = bg.UsedCourseAvg
		}
	}

	if len(rc.RMPComments) > 0 {
		var items []json.RawMessage
		if err := json.Unmarshal(rc.RMPComments, &items); err == nil {
			for _, item := range items {
				if review, ok := decodeReview(item); ok {
					course.Reviews = append(course.Reviews, review)
				}
			}
		}
	}

	if len(rc.CommentsSummary) > 0 {
		var s rawSummary
		if err := json.Unmarshal(rc.CommentsSummary, &s); err == nil {
			course.Summary = s.Summary
			if s.Strengths != nil {
				course.Strengths = s.Strengths
			}
			if s.Weaknesses != nil {
				course.Weaknesses = s.Weaknesses
			}
		}
	}

	return course
}

func decodeReview(raw json.RawMessage) (Review, bool) {
	var c rawComment
	if err := json.Unmarshal(raw, &c); err != nil {
		return Review{}, false
	}
	if c.QualityRating == nil || c.Difficulty == nil {
		return Review{}, false
	}

	return Review{
		QualityRating:  *c.QualityRating,
		Difficulty:     *c.Difficulty,
		WouldTakeAgain: decodeWouldTakeAgain(c.WouldTakeAgain),
	}, true
}

// decodeWouldTakeAgain accepts the 1/0 flags of the rating export as well as
// JSON booleans. Anything else counts as no answer.
func decodeWouldTakeAgain(raw json.RawMessage) *bool {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var flag bool
	if err := json.Unmarshal(raw, &flag); err == nil {
		return &flag
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		flag = n == 1
		return &flag
	}
	return nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
