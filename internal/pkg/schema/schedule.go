// Package schema validates ScheduleRaterJson documents before they are scored.
package schema

import (
	"fmt"
	"strings"
	"sync"

	"github.com/huddlesocial/huddle/internal/pkg/apperrors"
	"github.com/xeipuuv/gojsonschema"
)

// scheduleSchema accepts the four reserved aggregate keys and treats every
// other key as a course entry.
const scheduleSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "hecticness_final_score":   {"type": ["number", "null"], "minimum": 0, "maximum": 1},
    "boilergrades_final_score": {"type": ["number", "null"], "minimum": 0, "maximum": 1},
    "rmp_final_score":          {"type": ["number", "null"], "minimum": 0, "maximum": 1},
    "final_score":              {"type": ["number", "null"]}
  },
  "additionalProperties": {"$ref": "#/definitions/course"},
  "definitions": {
    "course": {
      "type": "object",
      "properties": {
        "boilergrades_data": {
          "type": "object",
          "properties": {
            "average_gpa":     {"type": ["number", "null"], "minimum": 0, "maximum": 4},
            "used_course_avg": {"type": "boolean"}
          }
        },
        "rmp_comments": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["qualityRating", "difficulty"],
            "properties": {
              "qualityRating":  {"type": "number", "minimum": 1, "maximum": 5},
              "difficulty":     {"type": "number", "minimum": 1, "maximum": 5},
              "wouldTakeAgain": {"type": ["number", "boolean", "null"]}
            }
          }
        },
        "comments_summary": {
          "type": "object",
          "properties": {
            "summary":    {"type": "string"},
            "strengths":  {"type": "array", "items": {"type": "string"}},
            "weaknesses": {"type": "array", "items": {"type": "string"}}
          }
        }
      }
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

func scheduleValidator() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(scheduleSchema))
	})
	return compiled, compileErr
}

// ValidationError lists every schema violation of a document.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", apperrors.ErrInvalidSchedule, strings.Join(e.Problems, "; "))
}

// Unwrap lets callers match apperrors.ErrInvalidSchedule.
func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidSchedule
}

// ValidateSchedule checks raw against the ScheduleRaterJson schema. Documents
// that are not JSON at all are reported the same way as schema violations.
func ValidateSchedule(raw []byte) error {
	s, err := scheduleValidator()
	if err != nil {
		return fmt.Errorf("compile schedule schema: %w", err)
	}

	result, err := s.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return &ValidationError{Problems: []string{err.Error()}}
	}

	if !result.Valid() {
		problems := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			problems[i] = desc.String()
		}
		return &ValidationError{Problems: problems}
	}
	return nil
}
