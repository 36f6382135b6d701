package dto

import (
	"encoding/json"
	"time"

	"github.com/huddlesocial/huddle/internal/rater"
)

// ScoreRequest is the body of POST /schedule-rater/score. A missing weightage
// falls back to the even split.
type ScoreRequest struct {
	Schedule  json.RawMessage  `json:"schedule" binding:"required"`
	Weightage *rater.Weightage `json:"weightage"`
}

// ComposeScores are the externally computed aggregates of a composed schedule.
type ComposeScores struct {
	RMP          float64 `json:"rmp" binding:"gte=0,lte=1"`
	BoilerGrades float64 `json:"boilerGrades" binding:"gte=0,lte=1"`
	Hecticness   float64 `json:"hecticness" binding:"gte=0,lte=1"`
}

// ComposeRequest is the body of POST /schedule-rater/compose.
type ComposeRequest struct {
	Courses   []string         `json:"courses" binding:"required,min=1,max=12,dive,required,coursename"`
	Scores    ComposeScores    `json:"scores"`
	Weightage *rater.Weightage `json:"weightage"`
}

// WeightageQuery reads a weightage from the query string. All three must be
// given together; none means the even split.
type WeightageQuery struct {
	RMP          *int `form:"rmp"`
	BoilerGrades *int `form:"boilerGrades"`
	Hecticness   *int `form:"hecticness"`
}

// Resolve returns the requested weightage, or nil when no weight was given.
// A partial query leaves the missing weights at zero so validation rejects it.
func (q WeightageQuery) Resolve() *rater.Weightage {
	if q.RMP == nil && q.BoilerGrades == nil && q.Hecticness == nil {
		return nil
	}
	w := rater.Weightage{}
	if q.RMP != nil {
		w.RMP = *q.RMP
	}
	if q.BoilerGrades != nil {
		w.BoilerGrades = *q.BoilerGrades
	}
	if q.Hecticness != nil {
		w.Hecticness = *q.Hecticness
	}
	return &w
}

// ScoreResponse is a scored schedule and the weightage it was scored with.
type ScoreResponse struct {
	Weightage rater.Weightage       `json:"weightage"`
	Parsed    *rater.ParsedSchedule `json:"parsed"`
}

// UploadResponse is returned after a schedule file is stored and scored.
type UploadResponse struct {
	UploadID  int64                 `json:"uploadId"`
	FileURL   string                `json:"fileUrl"`
	Weightage rater.Weightage       `json:"weightage"`
	Parsed    *rater.ParsedSchedule `json:"parsed"`
}

// UploadSummary is one row of the caller's upload history.
type UploadSummary struct {
	ID               int64     `json:"id"`
	OriginalFilename string    `json:"originalFilename"`
	FileURL          string    `json:"fileUrl"`
	CreatedAt        time.Time `json:"createdAt"`
}

// UploadListResponse is one page of the caller's uploads.
type UploadListResponse struct {
	Uploads    []UploadSummary `json:"uploads"`
	Pagination PaginationInfo  `json:"pagination"`
}
