package models

import (
	"encoding/json"
	"time"
)

// ScheduleUpload is a stored ScheduleRaterJson document submitted by a user.
type ScheduleUpload struct {
	ID               int64           `json:"id" db:"id"`
	UserID           int64           `json:"userId" db:"user_id"`
	OriginalFilename string          `json:"originalFilename" db:"original_filename"`
	FileURL          string          `json:"fileUrl" db:"file_url"`
	Payload          json.RawMessage `json:"-" db:"payload"`
	CreatedAt        time.Time       `json:"createdAt" db:"created_at"`
}
