package dto

import "time"

type CreateMoodLogRequest struct {
	Score int    `json:"score" validate:"required,min=1,max=10"`
	Note  string `json:"note" validate:"max=2000"`
}

func (r CreateMoodLogRequest) Validate() error {
	return validate.Struct(r)
}

type MoodLogResponse struct {
	ID        string    `json:"id"`
	Score     int       `json:"score"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type MoodHistoryResponse struct {
	Logs   []MoodLogResponse `json:"logs"`
	Streak int               `json:"streak"`
}

type ExportResponse struct {
	ObjectName string `json:"object_name"`
	URL        string `json:"url"`
	Rows       int    `json:"rows"`
}
