package dto

import "time"

// SubmitEventRequest represents a single answer-submission event
type SubmitEventRequest struct {
	QuestionID      string    `json:"question_id" binding:"required" example:"q1"`
	AnswerValue     string    `json:"answer_value" binding:"required" example:"Paris"`
	ClientTimestamp time.Time `json:"client_timestamp" binding:"required" example:"2025-06-01T10:30:00Z"`
}

// SubmitEventsBulkRequest represents a bulk answer-submission request
type SubmitEventsBulkRequest struct {
	Events []SubmitEventRequest `json:"events" binding:"required,min=1,max=1000,dive"`
}
