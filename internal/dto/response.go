package dto

import "time"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"question_id is required"`
}

// IngestEventResponse represents the outcome of a single event ingestion.
// Latest is a pointer so that "ignored" responses omit it entirely while
// "processed" responses always carry an explicit true/false.
type IngestEventResponse struct {
	Status string `json:"status" example:"processed"`
	Latest *bool  `json:"latest,omitempty" example:"true"`
	Reason string `json:"reason,omitempty" example:"older_event"`
}

// EnqueueEventsResponse represents a bulk enqueue-for-ingestion response
type EnqueueEventsResponse struct {
	Accepted int      `json:"accepted" example:"5"`
	Rejected int      `json:"rejected" example:"0"`
	EventIDs []string `json:"event_ids,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// AttemptResponse represents the current-state summary of an attempt
type AttemptResponse struct {
	AttemptID   string            `json:"attempt_id" example:"attempt_123"`
	Answers     map[string]string `json:"answers"`
	TotalScore  int               `json:"total_score" example:"2"`
	LastUpdated time.Time         `json:"last_updated"`
}

// AnalyticsResponse represents the derived analytics view of an attempt
type AnalyticsResponse struct {
	AttemptID         string               `json:"attempt_id" example:"attempt_123"`
	TotalScore        int                  `json:"total_score" example:"2"`
	QuestionsAnswered int                  `json:"questions_answered" example:"2"`
	QuestionUpdates   map[string]time.Time `json:"question_updates"`
}
