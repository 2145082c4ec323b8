package domain

import "time"

// Event represents one durably recorded answer submission for a question
// within an attempt. Events are append-only and never mutated or deleted;
// DedupeKey identifies logically identical submissions so the store can
// reject duplicates.
type Event struct {
	// Seq is the monotonic sequence number assigned by the store at
	// insertion. It breaks ties between events sharing an identical
	// client timestamp.
	Seq             int64
	AttemptID       string
	QuestionID      string
	AnswerValue     string
	ClientTimestamp time.Time
	DedupeKey       string
	// IngestedAt is the server-side time of durable acceptance. Kept for
	// audit only; ordering decisions use ClientTimestamp.
	IngestedAt time.Time
}
