package domain

import "time"

// Attempt is the mutable current-state projection of one test attempt,
// derived from its event history. Answers holds the most recent answer per
// question under last-writer-wins by client timestamp.
type Attempt struct {
	AttemptID   string
	Answers     map[string]string
	TotalScore  int
	LastUpdated time.Time
	CreatedAt   time.Time
}

// Analytics is the read-only derived summary of an attempt: per-question
// latest-update times plus aggregate counts.
type Analytics struct {
	AttemptID         string
	TotalScore        int
	QuestionsAnswered int
	QuestionUpdates   map[string]time.Time
}
