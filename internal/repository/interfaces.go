package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ajaybenii/test-system-backend/internal/domain"
)

// ErrAttemptNotFound is returned by GetAttempt when no projection exists
// for the requested attempt.
var ErrAttemptNotFound = errors.New("attempt not found")

// EventRepository defines the interface for the append-only event log
type EventRepository interface {
	// AppendEvent atomically inserts the event unless one with the same
	// (attempt_id, dedupe_key) pair is already stored. Returns false when
	// the event is a duplicate; a duplicate is not an error. On success
	// the event's Seq and IngestedAt fields are populated.
	AppendEvent(ctx context.Context, event *domain.Event) (bool, error)

	// LatestEvent returns the stored event with the greatest client
	// timestamp for the (attempt, question) pair, ties broken by the
	// insertion sequence number. Returns nil when the pair has no events.
	LatestEvent(ctx context.Context, attemptID, questionID string) (*domain.Event, error)

	// DistinctQuestionCount returns the number of distinct questions with
	// at least one stored event for the attempt.
	DistinctQuestionCount(ctx context.Context, attemptID string) (int, error)

	// QuestionUpdates returns question_id -> greatest client timestamp
	// among the attempt's stored events, grouped per question.
	QuestionUpdates(ctx context.Context, attemptID string) (map[string]time.Time, error)
}

// AttemptRepository defines the interface for the mutable attempt projection
type AttemptRepository interface {
	// UpsertAnswer sets answers[questionID] = answerValue and last_updated
	// on the projection as one atomic write, creating the projection if it
	// does not exist yet.
	UpsertAnswer(ctx context.Context, attemptID, questionID, answerValue string, clientTimestamp time.Time) error

	// SetScore writes the recomputed score into an existing projection.
	SetScore(ctx context.Context, attemptID string, score int) error

	// GetAttempt returns the projection, or ErrAttemptNotFound when the
	// attempt has never been upserted.
	GetAttempt(ctx context.Context, attemptID string) (*domain.Attempt, error)
}
