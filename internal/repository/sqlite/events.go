package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ajaybenii/test-system-backend/internal/domain"
)

// EventRepository implements repository.EventRepository on SQLite
type EventRepository struct {
	client *Client
	log    *zap.Logger
}

// NewEventRepository creates a new SQLite event repository
func NewEventRepository(client *Client, log *zap.Logger) *EventRepository {
	return &EventRepository{
		client: client,
		log:    log,
	}
}

// AppendEvent performs the atomic conditional append. INSERT OR IGNORE
// resolves the race between concurrent identical submissions inside the
// store: exactly one caller inserts a row, the rest see zero rows affected
// and report a duplicate without an error.
func (r *EventRepository) AppendEvent(ctx context.Context, event *domain.Event) (bool, error) {
	ingestedAt := time.Now().UTC()

	result, err := r.client.DB().ExecContext(ctx,
		`INSERT OR IGNORE INTO events (attempt_id, question_id, answer_value, client_timestamp, dedupe_key, ingested_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.AttemptID,
		event.QuestionID,
		event.AnswerValue,
		event.ClientTimestamp.UnixNano(),
		event.DedupeKey,
		ingestedAt.UnixNano(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to append event: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read append result: %w", err)
	}
	if inserted == 0 {
		return false, nil
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("failed to read event sequence: %w", err)
	}
	event.Seq = seq
	event.IngestedAt = ingestedAt

	return true, nil
}

// LatestEvent returns the maximum-client-timestamp event for the pair.
// Equal timestamps resolve to the higher sequence number, so the outcome
// is deterministic rather than dependent on scan order.
func (r *EventRepository) LatestEvent(ctx context.Context, attemptID, questionID string) (*domain.Event, error) {
	row := r.client.DB().QueryRowContext(ctx,
		`SELECT seq, attempt_id, question_id, answer_value, client_timestamp, dedupe_key, ingested_at
		 FROM events
		 WHERE attempt_id = ? AND question_id = ?
		 ORDER BY client_timestamp DESC, seq DESC
		 LIMIT 1`,
		attemptID,
		questionID,
	)

	var (
		event      domain.Event
		clientTS   int64
		ingestedTS int64
	)
	err := row.Scan(&event.Seq, &event.AttemptID, &event.QuestionID, &event.AnswerValue, &clientTS, &event.DedupeKey, &ingestedTS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest event: %w", err)
	}

	event.ClientTimestamp = time.Unix(0, clientTS).UTC()
	event.IngestedAt = time.Unix(0, ingestedTS).UTC()

	return &event, nil
}

// DistinctQuestionCount counts the questions with at least one stored event
func (r *EventRepository) DistinctQuestionCount(ctx context.Context, attemptID string) (int, error) {
	row := r.client.DB().QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT question_id) FROM events WHERE attempt_id = ?`,
		attemptID,
	)

	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count distinct questions: %w", err)
	}

	return count, nil
}

// QuestionUpdates groups the attempt's events per question and returns the
// greatest client timestamp of each group.
func (r *EventRepository) QuestionUpdates(ctx context.Context, attemptID string) (map[string]time.Time, error) {
	rows, err := r.client.DB().QueryContext(ctx,
		`SELECT question_id, MAX(client_timestamp)
		 FROM events
		 WHERE attempt_id = ?
		 GROUP BY question_id`,
		attemptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query question updates: %w", err)
	}
	defer rows.Close()

	updates := make(map[string]time.Time)
	for rows.Next() {
		var (
			questionID string
			maxTS      int64
		)
		if err := rows.Scan(&questionID, &maxTS); err != nil {
			return nil, fmt.Errorf("failed to scan question update: %w", err)
		}
		updates[questionID] = time.Unix(0, maxTS).UTC()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate question updates: %w", err)
	}

	return updates, nil
}
