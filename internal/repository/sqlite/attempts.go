package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ajaybenii/test-system-backend/internal/domain"
	"github.com/ajaybenii/test-system-backend/internal/repository"
)

// AttemptRepository implements repository.AttemptRepository on SQLite
type AttemptRepository struct {
	client *Client
	log    *zap.Logger
}

// NewAttemptRepository creates a new SQLite attempt repository
func NewAttemptRepository(client *Client, log *zap.Logger) *AttemptRepository {
	return &AttemptRepository{
		client: client,
		log:    log,
	}
}

// UpsertAnswer writes the answer field and last_updated in one transaction
// so concurrent latest-resolved events never leave a projection with an
// answer row but no attempt row. Re-applying the same pair is a no-op on
// the visible state.
func (r *AttemptRepository) UpsertAnswer(ctx context.Context, attemptID, questionID, answerValue string, clientTimestamp time.Time) error {
	tx, err := r.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin upsert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO attempts (attempt_id, total_score, last_updated, created_at)
		 VALUES (?, 0, ?, ?)
		 ON CONFLICT(attempt_id) DO UPDATE SET last_updated = excluded.last_updated`,
		attemptID,
		clientTimestamp.UnixNano(),
		now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert attempt: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO attempt_answers (attempt_id, question_id, answer_value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(attempt_id, question_id) DO UPDATE SET
			answer_value = excluded.answer_value,
			updated_at = excluded.updated_at`,
		attemptID,
		questionID,
		answerValue,
		clientTimestamp.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert answer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}

	return nil
}

// SetScore writes the recomputed score into the projection
func (r *AttemptRepository) SetScore(ctx context.Context, attemptID string, score int) error {
	_, err := r.client.DB().ExecContext(ctx,
		`UPDATE attempts SET total_score = ? WHERE attempt_id = ?`,
		score,
		attemptID,
	)
	if err != nil {
		return fmt.Errorf("failed to set score: %w", err)
	}

	return nil
}

// GetAttempt loads the projection with its answers map
func (r *AttemptRepository) GetAttempt(ctx context.Context, attemptID string) (*domain.Attempt, error) {
	row := r.client.DB().QueryRowContext(ctx,
		`SELECT attempt_id, total_score, last_updated, created_at FROM attempts WHERE attempt_id = ?`,
		attemptID,
	)

	var (
		attempt     domain.Attempt
		lastUpdated int64
		createdAt   int64
	)
	err := row.Scan(&attempt.AttemptID, &attempt.TotalScore, &lastUpdated, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query attempt: %w", err)
	}

	attempt.LastUpdated = time.Unix(0, lastUpdated).UTC()
	attempt.CreatedAt = time.Unix(0, createdAt).UTC()
	attempt.Answers = make(map[string]string)

	rows, err := r.client.DB().QueryContext(ctx,
		`SELECT question_id, answer_value FROM attempt_answers WHERE attempt_id = ?`,
		attemptID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var questionID, answerValue string
		if err := rows.Scan(&questionID, &answerValue); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		attempt.Answers[questionID] = answerValue
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate answers: %w", err)
	}

	return &attempt, nil
}
