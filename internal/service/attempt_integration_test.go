package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajaybenii/test-system-backend/internal/config"
	"github.com/ajaybenii/test-system-backend/internal/dto"
	"github.com/ajaybenii/test-system-backend/internal/repository"
	"github.com/ajaybenii/test-system-backend/internal/repository/sqlite"
)

// newSQLiteService wires the service against a real temp-file store so the
// convergence properties are exercised end to end.
func newSQLiteService(t *testing.T) *AttemptService {
	t.Helper()

	cfg := &config.Store{
		Path:          filepath.Join(t.TempDir(), "test_system.db"),
		BusyTimeoutMs: 5000,
	}

	client, err := sqlite.NewClient(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, client.InitSchema(context.Background()))
	t.Cleanup(func() {
		_ = client.Close()
	})

	log := zap.NewNop()
	return NewAttemptService(
		sqlite.NewEventRepository(client, log),
		sqlite.NewAttemptRepository(client, log),
		nil,
		log,
	)
}

func submit(t *testing.T, svc *AttemptService, attemptID, questionID, answer string, ts time.Time) *IngestResult {
	t.Helper()

	result, err := svc.IngestEvent(context.Background(), attemptID, &dto.SubmitEventRequest{
		QuestionID:      questionID,
		AnswerValue:     answer,
		ClientTimestamp: ts,
	})
	require.NoError(t, err)
	return result
}

func TestIngest_IdempotentDuplicates(t *testing.T) {
	svc := newSQLiteService(t)

	first := submit(t, svc, "attempt-1", "q1", "A", testTimestamp)
	second := submit(t, svc, "attempt-1", "q1", "A", testTimestamp)

	assert.Equal(t, StatusProcessed, first.Status)
	assert.True(t, first.Latest)
	assert.Equal(t, StatusIgnored, second.Status)
	assert.Equal(t, ReasonDuplicateEvent, second.Reason)

	attempt, err := svc.GetAttempt(context.Background(), "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"q1": "A"}, attempt.Answers)
	assert.Equal(t, 1, attempt.TotalScore)
}

func TestIngest_LastWriterWins_RegardlessOfArrivalOrder(t *testing.T) {
	svc := newSQLiteService(t)

	// Newer timestamp arrives first; the older event is still stored but
	// reported as superseded and must not change the answer.
	newer := submit(t, svc, "attempt-1", "q1", "Yes", testTimestamp.Add(2*time.Minute))
	older := submit(t, svc, "attempt-1", "q1", "No", testTimestamp)

	assert.True(t, newer.Latest)
	assert.Equal(t, StatusProcessed, older.Status)
	assert.False(t, older.Latest)
	assert.Equal(t, ReasonOlderEvent, older.Reason)

	attempt, err := svc.GetAttempt(context.Background(), "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, "Yes", attempt.Answers["q1"])
	assert.True(t, attempt.LastUpdated.Equal(testTimestamp.Add(2*time.Minute)))
}

func TestIngest_EqualTimestamps_DeterministicTieBreak(t *testing.T) {
	svc := newSQLiteService(t)

	submit(t, svc, "attempt-1", "q1", "No", testTimestamp)
	second := submit(t, svc, "attempt-1", "q1", "Yes", testTimestamp)

	// The later-stored event wins the tie by sequence number
	assert.True(t, second.Latest)

	attempt, err := svc.GetAttempt(context.Background(), "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, "Yes", attempt.Answers["q1"])
}

func TestIngest_ConcurrentDistinctQuestions_AllContribute(t *testing.T) {
	svc := newSQLiteService(t)

	const questions = 20

	var wg sync.WaitGroup
	errCh := make(chan error, questions)
	for i := 0; i < questions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.IngestEvent(context.Background(), "attempt-1", &dto.SubmitEventRequest{
				QuestionID:      fmt.Sprintf("q%d", i),
				AnswerValue:     fmt.Sprintf("answer-%d", i),
				ClientTimestamp: testTimestamp.Add(time.Duration(i) * time.Second),
			})
			errCh <- err
		}(i)
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		require.NoError(t, err)
	}

	attempt, err := svc.GetAttempt(context.Background(), "attempt-1")
	require.NoError(t, err)
	assert.Len(t, attempt.Answers, questions)
	assert.Equal(t, questions, attempt.TotalScore)
}

func TestIngest_MixedScenario(t *testing.T) {
	svc := newSQLiteService(t)
	t0 := testTimestamp

	first := submit(t, svc, "attempt-1", "q1", "A", t0)
	assert.Equal(t, StatusProcessed, first.Status)
	assert.True(t, first.Latest)

	second := submit(t, svc, "attempt-1", "q1", "B", t0.Add(2*time.Minute))
	assert.True(t, second.Latest)

	duplicate := submit(t, svc, "attempt-1", "q1", "A", t0)
	assert.Equal(t, StatusIgnored, duplicate.Status)
	assert.Equal(t, ReasonDuplicateEvent, duplicate.Reason)

	late := submit(t, svc, "attempt-1", "q1", "C", t0.Add(time.Minute))
	assert.Equal(t, StatusProcessed, late.Status)
	assert.False(t, late.Latest)
	assert.Equal(t, ReasonOlderEvent, late.Reason)

	other := submit(t, svc, "attempt-1", "q2", "D", t0.Add(3*time.Minute))
	assert.True(t, other.Latest)

	attempt, err := svc.GetAttempt(context.Background(), "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"q1": "B", "q2": "D"}, attempt.Answers)
	assert.Equal(t, 2, attempt.TotalScore)

	analytics, err := svc.GetAnalytics(context.Background(), "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, 2, analytics.TotalScore)
	assert.Equal(t, 2, analytics.QuestionsAnswered)
	assert.True(t, analytics.QuestionUpdates["q1"].Equal(t0.Add(2*time.Minute)))
	assert.True(t, analytics.QuestionUpdates["q2"].Equal(t0.Add(3*time.Minute)))
}

func TestIngest_NotFoundSemantics(t *testing.T) {
	svc := newSQLiteService(t)

	attempt, err := svc.GetAttempt(context.Background(), "never-seen")
	assert.Nil(t, attempt)
	assert.ErrorIs(t, err, repository.ErrAttemptNotFound)

	analytics, err := svc.GetAnalytics(context.Background(), "never-seen")
	assert.NoError(t, err)
	assert.Equal(t, 0, analytics.TotalScore)
	assert.Equal(t, 0, analytics.QuestionsAnswered)
	assert.Empty(t, analytics.QuestionUpdates)
}

func TestIngest_ScoreSettlesToDistinctQuestionCount(t *testing.T) {
	svc := newSQLiteService(t)

	// Interleave duplicates, rewrites and stale arrivals across questions
	submit(t, svc, "attempt-1", "q1", "A", testTimestamp)
	submit(t, svc, "attempt-1", "q2", "B", testTimestamp.Add(time.Minute))
	submit(t, svc, "attempt-1", "q1", "A", testTimestamp)
	submit(t, svc, "attempt-1", "q1", "A2", testTimestamp.Add(2*time.Minute))
	submit(t, svc, "attempt-1", "q3", "C", testTimestamp)
	submit(t, svc, "attempt-1", "q2", "B0", testTimestamp.Add(-time.Minute))

	attempt, err := svc.GetAttempt(context.Background(), "attempt-1")
	require.NoError(t, err)
	assert.Equal(t, 3, attempt.TotalScore)
	assert.Equal(t, map[string]string{"q1": "A2", "q2": "B", "q3": "C"}, attempt.Answers)
}
