package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ajaybenii/test-system-backend/internal/domain"
	"github.com/ajaybenii/test-system-backend/internal/dto"
	"github.com/ajaybenii/test-system-backend/internal/metrics"
	"github.com/ajaybenii/test-system-backend/internal/queue"
	"github.com/ajaybenii/test-system-backend/internal/repository"
)

// Ingestion statuses and reasons surfaced to callers.
const (
	StatusProcessed = "processed"
	StatusIgnored   = "ignored"

	ReasonDuplicateEvent = "duplicate_event"
	ReasonOlderEvent     = "older_event"
)

// IngestResult describes the outcome of one answer-event ingestion
type IngestResult struct {
	Status string
	Latest bool
	Reason string
}

// AttemptService represents the attempt ingestion and read service
type AttemptService struct {
	events    repository.EventRepository
	attempts  repository.AttemptRepository
	publisher queue.QueuePublisher
	log       *zap.Logger
}

// NewAttemptService creates a new attempt service
func NewAttemptService(events repository.EventRepository, attempts repository.AttemptRepository, publisher queue.QueuePublisher, log *zap.Logger) *AttemptService {
	return &AttemptService{
		events:    events,
		attempts:  attempts,
		publisher: publisher,
		log:       log,
	}
}

// computeDedupeKey generates a deterministic identifier for a logical event.
// Uses SHA-256 over: attempt_id|question_id|answer_value|client_timestamp.
// The key only backs deduplication; it carries no ordering meaning.
func computeDedupeKey(attemptID, questionID, answerValue string, clientTimestamp time.Time) string {
	data := fmt.Sprintf("%s|%s|%s|%s",
		attemptID,
		questionID,
		answerValue,
		clientTimestamp.UTC().Format(time.RFC3339Nano),
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// IngestEvent processes a single answer event: conditional append into the
// event log, latest-event resolution, and, when the event wins, projection
// upsert followed by score recompute. Duplicate submissions short-circuit
// to an "ignored" result without touching any state.
func (s *AttemptService) IngestEvent(ctx context.Context, attemptID string, req *dto.SubmitEventRequest) (*IngestResult, error) {
	start := time.Now()

	event := &domain.Event{
		AttemptID:       attemptID,
		QuestionID:      req.QuestionID,
		AnswerValue:     req.AnswerValue,
		ClientTimestamp: req.ClientTimestamp.UTC(),
		DedupeKey:       computeDedupeKey(attemptID, req.QuestionID, req.AnswerValue, req.ClientTimestamp),
	}

	stored, err := s.events.AppendEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	if !stored {
		s.log.Info("Duplicate event ignored",
			zap.String("attempt_id", attemptID),
			zap.String("question_id", req.QuestionID),
			zap.String("dedupe_key", event.DedupeKey))
		metrics.RecordIngest(metrics.OutcomeDuplicate, time.Since(start).Seconds())
		return &IngestResult{Status: StatusIgnored, Reason: ReasonDuplicateEvent}, nil
	}

	latest, err := s.events.LatestEvent(ctx, attemptID, req.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve latest event: %w", err)
	}

	if latest == nil || latest.DedupeKey != event.DedupeKey {
		s.log.Info("Event stored but superseded by a newer timestamp",
			zap.String("attempt_id", attemptID),
			zap.String("question_id", req.QuestionID),
			zap.Time("client_timestamp", event.ClientTimestamp))
		metrics.RecordIngest(metrics.OutcomeStale, time.Since(start).Seconds())
		return &IngestResult{Status: StatusProcessed, Latest: false, Reason: ReasonOlderEvent}, nil
	}

	if err := s.attempts.UpsertAnswer(ctx, attemptID, req.QuestionID, req.AnswerValue, event.ClientTimestamp); err != nil {
		return nil, fmt.Errorf("failed to update attempt projection: %w", err)
	}

	// Score comes from the event log's distinct-question count, not the
	// answers map, so it stays correct if answers are ever pruned.
	score, err := s.events.DistinctQuestionCount(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute score: %w", err)
	}
	if err := s.attempts.SetScore(ctx, attemptID, score); err != nil {
		return nil, fmt.Errorf("failed to write score: %w", err)
	}

	s.log.Info("Event applied as latest",
		zap.String("attempt_id", attemptID),
		zap.String("question_id", req.QuestionID),
		zap.Int("score", score))
	metrics.RecordIngest(metrics.OutcomeLatest, time.Since(start).Seconds())

	return &IngestResult{Status: StatusProcessed, Latest: true}, nil
}

// EnqueueEvents publishes events to the queue for asynchronous ingestion
// by the consumer worker. Returns the dedupe keys of the accepted events
// alongside per-event publish errors.
func (s *AttemptService) EnqueueEvents(ctx context.Context, attemptID string, events []dto.SubmitEventRequest) ([]string, []string, error) {
	var eventIDs []string
	var errs []string

	for i, event := range events {
		dedupeKey := computeDedupeKey(attemptID, event.QuestionID, event.AnswerValue, event.ClientTimestamp)

		if err := s.publisher.PublishEvent(ctx, attemptID, &event, dedupeKey); err != nil {
			errs = append(errs, err.Error())
			s.log.Warn("Failed to publish event in bulk",
				zap.Int("index", i),
				zap.Error(err),
				zap.String("attempt_id", attemptID),
				zap.String("question_id", event.QuestionID))
			continue
		}
		eventIDs = append(eventIDs, dedupeKey)
	}

	return eventIDs, errs, nil
}

// GetAttempt returns the current-state summary of an attempt
func (s *AttemptService) GetAttempt(ctx context.Context, attemptID string) (*dto.AttemptResponse, error) {
	attempt, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil {
		if errors.Is(err, repository.ErrAttemptNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	return &dto.AttemptResponse{
		AttemptID:   attempt.AttemptID,
		Answers:     attempt.Answers,
		TotalScore:  attempt.TotalScore,
		LastUpdated: attempt.LastUpdated,
	}, nil
}

// GetAnalytics returns the derived analytics view of an attempt. Unknown
// attempts yield a zeroed result rather than an error.
func (s *AttemptService) GetAnalytics(ctx context.Context, attemptID string) (*dto.AnalyticsResponse, error) {
	updates, err := s.events.QuestionUpdates(ctx, attemptID)
	if err != nil {
		return nil, fmt.Errorf("failed to get question updates: %w", err)
	}

	totalScore := 0
	attempt, err := s.attempts.GetAttempt(ctx, attemptID)
	if err != nil && !errors.Is(err, repository.ErrAttemptNotFound) {
		return nil, fmt.Errorf("failed to get attempt score: %w", err)
	}
	if attempt != nil {
		totalScore = attempt.TotalScore
	}

	return &dto.AnalyticsResponse{
		AttemptID:         attemptID,
		TotalScore:        totalScore,
		QuestionsAnswered: len(updates),
		QuestionUpdates:   updates,
	}, nil
}
