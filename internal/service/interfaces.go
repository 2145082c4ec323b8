package service

import (
	"context"

	"github.com/ajaybenii/test-system-backend/internal/dto"
)

// AttemptServicer defines the interface for attempt operations
type AttemptServicer interface {
	IngestEvent(ctx context.Context, attemptID string, event *dto.SubmitEventRequest) (*IngestResult, error)
	EnqueueEvents(ctx context.Context, attemptID string, events []dto.SubmitEventRequest) ([]string, []string, error)
	GetAttempt(ctx context.Context, attemptID string) (*dto.AttemptResponse, error)
	GetAnalytics(ctx context.Context, attemptID string) (*dto.AnalyticsResponse, error)
}
