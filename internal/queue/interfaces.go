package queue

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/ajaybenii/test-system-backend/internal/dto"
)

// QueuePublisher defines the interface for publishing answer events to a
// queue for asynchronous ingestion
type QueuePublisher interface {
	PublishEvent(ctx context.Context, attemptID string, event *dto.SubmitEventRequest, dedupeKey string) error
}

// QueueConsumer defines the interface for consuming messages from a queue
type QueueConsumer interface {
	ReceiveMessages(ctx context.Context, input *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, input *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error)
	QueueURL() string
}
