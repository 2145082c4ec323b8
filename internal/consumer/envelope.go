package consumer

import (
	"context"

	"github.com/ajaybenii/test-system-backend/internal/dto"
)

// Envelope wraps a parsed answer submission with acknowledgment callbacks
type Envelope struct {
	AttemptID string
	Event     *dto.SubmitEventRequest
	ack       func(context.Context) error
	nack      func(context.Context) error
}

// NewEnvelope creates a new message envelope
func NewEnvelope(attemptID string, event *dto.SubmitEventRequest, ack, nack func(context.Context) error) *Envelope {
	return &Envelope{
		AttemptID: attemptID,
		Event:     event,
		ack:       ack,
		nack:      nack,
	}
}

// Ack acknowledges successful processing
func (e *Envelope) Ack(ctx context.Context) error {
	if e.ack != nil {
		return e.ack(ctx)
	}
	return nil
}

// Nack negatively acknowledges processing
func (e *Envelope) Nack(ctx context.Context) error {
	if e.nack != nil {
		return e.nack(ctx)
	}
	return nil
}
