package consumer

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajaybenii/test-system-backend/internal/service"
)

// Ingestor feeds parsed answer envelopes through the attempt service
type Ingestor struct {
	service service.AttemptServicer
	log     *zap.Logger
}

// NewIngestor creates a new ingestor stage
func NewIngestor(attemptService service.AttemptServicer, log *zap.Logger) *Ingestor {
	return &Ingestor{
		service: attemptService,
		log:     log,
	}
}

// Start processes envelopes until the context is canceled or the input
// channel closes.
func (i *Ingestor) Start(ctx context.Context, in <-chan *Envelope) {
	for {
		select {
		case <-ctx.Done():
			i.log.Info("Ingestor shutting down")
			return
		case envelope, ok := <-in:
			if !ok {
				i.log.Info("Ingestor input channel closed")
				return
			}
			i.process(ctx, envelope)
		}
	}
}

// process ingests one envelope. Every domain outcome (latest, stale,
// duplicate) is terminal and acked; only transient store failures are
// nacked so the queue redelivers. Redelivery after a crash between store
// and ack produces a duplicate, which the dedupe constraint absorbs.
func (i *Ingestor) process(ctx context.Context, envelope *Envelope) {
	result, err := i.service.IngestEvent(ctx, envelope.AttemptID, envelope.Event)
	if err != nil {
		i.log.Error("Failed to ingest queued event",
			zap.Error(err),
			zap.String("attempt_id", envelope.AttemptID),
			zap.String("question_id", envelope.Event.QuestionID))
		if err := envelope.Nack(ctx); err != nil {
			i.log.Error("Failed to nack envelope", zap.Error(err))
		}
		return
	}

	i.log.Info("Queued event ingested",
		zap.String("attempt_id", envelope.AttemptID),
		zap.String("question_id", envelope.Event.QuestionID),
		zap.String("status", result.Status),
		zap.Bool("latest", result.Latest))

	if err := envelope.Ack(ctx); err != nil {
		i.log.Error("Failed to ack envelope",
			zap.Error(err),
			zap.String("attempt_id", envelope.AttemptID))
	}
}
