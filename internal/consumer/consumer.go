package consumer

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/ajaybenii/test-system-backend/internal/config"
	"github.com/ajaybenii/test-system-backend/internal/queue"
	"github.com/ajaybenii/test-system-backend/internal/service"
)

// Consumer orchestrates a pipeline of stages to process SQS messages
type Consumer struct {
	receiver   *Receiver
	parser     *ParserStage
	ingestor   *Ingestor
	bufferSize int
}

// NewConsumer creates a new consumer with a pipeline architecture
func NewConsumer(cfg *config.Config, queueConsumer queue.QueueConsumer, attemptService service.AttemptServicer, log *zap.Logger) *Consumer {
	receiver := NewReceiver(queueConsumer, ReceiverConfig{
		MaxMessages:     cfg.Consumer.MaxMessages,
		WaitTimeSeconds: cfg.Consumer.WaitTimeSeconds,
		BufferSize:      cfg.Consumer.BufferSize,
	}, log)

	parser := NewParserStage(queueConsumer, NewJSONEventParser(), log)

	ingestor := NewIngestor(attemptService, log)

	return &Consumer{
		receiver:   receiver,
		parser:     parser,
		ingestor:   ingestor,
		bufferSize: cfg.Consumer.BufferSize,
	}
}

// Start begins the consumer pipeline
func (c *Consumer) Start(ctx context.Context) error {
	messageChan := make(chan types.Message, c.bufferSize)
	envelopeChan := make(chan *Envelope, c.bufferSize)

	var wg sync.WaitGroup

	wg.Add(3)

	// Stage 1: Receive messages from SQS
	go func() {
		defer wg.Done()
		c.receiver.Start(ctx, messageChan)
	}()

	// Stage 2: Parse messages into envelopes
	go func() {
		defer wg.Done()
		c.parser.Start(ctx, messageChan, envelopeChan)
	}()

	// Stage 3: Ingest envelopes through the attempt service
	go func() {
		defer wg.Done()
		c.ingestor.Start(ctx, envelopeChan)
	}()

	wg.Wait()
	return nil
}
