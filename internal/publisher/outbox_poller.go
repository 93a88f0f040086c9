package publisher

import (
	"context"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/BryleCahapay/petstore/internal/repository"
)

// EventWriter is the slice of kafka.Writer the poller needs.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// OutboxPoller drains the order_outbox table: events written in the same
// transaction as their receipt are published to Kafka here, so a commit
// is never lost even if the broker was down at checkout time.
type OutboxPoller struct {
	tick      time.Duration
	batchSize int
	repo      repository.ReceiptRepository
	writer    EventWriter
	logger    *zap.SugaredLogger
}

func NewOutboxPoller(repo repository.ReceiptRepository, logger *zap.SugaredLogger, brokers ...string) *OutboxPoller {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "order-events",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &OutboxPoller{
		tick:      time.Second,
		batchSize: 100,
		repo:      repo,
		writer:    w,
		logger:    logger,
	}
}

func (p *OutboxPoller) Run(ctx context.Context) {
	defer p.closeWriter()

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p.processUnpublishedEvents(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *OutboxPoller) closeWriter() {
	if closer, ok := p.writer.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			p.logger.Warnw("failed to close event writer", "error", err)
		}
	}
}

func (p *OutboxPoller) processUnpublishedEvents(ctx context.Context) {
	events, err := p.repo.GetUnprocessedEvents(ctx, p.batchSize)
	if err != nil {
		p.logger.Errorw("failed to fetch outbox events", "error", err)
		return
	}

	for _, event := range events {
		if errPublish := p.publish(ctx, event); errPublish != nil {
			p.logger.Errorw("failed to publish outbox event", "event_id", event.ID, "error", errPublish)
			continue
		}

		if errMark := p.repo.MarkEventProcessed(ctx, event.ID); errMark != nil {
			p.logger.Errorw("failed to mark outbox event processed", "event_id", event.ID, "error", errMark)
		}
	}
}

func (p *OutboxPoller) publish(ctx context.Context, event *repository.OutboxEvent) error {
	msg := kafka.Message{
		Key:   []byte(event.AggregateID), // receipt id for ordering
		Value: event.Payload,             // Already JSON from database
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}
