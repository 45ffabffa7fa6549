package events

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/local-guide/service-booking/internal/domain/booking"
	"github.com/local-guide/service-booking/internal/kafka"
)

// PaymentStatusSetter is the slice of the booking service the consumer needs.
type PaymentStatusSetter interface {
	SetPaymentStatus(ctx context.Context, bookingID uuid.UUID, status booking.PaymentStatus) error
}

// PaymentEventConsumer listens to payment events and marks bookings as paid.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	service  PaymentStatusSetter
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a PaymentEventConsumer.
func NewPaymentEventConsumer(
	brokers []string,
	groupID string,
	service PaymentStatusSetter,
	logger *zap.Logger,
) *PaymentEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicPaymentEvents, logger)
	return &PaymentEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming payment events. This blocks until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	var cloudEvent kafka.CloudEvent
	if err := json.Unmarshal(msg.Value, &cloudEvent); err != nil {
		c.logger.Error("failed to parse cloud event from payment topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case PaymentCompleted:
		return c.handlePaymentCompleted(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled payment event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *PaymentEventConsumer) handlePaymentCompleted(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt PaymentCompletedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse PaymentCompletedEvent data", zap.Error(err))
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing payment completed event",
		zap.String("booking_id", evt.BookingID.String()),
		zap.String("payment_id", evt.PaymentID.String()),
	)

	if err := c.service.SetPaymentStatus(ctx, evt.BookingID, booking.PaymentCompleted); err != nil {
		c.logger.Error("failed to mark booking as paid",
			zap.String("booking_id", evt.BookingID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
