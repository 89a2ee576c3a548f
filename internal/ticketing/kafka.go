package ticketing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/core/events"
	"github.com/segmentio/kafka-go"
)

// MessageReader is the subset of *kafka.Reader the consumer needs.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewKafkaReader(cfg internal.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
}

type purchasedMessage struct {
	Type      string `json:"type"`
	CompanyID int64  `json:"company_id"`
	Data      struct {
		TripID     string   `json:"trip_id"`
		Passengers []string `json:"passengers"`
	} `json:"data"`
}

// Consumer feeds purchases forwarded to Kafka into the ticketing queue, for running
// ticketing outside the API process.
type Consumer struct {
	reader  MessageReader
	service *Service
	logger  *slog.Logger
}

func NewConsumer(reader MessageReader, service *Service, logger *slog.Logger) *Consumer {
	return &Consumer{reader: reader, service: service, logger: logger}
}

// Run reads until ctx is cancelled. Malformed messages are committed and skipped; a job the
// full queue rejects is left uncommitted so it is delivered again.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info("ticketing consumer started")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				c.logger.Info("ticketing consumer stopped")
				return nil
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		job, ok := c.decode(msg)
		if ok {
			if err := c.service.Enqueue(job); err != nil {
				return err
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return fmt.Errorf("failed to commit message: %w", err)
		}
	}
}

func (c *Consumer) decode(msg kafka.Message) (Job, bool) {
	var m purchasedMessage
	if err := json.Unmarshal(msg.Value, &m); err != nil {
		c.logger.Warn("skipping malformed event", "offset", msg.Offset, "error", err)
		return Job{}, false
	}
	if m.Type != events.EventTypeTripPurchased {
		return Job{}, false
	}
	if m.Data.TripID == "" {
		c.logger.Warn("skipping purchase without trip id", "offset", msg.Offset)
		return Job{}, false
	}
	return Job{TripID: m.Data.TripID, CompanyID: m.CompanyID, Passengers: len(m.Data.Passengers)}, true
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
