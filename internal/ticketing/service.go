package ticketing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/core/events"
	"github.com/frahmantamala/travel-booking/internal/trip"
)

var ErrQueueFull = errors.New("ticketing queue is full")

// ticketPrefix stands in for the validating carrier code of the issued document.
const ticketPrefix = "555"

type TicketWriter interface {
	SetTicketNumbers(ctx context.Context, tripID string, numbers []string) (*trip.Trip, error)
}

type Publisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type Config struct {
	Workers   int
	QueueSize int
	Latency   time.Duration
}

func ConfigFrom(cfg internal.BookingConfig) Config {
	return Config{
		Workers:   cfg.TicketingWorkers,
		QueueSize: cfg.TicketingQueueSize,
		Latency:   cfg.TicketingLatency,
	}
}

// Service issues tickets for purchased trips in the background.
type Service struct {
	trips     TicketWriter
	publisher Publisher
	latency   time.Duration
	logger    *slog.Logger
	pool      *pool

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewService(cfg Config, trips TicketWriter, publisher Publisher, logger *slog.Logger) *Service {
	s := &Service{
		trips:     trips,
		publisher: publisher,
		latency:   cfg.Latency,
		logger:    logger,
		pool:      newPool(cfg.Workers, cfg.QueueSize, logger),
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	s.pool.start(s.process)
	return s
}

// Register subscribes the service to purchases published on the bus.
func (s *Service) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeTripPurchased, s.Handle)
}

func (s *Service) Handle(_ context.Context, event events.Event) error {
	purchased, ok := event.(*events.TripPurchasedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", event, event.EventType())
	}
	return s.Enqueue(Job{
		TripID:     purchased.TripID,
		CompanyID:  purchased.CompanyID,
		Passengers: len(purchased.Passengers),
	})
}

func (s *Service) Enqueue(job Job) error {
	if !s.pool.submit(job) {
		s.logger.Warn("ticketing queue full, rejecting job",
			"trip_id", job.TripID,
			"company_id", job.CompanyID,
			"queue_capacity", cap(s.pool.jobQueue))
		return ErrQueueFull
	}
	s.logger.Info("ticketing job queued", "trip_id", job.TripID, "queue_length", len(s.pool.jobQueue))
	return nil
}

func (s *Service) Shutdown() {
	s.logger.Info("shutting down ticketing service")
	s.pool.stop()
	s.logger.Info("ticketing service shutdown complete")
}

func (s *Service) process(ctx context.Context, job Job) {
	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			s.logger.Warn("ticketing interrupted", "trip_id", job.TripID)
			return
		}
	}

	numbers := make([]string, 0, job.Passengers)
	for i := 0; i < job.Passengers; i++ {
		numbers = append(numbers, s.ticketNumber())
	}

	t, err := s.trips.SetTicketNumbers(ctx, job.TripID, numbers)
	if err != nil {
		if errors.Is(err, trip.ErrInvalidTripStatus) {
			s.logger.Info("trip cancelled before ticketing", "trip_id", job.TripID)
			return
		}
		s.logger.Error("failed to store ticket numbers", "trip_id", job.TripID, "error", err)
		return
	}

	s.logger.Info("trip ticketed", "trip_id", t.ID, "tickets", len(numbers))
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewTripTicketedEvent(t.CompanyID, t.ID, numbers)); err != nil {
		s.logger.Warn("failed to publish event", "event_type", events.EventTypeTripTicketed, "error", err)
	}
}

// ticketNumber returns a 13-digit e-ticket number.
func (s *Service) ticketNumber() string {
	s.mu.Lock()
	n := s.rnd.Int63n(10_000_000_000)
	s.mu.Unlock()
	return fmt.Sprintf("%s-%010d", ticketPrefix, n)
}
