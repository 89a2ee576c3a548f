package ticketing_test

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/frahmantamala/travel-booking/internal/core/events"
	"github.com/frahmantamala/travel-booking/internal/ticketing"
	"github.com/frahmantamala/travel-booking/internal/trip"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeTrips struct {
	mu        sync.Mutex
	issued    map[string][]string
	cancelled map[string]bool
}

func newFakeTrips() *fakeTrips {
	return &fakeTrips{issued: map[string][]string{}, cancelled: map[string]bool{}}
}

func (f *fakeTrips) SetTicketNumbers(_ context.Context, tripID string, numbers []string) (*trip.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelled[tripID] {
		return nil, trip.ErrInvalidTripStatus
	}
	f.issued[tripID] = numbers
	return &trip.Trip{ID: tripID, CompanyID: 1, Ticketed: true}, nil
}

func (f *fakeTrips) numbers(tripID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issued[tripID]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

func (p *recordingPublisher) first() events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[0]
}

var _ = Describe("Ticketing Service", func() {
	var (
		slogger   *slog.Logger
		trips     *fakeTrips
		publisher *recordingPublisher
		service   *ticketing.Service
	)

	BeforeEach(func() {
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		trips = newFakeTrips()
		publisher = &recordingPublisher{}
		service = nil
	})

	AfterEach(func() {
		if service != nil {
			service.Shutdown()
		}
	})

	Context("with a short latency", func() {
		BeforeEach(func() {
			service = ticketing.NewService(ticketing.Config{Workers: 2, QueueSize: 10, Latency: 5 * time.Millisecond}, trips, publisher, slogger)
		})

		It("issues one ticket per passenger from a purchase on the bus", func() {
			bus := events.NewEventBus(slogger)
			service.Register(bus)

			purchased := events.NewTripPurchasedEvent(1, "trip-1", "Moscow → Sochi, SU 20", "16000.00", []string{"Anna Petrova", "John Guest"})
			Expect(bus.PublishSync(context.Background(), purchased)).To(Succeed())

			Eventually(func() []string { return trips.numbers("trip-1") }).Should(HaveLen(2))
			for _, n := range trips.numbers("trip-1") {
				Expect(n).To(MatchRegexp(`^555-\d{10}$`))
			}

			Eventually(publisher.count).Should(Equal(1))
			ticketed, ok := publisher.first().(*events.TripTicketedEvent)
			Expect(ok).To(BeTrue())
			Expect(ticketed.TripID).To(Equal("trip-1"))
			Expect(ticketed.TicketNumbers).To(Equal(trips.numbers("trip-1")))
		})

		It("skips trips cancelled before ticketing", func() {
			trips.cancelled["trip-2"] = true
			Expect(service.Enqueue(ticketing.Job{TripID: "trip-2", CompanyID: 1, Passengers: 1})).To(Succeed())

			Consistently(publisher.count, 50*time.Millisecond).Should(BeZero())
		})

		It("rejects events of another type", func() {
			err := service.Handle(context.Background(), events.NewTripCancelledEvent(1, "trip-3", "x"))
			Expect(err).To(HaveOccurred())
		})
	})

	Context("with a saturated pool", func() {
		BeforeEach(func() {
			service = ticketing.NewService(ticketing.Config{Workers: 1, QueueSize: 1, Latency: time.Hour}, trips, publisher, slogger)
		})

		It("rejects jobs once the queue is full and shuts down without waiting out the latency", func() {
			i := 0
			Eventually(func() error {
				i++
				return service.Enqueue(ticketing.Job{TripID: fmt.Sprintf("busy-%d", i), Passengers: 1})
			}).Should(MatchError(ticketing.ErrQueueFull))

			done := make(chan struct{})
			go func() {
				service.Shutdown()
				close(done)
			}()
			Eventually(done, time.Second).Should(BeClosed())
			service = nil

			Expect(publisher.count()).To(BeZero())
		})
	})

	It("refuses new jobs after shutdown", func() {
		s := ticketing.NewService(ticketing.Config{Workers: 1, QueueSize: 5}, trips, publisher, slogger)
		s.Shutdown()
		Expect(s.Enqueue(ticketing.Job{TripID: "late", Passengers: 1})).To(MatchError(ticketing.ErrQueueFull))
	})
})
