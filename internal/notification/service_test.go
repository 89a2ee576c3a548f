package notification_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/core/events"
	"github.com/frahmantamala/travel-booking/internal/notification"
	notificationPostgres "github.com/frahmantamala/travel-booking/internal/notification/postgres"
	"github.com/frahmantamala/travel-booking/internal/storage"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Notification Service", func() {
	var (
		ctx     context.Context
		service *notification.Service
		bus     *events.EventBus
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := storage.Open(internal.DatabaseConfig{Driver: "sqlite", Source: ":memory:"}, slogger)
		Expect(err).NotTo(HaveOccurred())
		Expect(storage.AutoMigrate(db)).To(Succeed())

		clock := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
		service = notification.NewService(notificationPostgres.NewNotificationRepository(db), slogger).
			WithClock(func() time.Time {
				clock = clock.Add(time.Minute)
				return clock
			})

		bus = events.NewEventBus(slogger)
		notification.NewEventHandler(service, slogger).RegisterEventHandlers(bus)
	})

	It("stores a notification per travel event, newest first", func() {
		Expect(bus.PublishSync(ctx, events.NewTripPurchasedEvent(1, "t-1", "SVO → AER", "16000", []string{"Anna", "Boris"}))).To(Succeed())
		Expect(bus.PublishSync(ctx, events.NewTripTicketedEvent(1, "t-1", []string{"555-0000000001", "555-0000000002"}))).To(Succeed())
		Expect(bus.PublishSync(ctx, events.NewEmployeeCreatedEvent(1, 42, "Anna Petrova"))).To(Succeed())

		list, unread, err := service.List(ctx, 1, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(unread).To(Equal(int64(3)))
		Expect(list).To(HaveLen(3))

		Expect(list[0].Type).To(Equal(events.EventTypeEmployeeCreated))
		Expect(list[0].EntityID).To(Equal("42"))
		Expect(list[1].Message).To(ContainSubstring("555-0000000001, 555-0000000002"))
		Expect(list[2].Title).To(Equal("Ticket purchased"))
		Expect(list[2].Message).To(ContainSubstring("2 passenger(s), total 16000"))
	})

	It("describes policy violations with their excess", func() {
		ev := events.NewPolicyViolationEvent(1, "b-1", "WARN", []string{"price above soft limit"}, "5000")
		Expect(bus.PublishSync(ctx, ev)).To(Succeed())

		list, _, err := service.List(ctx, 1, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
		Expect(list[0].Title).To(Equal("Travel policy warn"))
		Expect(list[0].Message).To(Equal("price above soft limit (excess 5000)"))
	})

	It("tells the booker a parked trip was approved", func() {
		Expect(bus.PublishSync(ctx, events.NewTripApprovedEvent(1, "b-1", "Conference"))).To(Succeed())

		list, _, err := service.List(ctx, 1, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
		Expect(list[0].Title).To(Equal("Trip approved"))
		Expect(list[0].Message).To(Equal("Conference"))
		Expect(list[0].Type).To(Equal(events.EventTypeTripApproved))
	})

	It("keeps companies apart", func() {
		Expect(bus.PublishSync(ctx, events.NewTripNeedsApprovalEvent(1, "b-1", "Basket"))).To(Succeed())
		Expect(bus.PublishSync(ctx, events.NewTripCancelledEvent(2, "x-1", "Other"))).To(Succeed())

		list, _, err := service.List(ctx, 2, false)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
		Expect(list[0].Title).To(Equal("Trip cancelled"))

		err = service.MarkRead(ctx, 2, 1)
		Expect(err).To(MatchError(notification.ErrNotificationNotFound))
	})

	It("marks notifications read", func() {
		for i := 0; i < 3; i++ {
			Expect(bus.PublishSync(ctx, events.NewTripNeedsApprovalEvent(1, "b-1", "Basket"))).To(Succeed())
		}
		list, _, err := service.List(ctx, 1, false)
		Expect(err).NotTo(HaveOccurred())

		Expect(service.MarkRead(ctx, 1, list[0].ID)).To(Succeed())
		unreadList, unread, err := service.List(ctx, 1, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(unread).To(Equal(int64(2)))
		Expect(unreadList).To(HaveLen(2))

		n, err := service.MarkAllRead(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(2)))

		_, unread, err = service.List(ctx, 1, true)
		Expect(err).NotTo(HaveOccurred())
		Expect(unread).To(BeZero())
	})

	It("rejects events it cannot render", func() {
		_, err := notification.FromEvent(&events.BaseEvent{Type: "unknown"})
		Expect(err).To(HaveOccurred())
	})
})
