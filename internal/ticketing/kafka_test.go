package ticketing_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/frahmantamala/travel-booking/internal/core/events"
	"github.com/frahmantamala/travel-booking/internal/ticketing"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/segmentio/kafka-go"
)

type fakeReader struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed int
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.messages) > 0 {
		msg := r.messages[0]
		r.messages = r.messages[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed += len(msgs)
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.committed
}

var _ = Describe("Ticketing Kafka Consumer", func() {
	It("queues forwarded purchases and skips everything else", func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		trips := newFakeTrips()
		service := ticketing.NewService(ticketing.Config{Workers: 1, QueueSize: 5}, trips, nil, slogger)
		defer service.Shutdown()

		purchase, err := json.Marshal(map[string]interface{}{
			"type":       events.EventTypeTripPurchased,
			"company_id": 3,
			"data":       map[string]interface{}{"trip_id": "trip-k", "passengers": []string{"A", "B", "C"}},
		})
		Expect(err).NotTo(HaveOccurred())
		other, err := json.Marshal(map[string]interface{}{"type": events.EventTypeEmployeeCreated, "company_id": 3})
		Expect(err).NotTo(HaveOccurred())

		reader := &fakeReader{messages: []kafka.Message{
			{Value: []byte("{not json"), Offset: 1},
			{Value: other, Offset: 2},
			{Value: purchase, Offset: 3},
		}}
		consumer := ticketing.NewConsumer(reader, service, slogger)

		ctx, cancel := context.WithCancel(context.Background())
		result := make(chan error, 1)
		go func() { result <- consumer.Run(ctx) }()

		Eventually(func() []string { return trips.numbers("trip-k") }).Should(HaveLen(3))
		Eventually(reader.commits).Should(Equal(3))

		cancel()
		Eventually(result, time.Second).Should(Receive(BeNil()))
	})
})
