package flight_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	flightDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/flight"
	"github.com/frahmantamala/travel-booking/internal/flight"
	flightPostgres "github.com/frahmantamala/travel-booking/internal/flight/postgres"
	"github.com/frahmantamala/travel-booking/internal/policy"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type memoryCache struct {
	flights []*flight.Flight
	gets    int
	sets    int
	failGet bool
}

func (c *memoryCache) GetFlights(context.Context) ([]*flight.Flight, error) {
	c.gets++
	if c.failGet {
		return nil, errors.New("connection refused")
	}
	return c.flights, nil
}

func (c *memoryCache) SetFlights(_ context.Context, flights []*flight.Flight) error {
	c.sets++
	c.flights = flights
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.flights = nil
	return nil
}

type staticPolicies struct {
	policy *policy.TravelPolicy
}

func (s staticPolicies) GetPolicy(_ context.Context, companyID int64) (*policy.TravelPolicy, error) {
	p := *s.policy
	p.CompanyID = companyID
	return &p, nil
}

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 10, day, hour, minute, 0, 0, time.UTC)
}

var catalogue = []*flight.Flight{
	{ID: "SU-1402", FlightNumber: "SU 1402", Carrier: "Aeroflot", From: "SVO", To: "LED", FromCity: "Moscow", ToCity: "Saint Petersburg",
		DepartureAt: at(20, 8, 15), ArrivalAt: at(20, 9, 45), Class: "ECONOMY", Price: decimal.NewFromInt(8500), Refundable: true},
	{ID: "S7-2041", FlightNumber: "S7 2041", Carrier: "S7", From: "DME", To: "LED", FromCity: "Moscow", ToCity: "Saint Petersburg",
		DepartureAt: at(20, 23, 10), ArrivalAt: at(21, 0, 30), Class: "ECONOMY", Price: decimal.NewFromInt(6200)},
	{ID: "SU-1010", FlightNumber: "SU 1010", Carrier: "Aeroflot", From: "SVO", To: "AER", FromCity: "Moscow", ToCity: "Sochi",
		DepartureAt: at(21, 10, 0), ArrivalAt: at(21, 14, 0), Class: "BUSINESS", Price: decimal.NewFromInt(130000), Connections: 2},
	{ID: "DP-405", FlightNumber: "DP 405", Carrier: "Pobeda", From: "VKO", To: "LED", FromCity: "Moscow", ToCity: "Saint Petersburg",
		DepartureAt: at(20, 12, 0), ArrivalAt: at(20, 14, 30), Class: "ECONOMY", Price: decimal.NewFromInt(100000)},
}

var _ = Describe("Flight Service", func() {
	var (
		ctx     context.Context
		cache   *memoryCache
		service *flight.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&flightDatamodel.Flight{})).To(Succeed())

		cache = &memoryCache{}
		pol := &policy.TravelPolicy{
			SoftLimit:              decimal.NewFromInt(90000),
			BlockLimit:             decimal.NewFromInt(120000),
			PreferredDepartureFrom: "07:00",
			PreferredDepartureTo:   "22:00",
			AllowedClasses:         []string{"ECONOMY"},
			MaxConnections:         1,
		}
		service = flight.NewService(flightPostgres.NewFlightRepository(db), cache, staticPolicies{policy: pol}, slogger)
		Expect(service.Refresh(ctx, catalogue)).To(Succeed())
	})

	It("reads through the cache", func() {
		flights, err := service.ListFlights(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(flights).To(HaveLen(4))
		Expect(cache.sets).To(Equal(1))

		_, err = service.ListFlights(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(cache.sets).To(Equal(1))
		Expect(cache.gets).To(Equal(2))
	})

	It("falls back to the database when the cache fails", func() {
		cache.failGet = true
		flights, err := service.ListFlights(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(flights).To(HaveLen(4))
	})

	It("returns not found for unknown flights", func() {
		_, err := service.GetFlight(ctx, "XX-1")
		Expect(err).To(MatchError(flight.ErrFlightNotFound))
	})

	It("keeps money exact across the round trip", func() {
		f, err := service.GetFlight(ctx, "SU-1402")
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Price.Equal(decimal.NewFromInt(8500))).To(BeTrue())
		Expect(f.DepartureAt).To(BeTemporally("==", at(20, 8, 15)))
	})

	Describe("Search", func() {
		It("badges every result with the policy level", func() {
			views, err := service.Search(ctx, 1, flight.SearchCriteria{})
			Expect(err).NotTo(HaveOccurred())

			levels := map[string]policy.Level{}
			for _, v := range views {
				levels[v.ID] = v.PolicyLevel
			}
			Expect(levels).To(Equal(map[string]policy.Level{
				"SU-1402": policy.LevelOK,
				"S7-2041": policy.LevelWarn,
				"SU-1010": policy.LevelBlock,
				"DP-405":  policy.LevelWarn,
			}))
		})

		It("matches codes or city names and sorts by price by default", func() {
			views, err := service.Search(ctx, 1, flight.SearchCriteria{From: "moscow", To: "LED", Date: "2026-10-20"})
			Expect(err).NotTo(HaveOccurred())
			Expect(views).To(HaveLen(3))
			Expect(views[0].ID).To(Equal("S7-2041"))
			Expect(views[2].ID).To(Equal("DP-405"))
		})

		It("filters by price, class and refundability", func() {
			max := decimal.NewFromInt(9000)
			views, err := service.Search(ctx, 1, flight.SearchCriteria{MaxPrice: &max, RefundableOnly: true, Class: "ECONOMY"})
			Expect(err).NotTo(HaveOccurred())
			Expect(views).To(HaveLen(1))
			Expect(views[0].ID).To(Equal("SU-1402"))
		})

		It("sorts by departure and by duration", func() {
			views, err := service.Search(ctx, 1, flight.SearchCriteria{Sort: flight.SortDeparture, Limit: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect([]string{views[0].ID, views[1].ID}).To(Equal([]string{"SU-1402", "DP-405"}))

			views, err = service.Search(ctx, 1, flight.SearchCriteria{Sort: flight.SortDuration})
			Expect(err).NotTo(HaveOccurred())
			Expect(views[0].ID).To(Equal("S7-2041"))
		})

		It("rejects malformed criteria", func() {
			_, err := service.Search(ctx, 1, flight.SearchCriteria{Date: "20.10.2026"})
			Expect(err).To(HaveOccurred())
			_, err = service.Search(ctx, 1, flight.SearchCriteria{Sort: "carrier"})
			Expect(err).To(HaveOccurred())
		})
	})
})
