package seed_test

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/auth"
	authPostgres "github.com/frahmantamala/travel-booking/internal/auth/postgres"
	"github.com/frahmantamala/travel-booking/internal/company"
	companyPostgres "github.com/frahmantamala/travel-booking/internal/company/postgres"
	"github.com/frahmantamala/travel-booking/internal/employee"
	employeePostgres "github.com/frahmantamala/travel-booking/internal/employee/postgres"
	"github.com/frahmantamala/travel-booking/internal/flight"
	flightPostgres "github.com/frahmantamala/travel-booking/internal/flight/postgres"
	"github.com/frahmantamala/travel-booking/internal/policy"
	policyPostgres "github.com/frahmantamala/travel-booking/internal/policy/postgres"
	"github.com/frahmantamala/travel-booking/internal/seed"
	"github.com/frahmantamala/travel-booking/internal/storage"
	"github.com/frahmantamala/travel-booking/internal/user"
	userPostgres "github.com/frahmantamala/travel-booking/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("Fixtures", func() {
	It("parses the embedded demo data", func() {
		f, err := seed.DefaultFixtures()
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Routes).NotTo(BeEmpty())
		Expect(f.Companies).To(HaveLen(2))
		Expect(f.Airports).To(HaveKeyWithValue("AER", "Sochi"))
	})

	It("rejects routes to unknown airports", func() {
		_, err := seed.ParseFixtures([]byte(`
airports: {SVO: Moscow}
routes:
  - {number: XX 1, from: SVO, to: JFK, departs: "10:00", minutes: 60, price: "1"}
`))
		Expect(err).To(MatchError(ContainSubstring("JFK")))
	})

	It("expands routes into daily flights starting tomorrow", func() {
		f, err := seed.ParseFixtures([]byte(`
airports: {SVO: Moscow, LED: Saint Petersburg}
flight_days: 3
routes:
  - {number: SU 0024, carrier: Aeroflot, from: SVO, to: LED, departs: "07:45", minutes: 85, class: ECONOMY, price: "6800"}
`))
		Expect(err).NotTo(HaveOccurred())

		now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
		flights, err := seed.BuildFlights(f, now)
		Expect(err).NotTo(HaveOccurred())
		Expect(flights).To(HaveLen(3))
		Expect(flights[0].ID).To(Equal("SU0024-20260311"))
		Expect(flights[0].DepartureAt).To(Equal(time.Date(2026, 3, 11, 7, 45, 0, 0, time.UTC)))
		Expect(flights[0].Duration()).To(Equal(85 * time.Minute))
		Expect(flights[0].ToCity).To(Equal("Saint Petersburg"))
		Expect(flights[2].ID).To(Equal("SU0024-20260313"))
	})
})

var _ = Describe("Seeder", func() {
	var (
		ctx       context.Context
		seeder    *seed.Seeder
		accounts  *auth.Service
		companies *company.Service
		employees *employee.Service
		flights   *flight.Service
		users     *user.Service
		fixtures  *seed.Fixtures
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := storage.Open(internal.DatabaseConfig{Driver: "sqlite", Source: ":memory:"}, slogger)
		Expect(err).NotTo(HaveOccurred())
		Expect(storage.AutoMigrate(db)).To(Succeed())

		tokens := auth.NewJWTTokenGenerator(internal.SecurityConfig{
			JWTSecret:            strings.Repeat("a", 32),
			JWTRefreshSecret:     strings.Repeat("b", 32),
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 24 * time.Hour,
		})
		accounts = auth.NewService(authPostgres.NewRepository(db), tokens, bcrypt.MinCost, slogger)
		companies = company.NewService(companyPostgres.NewCompanyRepository(db), slogger)
		users = user.NewService(userPostgres.NewUserRepository(db), companies, bcrypt.MinCost, slogger)
		employees = employee.NewService(employeePostgres.NewEmployeeRepository(db), nil, 60, slogger)
		defaults, err := policy.DefaultsFromConfig(internal.BookingConfig{
			DefaultSoftLimit: "90000", DefaultBlockLimit: "120000",
			DefaultWindowFrom: "07:00", DefaultWindowTo: "22:00",
		})
		Expect(err).NotTo(HaveOccurred())
		policies := policy.NewService(policyPostgres.NewPolicyRepository(db), defaults, slogger)
		flights = flight.NewService(flightPostgres.NewFlightRepository(db), nil, policies, slogger)

		seeder = seed.NewSeeder(db, seed.Services{
			Accounts:  accounts,
			Users:     users,
			Companies: companies,
			Employees: employees,
			Flights:   flights,
		}, slogger)

		fixtures, err = seed.DefaultFixtures()
		Expect(err).NotTo(HaveOccurred())
	})

	It("loads flights, companies, users and employees", func() {
		Expect(seeder.Run(ctx, fixtures)).To(Succeed())

		all, err := flights.ListFlights(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(len(fixtures.Routes) * fixtures.FlightDays))

		tokens, err := accounts.Login(ctx, auth.LoginDTO{Email: "manager@northwind.test", Password: "password123"})
		Expect(err).NotTo(HaveOccurred())
		p, err := accounts.Authenticate(ctx, tokens.AccessToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.HasPermission(user.PermApproveTrips)).To(BeTrue())

		c, err := companies.GetCompany(ctx, p.CompanyID)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Tariff).To(Equal(company.TariffFlex))
		Expect(c.Balance.Equal(decimal.NewFromInt(500000))).To(BeTrue())

		staff, err := employees.ListEmployees(ctx, p.CompanyID, employee.ListFilter{})
		Expect(err).NotTo(HaveOccurred())
		Expect(staff).To(HaveLen(3))

		expiring, err := employees.ExpiringDocuments(ctx, p.CompanyID, 60)
		Expect(err).NotTo(HaveOccurred())
		Expect(expiring).To(HaveLen(2))
	})

	It("skips companies that were already seeded", func() {
		Expect(seeder.Run(ctx, fixtures)).To(Succeed())
		Expect(seeder.Run(ctx, fixtures)).To(Succeed())

		tokens, err := accounts.Login(ctx, auth.LoginDTO{Email: "admin@northwind.test", Password: "password123"})
		Expect(err).NotTo(HaveOccurred())
		p, err := accounts.Authenticate(ctx, tokens.AccessToken)
		Expect(err).NotTo(HaveOccurred())
		list, err := users.ListUsers(ctx, p.CompanyID)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(3))
	})

	It("clears every table", func() {
		Expect(seeder.Run(ctx, fixtures)).To(Succeed())
		Expect(seeder.Clear(ctx)).To(Succeed())

		all, err := flights.ListFlights(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(BeEmpty())

		_, err = accounts.Login(ctx, auth.LoginDTO{Email: "admin@northwind.test", Password: "password123"})
		Expect(err).To(MatchError(auth.ErrInvalidCredentials))
	})
})
