package policy_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	policyDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/policy"
	"github.com/frahmantamala/travel-booking/internal/policy"
	policyPostgres "github.com/frahmantamala/travel-booking/internal/policy/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Policy Service", func() {
	var (
		ctx     context.Context
		service *policy.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&policyDatamodel.TravelPolicy{})).To(Succeed())

		defaults, err := policy.DefaultsFromConfig(internal.BookingConfig{
			DefaultSoftLimit:  "90000",
			DefaultBlockLimit: "120000",
			DefaultWindowFrom: "07:00",
			DefaultWindowTo:   "22:00",
		})
		Expect(err).NotTo(HaveOccurred())

		service = policy.NewService(policyPostgres.NewPolicyRepository(db), defaults, slogger)
	})

	It("falls back to the configured default", func() {
		p, err := service.GetPolicy(ctx, 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.CompanyID).To(Equal(int64(7)))
		Expect(p.SoftLimit.Equal(decimal.NewFromInt(90000))).To(BeTrue())
		Expect(p.PreferredDepartureFrom).To(Equal("07:00"))
	})

	It("stores and then overwrites a company policy", func() {
		dto := policy.UpdatePolicyDTO{
			SoftLimit:              decimal.NewFromInt(50000),
			BlockLimit:             decimal.NewFromInt(80000),
			PreferredDepartureFrom: "08:00",
			PreferredDepartureTo:   "20:00",
			AllowedClasses:         []string{"ECONOMY", "BUSINESS"},
			MaxConnections:         0,
			RequireApprovalOnWarn:  true,
		}
		_, err := service.UpdatePolicy(ctx, 7, dto)
		Expect(err).NotTo(HaveOccurred())

		dto.BlockLimit = decimal.NewFromInt(95000)
		_, err = service.UpdatePolicy(ctx, 7, dto)
		Expect(err).NotTo(HaveOccurred())

		p, err := service.GetPolicy(ctx, 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.BlockLimit.Equal(decimal.NewFromInt(95000))).To(BeTrue())
		Expect(p.AllowedClasses).To(ConsistOf("ECONOMY", "BUSINESS"))
		Expect(p.RequireApprovalOnWarn).To(BeTrue())
	})

	It("rejects a soft limit above the block limit", func() {
		_, err := service.UpdatePolicy(ctx, 7, policy.UpdatePolicyDTO{
			SoftLimit:              decimal.NewFromInt(100),
			BlockLimit:             decimal.NewFromInt(50),
			PreferredDepartureFrom: "08:00",
			PreferredDepartureTo:   "20:00",
		})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
	})

	It("rejects malformed window times", func() {
		_, err := service.UpdatePolicy(ctx, 7, policy.UpdatePolicyDTO{
			SoftLimit:              decimal.NewFromInt(10),
			BlockLimit:             decimal.NewFromInt(50),
			PreferredDepartureFrom: "8am",
			PreferredDepartureTo:   "20:00",
		})
		Expect(err).To(HaveOccurred())
	})

	It("evaluates an offer against the stored policy", func() {
		eval, err := service.EvaluatePrice(ctx, 7, policy.EvaluateDTO{
			Price:       decimal.NewFromInt(130000),
			DepartureAt: time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(eval.Level).To(Equal(policy.LevelBlock))
	})
})
