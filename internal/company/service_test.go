package company_test

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/company"
	companyPostgres "github.com/frahmantamala/travel-booking/internal/company/postgres"
	companyDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/company"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("Company Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		service *company.Service
		acme    *company.Company
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&companyDatamodel.Company{})).To(Succeed())

		service = company.NewService(companyPostgres.NewCompanyRepository(db), slogger).
			WithClock(func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) })

		acme, err = service.CreateCompany(ctx, "ACME Travel")
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates companies on the free tariff", func() {
		Expect(acme.ID).To(BeNumerically(">", 0))
		Expect(acme.Tariff).To(Equal(company.TariffFree))
		Expect(acme.Balance.IsZero()).To(BeTrue())
	})

	It("requires a company name", func() {
		_, err := service.CreateCompany(ctx, "  ")
		Expect(err).To(HaveOccurred())
	})

	It("returns not found for unknown companies", func() {
		_, err := service.GetCompany(ctx, 999)
		Expect(err).To(MatchError(company.ErrCompanyNotFound))
	})

	It("tops up the balance", func() {
		c, err := service.TopUpBalance(ctx, acme.ID, company.TopUpDTO{Amount: decimal.NewFromInt(250000)})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Balance.Equal(decimal.NewFromInt(250000))).To(BeTrue())

		c, err = service.TopUpBalance(ctx, acme.ID, company.TopUpDTO{Amount: decimal.RequireFromString("0.50")})
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Balance.Equal(decimal.RequireFromString("250000.50"))).To(BeTrue())
	})

	It("rejects non-positive top ups", func() {
		_, err := service.TopUpBalance(ctx, acme.ID, company.TopUpDTO{Amount: decimal.NewFromInt(-5)})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(400))
	})

	Describe("tariffs", func() {
		It("grants a default postpay limit when moving to postpay", func() {
			c, err := service.ChangeTariff(ctx, acme.ID, company.ChangeTariffDTO{Tariff: company.TariffPostpay})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.PostpayLimit.Equal(company.DefaultPostpayLimit)).To(BeTrue())

			methods, err := service.PaymentMethods(ctx, acme.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(methods).To(ContainElement(company.PaymentPostpay))
		})

		It("refuses to leave postpay while debt is outstanding", func() {
			_, err := service.ChangeTariff(ctx, acme.ID, company.ChangeTariffDTO{Tariff: company.TariffFlex})
			Expect(err).NotTo(HaveOccurred())
			Expect(db.Model(&companyDatamodel.Company{}).Where("id = ?", acme.ID).
				Update("postpay_used", decimal.NewFromInt(1000)).Error).To(Succeed())

			_, err = service.ChangeTariff(ctx, acme.ID, company.ChangeTariffDTO{Tariff: company.TariffFree})
			Expect(err).To(MatchError(company.ErrOutstandingPostpay))

			_, err = service.ChangeTariff(ctx, acme.ID, company.ChangeTariffDTO{Tariff: company.TariffPostpay})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects unknown tariffs", func() {
			_, err := service.ChangeTariff(ctx, acme.ID, company.ChangeTariffDTO{Tariff: "GOLD"})
			Expect(err).To(MatchError(company.ErrInvalidTariff))
		})
	})

	Describe("postpay terms", func() {
		It("are unavailable on the free tariff", func() {
			_, err := service.UpdatePostpay(ctx, acme.ID, company.UpdatePostpayDTO{Limit: decimal.NewFromInt(1000), DueDays: 30})
			Expect(err).To(MatchError(company.ErrPostpayNotAvailable))
		})

		It("validate due days", func() {
			_, err := service.ChangeTariff(ctx, acme.ID, company.ChangeTariffDTO{Tariff: company.TariffPostpay})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.UpdatePostpay(ctx, acme.ID, company.UpdatePostpayDTO{Limit: decimal.NewFromInt(1000), DueDays: 120})
			Expect(err).To(HaveOccurred())

			c, err := service.UpdatePostpay(ctx, acme.ID, company.UpdatePostpayDTO{Limit: decimal.NewFromInt(1000), DueDays: 45})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.PostpayDueDays).To(Equal(45))
		})
	})

	Describe("corporate card", func() {
		It("stores only the last four digits and enables card payments", func() {
			c, err := service.AttachCard(ctx, acme.ID, company.AttachCardDTO{CardNumber: "4242 4242 4242 4242", Holder: "ACME LLC", Expiry: "12/28"})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Card.Last4).To(Equal("4242"))

			var stored companyDatamodel.Company
			Expect(db.First(&stored, acme.ID).Error).To(Succeed())
			Expect(*stored.CardLast4).To(Equal("4242"))

			Expect(service.CanPay(ctx, acme.ID, company.PaymentCorporateCard, decimal.NewFromInt(1))).To(Succeed())

			c, err = service.DetachCard(ctx, acme.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Card).To(BeNil())
			Expect(service.CanPay(ctx, acme.ID, company.PaymentCorporateCard, decimal.NewFromInt(1))).To(MatchError(company.ErrPaymentMethodNotAllowed))
		})

		It("rejects numbers failing the checksum", func() {
			_, err := service.AttachCard(ctx, acme.ID, company.AttachCardDTO{CardNumber: "4242424242424241", Holder: "ACME", Expiry: "12/28"})
			Expect(err).To(MatchError(company.ErrInvalidCard))
		})
	})
})
