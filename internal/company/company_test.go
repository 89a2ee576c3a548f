package company_test

import (
	"time"

	"github.com/frahmantamala/travel-booking/internal/company"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("Company payment rules", func() {
	It("offers balance only on the free tariff", func() {
		c := &company.Company{Tariff: company.TariffFree}
		Expect(c.PaymentMethods()).To(Equal([]company.PaymentMethod{company.PaymentBalance}))
	})

	It("adds postpay and the corporate card when available", func() {
		c := &company.Company{Tariff: company.TariffFlex, Card: &company.CorporateCard{Last4: "4242"}}
		Expect(c.PaymentMethods()).To(ConsistOf(company.PaymentBalance, company.PaymentPostpay, company.PaymentCorporateCard))
	})

	It("checks the balance and postpay headroom", func() {
		c := &company.Company{
			Tariff:       company.TariffPostpay,
			Balance:      decimal.NewFromInt(1000),
			PostpayLimit: decimal.NewFromInt(5000),
			PostpayUsed:  decimal.NewFromInt(4500),
		}
		Expect(c.CanPay(company.PaymentBalance, decimal.NewFromInt(1000))).To(Succeed())
		Expect(c.CanPay(company.PaymentBalance, decimal.NewFromInt(1001))).To(MatchError(company.ErrInsufficientFunds))
		Expect(c.CanPay(company.PaymentPostpay, decimal.NewFromInt(600))).To(MatchError(company.ErrPostpayLimitExceeded))
		Expect(c.CanPay(company.PaymentCorporateCard, decimal.NewFromInt(1))).To(MatchError(company.ErrPaymentMethodNotAllowed))
	})
})

var _ = Describe("Card validation", func() {
	now := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)

	DescribeTable("ValidCardNumber",
		func(number string, valid bool) {
			Expect(company.ValidCardNumber(number)).To(Equal(valid))
		},
		Entry("visa test number", "4242 4242 4242 4242", true),
		Entry("mastercard test number", "5555-5555-5555-4444", true),
		Entry("bad checksum", "4242424242424241", false),
		Entry("too short", "4242", false),
		Entry("letters", "4242abcd42424242", false),
	)

	It("rejects expired cards", func() {
		dto := company.AttachCardDTO{CardNumber: "4242424242424242", Holder: "ACME", Expiry: "09/26"}
		Expect(dto.Validate(now)).To(HaveOccurred())
	})

	It("accepts cards valid through the current month", func() {
		dto := company.AttachCardDTO{CardNumber: "4242424242424242", Holder: "ACME", Expiry: "10/26"}
		Expect(dto.Validate(now)).To(Succeed())
	})
})
