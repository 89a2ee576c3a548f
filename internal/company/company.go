package company

import (
	"time"

	companyDatamodel "github.com/frahmantamala/travel-booking/internal/core/datamodel/company"
	"github.com/shopspring/decimal"
)

type Tariff string

const (
	TariffFree    Tariff = "FREE"
	TariffPostpay Tariff = "POSTPAY"
	TariffFlex    Tariff = "FLEX"
)

func (t Tariff) Valid() bool {
	switch t {
	case TariffFree, TariffPostpay, TariffFlex:
		return true
	}
	return false
}

func (t Tariff) AllowsPostpay() bool {
	return t == TariffPostpay || t == TariffFlex
}

type PaymentMethod string

const (
	PaymentBalance       PaymentMethod = "BALANCE"
	PaymentPostpay       PaymentMethod = "POSTPAY"
	PaymentCorporateCard PaymentMethod = "CORPORATE_CARD"
)

type CorporateCard struct {
	Last4  string `json:"last4"`
	Holder string `json:"holder"`
	Expiry string `json:"expiry"`
}

type Company struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Balance        decimal.Decimal `json:"balance"`
	PostpayLimit   decimal.Decimal `json:"postpay_limit"`
	PostpayUsed    decimal.Decimal `json:"postpay_used"`
	PostpayDueDays int             `json:"postpay_due_days"`
	Tariff         Tariff          `json:"tariff"`
	Card           *CorporateCard  `json:"card,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PostpayAvailable is the unused part of the postpay limit.
func (c *Company) PostpayAvailable() decimal.Decimal {
	avail := c.PostpayLimit.Sub(c.PostpayUsed)
	if avail.IsNegative() {
		return decimal.Zero
	}
	return avail
}

// PaymentMethods lists what the company may pay with right now.
func (c *Company) PaymentMethods() []PaymentMethod {
	methods := []PaymentMethod{PaymentBalance}
	if c.Tariff.AllowsPostpay() {
		methods = append(methods, PaymentPostpay)
	}
	if c.Card != nil {
		methods = append(methods, PaymentCorporateCard)
	}
	return methods
}

func (c *Company) Allows(method PaymentMethod) bool {
	for _, m := range c.PaymentMethods() {
		if m == method {
			return true
		}
	}
	return false
}

// CanPay checks the method is allowed and has room for amount.
// Corporate card payments are authorised by the card issuer and always pass here.
func (c *Company) CanPay(method PaymentMethod, amount decimal.Decimal) error {
	if !c.Allows(method) {
		return ErrPaymentMethodNotAllowed
	}
	switch method {
	case PaymentBalance:
		if c.Balance.LessThan(amount) {
			return ErrInsufficientFunds
		}
	case PaymentPostpay:
		if c.PostpayAvailable().LessThan(amount) {
			return ErrPostpayLimitExceeded
		}
	}
	return nil
}

type CatalogEntry struct {
	Tariff     Tariff          `json:"tariff"`
	Title      string          `json:"title"`
	MonthlyFee decimal.Decimal `json:"monthly_fee"`
	TicketFee  decimal.Decimal `json:"ticket_fee"`
	Postpay    bool            `json:"postpay"`
	Features   []string        `json:"features"`
}

// Catalog returns the tariff offering shown on the pricing page.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{
			Tariff:     TariffFree,
			Title:      "Free",
			MonthlyFee: decimal.Zero,
			TicketFee:  decimal.NewFromInt(350),
			Features:   []string{"Prepaid balance", "Travel policy", "Employee documents", "CSV reports"},
		},
		{
			Tariff:     TariffPostpay,
			Title:      "Postpay",
			MonthlyFee: decimal.NewFromInt(4900),
			TicketFee:  decimal.NewFromInt(200),
			Postpay:    true,
			Features:   []string{"Everything in Free", "Postpay with deferred settlement", "Approval workflow", "XLSX reports"},
		},
		{
			Tariff:     TariffFlex,
			Title:      "Flex",
			MonthlyFee: decimal.NewFromInt(14900),
			TicketFee:  decimal.Zero,
			Postpay:    true,
			Features:   []string{"Everything in Postpay", "No ticket fee", "Dedicated travel manager", "Trip baskets"},
		},
	}
}

func ToDataModel(c *Company) *companyDatamodel.Company {
	m := &companyDatamodel.Company{
		ID:             c.ID,
		Name:           c.Name,
		Balance:        c.Balance,
		PostpayLimit:   c.PostpayLimit,
		PostpayUsed:    c.PostpayUsed,
		PostpayDueDays: c.PostpayDueDays,
		Tariff:         string(c.Tariff),
		CreatedAt:      c.CreatedAt,
	}
	if c.Card != nil {
		last4, holder, expiry := c.Card.Last4, c.Card.Holder, c.Card.Expiry
		m.CardLast4, m.CardHolder, m.CardExpiry = &last4, &holder, &expiry
	}
	return m
}

func FromDataModel(m *companyDatamodel.Company) *Company {
	c := &Company{
		ID:             m.ID,
		Name:           m.Name,
		Balance:        m.Balance,
		PostpayLimit:   m.PostpayLimit,
		PostpayUsed:    m.PostpayUsed,
		PostpayDueDays: m.PostpayDueDays,
		Tariff:         Tariff(m.Tariff),
		CreatedAt:      m.CreatedAt,
	}
	if m.CardLast4 != nil {
		c.Card = &CorporateCard{Last4: *m.CardLast4}
		if m.CardHolder != nil {
			c.Card.Holder = *m.CardHolder
		}
		if m.CardExpiry != nil {
			c.Card.Expiry = *m.CardExpiry
		}
	}
	return c
}
