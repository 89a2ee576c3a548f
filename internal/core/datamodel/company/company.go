package company

import (
	"time"

	"github.com/shopspring/decimal"
)

type Company struct {
	ID             int64           `gorm:"primaryKey"`
	Name           string          `gorm:"column:name;not null"`
	Balance        decimal.Decimal `gorm:"column:balance;type:numeric(14,2);not null;default:0"`
	PostpayLimit   decimal.Decimal `gorm:"column:postpay_limit;type:numeric(14,2);not null;default:0"`
	PostpayUsed    decimal.Decimal `gorm:"column:postpay_used;type:numeric(14,2);not null;default:0"`
	PostpayDueDays int             `gorm:"column:postpay_due_days;not null;default:30"`
	Tariff         string          `gorm:"column:tariff;not null;default:FREE"`
	CardLast4      *string         `gorm:"column:card_last4"`
	CardHolder     *string         `gorm:"column:card_holder"`
	CardExpiry     *string         `gorm:"column:card_expiry"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Company) TableName() string {
	return "companies"
}
