package policy

import (
	"time"

	"github.com/shopspring/decimal"
)

type TravelPolicy struct {
	ID                    int64           `gorm:"primaryKey"`
	CompanyID             int64           `gorm:"column:company_id;uniqueIndex;not null"`
	SoftLimit             decimal.Decimal `gorm:"column:soft_limit;type:numeric(14,2);not null"`
	BlockLimit            decimal.Decimal `gorm:"column:block_limit;type:numeric(14,2);not null"`
	WindowFrom            string          `gorm:"column:window_from;not null"`
	WindowTo              string          `gorm:"column:window_to;not null"`
	AllowedClasses        string          `gorm:"column:allowed_classes"`
	MaxConnections        int             `gorm:"column:max_connections;not null;default:1"`
	RequireApprovalOnWarn bool            `gorm:"column:require_approval_on_warn;not null;default:false"`
	CreatedAt             time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (TravelPolicy) TableName() string {
	return "travel_policies"
}
