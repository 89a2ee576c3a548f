package notification

import "time"

type Notification struct {
	ID        int64     `gorm:"primaryKey"`
	CompanyID int64     `gorm:"column:company_id;index;not null"`
	Type      string    `gorm:"column:type;not null"`
	Title     string    `gorm:"column:title;not null"`
	Message   string    `gorm:"column:message"`
	EntityID  string    `gorm:"column:entity_id"`
	Read      bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
