package trip

import (
	"time"

	"github.com/shopspring/decimal"
)

type Trip struct {
	ID            string          `gorm:"primaryKey"`
	CompanyID     int64           `gorm:"column:company_id;index;not null"`
	Title         string          `gorm:"column:title;not null"`
	Total         decimal.Decimal `gorm:"column:total;type:numeric(14,2);not null"`
	Type          string          `gorm:"column:type;not null"`
	Status        string          `gorm:"column:status;index;not null"`
	EmployeeID    *int64          `gorm:"column:employee_id"`
	CreatedBy     int64           `gorm:"column:created_by"`
	PaymentMethod string          `gorm:"column:payment_method;not null"`
	FlightID      *string         `gorm:"column:flight_id"`
	PolicyLevel   string          `gorm:"column:policy_level;not null"`
	Charged       bool            `gorm:"column:charged;not null;default:false"`
	Ticketed      bool            `gorm:"column:ticketed;not null;default:false"`
	Passengers    []Passenger     `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
	Items         []Item          `gorm:"foreignKey:TripID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Trip) TableName() string {
	return "trips"
}

type Passenger struct {
	ID           int64   `gorm:"primaryKey"`
	TripID       string  `gorm:"column:trip_id;index;not null"`
	EmployeeID   *int64  `gorm:"column:employee_id"`
	FullName     string  `gorm:"column:full_name;not null"`
	Guest        bool    `gorm:"column:guest;not null;default:false"`
	TicketNumber *string `gorm:"column:ticket_number"`
}

func (Passenger) TableName() string {
	return "trip_passengers"
}

type Item struct {
	ID          int64           `gorm:"primaryKey"`
	TripID      string          `gorm:"column:trip_id;index;not null"`
	Kind        string          `gorm:"column:kind;not null"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(14,2);not null"`
	FlightID    *string         `gorm:"column:flight_id"`
	PolicyLevel string          `gorm:"column:policy_level"`
}

func (Item) TableName() string {
	return "trip_items"
}

type Penalty struct {
	ID         int64           `gorm:"primaryKey"`
	CompanyID  int64           `gorm:"column:company_id;index;not null"`
	TripID     string          `gorm:"column:trip_id;index;not null"`
	EmployeeID *int64          `gorm:"column:employee_id"`
	Level      string          `gorm:"column:level;not null"`
	Reason     string          `gorm:"column:reason"`
	Excess     decimal.Decimal `gorm:"column:excess;type:numeric(14,2);not null;default:0"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Penalty) TableName() string {
	return "policy_penalties"
}
