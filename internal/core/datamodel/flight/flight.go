package flight

import (
	"time"

	"github.com/shopspring/decimal"
)

type Flight struct {
	ID           string          `gorm:"primaryKey"`
	FlightNumber string          `gorm:"column:flight_number;not null"`
	Carrier      string          `gorm:"column:carrier;not null"`
	FromCode     string          `gorm:"column:from_code;index;not null"`
	ToCode       string          `gorm:"column:to_code;index;not null"`
	FromCity     string          `gorm:"column:from_city"`
	ToCity       string          `gorm:"column:to_city"`
	DepartureAt  time.Time       `gorm:"column:departure_at;not null"`
	ArrivalAt    time.Time       `gorm:"column:arrival_at;not null"`
	Class        string          `gorm:"column:class;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(14,2);not null"`
	Connections  int             `gorm:"column:connections;not null;default:0"`
	Refundable   bool            `gorm:"column:refundable"`
	Changeable   bool            `gorm:"column:changeable"`
}

func (Flight) TableName() string {
	return "flights"
}
