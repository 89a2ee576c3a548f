package flight

import (
	"time"

	errors "github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/core/common/validation"
	"github.com/frahmantamala/travel-booking/internal/policy"
	"github.com/shopspring/decimal"
)

const (
	SortPrice     = "price"
	SortDeparture = "departure"
	SortDuration  = "duration"
)

// SearchCriteria narrows the catalogue. From and To match an IATA code or a city name.
type SearchCriteria struct {
	From           string           `json:"from"`
	To             string           `json:"to"`
	Date           string           `json:"date"` // YYYY-MM-DD
	Class          string           `json:"class"`
	MaxPrice       *decimal.Decimal `json:"max_price,omitempty"`
	RefundableOnly bool             `json:"refundable_only"`
	Sort           string           `json:"sort"`
	Limit          int              `json:"limit"`
}

func (c SearchCriteria) Validate() error {
	v := validation.NewValidator()
	v.Field("date", c.Date).Custom(func(interface{}) *errors.AppError {
		if c.Date == "" {
			return nil
		}
		if _, err := time.Parse("2006-01-02", c.Date); err != nil {
			return errors.NewValidationFieldError("date", "date must use YYYY-MM-DD", errors.ErrCodeInvalidDate)
		}
		return nil
	})
	v.Field("class", c.Class).OneOf(policy.Classes...)
	v.Field("sort", c.Sort).OneOf(SortPrice, SortDeparture, SortDuration)
	v.Field("limit", c.Limit).IntRange(0, 200)
	if c.MaxPrice != nil {
		v.Field("max_price", *c.MaxPrice).Positive()
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
