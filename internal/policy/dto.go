package policy

import (
	"time"

	errors "github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

var Classes = []string{"ECONOMY", "PREMIUM_ECONOMY", "BUSINESS", "FIRST"}

type UpdatePolicyDTO struct {
	SoftLimit              decimal.Decimal `json:"soft_limit"`
	BlockLimit             decimal.Decimal `json:"block_limit"`
	PreferredDepartureFrom string          `json:"preferred_departure_from"`
	PreferredDepartureTo   string          `json:"preferred_departure_to"`
	AllowedClasses         []string        `json:"allowed_classes"`
	MaxConnections         int             `json:"max_connections"`
	RequireApprovalOnWarn  bool            `json:"require_approval_on_warn"`
}

func clockValidator(field string) func(interface{}) *errors.AppError {
	return func(v interface{}) *errors.AppError {
		s, _ := v.(string)
		if _, err := ParseClock(s); err != nil {
			return errors.NewValidationFieldError(field, field+" must use HH:MM", errors.ErrCodeInvalidValue)
		}
		return nil
	}
}

func (d UpdatePolicyDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("soft_limit", d.SoftLimit).Positive()
	v.Field("block_limit", d.BlockLimit).Positive().Custom(func(interface{}) *errors.AppError {
		if d.SoftLimit.GreaterThan(d.BlockLimit) {
			return errors.NewValidationFieldError("block_limit", "block_limit must not be below soft_limit", errors.ErrCodeInvalidAmount)
		}
		return nil
	})
	v.Field("preferred_departure_from", d.PreferredDepartureFrom).Required().Custom(clockValidator("preferred_departure_from"))
	v.Field("preferred_departure_to", d.PreferredDepartureTo).Required().Custom(clockValidator("preferred_departure_to"))
	v.Field("max_connections", d.MaxConnections).IntRange(0, 3)
	for _, c := range d.AllowedClasses {
		v.Field("allowed_classes", c).OneOf(Classes...)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type EvaluateDTO struct {
	Price       decimal.Decimal `json:"price"`
	DepartureAt time.Time       `json:"departure_at"`
	Class       string          `json:"class"`
	Connections int             `json:"connections"`
}

func (d EvaluateDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("price", d.Price).Positive()
	v.Field("departure_at", d.DepartureAt).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
