package trip

import (
	"fmt"
	"strings"
	"time"

	errors "github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/company"
	"github.com/frahmantamala/travel-booking/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

func paymentMethods() []string {
	return []string{string(company.PaymentBalance), string(company.PaymentPostpay), string(company.PaymentCorporateCard)}
}

// PassengerDTO names either a company employee or an ad hoc guest.
type PassengerDTO struct {
	EmployeeID *int64 `json:"employee_id,omitempty"`
	FullName   string `json:"full_name,omitempty"`
}

type PurchaseDTO struct {
	FlightID      string                `json:"flight_id"`
	Passengers    []PassengerDTO        `json:"passengers"`
	PaymentMethod company.PaymentMethod `json:"payment_method"`
}

func (d PurchaseDTO) Validate() error {
	if len(d.Passengers) == 0 {
		return ErrNoPassengers
	}
	v := validation.NewValidator()
	v.Field("flight_id", d.FlightID).Required()
	v.Field("payment_method", string(d.PaymentMethod)).Required().OneOf(paymentMethods()...)
	addPassengerRules(v, d.Passengers)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func addPassengerRules(v *validation.ValidationBuilder, passengers []PassengerDTO) {
	seen := map[int64]bool{}
	for i, p := range passengers {
		field := fmt.Sprintf("passengers[%d]", i)
		p := p
		v.Field(field, p).Custom(func(interface{}) *errors.AppError {
			switch {
			case p.EmployeeID != nil && *p.EmployeeID <= 0:
				return errors.NewValidationFieldError(field, field+" has an invalid employee_id", errors.ErrCodeInvalidValue)
			case p.EmployeeID != nil && seen[*p.EmployeeID]:
				return errors.NewValidationFieldError(field, field+" repeats an employee", errors.ErrCodeInvalidValue)
			case p.EmployeeID == nil && strings.TrimSpace(p.FullName) == "":
				return errors.NewValidationFieldError(field, field+" guest requires full_name", errors.ErrCodeValidationFailed)
			}
			if p.EmployeeID != nil {
				seen[*p.EmployeeID] = true
			}
			return nil
		})
	}
}

type BasketItemDTO struct {
	Kind        ItemKind        `json:"kind"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	FlightID    *string         `json:"flight_id,omitempty"`
}

type BasketDTO struct {
	Title         string                `json:"title"`
	EmployeeID    *int64                `json:"employee_id,omitempty"`
	Items         []BasketItemDTO       `json:"items"`
	PaymentMethod company.PaymentMethod `json:"payment_method"`
}

func (d BasketDTO) Validate() error {
	if len(d.Items) == 0 {
		return ErrNoItems
	}
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("payment_method", string(d.PaymentMethod)).Required().OneOf(paymentMethods()...)
	if d.EmployeeID != nil {
		v.Field("employee_id", *d.EmployeeID).Positive()
	}
	for i, it := range d.Items {
		field := fmt.Sprintf("items[%d]", i)
		v.Field(field+".kind", string(it.Kind)).Required().OneOf(ItemKinds()...)
		if it.Kind == ItemFlight {
			v.Field(field+".flight_id", it.FlightID).Required()
		} else {
			v.Field(field+".description", it.Description).Required().MaxLength(200)
			v.Field(field+".price", it.Price).Positive()
		}
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type ListFilter struct {
	Status     Status     `json:"status"`
	Type       Type       `json:"type"`
	EmployeeID *int64     `json:"employee_id,omitempty"`
	From       *time.Time `json:"from,omitempty"`
	To         *time.Time `json:"to,omitempty"`
	Query      string     `json:"query"`
	Limit      int        `json:"limit"`
}

func (f ListFilter) Validate() error {
	v := validation.NewValidator()
	v.Field("status", string(f.Status)).OneOf(Statuses()...)
	v.Field("type", string(f.Type)).OneOf(string(TypeSingle), string(TypeBasket))
	v.Field("limit", f.Limit).IntRange(0, 1000)
	v.Field("to", f.To).Custom(func(interface{}) *errors.AppError {
		if f.From != nil && f.To != nil && f.To.Before(*f.From) {
			return errors.NewValidationFieldError("to", "to must not be before from", errors.ErrCodeInvalidDate)
		}
		return nil
	})
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
