package company

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	errors "github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

type ChangeTariffDTO struct {
	Tariff Tariff `json:"tariff"`
}

func (d ChangeTariffDTO) Validate() error {
	if !d.Tariff.Valid() {
		return ErrInvalidTariff
	}
	return nil
}

type TopUpDTO struct {
	Amount decimal.Decimal `json:"amount"`
}

func (d TopUpDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("amount", d.Amount).Positive()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type AttachCardDTO struct {
	CardNumber string `json:"card_number"`
	Holder     string `json:"holder"`
	Expiry     string `json:"expiry"` // MM/YY
}

// Validate checks the card shape and that it has not expired as of now.
func (d AttachCardDTO) Validate(now time.Time) error {
	v := validation.NewValidator()
	v.Field("holder", d.Holder).Required().MaxLength(100)
	v.Field("expiry", d.Expiry).Required().Custom(func(interface{}) *errors.AppError {
		if _, err := parseExpiry(d.Expiry, now); err != nil {
			return errors.NewValidationFieldError("expiry", err.Error(), errors.ErrCodeInvalidCard)
		}
		return nil
	})
	if err := v.Validate(); err != nil {
		return err
	}
	if !ValidCardNumber(d.CardNumber) {
		return ErrInvalidCard
	}
	return nil
}

type UpdatePostpayDTO struct {
	Limit   decimal.Decimal `json:"limit"`
	DueDays int             `json:"due_days"`
}

func (d UpdatePostpayDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("limit", d.Limit).Custom(func(interface{}) *errors.AppError {
		if d.Limit.IsNegative() {
			return errors.NewValidationFieldError("limit", "limit must not be negative", errors.ErrCodeInvalidAmount)
		}
		return nil
	})
	v.Field("due_days", d.DueDays).IntRange(1, 90)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ValidCardNumber checks length and the Luhn checksum. Spaces and dashes are ignored.
func ValidCardNumber(number string) bool {
	digits := normalizeCardNumber(number)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		n := int(c - '0')
		if double {
			n *= 2
			if n > 9 {
				n -= 9
			}
		}
		sum += n
		double = !double
	}
	return sum%10 == 0
}

func normalizeCardNumber(number string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(number)
}

func last4(number string) string {
	digits := normalizeCardNumber(number)
	return digits[len(digits)-4:]
}

// parseExpiry returns the first instant after the card's last valid month.
func parseExpiry(expiry string, now time.Time) (time.Time, error) {
	parts := strings.Split(expiry, "/")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("expiry must use MM/YY")
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("expiry month is invalid")
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || year < 0 || year > 99 {
		return time.Time{}, fmt.Errorf("expiry year is invalid")
	}
	end := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	if !end.After(now) {
		return time.Time{}, fmt.Errorf("card has expired")
	}
	return end, nil
}
