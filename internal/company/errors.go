package company

import "github.com/frahmantamala/travel-booking/internal"

var (
	ErrCompanyNotFound         = internal.ErrCompanyNotFound
	ErrPaymentMethodNotAllowed = internal.ErrPaymentNotAllowed
	ErrInsufficientFunds       = internal.ErrInsufficientFunds
	ErrPostpayLimitExceeded    = internal.ErrPostpayLimitExceeded
	ErrOutstandingPostpay      = internal.ErrOutstandingPostpay
	ErrPostpayNotAvailable     = internal.ErrPostpayNotAvailable
	ErrInvalidCard             = internal.ErrInvalidCard
	ErrInvalidTariff           = internal.ErrInvalidTariff
)
