package trip

import "github.com/frahmantamala/travel-booking/internal"

var (
	ErrTripNotFound      = internal.ErrTripNotFound
	ErrNoPassengers      = internal.ErrNoPassengers
	ErrNoItems           = internal.ErrNoItems
	ErrPolicyBlocked     = internal.ErrPolicyBlocked
	ErrInvalidTripStatus = internal.ErrInvalidTripStatus
)
