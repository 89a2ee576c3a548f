package flight

import "github.com/frahmantamala/travel-booking/internal"

var ErrFlightNotFound = internal.ErrFlightNotFound
