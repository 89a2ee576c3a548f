package report

import "github.com/frahmantamala/travel-booking/internal"

var ErrNothingToExport = internal.ErrNothingToExport
