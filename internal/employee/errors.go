package employee

import "github.com/frahmantamala/travel-booking/internal"

var (
	ErrEmployeeNotFound  = internal.ErrEmployeeNotFound
	ErrDocumentNotFound  = internal.ErrDocumentNotFound
	ErrDuplicateEmployee = internal.ErrDuplicateEmployee
)
