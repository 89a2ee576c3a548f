package notification

import "github.com/frahmantamala/travel-booking/internal"

var ErrNotificationNotFound = internal.ErrNotificationNotFound
