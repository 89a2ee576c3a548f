package user

import "github.com/frahmantamala/travel-booking/internal"

var (
	ErrUserNotFound = internal.ErrUserNotFound
	ErrEmailTaken   = internal.ErrEmailTaken
	ErrInvalidRole  = internal.ErrInvalidRole
)
