package middleware

import (
	"net/http"

	"github.com/frahmantamala/travel-booking/internal"
	"github.com/frahmantamala/travel-booking/pkg/logger"
)

// UserContext tags the request logger with the authenticated caller.
// It must run after the JWT middleware.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := internal.UserFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "user_id", p.UserID, "company_id", p.CompanyID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
