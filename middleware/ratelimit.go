package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/psf-initiatives/admin-api/utils"
)

// RateLimit limits requests per client IP to requestsPerMinute.
// Rejected requests get a 429 in the error envelope. Zero disables limiting.
func RateLimit(requestsPerMinute int) func(http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			_ = utils.WriteTooManyRequests(w, "Too many requests. Please try again later.")
		}),
	)
}
