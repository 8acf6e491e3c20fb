package testutil

import (
	"net/http"
	"time"

	id "finhabit/pkg/domain"
	"finhabit/pkg/requestcontext"
)

// WithUserID adds a user ID to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// If the userID is not a valid UUID, it will not be added to the context.
func WithUserID(req *http.Request, userID string) *http.Request {
	if parsedUserID, err := id.ParseUserID(userID); err == nil {
		return req.WithContext(requestcontext.WithUserID(req.Context(), parsedUserID))
	}
	return req
}

// WithRequestTime pins the request-scoped clock, as the requesttime middleware would.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithAuth adds the user ID and request time an authenticated request carries
// after the middleware chain. Invalid IDs are silently ignored.
func WithAuth(req *http.Request, userID string, now time.Time) *http.Request {
	return WithRequestTime(WithUserID(req, userID), now)
}
