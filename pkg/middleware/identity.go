package middleware

import (
	"context"
	"net/http"
)

// UserIDHeader carries the authenticated caller's identity, set by the
// API gateway's authorizer before requests reach this service.
const UserIDHeader = "X-User-ID"

type contextKey string

const userIDKey contextKey = "user_id"

// Identity extracts the caller's user id from the request headers and
// stores it on the request context. It does not reject anonymous
// requests; handlers decide which operations require an identity.
func Identity(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if userID := r.Header.Get(UserIDHeader); userID != "" {
			ctx := context.WithValue(r.Context(), userIDKey, userID)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

// UserID returns the caller's user id stored by Identity, or "" when
// the request carried no identity.
func UserID(ctx context.Context) string {
	if userID, ok := ctx.Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}

// WithUserID returns a context carrying the given user id. Intended for
// tests and non-HTTP callers such as lambda entrypoints.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
