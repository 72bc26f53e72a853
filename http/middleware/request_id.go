package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/xy-planning-network/paramconv"
)

// RequestIDHeader is the header a request ID is read from and echoed in.
const RequestIDHeader = "X-Request-Id"

// RequestID adds a uuid to the request context under paramconv.RequestIDKey.
//
// A valid uuid in the X-Request-Id header is reused instead of generating a new one.
// Either way, the ID is echoed in the response's X-Request-Id header.
func RequestID() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			if given, err := uuid.Parse(r.Header.Get(RequestIDHeader)); err == nil {
				id = given.String()
			}

			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), paramconv.RequestIDKey, id)
			h.ServeHTTP(w, r.Clone(ctx))
		})
	}
}
