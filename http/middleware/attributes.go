package middleware

import (
	"net/http"

	"github.com/xy-planning-network/paramconv"
)

// Attributes installs an empty [paramconv.Attributes] in the request context,
// unless one is already there.
func Attributes() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, withAttributes(r))
		})
	}
}

func withAttributes(r *http.Request) *http.Request {
	if _, ok := paramconv.AttributesFromContext(r.Context()); ok {
		return r
	}

	return r.WithContext(paramconv.NewAttributesContext(r.Context()))
}
