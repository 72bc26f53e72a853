package middleware

import (
	"net/http"

	"github.com/xy-planning-network/paramconv/http/req"
	"github.com/xy-planning-network/paramconv/http/resp"
)

// A Converter binds a request according to a req.Configuration.
// [*req.Binder] is a Converter.
type Converter interface {
	Supports(cfg req.Configuration) bool
	Apply(r *http.Request, cfg req.Configuration) (bool, error)
}

// Bind offers each request to converters in order, according to cfg,
// before calling the next handler.
// The first Converter that supports cfg and reports the request handled ends the search,
// so a catch-all such as [*req.Binder] belongs last.
//
// If a Converter fails, Bind responds with the error through responder
// and the next handler is not called.
//
// If no converters are passed, NoopAdapter returns and this middleware does nothing.
func Bind(responder *resp.Responder, cfg req.Configuration, converters ...Converter) Adapter {
	if len(converters) == 0 {
		return NoopAdapter
	}

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = withAttributes(r)
			for _, c := range converters {
				if !c.Supports(cfg) {
					continue
				}

				handled, err := c.Apply(r, cfg)
				if err != nil {
					responder.Err(w, r, err)
					return
				}

				if handled {
					break
				}
			}

			h.ServeHTTP(w, r)
		})
	}
}
