package middleware

import (
	"log/slog"
	"net/http"

	"github.com/felixge/httpsnoop"
	"github.com/xy-planning-network/paramconv"
)

// A LogRequestRecord is the set of attributes LogRequest emits for every request.
type LogRequestRecord struct {
	BodySize       int    `json:"bodySize"`
	Host           string `json:"host"`
	ID             string `json:"id"`
	IPAddr         string `json:"ipAddr"`
	Method         string `json:"method"`
	Path           string `json:"path"`
	Protocol       string `json:"protocol"`
	Referrer       string `json:"referrer"`
	ReqContentType string `json:"reqContentType"`
	Scheme         string `json:"scheme"`
	Status         int    `json:"status"`
	URI            string `json:"uri"`
	UserAgent      string `json:"userAgent"`
}

// LogRequest logs a LogRequestRecord describing the request and its response
// once the next handler finishes.
//
// LogRequest scrubs the values for the following query params:
// - password
//
// If the *slog.Logger is nil, NoopAdapter returns and this middleware does nothing.
func LogRequest(log *slog.Logger) Adapter {
	if log == nil {
		return NoopAdapter
	}

	log = log.With(paramconv.LogKindKey, paramconv.HTTPLogKind)

	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			m := httpsnoop.CaptureMetrics(h, w, r)

			uri := r.URL.Path
			q := r.URL.Query()
			paramconv.Mask(q, "password")
			if query := q.Encode(); query != "" {
				uri += "?" + query
			}

			ip, _ := r.Context().Value(paramconv.IpAddrKey).(string)
			id, _ := r.Context().Value(paramconv.RequestIDKey).(string)

			log.LogAttrs(
				r.Context(),
				slog.LevelInfo,
				r.Method+" "+uri,
				slog.Int("bodySize", int(m.Written)),
				slog.Int64("durationMs", m.Duration.Milliseconds()),
				slog.String("host", r.Host),
				slog.String("id", id),
				slog.String("ipAddr", ip),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("protocol", r.Proto),
				slog.String("referrer", r.Referer()),
				slog.String("reqContentType", r.Header.Get("Content-Type")),
				slog.String("scheme", r.URL.Scheme),
				slog.Int("status", m.Code),
				slog.String("uri", uri),
				slog.String("userAgent", r.UserAgent()),
			)
		})
	}
}
