package logger

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"runtime"

	"github.com/xy-planning-network/paramconv"
)

const callerTmpl = "%s:%d"

var _ slog.LogValuer = LogContext{}

// A LogContext provides additional information and configuration
// for a [Logger] method that cannot be tersely captured in the message itself.
type LogContext struct {
	// Caller overrides the caller file and line number with the provided value.
	Caller string

	// Data is any information pertinent at the time of the logging event.
	Data map[string]any

	// Error is the error that may or may not have instigated a logging event.
	Error error

	// Request is the *http.Request that may or may not have been open during the logging event.
	Request *http.Request
}

// LogValue implements [log/slog.LogValuer], eliminating zero-value fields.
//
// Query params named "password" are masked.
func (lc LogContext) LogValue() slog.Value {
	var attrs []slog.Attr
	if lc.Caller != "" {
		attrs = append(attrs, slog.String("caller", lc.Caller))
	}

	if len(lc.Data) > 0 {
		data := make([]any, 0, len(lc.Data)*2)
		for k, v := range lc.Data {
			data = append(data, k, v)
		}
		attrs = append(attrs, slog.Group("data", data...))
	}

	if lc.Error != nil {
		attrs = append(attrs, slog.String("error", lc.Error.Error()))
	}

	if lc.Request != nil {
		u := *lc.Request.URL
		q := u.Query()
		paramconv.Mask(q, "password")
		u.RawQuery = q.Encode()

		req := []any{
			slog.String("method", lc.Request.Method),
			slog.String("url", u.String()),
		}
		if ct := lc.Request.Header.Get("Content-Type"); ct != "" {
			req = append(req, slog.String("contentType", ct))
		}
		if id, ok := lc.Request.Context().Value(paramconv.RequestIDKey).(string); ok {
			req = append(req, slog.String("requestID", id))
		}

		attrs = append(attrs, slog.Group("request", req...))
	}

	return slog.GroupValue(attrs...)
}

// CurrentCaller retrieves the caller for the caller of CurrentCaller,
// formatted for using as a value in LogContext.Caller.
func CurrentCaller() string {
	_, file, line, _ := runtime.Caller(2)
	return fmt.Sprintf(callerTmpl, filepath.Join(filepath.Base(filepath.Dir(file)), filepath.Base(file)), line)
}
