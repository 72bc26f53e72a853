package resp

import (
	"errors"
	"net/http"

	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/http/req"
	"github.com/xy-planning-network/paramconv/logger"
)

// StatusCode reports the HTTP status code err ought to be answered with.
//
//   - nil: 200 OK
//   - *req.Error: its Code
//   - paramconv.ErrNotValid: 422 Unprocessable Entity
//   - paramconv.ErrBadRequest: 400 Bad Request
//   - paramconv.ErrUnsupportedMediaType: 415 Unsupported Media Type
//   - anything else: 500 Internal Server Error
func StatusCode(err error) int {
	var reqErr *req.Error
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &reqErr):
		return reqErr.Code
	case errors.Is(err, paramconv.ErrNotValid):
		return http.StatusUnprocessableEntity
	case errors.Is(err, paramconv.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, paramconv.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// newLogContext helps structure a logger.LogContext from the provided parts.
func newLogContext(r *http.Request, err error, data any) *logger.LogContext {
	if r == nil && err == nil && data == nil {
		return nil
	}

	ctx := new(logger.LogContext)
	if r != nil {
		ctx.Request = r
	}

	if err != nil {
		ctx.Error = err
	}

	if mapped, ok := data.(map[string]any); ok {
		ctx.Data = mapped
	}

	return ctx
}
