package resp

import (
	"errors"
	"net/http"

	"github.com/xy-planning-network/paramconv/http/req"
)

// A Fn is a functional option that mutates the state of the Response.
type Fn func(Responder, *Response) error

// A Response is the internal object a Responder response method builds while applying all
// functional options.
type Response struct {
	w    http.ResponseWriter
	r    *http.Request
	code int
	data any
	err  error
}

// Code sets the response status code.
func Code(c int) Fn {
	return func(_ Responder, r *Response) error {
		if c < 100 || c > 599 {
			return ErrInvalid
		}

		r.code = c
		return nil
	}
}

// Data stores the provided value for writing to the client under "data".
func Data(d any) Fn {
	return func(_ Responder, r *Response) error {
		r.data = d
		return nil
	}
}

// Err sets the status code StatusCode reports for e, and logs e.
//
// Server errors log at error level, client errors at debug level.
func Err(e error) Fn {
	return func(d Responder, r *Response) error {
		if e == nil {
			return nil
		}

		r.err = e
		r.code = StatusCode(e)

		lc := newLogContext(r.r, e, r.data)
		if r.code >= http.StatusInternalServerError {
			d.logger.Error(e.Error(), lc)
			return nil
		}

		d.logger.Debug(e.Error(), lc)
		return nil
	}
}

// errMessage is the message a client sees for the error set on the *Response.
// Server errors hide their cause behind the status text.
func (r *Response) errMessage() string {
	if r.err == nil {
		return ""
	}

	if r.code >= http.StatusInternalServerError {
		return http.StatusText(r.code)
	}

	return r.err.Error()
}

// validationErrors pulls any req.ValidationErrors out of the error set on the *Response.
func (r *Response) validationErrors() []req.ValidationError {
	var ve req.ValidationErrors
	if r.err == nil || !errors.As(r.err, &ve) {
		return nil
	}

	return ve
}
