package req

import (
	"errors"
	"net/http"

	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/logger"
)

// QueryKey is the Configuration.Options key opting a Configuration into query string binding.
const QueryKey = "query"

// A QueryBinder converts the URL query string of an *http.Request into an object.
// It shares the registered types, Validator and Logger of the Binder it is built from,
// but ignores the deserialization context: query strings carry no groups or versions.
type QueryBinder struct {
	*Binder
	decoder queryParamDecoder
}

// NewQueryBinder constructs a *QueryBinder configured by opts.
func NewQueryBinder(opts ...BinderOptFn) *QueryBinder {
	return &QueryBinder{
		Binder:  NewBinder(nil, opts...),
		decoder: newQueryParamDecoder(),
	}
}

// Supports asserts whether cfg sets QueryKey to true.
func (q *QueryBinder) Supports(cfg Configuration) bool {
	on, _ := cfg.Options[QueryKey].(bool)
	return on
}

// Apply decodes r.URL.Query into a new instance of cfg.Class,
// storing it and any ValidationErrors in the request's Attributes.
//
// Values that do not convert into their fields fail with a 400 *Error.
// A Class that is not a struct, or holds fields of unsupported types,
// fails without an *Error.
func (q *QueryBinder) Apply(r *http.Request, cfg Configuration) (bool, error) {
	attrs, vopts, newFn, err := q.prepare(r, cfg)
	if err != nil {
		return false, err
	}

	obj := newFn()
	if err := q.decoder.decode(obj, r.URL.Query()); err != nil {
		var ve ValidationErrors
		if errors.As(err, &ve) || errors.Is(err, paramconv.ErrBadFormat) {
			err = BadRequest(err)
		}

		query := r.URL.Query()
		paramconv.Mask(query, "password")
		q.logger.Warn(err.Error(), &logger.LogContext{
			Data:    map[string]any{"class": cfg.Class, "query": query.Encode()},
			Error:   err,
			Request: r,
		})

		return false, err
	}

	q.store(attrs, cfg, obj, vopts)

	return true, nil
}
