package paramconv

import "errors"

var (
	ErrBadAny               = errors.New("bad argument")
	ErrBadConfig            = errors.New("bad config")
	ErrBadFormat            = errors.New("bad format")
	ErrBadRequest           = errors.New("bad request")
	ErrMissingData          = errors.New("missing data")
	ErrNotExist             = errors.New("not exist")
	ErrNotImplemented       = errors.New("not implemented")
	ErrNotValid             = errors.New("invalid")
	ErrUnexpected           = errors.New("unexpected")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
)
