package req

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/logger"
	"github.com/xy-planning-network/paramconv/serializer"
)

//go:generate mockgen -destination=mock_req/mock_req.go github.com/xy-planning-network/paramconv/http/req Deserializer,Validator

// DefaultMaxBodySize caps how much of a request body a Binder reads.
const DefaultMaxBodySize int64 = 10 << 20

// A Deserializer decodes wire formats into objects.
// [*serializer.Serializer] is the implementation used in practice.
type Deserializer interface {
	Params(format string, body io.Reader) (map[string]any, error)
	Deserialize(text []byte, target any, format string, dctx serializer.Context) error
}

// A Binder converts the body of an *http.Request into an object,
// validates it if a Validator is set,
// and stores both in the request's [paramconv.Attributes].
//
// A Binder holds no per-request state and is safe for concurrent use.
type Binder struct {
	defaultContext map[string]any
	logger         logger.Logger
	maxBodySize    int64
	serializer     Deserializer
	types          map[string]func() any
	validator      Validator
}

// NewBinder constructs a *Binder deserializing with s.
func NewBinder(s Deserializer, opts ...BinderOptFn) *Binder {
	b := &Binder{
		defaultContext: make(map[string]any),
		maxBodySize:    DefaultMaxBodySize,
		serializer:     s,
		types:          make(map[string]func() any),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = logger.New(nil)
	}

	return b
}

// Supports asserts whether b handles cfg.
//
// A Binder claims every Configuration, so it belongs last among any other converters.
// Failures for a Configuration it cannot serve, such as an unregistered Class,
// surface from Apply.
func (b *Binder) Supports(cfg Configuration) bool { return true }

// Apply binds the body of r into a new instance of cfg.Class,
// stored in r's Attributes under cfg.Name.
//
// If the Binder has a Validator, Apply also stores the ValidationErrors under
// [paramconv.ValidationErrorsAttr], empty when the object is valid.
// Validation issues never make Apply fail.
//
// Apply fails with an *Error when the body cannot be bound:
// 415 Unsupported Media Type for a Content-Type no Codec handles,
// 400 Bad Request for anything else wrong with the payload.
// Problems with cfg or the Binder itself return [paramconv.ErrBadConfig].
// On failure, nothing is stored in the Attributes.
func (b *Binder) Apply(r *http.Request, cfg Configuration) (bool, error) {
	attrs, vopts, newFn, err := b.prepare(r, cfg)
	if err != nil {
		return false, err
	}

	dctx, err := b.Context(cfg)
	if err != nil {
		return false, err
	}

	format := serializer.FormatFromContentType(r.Header.Get("Content-Type"))
	obj := newFn()
	if err := b.deserialize(r, obj, format, dctx); err != nil {
		err = translate(err)
		b.logger.Warn(err.Error(), &logger.LogContext{
			Data:    map[string]any{"class": cfg.Class, "format": format},
			Error:   err,
			Request: r,
		})

		return false, err
	}

	b.store(attrs, cfg, obj, vopts)

	return true, nil
}

// prepare resolves what Apply needs before touching the request:
// the Attributes to store into, the validator options and the factory for cfg.Class.
func (b *Binder) prepare(r *http.Request, cfg Configuration) (paramconv.Attributes, ValidatorOptions, func() any, error) {
	var vopts ValidatorOptions
	attrs, ok := paramconv.AttributesFromContext(r.Context())
	if !ok {
		return nil, vopts, nil, fmt.Errorf("%w: no attributes in request context", paramconv.ErrBadConfig)
	}

	if b.validator != nil {
		var err error
		if vopts, err = ResolveValidatorOptions(cfg.Options[ValidatorKey]); err != nil {
			return nil, vopts, nil, err
		}
	}

	newFn, ok := b.types[cfg.Class]
	if !ok {
		return nil, vopts, nil, fmt.Errorf("%w: %w: no type registered as %q", paramconv.ErrBadConfig, paramconv.ErrNotExist, cfg.Class)
	}

	return attrs, vopts, newFn, nil
}

// store sets obj under cfg.Name and, with a Validator, the ValidationErrors found in it.
func (b *Binder) store(attrs paramconv.Attributes, cfg Configuration, obj any, vopts ValidatorOptions) {
	attrs.Set(cfg.Name, obj)

	if b.validator != nil {
		if vopts.Traverse || vopts.Deep {
			b.logger.Debug("validator traverse and deep options have no effect", nil)
		}

		errs := b.validator.Validate(obj, nil, vopts.Groups)
		if errs == nil {
			errs = ValidationErrors{}
		}

		attrs.Set(paramconv.ValidationErrorsAttr, errs)
	}

	b.logger.Debug(fmt.Sprintf("bound %s into %q", cfg.Class, cfg.Name), nil)
}

// Context builds the serializer.Context for cfg
// by merging the "deserializationContext" option over the Binder's default context.
// An option value that is not a mapping is ignored.
func (b *Binder) Context(cfg Configuration) (serializer.Context, error) {
	opts, _ := cfg.Options[DeserializationContextKey].(map[string]any)
	return serializer.NewContext(serializer.MergeOptions(b.defaultContext, opts))
}

// deserialize reads r.Body, leaving it readable again for later handlers.
func (b *Binder) deserialize(r *http.Request, obj any, format string, dctx serializer.Context) error {
	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(io.LimitReader(r.Body, b.maxBodySize+1))
		r.Body.Close()
		if err != nil {
			return fmt.Errorf("%w: reading body: %s", serializer.ErrMalformed, err)
		}

		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	if int64(len(body)) > b.maxBodySize {
		return fmt.Errorf("%w: body exceeds %d bytes", serializer.ErrMalformed, b.maxBodySize)
	}

	params, err := b.serializer.Params(format, bytes.NewReader(body))
	if err != nil {
		return err
	}

	text, err := serializer.Canonical(params)
	if err != nil {
		return err
	}

	return b.serializer.Deserialize(text, obj, format, dctx)
}

// translate converts failures to deserialize into an *Error,
// except for those caused by how the Binder was set up.
func translate(err error) error {
	switch {
	case errors.Is(err, serializer.ErrUnsupportedFormat):
		return UnsupportedMediaType(err)
	case errors.Is(err, paramconv.ErrBadConfig), errors.Is(err, paramconv.ErrUnexpected):
		return err
	default:
		return BadRequest(err)
	}
}

// Bound retrieves the object bound under name from the Attributes in ctx.
func Bound[T any](ctx context.Context, name string) (T, bool) {
	var zero T
	attrs, ok := paramconv.AttributesFromContext(ctx)
	if !ok {
		return zero, false
	}

	val, ok := attrs.Get(name)
	if !ok {
		return zero, false
	}

	obj, ok := val.(T)
	return obj, ok
}

// ValidationErrorsFromContext retrieves the ValidationErrors the Binder stored in ctx.
// false returns if no validation ran.
func ValidationErrorsFromContext(ctx context.Context) (ValidationErrors, bool) {
	return Bound[ValidationErrors](ctx, paramconv.ValidationErrorsAttr)
}
