package req

import "github.com/xy-planning-network/paramconv/logger"

// A BinderOptFn configures a *Binder when constructing a new one.
type BinderOptFn func(*Binder)

// WithDefaultContext sets the deserialization context options every Apply starts from.
// opts is copied; later changes to it do not reach the Binder.
func WithDefaultContext(opts map[string]any) BinderOptFn {
	cp := make(map[string]any, len(opts))
	for k, v := range opts {
		cp[k] = v
	}

	return func(b *Binder) {
		b.defaultContext = cp
	}
}

// WithFactory registers newFn under name for Configuration.Class to refer to.
// newFn must return a pointer.
func WithFactory(name string, newFn func() any) BinderOptFn {
	return func(b *Binder) {
		b.types[name] = newFn
	}
}

// WithType registers T under name for Configuration.Class to refer to.
// Bound objects are of type *T.
func WithType[T any](name string) BinderOptFn {
	return WithFactory(name, func() any { return new(T) })
}

// WithLogger sets the provided implementation of Logger in order to log all statements through it.
func WithLogger(l logger.Logger) BinderOptFn {
	return func(b *Binder) {
		b.logger = l
	}
}

// WithMaxBodySize caps the bytes of a request body a Binder reads.
func WithMaxBodySize(n int64) BinderOptFn {
	return func(b *Binder) {
		if n > 0 {
			b.maxBodySize = n
		}
	}
}

// WithValidator sets the Validator run against every bound object.
func WithValidator(v Validator) BinderOptFn {
	return func(b *Binder) {
		b.validator = v
	}
}
