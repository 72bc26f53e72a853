package paramconv

import "context"

// ValidationErrorsAttr is the name under which validation results are stored in Attributes.
const ValidationErrorsAttr = "validationErrors"

// Attributes is the bag of values handlers attach to a single HTTP request
// for later handlers to consume.
// The bag lives in the request's context.Context and is only ever touched
// by the goroutine serving that request.
type Attributes map[string]any

// NewAttributesContext installs an empty Attributes in ctx, returning the resulting context.
// If ctx already carries Attributes, ctx returns unchanged so earlier values survive.
func NewAttributesContext(ctx context.Context) context.Context {
	if _, ok := AttributesFromContext(ctx); ok {
		return ctx
	}

	return context.WithValue(ctx, AttributesKey, make(Attributes))
}

// AttributesFromContext retrieves the Attributes in ctx.
func AttributesFromContext(ctx context.Context) (Attributes, bool) {
	attrs, ok := ctx.Value(AttributesKey).(Attributes)
	return attrs, ok
}

// Get retrieves the value stored under name.
func (a Attributes) Get(name string) (any, bool) {
	val, ok := a[name]
	return val, ok
}

// Has asserts whether a value is stored under name.
func (a Attributes) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// Set stores val under name, overwriting any existing value.
func (a Attributes) Set(name string, val any) { a[name] = val }
