package postgres

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/http/req"
	"github.com/xy-planning-network/paramconv/logger"
)

// EntityKey is the key of req.Configuration.Options an EntityConverter reads.
const EntityKey = "entity"

// Keys of the mapping under EntityKey.
const (
	entityColumnKey   = "column"
	entityOptionalKey = "optional"
	entityParamKey    = "param"
)

// A Finder retrieves the first record whose column equals value into dest.
// A missing record is reported with [paramconv.ErrNotExist].
// [*DB] is a Finder.
type Finder interface {
	FindBy(dest any, column string, value any) error
}

// EntityOptions are the resolved settings for loading an entity.
type EntityOptions struct {
	// Param is the route variable holding the value to look the entity up by.
	Param string

	// Column is the column compared to Param's value.
	Column string

	// Optional stores nil instead of failing when no entity matches.
	Optional bool
}

// ResolveEntityOptions applies defaults to raw, the value under EntityKey.
//
// A nil raw resolves to the defaults: Param and Column "id", Optional false.
// Otherwise raw must be a map[string]any holding only known keys;
// anything else returns [paramconv.ErrBadConfig].
func ResolveEntityOptions(raw any) (EntityOptions, error) {
	opts := EntityOptions{Param: "id", Column: "id"}
	if raw == nil {
		return opts, nil
	}

	m, ok := raw.(map[string]any)
	if !ok {
		return EntityOptions{}, fmt.Errorf("%w: %s options must be a mapping, not %T", paramconv.ErrBadConfig, EntityKey, raw)
	}

	var unknown []string
	for k, v := range m {
		var err error
		switch k {
		case entityColumnKey:
			opts.Column, err = nonEmptyString(k, v)
		case entityParamKey:
			opts.Param, err = nonEmptyString(k, v)
		case entityOptionalKey:
			var isBool bool
			if opts.Optional, isBool = v.(bool); !isBool {
				err = fmt.Errorf("%w: %s %s must be a bool, not %T", paramconv.ErrBadConfig, EntityKey, k, v)
			}
		default:
			unknown = append(unknown, k)
		}

		if err != nil {
			return EntityOptions{}, err
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return EntityOptions{}, fmt.Errorf(
			"%w: %s options %q do not exist, defined options are %q, %q, %q",
			paramconv.ErrBadConfig,
			EntityKey,
			strings.Join(unknown, ", "),
			entityColumnKey,
			entityOptionalKey,
			entityParamKey,
		)
	}

	return opts, nil
}

func nonEmptyString(key string, val any) (string, error) {
	s, ok := val.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%w: %s %s must be a non-empty string, not %#v", paramconv.ErrBadConfig, EntityKey, key, val)
	}

	return s, nil
}

// An EntityConverter loads the record a route identifies, e.g. /jobs/{id},
// into a new instance of the registered type named by req.Configuration.Class,
// storing it in the request's [paramconv.Attributes] under req.Configuration.Name.
//
// An EntityConverter only supports a Configuration carrying EntityKey in its Options
// and naming a registered Class.
type EntityConverter struct {
	db     Finder
	logger logger.Logger
	types  map[string]func() any
}

// An EntityOptFn configures an *EntityConverter when constructing a new one.
type EntityOptFn func(*EntityConverter)

// WithEntity registers T under name for req.Configuration.Class to refer to.
// Loaded entities are of type *T.
func WithEntity[T any](name string) EntityOptFn {
	return func(c *EntityConverter) {
		c.types[name] = func() any { return new(T) }
	}
}

// WithEntityLogger sets the logger.Logger an *EntityConverter logs through.
func WithEntityLogger(l logger.Logger) EntityOptFn {
	return func(c *EntityConverter) {
		c.logger = l
	}
}

// NewEntityConverter constructs an *EntityConverter looking records up through db.
func NewEntityConverter(db Finder, opts ...EntityOptFn) *EntityConverter {
	c := &EntityConverter{db: db, types: make(map[string]func() any)}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logger.New(nil)
	}

	return c
}

// Supports asserts whether c handles cfg.
func (c *EntityConverter) Supports(cfg req.Configuration) bool {
	if _, ok := cfg.Options[EntityKey]; !ok {
		return false
	}

	_, ok := c.types[cfg.Class]
	return ok
}

// Apply loads the entity r identifies and stores it in r's Attributes under cfg.Name.
//
// Apply reports false, leaving the request to other converters,
// when the route variable is absent and the entity is not Optional.
// When no record matches, Apply fails with a 404 *req.Error
// or, if Optional, stores nil.
func (c *EntityConverter) Apply(r *http.Request, cfg req.Configuration) (bool, error) {
	attrs, ok := paramconv.AttributesFromContext(r.Context())
	if !ok {
		return false, fmt.Errorf("%w: no attributes in request context", paramconv.ErrBadConfig)
	}

	opts, err := ResolveEntityOptions(cfg.Options[EntityKey])
	if err != nil {
		return false, err
	}

	newFn, ok := c.types[cfg.Class]
	if !ok {
		return false, fmt.Errorf("%w: %w: no entity registered as %q", paramconv.ErrBadConfig, paramconv.ErrNotExist, cfg.Class)
	}

	val := mux.Vars(r)[opts.Param]
	if val == "" {
		if opts.Optional {
			attrs.Set(cfg.Name, nil)
			return true, nil
		}

		return false, nil
	}

	obj := newFn()
	err = c.db.FindBy(obj, opts.Column, val)
	switch {
	case errors.Is(err, paramconv.ErrNotExist) && opts.Optional:
		attrs.Set(cfg.Name, nil)
		return true, nil

	case errors.Is(err, paramconv.ErrNotExist):
		err = req.NotFound(fmt.Errorf("%s %q not found", cfg.Class, val))
		c.logger.Debug(err.Error(), &logger.LogContext{Request: r})
		return false, err

	case err != nil:
		return false, err
	}

	attrs.Set(cfg.Name, obj)
	c.logger.Debug(fmt.Sprintf("loaded %s %q into %q", cfg.Class, val, cfg.Name), nil)

	return true, nil
}
