package ranger

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/http/middleware"
	"github.com/xy-planning-network/paramconv/http/req"
	"github.com/xy-planning-network/paramconv/logger"
	"github.com/xy-planning-network/paramconv/postgres"
)

// A RangerOption configures a *Ranger either (1) directly, immediately upon being called
// or (2) in the OptFollowup it returns.
// Some RangerOptions require the logger or Environment, which may only be available
// after defaults are applied, and thus return an OptFollowup to be called at that later time.
//
// WithEnv is an example of the first.
// An unexported field on the passed in *Ranger is updated with the enclosed value.
//
// WithConverters is an example of the second.
// The converters are recorded only when the closure it returns is called.
type RangerOption func(rng *Ranger) (OptFollowup, error)
type OptFollowup func() error

// WithBinderOptions applies the req.BinderOptFns to the *req.Binder the Ranger constructs,
// after the defaults.
// This is where the types Routes bind into get registered, e.g. req.WithType[Job]("job").
func WithBinderOptions(opts ...req.BinderOptFn) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.binderOpts = append(rng.binderOpts, opts...)
		return nil, nil
	}
}

// WithContext exposes the provided context.Context to the app.
// Requests handled by the web server carry ctx as their base.
func WithContext(ctx context.Context) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if ctx == nil {
			return nil, fmt.Errorf("%w: nil context", paramconv.ErrMissingData)
		}

		rng.ctx = ctx
		return nil, nil
	}
}

// WithConverters constructs a followup option that, when called,
// places the converters ahead of the Ranger's *req.QueryBinder and *req.Binder on every Route with a Binding.
func WithConverters(cs ...middleware.Converter) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		return func() error {
			rng.converters = append(rng.converters, cs...)
			rng.l.Debug(fmt.Sprintf("using %d additional converters", len(cs)), nil)
			return nil
		}, nil
	}
}

// WithEntities constructs a followup option that, when called,
// places an *postgres.EntityConverter looking records up through db
// ahead of the Ranger's *req.Binder on every Route with a Binding.
func WithEntities(db postgres.Finder, opts ...postgres.EntityOptFn) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		if db == nil {
			return nil, fmt.Errorf("%w: nil db", paramconv.ErrMissingData)
		}

		return func() error {
			opts = append([]postgres.EntityOptFn{postgres.WithEntityLogger(rng.l)}, opts...)
			rng.converters = append(rng.converters, postgres.NewEntityConverter(db, opts...))
			rng.l.Debug(fmt.Sprintf("using db %T for entities", db), nil)
			return nil
		}, nil
	}
}

// WithEnv casts the provided string into a valid Environment
// and exposes it to the app.
//
// If envVar is not a valid Environment, WithEnv fails.
func WithEnv(envVar string) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		e := paramconv.Environment(envVar)
		if err := e.Valid(); err != nil {
			return nil, fmt.Errorf("%q: %w", envVar, err)
		}

		rng.env = e
		return nil, nil
	}
}

// WithLogger exposes the provided logger.Logger to the app.
func WithLogger(l logger.Logger) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.l = l
		return nil, nil
	}
}

// WithLogOutput sets where default loggers write to.
// Without it, they write to os.Stdout.
func WithLogOutput(out io.Writer) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.out = out
		return nil, nil
	}
}

// WithMiddlewares constructs a followup option that, when called,
// appends the middlewares to the default set applied on every request.
func WithMiddlewares(mws ...middleware.Adapter) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		return func() error {
			rng.middlewares = append(rng.middlewares, mws...)
			return nil
		}, nil
	}
}

// WithServer exposes the *http.Server to the app.
// Its Handler is replaced by the Ranger's router.
func WithServer(s *http.Server) RangerOption {
	return func(rng *Ranger) (OptFollowup, error) {
		rng.srv = s
		return nil, nil
	}
}
