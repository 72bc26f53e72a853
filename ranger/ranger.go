package ranger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	// TODO(dlk): configurable env files
	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/http/middleware"
	"github.com/xy-planning-network/paramconv/http/req"
	"github.com/xy-planning-network/paramconv/http/resp"
	"github.com/xy-planning-network/paramconv/http/router"
	"github.com/xy-planning-network/paramconv/logger"
	"github.com/xy-planning-network/paramconv/serializer"
)

// A Ranger manages and exposes all components of a paramconv app to one another.
type Ranger struct {
	*resp.Responder
	*router.Router

	ctx     context.Context
	binder  *req.Binder
	env     paramconv.Environment
	httpLog *slog.Logger
	l       logger.Logger
	out     io.Writer
	srv     *http.Server

	binderOpts  []req.BinderOptFn
	converters  []middleware.Converter
	middlewares []middleware.Adapter
}

// New constructs a Ranger from the provided options.
// Options are applied first, then defaults fill in whatever they left unset.
// Options supplied to New overwrite default configurations.
func New(opts ...RangerOption) (*Ranger, error) {
	r := &Ranger{
		env: paramconv.EnvVarOrEnv(environmentEnvVar, paramconv.Development),
		out: os.Stdout,
	}
	followups := make([]OptFollowup, 0)

	// NOTE(dlk): calling an option configures the *Ranger under construction.
	// Some options require data from other options or defaults.
	// These options return an OptFollowup to be called after defaults are in place.
	for _, opt := range opts {
		fn, err := opt(r)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", paramconv.ErrBadConfig, err)
		}

		if fn != nil {
			followups = append(followups, fn)
		}
	}

	if r.l == nil {
		r.l = defaultAppLogger(r.env, r.out)
	}

	if r.httpLog == nil {
		r.httpLog = defaultHTTPLogger(r.env, r.out)
	}

	for _, fn := range followups {
		if err := fn(); err != nil {
			return nil, fmt.Errorf("%w: %s", paramconv.ErrBadConfig, err)
		}
	}

	binderOpts := append(defaultBinderOpts(r.env, r.l), r.binderOpts...)
	r.binder = req.NewBinder(serializer.New(), binderOpts...)
	r.Responder = resp.NewResponder(resp.WithLogger(r.l))
	r.Router = defaultRouter(
		r.env,
		r.l,
		r.Responder,
		append(r.converters, req.NewQueryBinder(binderOpts...), r.binder),
		r.defaultMiddlewares(),
	)

	if paramconv.EnvVarOrBool(maintModeEnvVar, false) {
		r.l.Warn("maintenance mode on, every request answers 503", nil)
		r.Router.CatchAll(MaintModeHandler(r.Responder))
	}

	if r.srv == nil {
		r.srv = defaultServer(r.ctx)
	}
	r.srv.Handler = r.Router

	return r, nil
}

// EmitBinder exposes the *req.Binder routes with a Binding are converted by.
func (r *Ranger) EmitBinder() *req.Binder { return r.binder }

// EmitEnv exposes the Environment the app runs in.
func (r *Ranger) EmitEnv() paramconv.Environment { return r.env }

// EmitLogger exposes the app's logger.Logger.
func (r *Ranger) EmitLogger() logger.Logger { return r.l }

// Guide begins the web server.
//
// These, and (*Ranger).Shutdown, stop Guide:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (r *Ranger) Guide() error {
	parent := r.ctx
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)
	defer signal.Stop(ch)

	go func() {
		select {
		case s := <-ch:
			r.l.Info(fmt.Sprint("received shutdown signal: ", s), nil)
			cancel()
		case <-ctx.Done():
		}
	}()

	go func() {
		r.l.Info(fmt.Sprintf("running web server at %s", r.srv.Addr), nil)
		if err := r.srv.ListenAndServe(); err != http.ErrServerClosed {
			err = fmt.Errorf("could not listen: %w", err)
			r.l.Error(err.Error(), nil)
			cancel()
		}
	}()

	<-ctx.Done()
	return r.Shutdown()
}

// Shutdown shutdowns the web server.
func (r *Ranger) Shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	r.l.Info("shutting down web server", nil)
	err := r.srv.Shutdown(shutdownCtx)
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	r.l.Info("web server shutdown successfully", nil)
	return nil
}
