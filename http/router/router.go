package router

import (
	"fmt"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/http/middleware"
	"github.com/xy-planning-network/paramconv/http/req"
	"github.com/xy-planning-network/paramconv/http/resp"
	"github.com/xy-planning-network/paramconv/logger"
)

// A Route maps a path and HTTP method to an [http.HandlerFunc].
// Additional [middleware.Adapter] can be called when a server handles
// a request matching the Route.
//
// A Route with a Binding has the request body bound into an object
// before Handler is called; see [middleware.Bind].
type Route struct {
	Path        string
	Method      string
	Handler     http.HandlerFunc
	Binding     *req.Configuration
	Middlewares []middleware.Adapter
}

// A Config holds what a [*Router] needs.
// Zero values are replaced by defaults in New.
type Config struct {
	Env paramconv.Environment

	// Converters bind Routes with a Binding, tried in order.
	Converters []middleware.Converter

	// LogRequest is called on every request, including those no Route matches.
	LogRequest middleware.Adapter

	Logger    logger.Logger
	Responder *resp.Responder
}

// Router routes requests for resources to their handlers.
type Router struct {
	Env           paramconv.Environment
	converters    []middleware.Converter
	everyReqStack []middleware.Adapter
	logReq        middleware.Adapter
	r             *mux.Router
	recovery      middleware.Adapter
	responder     *resp.Responder
}

// New constructs a [*Router] from cfg.
func New(cfg Config) *Router {
	if cfg.Logger == nil {
		cfg.Logger = logger.New(nil)
	}

	if cfg.LogRequest == nil {
		cfg.LogRequest = middleware.NoopAdapter
	}

	if cfg.Responder == nil {
		cfg.Responder = resp.NewResponder(resp.WithLogger(cfg.Logger))
	}

	return &Router{
		Env:        cfg.Env,
		converters: cfg.Converters,
		logReq:     cfg.LogRequest,
		r:          mux.NewRouter(),
		recovery: handlers.RecoveryHandler(
			handlers.RecoveryLogger(recoveryLogger{cfg.Logger}),
			handlers.PrintRecoveryStack(!cfg.Env.IsProduction()),
		),
		responder: cfg.Responder,
	}
}

// CatchAll sets up a handler for all routes to funnel to for e.g. maintenance mode.
func (r *Router) CatchAll(handler http.HandlerFunc) {
	r.r.PathPrefix("/").Handler(middleware.Chain(handler, r.stack(nil)...))
}

// Handle applies the [Route] to the [*Router].
func (r *Router) Handle(route Route) {
	r.HandleRoutes([]Route{route})
}

// HandleNotFound sets the provided [http.HandlerFunc] as the default function
// for when no other registered Route is matched.
func (r *Router) HandleNotFound(handler http.HandlerFunc) {
	r.r.NotFoundHandler = middleware.Chain(handler, r.recovery, r.logReq)
}

// HandleRoutes registers the set of Routes on the Router
// and includes all the [middleware.Adapter] on each Route.
// Any [middleware.Adapter] already assigned to a Route is appended to middlewares,
// so are called after the default set.
// Binding, if set, happens last, right before the Route's Handler.
func (r *Router) HandleRoutes(routes []Route, middlewares ...middleware.Adapter) {
	for _, route := range routes {
		mws := r.stack(middlewares)
		mws = append(mws, route.Middlewares...)
		if route.Binding != nil {
			mws = append(mws, middleware.Bind(r.responder, *route.Binding, r.converters...))
		}

		rt := r.r.Handle(route.Path, middleware.Chain(route.Handler, mws...))
		if route.Method != "" {
			rt.Methods(route.Method)
		}
	}
}

// OnEveryRequest appends the middlewares to the existing stack
// that the [*Router] will apply to every request.
func (r *Router) OnEveryRequest(middlewares ...middleware.Adapter) {
	r.everyReqStack = append(r.everyReqStack, middlewares...)
}

// ServeHTTP responds to an HTTP request.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.r.ServeHTTP(w, req)
}

// SubrouterHost constructs a [Router] that handles requests to the host.
func (r *Router) SubrouterHost(host string) *Router {
	sub := r.clone()
	sub.r = r.r.Host(host).Subrouter()
	return sub
}

// Subrouter constructs a [Router] that handles requests to endpoints matching the prefix.
//
// e.g., r.Subrouter("/api/v1") handles requests to endpoints like /api/v1/jobs
func (r *Router) Subrouter(prefix string) *Router {
	sub := r.clone()
	sub.r = r.r.PathPrefix(prefix).Subrouter()
	return sub
}

func (r *Router) clone() *Router {
	cp := *r
	cp.everyReqStack = append([]middleware.Adapter(nil), r.everyReqStack...)
	return &cp
}

// stack is the recovery handler, every request middleware, and extra, in that order.
func (r *Router) stack(extra []middleware.Adapter) []middleware.Adapter {
	mws := make([]middleware.Adapter, 0, len(r.everyReqStack)+len(extra)+1)
	mws = append(mws, r.recovery)
	mws = append(mws, r.everyReqStack...)
	return append(mws, extra...)
}

// recoveryLogger reports panics caught by the recovery handler.
type recoveryLogger struct {
	l logger.Logger
}

func (rl recoveryLogger) Println(v ...any) {
	rl.l.Error(fmt.Sprint(v...), &logger.LogContext{Caller: "router.recovery"})
}
