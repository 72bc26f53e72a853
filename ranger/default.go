package ranger

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/http/middleware"
	"github.com/xy-planning-network/paramconv/http/req"
	"github.com/xy-planning-network/paramconv/http/resp"
	"github.com/xy-planning-network/paramconv/http/router"
	"github.com/xy-planning-network/paramconv/logger"
	"github.com/xy-planning-network/paramconv/postgres"
	"github.com/xy-planning-network/paramconv/serializer"
)

const (
	// Environment defaults
	environmentEnvVar = "ENVIRONMENT"

	// Log defaults
	logLevelEnvVar  = "LOG_LEVEL"
	defaultLogLvl   = slog.LevelInfo
	logJSONEnvVar   = "LOG_JSON"
	defaultLogJSON  = false
	sentryDsnEnvVar = "SENTRY_DSN"

	// Database defaults
	dbHostEnvVar     = "DATABASE_HOST"
	defaultDBHost    = "localhost"
	dbNameEnvVar     = "DATABASE_NAME"
	dbPassEnvVar     = "DATABASE_PASSWORD"
	dbPortEnvVar     = "DATABASE_PORT"
	defaultDBPort    = "5432"
	dbSSLModeEnvVar  = "DATABASE_SSLMODE"
	defaultDBSSLMode = "prefer"
	dbURLEnvVar      = "DATABASE_URL"
	dbUserEnvVar     = "DATABASE_USER"

	// Binder defaults
	deserializationGroupsEnvVar  = "DESERIALIZATION_GROUPS"
	deserializationVersionEnvVar = "DESERIALIZATION_VERSION"
	maxBodySizeEnvVar            = "MAX_BODY_SIZE"

	// Web server defaults
	DefaultPort               = ":3000"
	portEnvVar                = "PORT"
	serverReadTimeoutEnvVar   = "SERVER_READ_TIMEOUT"
	DefaultServerReadTimeout  = 5 * time.Second
	serverIdleTimeoutEnvVar   = "SERVER_IDLE_TIMEOUT"
	DefaultServerIdleTimeout  = 120 * time.Second
	serverWriteTimeoutEnvVar  = "SERVER_WRITE_TIMEOUT"
	DefaultServerWriteTimeout = 5 * time.Second

	// Middleware defaults
	maintModeEnvVar = "MAINTENANCE_MODE"
	rateLimitEnvVar = "RATE_LIMIT"
)

// NewPostgresConfig constructs a *postgres.CxnConfig from the DATABASE env vars.
// DATABASE_URL, when set, replaces all the others.
func NewPostgresConfig() *postgres.CxnConfig {
	if url := paramconv.EnvVarOrString(dbURLEnvVar, ""); url != "" {
		return &postgres.CxnConfig{URL: url}
	}

	return &postgres.CxnConfig{
		Host:     paramconv.EnvVarOrString(dbHostEnvVar, defaultDBHost),
		Name:     paramconv.EnvVarOrString(dbNameEnvVar, ""),
		Password: paramconv.EnvVarOrString(dbPassEnvVar, ""),
		Port:     paramconv.EnvVarOrString(dbPortEnvVar, defaultDBPort),
		SSLMode:  paramconv.EnvVarOrString(dbSSLModeEnvVar, defaultDBSSLMode),
		User:     paramconv.EnvVarOrString(dbUserEnvVar, ""),
	}
}

// defaultAppLogger constructs a [logger.Logger] configured for use in the application.
func defaultAppLogger(env paramconv.Environment, out io.Writer) logger.Logger {
	var l logger.Logger = logger.New(newSlogger(paramconv.AppLogKind, env, out))
	l.Debug("setting up app logger", nil)
	if dsn := paramconv.EnvVarOrString(sentryDsnEnvVar, ""); dsn != "" {
		l = logger.NewSentryLogger(l, dsn, env)
		l.Debug("using SentryLogger for app logger", nil)
	}

	return l
}

// defaultHTTPLogger constructs a [*log/slog.Logger] for use in HTTP request logging.
func defaultHTTPLogger(env paramconv.Environment, out io.Writer) *slog.Logger {
	sl := newSlogger(paramconv.HTTPLogKind, env, out)
	sl.Debug("setting up HTTP request logger")

	return sl
}

func newSlogger(kind slog.Value, env paramconv.Environment, out io.Writer) *slog.Logger {
	lvl := new(slog.LevelVar)
	lvl.Set(paramconv.EnvVarOrLogLevel(logLevelEnvVar, defaultLogLvl))

	return logger.NewSlogger(out, logger.Options{
		Env:   env,
		JSON:  !env.IsDevelopment() || paramconv.EnvVarOrBool(logJSONEnvVar, defaultLogJSON),
		Kind:  kind,
		Level: lvl,
	})
}

// defaultBinderOpts configures the *req.Binder from environment variables:
//
//   - DESERIALIZATION_GROUPS: comma-separated groups every request is deserialized with
//   - DESERIALIZATION_VERSION: the version every request is deserialized at
//   - MAX_BODY_SIZE: the bytes of a request body read at most
//
// Every bound object is validated.
func defaultBinderOpts(env paramconv.Environment, l logger.Logger) []req.BinderOptFn {
	dctx := make(map[string]any)
	if groups := paramconv.EnvVarOrString(deserializationGroupsEnvVar, ""); groups != "" {
		var gs []string
		for _, g := range strings.Split(groups, ",") {
			if g = strings.TrimSpace(g); g != "" {
				gs = append(gs, g)
			}
		}
		dctx[serializer.GroupsKey] = gs
	}

	if version := paramconv.EnvVarOrString(deserializationVersionEnvVar, ""); version != "" {
		dctx[serializer.VersionKey] = version
	}

	return []req.BinderOptFn{
		req.WithDefaultContext(dctx),
		req.WithLogger(l),
		req.WithMaxBodySize(int64(paramconv.EnvVarOrInt(maxBodySizeEnvVar, int(req.DefaultMaxBodySize)))),
		req.WithValidator(req.NewValidator()),
	}
}

// defaultMiddlewares is the stack applied to every request.
//
// RateLimit is on in production, or whenever RATE_LIMIT is true.
func (r *Ranger) defaultMiddlewares() []middleware.Adapter {
	mws := make([]middleware.Adapter, 0, 5+len(r.middlewares))
	if paramconv.EnvVarOrBool(rateLimitEnvVar, r.env.IsProduction()) {
		mws = append(mws, middleware.RateLimit(middleware.NewVisitors()))
	}

	mws = append(
		mws,
		middleware.RequestID(),
		middleware.InjectIPAddress(),
		middleware.LogRequest(r.httpLog),
		middleware.Attributes(),
	)

	return append(mws, r.middlewares...)
}

// defaultRouter constructs a [*router.Router] to be used by the web server.
func defaultRouter(
	env paramconv.Environment,
	l logger.Logger,
	responder *resp.Responder,
	converters []middleware.Converter,
	mws []middleware.Adapter,
) *router.Router {
	route := router.New(router.Config{
		Env:        env,
		Converters: converters,
		Logger:     l,
		Responder:  responder,
	})
	route.OnEveryRequest(mws...)
	route.HandleNotFound(func(w http.ResponseWriter, r *http.Request) {
		responder.Json(w, r, resp.Code(http.StatusNotFound))
	})

	return route
}

// defaultServer constructs a default [*http.Server].
func defaultServer(ctx context.Context) *http.Server {
	port := paramconv.EnvVarOrString(portEnvVar, DefaultPort)
	if port[0] != ':' {
		port = ":" + port
	}

	srv := &http.Server{
		Addr:         port,
		IdleTimeout:  paramconv.EnvVarOrDuration(serverIdleTimeoutEnvVar, DefaultServerIdleTimeout),
		ReadTimeout:  paramconv.EnvVarOrDuration(serverReadTimeoutEnvVar, DefaultServerReadTimeout),
		WriteTimeout: paramconv.EnvVarOrDuration(serverWriteTimeoutEnvVar, DefaultServerWriteTimeout),
	}
	if ctx != nil {
		srv.BaseContext = func(_ net.Listener) context.Context { return ctx }
	}

	return srv
}

// MaintModeHandler answers every request with 503 Service Unavailable,
// asking clients to retry in ten minutes.
func MaintModeHandler(responder *resp.Responder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "600")
		responder.Json(w, r, resp.Code(http.StatusServiceUnavailable))
	}
}
