/*
Package ranger initializes and manages a paramconv app with sane defaults.

# Ranger

The main entrypoint to package ranger is the [Ranger] type,
constructed with [New].
A [Ranger] wires together a logger, a [resp.Responder], a [router.Router],
and the [req.Binder] converting the body of requests to Routes with a Binding.
Register the types those Routes bind into with [WithBinderOptions].
Routes identifying a database record, such as /jobs/{id}, can have it loaded too:
connect with [NewPostgresConfig] and [postgres.Connect], then pass [WithEntities].

[*Ranger.Guide] begins the app's web server, by default listening on [DefaultPort].
Stop that web server with [*Ranger.Shutdown] or send a signal [*Ranger.Guide] listens for.

# Configuration

A developer configures an app through environment variables and RangerOptions.
Environment variables ought to be set in a file called ".env"
found at the same directory the application is executed from.

Here are the available environment variables.
  - DATABASE_HOST: the host the database is running on; default: localhost
  - DATABASE_NAME: the name of the database
  - DATABASE_PASSWORD: the password for authenticating a connection to the database
  - DATABASE_PORT: the port the database is listening on; default: 5432
  - DATABASE_SSLMODE: the sslmode of the connection; default: prefer
  - DATABASE_URL: the fully-qualified connection string for connecting to the database; replaces all other DATABASE_* env vars
  - DATABASE_USER: the user for authenticating a connection to the database
  - DESERIALIZATION_GROUPS: comma-separated groups every request body is deserialized with
  - DESERIALIZATION_VERSION: the version every request body is deserialized at
  - ENVIRONMENT: the environment the application is running in; cf. [paramconv.Environment]
  - LOG_JSON: whether to log JSON outside of production; default: false
  - LOG_LEVEL: the level at which to begin logging; default: INFO
  - MAINTENANCE_MODE: answer every request with 503 Service Unavailable; default: false
  - MAX_BODY_SIZE: the bytes of a request body read at most; default: 10MB
  - PORT: the port the application should listen on; default: :3000
  - RATE_LIMIT: limit requests per IP address; default: true in production
  - SENTRY_DSN: report errors to Sentry
  - SERVER_IDLE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for idling between requests when using keep-alives; default: 120s
  - SERVER_READ_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for reading HTTP requests; default: 5s
  - SERVER_WRITE_TIMEOUT: the timeout - as understood by [time.ParseDuration] - for writing HTTP responses; default: 5s
*/
package ranger
