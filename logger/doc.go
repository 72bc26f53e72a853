/*
Package logger provides logging functionality by defining the required behavior in [Logger]
and providing an implementation of it with [AppLogger].

# Overview

The Logger interface outputs messages at certain levels of importance,
expressed as [log/slog.Level] values.
[AppLogger] writes through a [*log/slog.Logger],
so only messages at or above the level its handler enables are emitted.

[NewSlogger] builds that [*log/slog.Logger] for an environment:
JSON in production or when asked for, colorized text otherwise.

# LogContext

A [LogContext] carries what a message alone cannot:
data, the error that prompted the message, and the request being handled.
It renders as a "log_context" group.

	time=2024-04-28T15:55:21Z level=WARN msg="unsupported format \"csv\"" kind=http log_context.request.method=POST

# Sentry

[NewSentryLogger] wraps a Logger so warnings and errors carrying a [LogContext.Error]
are also captured by Sentry.
*/
package logger
