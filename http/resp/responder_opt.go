package resp

import (
	"github.com/xy-planning-network/paramconv/logger"
)

// A ResponderOptFn mutates the provided *Responder in some way.
// A ResponderOptFn is used when constructing a new Responder.
type ResponderOptFn func(*Responder)

// WithLogger sets the provided implementation of logger.Logger in order to log all statements through it.
//
// If no logger.Logger is provided through this option, one writing through [log/slog.Default] is configured.
func WithLogger(log logger.Logger) ResponderOptFn {
	return func(d *Responder) {
		d.logger = log
	}
}
