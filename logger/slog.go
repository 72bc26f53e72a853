package logger

import (
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/xy-planning-network/paramconv"
)

// Options configures the [*log/slog.Logger] NewSlogger builds.
type Options struct {
	Env   paramconv.Environment
	JSON  bool
	Kind  slog.Value
	Level slog.Leveler
}

// NewSlogger toggles constructing the specific [*log/slog.Logger]
// the environment calls for.
//
// Production and JSON output use a [*log/slog.JSONHandler].
// Everything else writes text with colorized levels.
func NewSlogger(out io.Writer, opts Options) *slog.Logger {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}

	if opts.Kind.Kind() == slog.KindAny && opts.Kind.Any() == nil {
		opts.Kind = paramconv.AppLogKind
	}

	hopts := &slog.HandlerOptions{
		AddSource:   !opts.Env.IsTesting(),
		Level:       opts.Level,
		ReplaceAttr: replaceLevel,
	}

	var handler slog.Handler
	switch {
	case opts.JSON, opts.Env.IsProduction():
		handler = slog.NewJSONHandler(out, hopts)

	default:
		hopts.ReplaceAttr = colorizeLevel
		handler = slog.NewTextHandler(out, hopts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		{Key: paramconv.LogKindKey, Value: opts.Kind},
	})

	return slog.New(handler)
}

// replaceLevel names LevelFatal, which [log/slog] would otherwise print as "ERROR+4".
func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}

	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelFatal {
		a.Value = slog.StringValue("FATAL")
	}

	return a
}

func colorizeLevel(groups []string, a slog.Attr) slog.Attr {
	a = replaceLevel(groups, a)
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}

	lvl := a.Value.String()
	switch lvl {
	case "DEBUG":
		lvl = color.WhiteString(lvl)
	case "INFO":
		lvl = color.BlueString(lvl)
	case "WARN":
		lvl = color.YellowString(lvl)
	case "ERROR":
		lvl = color.RedString(lvl)
	case "FATAL":
		lvl = color.MagentaString(lvl)
	}

	return slog.String(slog.LevelKey, lvl)
}
