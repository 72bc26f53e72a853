package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xy-planning-network/paramconv"
	"github.com/xy-planning-network/paramconv/logger"
)

func newTestLogger(b *bytes.Buffer, lvl slog.Level) *logger.AppLogger {
	return logger.New(slog.New(slog.NewJSONHandler(b, &slog.HandlerOptions{Level: lvl})))
}

func TestAppLoggerLevels(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	l := newTestLogger(b, slog.LevelWarn)

	// Act
	l.Debug("debug", nil)
	l.Info("info", nil)

	// Assert
	require.Zero(t, b.Len())
	require.Equal(t, slog.LevelWarn, l.LogLevel())

	// Act
	l.Warn("warn", nil)

	// Assert
	var rec map[string]any
	require.Nil(t, json.Unmarshal(b.Bytes(), &rec))
	require.Equal(t, "warn", rec["msg"])
	require.Equal(t, "WARN", rec["level"])
}

func TestAppLoggerLogContext(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)
	l := newTestLogger(b, slog.LevelDebug)
	r := httptest.NewRequest(http.MethodPost, "https://example.com/jobs?password=hunter2", nil)
	r.Header.Set("Content-Type", "application/json")

	// Act
	l.Error("boom", &logger.LogContext{
		Data:    map[string]any{"class": "job"},
		Error:   errors.New("test"),
		Request: r,
	})

	// Assert
	var rec struct {
		Msg string `json:"msg"`
		LC  struct {
			Data    map[string]any    `json:"data"`
			Error   string            `json:"error"`
			Request map[string]string `json:"request"`
		} `json:"log_context"`
	}
	require.Nil(t, json.Unmarshal(b.Bytes(), &rec))
	require.Equal(t, "boom", rec.Msg)
	require.Equal(t, "job", rec.LC.Data["class"])
	require.Equal(t, "test", rec.LC.Error)
	require.Equal(t, http.MethodPost, rec.LC.Request["method"])
	require.Equal(t, "application/json", rec.LC.Request["contentType"])
	require.Contains(t, rec.LC.Request["url"], "password="+paramconv.LogMaskVal)
}

func TestNewSlogger(t *testing.T) {
	// Arrange
	b := new(bytes.Buffer)

	// Act
	l := logger.NewSlogger(b, logger.Options{Env: paramconv.Testing, JSON: true, Kind: paramconv.HTTPLogKind})
	logger.New(l).Fatal("fatal", nil)

	// Assert
	var rec map[string]any
	require.Nil(t, json.Unmarshal(b.Bytes(), &rec))
	require.Equal(t, "FATAL", rec["level"])
	require.Equal(t, "http", rec[paramconv.LogKindKey])

	// Arrange
	b.Reset()

	// Act
	l = logger.NewSlogger(b, logger.Options{Env: paramconv.Testing, Level: slog.LevelDebug})
	l.Debug("text")

	// Assert
	require.True(t, strings.Contains(b.String(), "DEBUG"))
	require.True(t, strings.Contains(b.String(), "kind=app"))
}

func TestCurrentCaller(t *testing.T) {
	var actual string
	func() { actual = logger.CurrentCaller() }()
	require.Contains(t, actual, "logger/logger_test.go:")
}
