package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/curriculo/pkg/model"
	"github.com/m-mizutani/goerr/v2"
)

type ctxLoggerKey struct{}

var fallback atomic.Pointer[slog.Logger]

func init() {
	fallback.Store(New(os.Stderr, slog.LevelInfo))
}

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// ParseLevel maps a level name, case-insensitive, to slog.Level. An empty
// name is info; unknown names are a configuration error.
func ParseLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}
	lv, ok := levelNames[strings.ToLower(name)]
	if !ok {
		return slog.LevelInfo, goerr.New("invalid log level",
			goerr.V("level", name),
			goerr.V("accepted", []string{"debug", "info", "warn", "error"}),
			goerr.T(model.ErrTagConfig))
	}
	return lv, nil
}

// New builds a clog console logger on w, stderr when w is nil. Answers and
// the MCP stdio stream own stdout.
func New(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	return slog.New(clog.New(
		clog.WithWriter(w),
		clog.WithLevel(level),
		clog.WithTimeFmt("15:04:05"),
		clog.WithSource(false),
		clog.WithAttrHook(clog.GoerrHook),
	))
}

// Default is the logger used when a context carries none.
func Default() *slog.Logger {
	return fallback.Load()
}

// SetDefault swaps the process-wide logger. Safe for concurrent use.
func SetDefault(logger *slog.Logger) {
	fallback.Store(logger)
}

// With attaches logger to ctx.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// From returns the request-scoped logger in ctx, falling back to Default.
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return Default()
}
