// Package logger provides a global, Sugared Zap logger whose child loggers can
// be carried in a context.Context. Log calls pick up fields attached with
// Derive and, when the context holds a recording OpenTelemetry span, the
// trace and span ids. When an OpenTelemetry LoggerProvider is supplied, an
// otelzap bridge core is teed next to the JSON stdout core.
package logger

import (
	"context"
	"os"
	"sync"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKeyType struct{}

// ctxKey stores a derived *zap.SugaredLogger in a context.
var ctxKey = ctxKeyType{}

var (
	// baseLogger is the process-wide logger configured by Init.
	baseLogger *zap.SugaredLogger

	// initBaseLoggerOnce ensures the logger is only configured a single time.
	initBaseLoggerOnce sync.Once
)

// instrumentationScope names the logger records are bridged under.
const instrumentationScope = "github.com/gabapcia/mempart"

// config holds optional logger settings.
type config struct {
	loggerProvider otellog.LoggerProvider // nil disables the OTel bridge
}

// Option configures the logger before initialization.
type Option func(*config)

// WithLoggerProvider forwards every record at or above the configured level
// to lp through the otelzap bridge. A nil lp is ignored.
func WithLoggerProvider(lp otellog.LoggerProvider) Option {
	return func(c *config) {
		c.loggerProvider = lp
	}
}

// newCore builds the JSON stdout core and, with a logger provider, tees the
// otelzap bridge core restricted to the same level.
func newCore(lvl zapcore.Level, cfg config) (zapcore.Core, error) {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(os.Stdout),
		lvl,
	)
	if cfg.loggerProvider == nil {
		return core, nil
	}

	bridge, err := zapcore.NewIncreaseLevelCore(
		otelzap.NewCore(instrumentationScope, otelzap.WithLoggerProvider(cfg.loggerProvider)),
		lvl,
	)
	if err != nil {
		return nil, err
	}
	return zapcore.NewTee(core, bridge), nil
}

// Init configures the global logger to emit JSON to stdout at the given
// minimum level ("debug", "info", "warn", "error", ...). Calling Init
// more than once has no effect after the first successful call.
func Init(level string, opts ...Option) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	core, err := newCore(lvl, cfg)
	if err != nil {
		return err
	}

	initBaseLoggerOnce.Do(func() {
		baseLogger = zap.New(core).Sugar()
	})

	return nil
}

// Sync flushes any buffered log entries. It should be called on application
// shutdown to ensure all logs are written out.
func Sync() error {
	return baseLogger.Sync()
}

// current returns the logger to use for ctx, falling back to a no-op logger
// when Init was never called.
func current(ctx context.Context) *zap.SugaredLogger {
	if l, ok := ctx.Value(ctxKey).(*zap.SugaredLogger); ok && l != nil {
		return l
	}
	if baseLogger != nil {
		return baseLogger
	}
	return zap.NewNop().Sugar()
}

// deriveFromCtx returns the context logger enriched with keysAndValues and
// the active trace/span ids, if any.
func deriveFromCtx(ctx context.Context, keysAndValues ...any) *zap.SugaredLogger {
	l := current(ctx)

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		keysAndValues = append(keysAndValues,
			"trace_id", sc.TraceID().String(),
			"span_id", sc.SpanID().String(),
		)
	}

	if len(keysAndValues) == 0 {
		return l
	}
	return l.With(keysAndValues...)
}

// Derive returns a child context whose logger always includes keysAndValues.
func Derive(ctx context.Context, keysAndValues ...any) context.Context {
	return context.WithValue(ctx, ctxKey, current(ctx).With(keysAndValues...))
}

func log(ctx context.Context, level zapcore.Level, msg string, keysAndValues ...any) {
	deriveFromCtx(ctx).Logw(level, msg, keysAndValues...)
}

// Debug logs a debug-level message with optional key/value context.
func Debug(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.DebugLevel, msg, keysAndValues...)
}

// Info logs an info-level message with optional key/value context.
func Info(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.InfoLevel, msg, keysAndValues...)
}

// Warn logs a warn-level message with optional key/value context.
func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.WarnLevel, msg, keysAndValues...)
}

// Error logs an error-level message with optional key/value context.
func Error(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.ErrorLevel, msg, keysAndValues...)
}
