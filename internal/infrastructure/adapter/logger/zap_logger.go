package logger

import (
	"github.com/amirhossein-jamali/flash-sale/internal/domain/port/core"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements the Logger interface using Zap. The level is held in
// a zap.AtomicLevel so it can change at runtime without rebuilding the core.
type ZapLogger struct {
	logger *zap.Logger
	level  zap.AtomicLevel
}

// Options configures NewZapLogger
type Options struct {
	Production bool
	Level      string
	// OutputPaths defaults to stdout
	OutputPaths []string
}

// NewZapLogger creates a new zap-based logger instance
func NewZapLogger(opts Options) (*ZapLogger, error) {
	var cfg zap.Config

	if opts.Production {
		// JSON encoder for structured logging
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		// Console encoder for easier reading
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"
	if len(opts.OutputPaths) > 0 {
		cfg.OutputPaths = opts.OutputPaths
	}

	level := zap.NewAtomicLevelAt(toZapLevel(core.ParseLogLevel(opts.Level)))
	cfg.Level = level

	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}

	return &ZapLogger{logger: zapLogger, level: level}, nil
}

// NewZapLoggerFromCore wraps an existing zap core, mostly for tests
func NewZapLoggerFromCore(zc zapcore.Core, level core.LogLevel) *ZapLogger {
	atomic := zap.NewAtomicLevelAt(toZapLevel(level))
	return &ZapLogger{
		logger: zap.New(zc, zap.IncreaseLevel(atomic)),
		level:  atomic,
	}
}

// NewDefaultLogger creates a development logger at info level
func NewDefaultLogger() core.Logger {
	l, err := NewZapLogger(Options{Level: "info"})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return l
}

func toZapLevel(level core.LogLevel) zapcore.Level {
	switch level {
	case core.LogLevelDebug:
		return zap.DebugLevel
	case core.LogLevelWarn:
		return zap.WarnLevel
	case core.LogLevelError:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// SetLevel sets the minimum log level
func (l *ZapLogger) SetLevel(level core.LogLevel) {
	l.level.SetLevel(toZapLevel(level))
}

// GetLevel gets the current log level
func (l *ZapLogger) GetLevel() core.LogLevel {
	switch l.level.Level() {
	case zap.DebugLevel:
		return core.LogLevelDebug
	case zap.WarnLevel:
		return core.LogLevelWarn
	case zap.InfoLevel:
		return core.LogLevelInfo
	default:
		return core.LogLevelError
	}
}

// mapToZapFields converts a map of fields to zap fields
func mapToZapFields(fields map[string]any) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return zapFields
}

// Debug logs debug messages
func (l *ZapLogger) Debug(message string, fields map[string]any) {
	if ce := l.logger.Check(zap.DebugLevel, message); ce != nil {
		ce.Write(mapToZapFields(fields)...)
	}
}

// Info logs informational messages
func (l *ZapLogger) Info(message string, fields map[string]any) {
	if ce := l.logger.Check(zap.InfoLevel, message); ce != nil {
		ce.Write(mapToZapFields(fields)...)
	}
}

// Warn logs warning messages
func (l *ZapLogger) Warn(message string, fields map[string]any) {
	if ce := l.logger.Check(zap.WarnLevel, message); ce != nil {
		ce.Write(mapToZapFields(fields)...)
	}
}

// Error logs error messages
func (l *ZapLogger) Error(message string, fields map[string]any) {
	if ce := l.logger.Check(zap.ErrorLevel, message); ce != nil {
		ce.Write(mapToZapFields(fields)...)
	}
}

// Flush ensures all buffered logs are written
func (l *ZapLogger) Flush() error {
	return l.logger.Sync()
}
