package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const callerWidth = 28

var (
	// Logger is replaced by InitLogger; it starts as a no-op so packages can
	// log from tests without initialization.
	Logger      = zap.NewNop()
	Sugar       = Logger.Sugar()
	atomicLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
)

// Options controls how the global logger is built
type Options struct {
	Development bool
	Path        string
	Level       string
}

// InitLogger initializes the global logger
func InitLogger(opts Options) error {
	level := parseLevel(opts.Level)
	atomicLevel.SetLevel(level)

	var (
		l   *zap.Logger
		err error
	)
	if opts.Development {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig = encoderConfig()
		cfg.EncoderConfig.TimeKey = "T"
		cfg.Level = atomicLevel
		l, err = cfg.Build(
			zap.AddCallerSkip(1),
			zap.AddStacktrace(zapcore.ErrorLevel),
		)
	} else {
		l, err = NewProductionLogger(opts.Path, atomicLevel)
	}
	if err != nil {
		return err
	}

	Logger = l
	Sugar = l.Sugar()
	zap.ReplaceGlobals(l)
	return nil
}

// NewProductionLogger writes JSON to a rotated file and mirrors entries to stdout
func NewProductionLogger(logPath string, level zap.AtomicLevel) (*zap.Logger, error) {
	if logPath == "" {
		logPath = "./logs/warranty.log"
	}
	if err := createLogDir(logPath); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotated := zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    100, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	})

	enc := encoderConfig()
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(enc), rotated, level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stdout), level),
	)

	return zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	), nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.MessageKey = "msg"
	cfg.LevelKey = "level"
	cfg.CallerKey = "caller"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(fmt.Sprintf("%-5s", l.CapitalString()))
	}
	cfg.EncodeCaller = func(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(formatCallerPath(caller))
	}
	return cfg
}

func parseLevel(s string) zapcore.Level {
	var level zapcore.Level
	if s == "" || level.UnmarshalText([]byte(strings.ToLower(s))) != nil {
		return zapcore.InfoLevel
	}
	return level
}

// With creates a child logger with additional fields
func With(fields ...zap.Field) *zap.Logger {
	return Logger.With(fields...)
}

// Info logs a message at InfoLevel
func Info(msg string, fields ...zap.Field) {
	Logger.Info(msg, fields...)
}

// Error logs a message at ErrorLevel
func Error(msg string, fields ...zap.Field) {
	Logger.Error(msg, fields...)
}

// Warn logs a message at WarnLevel
func Warn(msg string, fields ...zap.Field) {
	Logger.Warn(msg, fields...)
}

// Debug logs a message at DebugLevel
func Debug(msg string, fields ...zap.Field) {
	Logger.Debug(msg, fields...)
}

// Fatal logs a message at FatalLevel
func Fatal(msg string, fields ...zap.Field) {
	Logger.Fatal(msg, fields...)
}

// Sync flushes any buffered log entries
func Sync() error {
	return Logger.Sync()
}

// SetLevel dynamically changes the log level
func SetLevel(level string) {
	atomicLevel.SetLevel(parseLevel(level))
}

// GetLevel returns the current log level
func GetLevel() string {
	return atomicLevel.Level().String()
}

func createLogDir(logPath string) error {
	dir := filepath.Dir(logPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// formatCallerPath keeps package/file.go:line padded to a fixed width
func formatCallerPath(caller zapcore.EntryCaller) string {
	path := caller.TrimmedPath()
	for _, prefix := range []string{"pkg/", "cmd/", "internal/"} {
		path = strings.TrimPrefix(path, prefix)
	}
	if parts := strings.Split(path, "/"); len(parts) > 2 {
		path = strings.Join(parts[len(parts)-2:], "/")
	}

	if len(path) > callerWidth {
		path = "..." + path[len(path)-(callerWidth-3):]
	}
	return fmt.Sprintf("%-*s", callerWidth, path)
}
