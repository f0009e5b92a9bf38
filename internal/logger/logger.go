package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "restopos"

var (
	log *zap.Logger

	// level is shared by every logger Init builds, so SetLevel applies at runtime.
	level = zap.NewAtomicLevel()
)

// Init builds the global logger. "production" writes JSON at info level;
// other environments get the colored console encoder at debug level.
func Init(env string) {
	production := env == "production"

	encoding := "console"
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	level.SetLevel(zapcore.DebugLevel)

	if production {
		encoding = "json"
		enc = zap.NewProductionEncoderConfig()
		enc.TimeKey = "timestamp"
		enc.MessageKey = "message"
		enc.EncodeLevel = zapcore.LowercaseLevelEncoder
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		level.SetLevel(zapcore.InfoLevel)
	}

	cfg := zap.Config{
		Level:            level,
		Development:      !production,
		Encoding:         encoding,
		EncoderConfig:    enc,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	l, err := cfg.Build(zap.AddCaller())
	if err != nil {
		panic(err)
	}
	log = l.With(zap.String("service", serviceName), zap.String("env", env))
}

// SetLevel overrides the level chosen by Init. An empty name keeps it.
func SetLevel(name string) error {
	if name == "" {
		return nil
	}
	lvl, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("log level %q: %w", name, err)
	}
	level.SetLevel(lvl)
	return nil
}

// L returns the global logger, building it from APP_ENV on first use.
func L() *zap.Logger {
	if log == nil {
		Init(os.Getenv("APP_ENV"))
	}
	return log
}

// Replace swaps the global logger and returns a func restoring the previous one.
func Replace(l *zap.Logger) func() {
	prev := log
	log = l
	return func() { log = prev }
}

func Sync() {
	if log != nil {
		_ = log.Sync()
	}
}
