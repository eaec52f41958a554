// Package logger builds the process-wide zap logger.
//
// The TUI owns the terminal, so logs go to a file instead of stderr.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New opens the log file at path, creating it and its directory if
// needed, and returns a logger writing to it. An empty path means
// DefaultPath. The level string is parsed by zap ("debug", "info",
// "warn", "error"); empty means info. The debug flag forces debug
// level regardless. The returned cleanup flushes and closes the file.
func New(path, level string, debug bool) (*zap.Logger, func(), error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, nil, err
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	lvl := zap.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
		lvl = parsed
	}
	if debug {
		lvl = zap.DebugLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(f),
		lvl,
	)

	logger := zap.New(core, zap.AddCaller())
	cleanup := func() {
		_ = logger.Sync()
		_ = f.Close()
	}
	return logger, cleanup, nil
}

// DefaultPath returns the default log file location,
// ~/.dbchat/dbchat.log.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".dbchat", "dbchat.log"), nil
}
