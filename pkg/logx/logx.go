// Package logx configures the process-wide zerolog logger.
//
// Services receive a zerolog.Logger derived from the root via Component().
// The zero-config default is a console writer at info level.
package logx

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

type Config struct {
	Level   string     `yaml:"level"`
	Console bool       `yaml:"console"`
	File    FileConfig `yaml:"file"`
}

type FileConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// New builds the root logger. The returned closer releases the file sink,
// if any; it is safe to call even when no file sink was opened.
func New(cfg Config) (zerolog.Logger, func() error, error) {
	zerolog.TimeFieldFormat = consoleTimeFormat
	zerolog.ErrorFieldName = "err"

	var sinks []io.Writer
	closer := func() error { return nil }

	if cfg.Console || (!cfg.Console && !cfg.File.Enabled) {
		sinks = append(sinks, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: consoleTimeFormat})
	}
	if cfg.File.Enabled {
		path := strings.TrimSpace(cfg.File.Path)
		if path == "" {
			return zerolog.Nop(), closer, fmt.Errorf("logging.file.path is required when file sink is enabled")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return zerolog.Nop(), closer, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return zerolog.Nop(), closer, err
		}
		sinks = append(sinks, f)
		closer = f.Close
	}

	out := sinks[0]
	if len(sinks) > 1 {
		out = zerolog.MultiLevelWriter(sinks...)
	}

	// The level is global so a config reload can change it without
	// rebuilding every derived component logger.
	zerolog.SetGlobalLevel(ParseLevel(cfg.Level, zerolog.InfoLevel))
	log := zerolog.New(out).With().Timestamp().Logger()
	return log, closer, nil
}

// SetLevel changes the process log level at runtime.
func SetLevel(level string) {
	zerolog.SetGlobalLevel(ParseLevel(level, zerolog.InfoLevel))
}

// Component derives a logger tagged with a component name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("comp", name).Logger()
}

// Nop returns a logger that never writes anything.
func Nop() zerolog.Logger { return zerolog.Nop() }

func ParseLevel(s string, def zerolog.Level) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "", "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return def
	}
}
