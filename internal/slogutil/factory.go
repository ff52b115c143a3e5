package slogutil

import (
	"io"
	"log/slog"
	"os"

	"lifesuite/internal/config"
)

// Subsystem names used for per-subsystem level overrides.
const (
	SubsystemMCP  = "mcp"
	SubsystemHTTP = "http"
	SubsystemAuth = "auth"
)

// LoggerFactory creates loggers for the server's subsystems from the logging
// config. Level precedence: CLI flag > subsystem config > global config.
type LoggerFactory struct {
	cfg      config.LoggingConfig
	console  io.Writer
	cliLevel *slog.Level
	file     *RotatingFile
}

// NewLoggerFactory creates a factory writing to console and, when cfg.File is
// set, to a size-rotated log file as well. cliLevel may be nil.
func NewLoggerFactory(cfg config.LoggingConfig, console io.Writer, cliLevel *slog.Level) (*LoggerFactory, error) {
	if console == nil {
		console = os.Stderr
	}
	f := &LoggerFactory{cfg: cfg, console: console, cliLevel: cliLevel}

	if cfg.File != "" {
		rf, err := OpenRotatingFile(cfg.File, int64(cfg.MaxSizeMB)*1024*1024, cfg.MaxBackups)
		if err != nil {
			return nil, err
		}
		f.file = rf
	}
	return f, nil
}

// Logger returns a logger for the named subsystem, tagged with subsystem=<name>.
func (f *LoggerFactory) Logger(subsystem string) *slog.Logger {
	level := f.EffectiveLevel(subsystem)

	handler := NewHandler(f.console, f.cfg.Format, level)
	if f.file != nil {
		handler = NewTeeHandler(handler, NewHandler(f.file, f.cfg.Format, level))
	}
	return slog.New(handler).With("subsystem", subsystem)
}

// EffectiveLevel returns the level a subsystem logs at.
func (f *LoggerFactory) EffectiveLevel(subsystem string) slog.Level {
	if f.cliLevel != nil {
		return *f.cliLevel
	}
	if lvl, ok := f.cfg.Subsystems[subsystem]; ok && lvl != "" {
		return LevelFromString(lvl)
	}
	return LevelFromString(f.cfg.Level)
}

// Close closes the log file, if any.
func (f *LoggerFactory) Close() error {
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file = nil
	return err
}
