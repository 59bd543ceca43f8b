package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Category tags every record so the single rotating file can be filtered per subsystem.
type Category string

const (
	Application   Category = "application"
	DiscordEvents Category = "discord"
	Store         Category = "store"
	Errors        Category = "error"
)

// Options configures SetupLogger.
type Options struct {
	// FilePath is the rotating log file. Empty disables file output.
	FilePath string
	Level    slog.Level

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// Console mirrors every record to stdout.
	Console bool
}

// Logger owns the slog handler and the lumberjack rotator behind it.
type Logger struct {
	base    *slog.Logger
	rotator *lumberjack.Logger
}

var (
	mu sync.RWMutex
	// GlobalLogger is nil until SetupLogger succeeds.
	GlobalLogger *Logger
)

// SetupLogger configures the global logger. Calling it again replaces the
// previous logger and closes its file.
func SetupLogger(opts Options) error {
	var writers []io.Writer
	var rotator *lumberjack.Logger

	if opts.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		rotator = &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    defaultInt(opts.MaxSizeMB, 10),
			MaxBackups: defaultInt(opts.MaxBackups, 5),
			MaxAge:     defaultInt(opts.MaxAgeDays, 30),
			Compress:   true,
		}
		writers = append(writers, rotator)
	}
	if opts.Console || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	handler := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{Level: opts.Level})
	l := &Logger{base: slog.New(handler), rotator: rotator}

	mu.Lock()
	prev := GlobalLogger
	GlobalLogger = l
	mu.Unlock()

	if prev != nil {
		_ = prev.Sync()
	}
	return nil
}

// Sync closes the current log file; lumberjack reopens it on the next write.
func (l *Logger) Sync() error {
	if l == nil || l.rotator == nil {
		return nil
	}
	return l.rotator.Close()
}

// With returns the underlying slog logger tagged with category.
func (l *Logger) With(category Category) *slog.Logger {
	return l.base.With(slog.String("category", string(category)))
}

// Sync flushes the global logger, if any.
func Sync() error {
	mu.RLock()
	l := GlobalLogger
	mu.RUnlock()
	return l.Sync()
}

// For returns the logger for category. Before SetupLogger runs it falls back
// to a text handler on stderr.
func For(category Category) *slog.Logger {
	mu.RLock()
	l := GlobalLogger
	mu.RUnlock()
	if l == nil {
		return fallback().With(slog.String("category", string(category)))
	}
	return l.With(category)
}

func ApplicationLogger() *slog.Logger { return For(Application) }
func DiscordLogger() *slog.Logger     { return For(DiscordEvents) }
func StoreLogger() *slog.Logger       { return For(Store) }
func ErrorLogger() *slog.Logger       { return For(Errors) }

// ParseLevel maps debug/info/warn/error onto slog levels; unknown values yield info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var (
	fallbackOnce   sync.Once
	fallbackLogger *slog.Logger
)

func fallback() *slog.Logger {
	fallbackOnce.Do(func() {
		fallbackLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	})
	return fallbackLogger
}

func defaultInt(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
