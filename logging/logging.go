// Package logging builds the slog.Logger shared by every component of a run.
//
// Records go to the console and, when a log directory is configured, to a
// per-run file rotated by lumberjack. The log directory is what the log
// archiver later commits to the log branch.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	perrors "github.com/input-output-hk/daily-contributor/errors"
)

const (
	// MaxSizeMB is the size at which a run log is rotated.
	MaxSizeMB = 5

	// MaxBackups is the number of rotated files kept per run log.
	MaxBackups = 3

	fileLayout = "20060102_150405"
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn or error. Empty means info.
	Level string

	// Dir is the directory for the run log file. Empty disables file output.
	Dir string

	// Console receives the human readable stream. Nil means os.Stderr.
	Console io.Writer

	// Now stamps the run log file name. Nil means time.Now.
	Now func() time.Time
}

// Logger is a configured logger plus the file it writes to, if any.
type Logger struct {
	*slog.Logger

	file *lumberjack.Logger
}

// Path returns the run log file path, or "" without file output.
func (l *Logger) Path() string {
	if l.file == nil {
		return ""
	}
	return l.file.Filename
}

// Close flushes and closes the run log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// New builds a Logger from opts.
func New(opts Options) (*Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	out := &Logger{}
	w := console

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, perrors.WrapWithContext(err, perrors.CodeInvalidConfig, "creating log directory",
				map[string]interface{}{"log_dir": opts.Dir})
		}

		out.file = &lumberjack.Logger{
			Filename:   filepath.Join(opts.Dir, FileName(now())),
			MaxSize:    MaxSizeMB,
			MaxBackups: MaxBackups,
		}
		w = io.MultiWriter(console, out.file)
	}

	out.Logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))

	return out, nil
}

// FileName returns the run log file name for a run started at t.
func FileName(t time.Time) string {
	return "run_" + t.Format(fileLayout) + ".log"
}

// ParseLevel maps a configured level name to a slog.Level. Names are case
// insensitive; "warning" is accepted for warn.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, perrors.New(perrors.CodeInvalidConfig, fmt.Sprintf("unknown log level %q", name))
	}
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
