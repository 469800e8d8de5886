// Package log sets up structured logging for the gogx tools: JSON records
// written to a size-rotated file in the log directory.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Name of the log file inside the log directory
const FILENAME = "gogx.slog"

type Logger struct {
	*slog.Logger
	LogFile string
	Start   time.Time
}

// Parses a level name. Unknown names fall back to info
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%s: invalid log level", level)
}

// Creates a logger writing to a rotated file in `dir`. An empty `dir`
// logs to the gogx directory of the user's config dir
func New(level string, dir string) *Logger {
	if dir == "" {
		var err error
		dir, err = os.UserConfigDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to find user config dir: %v\n", err)
			dir = "."
		}
		dir = filepath.Join(dir, "gogx")
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(dir, FILENAME),
		MaxSize:    32, // MB
		MaxBackups: 1,
	}
	if level == "debug" {
		// per draw records add up quickly
		w.MaxSize = 512
	}

	l := NewWriter(level, w)
	l.LogFile = w.Filename
	return l
}

// Creates a logger writing JSON records to `w`
func NewWriter(level string, w io.Writer) *Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	l := &Logger{
		Logger: slog.New(h),
		Start:  time.Now(),
	}

	l.Info("gogx: logging started",
		slog.String("logLevel", lvl.String()),
		slog.String("go", runtime.Version()))
	return l
}

// The wrappers below accept a nil *Logger. Debug and info messages are
// then discarded while warnings and errors go to the default slog logger

func (l *Logger) Debugf(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(context.Background(), slog.LevelDebug) {
		l.Logger.Debug(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Infof(msg string, args ...any) {
	if l != nil && l.Logger.Enabled(context.Background(), slog.LevelInfo) {
		l.Logger.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Warnf(msg string, args ...any) {
	if l == nil {
		slog.Warn(fmt.Sprintf(msg, args...))
	} else {
		l.Logger.Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Errorf(msg string, args ...any) {
	slog.Error(fmt.Sprintf(msg, args...))
	if l != nil {
		l.Logger.Error(fmt.Sprintf(msg, args...))
	}
}

// Returns the underlying slog logger, or nil for a nil Logger
func (l *Logger) Slog() *slog.Logger {
	if l == nil {
		return nil
	}
	return l.Logger
}
