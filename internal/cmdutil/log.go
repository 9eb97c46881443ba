// internal/cmdutil/log.go
package cmdutil

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Log formats.
const (
	LogConsole = "console"
	LogJSON    = "json"
)

// NewLogger builds the run logger on dst (stderr in practice).
//
// Warnings are never filtered: a level above warn is clamped to warn so a
// fallback or skipped record is visible even with output redirected. quiet
// raises the floor to warn as well, dropping progress messages only.
func NewLogger(dst io.Writer, level, format string, quiet bool) zerolog.Logger {
	lvl := ParseLevel(level)
	if quiet && lvl < zerolog.WarnLevel {
		lvl = zerolog.WarnLevel
	}
	if lvl > zerolog.WarnLevel {
		lvl = zerolog.WarnLevel
	}

	w := dst
	if strings.ToLower(format) != LogJSON {
		w = zerolog.ConsoleWriter{Out: dst, NoColor: !isTerminal(dst), TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// ParseLevel supports string-only levels; unknown values mean info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Warn logs msg at warn level. Warnings survive --quiet.
func Warn(log zerolog.Logger, msg string, fields map[string]any) {
	log.Warn().Fields(fields).Msg(msg)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
