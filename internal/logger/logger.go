// Package logger wraps zerolog for the dsm command.
//
// Logs go to stderr so they never mix with command output on stdout.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New returns a human-readable logger writing to w at the given level
// ("debug", "info", "warn", "error"). Unknown levels fall back to warn.
func New(w io.Writer, level string) *Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: !isTerminal(w)}
	l := zerolog.New(out).Level(lvl).With().
		Timestamp().
		Str("role", "dsm").
		Logger()

	return &Logger{l}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// WithField returns a child logger carrying key=value.
func (l *Logger) WithField(key, value string) *Logger {
	return &Logger{l.Logger.With().Str(key, value).Logger()}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
