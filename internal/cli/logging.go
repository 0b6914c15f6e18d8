package cli

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// newLogger builds the operational logger. Output defaults to human-readable
// console format when out is a terminal, JSON otherwise or when forced.
func newLogger(out io.Writer, jsonMode, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if !jsonMode {
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			cw := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
			return zerolog.New(cw).Level(level).With().Timestamp().Logger()
		}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("app", "runward").Logger()
}
