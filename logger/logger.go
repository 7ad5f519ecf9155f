// Package logger builds the zerolog logger used by every command.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New logs to stderr through a console writer, or appends JSON lines to file
// when one is given. The returned closer releases the file.
func New(level, file string) (zerolog.Logger, io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var (
		w      io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
		closer io.Closer = io.NopCloser(nil)
	)
	if file != "" {
		f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		w, closer = f, f
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), closer, nil
}
