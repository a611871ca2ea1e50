// Package logging configures zerolog for the OCR-D log level enumeration.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ocrdkit/internal/errors"
)

// Levels is the fixed OCR-D log level enumeration, in order of severity.
var Levels = []string{"OFF", "ERROR", "WARN", "INFO", "DEBUG", "TRACE"}

// ParseLevel maps an OCR-D level name onto a zerolog level.
func ParseLevel(name string) (zerolog.Level, error) {
	switch name {
	case "OFF":
		return zerolog.Disabled, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	case "WARN":
		return zerolog.WarnLevel, nil
	case "INFO":
		return zerolog.InfoLevel, nil
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "TRACE":
		return zerolog.TraceLevel, nil
	}
	return zerolog.NoLevel, errors.NewValidationError("log-level",
		"invalid log level '"+name+"', must be one of OFF, ERROR, WARN, INFO, DEBUG, TRACE")
}

// IsValidLevel reports whether name is part of the level enumeration.
func IsValidLevel(name string) bool {
	_, err := ParseLevel(name)
	return err == nil
}

// Setup initializes the global logger. Output goes to stderr, or to filename
// when non-empty. The returned error is a validation error for unknown
// level names.
func Setup(level, filename string) error {
	lv, err := ParseLevel(level)
	if err != nil {
		return err
	}
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if filename != "" {
		f, ferr := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if ferr != nil {
			return errors.NewPreconditionError("cannot open log file %s: %v", filename, ferr)
		}
		out = f
	}
	zerolog.SetGlobalLevel(lv)
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}
