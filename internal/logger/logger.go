// Package logger builds the process-wide structured logger.  All operator
// detail (storage failures, unexpected handler errors) goes through zerolog;
// clients only ever see the generic status code.
package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a zerolog logger tagged with the service name.  LOG_FORMAT may
// be "console" for human-readable development output; the default is JSON.
// LOG_LEVEL accepts the usual zerolog level names and defaults to info.
func New(service string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out = os.Stdout
	var w zerolog.Logger
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "console") {
		cw := zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
		w = zerolog.New(cw)
	} else {
		w = zerolog.New(out)
	}

	level := zerolog.InfoLevel
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		if l, err := zerolog.ParseLevel(strings.ToLower(s)); err == nil && l != zerolog.NoLevel {
			level = l
		}
	}

	return w.With().Timestamp().Str("service", service).Logger().Level(level)
}
