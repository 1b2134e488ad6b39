// Package logging builds the process logger.
package logging

import (
    "io"
    "os"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/jaminalder/tictactoe-engine/internal/config"
)

// New returns a logger writing to w per conf and installs it as the
// global zerolog logger. An unparsable level falls back to info.
func New(conf config.LogConfig, w io.Writer) zerolog.Logger {
    if w == nil {
        w = os.Stderr
    }
    level, err := zerolog.ParseLevel(conf.Level)
    if err != nil || level == zerolog.NoLevel {
        level = zerolog.InfoLevel
    }
    if conf.Format != "json" {
        w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
    }
    logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
    log.Logger = logger
    return logger
}
