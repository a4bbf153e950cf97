package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger configuration.
type Config struct {
	Level  string
	Pretty bool
	Output io.Writer
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	output := cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: time.RFC3339,
		}
	}

	log.Logger = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}
