package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logger setup options
type Config struct {
	Level       string // debug, info, warn, error
	Environment string // development, production
}

// Init configures the global zerolog logger. Development gets a colored
// console writer, everything else plain JSON on stdout.
func Init(cfg Config) error {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
		return nil
	}

	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	return nil
}
