package base

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLog configures the global zerolog logger from Config.
// Call after InitConfig.
func InitLog() {
	level, err := zerolog.ParseLevel(Config.LogLevel)
	if err != nil || Config.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if Config.LogFormat == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).Level(level).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	}
	log.Logger = logger
}
