package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global logger. Diagnostics go to stderr so
// stdout carries only the extracted report values.
func InitLogger(logLevel string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch logLevel {
	case "none":
		log.Logger = log.Output(zerolog.Nop())
	case "error":
		log.Logger = log.Level(zerolog.ErrorLevel)
	case "info":
		log.Logger = log.Level(zerolog.InfoLevel)
	case "debug":
		log.Logger = log.Level(zerolog.DebugLevel)
	default:
		log.Fatal().Msgf("Unknown log level: %s", logLevel)
	}
}
