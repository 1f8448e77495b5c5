package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// SetDebug lowers the global level to debug.
func SetDebug() {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

func Debugf(format string, args ...any) {
	log.Debug().Msg(fmt.Sprintf(format, args...))
}

func Infof(format string, args ...any) {
	log.Info().Msg(fmt.Sprintf(format, args...))
}

func Warningf(format string, args ...any) {
	log.Warn().Msg(fmt.Sprintf(format, args...))
}

func Criticalf(format string, args ...any) {
	log.Error().Msg(fmt.Sprintf(format, args...))
}

func Fatalf(format string, args ...any) {
	log.Fatal().Msg(fmt.Sprintf(format, args...))
}
