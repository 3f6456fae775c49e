package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init installs the global logger. Logs go to stderr so stdout stays free
// for command output and raw event payloads.
func Init(logLevel string) error {
	return InitWriter(os.Stderr, logLevel)
}

func InitWriter(w io.Writer, logLevel string) error {
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("logging: failed to parse log level of %s: %w", logLevel, err)
	}

	log.Logger = zerolog.New(w).
		With().
		Stack().
		Timestamp().Logger()
	zerolog.SetGlobalLevel(level)
	return nil
}
