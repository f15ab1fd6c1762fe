package sim

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// NewLogger builds the engine's structured logger. Drivers log progress at
// Info; per-gene evaluation detail only appears at Debug (verbose).
func NewLogger(verbose bool, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
