// Package zerolog provides structured logging using rs/zerolog.
package zerolog

import (
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/docblocks"
	zerologlib "github.com/rs/zerolog"
)

// Compile-time interface verification.
var _ docblocks.Reporter = (*Reporter)(nil)

// New builds a logger writing to w. Format "console" (the default) writes
// human-readable lines; "json" writes one JSON object per event.
func New(cfg docblocks.LogConfig, w io.Writer) (zerologlib.Logger, error) {
	level := zerologlib.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerologlib.ParseLevel(cfg.Level)
		if err != nil {
			return zerologlib.Nop(), fmt.Errorf("zerolog: invalid level %q", cfg.Level)
		}
		level = parsed
	}

	out := w
	switch cfg.Format {
	case "", "console":
		out = zerologlib.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	case "json":
	default:
		return zerologlib.Nop(), fmt.Errorf("zerolog: invalid format %q", cfg.Format)
	}

	return zerologlib.New(out).Level(level).With().Timestamp().Logger(), nil
}

// Reporter logs diagnostics as warnings.
type Reporter struct {
	logger zerologlib.Logger
}

// NewReporter creates a Reporter logging through logger.
func NewReporter(logger zerologlib.Logger) *Reporter {
	return &Reporter{logger: logger}
}

// Report logs d with its location and kind as fields.
func (r *Reporter) Report(path string, d docblocks.Diagnostic) {
	event := r.logger.Warn().
		Str("path", path).
		Int("line", d.Line).
		Str("kind", string(d.Kind))
	if d.Name != "" {
		event = event.Str("name", d.Name)
	}
	event.Msg(d.String())
}
