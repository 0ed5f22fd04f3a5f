package schema

import (
	"github.com/rs/zerolog"
)

// LogReporter writes installer progress to a zerolog logger and counts warnings.
type LogReporter struct {
	logger   zerolog.Logger
	current  string
	Warnings int
}

func NewLogReporter(logger zerolog.Logger) *LogReporter {
	return &LogReporter{logger: logger.With().Str("component", "schema").Logger()}
}

func (r *LogReporter) Start(message string) {
	r.current = message
	r.logger.Info().Msg(message)
}

func (r *LogReporter) Done() {
	r.logger.Info().Str("step", r.current).Msg("done")
}

func (r *LogReporter) Exists(message string, err error) {
	r.Warnings++
	r.logger.Warn().Err(err).Str("step", message).Msg("already exists")
}
