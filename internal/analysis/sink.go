package analysis

import (
	"github.com/rs/zerolog"
)

// Fields are structured key/value pairs attached to a diagnostic
type Fields map[string]interface{}

// Sink receives pipeline diagnostics
type Sink interface {
	Info(msg string, fields Fields)
	Warn(msg string, err error, fields Fields)
}

// LogSink writes diagnostics to a zerolog logger, attributing each line to
// the caller of Info or Warn.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a sink backed by logger
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Info logs at info level
func (s *LogSink) Info(msg string, fields Fields) {
	s.logger.Info().Caller(1).Fields(map[string]interface{}(fields)).Msg(msg)
}

// Warn logs at warn level with the error attached
func (s *LogSink) Warn(msg string, err error, fields Fields) {
	s.logger.Warn().Caller(1).Err(err).Fields(map[string]interface{}(fields)).Msg(msg)
}

// NopSink discards diagnostics
type NopSink struct{}

func (NopSink) Info(string, Fields)        {}
func (NopSink) Warn(string, error, Fields) {}
