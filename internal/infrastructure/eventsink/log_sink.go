// Package eventsink provides the ports.EventSink implementations used to
// observe the domain events published after every committed call.
package eventsink

import (
	"context"

	"github.com/BelizeChain/gem/internal/core/domain"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// LogSink writes one structured log line per event.
type LogSink struct {
	logger log.FieldLogger
}

// NewLogSink returns a sink logging at info level with the given logger, or
// the standard logrus one if nil.
func NewLogSink(logger log.FieldLogger) *LogSink {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogSink{logger}
}

func (s *LogSink) Publish(_ context.Context, event domain.Event) error {
	s.logger.
		WithFields(log.Fields(event.Fields())).
		WithField("event_id", uuid.New().String()).
		Info(event.Type())
	return nil
}
