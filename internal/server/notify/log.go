package notify

import (
	"context"

	"github.com/dmitrijs2005/linkproof/internal/logging"
)

// LogSink writes each event to the structured log.
type LogSink struct {
	logger logging.Logger
}

func NewLogSink(logger logging.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(ctx context.Context, e Event) error {
	s.logger.Info(ctx, "receipt recorded",
		"kind", e.Kind,
		"receipt_id", e.Receipt.ID,
		"digest", e.Receipt.Digest,
		"link", e.Locator,
	)
	return nil
}
