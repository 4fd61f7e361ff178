package notify

import (
	"context"
	"time"

	"github.com/dmitrijs2005/linkproof/internal/logging"
	"github.com/dmitrijs2005/linkproof/internal/server/metrics"
)

const (
	defaultQueueSize = 256
	deliveryTimeout  = 10 * time.Second
	drainTimeout     = 5 * time.Second
)

// Dispatcher queues events on a bounded channel and fans them out to its
// sinks from a single worker goroutine started with Run.
type Dispatcher struct {
	queue   chan Event
	sinks   []Sink
	logger  logging.Logger
	metrics *metrics.Metrics
}

func NewDispatcher(queueSize int, logger logging.Logger, m *metrics.Metrics, sinks ...Sink) *Dispatcher {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Dispatcher{
		queue:   make(chan Event, queueSize),
		sinks:   sinks,
		logger:  logger.With("module", "notify"),
		metrics: m,
	}
}

// Publish enqueues e. When the queue is full the event is dropped.
func (d *Dispatcher) Publish(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	select {
	case d.queue <- e:
	default:
		d.metrics.IncrementNotificationsDropped()
		d.logger.Warn(ctx, "notification queue full, event dropped",
			"kind", e.Kind, "receipt_id", e.Receipt.ID, "digest", e.Receipt.Digest)
	}
}

// Run delivers events until ctx is done, then makes a bounded attempt to
// deliver what is still queued. It always returns nil.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.drain(context.WithoutCancel(ctx))
			return nil
		case e := <-d.queue:
			d.deliver(ctx, e)
		}
	}
}

func (d *Dispatcher) drain(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()

	for {
		select {
		case e := <-d.queue:
			d.deliver(ctx, e)
		default:
			return
		}
		if ctx.Err() != nil {
			d.logger.Warn(ctx, "notification drain timed out", "pending", len(d.queue))
			return
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, e Event) {
	for _, s := range d.sinks {
		sctx, cancel := context.WithTimeout(ctx, deliveryTimeout)
		err := s.Deliver(sctx, e)
		cancel()
		if err != nil {
			d.metrics.IncrementNotificationFailures(s.Name())
			d.logger.Error(ctx, "notification delivery failed",
				"sink", s.Name(), "receipt_id", e.Receipt.ID, "error", err)
		}
	}
}
