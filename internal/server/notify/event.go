// Package notify delivers post-commit receipt notifications. Publishing never
// blocks and never fails the operation that produced the event.
package notify

import (
	"context"
	"time"

	"github.com/dmitrijs2005/linkproof/internal/server/models"
)

type Kind string

const ReceiptCreated Kind = "receipt_created"

// Event describes something that already happened to a committed receipt.
type Event struct {
	Kind    Kind
	Receipt models.Receipt
	Locator string
	At      time.Time
}

// Notifier accepts events for asynchronous delivery.
type Notifier interface {
	Publish(ctx context.Context, e Event)
}

// Sink delivers one event to one destination.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
