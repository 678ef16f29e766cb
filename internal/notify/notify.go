package notify

import (
	"context"

	"grubz/internal/order"
)

// Nop is an order.EventPublisher that discards events. Used when no broker
// is configured.
type Nop struct{}

func (Nop) PublishOrderEvent(context.Context, order.Event) error { return nil }
