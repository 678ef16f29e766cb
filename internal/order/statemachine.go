package order

import (
	"time"

	"grubz/models"
)

// TransitionOption carries extra fields applied alongside a status change.
type TransitionOption func(*models.Order, time.Time)

// WithDriver snapshots the driver's contact details onto the order. Used on
// assignment.
func WithDriver(d models.DriverRef) TransitionOption {
	return func(o *models.Order, _ time.Time) {
		id := d.ID
		o.DriverID = &id
		o.DriverName = d.Name
		o.DriverPhone = d.Phone
	}
}

// Transition moves an order to the target status, refreshes UpdatedAt and
// stamps the status-specific timestamp field. No other fields are touched.
//
// The source status is deliberately not validated: any status can move to any
// other through this call, mirroring admin-override behavior. Only the claim
// operation enforces a precondition.
func Transition(o *models.Order, status models.OrderStatus, opts ...TransitionOption) {
	now := time.Now().UTC()
	o.Status = status
	o.UpdatedAt = now

	switch status {
	case models.OrderStatusAccepted:
		o.AcceptedAt = &now
	case models.OrderStatusReadyForPickup:
		o.ReadyAt = &now
	case models.OrderStatusAssigned, models.OrderStatusOutForDelivery:
		o.AssignedAt = &now
	case models.OrderStatusDelivered:
		o.DeliveredAt = &now
		o.ActualDeliveryTime = &now
	}

	for _, opt := range opts {
		opt(o, now)
	}
}
