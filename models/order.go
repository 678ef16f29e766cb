package models

import "time"

// OrderStatus represents the current progress of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusAccepted       OrderStatus = "accepted"
	OrderStatusRejected       OrderStatus = "rejected"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReadyForPickup OrderStatus = "readyForPickup"
	OrderStatusAssigned       OrderStatus = "assigned"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// Terminal reports whether no further transitions are expected from the status.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusRejected || s == OrderStatusDelivered || s == OrderStatusCancelled
}

// PaymentMethod is how the customer pays for an order.
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodCard          PaymentMethod = "card"
	PaymentMethodDigitalWallet PaymentMethod = "digital_wallet"
)

// PaymentStatus reflects payment progress. It is set once at order creation.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// OrderItem is a line item snapshot taken at ordering time. Name, price and
// description are copied from the menu item so later menu edits do not
// rewrite order history.
type OrderItem struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
	Category    string  `json:"category,omitempty"`
	PrepTimeMin int64   `json:"prep_time_min,omitempty"`
	Note        string  `json:"note,omitempty"`
}

// Order represents a delivery order. Party contact details are denormalized
// onto the order so the record stays readable after profile edits.
//
// Driver fields are nullable and are set if and only if the status is
// assigned, out_for_delivery or delivered; the claim operation is the only
// writer of the initial assignment.
type Order struct {
	ID     int64  `db:"id" json:"id"`
	Number string `db:"number" json:"number"`

	CustomerID      int64  `db:"customer_id" json:"customer_id"`
	CustomerName    string `db:"customer_name" json:"customer_name"`
	CustomerEmail   string `db:"customer_email" json:"customer_email"`
	CustomerPhone   string `db:"customer_phone" json:"customer_phone"`
	DeliveryAddress string `db:"delivery_address" json:"delivery_address"`

	RestaurantID      int64  `db:"restaurant_id" json:"restaurant_id"`
	RestaurantName    string `db:"restaurant_name" json:"restaurant_name"`
	RestaurantPhone   string `db:"restaurant_phone" json:"restaurant_phone"`
	RestaurantAddress string `db:"restaurant_address" json:"restaurant_address"`

	DriverID    *int64 `db:"driver_id" json:"driver_id,omitempty"`
	DriverName  string `db:"driver_name" json:"driver_name,omitempty"`
	DriverPhone string `db:"driver_phone" json:"driver_phone,omitempty"`

	Items []OrderItem `db:"items" json:"items"`

	// Money fields are supplied by the placing client and persisted as-is;
	// no server-side recomputation happens anywhere.
	Subtotal    float64 `db:"subtotal" json:"subtotal"`
	DeliveryFee float64 `db:"delivery_fee" json:"delivery_fee"`
	Tax         float64 `db:"tax" json:"tax"`
	Total       float64 `db:"total" json:"total"`

	Status       OrderStatus `db:"status" json:"status"`
	Instructions string      `db:"instructions" json:"instructions,omitempty"`

	PaymentMethod PaymentMethod `db:"payment_method" json:"payment_method"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"payment_status"`
	PaymentRef    string        `db:"payment_ref" json:"payment_ref,omitempty"`

	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
	EstimatedDeliveryTime time.Time  `db:"estimated_delivery_time" json:"estimated_delivery_time"`
	AcceptedAt            *time.Time `db:"accepted_at" json:"accepted_at,omitempty"`
	ReadyAt               *time.Time `db:"ready_at" json:"ready_at,omitempty"`
	AssignedAt            *time.Time `db:"assigned_at" json:"assigned_at,omitempty"`
	DeliveredAt           *time.Time `db:"delivered_at" json:"delivered_at,omitempty"`
	ActualDeliveryTime    *time.Time `db:"actual_delivery_time" json:"actual_delivery_time,omitempty"`
}

// DriverRef is the contact snapshot written onto an order when a driver
// claims it.
type DriverRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
