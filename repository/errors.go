package repository

import "errors"

// Claim failure modes are distinguished business errors so callers can tell
// a lost race apart from an order that was never ready.
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrOrderNotReady = errors.New("order is not ready for pickup")
	ErrOrderClaimed  = errors.New("order already claimed by another driver")

	ErrEmailTaken = errors.New("email already registered")
)
