package models

import "time"

// ApplicationStatus is the admin review state of a partner application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// PartnerApplication is a user's request to be granted the restaurant or
// driver role. Applications are never hard-deleted; admins clear them with
// the Deleted flag.
type PartnerApplication struct {
	ID           int64             `db:"id" json:"id"`
	UserID       int64             `db:"user_id" json:"user_id"`
	Email        string            `db:"email" json:"email"`
	RequestedRole Role             `db:"requested_role" json:"requested_role"`
	BusinessName string            `db:"business_name" json:"business_name,omitempty"`
	Message      string            `db:"message" json:"message,omitempty"`
	Status       ApplicationStatus `db:"status" json:"status"`
	Deleted      bool              `db:"deleted" json:"deleted"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
	ReviewedAt   *time.Time        `db:"reviewed_at" json:"reviewed_at,omitempty"`
}
