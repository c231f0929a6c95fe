package model

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// IsTerminal reports whether a status no longer occupies the vendor's
// timeline. Only pending and confirmed bookings block new slots.
func IsTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Booking is a committed reservation on one vendor's timeline. Times are
// minutes since midnight in the vendor's local civil time; Date carries no
// time component.
type Booking struct {
	ID           string
	VendorID     string
	ServiceID    string
	CustomerID   string
	Date         time.Time
	StartMinute  int
	EndMinute    int
	Status       string
	CancelReason string
	CancelledAt  *time.Time
	CreatedAt    time.Time
}
