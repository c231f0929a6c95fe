package model

import "time"

type Vendor struct {
	ID               string
	Name             string
	IsActive         bool
	BufferMinutes    int
	MinLeadTimeHours int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Service struct {
	ID              string
	VendorID        string
	Name            string
	DurationMinutes int
	IsActive        bool
	DeletedAt       *time.Time
	CreatedAt       time.Time
}

// WeeklyAvailability is the recurring schedule for one weekday
// (0=Sunday..6=Saturday). At most one record per (vendor, weekday).
type WeeklyAvailability struct {
	VendorID    string
	Weekday     int
	IsActive    bool
	StartMinute int
	EndMinute   int
}

// DateException overrides WeeklyAvailability for one exact calendar date.
// When IsClosed is false both minute fields must be set.
type DateException struct {
	VendorID    string
	Date        time.Time
	IsClosed    bool
	StartMinute *int
	EndMinute   *int
	Reason      string
}
