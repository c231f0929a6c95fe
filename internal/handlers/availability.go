package handlers

import (
	"context"
	"time"

	"github.com/avelez-dev/bookline/internal/schedule"
)

// resolveDay loads the weekly record and date exception for the civil date
// and merges them. weekday follows time.Weekday: 0=Sunday..6=Saturday.
func (h *Handler) resolveDay(ctx context.Context, vendorID string, day time.Time) (schedule.DayAvailability, error) {
	exception, err := h.vendors.GetDateException(ctx, vendorID, day)
	if err != nil {
		return schedule.DayAvailability{}, err
	}
	weekly, err := h.vendors.GetWeeklyAvailability(ctx, vendorID, int(day.Weekday()))
	if err != nil {
		return schedule.DayAvailability{}, err
	}
	return schedule.Resolve(weekly, exception), nil
}

// generateOpenSlots runs the full listing pipeline: grid generation against
// booked intervals, then the same-day lead-time cut.
func generateOpenSlots(avail schedule.DayAvailability, durationMinutes, bufferMinutes int, booked []schedule.Interval, day, now time.Time, minLeadHours int) []schedule.Slot {
	slots := schedule.GenerateSlots(avail.StartMinute, avail.EndMinute, durationMinutes, bufferMinutes, booked)
	return schedule.FilterByLeadTime(slots, day, now, minLeadHours)
}
