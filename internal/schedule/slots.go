package schedule

import "time"

// SlotStepMinutes is the candidate cadence. A fixed policy constant, not
// configurable per vendor.
const SlotStepMinutes = 15

// Interval is a half-open [StartMinute, EndMinute) span within one day.
type Interval struct {
	StartMinute int
	EndMinute   int
}

// Slot is one bookable opening. Ephemeral: regenerated per request, never
// persisted.
type Slot struct {
	StartMinute int
	EndMinute   int
}

// GenerateSlots enumerates open slots on the 15-minute grid starting exactly
// at windowStart. A candidate start t is kept iff t+serviceDuration fits
// entirely within the window and [t, t+serviceDuration) does not overlap any
// existing booking extended by bufferMinutes at its tail. The buffer is
// applied only after existing bookings, never to the candidate itself.
// Output is ascending and fully materialized (a day has at most 96 steps).
func GenerateSlots(windowStart, windowEnd, serviceDuration, bufferMinutes int, booked []Interval) []Slot {
	if serviceDuration <= 0 || windowEnd <= windowStart {
		return nil
	}
	if bufferMinutes < 0 {
		bufferMinutes = 0
	}

	var slots []Slot
	for t := windowStart; t+serviceDuration <= windowEnd; t += SlotStepMinutes {
		if ConflictsWith(t, t+serviceDuration, bufferMinutes, booked) {
			continue
		}
		slots = append(slots, Slot{StartMinute: t, EndMinute: t + serviceDuration})
	}
	return slots
}

// ConflictsWith reports whether the candidate [start, end) overlaps any
// existing interval once bufferMinutes is appended to each interval's tail.
// Half-open test: [start,end) overlaps [b.Start,b.End+buffer) iff
// start < b.End+buffer && b.Start < end. The single predicate covers all
// three sub-cases, including full containment.
func ConflictsWith(start, end, bufferMinutes int, booked []Interval) bool {
	for _, b := range booked {
		if start < b.EndMinute+bufferMinutes && b.StartMinute < end {
			return true
		}
	}
	return false
}

// FilterByLeadTime drops slots starting before now + minLeadHours when the
// requested date is the civil calendar date of now. Future dates pass
// through untouched. A slot starting exactly at the cutoff is retained.
// now is injected by the caller so the filter stays deterministic in tests.
func FilterByLeadTime(slots []Slot, date time.Time, now time.Time, minLeadHours int) []Slot {
	if !sameCivilDay(date, now) {
		return slots
	}
	cutoff := now.Hour()*60 + now.Minute() + minLeadHours*60

	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if s.StartMinute < cutoff {
			continue
		}
		out = append(out, s)
	}
	return out
}

func sameCivilDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
