package schedule

import (
	"testing"
	"time"
)

func startMinutes(slots []Slot) []int {
	out := make([]int, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartMinute)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestGenerateSlots_DurationMustFit(t *testing.T) {
	// 09:00-10:00 window, 45-minute service: only 09:00 and 09:15 fit.
	slots := GenerateSlots(540, 600, 45, 0, nil)
	if got := startMinutes(slots); !equalInts(got, []int{540, 555}) {
		t.Fatalf("expected starts [540 555], got %v", got)
	}
}

func TestGenerateSlots_ExactFit(t *testing.T) {
	// A slot ending exactly at windowEnd is valid.
	slots := GenerateSlots(540, 600, 60, 0, nil)
	if got := startMinutes(slots); !equalInts(got, []int{540}) {
		t.Fatalf("expected starts [540], got %v", got)
	}
}

func TestGenerateSlots_EmptyWindow(t *testing.T) {
	if slots := GenerateSlots(600, 600, 30, 0, nil); len(slots) != 0 {
		t.Fatalf("expected no slots for empty window, got %v", startMinutes(slots))
	}
	if slots := GenerateSlots(600, 540, 30, 0, nil); len(slots) != 0 {
		t.Fatalf("expected no slots for inverted window, got %v", startMinutes(slots))
	}
}

func TestGenerateSlots_SkipsBooked(t *testing.T) {
	// 09:00-11:00, 30-minute service, booking at 09:30-10:00, no buffer.
	booked := []Interval{{StartMinute: 570, EndMinute: 600}}
	slots := GenerateSlots(540, 660, 30, 0, booked)
	if got := startMinutes(slots); !equalInts(got, []int{540, 600, 615, 630}) {
		t.Fatalf("expected starts [540 600 615 630], got %v", got)
	}
}

func TestConflictsWith_BufferTrailsExistingOnly(t *testing.T) {
	// Existing booking 10:00-10:30 with a 10-minute buffer blocks through
	// 10:39; a candidate ending right before an existing booking needs no gap.
	booked := []Interval{{StartMinute: 600, EndMinute: 630}}

	if !ConflictsWith(635, 665, 10, booked) {
		t.Fatal("candidate starting 10:35 should conflict inside the buffer tail")
	}
	if ConflictsWith(640, 670, 10, booked) {
		t.Fatal("candidate starting 10:40 should clear the buffer tail")
	}
	if ConflictsWith(570, 600, 10, booked) {
		t.Fatal("candidate ending 10:00 should not conflict; buffer does not lead")
	}
}

func TestConflictsWith_Containment(t *testing.T) {
	booked := []Interval{{StartMinute: 600, EndMinute: 660}}
	if !ConflictsWith(615, 645, 0, booked) {
		t.Fatal("candidate fully inside an existing booking should conflict")
	}
	if !ConflictsWith(585, 675, 0, booked) {
		t.Fatal("candidate fully containing an existing booking should conflict")
	}
}

func TestConflictsWith_AdjacentHalfOpen(t *testing.T) {
	booked := []Interval{{StartMinute: 600, EndMinute: 630}}
	if ConflictsWith(630, 660, 0, booked) {
		t.Fatal("back-to-back candidate should not conflict without buffer")
	}
	if ConflictsWith(570, 600, 0, booked) {
		t.Fatal("candidate ending at existing start should not conflict")
	}
}

func TestFilterByLeadTime_SameDay(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	slots := []Slot{
		{StartMinute: 690, EndMinute: 720}, // 11:30
		{StartMinute: 705, EndMinute: 735}, // 11:45
		{StartMinute: 720, EndMinute: 750}, // 12:00 exactly at cutoff
		{StartMinute: 735, EndMinute: 765}, // 12:15
	}

	got := FilterByLeadTime(slots, day, now, 2)
	if starts := startMinutes(got); !equalInts(starts, []int{720, 735}) {
		t.Fatalf("expected starts [720 735], got %v", starts)
	}
}

func TestFilterByLeadTime_FutureDateUntouched(t *testing.T) {
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC)
	slots := []Slot{{StartMinute: 540, EndMinute: 570}}

	got := FilterByLeadTime(slots, day, now, 24)
	if len(got) != 1 {
		t.Fatalf("expected future date to pass through, got %v", startMinutes(got))
	}
}

func TestFilterByLeadTime_ZeroLeadDropsPast(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 9, 31, 0, 0, time.UTC)
	slots := []Slot{
		{StartMinute: 540, EndMinute: 570},
		{StartMinute: 570, EndMinute: 600},
		{StartMinute: 585, EndMinute: 615},
	}

	got := FilterByLeadTime(slots, day, now, 0)
	if starts := startMinutes(got); !equalInts(starts, []int{585}) {
		t.Fatalf("expected starts [585], got %v", starts)
	}
}

func TestGenerateThenFilter_Pipeline(t *testing.T) {
	// 09:00-12:00, 30-minute service, booking 10:00-10:30, buffer 15.
	// Grid: 09:00 09:15 09:30 ok; 09:45-10:30 blocked by the booking plus its
	// tail buffer; 10:45 onward open while the slot still fits.
	booked := []Interval{{StartMinute: 600, EndMinute: 630}}
	slots := GenerateSlots(540, 720, 30, 15, booked)
	if got := startMinutes(slots); !equalInts(got, []int{540, 555, 570, 645, 660, 675, 690}) {
		t.Fatalf("unexpected grid: %v", got)
	}

	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	got := FilterByLeadTime(slots, day, now, 2)
	if starts := startMinutes(got); !equalInts(starts, []int{660, 675, 690}) {
		t.Fatalf("expected starts [660 675 690], got %v", starts)
	}
}
