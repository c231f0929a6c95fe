package handlers

import (
	"testing"
	"time"

	"github.com/avelez-dev/bookline/internal/model"
	"github.com/avelez-dev/bookline/internal/schedule"
)

func TestParseDate(t *testing.T) {
	day, err := parseDate("2026-03-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if !day.Equal(want) {
		t.Fatalf("expected %s, got %s", want, day)
	}

	for _, in := range []string{"", "10-03-2026", "2026/03/10", "2026-3-10", "tomorrow"} {
		if _, err := parseDate(in); err == nil {
			t.Fatalf("parseDate(%q) expected error", in)
		}
	}
}

func TestParseWindow(t *testing.T) {
	start, end, ok := parseWindow("09:00", "17:00")
	if !ok {
		t.Fatal("expected valid window")
	}
	if start != 540 || end != 1020 {
		t.Fatalf("expected 540-1020, got %d-%d", start, end)
	}

	cases := [][2]string{
		{"17:00", "09:00"},
		{"09:00", "09:00"},
		{"", "17:00"},
		{"09:00", "24:00"},
	}
	for _, tc := range cases {
		if _, _, ok := parseWindow(tc[0], tc[1]); ok {
			t.Fatalf("parseWindow(%q, %q) expected invalid", tc[0], tc[1])
		}
	}
}

func TestGenerateOpenSlots(t *testing.T) {
	avail := schedule.DayAvailability{Open: true, StartMinute: 540, EndMinute: 660}
	booked := []schedule.Interval{{StartMinute: 570, EndMinute: 600}}
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	slots := generateOpenSlots(avail, 30, 0, booked, day, now, 2)
	if len(slots) != 4 {
		t.Fatalf("expected 4 slots, got %d", len(slots))
	}
	if slots[0].StartMinute != 540 || slots[1].StartMinute != 600 {
		t.Fatalf("unexpected slot starts: %d, %d", slots[0].StartMinute, slots[1].StartMinute)
	}
}

func TestSlotItems(t *testing.T) {
	items, err := slotItems([]schedule.Slot{
		{StartMinute: 540, EndMinute: 585},
		{StartMinute: 585, EndMinute: 630},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].StartTime != "09:00" || items[0].EndTime != "09:45" {
		t.Fatalf("unexpected first item: %+v", items[0])
	}
	if items[1].StartTime != "09:45" || items[1].EndTime != "10:30" {
		t.Fatalf("unexpected second item: %+v", items[1])
	}
}

func TestToBookingItem(t *testing.T) {
	cancelled := time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)
	b := model.Booking{
		ID:          "b-1",
		VendorID:    "v-1",
		ServiceID:   "s-1",
		CustomerID:  "c-1",
		Date:        time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		StartMinute: 600,
		EndMinute:   645,
		Status:      model.StatusCancelled,
		CancelledAt: &cancelled,
	}
	item, err := toBookingItem(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Date != "2026-03-10" {
		t.Fatalf("expected date 2026-03-10, got %q", item.Date)
	}
	if item.StartTime != "10:00" || item.EndTime != "10:45" {
		t.Fatalf("unexpected times: %q-%q", item.StartTime, item.EndTime)
	}
	if item.CancelledAt != "2026-03-09T14:30:00Z" {
		t.Fatalf("unexpected cancelled_at: %q", item.CancelledAt)
	}
	if item.CreatedAt != "" {
		t.Fatalf("expected empty created_at for zero time, got %q", item.CreatedAt)
	}
}
