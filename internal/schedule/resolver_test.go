package schedule

import (
	"testing"

	"github.com/avelez-dev/bookline/internal/model"
)

func intPtr(v int) *int { return &v }

func TestResolve_WeeklyOnly(t *testing.T) {
	weekly := &model.WeeklyAvailability{IsActive: true, StartMinute: 540, EndMinute: 1020}
	got := Resolve(weekly, nil)
	if !got.Open {
		t.Fatalf("expected open day, got closed: %q", got.Reason)
	}
	if got.StartMinute != 540 || got.EndMinute != 1020 {
		t.Fatalf("expected window 540-1020, got %d-%d", got.StartMinute, got.EndMinute)
	}
}

func TestResolve_NoWeeklyRecord(t *testing.T) {
	got := Resolve(nil, nil)
	if got.Open {
		t.Fatal("expected closed day")
	}
	if got.Reason != ReasonClosedWeekday {
		t.Fatalf("expected reason %q, got %q", ReasonClosedWeekday, got.Reason)
	}
}

func TestResolve_InactiveWeekly(t *testing.T) {
	weekly := &model.WeeklyAvailability{IsActive: false, StartMinute: 540, EndMinute: 1020}
	got := Resolve(weekly, nil)
	if got.Open {
		t.Fatal("expected closed day")
	}
	if got.Reason != ReasonClosedWeekday {
		t.Fatalf("expected reason %q, got %q", ReasonClosedWeekday, got.Reason)
	}
}

func TestResolve_ClosedExceptionBeatsOpenWeekly(t *testing.T) {
	weekly := &model.WeeklyAvailability{IsActive: true, StartMinute: 540, EndMinute: 1020}
	exc := &model.DateException{IsClosed: true, Reason: "Public holiday"}
	got := Resolve(weekly, exc)
	if got.Open {
		t.Fatal("expected closed day")
	}
	if got.Reason != "Public holiday" {
		t.Fatalf("expected exception reason, got %q", got.Reason)
	}
}

func TestResolve_ClosedExceptionDefaultReason(t *testing.T) {
	got := Resolve(nil, &model.DateException{IsClosed: true})
	if got.Open {
		t.Fatal("expected closed day")
	}
	if got.Reason != ReasonClosedDate {
		t.Fatalf("expected reason %q, got %q", ReasonClosedDate, got.Reason)
	}
}

func TestResolve_OpenExceptionOverridesHours(t *testing.T) {
	weekly := &model.WeeklyAvailability{IsActive: true, StartMinute: 540, EndMinute: 1020}
	exc := &model.DateException{StartMinute: intPtr(600), EndMinute: intPtr(840)}
	got := Resolve(weekly, exc)
	if !got.Open {
		t.Fatalf("expected open day, got closed: %q", got.Reason)
	}
	if got.StartMinute != 600 || got.EndMinute != 840 {
		t.Fatalf("expected window 600-840, got %d-%d", got.StartMinute, got.EndMinute)
	}
}

func TestResolve_OpenExceptionOpensClosedWeekday(t *testing.T) {
	exc := &model.DateException{StartMinute: intPtr(600), EndMinute: intPtr(840)}
	got := Resolve(nil, exc)
	if !got.Open {
		t.Fatalf("expected open day, got closed: %q", got.Reason)
	}
}

func TestResolve_MalformedOpenException(t *testing.T) {
	weekly := &model.WeeklyAvailability{IsActive: true, StartMinute: 540, EndMinute: 1020}
	cases := []*model.DateException{
		{},
		{StartMinute: intPtr(600)},
		{StartMinute: intPtr(840), EndMinute: intPtr(600)},
		{StartMinute: intPtr(600), EndMinute: intPtr(600)},
	}
	for i, exc := range cases {
		got := Resolve(weekly, exc)
		if got.Open {
			t.Fatalf("case %d: expected closed day for malformed exception", i)
		}
	}
}
