package schedule

import "github.com/avelez-dev/bookline/internal/model"

const (
	ReasonClosedDate    = "Closed on this date"
	ReasonClosedWeekday = "Not available on this day"
)

// DayAvailability is the resolved open window for one (vendor, date).
// Reason is set only when the day is closed; a closed day is a normal
// outcome, not an error.
type DayAvailability struct {
	Open        bool
	StartMinute int
	EndMinute   int
	Reason      string
}

// Resolve merges the recurring weekly schedule with an optional
// date-specific exception. The exception always wins, regardless of its
// IsClosed value: a closed exception shuts an otherwise open weekday, and a
// modified-hours exception can open a day the weekly schedule marks closed.
func Resolve(weekly *model.WeeklyAvailability, exception *model.DateException) DayAvailability {
	if exception != nil {
		if exception.IsClosed {
			reason := exception.Reason
			if reason == "" {
				reason = ReasonClosedDate
			}
			return DayAvailability{Reason: reason}
		}
		if exception.StartMinute == nil || exception.EndMinute == nil || *exception.StartMinute >= *exception.EndMinute {
			return DayAvailability{Reason: ReasonClosedDate}
		}
		return DayAvailability{
			Open:        true,
			StartMinute: *exception.StartMinute,
			EndMinute:   *exception.EndMinute,
		}
	}

	if weekly == nil || !weekly.IsActive || weekly.StartMinute >= weekly.EndMinute {
		return DayAvailability{Reason: ReasonClosedWeekday}
	}
	return DayAvailability{
		Open:        true,
		StartMinute: weekly.StartMinute,
		EndMinute:   weekly.EndMinute,
	}
}
