package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/avelez-dev/bookline/internal/model"
	"github.com/avelez-dev/bookline/internal/outbox"
	"github.com/avelez-dev/bookline/internal/schedule"
	"github.com/avelez-dev/bookline/internal/storage"
)

type Handler struct {
	vendors  *storage.VendorRepository
	bookings *storage.BookingRepository
	outbox   *outbox.Repository
	logger   *slog.Logger

	// now is swappable so lead-time behavior is deterministic in tests.
	now func() time.Time
}

func New(vendors *storage.VendorRepository, bookings *storage.BookingRepository, outboxRepo *outbox.Repository, logger *slog.Logger) *Handler {
	return &Handler{
		vendors:  vendors,
		bookings: bookings,
		outbox:   outboxRepo,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

const dateLayout = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.UTC)
}

func vendorIDFromHeader(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Vendor-Id"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func toIntervals(bookings []model.Booking) []schedule.Interval {
	out := make([]schedule.Interval, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, schedule.Interval{StartMinute: b.StartMinute, EndMinute: b.EndMinute})
	}
	return out
}

type slotItem struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func slotItems(slots []schedule.Slot) ([]slotItem, error) {
	items := make([]slotItem, 0, len(slots))
	for _, s := range slots {
		start, err := schedule.ToTimeString(s.StartMinute)
		if err != nil {
			return nil, err
		}
		end, err := schedule.ToTimeString(s.EndMinute)
		if err != nil {
			return nil, err
		}
		items = append(items, slotItem{StartTime: start, EndTime: end})
	}
	return items, nil
}

type bookingItem struct {
	BookingID   string `json:"booking_id"`
	VendorID    string `json:"vendor_id"`
	ServiceID   string `json:"service_id"`
	CustomerID  string `json:"customer_id"`
	Date        string `json:"date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Status      string `json:"status"`
	CancelledAt string `json:"cancelled_at,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

func toBookingItem(b model.Booking) (bookingItem, error) {
	start, err := schedule.ToTimeString(b.StartMinute)
	if err != nil {
		return bookingItem{}, err
	}
	end, err := schedule.ToTimeString(b.EndMinute)
	if err != nil {
		return bookingItem{}, err
	}
	item := bookingItem{
		BookingID:  b.ID,
		VendorID:   b.VendorID,
		ServiceID:  b.ServiceID,
		CustomerID: b.CustomerID,
		Date:       b.Date.Format(dateLayout),
		StartTime:  start,
		EndTime:    end,
		Status:     b.Status,
	}
	if b.CancelledAt != nil {
		item.CancelledAt = b.CancelledAt.UTC().Format(time.RFC3339)
	}
	if !b.CreatedAt.IsZero() {
		item.CreatedAt = b.CreatedAt.UTC().Format(time.RFC3339)
	}
	return item, nil
}
