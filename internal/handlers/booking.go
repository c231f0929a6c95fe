package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/avelez-dev/bookline/internal/model"
	"github.com/avelez-dev/bookline/internal/outbox"
	"github.com/avelez-dev/bookline/internal/schedule"
	"github.com/avelez-dev/bookline/internal/storage"
)

type createBookingRequest struct {
	VendorID   string `json:"vendor_id"`
	ServiceID  string `json:"service_id"`
	CustomerID string `json:"customer_id"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
}

type cancelBookingRequest struct {
	BookingID string `json:"booking_id"`
	Reason    string `json:"reason"`
}

// Book admits one booking. The conflict check is re-executed here inside the
// transaction, never trusted from an earlier slot listing, and the locked
// read plus the bookings_no_overlap constraint make check+insert atomic per
// vendor+date.
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.VendorID = strings.TrimSpace(req.VendorID)
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.CustomerID = strings.TrimSpace(req.CustomerID)
	if req.VendorID == "" || req.ServiceID == "" || req.CustomerID == "" {
		http.Error(w, "vendor_id, service_id, and customer_id are required", http.StatusBadRequest)
		return
	}

	day, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}
	startMinute, err := schedule.ToMinutes(strings.TrimSpace(req.StartTime))
	if err != nil {
		http.Error(w, "invalid start_time", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	vendor, err := h.vendors.GetVendor(ctx, req.VendorID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "vendor not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load vendor", http.StatusInternalServerError)
		return
	}
	if !vendor.IsActive {
		http.Error(w, "vendor not found", http.StatusNotFound)
		return
	}

	svc, err := h.vendors.GetActiveService(ctx, req.VendorID, req.ServiceID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "service not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load service", http.StatusInternalServerError)
		return
	}

	endMinute := startMinute + svc.DurationMinutes
	if endMinute >= schedule.MinutesPerDay {
		http.Error(w, "booking would cross midnight", http.StatusUnprocessableEntity)
		return
	}

	avail, err := h.resolveDay(ctx, req.VendorID, day)
	if err != nil {
		http.Error(w, "failed to resolve availability", http.StatusInternalServerError)
		return
	}
	if !avail.Open || startMinute < avail.StartMinute || endMinute > avail.EndMinute {
		http.Error(w, "requested time is outside vendor availability", http.StatusUnprocessableEntity)
		return
	}

	tx, err := h.bookings.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	existing, err := h.bookings.ListActiveForUpdate(ctx, tx, req.VendorID, day)
	if err != nil {
		http.Error(w, "failed to load bookings", http.StatusInternalServerError)
		return
	}
	if schedule.ConflictsWith(startMinute, endMinute, vendor.BufferMinutes, toIntervals(existing)) {
		http.Error(w, "this time slot is no longer available", http.StatusConflict)
		return
	}

	booking := &model.Booking{
		VendorID:    req.VendorID,
		ServiceID:   req.ServiceID,
		CustomerID:  req.CustomerID,
		Date:        day,
		StartMinute: startMinute,
		EndMinute:   endMinute,
		Status:      model.StatusConfirmed,
	}
	id, err := h.bookings.Create(ctx, tx, booking)
	if err != nil {
		if storage.IsConflict(err) {
			http.Error(w, "this time slot is no longer available", http.StatusConflict)
			return
		}
		http.Error(w, "failed to create booking", http.StatusInternalServerError)
		return
	}
	booking.ID = id
	booking.CreatedAt = h.now()

	item, err := toBookingItem(*booking)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}

	payload, err := json.Marshal(map[string]any{
		"booking_id":  id,
		"vendor_id":   booking.VendorID,
		"service_id":  booking.ServiceID,
		"customer_id": booking.CustomerID,
		"date":        item.Date,
		"start_time":  item.StartTime,
		"end_time":    item.EndTime,
	})
	if err != nil {
		http.Error(w, "failed to build event payload", http.StatusInternalServerError)
		return
	}
	if err := h.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "booking",
		AggregateID:   id,
		EventType:     outbox.EventBookingConfirmed,
		Payload:       payload,
	}); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	vendorID := vendorIDFromHeader(r)
	if vendorID == "" {
		http.Error(w, "missing X-Vendor-Id", http.StatusBadRequest)
		return
	}

	var req cancelBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.BookingID = strings.TrimSpace(req.BookingID)
	req.Reason = strings.TrimSpace(req.Reason)
	if req.BookingID == "" {
		http.Error(w, "booking_id required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	tx, err := h.bookings.Begin(ctx)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer func() { _ = tx.Rollback(ctx) }()

	booking, err := h.bookings.GetForUpdate(ctx, tx, vendorID, req.BookingID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "booking not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load booking", http.StatusInternalServerError)
		return
	}

	if booking.Status == model.StatusCancelled && booking.CancelledAt != nil {
		h.writeCancelResponse(w, booking.ID, *booking.CancelledAt)
		return
	}
	if model.IsTerminal(booking.Status) {
		http.Error(w, "booking cannot be cancelled", http.StatusConflict)
		return
	}

	cancelledAt, err := h.bookings.Cancel(ctx, tx, vendorID, booking.ID, req.Reason)
	if err != nil {
		http.Error(w, "failed to cancel booking", http.StatusInternalServerError)
		return
	}

	startTime, err := schedule.ToTimeString(booking.StartMinute)
	if err != nil {
		http.Error(w, "failed to build event payload", http.StatusInternalServerError)
		return
	}
	payload, err := json.Marshal(map[string]any{
		"booking_id":   booking.ID,
		"vendor_id":    booking.VendorID,
		"service_id":   booking.ServiceID,
		"customer_id":  booking.CustomerID,
		"date":         booking.Date.Format(dateLayout),
		"start_time":   startTime,
		"cancelled_at": cancelledAt.UTC().Format(time.RFC3339),
		"reason":       req.Reason,
	})
	if err != nil {
		http.Error(w, "failed to build event payload", http.StatusInternalServerError)
		return
	}
	if err := h.outbox.Insert(ctx, tx, outbox.Event{
		AggregateType: "booking",
		AggregateID:   booking.ID,
		EventType:     outbox.EventBookingCancelled,
		Payload:       payload,
	}); err != nil {
		http.Error(w, "failed to write outbox event", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit(ctx); err != nil {
		http.Error(w, "failed to commit", http.StatusInternalServerError)
		return
	}
	h.writeCancelResponse(w, booking.ID, cancelledAt)
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	vendorID := vendorIDFromHeader(r)
	if vendorID == "" {
		http.Error(w, "missing X-Vendor-Id", http.StatusBadRequest)
		return
	}

	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	bookings, err := h.bookings.ListByVendor(r.Context(), vendorID, limit)
	if err != nil {
		http.Error(w, "failed to list bookings", http.StatusInternalServerError)
		return
	}

	items := make([]bookingItem, 0, len(bookings))
	for _, b := range bookings {
		item, err := toBookingItem(b)
		if err != nil {
			http.Error(w, "failed to build response", http.StatusInternalServerError)
			return
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) writeCancelResponse(w http.ResponseWriter, bookingID string, cancelledAt time.Time) {
	writeJSON(w, http.StatusOK, map[string]string{
		"booking_id":   bookingID,
		"status":       model.StatusCancelled,
		"cancelled_at": cancelledAt.UTC().Format(time.RFC3339),
	})
}
