package handlers

import (
	"net/http"
	"strings"

	"github.com/avelez-dev/bookline/internal/storage"
)

type slotsResponse struct {
	Slots   []slotItem `json:"slots"`
	Message string     `json:"message,omitempty"`
}

const msgNoSlots = "No available time slots for this date"

// Slots lists the open bookable openings for (vendor, date, service).
// Listing never locks and never reserves: a returned slot may be gone by the
// time admission is attempted.
func (h *Handler) Slots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	vendorID := strings.TrimSpace(r.URL.Query().Get("vendor_id"))
	serviceID := strings.TrimSpace(r.URL.Query().Get("service_id"))
	dateStr := strings.TrimSpace(r.URL.Query().Get("date"))
	if vendorID == "" || serviceID == "" || dateStr == "" {
		http.Error(w, "vendor_id, service_id, and date are required", http.StatusBadRequest)
		return
	}

	day, err := parseDate(dateStr)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	vendor, err := h.vendors.GetVendor(ctx, vendorID)
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

	svc, err := h.vendors.GetActiveService(ctx, vendorID, serviceID)
	if err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "service not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load service", http.StatusInternalServerError)
		return
	}

	avail, err := h.resolveDay(ctx, vendorID, day)
	if err != nil {
		http.Error(w, "failed to resolve availability", http.StatusInternalServerError)
		return
	}
	if !avail.Open {
		writeJSON(w, http.StatusOK, slotsResponse{Slots: []slotItem{}, Message: avail.Reason})
		return
	}

	booked, err := h.bookings.ListActive(ctx, vendorID, day)
	if err != nil {
		http.Error(w, "failed to load bookings", http.StatusInternalServerError)
		return
	}

	slots := generateOpenSlots(avail, svc.DurationMinutes, vendor.BufferMinutes, toIntervals(booked), day, h.now(), vendor.MinLeadTimeHours)

	items, err := slotItems(slots)
	if err != nil {
		http.Error(w, "failed to build response", http.StatusInternalServerError)
		return
	}

	resp := slotsResponse{Slots: items}
	if len(items) == 0 {
		resp.Message = msgNoSlots
	}
	writeJSON(w, http.StatusOK, resp)
}
