package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/avelez-dev/bookline/internal/model"
	"github.com/avelez-dev/bookline/internal/schedule"
	"github.com/avelez-dev/bookline/internal/storage"
)

func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getProfile(w, r)
	case http.MethodPut:
		h.updateProfile(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	vendorID := vendorIDFromHeader(r)
	if vendorID == "" {
		http.Error(w, "missing X-Vendor-Id", http.StatusBadRequest)
		return
	}

	v, err := h.vendors.GetOrCreateVendor(r.Context(), vendorID)
	if err != nil {
		http.Error(w, "failed to load profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"vendor_id":           v.ID,
		"name":                v.Name,
		"is_active":           v.IsActive,
		"buffer_minutes":      v.BufferMinutes,
		"min_lead_time_hours": v.MinLeadTimeHours,
	})
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	vendorID := vendorIDFromHeader(r)
	if vendorID == "" {
		http.Error(w, "missing X-Vendor-Id", http.StatusBadRequest)
		return
	}

	var req struct {
		Name             string `json:"name"`
		BufferMinutes    int    `json:"buffer_minutes"`
		MinLeadTimeHours int    `json:"min_lead_time_hours"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.BufferMinutes < 0 || req.BufferMinutes >= schedule.MinutesPerDay {
		http.Error(w, "invalid buffer_minutes", http.StatusBadRequest)
		return
	}
	if req.MinLeadTimeHours < 0 || req.MinLeadTimeHours > 168 {
		http.Error(w, "invalid min_lead_time_hours", http.StatusBadRequest)
		return
	}

	if err := h.vendors.UpdateVendorProfile(r.Context(), vendorID, req.Name, req.BufferMinutes, req.MinLeadTimeHours); err != nil {
		http.Error(w, "failed to update profile", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Services(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listServices(w, r)
	case http.MethodPost:
		h.createService(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listServices(w http.ResponseWriter, r *http.Request) {
	vendorID := vendorIDFromHeader(r)
	if vendorID == "" {
		http.Error(w, "missing X-Vendor-Id", http.StatusBadRequest)
		return
	}

	services, err := h.vendors.ListServices(r.Context(), vendorID, 100)
	if err != nil {
		http.Error(w, "failed to list services", http.StatusInternalServerError)
		return
	}

	items := make([]map[string]any, 0, len(services))
	for _, s := range services {
		items = append(items, map[string]any{
			"service_id":       s.ID,
			"name":             s.Name,
			"duration_minutes": s.DurationMinutes,
			"is_active":        s.IsActive,
		})
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createService(w http.ResponseWriter, r *http.Request) {
	vendorID := vendorIDFromHeader(r)
	if vendorID == "" {
		http.Error(w, "missing X-Vendor-Id", http.StatusBadRequest)
		return
	}

	var req struct {
		Name            string `json:"name"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	if req.DurationMinutes < 5 || req.DurationMinutes > 480 {
		http.Error(w, "duration_minutes must be between 5 and 480", http.StatusBadRequest)
		return
	}

	if _, err := h.vendors.GetOrCreateVendor(r.Context(), vendorID); err != nil {
		http.Error(w, "failed to load vendor", http.StatusInternalServerError)
		return
	}
	id, err := h.vendors.CreateService(r.Context(), vendorID, req.Name, req.DurationMinutes)
	if err != nil {
		http.Error(w, "failed to create service", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"service_id": id})
}

func (h *Handler) WeeklyAvailability(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listWeekly(w, r)
	case http.MethodPut:
		h.upsertWeekly(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listWeekly(w http.ResponseWriter, r *http.Request) {
	vendorID := vendorIDFromHeader(r)
	if vendorID == "" {
		http.Error(w, "missing X-Vendor-Id", http.StatusBadRequest)
		return
	}

	records, err := h.vendors.ListWeeklyAvailability(r.Context(), vendorID)
	if err != nil {
		http.Error(w, "failed to list weekly availability", http.StatusInternalServerError)
		return
	}

	items := make([]map[string]any, 0, len(records))
	for _, wa := range records {
		item := map[string]any{
			"weekday":   wa.Weekday,
			"is_active": wa.IsActive,
		}
		if wa.IsActive {
			start, err := schedule.ToTimeString(wa.StartMinute)
			if err != nil {
				http.Error(w, "failed to build response", http.StatusInternalServerError)
				return
			}
			end, err := schedule.ToTimeString(wa.EndMinute)
			if err != nil {
				http.Error(w, "failed to build response", http.StatusInternalServerError)
				return
			}
			item["start_time"] = start
			item["end_time"] = end
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) upsertWeekly(w http.ResponseWriter, r *http.Request) {
	vendorID := vendorIDFromHeader(r)
	if vendorID == "" {
		http.Error(w, "missing X-Vendor-Id", http.StatusBadRequest)
		return
	}

	var req struct {
		Weekday   int    `json:"weekday"`
		IsActive  bool   `json:"is_active"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	if req.Weekday < 0 || req.Weekday > 6 {
		http.Error(w, "weekday must be between 0 (Sunday) and 6 (Saturday)", http.StatusBadRequest)
		return
	}

	wa := model.WeeklyAvailability{
		VendorID: vendorID,
		Weekday:  req.Weekday,
		IsActive: req.IsActive,
	}
	if req.IsActive {
		start, end, ok := parseWindow(req.StartTime, req.EndTime)
		if !ok {
			http.Error(w, "start_time and end_time must be valid HH:MM with start_time < end_time", http.StatusBadRequest)
			return
		}
		wa.StartMinute = start
		wa.EndMinute = end
	}

	if _, err := h.vendors.GetOrCreateVendor(r.Context(), vendorID); err != nil {
		http.Error(w, "failed to load vendor", http.StatusInternalServerError)
		return
	}
	if err := h.vendors.UpsertWeeklyAvailability(r.Context(), wa); err != nil {
		http.Error(w, "failed to update weekly availability", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DateExceptions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listExceptions(w, r)
	case http.MethodPut:
		h.upsertException(w, r)
	case http.MethodDelete:
		h.deleteException(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listExceptions(w http.ResponseWriter, r *http.Request) {
	vendorID := vendorIDFromHeader(r)
	if vendorID == "" {
		http.Error(w, "missing X-Vendor-Id", http.StatusBadRequest)
		return
	}

	from := h.now().Truncate(24 * time.Hour)
	to := from.AddDate(0, 3, 0)
	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			http.Error(w, "invalid from date", http.StatusBadRequest)
			return
		}
		from = d
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("to")); raw != "" {
		d, err := parseDate(raw)
		if err != nil {
			http.Error(w, "invalid to date", http.StatusBadRequest)
			return
		}
		to = d
	}

	exceptions, err := h.vendors.ListDateExceptions(r.Context(), vendorID, from, to)
	if err != nil {
		http.Error(w, "failed to list exceptions", http.StatusInternalServerError)
		return
	}

	items := make([]map[string]any, 0, len(exceptions))
	for _, exc := range exceptions {
		item := map[string]any{
			"date":      exc.Date.Format(dateLayout),
			"is_closed": exc.IsClosed,
		}
		if exc.Reason != "" {
			item["reason"] = exc.Reason
		}
		if !exc.IsClosed && exc.StartMinute != nil && exc.EndMinute != nil {
			start, err := schedule.ToTimeString(*exc.StartMinute)
			if err != nil {
				http.Error(w, "failed to build response", http.StatusInternalServerError)
				return
			}
			end, err := schedule.ToTimeString(*exc.EndMinute)
			if err != nil {
				http.Error(w, "failed to build response", http.StatusInternalServerError)
				return
			}
			item["start_time"] = start
			item["end_time"] = end
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) upsertException(w http.ResponseWriter, r *http.Request) {
	vendorID := vendorIDFromHeader(r)
	if vendorID == "" {
		http.Error(w, "missing X-Vendor-Id", http.StatusBadRequest)
		return
	}

	var req struct {
		Date      string `json:"date"`
		IsClosed  bool   `json:"is_closed"`
		StartTime string `json:"start_time"`
		EndTime   string `json:"end_time"`
		Reason    string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	day, err := parseDate(req.Date)
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	exc := model.DateException{
		VendorID: vendorID,
		Date:     day,
		IsClosed: req.IsClosed,
		Reason:   strings.TrimSpace(req.Reason),
	}
	if !req.IsClosed {
		start, end, ok := parseWindow(req.StartTime, req.EndTime)
		if !ok {
			http.Error(w, "start_time and end_time must be valid HH:MM with start_time < end_time", http.StatusBadRequest)
			return
		}
		exc.StartMinute = &start
		exc.EndMinute = &end
	}

	if _, err := h.vendors.GetOrCreateVendor(r.Context(), vendorID); err != nil {
		http.Error(w, "failed to load vendor", http.StatusInternalServerError)
		return
	}
	if err := h.vendors.UpsertDateException(r.Context(), exc); err != nil {
		http.Error(w, "failed to update exception", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteException(w http.ResponseWriter, r *http.Request) {
	vendorID := vendorIDFromHeader(r)
	if vendorID == "" {
		http.Error(w, "missing X-Vendor-Id", http.StatusBadRequest)
		return
	}
	day, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	if err := h.vendors.DeleteDateException(r.Context(), vendorID, day); err != nil {
		if storage.IsNotFound(err) {
			http.Error(w, "exception not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete exception", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseWindow validates a start/end "HH:MM" pair and requires start < end.
func parseWindow(startTime, endTime string) (int, int, bool) {
	start, err := schedule.ToMinutes(strings.TrimSpace(startTime))
	if err != nil {
		return 0, 0, false
	}
	end, err := schedule.ToMinutes(strings.TrimSpace(endTime))
	if err != nil {
		return 0, 0, false
	}
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}
