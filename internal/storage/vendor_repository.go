package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/avelez-dev/bookline/internal/model"
	"github.com/avelez-dev/bookline/libs/db"
)

type VendorRepository struct {
	pool *db.Pool
}

func NewVendorRepository(pool *db.Pool) *VendorRepository {
	return &VendorRepository{pool: pool}
}

func (r *VendorRepository) GetVendor(ctx context.Context, vendorID string) (model.Vendor, error) {
	var v model.Vendor
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, name, is_active, buffer_minutes, min_lead_time_hours, created_at, updated_at
		FROM vendors
		WHERE id = $1
	`, vendorID).Scan(&v.ID, &v.Name, &v.IsActive, &v.BufferMinutes, &v.MinLeadTimeHours, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

// GetOrCreateVendor seeds a default profile row on first access so the
// vendor-facing configuration endpoints work before any explicit setup.
func (r *VendorRepository) GetOrCreateVendor(ctx context.Context, vendorID string) (model.Vendor, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO vendors (id)
		VALUES ($1)
		ON CONFLICT (id) DO NOTHING
	`, vendorID)
	if err != nil {
		return model.Vendor{}, err
	}
	return r.GetVendor(ctx, vendorID)
}

func (r *VendorRepository) UpdateVendorProfile(ctx context.Context, vendorID, name string, bufferMinutes, minLeadTimeHours int) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO vendors (id, name, buffer_minutes, min_lead_time_hours)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name,
			buffer_minutes = EXCLUDED.buffer_minutes,
			min_lead_time_hours = EXCLUDED.min_lead_time_hours,
			updated_at = now()
	`, vendorID, name, bufferMinutes, minLeadTimeHours)
	return err
}

func (r *VendorRepository) CreateService(ctx context.Context, vendorID, name string, durationMinutes int) (string, error) {
	id := uuid.NewString()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO services (id, vendor_id, name, duration_minutes)
		VALUES ($1, $2, $3, $4)
	`, id, vendorID, name, durationMinutes)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *VendorRepository) ListServices(ctx context.Context, vendorID string, limit int) ([]model.Service, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, vendor_id::text, name, duration_minutes, is_active, deleted_at, created_at
		FROM services
		WHERE vendor_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2
	`, vendorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.VendorID, &s.Name, &s.DurationMinutes, &s.IsActive, &s.DeletedAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// GetActiveService returns the service only when it belongs to the vendor,
// is active, and is not soft-deleted. Anything else is pgx.ErrNoRows.
func (r *VendorRepository) GetActiveService(ctx context.Context, vendorID, serviceID string) (model.Service, error) {
	var s model.Service
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, vendor_id::text, name, duration_minutes, is_active, deleted_at, created_at
		FROM services
		WHERE id = $1 AND vendor_id = $2 AND is_active AND deleted_at IS NULL
	`, serviceID, vendorID).Scan(&s.ID, &s.VendorID, &s.Name, &s.DurationMinutes, &s.IsActive, &s.DeletedAt, &s.CreatedAt)
	return s, err
}

// GetWeeklyAvailability returns nil (not an error) when the vendor has no
// record for the weekday.
func (r *VendorRepository) GetWeeklyAvailability(ctx context.Context, vendorID string, weekday int) (*model.WeeklyAvailability, error) {
	var wa model.WeeklyAvailability
	err := r.pool.QueryRow(ctx, `
		SELECT vendor_id::text, weekday, is_active, start_minute, end_minute
		FROM weekly_availability
		WHERE vendor_id = $1 AND weekday = $2
	`, vendorID, weekday).Scan(&wa.VendorID, &wa.Weekday, &wa.IsActive, &wa.StartMinute, &wa.EndMinute)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &wa, nil
}

func (r *VendorRepository) ListWeeklyAvailability(ctx context.Context, vendorID string) ([]model.WeeklyAvailability, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT vendor_id::text, weekday, is_active, start_minute, end_minute
		FROM weekly_availability
		WHERE vendor_id = $1
		ORDER BY weekday ASC
	`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WeeklyAvailability
	for rows.Next() {
		var wa model.WeeklyAvailability
		if err := rows.Scan(&wa.VendorID, &wa.Weekday, &wa.IsActive, &wa.StartMinute, &wa.EndMinute); err != nil {
			return nil, err
		}
		out = append(out, wa)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// UpsertWeeklyAvailability replaces the (vendor, weekday) record if one
// exists. At most one record per key by construction.
func (r *VendorRepository) UpsertWeeklyAvailability(ctx context.Context, wa model.WeeklyAvailability) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO weekly_availability (vendor_id, weekday, is_active, start_minute, end_minute)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (vendor_id, weekday) DO UPDATE
		SET is_active = EXCLUDED.is_active,
			start_minute = EXCLUDED.start_minute,
			end_minute = EXCLUDED.end_minute
	`, wa.VendorID, wa.Weekday, wa.IsActive, wa.StartMinute, wa.EndMinute)
	return err
}

// GetDateException returns nil (not an error) when no exception exists for
// the date.
func (r *VendorRepository) GetDateException(ctx context.Context, vendorID string, date time.Time) (*model.DateException, error) {
	var exc model.DateException
	err := r.pool.QueryRow(ctx, `
		SELECT vendor_id::text, date, is_closed, start_minute, end_minute, reason
		FROM date_exceptions
		WHERE vendor_id = $1 AND date = $2
	`, vendorID, date).Scan(&exc.VendorID, &exc.Date, &exc.IsClosed, &exc.StartMinute, &exc.EndMinute, &exc.Reason)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &exc, nil
}

func (r *VendorRepository) ListDateExceptions(ctx context.Context, vendorID string, from, to time.Time) ([]model.DateException, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT vendor_id::text, date, is_closed, start_minute, end_minute, reason
		FROM date_exceptions
		WHERE vendor_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`, vendorID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.DateException
	for rows.Next() {
		var exc model.DateException
		if err := rows.Scan(&exc.VendorID, &exc.Date, &exc.IsClosed, &exc.StartMinute, &exc.EndMinute, &exc.Reason); err != nil {
			return nil, err
		}
		out = append(out, exc)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// UpsertDateException replaces the (vendor, date) record if one exists.
func (r *VendorRepository) UpsertDateException(ctx context.Context, exc model.DateException) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO date_exceptions (vendor_id, date, is_closed, start_minute, end_minute, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (vendor_id, date) DO UPDATE
		SET is_closed = EXCLUDED.is_closed,
			start_minute = EXCLUDED.start_minute,
			end_minute = EXCLUDED.end_minute,
			reason = EXCLUDED.reason
	`, exc.VendorID, exc.Date, exc.IsClosed, exc.StartMinute, exc.EndMinute, exc.Reason)
	return err
}

func (r *VendorRepository) DeleteDateException(ctx context.Context, vendorID string, date time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM date_exceptions
		WHERE vendor_id = $1 AND date = $2
	`, vendorID, date)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
