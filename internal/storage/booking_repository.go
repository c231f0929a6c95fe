package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/avelez-dev/bookline/internal/model"
	"github.com/avelez-dev/bookline/libs/db"
)

type BookingRepository struct {
	pool *db.Pool
}

func NewBookingRepository(pool *db.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

const bookingColumns = `
	id::text, vendor_id::text, service_id::text, customer_id, date,
	start_minute, end_minute, status, COALESCE(cancellation_reason, ''), cancelled_at, created_at
`

func scanBooking(row pgx.Row) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(
		&b.ID,
		&b.VendorID,
		&b.ServiceID,
		&b.CustomerID,
		&b.Date,
		&b.StartMinute,
		&b.EndMinute,
		&b.Status,
		&b.CancelReason,
		&b.CancelledAt,
		&b.CreatedAt,
	)
	return b, err
}

// ListActive returns the non-terminal bookings occupying the vendor's
// timeline for one date. Used by the read-only slot listing path; takes no
// locks.
func (r *BookingRepository) ListActive(ctx context.Context, vendorID string, date time.Time) ([]model.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE vendor_id = $1
			AND date = $2
			AND status IN ('pending', 'confirmed')
		ORDER BY start_minute ASC
	`, vendorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

// ListActiveForUpdate locks the vendor's non-terminal bookings for the date
// inside the admission transaction, serializing concurrent admissions for
// the same vendor+date without blocking other vendors or dates.
func (r *BookingRepository) ListActiveForUpdate(ctx context.Context, tx pgx.Tx, vendorID string, date time.Time) ([]model.Booking, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE vendor_id = $1
			AND date = $2
			AND status IN ('pending', 'confirmed')
		ORDER BY start_minute ASC
		FOR UPDATE
	`, vendorID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func (r *BookingRepository) Create(ctx context.Context, tx pgx.Tx, b *model.Booking) (string, error) {
	var id string
	err := tx.QueryRow(ctx, `
		INSERT INTO bookings (vendor_id, service_id, customer_id, date, start_minute, end_minute, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id::text
	`, b.VendorID, b.ServiceID, b.CustomerID, b.Date, b.StartMinute, b.EndMinute, b.Status).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *BookingRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, vendorID, bookingID string) (model.Booking, error) {
	return scanBooking(tx.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1 AND vendor_id = $2
		FOR UPDATE
	`, bookingID, vendorID))
}

func (r *BookingRepository) Cancel(ctx context.Context, tx pgx.Tx, vendorID, bookingID, reason string) (time.Time, error) {
	var cancelledAt time.Time
	err := tx.QueryRow(ctx, `
		UPDATE bookings
		SET status = 'cancelled',
			cancelled_at = now(),
			cancellation_reason = $3
		WHERE id = $1 AND vendor_id = $2
		RETURNING cancelled_at
	`, bookingID, vendorID, reason).Scan(&cancelledAt)
	return cancelledAt, err
}

func (r *BookingRepository) ListByVendor(ctx context.Context, vendorID string, limit int) ([]model.Booking, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE vendor_id = $1
		ORDER BY date DESC, start_minute DESC
		LIMIT $2
	`, vendorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]model.Booking, error) {
	var out []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// IsConflict matches the bookings_no_overlap exclusion constraint violation.
func IsConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
