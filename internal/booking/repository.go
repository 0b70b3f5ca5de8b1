package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrSlotFull = errors.New("slot is fully booked")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const reservationColumns = `id, reference, service_id, date, default_slot_id, exception_id, start_time, end_time,
		customer_name, customer_email, customer_phone, status, amount_cents, coupon_code, created_at`

func (r *repository) CreateIfCapacity(ctx context.Context, res *Reservation, capacity int) (*Reservation, error) {
	// The capacity check and the insert run as one statement; without it two
	// concurrent bookings could both pass a separate read-then-insert check.
	query := `
		INSERT INTO reservations (reference, service_id, date, default_slot_id, exception_id, start_time, end_time,
			customer_name, customer_email, customer_phone, status, amount_cents, coupon_code)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		WHERE (
			SELECT COUNT(*) FROM reservations
			WHERE service_id = $2 AND date = $3 AND status != 'cancelled'
				AND (($4::int IS NOT NULL AND default_slot_id = $4)
					OR ($5::int IS NOT NULL AND exception_id = $5))
		) < $14
		RETURNING ` + reservationColumns

	var created Reservation
	err := r.db.GetContext(ctx, &created, query,
		res.Reference, res.ServiceID, res.Date, res.DefaultSlotID, res.ExceptionID,
		res.StartTime, res.EndTime, res.CustomerName, res.CustomerEmail, res.CustomerPhone,
		res.Status, res.AmountCents, res.CouponCode, capacity)
	if err == sql.ErrNoRows {
		return nil, ErrSlotFull
	}
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	var res Reservation
	err := r.db.GetContext(ctx, &res, query, id)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE reference = $1`

	var res Reservation
	err := r.db.GetContext(ctx, &res, query, reference)
	if err != nil {
		return nil, err
	}

	return &res, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status string) error {
	query := `UPDATE reservations SET status = $1 WHERE id = $2`

	_, err := r.db.ExecContext(ctx, query, status, id)
	return err
}

func (r *repository) ListByDate(ctx context.Context, date string, serviceID *int) ([]ReservationWithService, error) {
	query := `
		SELECT r.id, r.reference, r.service_id, r.date, r.default_slot_id, r.exception_id, r.start_time, r.end_time,
			r.customer_name, r.customer_email, r.customer_phone, r.status, r.amount_cents, r.coupon_code, r.created_at,
			s.name AS service_name
		FROM reservations r
		JOIN services s ON r.service_id = s.id
		WHERE r.date = $1
	`
	args := []interface{}{date}

	if serviceID != nil {
		query += ` AND r.service_id = $2`
		args = append(args, *serviceID)
	}

	query += ` ORDER BY r.start_time ASC, r.created_at ASC`

	var reservations []ReservationWithService
	err := r.db.SelectContext(ctx, &reservations, query, args...)
	if err != nil {
		return nil, err
	}

	return reservations, nil
}

func (r *repository) GetStatsByDay(ctx context.Context, from, to time.Time) ([]DayStats, error) {
	query := `
		SELECT date AS day, COUNT(*) AS count
		FROM reservations
		WHERE created_at >= $1 AND created_at < $2 AND status != 'cancelled'
		GROUP BY date
		ORDER BY date ASC
	`

	var stats []DayStats
	err := r.db.SelectContext(ctx, &stats, query, from, to)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (r *repository) GetStatsByService(ctx context.Context, from, to time.Time) ([]ServiceStats, error) {
	query := `
		SELECT r.service_id, s.name AS service_name, COUNT(*) AS count
		FROM reservations r
		JOIN services s ON r.service_id = s.id
		WHERE r.created_at >= $1 AND r.created_at < $2 AND r.status != 'cancelled'
		GROUP BY r.service_id, s.name
		ORDER BY count DESC
	`

	var stats []ServiceStats
	err := r.db.SelectContext(ctx, &stats, query, from, to)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
