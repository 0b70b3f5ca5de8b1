package schedule

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrBlockedDateNotFound = errors.New("blocked date not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetDefaultSlots(ctx context.Context, serviceID int) ([]DefaultSlot, error) {
	query := `
		SELECT id, service_id, start_time, end_time, capacity, created_at
		FROM default_slots
		WHERE service_id = $1
		ORDER BY id ASC
	`

	var slots []DefaultSlot
	err := r.db.SelectContext(ctx, &slots, query, serviceID)
	if err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *repository) GetDefaultSlotByID(ctx context.Context, id int) (*DefaultSlot, error) {
	query := `
		SELECT id, service_id, start_time, end_time, capacity, created_at
		FROM default_slots
		WHERE id = $1
	`

	var slot DefaultSlot
	err := r.db.GetContext(ctx, &slot, query, id)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

func (r *repository) CreateDefaultSlot(ctx context.Context, serviceID int, startTime, endTime string, capacity int) (*DefaultSlot, error) {
	query := `
		INSERT INTO default_slots (service_id, start_time, end_time, capacity)
		VALUES ($1, $2, $3, $4)
		RETURNING id, service_id, start_time, end_time, capacity, created_at
	`

	var slot DefaultSlot
	err := r.db.GetContext(ctx, &slot, query, serviceID, startTime, endTime, capacity)
	if err != nil {
		return nil, err
	}

	return &slot, nil
}

func (r *repository) DeleteDefaultSlot(ctx context.Context, id int) error {
	query := `DELETE FROM default_slots WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) DeleteExceptionsForDefaultSlot(ctx context.Context, defaultSlotID int) error {
	query := `DELETE FROM schedule_exceptions WHERE default_slot_id = $1`

	_, err := r.db.ExecContext(ctx, query, defaultSlotID)
	return err
}

func (r *repository) GetExceptions(ctx context.Context, serviceID int, date string) ([]Exception, error) {
	query := `
		SELECT id, service_id, date, default_slot_id, start_time, end_time, capacity, is_blocked, created_at
		FROM schedule_exceptions
		WHERE service_id = $1 AND date = $2
		ORDER BY id ASC
	`

	var exceptions []Exception
	err := r.db.SelectContext(ctx, &exceptions, query, serviceID, date)
	if err != nil {
		return nil, err
	}

	return exceptions, nil
}

func (r *repository) GetExceptionByID(ctx context.Context, id int) (*Exception, error) {
	query := `
		SELECT id, service_id, date, default_slot_id, start_time, end_time, capacity, is_blocked, created_at
		FROM schedule_exceptions
		WHERE id = $1
	`

	var e Exception
	err := r.db.GetContext(ctx, &e, query, id)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

func (r *repository) GetExceptionForSlot(ctx context.Context, serviceID int, date string, defaultSlotID int) (*Exception, error) {
	query := `
		SELECT id, service_id, date, default_slot_id, start_time, end_time, capacity, is_blocked, created_at
		FROM schedule_exceptions
		WHERE service_id = $1 AND date = $2 AND default_slot_id = $3
	`

	var e Exception
	err := r.db.GetContext(ctx, &e, query, serviceID, date, defaultSlotID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &e, nil
}

func (r *repository) CreateException(ctx context.Context, e *Exception) (*Exception, error) {
	query := `
		INSERT INTO schedule_exceptions (service_id, date, default_slot_id, start_time, end_time, capacity, is_blocked)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, service_id, date, default_slot_id, start_time, end_time, capacity, is_blocked, created_at
	`

	var created Exception
	err := r.db.GetContext(ctx, &created, query,
		e.ServiceID, e.Date, e.DefaultSlotID, e.StartTime, e.EndTime, e.Capacity, e.IsBlocked)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (r *repository) UpdateException(ctx context.Context, e *Exception) error {
	query := `
		UPDATE schedule_exceptions
		SET start_time = $1, end_time = $2, capacity = $3, is_blocked = $4
		WHERE id = $5
	`

	_, err := r.db.ExecContext(ctx, query, e.StartTime, e.EndTime, e.Capacity, e.IsBlocked, e.ID)
	return err
}

func (r *repository) DeleteException(ctx context.Context, id int) error {
	query := `DELETE FROM schedule_exceptions WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) GetBlockedDate(ctx context.Context, date string) (*BlockedDate, error) {
	query := `
		SELECT id, date, reason, created_at
		FROM blocked_dates
		WHERE date = $1
	`

	var blocked BlockedDate
	err := r.db.GetContext(ctx, &blocked, query, date)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &blocked, nil
}

func (r *repository) CreateBlockedDate(ctx context.Context, date, reason string) (*BlockedDate, error) {
	query := `
		INSERT INTO blocked_dates (date, reason)
		VALUES ($1, $2)
		RETURNING id, date, reason, created_at
	`

	var blocked BlockedDate
	err := r.db.GetContext(ctx, &blocked, query, date, reason)
	if err != nil {
		return nil, err
	}

	return &blocked, nil
}

func (r *repository) DeleteBlockedDate(ctx context.Context, date string) error {
	query := `DELETE FROM blocked_dates WHERE date = $1`

	result, err := r.db.ExecContext(ctx, query, date)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrBlockedDateNotFound
	}

	return nil
}

func (r *repository) ListBlockedDates(ctx context.Context, from string) ([]BlockedDate, error) {
	query := `
		SELECT id, date, reason, created_at
		FROM blocked_dates
		WHERE date >= $1
		ORDER BY date ASC
	`

	var blocked []BlockedDate
	err := r.db.SelectContext(ctx, &blocked, query, from)
	if err != nil {
		return nil, err
	}

	return blocked, nil
}

func (r *repository) GetReservationCounts(ctx context.Context, serviceID int, date string) ([]ReservationCount, error) {
	query := `
		SELECT default_slot_id, exception_id, COUNT(*) AS count
		FROM reservations
		WHERE service_id = $1 AND date = $2 AND status != 'cancelled'
		GROUP BY default_slot_id, exception_id
	`

	var counts []ReservationCount
	err := r.db.SelectContext(ctx, &counts, query, serviceID, date)
	if err != nil {
		return nil, err
	}

	return counts, nil
}
