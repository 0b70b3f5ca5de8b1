package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestGetDefaultSlots(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT id, service_id, start_time, end_time, capacity, created_at\s+FROM default_slots`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "service_id", "start_time", "end_time", "capacity", "created_at"}).
			AddRow(10, 1, "09:00", "10:00", 5, time.Now()).
			AddRow(11, 1, "11:30", "12:00", 3, time.Now()))

	slots, err := repo.GetDefaultSlots(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, slots, 2)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, 3, slots[1].Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExceptions(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT id, service_id, date, default_slot_id, start_time, end_time, capacity, is_blocked, created_at\s+FROM schedule_exceptions`).
		WithArgs(1, "2025-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"id", "service_id", "date", "default_slot_id", "start_time", "end_time", "capacity", "is_blocked", "created_at"}).
			AddRow(20, 1, "2025-03-10", 10, nil, nil, 8, false, time.Now()).
			AddRow(21, 1, "2025-03-10", nil, "18:00", "19:00", 4, false, time.Now()))

	exceptions, err := repo.GetExceptions(context.Background(), 1, "2025-03-10")
	assert.NoError(t, err)
	assert.Len(t, exceptions, 2)
	assert.Equal(t, 10, *exceptions[0].DefaultSlotID)
	assert.Nil(t, exceptions[0].StartTime)
	assert.True(t, exceptions[1].IsAdHoc())
	assert.Equal(t, "18:00", *exceptions[1].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExceptionForSlot_NoneIsNotAnError(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT .* FROM schedule_exceptions`).
		WithArgs(1, "2025-03-10", 10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "service_id", "date", "default_slot_id", "start_time", "end_time", "capacity", "is_blocked", "created_at"}))

	ex, err := repo.GetExceptionForSlot(context.Background(), 1, "2025-03-10", 10)
	assert.NoError(t, err)
	assert.Nil(t, ex)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateException(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	capacity := 8
	slotID := 10
	start := "09:00"
	end := "10:00"

	mock.ExpectQuery(`INSERT INTO schedule_exceptions`).
		WithArgs(1, "2025-03-10", slotID, start, end, capacity, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "service_id", "date", "default_slot_id", "start_time", "end_time", "capacity", "is_blocked", "created_at"}).
			AddRow(20, 1, "2025-03-10", slotID, start, end, capacity, false, time.Now()))

	created, err := repo.CreateException(context.Background(), &Exception{
		ServiceID:     1,
		Date:          "2025-03-10",
		DefaultSlotID: &slotID,
		StartTime:     &start,
		EndTime:       &end,
		Capacity:      &capacity,
	})
	assert.NoError(t, err)
	assert.Equal(t, 20, created.ID)
	assert.Equal(t, 8, *created.Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBlockedDate_NoneIsNotAnError(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT id, date, reason, created_at\s+FROM blocked_dates`).
		WithArgs("2025-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"id", "date", "reason", "created_at"}))

	blocked, err := repo.GetBlockedDate(context.Background(), "2025-03-10")
	assert.NoError(t, err)
	assert.Nil(t, blocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteBlockedDate_NotFound(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectExec(`DELETE FROM blocked_dates`).
		WithArgs("2025-03-10").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteBlockedDate(context.Background(), "2025-03-10")
	assert.ErrorIs(t, err, ErrBlockedDateNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetReservationCounts(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT default_slot_id, exception_id, COUNT\(\*\) AS count\s+FROM reservations`).
		WithArgs(1, "2025-03-10").
		WillReturnRows(sqlmock.NewRows([]string{"default_slot_id", "exception_id", "count"}).
			AddRow(10, nil, 2).
			AddRow(nil, 21, 1))

	counts, err := repo.GetReservationCounts(context.Background(), 1, "2025-03-10")
	assert.NoError(t, err)
	assert.Len(t, counts, 2)
	assert.Equal(t, 10, *counts[0].DefaultSlotID)
	assert.Nil(t, counts[0].ExceptionID)
	assert.Equal(t, 1, counts[1].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExceptionsForDefaultSlot(t *testing.T) {
	dbx, mock := newMockDB(t)
	repo := NewRepository(dbx)

	mock.ExpectExec(`DELETE FROM schedule_exceptions WHERE default_slot_id`).
		WithArgs(10).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := repo.DeleteExceptionsForDefaultSlot(context.Background(), 10)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
