package booking

import (
	"context"
	"time"
)

type Repository interface {
	// CreateIfCapacity inserts the reservation only while the occurrence's
	// non-cancelled count is below capacity, in one statement, so two
	// near-simultaneous bookings cannot both take the last spot.
	CreateIfCapacity(ctx context.Context, r *Reservation, capacity int) (*Reservation, error)
	GetByID(ctx context.Context, id int) (*Reservation, error)
	GetByReference(ctx context.Context, reference string) (*Reservation, error)
	UpdateStatus(ctx context.Context, id int, status string) error
	ListByDate(ctx context.Context, date string, serviceID *int) ([]ReservationWithService, error)
	GetStatsByDay(ctx context.Context, from, to time.Time) ([]DayStats, error)
	GetStatsByService(ctx context.Context, from, to time.Time) ([]ServiceStats, error)
}
