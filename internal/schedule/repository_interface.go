package schedule

import "context"

type Repository interface {
	GetDefaultSlots(ctx context.Context, serviceID int) ([]DefaultSlot, error)
	GetDefaultSlotByID(ctx context.Context, id int) (*DefaultSlot, error)
	CreateDefaultSlot(ctx context.Context, serviceID int, startTime, endTime string, capacity int) (*DefaultSlot, error)
	DeleteDefaultSlot(ctx context.Context, id int) error
	DeleteExceptionsForDefaultSlot(ctx context.Context, defaultSlotID int) error

	GetExceptions(ctx context.Context, serviceID int, date string) ([]Exception, error)
	GetExceptionByID(ctx context.Context, id int) (*Exception, error)
	// GetExceptionForSlot returns the override referencing the given default
	// slot on the given date, or nil when none exists.
	GetExceptionForSlot(ctx context.Context, serviceID int, date string, defaultSlotID int) (*Exception, error)
	CreateException(ctx context.Context, e *Exception) (*Exception, error)
	UpdateException(ctx context.Context, e *Exception) error
	DeleteException(ctx context.Context, id int) error

	// GetBlockedDate returns nil when the date is not blocked.
	GetBlockedDate(ctx context.Context, date string) (*BlockedDate, error)
	CreateBlockedDate(ctx context.Context, date, reason string) (*BlockedDate, error)
	DeleteBlockedDate(ctx context.Context, date string) error
	ListBlockedDates(ctx context.Context, from string) ([]BlockedDate, error)

	GetReservationCounts(ctx context.Context, serviceID int, date string) ([]ReservationCount, error)
}
