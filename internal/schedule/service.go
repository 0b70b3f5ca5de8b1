package schedule

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrSlotNotFound       = errors.New("default slot not found")
	ErrExceptionNotFound  = errors.New("exception not found")
	ErrNotAdHoc           = errors.New("exception is linked to a default slot, not an ad-hoc addition")
	ErrDateAlreadyBlocked = errors.New("date is already blocked")
	ErrInvalidDate        = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidTimeRange   = errors.New("invalid time range")
	ErrInvalidCapacity    = errors.New("capacity must not be negative")
)

// Service merges a service's recurring default slots with per-date exceptions
// and reservation usage (the resolver), and applies admin schedule edits (the
// writer). Writes do not push updates; callers re-resolve after editing.
type Service interface {
	Resolve(ctx context.Context, serviceID int, date string) (*Availability, error)

	SetSlotCapacityOverride(ctx context.Context, serviceID int, date string, defaultSlotID, capacity int) (*Exception, error)
	BlockSlotForDate(ctx context.Context, serviceID int, date string, defaultSlotID int) (*Exception, error)
	UnblockSlotForDate(ctx context.Context, serviceID int, date string, defaultSlotID int) error
	AddAdHocSlot(ctx context.Context, serviceID int, date, startTime, endTime string, capacity int) (*Exception, error)
	RemoveAdHocSlot(ctx context.Context, exceptionID int) error

	BlockEntireDate(ctx context.Context, date, reason string) (*BlockedDate, error)
	UnblockEntireDate(ctx context.Context, date string) error
	ListBlockedDates(ctx context.Context, from string) ([]BlockedDate, error)

	CreateDefaultSlot(ctx context.Context, serviceID int, req CreateDefaultSlotRequest) (*DefaultSlot, error)
	ListDefaultSlots(ctx context.Context, serviceID int) ([]DefaultSlot, error)
	DeleteDefaultSlot(ctx context.Context, defaultSlotID int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func validDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func validTimeRange(startTime, endTime string) error {
	start, err := time.Parse("15:04", startTime)
	if err != nil {
		return ErrInvalidTimeRange
	}
	end, err := time.Parse("15:04", endTime)
	if err != nil {
		return ErrInvalidTimeRange
	}
	if !end.After(start) {
		return ErrInvalidTimeRange
	}
	return nil
}

// slotForService loads a default slot and verifies it belongs to the service.
// Infrastructure failures pass through; only a missing row is a not-found.
func (s *service) slotForService(ctx context.Context, serviceID, defaultSlotID int) (*DefaultSlot, error) {
	slot, err := s.repo.GetDefaultSlotByID(ctx, defaultSlotID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, err
	}
	if slot.ServiceID != serviceID {
		return nil, ErrSlotNotFound
	}
	return slot, nil
}
