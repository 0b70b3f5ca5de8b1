package schedule

import (
	"context"
	"database/sql"
	"errors"
)

// SetSlotCapacityOverride records a per-date capacity for a recurring slot.
// Calling it twice with the same capacity converges on a single exception
// row: an existing override for the (date, slot) pair is updated in place.
func (s *service) SetSlotCapacityOverride(ctx context.Context, serviceID int, date string, defaultSlotID, capacity int) (*Exception, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}
	if capacity < 0 {
		return nil, ErrInvalidCapacity
	}

	slot, err := s.slotForService(ctx, serviceID, defaultSlotID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetExceptionForSlot(ctx, serviceID, date, defaultSlotID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Capacity = &capacity
		if err := s.repo.UpdateException(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	return s.repo.CreateException(ctx, &Exception{
		ServiceID:     serviceID,
		Date:          date,
		DefaultSlotID: &defaultSlotID,
		StartTime:     &slot.StartTime,
		EndTime:       &slot.EndTime,
		Capacity:      &capacity,
		IsBlocked:     false,
	})
}

// BlockSlotForDate cancels one recurring slot on one date. An existing
// override for the pair is flipped to blocked rather than duplicated.
func (s *service) BlockSlotForDate(ctx context.Context, serviceID int, date string, defaultSlotID int) (*Exception, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}

	if _, err := s.slotForService(ctx, serviceID, defaultSlotID); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetExceptionForSlot(ctx, serviceID, date, defaultSlotID)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.IsBlocked = true
		if err := s.repo.UpdateException(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	return s.repo.CreateException(ctx, &Exception{
		ServiceID:     serviceID,
		Date:          date,
		DefaultSlotID: &defaultSlotID,
		IsBlocked:     true,
	})
}

// UnblockSlotForDate deletes the override for the pair, reverting the date
// to the recurring template.
func (s *service) UnblockSlotForDate(ctx context.Context, serviceID int, date string, defaultSlotID int) error {
	if err := validDate(date); err != nil {
		return err
	}

	existing, err := s.repo.GetExceptionForSlot(ctx, serviceID, date, defaultSlotID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrExceptionNotFound
	}

	return s.repo.DeleteException(ctx, existing.ID)
}

// AddAdHocSlot adds a one-off slot on one date, outside the recurring
// template.
func (s *service) AddAdHocSlot(ctx context.Context, serviceID int, date, startTime, endTime string, capacity int) (*Exception, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}
	if err := validTimeRange(startTime, endTime); err != nil {
		return nil, err
	}
	if capacity < 0 {
		return nil, ErrInvalidCapacity
	}

	return s.repo.CreateException(ctx, &Exception{
		ServiceID: serviceID,
		Date:      date,
		StartTime: &startTime,
		EndTime:   &endTime,
		Capacity:  &capacity,
		IsBlocked: false,
	})
}

// RemoveAdHocSlot deletes an ad-hoc addition. Overrides linked to a default
// slot are rejected; they are removed through UnblockSlotForDate or by
// deleting the default slot itself.
func (s *service) RemoveAdHocSlot(ctx context.Context, exceptionID int) error {
	ex, err := s.repo.GetExceptionByID(ctx, exceptionID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrExceptionNotFound
	}
	if err != nil {
		return err
	}

	if !ex.IsAdHoc() {
		return ErrNotAdHoc
	}

	return s.repo.DeleteException(ctx, ex.ID)
}

// BlockEntireDate closes the studio for a whole date. At most one blocked
// date row may exist per date.
func (s *service) BlockEntireDate(ctx context.Context, date, reason string) (*BlockedDate, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetBlockedDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDateAlreadyBlocked
	}

	return s.repo.CreateBlockedDate(ctx, date, reason)
}

func (s *service) UnblockEntireDate(ctx context.Context, date string) error {
	if err := validDate(date); err != nil {
		return err
	}

	return s.repo.DeleteBlockedDate(ctx, date)
}

func (s *service) ListBlockedDates(ctx context.Context, from string) ([]BlockedDate, error) {
	if err := validDate(from); err != nil {
		return nil, err
	}

	return s.repo.ListBlockedDates(ctx, from)
}

func (s *service) CreateDefaultSlot(ctx context.Context, serviceID int, req CreateDefaultSlotRequest) (*DefaultSlot, error) {
	if err := validTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if req.Capacity < 0 {
		return nil, ErrInvalidCapacity
	}

	return s.repo.CreateDefaultSlot(ctx, serviceID, req.StartTime, req.EndTime, req.Capacity)
}

func (s *service) ListDefaultSlots(ctx context.Context, serviceID int) ([]DefaultSlot, error) {
	return s.repo.GetDefaultSlots(ctx, serviceID)
}

// DeleteDefaultSlot removes a recurring slot and every exception referencing
// it, across all dates. The slot delete and the exception sweep are two
// separate statements; if the sweep fails the leftover rows reference a slot
// that no longer exists and the resolver ignores them.
func (s *service) DeleteDefaultSlot(ctx context.Context, defaultSlotID int) error {
	if _, err := s.repo.GetDefaultSlotByID(ctx, defaultSlotID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSlotNotFound
		}
		return err
	}

	if err := s.repo.DeleteDefaultSlot(ctx, defaultSlotID); err != nil {
		return err
	}

	return s.repo.DeleteExceptionsForDefaultSlot(ctx, defaultSlotID)
}
