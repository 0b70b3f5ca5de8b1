package schedule

import (
	"context"
	"sort"

	"plunge/internal/metrics"
)

// Resolve produces the effective bookable windows for one (service, date).
//
// Merge rules, in order:
//   - a globally blocked date short-circuits to Closed with no slots
//   - each default slot is overridden by the exception that references it, or
//     failing that by an unreferenced exception starting at the same time
//     (implicit override, so the same time of day never appears twice)
//   - a blocked override keeps the default's window visible with remaining 0
//   - leftover unreferenced, unblocked exceptions become one-off added slots
//   - the result is stably sorted ascending by start time
//
// An unknown service yields an empty slot list, not an error. Resolve
// performs no writes.
func (s *service) Resolve(ctx context.Context, serviceID int, date string) (*Availability, error) {
	if err := validDate(date); err != nil {
		return nil, err
	}

	availability := &Availability{
		ServiceID: serviceID,
		Date:      date,
		Slots:     []ResolvedSlot{},
	}

	blocked, err := s.repo.GetBlockedDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if blocked != nil {
		availability.Closed = true
		availability.ClosedReason = blocked.Reason
		return availability, nil
	}

	defaults, err := s.repo.GetDefaultSlots(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	exceptions, err := s.repo.GetExceptions(ctx, serviceID, date)
	if err != nil {
		return nil, err
	}

	counts, err := s.repo.GetReservationCounts(ctx, serviceID, date)
	if err != nil {
		return nil, err
	}

	bookedByDefault := make(map[int]int)
	bookedByException := make(map[int]int)
	for _, c := range counts {
		if c.DefaultSlotID != nil {
			bookedByDefault[*c.DefaultSlotID] += c.Count
		}
		if c.ExceptionID != nil {
			bookedByException[*c.ExceptionID] += c.Count
		}
	}

	consumed := make(map[int]bool, len(exceptions))

	for i := range defaults {
		slot := defaults[i]
		ex := matchException(exceptions, consumed, &slot)

		resolved := ResolvedSlot{
			Kind:          KindDefault,
			DefaultSlotID: intPtr(slot.ID),
			StartTime:     slot.StartTime,
			EndTime:       slot.EndTime,
			Capacity:      slot.Capacity,
		}

		// Reservations may have been recorded against either identity of a
		// merged occurrence, so both are summed.
		booked := bookedByDefault[slot.ID]

		if ex != nil {
			resolved.ExceptionID = intPtr(ex.ID)
			booked += bookedByException[ex.ID]

			if ex.IsBlocked {
				resolved.Kind = KindBlocked
			} else {
				resolved.Kind = KindModified
				if ex.StartTime != nil {
					resolved.StartTime = *ex.StartTime
				}
				if ex.EndTime != nil {
					resolved.EndTime = *ex.EndTime
				}
				if ex.Capacity != nil {
					resolved.Capacity = *ex.Capacity
				}
			}
		}

		resolved.BookedCount = booked
		if resolved.Kind == KindBlocked {
			resolved.Remaining = 0
		} else {
			resolved.Remaining = clampRemaining(resolved.Capacity, booked)
		}

		availability.Slots = append(availability.Slots, resolved)
	}

	for i := range exceptions {
		ex := exceptions[i]
		if consumed[ex.ID] || !ex.IsAdHoc() || ex.IsBlocked {
			continue
		}
		// Overrides whose default slot no longer exists carry a non-nil
		// reference and are skipped above: dead rows, never surfaced.

		resolved := ResolvedSlot{
			Kind:        KindAdded,
			ExceptionID: intPtr(ex.ID),
		}
		if ex.StartTime != nil {
			resolved.StartTime = *ex.StartTime
		}
		if ex.EndTime != nil {
			resolved.EndTime = *ex.EndTime
		}
		if ex.Capacity != nil {
			resolved.Capacity = *ex.Capacity
		}

		resolved.BookedCount = bookedByException[ex.ID]
		resolved.Remaining = clampRemaining(resolved.Capacity, resolved.BookedCount)

		availability.Slots = append(availability.Slots, resolved)
	}

	// Start times are zero-padded HH:MM, so lexicographic order is
	// chronological order. The sort must be stable to keep ties in their
	// original relative order.
	sort.SliceStable(availability.Slots, func(i, j int) bool {
		return availability.Slots[i].StartTime < availability.Slots[j].StartTime
	})

	metrics.RecordResolution()

	return availability, nil
}

// matchException finds the exception governing a default slot on this date.
// An explicit reference wins; otherwise an unreferenced exception with an
// identical start time is treated as an implicit override. The match is
// marked consumed so the ad-hoc pass does not emit it a second time.
func matchException(exceptions []Exception, consumed map[int]bool, slot *DefaultSlot) *Exception {
	for i := range exceptions {
		ex := &exceptions[i]
		if consumed[ex.ID] {
			continue
		}
		if ex.DefaultSlotID != nil && *ex.DefaultSlotID == slot.ID {
			consumed[ex.ID] = true
			return ex
		}
	}

	for i := range exceptions {
		ex := &exceptions[i]
		if consumed[ex.ID] {
			continue
		}
		if ex.DefaultSlotID == nil && ex.StartTime != nil && *ex.StartTime == slot.StartTime {
			consumed[ex.ID] = true
			return ex
		}
	}

	return nil
}

func clampRemaining(capacity, booked int) int {
	remaining := capacity - booked
	if remaining < 0 {
		return 0
	}
	return remaining
}

func intPtr(v int) *int {
	return &v
}
