package schedule

import "time"

// Resolved slot kinds. A blocked slot stays visible so the UI can
// distinguish "closed" from "fully booked".
const (
	KindDefault  = "default"
	KindModified = "modified"
	KindAdded    = "added"
	KindBlocked  = "blocked"
)

// DefaultSlot is a recurring template time window for a service. It is
// independent of any specific date; per-date deviations live in Exception.
type DefaultSlot struct {
	ID        int       `db:"id" json:"id"`
	ServiceID int       `db:"service_id" json:"service_id"`
	StartTime string    `db:"start_time" json:"start_time"` // "HH:MM"
	EndTime   string    `db:"end_time" json:"end_time"`     // "HH:MM"
	Capacity  int       `db:"capacity" json:"capacity"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Exception is a per-(service, date) override. With a DefaultSlotID it
// modifies or blocks that recurring slot on the given date; without one it is
// an ad-hoc addition carrying its own times and capacity.
type Exception struct {
	ID            int       `db:"id" json:"id"`
	ServiceID     int       `db:"service_id" json:"service_id"`
	Date          string    `db:"date" json:"date"` // "YYYY-MM-DD"
	DefaultSlotID *int      `db:"default_slot_id" json:"default_slot_id,omitempty"`
	StartTime     *string   `db:"start_time" json:"start_time,omitempty"`
	EndTime       *string   `db:"end_time" json:"end_time,omitempty"`
	Capacity      *int      `db:"capacity" json:"capacity,omitempty"`
	IsBlocked     bool      `db:"is_blocked" json:"is_blocked"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// IsAdHoc reports whether the exception adds a one-off slot rather than
// overriding a recurring one.
func (e *Exception) IsAdHoc() bool {
	return e.DefaultSlotID == nil
}

// BlockedDate closes the whole studio for one calendar date.
type BlockedDate struct {
	ID        int       `db:"id" json:"id"`
	Date      string    `db:"date" json:"date"`
	Reason    string    `db:"reason" json:"reason"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ReservationCount is the number of non-cancelled reservations recorded
// against one slot occurrence identity for a (service, date) pair.
// Reservations may be keyed by the default slot or by the exception the
// occurrence resolved to at booking time, so both identities are carried.
type ReservationCount struct {
	DefaultSlotID *int `db:"default_slot_id"`
	ExceptionID   *int `db:"exception_id"`
	Count         int  `db:"count"`
}

// ResolvedSlot is the merged, final view of one bookable window for a
// (service, date) after applying exceptions and capacity usage.
type ResolvedSlot struct {
	Kind          string `json:"kind"`
	DefaultSlotID *int   `json:"default_slot_id,omitempty"`
	ExceptionID   *int   `json:"exception_id,omitempty"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Capacity      int    `json:"capacity"`
	BookedCount   int    `json:"booked_count"`
	Remaining     int    `json:"remaining"`
}

// Availability is the resolver output for one (service, date). When the date
// is globally blocked, Closed is set and Slots is empty.
type Availability struct {
	ServiceID    int            `json:"service_id"`
	Date         string         `json:"date"`
	Closed       bool           `json:"closed"`
	ClosedReason string         `json:"closed_reason,omitempty"`
	Slots        []ResolvedSlot `json:"slots"`
}

type CreateDefaultSlotRequest struct {
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
	Capacity  int    `json:"capacity" binding:"required,min=1"`
}

type CapacityOverrideRequest struct {
	Capacity int `json:"capacity" binding:"min=0"`
}

type AddAdHocSlotRequest struct {
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
	Capacity  int    `json:"capacity" binding:"required,min=1"`
}

type BlockDateRequest struct {
	Date   string `json:"date" binding:"required,dateonly"`
	Reason string `json:"reason" binding:"required"`
}
