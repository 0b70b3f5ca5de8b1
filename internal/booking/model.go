package booking

import "time"

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Reservation is a claim against one slot occurrence for one (service, date).
// The occurrence is identified by the default slot id or the exception id the
// resolver reported at booking time; both are kept because an occurrence can
// carry either identity depending on when it was booked.
type Reservation struct {
	ID            int       `db:"id" json:"id"`
	Reference     string    `db:"reference" json:"reference"`
	ServiceID     int       `db:"service_id" json:"service_id"`
	Date          string    `db:"date" json:"date"`
	DefaultSlotID *int      `db:"default_slot_id" json:"default_slot_id,omitempty"`
	ExceptionID   *int      `db:"exception_id" json:"exception_id,omitempty"`
	StartTime     string    `db:"start_time" json:"start_time"`
	EndTime       string    `db:"end_time" json:"end_time"`
	CustomerName  string    `db:"customer_name" json:"customer_name"`
	CustomerEmail string    `db:"customer_email" json:"customer_email"`
	CustomerPhone string    `db:"customer_phone" json:"customer_phone"`
	Status        string    `db:"status" json:"status"`
	AmountCents   int64     `db:"amount_cents" json:"amount_cents"`
	CouponCode    *string   `db:"coupon_code" json:"coupon_code,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ReservationWithService joins in the service name for admin listings.
type ReservationWithService struct {
	Reservation
	ServiceName string `db:"service_name" json:"service_name"`
}

type CreateReservationRequest struct {
	ServiceID         int     `json:"service_id" binding:"required"`
	Date              string  `json:"date" binding:"required,dateonly"`
	DefaultSlotID     *int    `json:"default_slot_id"`
	ExceptionID       *int    `json:"exception_id"`
	CustomerName      string  `json:"customer_name" binding:"required"`
	CustomerEmail     string  `json:"customer_email" binding:"required,email"`
	CustomerPhone     string  `json:"customer_phone"`
	CouponCode        *string `json:"coupon_code"`
	VerificationToken string  `json:"verification_token" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed cancelled"`
}

// DayStats is one row of booking analytics grouped by day.
type DayStats struct {
	Day   string `db:"day" json:"day"`
	Count int    `db:"count" json:"count"`
}

// ServiceStats is one row of booking analytics grouped by service.
type ServiceStats struct {
	ServiceID   int    `db:"service_id" json:"service_id"`
	ServiceName string `db:"service_name" json:"service_name"`
	Count       int    `db:"count" json:"count"`
}
