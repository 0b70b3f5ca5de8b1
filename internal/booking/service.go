package booking

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"plunge/internal/auth"
	"plunge/internal/catalog"
	"plunge/internal/coupon"
	"plunge/internal/logger"
	"plunge/internal/metrics"
	"plunge/internal/schedule"
)

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrOccurrenceNotFound  = errors.New("slot not found for this date")
	ErrSlotBlocked         = errors.New("slot is blocked on this date")
	ErrDayClosed           = errors.New("studio is closed on this date")
	ErrEmailNotVerified    = errors.New("email is not verified")
	ErrInvalidCoupon       = errors.New("coupon cannot be applied")
	ErrMissingIdentity     = errors.New("a slot identity is required")
	ErrInvalidTransition   = errors.New("invalid status transition")
)

// Mailer is the slice of the email service the booking flow needs.
type Mailer interface {
	SendBookingConfirmation(ctx context.Context, to, name, serviceName, date, startTime, reference string) error
	SendBookingCancellation(ctx context.Context, to, name, serviceName, date, startTime string) error
}

type Service interface {
	Create(ctx context.Context, req CreateReservationRequest) (*Reservation, error)
	GetByReference(ctx context.Context, reference string) (*Reservation, error)
	ConfirmByReference(ctx context.Context, reference string) (*Reservation, error)
	UpdateStatus(ctx context.Context, id int, status string) (*Reservation, error)
	ListByDate(ctx context.Context, date string, serviceID *int) ([]ReservationWithService, error)
	GetStatsByDay(ctx context.Context, from, to time.Time) ([]DayStats, error)
	GetStatsByService(ctx context.Context, from, to time.Time) ([]ServiceStats, error)
}

type service struct {
	repo        Repository
	scheduleSvc schedule.Service
	catalogRepo catalog.Repository
	couponSvc   coupon.Service
	mailer      Mailer
	jwtSecret   string
}

func NewService(
	repo Repository,
	scheduleSvc schedule.Service,
	catalogRepo catalog.Repository,
	couponSvc coupon.Service,
	mailer Mailer,
	jwtSecret string,
) Service {
	return &service{
		repo:        repo,
		scheduleSvc: scheduleSvc,
		catalogRepo: catalogRepo,
		couponSvc:   couponSvc,
		mailer:      mailer,
		jwtSecret:   jwtSecret,
	}
}

func (s *service) Create(ctx context.Context, req CreateReservationRequest) (*Reservation, error) {
	if req.DefaultSlotID == nil && req.ExceptionID == nil {
		return nil, ErrMissingIdentity
	}

	email, err := auth.ValidateEmailToken(req.VerificationToken, s.jwtSecret)
	if err != nil || !strings.EqualFold(email, req.CustomerEmail) {
		return nil, ErrEmailNotVerified
	}

	availability, err := s.scheduleSvc.Resolve(ctx, req.ServiceID, req.Date)
	if err != nil {
		return nil, err
	}
	if availability.Closed {
		return nil, ErrDayClosed
	}

	slot := findOccurrence(availability.Slots, req.DefaultSlotID, req.ExceptionID)
	if slot == nil {
		return nil, ErrOccurrenceNotFound
	}
	if slot.Kind == schedule.KindBlocked {
		return nil, ErrSlotBlocked
	}
	if slot.Remaining <= 0 {
		return nil, ErrSlotFull
	}

	svc, err := s.catalogRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	amount := svc.PriceCents
	if req.CouponCode != nil && *req.CouponCode != "" {
		cp, err := s.couponSvc.Validate(ctx, *req.CouponCode)
		if err != nil {
			return nil, ErrInvalidCoupon
		}
		amount = cp.Discount(amount)
	}

	reservation := &Reservation{
		Reference:     uuid.NewString(),
		ServiceID:     req.ServiceID,
		Date:          req.Date,
		DefaultSlotID: slot.DefaultSlotID,
		ExceptionID:   slot.ExceptionID,
		StartTime:     slot.StartTime,
		EndTime:       slot.EndTime,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Status:        StatusPending,
		AmountCents:   amount,
		CouponCode:    req.CouponCode,
	}

	created, err := s.repo.CreateIfCapacity(ctx, reservation, slot.Capacity)
	if err != nil {
		return nil, err
	}

	if req.CouponCode != nil && *req.CouponCode != "" {
		if err := s.couponSvc.Redeem(ctx, *req.CouponCode); err != nil {
			// The reservation stands; the coupon counter is best effort here.
			logger.Errorf("Failed to redeem coupon %s for reservation %s: %v", *req.CouponCode, created.Reference, err)
		}
	}

	metrics.RecordBooking(StatusPending)

	if s.mailer != nil {
		if err := s.mailer.SendBookingConfirmation(ctx, created.CustomerEmail, created.CustomerName,
			svc.Name, created.Date, created.StartTime, created.Reference); err != nil {
			logger.Errorf("Failed to queue confirmation email for %s: %v", created.Reference, err)
		}
	}

	return created, nil
}

func (s *service) GetByReference(ctx context.Context, reference string) (*Reservation, error) {
	reservation, err := s.repo.GetByReference(ctx, reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// ConfirmByReference moves a pending reservation to confirmed. Called by the
// payment confirmation flow; confirming twice is a no-op.
func (s *service) ConfirmByReference(ctx context.Context, reference string) (*Reservation, error) {
	reservation, err := s.repo.GetByReference(ctx, reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}

	if reservation.Status == StatusConfirmed {
		return reservation, nil
	}
	if reservation.Status == StatusCancelled {
		return nil, ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, reservation.ID, StatusConfirmed); err != nil {
		return nil, err
	}

	reservation.Status = StatusConfirmed
	metrics.RecordBooking(StatusConfirmed)
	return reservation, nil
}

func (s *service) UpdateStatus(ctx context.Context, id int, status string) (*Reservation, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}

	if !transitionAllowed(reservation.Status, status) {
		return nil, ErrInvalidTransition
	}

	if reservation.Status == status {
		return reservation, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	reservation.Status = status

	if status == StatusCancelled {
		metrics.RecordBookingCancellation()
		if s.mailer != nil {
			svc, err := s.catalogRepo.GetByID(ctx, reservation.ServiceID)
			serviceName := "your session"
			if err == nil {
				serviceName = svc.Name
			}
			if err := s.mailer.SendBookingCancellation(ctx, reservation.CustomerEmail, reservation.CustomerName,
				serviceName, reservation.Date, reservation.StartTime); err != nil {
				logger.Errorf("Failed to queue cancellation email for %s: %v", reservation.Reference, err)
			}
		}
	}

	return reservation, nil
}

func (s *service) ListByDate(ctx context.Context, date string, serviceID *int) ([]ReservationWithService, error) {
	return s.repo.ListByDate(ctx, date, serviceID)
}

func (s *service) GetStatsByDay(ctx context.Context, from, to time.Time) ([]DayStats, error) {
	return s.repo.GetStatsByDay(ctx, from, to)
}

func (s *service) GetStatsByService(ctx context.Context, from, to time.Time) ([]ServiceStats, error) {
	return s.repo.GetStatsByService(ctx, from, to)
}

// findOccurrence matches a resolved slot by either identity. A merged
// occurrence carries both ids, so a reservation made against the default slot
// and one made against its override land on the same window.
func findOccurrence(slots []schedule.ResolvedSlot, defaultSlotID, exceptionID *int) *schedule.ResolvedSlot {
	for i := range slots {
		slot := &slots[i]
		if defaultSlotID != nil && slot.DefaultSlotID != nil && *slot.DefaultSlotID == *defaultSlotID {
			return slot
		}
		if exceptionID != nil && slot.ExceptionID != nil && *slot.ExceptionID == *exceptionID {
			return slot
		}
	}
	return nil
}

func transitionAllowed(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	default:
		return false
	}
}
