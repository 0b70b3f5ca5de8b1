package payment

import (
	"context"
	"errors"

	"plunge/internal/booking"
	"plunge/internal/catalog"
	"plunge/internal/logger"
	"plunge/internal/metrics"
)

var (
	ErrNotPayable = errors.New("reservation is not awaiting payment")
	ErrNotPaid    = errors.New("checkout session is not paid")
	ErrNoBooking  = errors.New("checkout session carries no booking reference")
)

type Service interface {
	// StartCheckout opens a checkout session for a pending reservation and
	// returns the URL to redirect the customer to.
	StartCheckout(ctx context.Context, reference string) (string, error)
	// Confirm verifies a checkout session with the provider and, if paid,
	// confirms the reservation it references.
	Confirm(ctx context.Context, sessionID string) (*booking.Reservation, error)
}

type service struct {
	gateway     Gateway
	bookingSvc  booking.Service
	catalogRepo catalog.Repository
}

func NewService(gateway Gateway, bookingSvc booking.Service, catalogRepo catalog.Repository) Service {
	return &service{gateway: gateway, bookingSvc: bookingSvc, catalogRepo: catalogRepo}
}

func (s *service) StartCheckout(ctx context.Context, reference string) (string, error) {
	reservation, err := s.bookingSvc.GetByReference(ctx, reference)
	if err != nil {
		return "", err
	}
	if reservation.Status != booking.StatusPending {
		return "", ErrNotPayable
	}

	svc, err := s.catalogRepo.GetByID(ctx, reservation.ServiceID)
	if err != nil {
		return "", err
	}

	return s.gateway.CreateCheckout(ctx, reservation.Reference, svc.Name, reservation.CustomerEmail, reservation.AmountCents)
}

func (s *service) Confirm(ctx context.Context, sessionID string) (*booking.Reservation, error) {
	reference, paid, err := s.gateway.ConfirmSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if reference == "" {
		return nil, ErrNoBooking
	}
	if !paid {
		return nil, ErrNotPaid
	}

	reservation, err := s.bookingSvc.ConfirmByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	metrics.RecordPaymentConfirmed()
	logger.Infof("Payment confirmed for booking %s", reference)
	return reservation, nil
}
