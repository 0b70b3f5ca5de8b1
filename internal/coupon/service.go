package coupon

import (
	"context"
	"errors"
	"time"

	"plunge/internal/metrics"
)

var (
	ErrCouponInactive = errors.New("coupon is not active")
	ErrCouponExpired  = errors.New("coupon has expired")
)

type Service interface {
	Create(ctx context.Context, req CreateCouponRequest) (*Coupon, error)
	List(ctx context.Context) ([]Coupon, error)
	SetActive(ctx context.Context, id int, active bool) error
	Delete(ctx context.Context, id int) error
	// Validate returns the coupon when it can currently be redeemed.
	Validate(ctx context.Context, code string) (*Coupon, error)
	// Redeem consumes one use of the coupon.
	Redeem(ctx context.Context, code string) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, req CreateCouponRequest) (*Coupon, error) {
	return s.repo.Create(ctx, req)
}

func (s *service) List(ctx context.Context) ([]Coupon, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) SetActive(ctx context.Context, id int, active bool) error {
	return s.repo.SetActive(ctx, id, active)
}

func (s *service) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Validate(ctx context.Context, code string) (*Coupon, error) {
	coupon, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, ErrCouponNotFound
	}

	if !coupon.Active {
		return nil, ErrCouponInactive
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(s.now()) {
		return nil, ErrCouponExpired
	}
	if coupon.MaxRedemptions != nil && coupon.RedeemedCount >= *coupon.MaxRedemptions {
		return nil, ErrCouponExhausted
	}

	return coupon, nil
}

func (s *service) Redeem(ctx context.Context, code string) error {
	coupon, err := s.Validate(ctx, code)
	if err != nil {
		return err
	}

	if err := s.repo.IncrementRedemptions(ctx, coupon.ID); err != nil {
		return err
	}

	metrics.RecordCouponRedemption()
	return nil
}
