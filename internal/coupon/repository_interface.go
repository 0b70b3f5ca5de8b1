package coupon

import "context"

type Repository interface {
	Create(ctx context.Context, req CreateCouponRequest) (*Coupon, error)
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	GetAll(ctx context.Context) ([]Coupon, error)
	SetActive(ctx context.Context, id int, active bool) error
	Delete(ctx context.Context, id int) error
	// IncrementRedemptions bumps the usage counter, refusing to pass the
	// redemption cap in the same statement.
	IncrementRedemptions(ctx context.Context, id int) error
}
