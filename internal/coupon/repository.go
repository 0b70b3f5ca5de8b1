package coupon

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrCouponExhausted = errors.New("coupon redemption limit reached")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const couponColumns = `id, code, percent_off, amount_off_cents, active, expires_at, max_redemptions, redeemed_count, created_at`

func (r *repository) Create(ctx context.Context, req CreateCouponRequest) (*Coupon, error) {
	query := `
		INSERT INTO coupons (code, percent_off, amount_off_cents, expires_at, max_redemptions)
		VALUES (UPPER($1), $2, $3, $4, $5)
		RETURNING ` + couponColumns

	var coupon Coupon
	err := r.db.GetContext(ctx, &coupon, query,
		req.Code, req.PercentOff, req.AmountOffCents, req.ExpiresAt, req.MaxRedemptions)
	if err != nil {
		return nil, err
	}

	return &coupon, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = UPPER($1)`

	var coupon Coupon
	err := r.db.GetContext(ctx, &coupon, query, code)
	if err != nil {
		return nil, err
	}

	return &coupon, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`

	var coupons []Coupon
	err := r.db.SelectContext(ctx, &coupons, query)
	if err != nil {
		return nil, err
	}

	return coupons, nil
}

func (r *repository) SetActive(ctx context.Context, id int, active bool) error {
	query := `UPDATE coupons SET active = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrCouponNotFound
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM coupons WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrCouponNotFound
	}

	return nil
}

func (r *repository) IncrementRedemptions(ctx context.Context, id int) error {
	query := `
		UPDATE coupons
		SET redeemed_count = redeemed_count + 1
		WHERE id = $1 AND (max_redemptions IS NULL OR redeemed_count < max_redemptions)
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrCouponExhausted
	}

	return nil
}
