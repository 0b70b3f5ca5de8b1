package coupon

import "time"

// Coupon is an admin-managed discount code. Either PercentOff or
// AmountOffCents is set, never both.
type Coupon struct {
	ID             int        `db:"id" json:"id"`
	Code           string     `db:"code" json:"code"`
	PercentOff     *int       `db:"percent_off" json:"percent_off,omitempty"`
	AmountOffCents *int64     `db:"amount_off_cents" json:"amount_off_cents,omitempty"`
	Active         bool       `db:"active" json:"active"`
	ExpiresAt      *time.Time `db:"expires_at" json:"expires_at,omitempty"`
	MaxRedemptions *int       `db:"max_redemptions" json:"max_redemptions,omitempty"`
	RedeemedCount  int        `db:"redeemed_count" json:"redeemed_count"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// Discount returns the price after applying the coupon, floored at zero.
func (c *Coupon) Discount(priceCents int64) int64 {
	discounted := priceCents
	if c.PercentOff != nil {
		discounted = priceCents - priceCents*int64(*c.PercentOff)/100
	} else if c.AmountOffCents != nil {
		discounted = priceCents - *c.AmountOffCents
	}
	if discounted < 0 {
		return 0
	}
	return discounted
}

type CreateCouponRequest struct {
	Code           string     `json:"code" binding:"required"`
	PercentOff     *int       `json:"percent_off" binding:"omitempty,min=1,max=100"`
	AmountOffCents *int64     `json:"amount_off_cents" binding:"omitempty,min=1"`
	ExpiresAt      *time.Time `json:"expires_at"`
	MaxRedemptions *int       `json:"max_redemptions" binding:"omitempty,min=1"`
}

type ValidateCouponRequest struct {
	Code       string `json:"code" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"omitempty,min=0"`
}

type ValidateCouponResponse struct {
	Valid           bool   `json:"valid"`
	Code            string `json:"code"`
	DiscountedCents *int64 `json:"discounted_cents,omitempty"`
	Reason          string `json:"reason,omitempty"`
}
