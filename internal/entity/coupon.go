package entity

import (
	"strings"
	"time"
)

type Coupon struct {
	ID             string    `json:"_id"`
	Code           string    `json:"code"`
	Description    string    `json:"description"`
	DiscountAmount float64   `json:"discountAmount"`
	ExpiryDate     time.Time `json:"expiryDate"`
	MaxUses        *int      `json:"maxUses"`
	MinOrderAmount *float64  `json:"minOrderAmount"`
	IsActive       bool      `json:"isActive"`
	UsedCount      int       `json:"usedCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// PublicCoupon is what a buyer sees after a successful validation.
type PublicCoupon struct {
	Code           string   `json:"code"`
	Description    string   `json:"description"`
	DiscountAmount float64  `json:"discountAmount"`
	MinOrderAmount *float64 `json:"minOrderAmount"`
}

type CouponInput struct {
	Code           string
	Description    string
	DiscountAmount float64
	ExpiryDate     time.Time
	MaxUses        *int
	MinOrderAmount *float64
	IsActive       *bool
}

func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// HasUsageCap reports whether MaxUses limits redemptions. Zero counts as unset.
func (c *Coupon) HasUsageCap() bool {
	return c.MaxUses != nil && *c.MaxUses > 0
}

func (c *Coupon) Public() PublicCoupon {
	return PublicCoupon{
		Code:           c.Code,
		Description:    c.Description,
		DiscountAmount: c.DiscountAmount,
		MinOrderAmount: c.MinOrderAmount,
	}
}

// ValidateCoupon checks a fetched coupon at instant now. Checks run in a fixed
// order: active flag, expiry, usage cap.
func ValidateCoupon(c *Coupon, now time.Time) (PublicCoupon, error) {
	if c == nil {
		return PublicCoupon{}, NewCouponError(CouponNotFound)
	}
	if !c.IsActive {
		return PublicCoupon{}, NewCouponError(CouponInactive)
	}
	if !now.Before(c.ExpiryDate) {
		return PublicCoupon{}, NewCouponError(CouponExpired)
	}
	if c.HasUsageCap() && c.UsedCount >= *c.MaxUses {
		return PublicCoupon{}, NewCouponError(CouponExhausted)
	}
	return c.Public(), nil
}
