package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"stackvault/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCouponFixture() (*memStore, *couponUseCase) {
	store := newMemStore()
	uc := NewCouponUseCase(memCouponRepo{store}, nil, testLogger()).(*couponUseCase)
	uc.now = fixedClock(testNow)
	return store, uc
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func couponReason(t *testing.T, err error) entity.CouponReason {
	t.Helper()
	var couponErr *entity.CouponError
	require.True(t, errors.As(err, &couponErr), "expected CouponError, got %v", err)
	return couponErr.Reason
}

func TestCoupon_WelcomeSingleUse(t *testing.T) {
	store, uc := newCouponFixture()
	store.addCoupon(&entity.Coupon{
		Code:           "WELCOME10",
		Description:    "Ten off",
		DiscountAmount: 10,
		ExpiryDate:     testNow.Add(24 * time.Hour),
		MaxUses:        intPtr(1),
		IsActive:       true,
	})
	ctx := context.Background()

	public, err := uc.ValidateCoupon(ctx, "welcome10")
	require.NoError(t, err)
	assert.Equal(t, "WELCOME10", public.Code)
	assert.Equal(t, 10.0, public.DiscountAmount)

	require.NoError(t, uc.RecordCouponUse(ctx, " Welcome10 "))

	_, err = uc.ValidateCoupon(ctx, "WELCOME10")
	assert.Equal(t, entity.CouponExhausted, couponReason(t, err))
	assert.ErrorIs(t, err, entity.ErrValidation)

	err = uc.RecordCouponUse(ctx, "WELCOME10")
	assert.Equal(t, entity.CouponExhausted, couponReason(t, err))
}

func TestCoupon_RedeemReasons(t *testing.T) {
	store, uc := newCouponFixture()
	store.addCoupon(&entity.Coupon{Code: "OFF", DiscountAmount: 5, ExpiryDate: testNow.Add(time.Hour), IsActive: false})
	store.addCoupon(&entity.Coupon{Code: "OLD", DiscountAmount: 5, ExpiryDate: testNow, IsActive: true})
	ctx := context.Background()

	tests := []struct {
		code string
		want entity.CouponReason
	}{
		{"off", entity.CouponInactive},
		{"old", entity.CouponExpired},
		{"missing", entity.CouponNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := uc.RecordCouponUse(ctx, tt.code)
			assert.Equal(t, tt.want, couponReason(t, err))

			_, err = uc.ValidateCoupon(ctx, tt.code)
			assert.Equal(t, tt.want, couponReason(t, err))
		})
	}

	_, err := uc.ValidateCoupon(ctx, "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestCoupon_UncappedNeverExhausts(t *testing.T) {
	store, uc := newCouponFixture()
	c := store.addCoupon(&entity.Coupon{Code: "FOREVER", DiscountAmount: 1, ExpiryDate: testNow.Add(time.Hour), IsActive: true, MaxUses: intPtr(0)})

	for i := 0; i < 5; i++ {
		require.NoError(t, uc.RecordCouponUse(context.Background(), "forever"))
	}
	assert.Equal(t, 5, store.coupons[c.ID].UsedCount)
}

func TestCreateCoupon(t *testing.T) {
	_, uc := newCouponFixture()
	ctx := context.Background()

	coupon, err := uc.CreateCoupon(ctx, entity.CouponInput{
		Code:           "spring25",
		Description:    "Spring sale",
		DiscountAmount: 25,
		ExpiryDate:     testNow.Add(48 * time.Hour),
		MaxUses:        intPtr(0),
		MinOrderAmount: floatPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "SPRING25", coupon.Code)
	assert.True(t, coupon.IsActive)
	assert.Nil(t, coupon.MaxUses)
	assert.Nil(t, coupon.MinOrderAmount)
	assert.Equal(t, 0, coupon.UsedCount)

	_, err = uc.CreateCoupon(ctx, entity.CouponInput{
		Code:           "SPRING25",
		Description:    "dup",
		DiscountAmount: 5,
		ExpiryDate:     testNow.Add(time.Hour),
	})
	assert.ErrorIs(t, err, entity.ErrConflict)

	_, err = uc.CreateCoupon(ctx, entity.CouponInput{Code: "X", Description: "no amount", ExpiryDate: testNow})
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestUpdateCoupon(t *testing.T) {
	store, uc := newCouponFixture()
	a := store.addCoupon(&entity.Coupon{Code: "AAA", DiscountAmount: 1, ExpiryDate: testNow.Add(time.Hour), IsActive: true})
	store.addCoupon(&entity.Coupon{Code: "BBB", DiscountAmount: 1, ExpiryDate: testNow.Add(time.Hour), IsActive: true})
	ctx := context.Background()
	inactive := false

	input := entity.CouponInput{Code: "bbb", Description: "clash", DiscountAmount: 2, ExpiryDate: testNow.Add(time.Hour)}
	_, err := uc.UpdateCoupon(ctx, a.ID, input)
	assert.ErrorIs(t, err, entity.ErrConflict)

	input.Code, input.IsActive = "aaa", &inactive
	updated, err := uc.UpdateCoupon(ctx, a.ID, input)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = uc.ValidateCoupon(ctx, "AAA")
	assert.Equal(t, entity.CouponInactive, couponReason(t, err))

	_, err = uc.UpdateCoupon(ctx, "7b0e7a3c-4a4c-4b52-9f0e-1c8f0c0f2a11", input)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	_, err = uc.UpdateCoupon(ctx, "bad", input)
	assert.ErrorIs(t, err, entity.ErrValidation)
}

func TestDeleteCoupon(t *testing.T) {
	store, uc := newCouponFixture()
	c := store.addCoupon(&entity.Coupon{Code: "GONE"})
	ctx := context.Background()

	require.NoError(t, uc.DeleteCoupon(ctx, c.ID))
	assert.ErrorIs(t, uc.DeleteCoupon(ctx, c.ID), entity.ErrNotFound)
	assert.ErrorIs(t, uc.DeleteCoupon(ctx, "nope"), entity.ErrValidation)
}
