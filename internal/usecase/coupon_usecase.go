package usecase

import (
	"context"
	"time"

	"stackvault/internal/entity"
	"stackvault/internal/repo/persistent"
	"stackvault/pkg/logger"
)

type CouponUseCase interface {
	ListCoupons(ctx context.Context) ([]*entity.Coupon, error)
	CreateCoupon(ctx context.Context, input entity.CouponInput) (*entity.Coupon, error)
	UpdateCoupon(ctx context.Context, id string, input entity.CouponInput) (*entity.Coupon, error)
	DeleteCoupon(ctx context.Context, id string) error
	ValidateCoupon(ctx context.Context, code string) (entity.PublicCoupon, error)
	// RecordCouponUse consumes one use of the coupon if it is still redeemable.
	RecordCouponUse(ctx context.Context, code string) error
}

type couponUseCase struct {
	couponRepo persistent.CouponRepository
	publisher  EventPublisher
	logger     *logger.Logger
	now        func() time.Time
}

func NewCouponUseCase(couponRepo persistent.CouponRepository, publisher EventPublisher, logger *logger.Logger) CouponUseCase {
	return &couponUseCase{
		couponRepo: couponRepo,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (uc *couponUseCase) ListCoupons(ctx context.Context) ([]*entity.Coupon, error) {
	return uc.couponRepo.List(ctx)
}

func (uc *couponUseCase) CreateCoupon(ctx context.Context, input entity.CouponInput) (*entity.Coupon, error) {
	coupon, err := uc.buildCoupon(input)
	if err != nil {
		return nil, err
	}
	coupon.CreatedAt = coupon.UpdatedAt

	if err := uc.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	uc.logger.Info("Created coupon %s", coupon.Code)
	publish(ctx, uc.publisher, uc.logger, EventCouponChanged, map[string]interface{}{
		"code":   coupon.Code,
		"action": "created",
	})
	return coupon, nil
}

func (uc *couponUseCase) UpdateCoupon(ctx context.Context, id string, input entity.CouponInput) (*entity.Coupon, error) {
	if !validID(id) {
		return nil, entity.Validation("Invalid coupon ID")
	}

	coupon, err := uc.buildCoupon(input)
	if err != nil {
		return nil, err
	}
	coupon.ID = id

	if err := uc.couponRepo.Update(ctx, coupon); err != nil {
		return nil, err
	}

	publish(ctx, uc.publisher, uc.logger, EventCouponChanged, map[string]interface{}{
		"code":   coupon.Code,
		"action": "updated",
	})
	return coupon, nil
}

func (uc *couponUseCase) DeleteCoupon(ctx context.Context, id string) error {
	if !validID(id) {
		return entity.Validation("Invalid coupon ID")
	}

	if err := uc.couponRepo.Delete(ctx, id); err != nil {
		return err
	}

	publish(ctx, uc.publisher, uc.logger, EventCouponChanged, map[string]interface{}{
		"couponId": id,
		"action":   "deleted",
	})
	return nil
}

func (uc *couponUseCase) ValidateCoupon(ctx context.Context, code string) (entity.PublicCoupon, error) {
	code = entity.NormalizeCouponCode(code)
	if code == "" {
		return entity.PublicCoupon{}, entity.NewCouponError(entity.CouponNotFound)
	}

	coupon, err := uc.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return entity.PublicCoupon{}, err
	}
	return entity.ValidateCoupon(coupon, uc.now())
}

func (uc *couponUseCase) RecordCouponUse(ctx context.Context, code string) error {
	code = entity.NormalizeCouponCode(code)
	if code == "" {
		return entity.NewCouponError(entity.CouponNotFound)
	}

	now := uc.now()
	redeemed, err := uc.couponRepo.Redeem(ctx, code, now)
	if err != nil {
		return err
	}

	if !redeemed {
		coupon, err := uc.couponRepo.GetByCode(ctx, code)
		if err != nil {
			return err
		}
		if _, err := entity.ValidateCoupon(coupon, now); err != nil {
			return err
		}
		// The coupon changed between the update and the re-read.
		return entity.Conflict("Coupon could not be redeemed, try again")
	}

	publish(ctx, uc.publisher, uc.logger, EventCouponRedeemed, map[string]interface{}{"code": code})
	return nil
}

func (uc *couponUseCase) buildCoupon(input entity.CouponInput) (*entity.Coupon, error) {
	code := entity.NormalizeCouponCode(input.Code)
	if code == "" || blank(input.Description) || input.DiscountAmount == 0 || input.ExpiryDate.IsZero() {
		return nil, entity.Validation(msgMissingFields)
	}
	if input.DiscountAmount < 0 {
		return nil, entity.Validation("Discount amount must be positive")
	}

	maxUses := input.MaxUses
	if maxUses != nil && *maxUses <= 0 {
		maxUses = nil
	}
	minOrder := input.MinOrderAmount
	if minOrder != nil && *minOrder <= 0 {
		minOrder = nil
	}
	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	return &entity.Coupon{
		Code:           code,
		Description:    input.Description,
		DiscountAmount: input.DiscountAmount,
		ExpiryDate:     input.ExpiryDate.UTC(),
		MaxUses:        maxUses,
		MinOrderAmount: minOrder,
		IsActive:       isActive,
		UpdatedAt:      uc.now().UTC(),
	}, nil
}
