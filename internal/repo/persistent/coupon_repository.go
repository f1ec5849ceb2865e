package persistent

import (
	"context"
	"errors"
	"time"

	"stackvault/internal/entity"
	"stackvault/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const couponNotFound = "Coupon not found"

var errDuplicateCode = entity.Conflict("Coupon code already exists")

type CouponRepository interface {
	List(ctx context.Context) ([]*entity.Coupon, error)
	GetByCode(ctx context.Context, code string) (*entity.Coupon, error)
	Create(ctx context.Context, coupon *entity.Coupon) error
	Update(ctx context.Context, coupon *entity.Coupon) error
	Delete(ctx context.Context, id string) error
	// Redeem increments used_count only if the coupon is still redeemable at
	// now. It reports whether a row was updated.
	Redeem(ctx context.Context, code string, now time.Time) (bool, error)
}

type couponRepository struct {
	db *gorm.DB
}

func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) List(ctx context.Context) ([]*entity.Coupon, error) {
	var couponModels []model.CouponModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&couponModels).Error; err != nil {
		return nil, err
	}

	coupons := make([]*entity.Coupon, len(couponModels))
	for i := range couponModels {
		coupons[i] = ToCouponEntity(&couponModels[i])
	}
	return coupons, nil
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*entity.Coupon, error) {
	var couponModel model.CouponModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&couponModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.NewCouponError(entity.CouponNotFound)
		}
		return nil, err
	}
	return ToCouponEntity(&couponModel), nil
}

func (r *couponRepository) Create(ctx context.Context, coupon *entity.Coupon) error {
	couponModel := ToCouponModel(coupon)
	if err := r.db.WithContext(ctx).Create(couponModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errDuplicateCode
		}
		return err
	}
	*coupon = *ToCouponEntity(couponModel)
	return nil
}

func (r *couponRepository) Update(ctx context.Context, coupon *entity.Coupon) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var clash int64
		if err := tx.Model(&model.CouponModel{}).
			Where("code = ? AND id <> ?", coupon.Code, coupon.ID).
			Count(&clash).Error; err != nil {
			return err
		}
		if clash > 0 {
			return errDuplicateCode
		}

		var couponModel model.CouponModel
		result := tx.Model(&couponModel).
			Clauses(clause.Returning{}).
			Where("id = ?", coupon.ID).
			Updates(map[string]interface{}{
				"code":             coupon.Code,
				"description":      coupon.Description,
				"discount_amount":  coupon.DiscountAmount,
				"expiry_date":      coupon.ExpiryDate,
				"max_uses":         coupon.MaxUses,
				"min_order_amount": coupon.MinOrderAmount,
				"is_active":        coupon.IsActive,
				"updated_at":       coupon.UpdatedAt,
			})
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return errDuplicateCode
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entity.NotFound(couponNotFound)
		}

		*coupon = *ToCouponEntity(&couponModel)
		return nil
	})
}

func (r *couponRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CouponModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.NotFound(couponNotFound)
	}
	return nil
}

func (r *couponRepository) Redeem(ctx context.Context, code string, now time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.CouponModel{}).
		Where("code = ?", code).
		Where("is_active").
		Where("expiry_date > ?", now).
		Where("max_uses IS NULL OR max_uses <= 0 OR used_count < max_uses").
		Updates(map[string]interface{}{
			"used_count": clause.Expr{SQL: "used_count + ?", Vars: []interface{}{1}},
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
