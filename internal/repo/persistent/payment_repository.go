package persistent

import (
	"context"

	"stackvault/internal/entity"
	"stackvault/internal/model"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	// RecordAndUpgrade appends the payment and upgrades the payer's membership
	// in one transaction. The bool result reports whether a user row changed.
	RecordAndUpgrade(ctx context.Context, payment *entity.Payment, membershipType string) (bool, error)
	ListByEmail(ctx context.Context, email string) ([]*entity.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) RecordAndUpgrade(ctx context.Context, payment *entity.Payment, membershipType string) (bool, error) {
	paymentModel := ToPaymentModel(payment)
	var userUpdated bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(paymentModel).Error; err != nil {
			return err
		}

		result := tx.Model(&model.UserModel{}).
			Where("email = ?", payment.Email).
			Updates(map[string]interface{}{
				"membership_status":         string(entity.MembershipPremium),
				"membership_type":           membershipType,
				"membership_purchased_at":   payment.PaidAt,
				"membership_transaction_id": payment.TransactionID,
				"membership_amount":         payment.Amount,
				"updated_at":                payment.PaidAt,
			})
		if result.Error != nil {
			return result.Error
		}
		userUpdated = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	*payment = *ToPaymentEntity(paymentModel)
	return userUpdated, nil
}

func (r *paymentRepository) ListByEmail(ctx context.Context, email string) ([]*entity.Payment, error) {
	var paymentModels []model.PaymentModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Order("paid_at DESC").Find(&paymentModels).Error; err != nil {
		return nil, err
	}

	payments := make([]*entity.Payment, len(paymentModels))
	for i := range paymentModels {
		payments[i] = ToPaymentEntity(&paymentModels[i])
	}
	return payments, nil
}
