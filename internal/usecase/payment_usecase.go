package usecase

import (
	"context"
	"strings"
	"time"

	"stackvault/internal/entity"
	"stackvault/internal/repo/persistent"
	"stackvault/pkg/logger"
	"stackvault/pkg/payment"
)

type PaymentUseCase interface {
	CreatePaymentIntent(ctx context.Context, req entity.PaymentIntentRequest) (*entity.PaymentIntent, error)
	RecordPayment(ctx context.Context, req entity.PaymentRequest) (*entity.PaymentResult, error)
	ListPayments(ctx context.Context, email string) ([]*entity.Payment, error)
}

type paymentUseCase struct {
	paymentRepo persistent.PaymentRepository
	provider    PaymentProvider
	publisher   EventPublisher
	logger      *logger.Logger
	now         func() time.Time
}

// NewPaymentUseCase accepts a nil provider; intents then fail with ErrServiceUnavailable.
func NewPaymentUseCase(
	paymentRepo persistent.PaymentRepository,
	provider PaymentProvider,
	publisher EventPublisher,
	logger *logger.Logger,
) PaymentUseCase {
	return &paymentUseCase{
		paymentRepo: paymentRepo,
		provider:    provider,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *paymentUseCase) CreatePaymentIntent(ctx context.Context, req entity.PaymentIntentRequest) (*entity.PaymentIntent, error) {
	if uc.provider == nil {
		return nil, entity.NewError(entity.ErrServiceUnavailable, "Stripe service unavailable")
	}
	if req.Amount <= 0 || payment.ToCents(req.Amount) <= 0 {
		return nil, entity.Validation("Amount must be greater than zero")
	}

	userEmail := req.UserEmail
	if userEmail == "" {
		userEmail = "unknown"
	}
	couponCode := strings.TrimSpace(req.CouponCode)
	if couponCode == "" {
		couponCode = "none"
	}

	intent, err := uc.provider.CreateIntent(ctx, payment.IntentRequest{
		Amount: req.Amount,
		Metadata: map[string]string{
			"service":     entity.PaymentIntentService,
			"user_email":  userEmail,
			"coupon_code": couponCode,
		},
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Created payment intent %s for %s", intent.ID, userEmail)
	return &entity.PaymentIntent{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}

func (uc *paymentUseCase) RecordPayment(ctx context.Context, req entity.PaymentRequest) (*entity.PaymentResult, error) {
	if blank(req.Email, req.TransactionID) {
		return nil, entity.Validation(msgMissingFields)
	}
	if req.Amount <= 0 {
		return nil, entity.Validation("Amount must be greater than zero")
	}

	paymentMembership := req.MembershipType
	if paymentMembership == "" {
		paymentMembership = entity.DefaultPaymentMembership
	}
	userMembership := req.MembershipType
	if userMembership == "" {
		userMembership = entity.DefaultMembershipType
	}

	record := &entity.Payment{
		Email:          req.Email,
		Amount:         req.Amount,
		TransactionID:  req.TransactionID,
		MembershipType: paymentMembership,
		PaidAt:         uc.now().UTC(),
		Status:         entity.PaymentCompleted,
		Service:        entity.PaymentServiceMembership,
	}

	userUpdated, err := uc.paymentRepo.RecordAndUpgrade(ctx, record, userMembership)
	if err != nil {
		return nil, err
	}
	if !userUpdated {
		uc.logger.Warn("Payment %s recorded but no user found for %s", record.TransactionID, record.Email)
	}

	publish(ctx, uc.publisher, uc.logger, EventPaymentRecorded, map[string]interface{}{
		"email":         record.Email,
		"amount":        record.Amount,
		"transactionId": record.TransactionID,
	})

	return &entity.PaymentResult{Payment: record, UserUpdated: userUpdated}, nil
}

func (uc *paymentUseCase) ListPayments(ctx context.Context, email string) ([]*entity.Payment, error) {
	return uc.paymentRepo.ListByEmail(ctx, email)
}
