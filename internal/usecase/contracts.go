package usecase

import (
	"context"
	"io"

	"stackvault/internal/entity"
	"stackvault/pkg/payment"
)

// PaymentProvider starts a card charge with the external processor.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, req payment.IntentRequest) (*payment.Intent, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, payload interface{}) error
}

type ImageStorage interface {
	UploadFile(ctx context.Context, key string, body io.ReadSeeker, contentType string) (string, error)
}

// IdentityVerifier resolves an identity-provider token to a verified email.
type IdentityVerifier interface {
	VerifyEmail(ctx context.Context, idToken string) (string, error)
}

type TokenIssuer interface {
	GenerateToken(email, role string) (string, error)
}

// VoteLedger remembers who already upvoted a product.
type VoteLedger interface {
	Claim(ctx context.Context, productID, email string) (bool, error)
	Release(ctx context.Context, productID, email string) error
}

type StatsCache interface {
	Get(ctx context.Context, r entity.StatsRange) (*entity.Statistics, bool, error)
	Set(ctx context.Context, r entity.StatsRange, stats *entity.Statistics) error
}
