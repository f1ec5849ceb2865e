package usecase

import (
	"context"
	"time"

	"stackvault/internal/entity"
	"stackvault/internal/repo/persistent"
	"stackvault/pkg/logger"
)

type CreateReviewInput struct {
	ProductID     string
	ReviewerName  string
	ReviewerImage string
	ReviewerEmail string
	Description   string
	Rating        int
}

type ReviewUseCase interface {
	ListByProduct(ctx context.Context, productID string) ([]*entity.Review, error)
	CreateReview(ctx context.Context, input CreateReviewInput) (*entity.Review, error)
}

type reviewUseCase struct {
	reviewRepo  persistent.ReviewRepository
	productRepo persistent.ProductRepository
	publisher   EventPublisher
	logger      *logger.Logger
	now         func() time.Time
}

func NewReviewUseCase(
	reviewRepo persistent.ReviewRepository,
	productRepo persistent.ProductRepository,
	publisher EventPublisher,
	logger *logger.Logger,
) ReviewUseCase {
	return &reviewUseCase{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// ListByProduct hides reviewer emails from the public listing.
func (uc *reviewUseCase) ListByProduct(ctx context.Context, productID string) ([]*entity.Review, error) {
	if err := requireProductID(productID); err != nil {
		return nil, err
	}

	reviews, err := uc.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, r := range reviews {
		r.ReviewerEmail = ""
	}
	return reviews, nil
}

func (uc *reviewUseCase) CreateReview(ctx context.Context, input CreateReviewInput) (*entity.Review, error) {
	if blank(input.ProductID, input.Description) || input.Rating == 0 {
		return nil, entity.Validation(msgMissingFields)
	}
	if err := requireProductID(input.ProductID); err != nil {
		return nil, err
	}
	if input.Rating < entity.MinRating || input.Rating > entity.MaxRating {
		return nil, entity.Validation("Rating must be between 1 and 5")
	}

	if _, err := uc.productRepo.GetByID(ctx, input.ProductID); err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	review := &entity.Review{
		ProductID:     input.ProductID,
		ReviewerName:  input.ReviewerName,
		ReviewerImage: input.ReviewerImage,
		ReviewerEmail: input.ReviewerEmail,
		Description:   input.Description,
		Rating:        input.Rating,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	publish(ctx, uc.publisher, uc.logger, EventReviewCreated, map[string]interface{}{
		"productId": review.ProductID,
		"rating":    review.Rating,
	})
	return review, nil
}
