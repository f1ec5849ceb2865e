package persistent

import (
	"context"

	"stackvault/internal/entity"
	"stackvault/internal/model"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewModel := ToReviewModel(review)
	if err := r.db.WithContext(ctx).Create(reviewModel).Error; err != nil {
		return err
	}
	*review = *ToReviewEntity(reviewModel)
	return nil
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID string) ([]*entity.Review, error) {
	var reviewModels []model.ReviewModel
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at DESC").Find(&reviewModels).Error; err != nil {
		return nil, err
	}

	reviews := make([]*entity.Review, len(reviewModels))
	for i := range reviewModels {
		reviews[i] = ToReviewEntity(&reviewModels[i])
	}
	return reviews, nil
}
