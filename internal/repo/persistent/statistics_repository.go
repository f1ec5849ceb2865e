package persistent

import (
	"context"
	"time"

	"stackvault/internal/entity"
	"stackvault/internal/model"

	"gorm.io/gorm"
)

type StatisticsRepository interface {
	Collect(ctx context.Context, since time.Time) (*entity.Statistics, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

type productCounts struct {
	Total    int64
	Accepted int64
	Pending  int64
	Rejected int64
}

type userCounts struct {
	Total   int64
	Premium int64
}

func (r *statisticsRepository) Collect(ctx context.Context, since time.Time) (*entity.Statistics, error) {
	db := r.db.WithContext(ctx)
	stats := &entity.Statistics{}

	var products productCounts
	if err := db.Model(&model.ProductModel{}).
		Select(`COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = ?) AS accepted,
			COUNT(*) FILTER (WHERE status = ?) AS pending,
			COUNT(*) FILTER (WHERE status = ?) AS rejected`,
			string(entity.ProductAccepted), string(entity.ProductPending), string(entity.ProductRejected)).
		Where("created_at >= ?", since).
		Scan(&products).Error; err != nil {
		return nil, err
	}
	stats.Products = entity.ProductStats{
		Accepted: products.Accepted,
		Pending:  products.Pending,
		Rejected: products.Rejected,
		Total:    products.Total,
	}

	var users userCounts
	if err := db.Model(&model.UserModel{}).
		Select("COUNT(*) AS total, COUNT(*) FILTER (WHERE membership_status = ?) AS premium", string(entity.MembershipPremium)).
		Where("created_at >= ?", since).
		Scan(&users).Error; err != nil {
		return nil, err
	}
	stats.Users = entity.UserStats{
		Total:   users.Total,
		Premium: users.Premium,
		Regular: users.Total - users.Premium,
	}

	if err := db.Model(&model.ReviewModel{}).
		Where("created_at >= ?", since).
		Count(&stats.Reviews.Total).Error; err != nil {
		return nil, err
	}

	var revenue float64
	if err := db.Model(&model.PaymentModel{}).
		Where("paid_at >= ? AND status = ?", since, entity.PaymentCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&revenue).Error; err != nil {
		return nil, err
	}
	stats.Revenue = entity.RevenueStats{Total: revenue, Monthly: revenue}

	return stats, nil
}
