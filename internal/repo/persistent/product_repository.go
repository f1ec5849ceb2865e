package persistent

import (
	"context"
	"time"

	"stackvault/internal/entity"
	"stackvault/internal/model"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const productNotFound = "Product not found"

const searchCondition = "name ~* ? OR description ~* ? OR EXISTS (SELECT 1 FROM unnest(tags) AS tag WHERE tag ~* ?)"

// QuotaCheck is evaluated with the owner row locked and the owner's current
// product count. A non-nil error aborts the insert.
type QuotaCheck func(owner *entity.User, count int64) error

type ProductRepository interface {
	CreateWithQuota(ctx context.Context, product *entity.Product, check QuotaCheck) error
	CountByOwner(ctx context.Context, email string) (int64, error)
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListByOwner(ctx context.Context, email string) ([]*entity.Product, error)
	ListAccepted(ctx context.Context, query entity.ProductQuery) ([]*entity.Product, int64, error)
	ListFeatured(ctx context.Context, limit int) ([]*entity.Product, error)
	ListTrending(ctx context.Context, limit int) ([]*entity.Product, error)
	ListPending(ctx context.Context) ([]*entity.Product, error)
	CountPending(ctx context.Context) (int64, error)
	ListReported(ctx context.Context) ([]*entity.Product, error)
	CountReported(ctx context.Context) (int64, error)
	ListAcceptedNonFeatured(ctx context.Context) ([]*entity.Product, error)
	ListForModeration(ctx context.Context) ([]*entity.Product, error)
	UpdateContent(ctx context.Context, id string, content entity.ProductContent, now time.Time) error
	// Moderate applies the status and featured changes in a single UPDATE.
	// A featured change without a status change only touches accepted
	// products; it reports false when the product exists but is not accepted.
	Moderate(ctx context.Context, id string, change entity.ProductModeration, now time.Time) (bool, error)
	IncrementVotes(ctx context.Context, id string, now time.Time) (*entity.Product, error)
	Report(ctx context.Context, id string, report entity.ProductReport, now time.Time) error
	// Delete removes the product and its reviews in one transaction.
	Delete(ctx context.Context, id string) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) CreateWithQuota(ctx context.Context, product *entity.Product, check QuotaCheck) error {
	productModel := ToProductModel(product)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ownerModel model.UserModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ?", product.Owner.Email).
			First(&ownerModel).Error; err != nil {
			return translate(err, userNotFound)
		}

		var count int64
		if err := tx.Model(&model.ProductModel{}).Where("owner_email = ?", product.Owner.Email).Count(&count).Error; err != nil {
			return err
		}

		if err := check(ToUserEntity(&ownerModel), count); err != nil {
			return err
		}

		if err := tx.Create(productModel).Error; err != nil {
			return err
		}

		*product = *ToProductEntity(productModel)
		return nil
	})
}

func (r *productRepository) CountByOwner(ctx context.Context, email string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductModel{}).Where("owner_email = ?", email).Count(&count).Error
	return count, err
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var productModel model.ProductModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&productModel).Error; err != nil {
		return nil, translate(err, productNotFound)
	}
	return ToProductEntity(&productModel), nil
}

func (r *productRepository) ListByOwner(ctx context.Context, email string) ([]*entity.Product, error) {
	return r.find(ctx, r.db.Where("owner_email = ?", email).Order("created_at DESC"))
}

func (r *productRepository) ListAccepted(ctx context.Context, query entity.ProductQuery) ([]*entity.Product, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.ProductModel{}).Where("status = ?", string(entity.ProductAccepted))
	if query.Search != "" {
		base = base.Where(searchCondition, query.Search, query.Search, query.Search)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, translate(err, productNotFound)
	}

	var productModels []model.ProductModel
	if err := base.Session(&gorm.Session{}).
		Order("created_at DESC").
		Limit(query.Limit).
		Offset(query.Offset()).
		Find(&productModels).Error; err != nil {
		return nil, 0, translate(err, productNotFound)
	}

	return ToProductEntities(productModels), total, nil
}

func (r *productRepository) ListFeatured(ctx context.Context, limit int) ([]*entity.Product, error) {
	return r.find(ctx, r.db.
		Where("status = ? AND featured", string(entity.ProductAccepted)).
		Order("created_at DESC").
		Limit(limit))
}

func (r *productRepository) ListTrending(ctx context.Context, limit int) ([]*entity.Product, error) {
	return r.find(ctx, r.db.
		Where("status = ?", string(entity.ProductAccepted)).
		Order("votes DESC").
		Order("created_at DESC").
		Limit(limit))
}

func (r *productRepository) ListPending(ctx context.Context) ([]*entity.Product, error) {
	return r.find(ctx, r.db.Where("status = ?", string(entity.ProductPending)).Order("created_at ASC"))
}

func (r *productRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductModel{}).Where("status = ?", string(entity.ProductPending)).Count(&count).Error
	return count, err
}

func (r *productRepository) ListReported(ctx context.Context) ([]*entity.Product, error) {
	return r.find(ctx, r.db.Where("reported").Order("reported_at DESC"))
}

func (r *productRepository) CountReported(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProductModel{}).Where("reported").Count(&count).Error
	return count, err
}

func (r *productRepository) ListAcceptedNonFeatured(ctx context.Context) ([]*entity.Product, error) {
	return r.find(ctx, r.db.
		Where("status = ? AND NOT featured", string(entity.ProductAccepted)).
		Order("created_at DESC"))
}

func (r *productRepository) ListForModeration(ctx context.Context) ([]*entity.Product, error) {
	return r.find(ctx, r.db.Order("status ASC").Order("created_at ASC"))
}

func (r *productRepository) UpdateContent(ctx context.Context, id string, content entity.ProductContent, now time.Time) error {
	tags := content.Tags
	if tags == nil {
		tags = []string{}
	}
	return r.update(ctx, id, map[string]interface{}{
		"name":          content.Name,
		"image":         content.Image,
		"description":   content.Description,
		"tags":          pq.StringArray(tags),
		"external_link": content.ExternalLink,
		"updated_at":    now,
	})
}

func (r *productRepository) Moderate(ctx context.Context, id string, change entity.ProductModeration, now time.Time) (bool, error) {
	updates := map[string]interface{}{"updated_at": now}
	query := r.db.WithContext(ctx).Model(&model.ProductModel{}).Where("id = ?", id)

	if change.Status != nil {
		updates["status"] = string(*change.Status)
		if *change.Status == entity.ProductAccepted {
			updates["reviewed_at"] = now
		}
	}
	if change.Featured != nil {
		updates["featured"] = *change.Featured
		if change.Status == nil {
			query = query.Where("status = ?", string(entity.ProductAccepted))
		}
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}

	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (r *productRepository) IncrementVotes(ctx context.Context, id string, now time.Time) (*entity.Product, error) {
	var productModel model.ProductModel
	result := r.db.WithContext(ctx).Model(&productModel).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"votes":      clause.Expr{SQL: "votes + ?", Vars: []interface{}{1}},
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, entity.NotFound(productNotFound)
	}
	return ToProductEntity(&productModel), nil
}

func (r *productRepository) Report(ctx context.Context, id string, report entity.ProductReport, now time.Time) error {
	updates := map[string]interface{}{
		"reported":       true,
		"reported_by":    report.ReporterEmail,
		"reporter_name":  report.ReporterName,
		"reporter_image": report.ReporterImage,
		"reported_at":    now,
		"updated_at":     now,
	}
	if report.Reason != "" {
		updates["report_reason"] = report.Reason
	}
	return r.update(ctx, id, updates)
}

func (r *productRepository) Delete(ctx context.Context, id string) (int64, error) {
	var removedReviews int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviews := tx.Where("product_id = ?", id).Delete(&model.ReviewModel{})
		if reviews.Error != nil {
			return reviews.Error
		}
		removedReviews = reviews.RowsAffected

		result := tx.Where("id = ?", id).Delete(&model.ProductModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entity.NotFound(productNotFound)
		}
		return nil
	})
	return removedReviews, err
}

func (r *productRepository) find(ctx context.Context, query *gorm.DB) ([]*entity.Product, error) {
	var productModels []model.ProductModel
	if err := query.WithContext(ctx).Find(&productModels).Error; err != nil {
		return nil, err
	}
	return ToProductEntities(productModels), nil
}

func (r *productRepository) update(ctx context.Context, id string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&model.ProductModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.NotFound(productNotFound)
	}
	return nil
}
