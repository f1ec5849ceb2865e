package usecase

import (
	"context"
	"regexp"
	"time"

	"stackvault/internal/entity"
	"stackvault/internal/repo/persistent"
	"stackvault/pkg/logger"
)

type SubmitProductInput struct {
	Content entity.ProductContent
	Owner   entity.Owner
}

type SubmitResult struct {
	Product   *entity.Product
	Decision  entity.QuotaDecision
	UserCount int64
}

type ProductUseCase interface {
	SubmitProduct(ctx context.Context, input SubmitProductInput) (*SubmitResult, error)
	CheckQuota(ctx context.Context, ownerEmail string) (entity.QuotaDecision, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	ListProducts(ctx context.Context, query entity.ProductQuery) (*entity.ProductPage, error)
	ListFeatured(ctx context.Context) ([]*entity.Product, error)
	ListTrending(ctx context.Context) ([]*entity.Product, error)
	ListByOwner(ctx context.Context, email string) ([]*entity.Product, error)
	ListPending(ctx context.Context) ([]*entity.Product, error)
	CountPending(ctx context.Context) (int64, error)
	ListReported(ctx context.Context) ([]*entity.Product, error)
	CountReported(ctx context.Context) (int64, error)
	ListAcceptedNonFeatured(ctx context.Context) ([]*entity.Product, error)
	ListForModeration(ctx context.Context) ([]*entity.Product, error)
	UpdateProduct(ctx context.Context, id string, content entity.ProductContent) error
	UpdateStatus(ctx context.Context, id string, status entity.ProductStatus) error
	SetFeatured(ctx context.Context, id string, featured bool) error
	ModerateProduct(ctx context.Context, id string, change entity.ProductModeration) error
	Upvote(ctx context.Context, id, userEmail string) (*entity.Product, error)
	Report(ctx context.Context, id string, report entity.ProductReport) error
	DeleteProduct(ctx context.Context, id string) error
}

type productUseCase struct {
	productRepo persistent.ProductRepository
	userRepo    persistent.UserRepository
	votes       VoteLedger
	publisher   EventPublisher
	logger      *logger.Logger
	now         func() time.Time
}

func NewProductUseCase(
	productRepo persistent.ProductRepository,
	userRepo persistent.UserRepository,
	votes VoteLedger,
	publisher EventPublisher,
	logger *logger.Logger,
) ProductUseCase {
	return &productUseCase{
		productRepo: productRepo,
		userRepo:    userRepo,
		votes:       votes,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *productUseCase) SubmitProduct(ctx context.Context, input SubmitProductInput) (*SubmitResult, error) {
	c := input.Content
	if blank(c.Name, c.Image, c.Description, input.Owner.Email) {
		return nil, entity.Validation(msgMissingFields)
	}

	now := uc.now().UTC()
	product := &entity.Product{
		Name:         c.Name,
		Image:        c.Image,
		Description:  c.Description,
		Tags:         c.Tags,
		ExternalLink: c.ExternalLink,
		Owner:        input.Owner,
		Votes:        0,
		Status:       entity.ProductPending,
		Featured:     false,
		Reported:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var decision entity.QuotaDecision
	err := uc.productRepo.CreateWithQuota(ctx, product, func(owner *entity.User, count int64) error {
		decision = entity.CanSubmitProduct(owner.Membership.Status, count)
		if !decision.Allowed {
			return &entity.QuotaError{Decision: decision}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Product %s submitted by %s (%d owned)", product.ID, product.Owner.Email, decision.CurrentCount+1)
	publish(ctx, uc.publisher, uc.logger, EventProductSubmitted, map[string]interface{}{
		"productId":  product.ID,
		"ownerEmail": product.Owner.Email,
	})

	return &SubmitResult{
		Product:   product,
		Decision:  decision,
		UserCount: decision.CurrentCount + 1,
	}, nil
}

func (uc *productUseCase) CheckQuota(ctx context.Context, ownerEmail string) (entity.QuotaDecision, error) {
	user, err := uc.userRepo.GetByEmail(ctx, ownerEmail)
	if err != nil {
		return entity.QuotaDecision{}, err
	}

	count, err := uc.productRepo.CountByOwner(ctx, ownerEmail)
	if err != nil {
		return entity.QuotaDecision{}, err
	}

	return entity.CanSubmitProduct(user.Membership.Status, count), nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	if err := requireProductID(id); err != nil {
		return nil, err
	}
	return uc.productRepo.GetByID(ctx, id)
}

// ListProducts validates the search pattern with RE2 first. Postgres may still
// reject a pattern RE2 accepts; the repository reports that as a validation
// error too.
func (uc *productUseCase) ListProducts(ctx context.Context, query entity.ProductQuery) (*entity.ProductPage, error) {
	query = query.Normalize()
	if query.Search != "" {
		if _, err := regexp.Compile("(?i)" + query.Search); err != nil {
			return nil, entity.Validation("Invalid search pattern")
		}
	}

	products, total, err := uc.productRepo.ListAccepted(ctx, query)
	if err != nil {
		return nil, err
	}

	return &entity.ProductPage{
		Products:      products,
		TotalPages:    entity.TotalPages(total, query.Limit),
		CurrentPage:   query.Page,
		TotalProducts: total,
	}, nil
}

func (uc *productUseCase) ListFeatured(ctx context.Context) ([]*entity.Product, error) {
	return uc.productRepo.ListFeatured(ctx, entity.FeaturedLimit)
}

func (uc *productUseCase) ListTrending(ctx context.Context) ([]*entity.Product, error) {
	return uc.productRepo.ListTrending(ctx, entity.TrendingLimit)
}

func (uc *productUseCase) ListByOwner(ctx context.Context, email string) ([]*entity.Product, error) {
	return uc.productRepo.ListByOwner(ctx, email)
}

func (uc *productUseCase) ListPending(ctx context.Context) ([]*entity.Product, error) {
	return uc.productRepo.ListPending(ctx)
}

func (uc *productUseCase) CountPending(ctx context.Context) (int64, error) {
	return uc.productRepo.CountPending(ctx)
}

func (uc *productUseCase) ListReported(ctx context.Context) ([]*entity.Product, error) {
	return uc.productRepo.ListReported(ctx)
}

func (uc *productUseCase) CountReported(ctx context.Context) (int64, error) {
	return uc.productRepo.CountReported(ctx)
}

func (uc *productUseCase) ListAcceptedNonFeatured(ctx context.Context) ([]*entity.Product, error) {
	return uc.productRepo.ListAcceptedNonFeatured(ctx)
}

func (uc *productUseCase) ListForModeration(ctx context.Context) ([]*entity.Product, error) {
	return uc.productRepo.ListForModeration(ctx)
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id string, content entity.ProductContent) error {
	if err := requireProductID(id); err != nil {
		return err
	}
	if blank(content.Name, content.Image, content.Description) {
		return entity.Validation(msgMissingFields)
	}

	if err := uc.productRepo.UpdateContent(ctx, id, content, uc.now().UTC()); err != nil {
		return err
	}

	publish(ctx, uc.publisher, uc.logger, EventProductUpdated, map[string]interface{}{"productId": id})
	return nil
}

func (uc *productUseCase) UpdateStatus(ctx context.Context, id string, status entity.ProductStatus) error {
	return uc.ModerateProduct(ctx, id, entity.ProductModeration{Status: &status})
}

func (uc *productUseCase) SetFeatured(ctx context.Context, id string, featured bool) error {
	return uc.ModerateProduct(ctx, id, entity.ProductModeration{Featured: &featured})
}

// ModerateProduct changes the status and featured flag together. Featuring
// requires the product to be accepted, either already or by this change.
func (uc *productUseCase) ModerateProduct(ctx context.Context, id string, change entity.ProductModeration) error {
	if err := requireProductID(id); err != nil {
		return err
	}
	if change.Status == nil && change.Featured == nil {
		return entity.Validation("Nothing to update")
	}
	if change.Status != nil && !change.Status.Valid() {
		return entity.Validation("Invalid status")
	}
	if change.Status != nil && change.Featured != nil && *change.Status != entity.ProductAccepted {
		return entity.Validation(msgFeatureNotAccepted)
	}

	updated, err := uc.productRepo.Moderate(ctx, id, change, uc.now().UTC())
	if err != nil {
		return err
	}
	if !updated {
		return entity.Validation(msgFeatureNotAccepted)
	}

	payload := map[string]interface{}{"productId": id}
	if change.Status != nil {
		payload["status"] = *change.Status
	}
	if change.Featured != nil {
		payload["featured"] = *change.Featured
	}
	publish(ctx, uc.publisher, uc.logger, EventProductModerated, payload)
	return nil
}

func (uc *productUseCase) Upvote(ctx context.Context, id, userEmail string) (*entity.Product, error) {
	if err := requireProductID(id); err != nil {
		return nil, err
	}

	claimed := false
	if uc.votes != nil && userEmail != "" {
		ok, err := uc.votes.Claim(ctx, id, userEmail)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, entity.Conflict("Already upvoted")
		}
		claimed = true
	}

	product, err := uc.productRepo.IncrementVotes(ctx, id, uc.now().UTC())
	if err != nil {
		if claimed {
			if releaseErr := uc.votes.Release(ctx, id, userEmail); releaseErr != nil {
				uc.logger.Warn("Failed to release vote claim for %s on %s: %v", userEmail, id, releaseErr)
			}
		}
		return nil, err
	}

	publish(ctx, uc.publisher, uc.logger, EventProductUpvoted, map[string]interface{}{
		"productId": id,
		"votes":     product.Votes,
	})
	return product, nil
}

func (uc *productUseCase) Report(ctx context.Context, id string, report entity.ProductReport) error {
	if err := requireProductID(id); err != nil {
		return err
	}

	if err := uc.productRepo.Report(ctx, id, report, uc.now().UTC()); err != nil {
		return err
	}

	uc.logger.Warn("Product %s reported by %s", id, report.ReporterEmail)
	publish(ctx, uc.publisher, uc.logger, EventProductReported, map[string]interface{}{
		"productId":     id,
		"reporterEmail": report.ReporterEmail,
	})
	return nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	if err := requireProductID(id); err != nil {
		return err
	}

	removedReviews, err := uc.productRepo.Delete(ctx, id)
	if err != nil {
		return err
	}

	uc.logger.Info("Deleted product %s with %d reviews", id, removedReviews)
	publish(ctx, uc.publisher, uc.logger, EventProductDeleted, map[string]interface{}{
		"productId":      id,
		"removedReviews": removedReviews,
	})
	return nil
}
