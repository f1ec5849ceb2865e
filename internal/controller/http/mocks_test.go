package http

import (
	"context"

	"stackvault/internal/entity"
	"stackvault/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// MockProductUseCase is a mock implementation of ProductUseCase
type MockProductUseCase struct {
	mock.Mock
}

func (m *MockProductUseCase) SubmitProduct(ctx context.Context, input usecase.SubmitProductInput) (*usecase.SubmitResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.SubmitResult), args.Error(1)
}

func (m *MockProductUseCase) CheckQuota(ctx context.Context, ownerEmail string) (entity.QuotaDecision, error) {
	args := m.Called(ctx, ownerEmail)
	return args.Get(0).(entity.QuotaDecision), args.Error(1)
}

func (m *MockProductUseCase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductUseCase) ListProducts(ctx context.Context, query entity.ProductQuery) (*entity.ProductPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProductPage), args.Error(1)
}

func (m *MockProductUseCase) products(args mock.Arguments) ([]*entity.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Product), args.Error(1)
}

func (m *MockProductUseCase) ListFeatured(ctx context.Context) ([]*entity.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockProductUseCase) ListTrending(ctx context.Context) ([]*entity.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockProductUseCase) ListByOwner(ctx context.Context, email string) ([]*entity.Product, error) {
	return m.products(m.Called(ctx, email))
}

func (m *MockProductUseCase) ListPending(ctx context.Context) ([]*entity.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockProductUseCase) CountPending(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductUseCase) ListReported(ctx context.Context) ([]*entity.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockProductUseCase) CountReported(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductUseCase) ListAcceptedNonFeatured(ctx context.Context) ([]*entity.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockProductUseCase) ListForModeration(ctx context.Context) ([]*entity.Product, error) {
	return m.products(m.Called(ctx))
}

func (m *MockProductUseCase) UpdateProduct(ctx context.Context, id string, content entity.ProductContent) error {
	return m.Called(ctx, id, content).Error(0)
}

func (m *MockProductUseCase) UpdateStatus(ctx context.Context, id string, status entity.ProductStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockProductUseCase) SetFeatured(ctx context.Context, id string, featured bool) error {
	return m.Called(ctx, id, featured).Error(0)
}

func (m *MockProductUseCase) ModerateProduct(ctx context.Context, id string, change entity.ProductModeration) error {
	return m.Called(ctx, id, change).Error(0)
}

func (m *MockProductUseCase) Upvote(ctx context.Context, id, userEmail string) (*entity.Product, error) {
	args := m.Called(ctx, id, userEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductUseCase) Report(ctx context.Context, id string, report entity.ProductReport) error {
	return m.Called(ctx, id, report).Error(0)
}

func (m *MockProductUseCase) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

var _ usecase.ProductUseCase = (*MockProductUseCase)(nil)

// MockCouponUseCase is a mock implementation of CouponUseCase
type MockCouponUseCase struct {
	mock.Mock
}

func (m *MockCouponUseCase) ListCoupons(ctx context.Context) ([]*entity.Coupon, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Coupon), args.Error(1)
}

func (m *MockCouponUseCase) CreateCoupon(ctx context.Context, input entity.CouponInput) (*entity.Coupon, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Coupon), args.Error(1)
}

func (m *MockCouponUseCase) UpdateCoupon(ctx context.Context, id string, input entity.CouponInput) (*entity.Coupon, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Coupon), args.Error(1)
}

func (m *MockCouponUseCase) DeleteCoupon(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCouponUseCase) ValidateCoupon(ctx context.Context, code string) (entity.PublicCoupon, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(entity.PublicCoupon), args.Error(1)
}

func (m *MockCouponUseCase) RecordCouponUse(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

var _ usecase.CouponUseCase = (*MockCouponUseCase)(nil)

// MockPaymentUseCase is a mock implementation of PaymentUseCase
type MockPaymentUseCase struct {
	mock.Mock
}

func (m *MockPaymentUseCase) CreatePaymentIntent(ctx context.Context, req entity.PaymentIntentRequest) (*entity.PaymentIntent, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentIntent), args.Error(1)
}

func (m *MockPaymentUseCase) RecordPayment(ctx context.Context, req entity.PaymentRequest) (*entity.PaymentResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentResult), args.Error(1)
}

func (m *MockPaymentUseCase) ListPayments(ctx context.Context, email string) ([]*entity.Payment, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Payment), args.Error(1)
}

var _ usecase.PaymentUseCase = (*MockPaymentUseCase)(nil)

// MockUserUseCase is a mock implementation of UserUseCase
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) UpsertUser(ctx context.Context, profile entity.UserProfile) (*entity.User, bool, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entity.User), args.Bool(1), args.Error(2)
}

func (m *MockUserUseCase) GetUser(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserUseCase) ListUsers(ctx context.Context) ([]*entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.User), args.Error(1)
}

func (m *MockUserUseCase) UpdateRole(ctx context.Context, userID string, role entity.Role) error {
	return m.Called(ctx, userID, role).Error(0)
}

func (m *MockUserUseCase) IssueToken(ctx context.Context, email, idToken string) (string, *entity.User, error) {
	args := m.Called(ctx, email, idToken)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*entity.User), args.Error(2)
}

var _ usecase.UserUseCase = (*MockUserUseCase)(nil)

// MockReviewUseCase is a mock implementation of ReviewUseCase
type MockReviewUseCase struct {
	mock.Mock
}

func (m *MockReviewUseCase) ListByProduct(ctx context.Context, productID string) ([]*entity.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Review), args.Error(1)
}

func (m *MockReviewUseCase) CreateReview(ctx context.Context, input usecase.CreateReviewInput) (*entity.Review, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

var _ usecase.ReviewUseCase = (*MockReviewUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asUser simulates AuthMiddleware for the wrapped handler.
func asUser(email string, role entity.Role, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_email", email)
		c.Set("user_role", string(role))
		next(c)
	}
}
