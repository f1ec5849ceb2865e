package app

import (
	"context"
	"errors"
	"time"

	apphttp "stackvault/internal/controller/http"
	"stackvault/internal/entity"
	"stackvault/internal/repo/persistent"
	"stackvault/pkg/config"
	"stackvault/pkg/jwt"
	"stackvault/pkg/logger"
	"stackvault/pkg/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "stackvault/docs" // Swagger docs
)

type Handlers struct {
	Users      *apphttp.UserHandler
	Products   *apphttp.ProductHandler
	Payments   *apphttp.PaymentHandler
	Reviews    *apphttp.ReviewHandler
	Coupons    *apphttp.CouponHandler
	Statistics *apphttp.StatisticsHandler
	Media      *apphttp.MediaHandler
}

// NewRouter registers the public, authenticated, moderator and admin routes.
// Rate limiting is skipped when redisClient is nil. Moderator and admin routes
// check the role stored for the caller, not the one in the token.
func NewRouter(cfg *config.Config, log *logger.Logger, jwtService *jwt.Service, redisClient *redis.Client, roles middleware.RoleLookup, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(log.Zap()))
	r.Use(middleware.RecoveryMiddleware(log.Zap()))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	r.GET("/", apphttp.Root)
	r.GET("/health", apphttp.Health)
	r.GET("/test", apphttp.Ping)

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Public routes
	{
		r.POST("/users", h.Users.UpsertUser)
		r.POST("/jwt", h.Users.IssueToken)
		r.GET("/users/:email", h.Users.GetUser)
		r.GET("/user-profile/:email", h.Users.GetProfile)

		r.GET("/products", h.Products.ListProducts)
		r.GET("/products/featured", h.Products.GetFeatured)
		r.GET("/products/trending", h.Products.GetTrending)
		r.GET("/products/:id", h.Products.GetProduct)

		r.GET("/reviews/product/:productId", h.Reviews.ListReviews)
		r.GET("/coupons/validate/:code", h.Coupons.ValidateCoupon)
	}

	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(jwtService))
	if redisClient != nil {
		protected.Use(middleware.RateLimitMiddleware(redisClient, cfg.RateLimitPerMinute, time.Minute))
	}
	{
		protected.GET("/products/user/:email", h.Products.GetByOwner)
		protected.GET("/products/quota/:email", h.Products.GetQuota)
		protected.POST("/products", h.Products.CreateProduct)
		protected.PUT("/products/:id", h.Products.UpdateProduct)
		protected.DELETE("/products/:id", h.Products.DeleteProduct)
		protected.POST("/products/:id/upvote", h.Products.Upvote)
		protected.POST("/products/:id/report", h.Products.Report)

		protected.POST("/reviews", h.Reviews.CreateReview)

		protected.POST("/create-payment-intent", h.Payments.CreatePaymentIntent)
		protected.POST("/payments", h.Payments.RecordPayment)
		protected.GET("/payments/:email", h.Payments.ListPayments)

		protected.POST("/coupons/use/:code", h.Coupons.UseCoupon)
		protected.POST("/uploads/image", h.Media.UploadImage)
	}

	staff := protected.Group("")
	staff.Use(middleware.RefreshRole(roles), middleware.RequireRole(string(entity.RoleModerator), string(entity.RoleAdmin)))
	{
		staff.GET("/products/pending", h.Products.GetPending)
		staff.GET("/products/pending/count", h.Products.CountPending)
		staff.GET("/products/reported", h.Products.GetReported)
		staff.GET("/products/reported/count", h.Products.CountReported)
		staff.GET("/products/accepted-non-featured", h.Products.GetAcceptedNonFeatured)
		staff.GET("/moderator/products", h.Products.GetModerationQueue)
		staff.PATCH("/products/:id", h.Products.ModerateProduct)
		staff.PATCH("/products/:id/status", h.Products.UpdateStatus)
		staff.PATCH("/products/:id/featured", h.Products.SetFeatured)
	}

	admin := protected.Group("/admin")
	admin.Use(middleware.RefreshRole(roles), middleware.RequireRole(string(entity.RoleAdmin)))
	{
		admin.GET("/users", h.Users.ListUsers)
		admin.PATCH("/users/:userId/role", h.Users.UpdateRole)
		admin.GET("/statistics", h.Statistics.GetStatistics)

		admin.GET("/coupons", h.Coupons.ListCoupons)
		admin.POST("/coupons", h.Coupons.CreateCoupon)
		admin.PUT("/coupons/:id", h.Coupons.UpdateCoupon)
		admin.DELETE("/coupons/:id", h.Coupons.DeleteCoupon)
	}

	return r
}

// StoredRole resolves roles from the user table. Unknown users get no role.
func StoredRole(users persistent.UserRepository) middleware.RoleLookup {
	return func(ctx context.Context, email string) (string, error) {
		user, err := users.GetByEmail(ctx, email)
		if errors.Is(err, entity.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return string(user.Role), nil
	}
}

func corsConfig(origins []string) cors.Config {
	conf := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		conf.AllowAllOrigins = true
		return conf
	}
	conf.AllowOrigins = origins
	conf.AllowCredentials = true
	return conf
}
