package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apphttp "stackvault/internal/controller/http"
	repocache "stackvault/internal/repo/cache"
	"stackvault/internal/repo/persistent"
	"stackvault/internal/usecase"
	"stackvault/pkg/cache"
	"stackvault/pkg/config"
	"stackvault/pkg/database"
	"stackvault/pkg/firebase"
	"stackvault/pkg/jwt"
	"stackvault/pkg/logger"
	"stackvault/pkg/payment"
	"stackvault/pkg/queue"
	"stackvault/pkg/s3"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const shutdownTimeout = 5 * time.Second

// App owns every external client and the HTTP server built on top of them.
type App struct {
	cfg    *config.Config
	log    *logger.Logger
	db     *gorm.DB
	redis  *redis.Client
	queue  *queue.Client
	server *http.Server
}

// NewApp connects Postgres and Redis, which are required. RabbitMQ, S3, Stripe
// and Firebase are optional: when one is missing the features that need it
// answer 503 or are skipped.
func NewApp(cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.MigrateOnStartup {
		if err := database.Migrate(db); err != nil {
			closeDB(db, log)
			return nil, err
		}
		log.Info("Database migrations applied")
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		closeDB(db, log)
		return nil, err
	}

	a := &App{
		cfg:   cfg,
		log:   log,
		db:    db,
		redis: redisClient,
	}

	var publisher usecase.EventPublisher
	if queueClient, err := queue.NewRabbitMQClient(cfg, log); err != nil {
		log.Warn("RabbitMQ unavailable, domain events disabled: %v", err)
	} else {
		a.queue = queueClient
		publisher = queueClient
	}

	var storage usecase.ImageStorage
	if s3Client, err := s3.NewClient(cfg); err != nil {
		log.Warn("S3 unavailable, image uploads disabled: %v", err)
	} else {
		storage = s3Client
	}

	var provider usecase.PaymentProvider
	if cfg.StripeSecretKey != "" {
		provider = payment.NewStripeProvider(cfg.StripeSecretKey)
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, payment intents disabled")
	}

	var verifier usecase.IdentityVerifier
	if cfg.FirebaseProjectID != "" || cfg.GoogleApplicationCredentials != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		v, err := firebase.NewVerifier(ctx, cfg.FirebaseProjectID, cfg.GoogleApplicationCredentials)
		cancel()
		if err != nil {
			log.Warn("Firebase unavailable, tokens are issued without identity verification: %v", err)
		} else {
			verifier = v
		}
	}

	jwtService := jwt.NewServiceWithTTL(cfg.JWTSecret, cfg.JWTTTL)

	// Initialize repositories
	userRepo := persistent.NewUserRepository(db)
	productRepo := persistent.NewProductRepository(db)
	paymentRepo := persistent.NewPaymentRepository(db)
	reviewRepo := persistent.NewReviewRepository(db)
	couponRepo := persistent.NewCouponRepository(db)
	statsRepo := persistent.NewStatisticsRepository(db)

	votes := repocache.NewVoteLedger(redisClient)
	statsCache := repocache.NewStatsCache(redisClient, cfg.StatsCacheTTL)

	// Initialize use cases
	userUseCase := usecase.NewUserUseCase(userRepo, jwtService, verifier, publisher, log)
	productUseCase := usecase.NewProductUseCase(productRepo, userRepo, votes, publisher, log)
	paymentUseCase := usecase.NewPaymentUseCase(paymentRepo, provider, publisher, log)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, productRepo, publisher, log)
	couponUseCase := usecase.NewCouponUseCase(couponRepo, publisher, log)
	statsUseCase := usecase.NewStatisticsUseCase(statsRepo, statsCache, log)
	mediaUseCase := usecase.NewMediaUseCase(storage, log)

	// Initialize HTTP handlers
	handlers := Handlers{
		Users:      apphttp.NewUserHandler(userUseCase, log),
		Products:   apphttp.NewProductHandler(productUseCase, log),
		Payments:   apphttp.NewPaymentHandler(paymentUseCase, log),
		Reviews:    apphttp.NewReviewHandler(reviewUseCase, log),
		Coupons:    apphttp.NewCouponHandler(couponUseCase, log),
		Statistics: apphttp.NewStatisticsHandler(statsUseCase, log),
		Media:      apphttp.NewMediaHandler(mediaUseCase, log),
	}

	a.server = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           NewRouter(cfg, log, jwtService, redisClient, StoredRole(userRepo), handlers),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return a, nil
}

// Run starts serving in the background. Listener failures are fatal.
func (a *App) Run() {
	go func() {
		a.log.Info("StackVault server starting on port %s", a.cfg.ServerPort)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()
}

// Wait blocks until SIGINT or SIGTERM.
func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down StackVault server...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var shutdownErr error
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = fmt.Errorf("server forced to shutdown: %w", err)
	}

	closeDB(a.db, a.log)

	if err := a.redis.Close(); err != nil {
		a.log.Error("Error closing Redis: %v", err)
	}

	if a.queue != nil {
		if err := a.queue.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	a.log.Info("StackVault server exited")
	return shutdownErr
}

func closeDB(db *gorm.DB, log *logger.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("Error closing database: %v", err)
	}
}
