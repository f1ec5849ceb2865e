package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stackvault/internal/entity"
	"stackvault/internal/repo/persistent"
	"stackvault/internal/usecase"
	"stackvault/pkg/config"
	"stackvault/pkg/database"
	"stackvault/pkg/logger"

	"gorm.io/gorm"
)

type seedUser struct {
	email string
	name  string
	role  entity.Role
}

var seedUsers = []seedUser{
	{"admin@stackvault.dev", "StackVault Admin", entity.RoleAdmin},
	{"moderator@stackvault.dev", "StackVault Moderator", entity.RoleModerator},
	{"demo@stackvault.dev", "Demo Maker", entity.RoleUser},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.NewWithLevel(cfg.LogLevel)
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := database.Migrate(db); err != nil {
		log.Error("Failed to migrate database: %v", err)
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := seedDatabase(ctx, db, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(ctx context.Context, db *gorm.DB, log *logger.Logger) error {
	userRepo := persistent.NewUserRepository(db)
	productRepo := persistent.NewProductRepository(db)

	users := usecase.NewUserUseCase(userRepo, nil, nil, nil, log)
	products := usecase.NewProductUseCase(productRepo, userRepo, nil, nil, log)
	coupons := usecase.NewCouponUseCase(persistent.NewCouponRepository(db), nil, log)

	for _, su := range seedUsers {
		user, created, err := users.UpsertUser(ctx, entity.UserProfile{Email: su.email, Name: su.name})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", su.email, err)
		}
		if user.Role != su.role {
			if err := users.UpdateRole(ctx, user.ID, su.role); err != nil {
				return fmt.Errorf("set role for %s: %w", su.email, err)
			}
		}
		log.Info("Seeded user %s (created=%t, role=%s)", su.email, created, su.role)
	}

	maxUses := 100
	_, err := coupons.CreateCoupon(ctx, entity.CouponInput{
		Code:           "WELCOME10",
		Description:    "10 dollars off your first premium membership",
		DiscountAmount: 10,
		ExpiryDate:     time.Now().AddDate(1, 0, 0),
		MaxUses:        &maxUses,
	})
	switch {
	case errors.Is(err, entity.ErrConflict):
		log.Info("Coupon WELCOME10 already exists")
	case err != nil:
		return fmt.Errorf("seed coupon: %w", err)
	default:
		log.Info("Seeded coupon WELCOME10")
	}

	demo := seedUsers[2]
	decision, err := products.CheckQuota(ctx, demo.email)
	if err != nil {
		return fmt.Errorf("check quota for %s: %w", demo.email, err)
	}
	if !decision.Allowed {
		log.Info("Demo product already present")
		return nil
	}

	result, err := products.SubmitProduct(ctx, usecase.SubmitProductInput{
		Content: entity.ProductContent{
			Name:         "StackVault CLI",
			Image:        "https://placehold.co/600x400?text=StackVault",
			Description:  "Command line companion for browsing and upvoting StackVault products.",
			Tags:         []string{"cli", "developer-tools"},
			ExternalLink: "https://example.com/stackvault-cli",
		},
		Owner: entity.Owner{Name: demo.name, Email: demo.email},
	})
	if err != nil {
		return fmt.Errorf("seed product: %w", err)
	}

	accepted, featured := entity.ProductAccepted, true
	if err := products.ModerateProduct(ctx, result.Product.ID, entity.ProductModeration{
		Status:   &accepted,
		Featured: &featured,
	}); err != nil {
		return fmt.Errorf("accept demo product: %w", err)
	}
	log.Info("Seeded product %s", result.Product.ID)

	return nil
}
