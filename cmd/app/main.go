package main

import (
	"stackvault/internal/app"
	"stackvault/pkg/config"
	"stackvault/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title           StackVault API
// @version         1.0
// @description     Product showcase marketplace: submissions, moderation, reviews, memberships and coupons.

// @host      localhost:5000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	if cfg.JWTSecret == config.DefaultJWTSecret || cfg.JWTSecret == "" {
		panic("JWT_SECRET must be set in environment variables")
	}

	gin.SetMode(cfg.GinMode)

	log := logger.NewWithLevel(cfg.LogLevel)
	defer log.Sync()

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("Failed to initialize application: %v", err)
		panic(err)
	}

	application.Run()
	application.Wait()

	if err := application.Shutdown(); err != nil {
		log.Error("%v", err)
	}
}
