package http

import (
	"errors"
	"net/http"

	"stackvault/internal/entity"
	"stackvault/pkg/logger"
	"stackvault/pkg/middleware"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, entity.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, entity.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, entity.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, entity.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err as {"error": ...}. Unclassified errors are logged
// and replaced by fallback.
func respondError(c *gin.Context, log *logger.Logger, err error, fallback string) {
	var quotaErr *entity.QuotaError
	if errors.As(err, &quotaErr) {
		c.JSON(http.StatusForbidden, gin.H{
			"error":           "Product limit reached",
			"message":         entity.QuotaMessage,
			"currentCount":    quotaErr.Decision.CurrentCount,
			"limit":           quotaErr.Decision.Limit,
			"upgradeRequired": true,
		})
		return
	}

	var couponErr *entity.CouponError
	if errors.As(err, &couponErr) {
		c.JSON(statusFor(err), gin.H{"error": couponErr.Error()})
		return
	}

	var domainErr *entity.Error
	if errors.As(err, &domainErr) {
		c.JSON(statusFor(domainErr.Kind), gin.H{"error": domainErr.Message})
		return
	}

	log.Error("%s: %v", fallback, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

type actor struct {
	Email string
	Role  entity.Role
}

func currentActor(c *gin.Context) actor {
	return actor{
		Email: c.GetString(middleware.ContextUserEmail),
		Role:  entity.Role(c.GetString(middleware.ContextUserRole)),
	}
}

func (a actor) staff() bool {
	return a.Role == entity.RoleModerator || a.Role == entity.RoleAdmin
}

// canActFor reports whether the actor may touch data owned by email.
func (a actor) canActFor(email string) bool {
	return a.Role == entity.RoleAdmin || (a.Email != "" && a.Email == email)
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden access"})
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
