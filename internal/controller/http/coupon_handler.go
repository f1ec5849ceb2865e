package http

import (
	"net/http"
	"time"

	"stackvault/internal/entity"
	"stackvault/internal/usecase"
	"stackvault/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CouponHandler struct {
	couponUseCase usecase.CouponUseCase
	logger        *logger.Logger
}

func NewCouponHandler(couponUseCase usecase.CouponUseCase, logger *logger.Logger) *CouponHandler {
	return &CouponHandler{
		couponUseCase: couponUseCase,
		logger:        logger,
	}
}

type CouponRequest struct {
	Code           string   `json:"code"`
	Description    string   `json:"description"`
	DiscountAmount float64  `json:"discountAmount"`
	ExpiryDate     string   `json:"expiryDate"`
	MaxUses        *int     `json:"maxUses"`
	MinOrderAmount *float64 `json:"minOrderAmount"`
	IsActive       *bool    `json:"isActive"`
}

var expiryLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseExpiry(raw string) (time.Time, bool) {
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (r CouponRequest) input() (entity.CouponInput, bool) {
	input := entity.CouponInput{
		Code:           r.Code,
		Description:    r.Description,
		DiscountAmount: r.DiscountAmount,
		MaxUses:        r.MaxUses,
		MinOrderAmount: r.MinOrderAmount,
		IsActive:       r.IsActive,
	}
	if r.ExpiryDate == "" {
		return input, true
	}
	expiry, ok := parseExpiry(r.ExpiryDate)
	input.ExpiryDate = expiry
	return input, ok
}

// ListCoupons godoc
// @Summary      List coupons
// @Tags         coupons
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entity.Coupon
// @Router       /admin/coupons [get]
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.couponUseCase.ListCoupons(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch coupons")
		return
	}
	c.JSON(http.StatusOK, nonNil(coupons))
}

// CreateCoupon godoc
// @Summary      Create a coupon
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CouponRequest true "Coupon"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/coupons [post]
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	input, ok := h.bind(c)
	if !ok {
		return
	}

	coupon, err := h.couponUseCase.CreateCoupon(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create coupon")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"message":  "Coupon created successfully",
		"couponId": coupon.ID,
		"coupon":   coupon,
	})
}

// UpdateCoupon godoc
// @Summary      Update a coupon
// @Tags         coupons
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Coupon ID"
// @Param        request body CouponRequest true "Coupon"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /admin/coupons/{id} [put]
func (h *CouponHandler) UpdateCoupon(c *gin.Context) {
	input, ok := h.bind(c)
	if !ok {
		return
	}

	id := c.Param("id")
	if _, err := h.couponUseCase.UpdateCoupon(c.Request.Context(), id, input); err != nil {
		respondError(c, h.logger, err, "Failed to update coupon")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Coupon updated successfully",
		"couponId": id,
	})
}

// DeleteCoupon godoc
// @Summary      Delete a coupon
// @Tags         coupons
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Coupon ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/coupons/{id} [delete]
func (h *CouponHandler) DeleteCoupon(c *gin.Context) {
	if err := h.couponUseCase.DeleteCoupon(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete coupon")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Coupon deleted successfully"})
}

// ValidateCoupon godoc
// @Summary      Check a coupon code
// @Description  Codes are case-insensitive. Checks active flag, expiry and usage cap in that order.
// @Tags         coupons
// @Produce      json
// @Param        code path string true "Coupon code"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /coupons/validate/{code} [get]
func (h *CouponHandler) ValidateCoupon(c *gin.Context) {
	coupon, err := h.couponUseCase.ValidateCoupon(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to validate coupon")
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "coupon": coupon})
}

// UseCoupon godoc
// @Summary      Consume one use of a coupon
// @Tags         coupons
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Coupon code"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /coupons/use/{code} [post]
func (h *CouponHandler) UseCoupon(c *gin.Context) {
	if err := h.couponUseCase.RecordCouponUse(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, h.logger, err, "Failed to update coupon usage")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Coupon usage updated"})
}

func (h *CouponHandler) bind(c *gin.Context) (entity.CouponInput, bool) {
	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Missing required fields")
		return entity.CouponInput{}, false
	}
	input, ok := req.input()
	if !ok {
		badRequest(c, "Invalid expiry date")
		return entity.CouponInput{}, false
	}
	return input, true
}
