package http

import (
	"net/http"

	"stackvault/internal/entity"
	"stackvault/internal/usecase"
	"stackvault/pkg/logger"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentUseCase usecase.PaymentUseCase
	logger         *logger.Logger
}

func NewPaymentHandler(paymentUseCase usecase.PaymentUseCase, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
		logger:         logger,
	}
}

type PaymentIntentRequest struct {
	Amount     float64 `json:"amount"`
	UserEmail  string  `json:"userEmail"`
	CouponCode string  `json:"couponCode"`
}

type RecordPaymentRequest struct {
	Email          string  `json:"email"`
	Amount         float64 `json:"amount"`
	TransactionID  string  `json:"transactionId"`
	MembershipType string  `json:"membershipType"`
}

// CreatePaymentIntent godoc
// @Summary      Start a membership payment
// @Description  Creates a Stripe payment intent. amount is in dollars.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body PaymentIntentRequest true "Intent"
// @Success      200  {object}  entity.PaymentIntent
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /create-payment-intent [post]
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	var req PaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	userEmail := req.UserEmail
	if email := currentActor(c).Email; email != "" {
		userEmail = email
	}

	intent, err := h.paymentUseCase.CreatePaymentIntent(c.Request.Context(), entity.PaymentIntentRequest{
		Amount:     req.Amount,
		UserEmail:  userEmail,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to create payment intent")
		return
	}
	c.JSON(http.StatusOK, intent)
}

// RecordPayment godoc
// @Summary      Record a completed payment
// @Description  Stores the payment and upgrades the payer to premium in one transaction.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RecordPaymentRequest true "Payment"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /payments [post]
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if !currentActor(c).canActFor(req.Email) {
		forbidden(c)
		return
	}

	result, err := h.paymentUseCase.RecordPayment(c.Request.Context(), entity.PaymentRequest{
		Email:          req.Email,
		Amount:         req.Amount,
		TransactionID:  req.TransactionID,
		MembershipType: req.MembershipType,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to process payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"message":     "Payment processed successfully - Membership upgraded to Premium!",
		"payment":     result.Payment,
		"userUpdated": result.UserUpdated,
	})
}

// ListPayments godoc
// @Summary      Payment history
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        email path string true "Payer email"
// @Success      200  {array}   entity.Payment
// @Failure      403  {object}  map[string]string
// @Router       /payments/{email} [get]
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	email := c.Param("email")
	if !currentActor(c).canActFor(email) {
		forbidden(c)
		return
	}

	payments, err := h.paymentUseCase.ListPayments(c.Request.Context(), email)
	if err != nil {
		respondError(c, h.logger, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, nonNil(payments))
}
