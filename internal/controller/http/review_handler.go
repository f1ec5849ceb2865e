package http

import (
	"net/http"

	"stackvault/internal/usecase"
	"stackvault/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewUseCase usecase.ReviewUseCase
	logger        *logger.Logger
}

func NewReviewHandler(reviewUseCase usecase.ReviewUseCase, logger *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
		logger:        logger,
	}
}

type CreateReviewRequest struct {
	ProductID     string `json:"productId"`
	ReviewerName  string `json:"reviewerName"`
	ReviewerImage string `json:"reviewerImage"`
	Description   string `json:"description"`
	Rating        int    `json:"rating"`
}

// ListReviews godoc
// @Summary      Reviews for a product
// @Tags         reviews
// @Produce      json
// @Param        productId path string true "Product ID"
// @Success      200  {array}   entity.Review
// @Failure      400  {object}  map[string]string
// @Router       /reviews/product/{productId} [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviewUseCase.ListByProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch reviews")
		return
	}
	c.JSON(http.StatusOK, nonNil(reviews))
}

// CreateReview godoc
// @Summary      Review a product
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateReviewRequest true "Review"
// @Success      201  {object}  entity.Review
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Missing required fields")
		return
	}

	review, err := h.reviewUseCase.CreateReview(c.Request.Context(), usecase.CreateReviewInput{
		ProductID:     req.ProductID,
		ReviewerName:  req.ReviewerName,
		ReviewerImage: req.ReviewerImage,
		ReviewerEmail: currentActor(c).Email,
		Description:   req.Description,
		Rating:        req.Rating,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to create review")
		return
	}
	c.JSON(http.StatusCreated, review)
}
