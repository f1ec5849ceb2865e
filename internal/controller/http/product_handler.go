package http

import (
	"context"
	"net/http"
	"strconv"

	"stackvault/internal/entity"
	"stackvault/internal/usecase"
	"stackvault/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productUseCase usecase.ProductUseCase
	logger         *logger.Logger
}

func NewProductHandler(productUseCase usecase.ProductUseCase, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		productUseCase: productUseCase,
		logger:         logger,
	}
}

type OwnerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
}

type ProductRequest struct {
	Name         string        `json:"name"`
	Image        string        `json:"image"`
	Description  string        `json:"description"`
	Tags         []string      `json:"tags"`
	ExternalLink string        `json:"externalLink"`
	Owner        *OwnerRequest `json:"owner"`
}

func (r ProductRequest) content() entity.ProductContent {
	return entity.ProductContent{
		Name:         r.Name,
		Image:        r.Image,
		Description:  r.Description,
		Tags:         r.Tags,
		ExternalLink: r.ExternalLink,
	}
}

type ModerateRequest struct {
	Status   *string `json:"status"`
	Featured *bool   `json:"featured"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type FeaturedRequest struct {
	Featured *bool `json:"featured"`
}

type UpvoteRequest struct {
	UserEmail string `json:"userEmail"`
}

type ReportRequest struct {
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
	UserPhoto string `json:"userPhoto"`
	Reason    string `json:"reason"`
}

// CreateProduct godoc
// @Summary      Submit a product
// @Description  Submits a product for moderation. Regular members may own one product, premium members are unlimited.
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ProductRequest true "Product"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Owner == nil {
		badRequest(c, "Missing required fields")
		return
	}

	owner := entity.Owner{Name: req.Owner.Name, Email: req.Owner.Email, Photo: req.Owner.Photo}
	if a := currentActor(c); a.Email != "" && a.Role != entity.RoleAdmin {
		owner.Email = a.Email
	}

	res, err := h.productUseCase.SubmitProduct(c.Request.Context(), usecase.SubmitProductInput{
		Content: req.content(),
		Owner:   owner,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to create product")
		return
	}

	var limit interface{} = entity.FreeProductLimit
	if res.Decision.Premium {
		limit = "unlimited"
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":          true,
		"message":          "Product submitted successfully",
		"productId":        res.Product.ID,
		"userProductCount": res.UserCount,
		"isPremium":        res.Decision.Premium,
		"limit":            limit,
	})
}

// ListProducts godoc
// @Summary      List accepted products
// @Description  Paginated accepted products. search matches name, description or any tag as a case-insensitive regular expression.
// @Tags         products
// @Produce      json
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Page size (default 6)"
// @Param        search query string false "Search pattern"
// @Success      200  {object}  entity.ProductPage
// @Failure      400  {object}  map[string]string
// @Router       /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(entity.DefaultPageSize)))

	result, err := h.productUseCase.ListProducts(c.Request.Context(), entity.ProductQuery{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch products")
		return
	}
	result.Products = nonNil(result.Products)
	c.JSON(http.StatusOK, result)
}

// GetFeatured godoc
// @Summary      Featured products
// @Tags         products
// @Produce      json
// @Success      200  {array}  entity.Product
// @Router       /products/featured [get]
func (h *ProductHandler) GetFeatured(c *gin.Context) {
	h.list(c, h.productUseCase.ListFeatured, "Failed to fetch featured products")
}

// GetTrending godoc
// @Summary      Trending products
// @Tags         products
// @Produce      json
// @Success      200  {array}  entity.Product
// @Router       /products/trending [get]
func (h *ProductHandler) GetTrending(c *gin.Context) {
	h.list(c, h.productUseCase.ListTrending, "Failed to fetch trending products")
}

// GetPending godoc
// @Summary      Products awaiting review
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entity.Product
// @Router       /products/pending [get]
func (h *ProductHandler) GetPending(c *gin.Context) {
	h.list(c, h.productUseCase.ListPending, "Failed to fetch pending products")
}

// CountPending godoc
// @Summary      Number of products awaiting review
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Router       /products/pending/count [get]
func (h *ProductHandler) CountPending(c *gin.Context) {
	h.count(c, h.productUseCase.CountPending, "Failed to fetch pending count")
}

// GetReported godoc
// @Summary      Reported products
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entity.Product
// @Router       /products/reported [get]
func (h *ProductHandler) GetReported(c *gin.Context) {
	h.list(c, h.productUseCase.ListReported, "Failed to fetch reported products")
}

// CountReported godoc
// @Summary      Number of reported products
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Router       /products/reported/count [get]
func (h *ProductHandler) CountReported(c *gin.Context) {
	h.count(c, h.productUseCase.CountReported, "Failed to fetch reported count")
}

// GetAcceptedNonFeatured godoc
// @Summary      Accepted products that are not featured
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entity.Product
// @Router       /products/accepted-non-featured [get]
func (h *ProductHandler) GetAcceptedNonFeatured(c *gin.Context) {
	h.list(c, h.productUseCase.ListAcceptedNonFeatured, "Failed to fetch products")
}

// GetModerationQueue godoc
// @Summary      All products for the moderation dashboard
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entity.Product
// @Router       /moderator/products [get]
func (h *ProductHandler) GetModerationQueue(c *gin.Context) {
	h.list(c, h.productUseCase.ListForModeration, "Failed to fetch products")
}

// GetByOwner godoc
// @Summary      Products owned by a user
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        email path string true "Owner email"
// @Success      200  {array}  entity.Product
// @Router       /products/user/{email} [get]
func (h *ProductHandler) GetByOwner(c *gin.Context) {
	products, err := h.productUseCase.ListByOwner(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch user products")
		return
	}
	c.JSON(http.StatusOK, nonNil(products))
}

// GetQuota godoc
// @Summary      Check whether a user may submit another product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        email path string true "Owner email"
// @Success      200  {object}  entity.QuotaDecision
// @Failure      404  {object}  map[string]string
// @Router       /products/quota/{email} [get]
func (h *ProductHandler) GetQuota(c *gin.Context) {
	decision, err := h.productUseCase.CheckQuota(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to check product quota")
		return
	}
	c.JSON(http.StatusOK, decision)
}

// GetProduct godoc
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200  {object}  entity.Product
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productUseCase.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// UpdateProduct godoc
// @Summary      Edit product content
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        request body ProductRequest true "Product content"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Missing required fields")
		return
	}
	if !h.authorizeOwner(c, id) {
		return
	}

	if err := h.productUseCase.UpdateProduct(c.Request.Context(), id, req.content()); err != nil {
		respondError(c, h.logger, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Product updated successfully",
		"productId": id,
	})
}

// ModerateProduct godoc
// @Summary      Change status and/or featured flag
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        request body ModerateRequest true "Changes"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [patch]
func (h *ProductHandler) ModerateProduct(c *gin.Context) {
	id := c.Param("id")
	var req ModerateRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Status == nil && req.Featured == nil) {
		badRequest(c, "Nothing to update")
		return
	}

	change := entity.ProductModeration{Featured: req.Featured}
	if req.Status != nil {
		status := entity.ProductStatus(*req.Status)
		change.Status = &status
	}

	if err := h.productUseCase.ModerateProduct(c.Request.Context(), id, change); err != nil {
		respondError(c, h.logger, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Product updated successfully",
		"productId": id,
	})
}

// UpdateStatus godoc
// @Summary      Accept, reject or reset a product
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        request body StatusRequest true "New status"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /products/{id}/status [patch]
func (h *ProductHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid status")
		return
	}

	if err := h.productUseCase.UpdateStatus(c.Request.Context(), id, entity.ProductStatus(req.Status)); err != nil {
		respondError(c, h.logger, err, "Failed to update product status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Product " + req.Status + " successfully",
		"productId": id,
		"status":    req.Status,
	})
}

// SetFeatured godoc
// @Summary      Mark or unmark an accepted product as featured
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        request body FeaturedRequest true "Featured flag"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /products/{id}/featured [patch]
func (h *ProductHandler) SetFeatured(c *gin.Context) {
	id := c.Param("id")
	var req FeaturedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Featured == nil {
		badRequest(c, "Featured flag is required")
		return
	}

	if err := h.productUseCase.SetFeatured(c.Request.Context(), id, *req.Featured); err != nil {
		respondError(c, h.logger, err, "Failed to update product featured status")
		return
	}

	message := "Product unmarked from featured"
	if *req.Featured {
		message = "Product marked as featured"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   message,
		"productId": id,
		"featured":  *req.Featured,
	})
}

// DeleteProduct godoc
// @Summary      Delete a product and its reviews
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if !h.authorizeOwner(c, id) {
		return
	}

	if err := h.productUseCase.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted successfully",
	})
}

// Upvote godoc
// @Summary      Upvote a product
// @Description  Each user may upvote a product once.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      200  {object}  entity.Product
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /products/{id}/upvote [post]
func (h *ProductHandler) Upvote(c *gin.Context) {
	var req UpvoteRequest
	_ = c.ShouldBindJSON(&req)

	email := currentActor(c).Email
	if email == "" {
		email = req.UserEmail
	}

	product, err := h.productUseCase.Upvote(c.Request.Context(), c.Param("id"), email)
	if err != nil {
		respondError(c, h.logger, err, "Failed to upvote product")
		return
	}
	c.JSON(http.StatusOK, product)
}

// Report godoc
// @Summary      Report a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        request body ReportRequest true "Reporter"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /products/{id}/report [post]
func (h *ProductHandler) Report(c *gin.Context) {
	var req ReportRequest
	_ = c.ShouldBindJSON(&req)

	email := currentActor(c).Email
	if email == "" {
		email = req.UserEmail
	}

	err := h.productUseCase.Report(c.Request.Context(), c.Param("id"), entity.ProductReport{
		ReporterEmail: email,
		ReporterName:  req.UserName,
		ReporterImage: req.UserPhoto,
		Reason:        req.Reason,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to report product")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product reported successfully"})
}

// authorizeOwner lets staff through and checks ownership for everyone else.
// It writes the response and returns false when the request must stop.
func (h *ProductHandler) authorizeOwner(c *gin.Context, id string) bool {
	a := currentActor(c)
	if a.staff() {
		return true
	}

	product, err := h.productUseCase.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch product")
		return false
	}
	if product.Owner.Email != a.Email {
		forbidden(c)
		return false
	}
	return true
}

func (h *ProductHandler) list(c *gin.Context, fetch func(ctx context.Context) ([]*entity.Product, error), fallback string) {
	products, err := fetch(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, fallback)
		return
	}
	c.JSON(http.StatusOK, nonNil(products))
}

func (h *ProductHandler) count(c *gin.Context, fetch func(ctx context.Context) (int64, error), fallback string) {
	n, err := fetch(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, fallback)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}
