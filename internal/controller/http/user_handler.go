package http

import (
	"net/http"
	"time"

	"stackvault/internal/entity"
	"stackvault/internal/usecase"
	"stackvault/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userUseCase usecase.UserUseCase
	logger      *logger.Logger
}

func NewUserHandler(userUseCase usecase.UserUseCase, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

type UpsertUserRequest struct {
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Photo        string     `json:"photo"`
	Bio          string     `json:"bio"`
	AuthProvider string     `json:"authProvider"`
	CreatedAt    *time.Time `json:"createdAt"`
}

type TokenRequest struct {
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpsertUser godoc
// @Summary      Create or update a user
// @Description  Creates the user on first sign-in (role user, no membership) or refreshes profile fields
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body UpsertUserRequest true "User profile"
// @Success      200  {object}  map[string]interface{}
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) UpsertUser(c *gin.Context) {
	var req UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email is required")
		return
	}

	user, created, err := h.userUseCase.UpsertUser(c.Request.Context(), entity.UserProfile{
		Email:        req.Email,
		Name:         req.Name,
		Photo:        req.Photo,
		Bio:          req.Bio,
		AuthProvider: req.AuthProvider,
		CreatedAt:    req.CreatedAt,
	})
	if err != nil {
		respondError(c, h.logger, err, "Server error")
		return
	}

	status, label := http.StatusOK, "updated"
	if created {
		status, label = http.StatusCreated, "created"
	}
	c.JSON(status, gin.H{"status": label, "user": user})
}

// GetUser godoc
// @Summary      Get user by email
// @Tags         users
// @Produce      json
// @Param        email path string true "User email"
// @Success      200  {object}  entity.User
// @Failure      404  {object}  map[string]string
// @Router       /users/{email} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userUseCase.GetUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err, "Server error")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetProfile godoc
// @Summary      Get public profile with membership
// @Tags         users
// @Produce      json
// @Param        email path string true "User email"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /user-profile/{email} [get]
func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.userUseCase.GetUser(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err, "Server error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"_id":        user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"photo":      user.Photo,
		"bio":        user.Bio,
		"role":       user.Role,
		"membership": user.Membership,
		"createdAt":  user.CreatedAt,
	})
}

// IssueToken godoc
// @Summary      Issue an API token
// @Description  Signs a JWT for an existing user. When Firebase is configured the idToken is verified and its email is used.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body TokenRequest true "Credentials"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /jwt [post]
func (h *UserHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	token, user, err := h.userUseCase.IssueToken(c.Request.Context(), req.Email, req.IDToken)
	if err != nil {
		respondError(c, h.logger, err, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "role": user.Role})
}

// ListUsers godoc
// @Summary      List all users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   entity.User
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userUseCase.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch users")
		return
	}
	c.JSON(http.StatusOK, nonNil(users))
}

// UpdateRole godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId path string true "User ID"
// @Param        request body UpdateRoleRequest true "New role"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/users/{userId}/role [patch]
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid role")
		return
	}

	role := entity.Role(req.Role)
	if err := h.userUseCase.UpdateRole(c.Request.Context(), c.Param("userId"), role); err != nil {
		respondError(c, h.logger, err, "Failed to update user role")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "User role updated to " + req.Role,
	})
}
