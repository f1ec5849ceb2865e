package http

import (
	"net/http"

	"stackvault/internal/usecase"
	"stackvault/pkg/logger"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaUseCase usecase.MediaUseCase
	logger       *logger.Logger
}

func NewMediaHandler(mediaUseCase usecase.MediaUseCase, logger *logger.Logger) *MediaHandler {
	return &MediaHandler{
		mediaUseCase: mediaUseCase,
		logger:       logger,
	}
}

// UploadImage godoc
// @Summary      Upload a product image
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image formData file true "Image (jpeg, png, gif or webp, up to 5MB)"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /uploads/image [post]
func (h *MediaHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "Image file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		badRequest(c, "Failed to read image")
		return
	}
	defer src.Close()

	url, err := h.mediaUseCase.UploadImage(c.Request.Context(), usecase.ImageUpload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Size:        file.Size,
		Body:        src,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to upload file")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
