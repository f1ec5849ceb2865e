package http

import (
	"net/http"

	"stackvault/internal/entity"
	"stackvault/internal/usecase"
	"stackvault/pkg/logger"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statsUseCase usecase.StatisticsUseCase
	logger       *logger.Logger
}

func NewStatisticsHandler(statsUseCase usecase.StatisticsUseCase, logger *logger.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		statsUseCase: statsUseCase,
		logger:       logger,
	}
}

// GetStatistics godoc
// @Summary      Marketplace statistics
// @Description  Counts of products, users and reviews and completed revenue created since the start of the range.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        range query string false "all, month or week" Enums(all, month, week)
// @Success      200  {object}  entity.Statistics
// @Router       /admin/statistics [get]
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	stats, err := h.statsUseCase.GetStatistics(c.Request.Context(), entity.ParseStatsRange(c.DefaultQuery("range", "all")))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}
