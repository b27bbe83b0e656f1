package handler

import (
	"github.com/ev-station-service/internal/pkg/utils"
	"github.com/ev-station-service/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StatsHandler обрабатывает запросы для статистики станций
type StatsHandler struct {
	statsUC *usecase.StatsUseCase
	logger  *zap.Logger
}

// NewStatsHandler создает новый экземпляр StatsHandler
func NewStatsHandler(statsUC *usecase.StatsUseCase, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		statsUC: statsUC,
		logger:  logger,
	}
}

// GetStatistics godoc
// @Summary Station statistics
// @Description Сводка по статусам, портам, средней мощности и типам разъёмов
// @Tags Stations
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.Statistics}
// @Failure 500 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/stations/stats [get]
func (h *StatsHandler) GetStatistics(c *fiber.Ctx) error {
	h.logger.Debug("Handling get statistics request")

	stats, err := h.statsUC.GetStatistics(c.Context())
	if err != nil {
		h.logger.Error("Failed to get statistics", zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, stats)
}
