package handler

import (
	"github.com/ev-station-service/internal/delivery/http/middleware"
	"github.com/ev-station-service/internal/pkg/errors"
	"github.com/ev-station-service/internal/pkg/utils"
	"github.com/ev-station-service/internal/usecase"
	"github.com/ev-station-service/internal/usecase/dto"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// StationHandler - обработчик запросов к зарядным станциям
type StationHandler struct {
	stationUC *usecase.StationUseCase
	queryUC   *usecase.StationQueryUseCase
	logger    *zap.Logger
}

// NewStationHandler - создание нового StationHandler
func NewStationHandler(stationUC *usecase.StationUseCase, queryUC *usecase.StationQueryUseCase, logger *zap.Logger) *StationHandler {
	return &StationHandler{
		stationUC: stationUC,
		queryUC:   queryUC,
		logger:    logger,
	}
}

// ListStations godoc
// @Summary List charging stations
// @Description Фильтрация, геопоиск в радиусе, сортировка и пагинация
// @Tags Stations
// @Produce json
// @Param status query string false "Active | Inactive | Maintenance | Out of Order"
// @Param connectorType query string false "Connector type"
// @Param minPowerOutput query number false "Minimum power, kW"
// @Param maxPowerOutput query number false "Maximum power, kW"
// @Param latitude query number false "Center latitude"
// @Param longitude query number false "Center longitude"
// @Param radius query number false "Radius, km (default 10)"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Page size (default 10, max 100)"
// @Param sortBy query string false "Sort field (default createdAt)"
// @Param sortOrder query string false "asc | desc (default desc)"
// @Success 200 {object} utils.SuccessResponse{data=dto.StationListResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/stations [get]
func (h *StationHandler) ListStations(c *fiber.Ctx) error {
	var req dto.StationQueryRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithMessage("Invalid query string"))
	}

	result, err := h.queryUC.ListStations(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result)
}

// GetStation godoc
// @Summary Get a charging station
// @Tags Stations
// @Produce json
// @Param id path string true "Station ID (UUID)"
// @Success 200 {object} utils.SuccessResponse{data=dto.StationEnvelope}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/stations/{id} [get]
func (h *StationHandler) GetStation(c *fiber.Ctx) error {
	station, err := h.stationUC.GetStation(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, dto.StationEnvelope{Station: *station})
}

// CreateStation godoc
// @Summary Create a charging station
// @Tags Stations
// @Accept json
// @Produce json
// @Param station body dto.StationRequest true "Station"
// @Success 201 {object} utils.SuccessResponse{data=dto.StationEnvelope}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/stations [post]
func (h *StationHandler) CreateStation(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return utils.SendError(c, errors.ErrUnauthorized)
	}

	var req dto.StationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	station, err := h.stationUC.CreateStation(c.Context(), actor, &req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendMessage(c, fiber.StatusCreated, "Charging station created successfully",
		dto.StationEnvelope{Station: *station})
}

// UpdateStation godoc
// @Summary Replace a charging station
// @Description Владелец или admin
// @Tags Stations
// @Accept json
// @Produce json
// @Param id path string true "Station ID (UUID)"
// @Param station body dto.StationRequest true "Station"
// @Success 200 {object} utils.SuccessResponse{data=dto.StationEnvelope}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/stations/{id} [put]
func (h *StationHandler) UpdateStation(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return utils.SendError(c, errors.ErrUnauthorized)
	}

	var req dto.StationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	station, err := h.stationUC.UpdateStation(c.Context(), actor, c.Params("id"), &req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendMessage(c, fiber.StatusOK, "Charging station updated successfully",
		dto.StationEnvelope{Station: *station})
}

// DeleteStation godoc
// @Summary Delete a charging station
// @Description Владелец или admin
// @Tags Stations
// @Produce json
// @Param id path string true "Station ID (UUID)"
// @Success 200 {object} utils.SuccessResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/stations/{id} [delete]
func (h *StationHandler) DeleteStation(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return utils.SendError(c, errors.ErrUnauthorized)
	}

	if err := h.stationUC.DeleteStation(c.Context(), actor, c.Params("id")); err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendMessage(c, fiber.StatusOK, "Charging station deleted successfully", fiber.Map{})
}

// UpdateAvailability godoc
// @Summary Update available ports
// @Tags Stations
// @Accept json
// @Produce json
// @Param id path string true "Station ID (UUID)"
// @Param body body dto.AvailabilityRequest true "Available ports"
// @Success 200 {object} utils.SuccessResponse{data=dto.StationEnvelope}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/stations/{id}/availability [patch]
func (h *StationHandler) UpdateAvailability(c *fiber.Ctx) error {
	actor, ok := middleware.ActorFromCtx(c)
	if !ok {
		return utils.SendError(c, errors.ErrUnauthorized)
	}

	var req dto.AvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	station, err := h.stationUC.UpdateAvailability(c.Context(), actor, c.Params("id"), &req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendMessage(c, fiber.StatusOK, "Station availability updated successfully",
		dto.StationEnvelope{Station: *station})
}

// ListByStatus godoc
// @Summary List stations by status
// @Tags Stations
// @Produce json
// @Param status path string true "Active | Inactive | Maintenance | Out of Order"
// @Success 200 {object} utils.SuccessResponse{data=dto.StationsCountResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/stations/status/{status} [get]
func (h *StationHandler) ListByStatus(c *fiber.Ctx) error {
	result, err := h.stationUC.ListByStatus(c.Context(), pathParam(c, "status"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result)
}

// ListByConnectorType godoc
// @Summary List stations by connector type
// @Tags Stations
// @Produce json
// @Param type path string true "Connector type"
// @Success 200 {object} utils.SuccessResponse{data=dto.StationsCountResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Security BearerAuth
// @Router /api/stations/connector/{type} [get]
func (h *StationHandler) ListByConnectorType(c *fiber.Ctx) error {
	result, err := h.stationUC.ListByConnectorType(c.Context(), pathParam(c, "type"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result)
}
