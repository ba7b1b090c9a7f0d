package handler

import (
	"strconv"

	"salesops-web/internal/models"
	"salesops-web/internal/repository"
	"salesops-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type DesignationHandler struct {
	designationRepo *repository.DesignationRepository
	channelRepo     *repository.ChannelRepository
}

func NewDesignationHandler(designationRepo *repository.DesignationRepository, channelRepo *repository.ChannelRepository) *DesignationHandler {
	return &DesignationHandler{
		designationRepo: designationRepo,
		channelRepo:     channelRepo,
	}
}

func (h *DesignationHandler) GetDesignations(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)
	channelID, _ := strconv.Atoi(c.Query("channel_id", "0"))

	designations, total, err := h.designationRepo.FindAll(params.Limit, offset, params.Search, channelID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve designations", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	responseData := fiber.Map{
		"designations": designations,
		"pagination":   pagination,
	}

	return utils.PaginatedResponseBuilder(c, "Designations retrieved successfully", responseData, pagination)
}

func (h *DesignationHandler) GetDesignation(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid designation ID", err)
	}

	designation, err := h.designationRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Designation not found", err)
	}

	return utils.SuccessResponse(c, "Designation retrieved successfully", designation)
}

func (h *DesignationHandler) CreateDesignation(c *fiber.Ctx) error {
	var req models.DesignationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.DesignationCode == "" || req.DesignationName == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Designation code and name are required", nil)
	}
	if req.ChannelID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Channel is required", nil)
	}

	// Designations are channel-scoped; reject unknown channels up front
	if _, err := h.channelRepo.FindByID(req.ChannelID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Channel not found", err)
	}

	designation := &models.Designation{
		DesignationCode: req.DesignationCode,
		DesignationName: req.DesignationName,
		ChannelID:       req.ChannelID,
		IsActive:        true,
	}

	if err := h.designationRepo.Create(designation); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create designation", err)
	}

	return utils.SuccessResponse(c, "Designation created successfully", designation)
}

func (h *DesignationHandler) UpdateDesignation(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid designation ID", err)
	}

	var req models.DesignationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.DesignationCode == "" || req.DesignationName == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Designation code and name are required", nil)
	}

	designation, err := h.designationRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Designation not found", err)
	}

	if req.ChannelID != 0 && req.ChannelID != designation.ChannelID {
		if _, err := h.channelRepo.FindByID(req.ChannelID); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Channel not found", err)
		}
		designation.ChannelID = req.ChannelID
	}

	designation.DesignationCode = req.DesignationCode
	designation.DesignationName = req.DesignationName
	designation.IsActive = req.IsActive

	if err := h.designationRepo.Update(designation); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update designation", err)
	}

	return utils.SuccessResponse(c, "Designation updated successfully", designation)
}

func (h *DesignationHandler) UpdateDesignationStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid designation ID", err)
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := h.designationRepo.UpdateStatus(id, req.IsActive); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update designation status", err)
	}

	return utils.SuccessResponse(c, "Designation status updated successfully", fiber.Map{
		"id":        id,
		"is_active": req.IsActive,
	})
}
