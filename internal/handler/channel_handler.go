package handler

import (
	"strconv"

	"salesops-web/internal/models"
	"salesops-web/internal/repository"
	"salesops-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ChannelHandler struct {
	channelRepo *repository.ChannelRepository
}

func NewChannelHandler(channelRepo *repository.ChannelRepository) *ChannelHandler {
	return &ChannelHandler{channelRepo: channelRepo}
}

func (h *ChannelHandler) GetChannels(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	channels, total, err := h.channelRepo.FindAll(params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve channels", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	responseData := fiber.Map{
		"channels":   channels,
		"pagination": pagination,
	}

	return utils.PaginatedResponseBuilder(c, "Channels retrieved successfully", responseData, pagination)
}

func (h *ChannelHandler) GetChannel(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid channel ID", err)
	}

	channel, err := h.channelRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Channel not found", err)
	}

	return utils.SuccessResponse(c, "Channel retrieved successfully", channel)
}

func (h *ChannelHandler) CreateChannel(c *fiber.Ctx) error {
	var req models.ChannelRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.ChannelCode == "" || req.ChannelName == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Channel code and name are required", nil)
	}

	channel := &models.Channel{
		ChannelCode: req.ChannelCode,
		ChannelName: req.ChannelName,
		Description: req.Description,
		IsActive:    true,
	}

	if err := h.channelRepo.Create(channel); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create channel", err)
	}

	return utils.SuccessResponse(c, "Channel created successfully", channel)
}

func (h *ChannelHandler) UpdateChannel(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid channel ID", err)
	}

	var req models.ChannelRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.ChannelCode == "" || req.ChannelName == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Channel code and name are required", nil)
	}

	channel, err := h.channelRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Channel not found", err)
	}

	channel.ChannelCode = req.ChannelCode
	channel.ChannelName = req.ChannelName
	channel.Description = req.Description
	channel.IsActive = req.IsActive

	if err := h.channelRepo.Update(channel); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update channel", err)
	}

	return utils.SuccessResponse(c, "Channel updated successfully", channel)
}

func (h *ChannelHandler) UpdateChannelStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid channel ID", err)
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := h.channelRepo.UpdateStatus(id, req.IsActive); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update channel status", err)
	}

	return utils.SuccessResponse(c, "Channel status updated successfully", fiber.Map{
		"id":        id,
		"is_active": req.IsActive,
	})
}
