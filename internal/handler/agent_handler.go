package handler

import (
	"database/sql"
	"strconv"
	"strings"

	"salesops-web/internal/models"
	"salesops-web/internal/repository"
	"salesops-web/internal/service"
	"salesops-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AgentHandler struct {
	agentRepo   *repository.AgentRepository
	projectRepo *repository.ProjectRepository
	codegen     *service.CodeGenerator
}

func NewAgentHandler(agentRepo *repository.AgentRepository, projectRepo *repository.ProjectRepository, codegen *service.CodeGenerator) *AgentHandler {
	return &AgentHandler{
		agentRepo:   agentRepo,
		projectRepo: projectRepo,
		codegen:     codegen,
	}
}

func (h *AgentHandler) GetAgents(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)
	projectID, _ := strconv.Atoi(c.Query("project_id", "0"))

	agents, total, err := h.agentRepo.FindAll(params.Limit, offset, params.Search, projectID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve agents", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	responseData := fiber.Map{
		"agents":     agents,
		"pagination": pagination,
	}

	return utils.PaginatedResponseBuilder(c, "Agents retrieved successfully", responseData, pagination)
}

func (h *AgentHandler) GetAgent(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid agent ID", err)
	}

	agent, err := h.agentRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Agent not found", err)
	}

	return utils.SuccessResponse(c, "Agent retrieved successfully", agent)
}

func (h *AgentHandler) CreateAgent(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	var req models.AgentRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.MobileNumber == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "First name, last name, email and mobile number are required", nil)
	}
	if req.ChannelID == 0 || req.DesignationID == 0 || req.ProjectID == 0 {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Channel, designation and project are required", nil)
	}

	project, err := h.projectRepo.FindByID(req.ProjectID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve project", err)
	}
	if project == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Project not found", nil)
	}

	if exists, err := h.agentRepo.EmailExists(req.Email); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check email", err)
	} else if exists {
		return utils.ErrorResponse(c, fiber.StatusConflict, "An agent with this email already exists", nil)
	}
	if exists, err := h.agentRepo.MobileExists(req.MobileNumber); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check mobile number", err)
	} else if exists {
		return utils.ErrorResponse(c, fiber.StatusConflict, "An agent with this mobile number already exists", nil)
	}

	code := strings.ToUpper(strings.TrimSpace(req.AgentCode))
	if code != "" {
		if exists, err := h.agentRepo.CodeExists(code); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check agent code", err)
		} else if exists {
			return utils.ErrorResponse(c, fiber.StatusConflict, "Agent code already exists", nil)
		}
	} else {
		code, err = h.codegen.Generate(project.ProjectName)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate agent code", err)
		}
	}

	status := strings.ToLower(req.Status)
	if status == "" {
		status = models.AgentStatusActive
	}
	if status != models.AgentStatusActive && status != models.AgentStatusInactive && status != models.AgentStatusSuspended {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Status must be one of active, inactive, suspended", nil)
	}

	agent := &models.Agent{
		AgentCode:     code,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		MobileNumber:  req.MobileNumber,
		ChannelID:     req.ChannelID,
		DesignationID: req.DesignationID,
		ProjectID:     req.ProjectID,
		Branch:        req.Branch,
		Status:        status,
		CreatedBy:     userID,
	}
	if req.ReportingManagerID != 0 {
		agent.ReportingManagerID = sql.NullInt64{Int64: req.ReportingManagerID, Valid: true}
	}

	if err := h.agentRepo.Create(agent); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create agent", err)
	}

	return utils.SuccessResponse(c, "Agent created successfully", agent)
}

func (h *AgentHandler) UpdateAgentStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid agent ID", err)
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	status := strings.ToLower(req.Status)
	if status != models.AgentStatusActive && status != models.AgentStatusInactive && status != models.AgentStatusSuspended {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Status must be one of active, inactive, suspended", nil)
	}

	if err := h.agentRepo.UpdateStatus(id, status); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update agent status", err)
	}

	return utils.SuccessResponse(c, "Agent status updated successfully", fiber.Map{
		"id":     id,
		"status": status,
	})
}
