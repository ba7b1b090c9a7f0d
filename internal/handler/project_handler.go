package handler

import (
	"strconv"

	"salesops-web/internal/models"
	"salesops-web/internal/repository"
	"salesops-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ProjectHandler struct {
	projectRepo *repository.ProjectRepository
}

func NewProjectHandler(projectRepo *repository.ProjectRepository) *ProjectHandler {
	return &ProjectHandler{projectRepo: projectRepo}
}

func (h *ProjectHandler) GetProjects(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	projects, total, err := h.projectRepo.FindAll(params.Limit, offset, params.Search)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve projects", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	responseData := fiber.Map{
		"projects":   projects,
		"pagination": pagination,
	}

	return utils.PaginatedResponseBuilder(c, "Projects retrieved successfully", responseData, pagination)
}

func (h *ProjectHandler) GetProject(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid project ID", err)
	}

	project, err := h.projectRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve project", err)
	}
	if project == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
	}

	return utils.SuccessResponse(c, "Project retrieved successfully", project)
}

func (h *ProjectHandler) CreateProject(c *fiber.Ctx) error {
	var req models.ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.ProjectName == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Project name is required", nil)
	}

	project := &models.Project{
		ProjectName: req.ProjectName,
		Description: req.Description,
		IsActive:    true,
	}

	if err := h.projectRepo.Create(project); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create project", err)
	}

	return utils.SuccessResponse(c, "Project created successfully", project)
}

func (h *ProjectHandler) UpdateProject(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid project ID", err)
	}

	var req models.ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if req.ProjectName == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Project name is required", nil)
	}

	project, err := h.projectRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve project", err)
	}
	if project == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", nil)
	}

	project.ProjectName = req.ProjectName
	project.Description = req.Description
	project.IsActive = req.IsActive

	if err := h.projectRepo.Update(project); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update project", err)
	}

	return utils.SuccessResponse(c, "Project updated successfully", project)
}

func (h *ProjectHandler) UpdateProjectStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid project ID", err)
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if err := h.projectRepo.UpdateStatus(id, req.IsActive); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update project status", err)
	}

	return utils.SuccessResponse(c, "Project status updated successfully", fiber.Map{
		"id":        id,
		"is_active": req.IsActive,
	})
}
