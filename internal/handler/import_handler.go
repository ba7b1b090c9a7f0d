package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"salesops-web/internal/config"
	"salesops-web/internal/models"
	"salesops-web/internal/repository"
	"salesops-web/internal/service"
	"salesops-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// TaskAgentImport is the asynq task type for queued imports.
const TaskAgentImport = "agent:import"

type ImportHandler struct {
	importService *service.AgentImportService
	excelService  *service.ExcelService
	jobRepo       *repository.ImportJobRepository
	asynqClient   *asynq.Client
	cfg           *config.Config
}

func NewImportHandler(
	importService *service.AgentImportService,
	excelService *service.ExcelService,
	jobRepo *repository.ImportJobRepository,
	asynqClient *asynq.Client,
	cfg *config.Config,
) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		excelService:  excelService,
		jobRepo:       jobRepo,
		asynqClient:   asynqClient,
		cfg:           cfg,
	}
}

type importForm struct {
	file      *multipart.FileHeader
	projectID int
	batchSize int
}

// parseImportForm validates the multipart upload: file (.xlsx/.xls, size
// capped), required projectId, optional batchSize in [1, max].
func (h *ImportHandler) parseImportForm(c *fiber.Ctx) (*importForm, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("file is required")
	}

	ext := filepath.Ext(file.Filename)
	if ext != ".xlsx" && ext != ".xls" {
		return nil, errors.New("only Excel files (.xlsx, .xls) are allowed")
	}
	if file.Size > int64(h.cfg.UploadMaxSize) {
		return nil, fmt.Errorf("file size exceeds maximum of %d bytes", h.cfg.UploadMaxSize)
	}

	projectID, err := strconv.Atoi(c.FormValue("projectId"))
	if err != nil || projectID <= 0 {
		return nil, errors.New("projectId is required")
	}

	batchSize := h.cfg.ImportBatchSize
	if raw := c.FormValue("batchSize"); raw != "" {
		batchSize, err = strconv.Atoi(raw)
		if err != nil || batchSize < 1 || batchSize > h.cfg.ImportMaxBatchSize {
			return nil, fmt.Errorf("batchSize must be between 1 and %d", h.cfg.ImportMaxBatchSize)
		}
	}

	return &importForm{file: file, projectID: projectID, batchSize: batchSize}, nil
}

// ImportAgents runs the import synchronously and returns the full result.
// Committed batches stay committed if the caller disconnects; resubmission is
// idempotent per row through the uniqueness checks.
func (h *ImportHandler) ImportAgents(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	form, err := h.parseImportForm(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	tempPath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("import_%d%s", time.Now().UnixNano(), filepath.Ext(form.file.Filename)))
	if err := c.SaveFile(form.file, tempPath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}
	defer os.Remove(tempPath)

	rows, err := h.excelService.ParseAgentRowsFile(tempPath)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to parse Excel file", err)
	}

	result, err := h.importService.Run(form.projectID, rows, form.batchSize, userID)
	if err != nil {
		if errors.Is(err, service.ErrProjectNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Project not found", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Import failed", err)
	}

	return c.JSON(result)
}

// ImportAgentsAsync queues the import for the worker and returns the job.
func (h *ImportHandler) ImportAgentsAsync(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)

	if h.asynqClient == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background job processing is not available (Redis not connected)", nil)
	}

	form, err := h.parseImportForm(c)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	jobCode := fmt.Sprintf("IMP-%s", uuid.New().String()[:8])
	ext := filepath.Ext(form.file.Filename)
	filePath := filepath.Join(h.cfg.UploadPath, fmt.Sprintf("%s%s", jobCode, ext))
	if err := c.SaveFile(form.file, filePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}

	job := &models.ImportJob{
		JobCode:   jobCode,
		UserID:    userID,
		ProjectID: form.projectID,
		Filename:  form.file.Filename,
		FilePath:  filePath,
		BatchSize: form.batchSize,
		Status:    models.ImportJobPending,
	}
	if err := h.jobRepo.Create(job); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create import job", err)
	}

	payload, _ := json.Marshal(fiber.Map{"job_id": job.ID})
	task := asynq.NewTask(TaskAgentImport, payload)
	info, err := h.asynqClient.Enqueue(task)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue import task", err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": "Import queued",
		"data": fiber.Map{
			"task_id": info.ID,
			"job":     job,
		},
	})
}

func (h *ImportHandler) GetImportJobs(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)
	role := c.Locals("role").(string)

	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	// Admin sees all jobs, user only their own
	filterUserID := 0
	if role != "admin" {
		filterUserID = userID
	}

	jobs, total, err := h.jobRepo.FindAll(params.Limit, offset, filterUserID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve import jobs", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, int64(total))

	responseData := fiber.Map{
		"jobs":       jobs,
		"pagination": pagination,
	}

	return utils.PaginatedResponseBuilder(c, "Import jobs retrieved successfully", responseData, pagination)
}

func (h *ImportHandler) GetImportJob(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid job ID", err)
	}

	job, err := h.jobRepo.FindByID(id)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Import job not found", err)
	}

	data := fiber.Map{"job": job}
	if job.ErrorsJSON != "" {
		var verrs []models.ValidationError
		if err := json.Unmarshal([]byte(job.ErrorsJSON), &verrs); err == nil {
			data["errors"] = verrs
		}
	}

	return utils.SuccessResponse(c, "Import job retrieved successfully", data)
}

func (h *ImportHandler) DownloadTemplate(c *fiber.Ctx) error {
	templateFileName := "agent_import_template.xlsx"
	templatePath := filepath.Join(h.cfg.ExportPath, templateFileName)

	if err := h.excelService.GenerateAgentTemplate(templatePath); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
	}

	return c.Download(templatePath, templateFileName)
}

// DownloadErrorReport downloads an error report file generated by the worker
func (h *ImportHandler) DownloadErrorReport(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if filename == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Filename is required", nil)
	}

	if !isValidReportFilename(filename) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filename", nil)
	}

	filePath := filepath.Join(h.cfg.ExportPath, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Error report file not found", err)
	}

	return c.Download(filePath, filename)
}

// isValidReportFilename validates filename to prevent directory traversal
func isValidReportFilename(filename string) bool {
	if len(filename) == 0 || len(filename) > 255 {
		return false
	}

	dangerousChars := []string{"..", "/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	for _, char := range dangerousChars {
		if strings.Contains(filename, char) {
			return false
		}
	}

	return strings.HasPrefix(filename, "import_errors_") && strings.HasSuffix(filename, ".xlsx")
}
