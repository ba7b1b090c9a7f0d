package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"salesops-web/internal/config"
	"salesops-web/internal/models"
	"salesops-web/internal/repository"
	"salesops-web/internal/service"
	"salesops-web/internal/utils"

	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

type ImportTaskHandler struct {
	db            *sqlx.DB
	redis         *redis.Client
	cfg           *config.Config
	jobRepo       *repository.ImportJobRepository
	excelService  *service.ExcelService
	importService *service.AgentImportService
}

func NewImportTaskHandler(db *sqlx.DB, redis *redis.Client, cfg *config.Config) *ImportTaskHandler {
	channelRepo := repository.NewChannelRepository(db)
	designationRepo := repository.NewDesignationRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	agentRepo := repository.NewAgentRepository(db)
	jobRepo := repository.NewImportJobRepository(db)

	codegen := service.NewCodeGenerator(service.NewSequenceAllocator(agentRepo))
	importService := service.NewAgentImportService(
		channelRepo, designationRepo, projectRepo, agentRepo, codegen, utils.GetLogger())

	return &ImportTaskHandler{
		db:            db,
		redis:         redis,
		cfg:           cfg,
		jobRepo:       jobRepo,
		excelService:  service.NewExcelService(),
		importService: importService,
	}
}

type ImportTaskPayload struct {
	JobID int `json:"job_id"`
}

func (h *ImportTaskHandler) Handle(ctx context.Context, task *asynq.Task) error {
	var payload ImportTaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	job, err := h.jobRepo.FindByID(payload.JobID)
	if err != nil {
		return fmt.Errorf("failed to get import job %d: %w", payload.JobID, err)
	}

	// Skip jobs that already ran
	if job.Status == models.ImportJobCompleted || job.Status == models.ImportJobFailed {
		log.Printf("Import job %s is already %s, skipping", job.JobCode, job.Status)
		return nil
	}

	log.Printf("Starting import job %s (ID: %d)", job.JobCode, job.ID)
	if err := h.jobRepo.UpdateStatus(job.ID, models.ImportJobProcessing); err != nil {
		return fmt.Errorf("failed to mark job processing: %w", err)
	}

	rows, err := h.excelService.ParseAgentRowsFile(job.FilePath)
	if err != nil {
		return h.failJob(job, err)
	}

	result, err := h.importService.Run(job.ProjectID, rows, job.BatchSize, job.UserID)
	if err != nil {
		return h.failJob(job, err)
	}

	job.Status = models.ImportJobCompleted
	job.TotalProcessed = result.TotalProcessed
	job.SuccessCount = result.SuccessCount
	job.FailureCount = result.FailureCount

	if len(result.Errors) > 0 {
		if errorsJSON, err := json.Marshal(result.Errors); err == nil {
			job.ErrorsJSON = string(errorsJSON)
		}

		// Best effort: a failed report never fails the job
		reportName := fmt.Sprintf("import_errors_%s.xlsx", time.Now().Format("20060102_150405"))
		reportPath := filepath.Join(h.cfg.ExportPath, reportName)
		if err := h.excelService.GenerateImportErrorReport(result, reportPath); err != nil {
			log.Printf("Warning: failed to generate error report for job %s: %v", job.JobCode, err)
		} else {
			job.ErrorReportPath = reportName
		}
	}

	if err := h.jobRepo.Complete(job); err != nil {
		return fmt.Errorf("failed to record job result: %w", err)
	}

	// Uploaded file is no longer needed
	if err := os.Remove(job.FilePath); err != nil {
		log.Printf("Warning: failed to remove upload %s: %v", job.FilePath, err)
	}

	log.Printf("Import job %s completed. Processed: %d, Success: %d, Failed: %d",
		job.JobCode, result.TotalProcessed, result.SuccessCount, result.FailureCount)

	return nil
}

func (h *ImportTaskHandler) failJob(job *models.ImportJob, cause error) error {
	log.Printf("Import job %s failed: %v", job.JobCode, cause)
	job.Status = models.ImportJobFailed
	job.ErrorMessage = cause.Error()
	if err := h.jobRepo.Complete(job); err != nil {
		log.Printf("Failed to update job status: %v", err)
	}
	return fmt.Errorf("import job %s: %w", job.JobCode, cause)
}
