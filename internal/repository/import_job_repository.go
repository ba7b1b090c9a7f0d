package repository

import (
	"fmt"

	"salesops-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type ImportJobRepository struct {
	db *sqlx.DB
}

func NewImportJobRepository(db *sqlx.DB) *ImportJobRepository {
	return &ImportJobRepository{db: db}
}

func (r *ImportJobRepository) Create(job *models.ImportJob) error {
	query := `INSERT INTO import_jobs (job_code, user_id, project_id, filename, file_path,
	          batch_size, status)
	          VALUES (:job_code, :user_id, :project_id, :filename, :file_path, :batch_size, :status)`
	result, err := r.db.NamedExec(query, job)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	job.ID = int(id)
	return nil
}

func (r *ImportJobRepository) FindByID(id int) (*models.ImportJob, error) {
	var job models.ImportJob
	query := `
		SELECT id, job_code, user_id, project_id, filename, file_path, batch_size,
		       total_processed, success_count, failure_count, status,
		       COALESCE(errors_json, '') as errors_json,
		       COALESCE(error_message, '') as error_message,
		       COALESCE(error_report_path, '') as error_report_path,
		       created_at, updated_at
		FROM import_jobs
		WHERE id = ?
		LIMIT 1`
	err := r.db.Get(&job, query, id)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *ImportJobRepository) FindAll(limit, offset int, userID int) ([]models.ImportJob, int, error) {
	var jobs []models.ImportJob
	var total int

	whereClause := ""
	args := []interface{}{}
	if userID > 0 {
		whereClause = "WHERE user_id = ?"
		args = append(args, userID)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM import_jobs %s", whereClause)
	err := r.db.Get(&total, countQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, job_code, user_id, project_id, filename, file_path, batch_size,
		       total_processed, success_count, failure_count, status,
		       COALESCE(errors_json, '') as errors_json,
		       COALESCE(error_message, '') as error_message,
		       COALESCE(error_report_path, '') as error_report_path,
		       created_at, updated_at
		FROM import_jobs %s
		ORDER BY id DESC
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	err = r.db.Select(&jobs, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return jobs, total, nil
}

func (r *ImportJobRepository) UpdateStatus(id int, status string) error {
	query := "UPDATE import_jobs SET status = ? WHERE id = ?"
	_, err := r.db.Exec(query, status, id)
	return err
}

// Complete records the outcome of a finished run on the job row.
func (r *ImportJobRepository) Complete(job *models.ImportJob) error {
	query := `UPDATE import_jobs SET status = :status, total_processed = :total_processed,
	          success_count = :success_count, failure_count = :failure_count,
	          errors_json = :errors_json, error_message = :error_message,
	          error_report_path = :error_report_path
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, job)
	return err
}
