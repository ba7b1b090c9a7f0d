package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"salesops-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type ProjectRepository struct {
	db *sqlx.DB
}

func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) FindAll(limit, offset int, search string) ([]models.Project, int, error) {
	var projects []models.Project
	var total int

	whereClause := ""
	args := []interface{}{}

	if search != "" {
		whereClause = "WHERE project_name LIKE ?"
		args = append(args, "%"+search+"%")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM projects %s", whereClause)
	err := r.db.Get(&total, countQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id,
		       project_name,
		       COALESCE(description, '') as description,
		       is_active,
		       created_at,
		       updated_at
		FROM projects %s
		ORDER BY project_name
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	err = r.db.Select(&projects, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// FindByID returns (nil, nil) when the project does not exist, so the import
// pipeline can distinguish a missing project from a failed query.
func (r *ProjectRepository) FindByID(id int) (*models.Project, error) {
	var project models.Project
	query := "SELECT * FROM projects WHERE id = ? LIMIT 1"
	err := r.db.Get(&project, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) Create(project *models.Project) error {
	query := `INSERT INTO projects (project_name, description, is_active)
	          VALUES (:project_name, :description, :is_active)`
	result, err := r.db.NamedExec(query, project)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	project.ID = int(id)
	return nil
}

func (r *ProjectRepository) Update(project *models.Project) error {
	query := `UPDATE projects SET project_name = :project_name, description = :description,
	          is_active = :is_active WHERE id = :id`
	_, err := r.db.NamedExec(query, project)
	return err
}

func (r *ProjectRepository) UpdateStatus(id int, isActive bool) error {
	query := "UPDATE projects SET is_active = ? WHERE id = ?"
	_, err := r.db.Exec(query, isActive, id)
	return err
}
