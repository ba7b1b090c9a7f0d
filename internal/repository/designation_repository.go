package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"salesops-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type DesignationRepository struct {
	db *sqlx.DB
}

func NewDesignationRepository(db *sqlx.DB) *DesignationRepository {
	return &DesignationRepository{db: db}
}

func (r *DesignationRepository) FindAll(limit, offset int, search string, channelID int) ([]models.Designation, int, error) {
	var designations []models.Designation
	var total int

	whereClause := "WHERE 1=1"
	args := []interface{}{}

	if search != "" {
		whereClause += " AND (designation_code LIKE ? OR designation_name LIKE ?)"
		searchPattern := "%" + search + "%"
		args = append(args, searchPattern, searchPattern)
	}
	if channelID > 0 {
		whereClause += " AND channel_id = ?"
		args = append(args, channelID)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM designations %s", whereClause)
	err := r.db.Get(&total, countQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id, designation_code, designation_name, channel_id, is_active, created_at, updated_at
		FROM designations %s
		ORDER BY designation_code
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	err = r.db.Select(&designations, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return designations, total, nil
}

func (r *DesignationRepository) FindByID(id int) (*models.Designation, error) {
	var designation models.Designation
	query := "SELECT * FROM designations WHERE id = ? LIMIT 1"
	err := r.db.Get(&designation, query, id)
	if err != nil {
		return nil, err
	}
	return &designation, nil
}

// FindByCodeOrName matches a designation by code or display name across all
// channels, case-insensitive. The caller checks channel scoping so a match
// under the wrong channel can be reported as a mismatch rather than not found.
// Returns (nil, nil) when nothing matches.
func (r *DesignationRepository) FindByCodeOrName(ref string) (*models.Designation, error) {
	var designation models.Designation
	query := `SELECT * FROM designations
	          WHERE LOWER(designation_code) = LOWER(?) OR LOWER(designation_name) = LOWER(?)
	          LIMIT 1`
	err := r.db.Get(&designation, query, ref, ref)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &designation, nil
}

func (r *DesignationRepository) Create(designation *models.Designation) error {
	query := `INSERT INTO designations (designation_code, designation_name, channel_id, is_active)
	          VALUES (:designation_code, :designation_name, :channel_id, :is_active)`
	result, err := r.db.NamedExec(query, designation)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	designation.ID = int(id)
	return nil
}

func (r *DesignationRepository) Update(designation *models.Designation) error {
	query := `UPDATE designations SET designation_code = :designation_code,
	          designation_name = :designation_name, channel_id = :channel_id, is_active = :is_active
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, designation)
	return err
}

func (r *DesignationRepository) UpdateStatus(id int, isActive bool) error {
	query := "UPDATE designations SET is_active = ? WHERE id = ?"
	_, err := r.db.Exec(query, isActive, id)
	return err
}
