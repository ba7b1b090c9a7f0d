package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"salesops-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type AgentRepository struct {
	db *sqlx.DB
}

func NewAgentRepository(db *sqlx.DB) *AgentRepository {
	return &AgentRepository{db: db}
}

func (r *AgentRepository) FindAll(limit, offset int, search string, projectID int) ([]models.Agent, int, error) {
	var agents []models.Agent
	var total int

	whereClause := "WHERE 1=1"
	args := []interface{}{}

	if search != "" {
		whereClause += " AND (agent_code LIKE ? OR email LIKE ? OR first_name LIKE ? OR last_name LIKE ?)"
		searchPattern := "%" + search + "%"
		args = append(args, searchPattern, searchPattern, searchPattern, searchPattern)
	}
	if projectID > 0 {
		whereClause += " AND project_id = ?"
		args = append(args, projectID)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM agents %s", whereClause)
	err := r.db.Get(&total, countQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id,
		       agent_code,
		       first_name,
		       last_name,
		       email,
		       mobile_number,
		       channel_id,
		       designation_id,
		       project_id,
		       reporting_manager_id,
		       COALESCE(branch, '') as branch,
		       appointment_date,
		       COALESCE(ca_number, '') as ca_number,
		       COALESCE(province, '') as province,
		       COALESCE(city, '') as city,
		       COALESCE(pin_code, '') as pin_code,
		       COALESCE(tin, '') as tin,
		       status,
		       created_by,
		       created_at,
		       updated_at
		FROM agents %s
		ORDER BY agent_code
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	err = r.db.Select(&agents, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return agents, total, nil
}

func (r *AgentRepository) FindByID(id int64) (*models.Agent, error) {
	var agent models.Agent
	query := "SELECT * FROM agents WHERE id = ? LIMIT 1"
	err := r.db.Get(&agent, query, id)
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

// FindByCode returns (nil, nil) when no agent carries the code.
func (r *AgentRepository) FindByCode(code string) (*models.Agent, error) {
	var agent models.Agent
	query := "SELECT * FROM agents WHERE agent_code = ? LIMIT 1"
	err := r.db.Get(&agent, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *AgentRepository) EmailExists(email string) (bool, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM agents WHERE LOWER(email) = LOWER(?)", email)
	return count > 0, err
}

func (r *AgentRepository) MobileExists(mobile string) (bool, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM agents WHERE mobile_number = ?", mobile)
	return count > 0, err
}

func (r *AgentRepository) CodeExists(code string) (bool, error) {
	var count int
	err := r.db.Get(&count, "SELECT COUNT(*) FROM agents WHERE agent_code = ?", code)
	return count > 0, err
}

func (r *AgentRepository) Create(agent *models.Agent) error {
	query := `INSERT INTO agents (agent_code, first_name, last_name, email, mobile_number,
	          channel_id, designation_id, project_id, reporting_manager_id, branch,
	          appointment_date, ca_number, province, city, pin_code, tin, status, created_by)
	          VALUES (:agent_code, :first_name, :last_name, :email, :mobile_number,
	          :channel_id, :designation_id, :project_id, :reporting_manager_id, :branch,
	          :appointment_date, :ca_number, :province, :city, :pin_code, :tin, :status, :created_by)`
	result, err := r.db.NamedExec(query, agent)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	agent.ID = id
	return nil
}

func (r *AgentRepository) UpdateStatus(id int64, status string) error {
	query := "UPDATE agents SET status = ? WHERE id = ?"
	_, err := r.db.Exec(query, status, id)
	return err
}

// MaxSequenceForPrefix scans persisted agent codes matching ^PREFIX\d+$ and
// returns the highest numeric suffix, 0 when none exist. This read is racy on
// its own; callers serialize through a SequenceAllocator.
func (r *AgentRepository) MaxSequenceForPrefix(prefix string) (int, error) {
	var max int
	query := `SELECT COALESCE(MAX(CAST(SUBSTRING(agent_code, ?) AS UNSIGNED)), 0)
	          FROM agents
	          WHERE agent_code REGEXP ?`
	err := r.db.Get(&max, query, len(prefix)+1, "^"+prefix+"[0-9]+$")
	return max, err
}
