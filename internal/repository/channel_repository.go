package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"salesops-web/internal/models"

	"github.com/jmoiron/sqlx"
)

type ChannelRepository struct {
	db *sqlx.DB
}

func NewChannelRepository(db *sqlx.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

func (r *ChannelRepository) FindAll(limit, offset int, search string) ([]models.Channel, int, error) {
	var channels []models.Channel
	var total int

	whereClause := ""
	args := []interface{}{}

	if search != "" {
		whereClause = "WHERE channel_code LIKE ? OR channel_name LIKE ?"
		searchPattern := "%" + search + "%"
		args = append(args, searchPattern, searchPattern)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM channels %s", whereClause)
	err := r.db.Get(&total, countQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT id,
		       channel_code,
		       channel_name,
		       COALESCE(description, '') as description,
		       is_active,
		       created_at,
		       updated_at
		FROM channels %s
		ORDER BY channel_code
		LIMIT ? OFFSET ?`, whereClause)
	args = append(args, limit, offset)
	err = r.db.Select(&channels, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return channels, total, nil
}

func (r *ChannelRepository) FindByID(id int) (*models.Channel, error) {
	var channel models.Channel
	query := "SELECT * FROM channels WHERE id = ? LIMIT 1"
	err := r.db.Get(&channel, query, id)
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

// FindByCodeOrName matches a channel by code or display name,
// case-insensitive. Returns (nil, nil) when nothing matches.
func (r *ChannelRepository) FindByCodeOrName(ref string) (*models.Channel, error) {
	var channel models.Channel
	query := `SELECT * FROM channels
	          WHERE LOWER(channel_code) = LOWER(?) OR LOWER(channel_name) = LOWER(?)
	          LIMIT 1`
	err := r.db.Get(&channel, query, ref, ref)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &channel, nil
}

func (r *ChannelRepository) Create(channel *models.Channel) error {
	query := `INSERT INTO channels (channel_code, channel_name, description, is_active)
	          VALUES (:channel_code, :channel_name, :description, :is_active)`
	result, err := r.db.NamedExec(query, channel)
	if err != nil {
		return err
	}
	id, _ := result.LastInsertId()
	channel.ID = int(id)
	return nil
}

func (r *ChannelRepository) Update(channel *models.Channel) error {
	query := `UPDATE channels SET channel_code = :channel_code, channel_name = :channel_name,
	          description = :description, is_active = :is_active
	          WHERE id = :id`
	_, err := r.db.NamedExec(query, channel)
	return err
}

func (r *ChannelRepository) UpdateStatus(id int, isActive bool) error {
	query := "UPDATE channels SET is_active = ? WHERE id = ?"
	_, err := r.db.Exec(query, isActive, id)
	return err
}
