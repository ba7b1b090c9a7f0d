package models

import "time"

type Project struct {
	ID          int       `db:"id" json:"id"`
	ProjectName string    `db:"project_name" json:"project_name"`
	Description string    `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type ProjectRequest struct {
	ProjectName string `json:"project_name" validate:"required"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}
