package models

import "time"

// Designation is channel-scoped: the same title under two channels is two
// distinct designation rows.
type Designation struct {
	ID              int       `db:"id" json:"id"`
	DesignationCode string    `db:"designation_code" json:"designation_code"`
	DesignationName string    `db:"designation_name" json:"designation_name"`
	ChannelID       int       `db:"channel_id" json:"channel_id"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

type DesignationRequest struct {
	DesignationCode string `json:"designation_code" validate:"required"`
	DesignationName string `json:"designation_name" validate:"required"`
	ChannelID       int    `json:"channel_id" validate:"required"`
	IsActive        bool   `json:"is_active"`
}
