package models

import "time"

type Channel struct {
	ID          int       `db:"id" json:"id"`
	ChannelCode string    `db:"channel_code" json:"channel_code"`
	ChannelName string    `db:"channel_name" json:"channel_name"`
	Description string    `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

type ChannelRequest struct {
	ChannelCode string `json:"channel_code" validate:"required"`
	ChannelName string `json:"channel_name" validate:"required"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}
