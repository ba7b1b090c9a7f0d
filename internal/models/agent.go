package models

import (
	"database/sql"
	"time"
)

// Agent statuses accepted on create and import.
const (
	AgentStatusActive    = "active"
	AgentStatusInactive  = "inactive"
	AgentStatusSuspended = "suspended"
)

type Agent struct {
	ID                 int64          `db:"id" json:"id"`
	AgentCode          string         `db:"agent_code" json:"agent_code"`
	FirstName          string         `db:"first_name" json:"first_name"`
	LastName           string         `db:"last_name" json:"last_name"`
	Email              string         `db:"email" json:"email"`
	MobileNumber       string         `db:"mobile_number" json:"mobile_number"`
	ChannelID          int            `db:"channel_id" json:"channel_id"`
	DesignationID      int            `db:"designation_id" json:"designation_id"`
	ProjectID          int            `db:"project_id" json:"project_id"`
	ReportingManagerID sql.NullInt64  `db:"reporting_manager_id" json:"reporting_manager_id"`
	Branch             string         `db:"branch" json:"branch"`
	AppointmentDate    sql.NullTime   `db:"appointment_date" json:"appointment_date"`
	CANumber           string         `db:"ca_number" json:"ca_number"`
	Province           string         `db:"province" json:"province"`
	City               string         `db:"city" json:"city"`
	PinCode            string         `db:"pin_code" json:"pin_code"`
	TIN                string         `db:"tin" json:"tin"`
	Status             string         `db:"status" json:"status"`
	CreatedBy          int            `db:"created_by" json:"created_by"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name for display.
func (a *Agent) FullName() string {
	return a.FirstName + " " + a.LastName
}

type AgentRequest struct {
	AgentCode          string `json:"agent_code"`
	FirstName          string `json:"first_name" validate:"required"`
	LastName           string `json:"last_name" validate:"required"`
	Email              string `json:"email" validate:"required,email"`
	MobileNumber       string `json:"mobile_number" validate:"required"`
	ChannelID          int    `json:"channel_id" validate:"required"`
	DesignationID      int    `json:"designation_id" validate:"required"`
	ProjectID          int    `json:"project_id" validate:"required"`
	ReportingManagerID int64  `json:"reporting_manager_id"`
	Branch             string `json:"branch"`
	Status             string `json:"status"`
}
