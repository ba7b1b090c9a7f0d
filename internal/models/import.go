package models

import "time"

// ImportRow is one decoded spreadsheet row: header text -> raw cell value.
// Blank cells are absent from Values, not empty strings. Num is the 1-based
// spreadsheet row (the header is row 1), kept for diagnostics.
type ImportRow struct {
	Num    int               `json:"row"`
	Values map[string]string `json:"values"`
}

// Value returns the cell under the given header, or "" when absent.
func (r ImportRow) Value(column string) string {
	return r.Values[column]
}

// ValidationError describes one failed rule for one row. Data carries a copy
// of the offending row so callers can debug and resubmit.
type ValidationError struct {
	Row   int               `json:"row"`
	Field string            `json:"field"`
	Error string            `json:"error"`
	Data  map[string]string `json:"data"`
}

// CreatedAgent is the per-row success summary returned to the caller.
type CreatedAgent struct {
	AgentCode string `json:"agentCode"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	UserID    int    `json:"userId"`
	Status    string `json:"status"`
}

// ImportResult aggregates one import run. It is a response payload, never
// persisted; successCount + failureCount == totalProcessed always holds.
type ImportResult struct {
	TotalProcessed int               `json:"totalProcessed"`
	SuccessCount   int               `json:"successCount"`
	FailureCount   int               `json:"failureCount"`
	BatchSize      int               `json:"batchSize"`
	Errors         []ValidationError `json:"errors"`
	CreatedAgents  []CreatedAgent    `json:"createdAgents"`
}

// Import job statuses (async mode).
const (
	ImportJobPending    = "pending"
	ImportJobProcessing = "processing"
	ImportJobCompleted  = "completed"
	ImportJobFailed     = "failed"
)

// ImportJob tracks one queued import run for the async mode.
type ImportJob struct {
	ID              int       `db:"id" json:"id"`
	JobCode         string    `db:"job_code" json:"job_code"`
	UserID          int       `db:"user_id" json:"user_id"`
	ProjectID       int       `db:"project_id" json:"project_id"`
	Filename        string    `db:"filename" json:"filename"`
	FilePath        string    `db:"file_path" json:"-"`
	BatchSize       int       `db:"batch_size" json:"batch_size"`
	TotalProcessed  int       `db:"total_processed" json:"total_processed"`
	SuccessCount    int       `db:"success_count" json:"success_count"`
	FailureCount    int       `db:"failure_count" json:"failure_count"`
	Status          string    `db:"status" json:"status"`
	ErrorsJSON      string    `db:"errors_json" json:"-"`
	ErrorMessage    string    `db:"error_message" json:"error_message,omitempty"`
	ErrorReportPath string    `db:"error_report_path" json:"error_report_path,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}
