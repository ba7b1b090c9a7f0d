package service

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"salesops-web/internal/models"

	"github.com/sirupsen/logrus"
)

// Spreadsheet column headers, matched exactly.
const (
	ColFirstName        = "Agent First Name"
	ColLastName         = "Agent Last Name"
	ColEmail            = "Email"
	ColMobile           = "Mobile Number"
	ColChannel          = "Channel"
	ColDesignation      = "Designation"
	ColAgentCode        = "Agent Code"
	ColBranch           = "Branch"
	ColAppointmentDate  = "Appointment Date"
	ColCANumber         = "CA Number"
	ColProvince         = "Province"
	ColCity             = "City"
	ColPinCode          = "Pin Code"
	ColStatus           = "Status"
	ColReportingManager = "Reporting Manager ID"
	ColTIN              = "TIN"
)

const (
	DefaultBatchSize = 100
	MaxBatchSize     = 500
)

// ErrProjectNotFound aborts an import run before any row is processed: no
// agent can be created without a valid owning project.
var ErrProjectNotFound = errors.New("project not found")

var requiredColumns = []string{
	ColFirstName, ColLastName, ColEmail, ColMobile, ColChannel, ColDesignation,
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Mobile numbers are accepted in loose international form: optional leading
// +, 10 to 15 digits.
var mobilePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

var validStatuses = map[string]bool{
	models.AgentStatusActive:    true,
	models.AgentStatusInactive:  true,
	models.AgentStatusSuspended: true,
}

// ChannelLookup resolves a channel reference (code or name); (nil, nil) when
// not found.
type ChannelLookup interface {
	FindByCodeOrName(ref string) (*models.Channel, error)
}

// DesignationLookup resolves a designation reference (code or name) across
// all channels; (nil, nil) when not found.
type DesignationLookup interface {
	FindByCodeOrName(ref string) (*models.Designation, error)
}

// ProjectLookup resolves the owning project; (nil, nil) when not found.
type ProjectLookup interface {
	FindByID(id int) (*models.Project, error)
}

// AgentStore is the agent persistence surface the pipeline needs.
type AgentStore interface {
	FindByCode(code string) (*models.Agent, error)
	EmailExists(email string) (bool, error)
	MobileExists(mobile string) (bool, error)
	CodeExists(code string) (bool, error)
	Create(agent *models.Agent) error
}

// AgentImportService drives the bulk agent import pipeline: decode happens
// upstream (ExcelService); this service validates, resolves references,
// generates codes, creates agents, and aggregates per-row outcomes.
type AgentImportService struct {
	channels     ChannelLookup
	designations DesignationLookup
	projects     ProjectLookup
	agents       AgentStore
	codegen      *CodeGenerator
	log          *logrus.Logger
}

func NewAgentImportService(
	channels ChannelLookup,
	designations DesignationLookup,
	projects ProjectLookup,
	agents AgentStore,
	codegen *CodeGenerator,
	log *logrus.Logger,
) *AgentImportService {
	return &AgentImportService{
		channels:     channels,
		designations: designations,
		projects:     projects,
		agents:       agents,
		codegen:      codegen,
		log:          log,
	}
}

// referenceContext holds the resolved references for one row. Built fresh per
// row so resolution failures stay attributable to that row.
type referenceContext struct {
	channel     *models.Channel
	designation *models.Designation
	manager     *models.Agent
	appointment sql.NullTime
	status      string
}

// Run imports the decoded rows into the given project. Rows are processed in
// sequential batches so each batch's repository effects are visible to the
// next batch's uniqueness checks. A row failure never aborts sibling rows;
// only a missing project aborts the whole run.
func (s *AgentImportService) Run(projectID int, rows []models.ImportRow, batchSize, createdBy int) (*models.ImportResult, error) {
	project, err := s.projects.FindByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("resolve project %d: %w", projectID, err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: id %d", ErrProjectNotFound, projectID)
	}

	if batchSize < 1 || batchSize > MaxBatchSize {
		batchSize = DefaultBatchSize
	}

	result := &models.ImportResult{
		BatchSize:     batchSize,
		Errors:        []models.ValidationError{},
		CreatedAgents: []models.CreatedAgent{},
	}

	for start := 0; start < len(rows); start += batchSize {
		end := start + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		for _, row := range rows[start:end] {
			s.processRow(project, row, createdBy, result)
		}

		s.log.WithFields(logrus.Fields{
			"project_id": projectID,
			"processed":  result.TotalProcessed,
			"success":    result.SuccessCount,
			"failed":     result.FailureCount,
		}).Debug("import batch completed")
	}

	return result, nil
}

func (s *AgentImportService) processRow(project *models.Project, row models.ImportRow, createdBy int, result *models.ImportResult) {
	result.TotalProcessed++

	rowErrors, refs, err := s.validateRow(row)
	if err != nil {
		// Unexpected lookup failure: skip the row, never abort the batch.
		s.log.WithError(err).WithField("row", row.Num).Warn("agent import row failed unexpectedly")
		result.Errors = append(result.Errors, models.ValidationError{
			Row:   row.Num,
			Field: "row",
			Error: err.Error(),
			Data:  row.Values,
		})
		result.FailureCount++
		return
	}
	if len(rowErrors) > 0 {
		result.Errors = append(result.Errors, rowErrors...)
		result.FailureCount++
		return
	}

	agent, err := s.createAgent(project, row, refs, createdBy)
	if err != nil {
		s.log.WithError(err).WithField("row", row.Num).Warn("agent creation failed")
		result.Errors = append(result.Errors, models.ValidationError{
			Row:   row.Num,
			Field: "row",
			Error: err.Error(),
			Data:  row.Values,
		})
		result.FailureCount++
		return
	}

	result.CreatedAgents = append(result.CreatedAgents, models.CreatedAgent{
		AgentCode: agent.AgentCode,
		Email:     agent.Email,
		Name:      agent.FullName(),
		UserID:    agent.CreatedBy,
		Status:    agent.Status,
	})
	result.SuccessCount++
}

// validateRow applies the row rules in order. Required-field failures return
// immediately; every later rule contributes independently. A non-nil error
// means a lookup failed unexpectedly, not that the row is invalid.
func (s *AgentImportService) validateRow(row models.ImportRow) ([]models.ValidationError, *referenceContext, error) {
	var rowErrors []models.ValidationError

	fail := func(field, message string) {
		rowErrors = append(rowErrors, models.ValidationError{
			Row:   row.Num,
			Field: field,
			Error: message,
			Data:  row.Values,
		})
	}

	// 1. Required fields gate everything else: no point resolving
	// references for absent data.
	for _, col := range requiredColumns {
		if strings.TrimSpace(row.Value(col)) == "" {
			fail(col, col+" is required")
		}
	}
	if len(rowErrors) > 0 {
		return rowErrors, nil, nil
	}

	email := strings.TrimSpace(row.Value(ColEmail))
	mobile := strings.TrimSpace(row.Value(ColMobile))

	// 2. Email format
	if !emailPattern.MatchString(email) {
		fail(ColEmail, fmt.Sprintf("invalid email format: %s", email))
	}

	// 3. Mobile format
	if !mobilePattern.MatchString(mobile) {
		fail(ColMobile, fmt.Sprintf("invalid mobile number: %s (expected 10-15 digits, optional leading +)", mobile))
	}

	// 4. Uniqueness against persisted agents
	if exists, err := s.agents.EmailExists(email); err != nil {
		return nil, nil, fmt.Errorf("check email uniqueness: %w", err)
	} else if exists {
		fail(ColEmail, fmt.Sprintf("an agent with email %s already exists", email))
	}
	if exists, err := s.agents.MobileExists(mobile); err != nil {
		return nil, nil, fmt.Errorf("check mobile uniqueness: %w", err)
	} else if exists {
		fail(ColMobile, fmt.Sprintf("an agent with mobile number %s already exists", mobile))
	}
	if code := strings.TrimSpace(row.Value(ColAgentCode)); code != "" {
		if exists, err := s.agents.CodeExists(strings.ToUpper(code)); err != nil {
			return nil, nil, fmt.Errorf("check agent code uniqueness: %w", err)
		} else if exists {
			fail(ColAgentCode, fmt.Sprintf("agent code %s already exists", strings.ToUpper(code)))
		}
	}

	refs := &referenceContext{status: models.AgentStatusActive}

	// 5. Referential validity
	channelRef := strings.TrimSpace(row.Value(ColChannel))
	channel, err := s.channels.FindByCodeOrName(channelRef)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve channel %q: %w", channelRef, err)
	}
	if channel == nil {
		fail(ColChannel, fmt.Sprintf("channel not found: %s", channelRef))
	}
	refs.channel = channel

	designationRef := strings.TrimSpace(row.Value(ColDesignation))
	designation, err := s.designations.FindByCodeOrName(designationRef)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve designation %q: %w", designationRef, err)
	}
	switch {
	case designation == nil:
		fail(ColDesignation, fmt.Sprintf("designation not found: %s", designationRef))
	case channel != nil && designation.ChannelID != channel.ID:
		// Designations are channel-scoped; an existing designation under the
		// wrong channel is a mismatch, not a missing record.
		fail(ColDesignation, fmt.Sprintf("designation %s is not mapped to channel %s", designationRef, channelRef))
	}
	refs.designation = designation

	if managerRef := strings.TrimSpace(row.Value(ColReportingManager)); managerRef != "" {
		manager, err := s.agents.FindByCode(strings.ToUpper(managerRef))
		if err != nil {
			return nil, nil, fmt.Errorf("resolve reporting manager %q: %w", managerRef, err)
		}
		if manager == nil {
			fail(ColReportingManager, fmt.Sprintf("reporting manager not found: %s", managerRef))
		}
		refs.manager = manager
	}

	if status := strings.TrimSpace(row.Value(ColStatus)); status != "" {
		normalized := strings.ToLower(status)
		if !validStatuses[normalized] {
			fail(ColStatus, fmt.Sprintf("status must be one of active, inactive, suspended; got %s", status))
		} else {
			refs.status = normalized
		}
	}

	if dateStr := strings.TrimSpace(row.Value(ColAppointmentDate)); dateStr != "" {
		if t, err := parseDate(dateStr); err != nil {
			fail(ColAppointmentDate, fmt.Sprintf("invalid appointment date: %s", dateStr))
		} else {
			refs.appointment = sql.NullTime{Time: t, Valid: true}
		}
	}

	return rowErrors, refs, nil
}

func (s *AgentImportService) createAgent(project *models.Project, row models.ImportRow, refs *referenceContext, createdBy int) (*models.Agent, error) {
	code := strings.ToUpper(strings.TrimSpace(row.Value(ColAgentCode)))
	if code == "" {
		generated, err := s.codegen.Generate(project.ProjectName)
		if err != nil {
			return nil, fmt.Errorf("generate agent code: %w", err)
		}
		code = generated
	}

	agent := &models.Agent{
		AgentCode:       code,
		FirstName:       strings.TrimSpace(row.Value(ColFirstName)),
		LastName:        strings.TrimSpace(row.Value(ColLastName)),
		Email:           strings.TrimSpace(row.Value(ColEmail)),
		MobileNumber:    strings.TrimSpace(row.Value(ColMobile)),
		ChannelID:       refs.channel.ID,
		DesignationID:   refs.designation.ID,
		ProjectID:       project.ID,
		Branch:          strings.TrimSpace(row.Value(ColBranch)),
		AppointmentDate: refs.appointment,
		CANumber:        strings.TrimSpace(row.Value(ColCANumber)),
		Province:        strings.TrimSpace(row.Value(ColProvince)),
		City:            strings.TrimSpace(row.Value(ColCity)),
		PinCode:         strings.TrimSpace(row.Value(ColPinCode)),
		TIN:             strings.TrimSpace(row.Value(ColTIN)),
		Status:          refs.status,
		CreatedBy:       createdBy,
	}
	if refs.manager != nil {
		agent.ReportingManagerID = sql.NullInt64{Int64: refs.manager.ID, Valid: true}
	}

	if err := s.agents.Create(agent); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	return agent, nil
}
