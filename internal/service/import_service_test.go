package service

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"

	"salesops-web/internal/models"

	"github.com/sirupsen/logrus"
)

type fakeChannels struct {
	channels []*models.Channel
	calls    int
	errRef   string
}

func (f *fakeChannels) FindByCodeOrName(ref string) (*models.Channel, error) {
	f.calls++
	if f.errRef != "" && strings.EqualFold(ref, f.errRef) {
		return nil, errors.New("channel lookup: connection reset")
	}
	for _, ch := range f.channels {
		if strings.EqualFold(ch.ChannelCode, ref) || strings.EqualFold(ch.ChannelName, ref) {
			return ch, nil
		}
	}
	return nil, nil
}

type fakeDesignations struct {
	designations []*models.Designation
	calls        int
}

func (f *fakeDesignations) FindByCodeOrName(ref string) (*models.Designation, error) {
	f.calls++
	for _, d := range f.designations {
		if strings.EqualFold(d.DesignationCode, ref) || strings.EqualFold(d.DesignationName, ref) {
			return d, nil
		}
	}
	return nil, nil
}

type fakeProjects struct {
	projects map[int]*models.Project
}

func (f *fakeProjects) FindByID(id int) (*models.Project, error) {
	return f.projects[id], nil
}

type fakeAgents struct {
	agents    []*models.Agent
	nextID    int64
	createErr error
}

func (f *fakeAgents) FindByCode(code string) (*models.Agent, error) {
	for _, a := range f.agents {
		if a.AgentCode == code {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAgents) EmailExists(email string) (bool, error) {
	for _, a := range f.agents {
		if strings.EqualFold(a.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAgents) MobileExists(mobile string) (bool, error) {
	for _, a := range f.agents {
		if a.MobileNumber == mobile {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAgents) CodeExists(code string) (bool, error) {
	a, _ := f.FindByCode(code)
	return a != nil, nil
}

func (f *fakeAgents) Create(agent *models.Agent) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	agent.ID = f.nextID
	f.agents = append(f.agents, agent)
	return nil
}

func (f *fakeAgents) MaxSequenceForPrefix(prefix string) (int, error) {
	max := 0
	for _, a := range f.agents {
		if !strings.HasPrefix(a.AgentCode, prefix) {
			continue
		}
		seq, err := strconv.Atoi(a.AgentCode[len(prefix):])
		if err != nil {
			continue
		}
		if seq > max {
			max = seq
		}
	}
	return max, nil
}

type importFixture struct {
	channels     *fakeChannels
	designations *fakeDesignations
	projects     *fakeProjects
	agents       *fakeAgents
	svc          *AgentImportService
}

func newImportFixture() *importFixture {
	channels := &fakeChannels{channels: []*models.Channel{
		{ID: 1, ChannelCode: "BANCA", ChannelName: "Bancassurance"},
		{ID: 2, ChannelCode: "AGENCY", ChannelName: "Agency"},
	}}
	designations := &fakeDesignations{designations: []*models.Designation{
		{ID: 10, DesignationCode: "RM", DesignationName: "Relationship Manager", ChannelID: 1},
		{ID: 11, DesignationCode: "AL", DesignationName: "Agency Leader", ChannelID: 2},
	}}
	projects := &fakeProjects{projects: map[int]*models.Project{
		1: {ID: 1, ProjectName: "Metro Sales"},
	}}
	agents := &fakeAgents{}

	log := logrus.New()
	log.SetOutput(io.Discard)

	codegen := NewCodeGenerator(NewSequenceAllocator(agents))
	svc := NewAgentImportService(channels, designations, projects, agents, codegen, log)

	return &importFixture{
		channels:     channels,
		designations: designations,
		projects:     projects,
		agents:       agents,
		svc:          svc,
	}
}

// validRow builds a complete row at the given spreadsheet row number, with
// optional overrides. An override with an empty value removes the column, the
// way a blank cell is absent from a decoded row.
func validRow(num int, overrides map[string]string) models.ImportRow {
	values := map[string]string{
		ColFirstName:   "Maria",
		ColLastName:    "Santos",
		ColEmail:       fmt.Sprintf("agent%d@example.com", num),
		ColMobile:      fmt.Sprintf("+63917123%04d", num),
		ColChannel:     "BANCA",
		ColDesignation: "Relationship Manager",
	}
	for k, v := range overrides {
		if v == "" {
			delete(values, k)
		} else {
			values[k] = v
		}
	}
	return models.ImportRow{Num: num, Values: values}
}

func assertCountInvariant(t *testing.T, result *models.ImportResult) {
	t.Helper()
	if result.SuccessCount+result.FailureCount != result.TotalProcessed {
		t.Errorf("success %d + failure %d != total %d",
			result.SuccessCount, result.FailureCount, result.TotalProcessed)
	}
	if len(result.CreatedAgents) != result.SuccessCount {
		t.Errorf("createdAgents %d != successCount %d", len(result.CreatedAgents), result.SuccessCount)
	}
}

func TestImportRunSuccess(t *testing.T) {
	fx := newImportFixture()

	rows := []models.ImportRow{
		validRow(2, nil),
		validRow(3, map[string]string{ColChannel: "Agency", ColDesignation: "AL"}),
	}

	result, err := fx.svc.Run(1, rows, 0, 7)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertCountInvariant(t, result)

	if result.TotalProcessed != 2 || result.SuccessCount != 2 || result.FailureCount != 0 {
		t.Fatalf("counts = %d/%d/%d, want 2/2/0",
			result.TotalProcessed, result.SuccessCount, result.FailureCount)
	}
	if result.BatchSize != DefaultBatchSize {
		t.Errorf("batchSize = %d, want default %d", result.BatchSize, DefaultBatchSize)
	}

	// Codes are generated from the project name, in row order.
	if result.CreatedAgents[0].AgentCode != "MS00001" {
		t.Errorf("first code = %q, want MS00001", result.CreatedAgents[0].AgentCode)
	}
	if result.CreatedAgents[1].AgentCode != "MS00002" {
		t.Errorf("second code = %q, want MS00002", result.CreatedAgents[1].AgentCode)
	}
	if result.CreatedAgents[0].Name != "Maria Santos" {
		t.Errorf("name = %q, want Maria Santos", result.CreatedAgents[0].Name)
	}
	if result.CreatedAgents[0].UserID != 7 {
		t.Errorf("userId = %d, want 7", result.CreatedAgents[0].UserID)
	}
	if result.CreatedAgents[0].Status != models.AgentStatusActive {
		t.Errorf("status = %q, want active", result.CreatedAgents[0].Status)
	}

	// The persisted agent carries the resolved references.
	agent := fx.agents.agents[1]
	if agent.ChannelID != 2 || agent.DesignationID != 11 || agent.ProjectID != 1 {
		t.Errorf("resolved refs = channel %d, designation %d, project %d; want 2, 11, 1",
			agent.ChannelID, agent.DesignationID, agent.ProjectID)
	}
}

func TestImportRunProjectNotFound(t *testing.T) {
	fx := newImportFixture()

	_, err := fx.svc.Run(99, []models.ImportRow{validRow(2, nil)}, 0, 1)
	if !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("err = %v, want ErrProjectNotFound", err)
	}
}

func TestImportMissingRequiredFields(t *testing.T) {
	fx := newImportFixture()

	rows := []models.ImportRow{
		validRow(2, map[string]string{ColFirstName: "", ColEmail: ""}),
	}

	result, err := fx.svc.Run(1, rows, 0, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertCountInvariant(t, result)

	if result.FailureCount != 1 {
		t.Fatalf("failureCount = %d, want 1", result.FailureCount)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %+v", len(result.Errors), result.Errors)
	}

	fields := map[string]bool{}
	for _, e := range result.Errors {
		if e.Row != 2 {
			t.Errorf("error row = %d, want 2", e.Row)
		}
		fields[e.Field] = true
	}
	if !fields[ColFirstName] || !fields[ColEmail] {
		t.Errorf("error fields = %v, want %s and %s", fields, ColFirstName, ColEmail)
	}

	// Required-field failures short-circuit: no reference resolution runs.
	if fx.channels.calls != 0 || fx.designations.calls != 0 {
		t.Errorf("lookups ran despite missing required fields (channel %d, designation %d)",
			fx.channels.calls, fx.designations.calls)
	}
}

func TestImportInvalidFormats(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		wantField string
	}{
		{"bad email", map[string]string{ColEmail: "not-an-email"}, ColEmail},
		{"email missing tld", map[string]string{ColEmail: "user@host"}, ColEmail},
		{"mobile too short", map[string]string{ColMobile: "12345"}, ColMobile},
		{"mobile with letters", map[string]string{ColMobile: "98765abc43"}, ColMobile},
		{"mobile too long", map[string]string{ColMobile: "+1234567890123456"}, ColMobile},
		{"bad status", map[string]string{ColStatus: "retired"}, ColStatus},
		{"bad appointment date", map[string]string{ColAppointmentDate: "soon"}, ColAppointmentDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newImportFixture()
			result, err := fx.svc.Run(1, []models.ImportRow{validRow(2, tt.overrides)}, 0, 1)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			assertCountInvariant(t, result)

			if result.FailureCount != 1 {
				t.Fatalf("failureCount = %d, want 1", result.FailureCount)
			}
			found := false
			for _, e := range result.Errors {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %s: %+v", tt.wantField, result.Errors)
			}
		})
	}
}

func TestImportDuplicateEmailInFile(t *testing.T) {
	fx := newImportFixture()

	rows := []models.ImportRow{
		validRow(2, nil),
		validRow(3, map[string]string{ColEmail: "agent2@example.com"}),
	}

	result, err := fx.svc.Run(1, rows, 0, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertCountInvariant(t, result)

	if result.SuccessCount != 1 || result.FailureCount != 1 {
		t.Fatalf("counts = %d success, %d failure; want 1/1", result.SuccessCount, result.FailureCount)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(result.Errors))
	}
	e := result.Errors[0]
	if e.Row != 3 || e.Field != ColEmail {
		t.Errorf("error = row %d field %s, want row 3 field %s", e.Row, e.Field, ColEmail)
	}
	if !strings.Contains(e.Error, "already exists") {
		t.Errorf("error message = %q, want uniqueness message", e.Error)
	}
}

func TestImportDesignationChannelMismatch(t *testing.T) {
	fx := newImportFixture()

	// Agency Leader exists, but belongs to the Agency channel.
	rows := []models.ImportRow{
		validRow(2, map[string]string{ColChannel: "BANCA", ColDesignation: "Agency Leader"}),
	}

	result, err := fx.svc.Run(1, rows, 0, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %+v", len(result.Errors), result.Errors)
	}
	e := result.Errors[0]
	if e.Field != ColDesignation {
		t.Errorf("field = %s, want %s", e.Field, ColDesignation)
	}
	if !strings.Contains(e.Error, "not mapped to channel") {
		t.Errorf("message = %q, want channel mismatch, not a missing record", e.Error)
	}
}

func TestImportUnresolvedReferences(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		wantField string
		wantMsg   string
	}{
		{"unknown channel", map[string]string{ColChannel: "NOSUCH"}, ColChannel, "channel not found"},
		{"unknown designation", map[string]string{ColDesignation: "Wizard"}, ColDesignation, "designation not found"},
		{"unknown manager", map[string]string{ColReportingManager: "ZZ99999"}, ColReportingManager, "reporting manager not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newImportFixture()
			result, err := fx.svc.Run(1, []models.ImportRow{validRow(2, tt.overrides)}, 0, 1)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			if result.FailureCount != 1 {
				t.Fatalf("failureCount = %d, want 1", result.FailureCount)
			}
			e := result.Errors[0]
			if e.Field != tt.wantField || !strings.Contains(e.Error, tt.wantMsg) {
				t.Errorf("error = field %s message %q, want field %s containing %q",
					e.Field, e.Error, tt.wantField, tt.wantMsg)
			}
		})
	}
}

func TestImportReportingManagerResolved(t *testing.T) {
	fx := newImportFixture()
	fx.agents.agents = append(fx.agents.agents, &models.Agent{
		ID: 55, AgentCode: "MS00001", Email: "manager@example.com", MobileNumber: "+639170000001",
	})

	rows := []models.ImportRow{
		validRow(2, map[string]string{ColReportingManager: "ms00001"}),
	}

	result, err := fx.svc.Run(1, rows, 0, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.SuccessCount != 1 {
		t.Fatalf("successCount = %d, want 1: %+v", result.SuccessCount, result.Errors)
	}

	created := fx.agents.agents[len(fx.agents.agents)-1]
	if !created.ReportingManagerID.Valid || created.ReportingManagerID.Int64 != 55 {
		t.Errorf("reporting manager = %+v, want id 55", created.ReportingManagerID)
	}
	// The generated code continues after the manager's existing MS00001.
	if created.AgentCode != "MS00002" {
		t.Errorf("code = %q, want MS00002", created.AgentCode)
	}
}

func TestImportSuppliedAgentCode(t *testing.T) {
	fx := newImportFixture()

	rows := []models.ImportRow{
		validRow(2, map[string]string{ColAgentCode: "custom01"}),
		validRow(3, map[string]string{ColAgentCode: "CUSTOM01"}),
	}

	result, err := fx.svc.Run(1, rows, 0, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertCountInvariant(t, result)

	if result.SuccessCount != 1 || result.FailureCount != 1 {
		t.Fatalf("counts = %d/%d, want 1 success, 1 failure", result.SuccessCount, result.FailureCount)
	}
	if result.CreatedAgents[0].AgentCode != "CUSTOM01" {
		t.Errorf("code = %q, want upper-cased CUSTOM01", result.CreatedAgents[0].AgentCode)
	}
	if result.Errors[0].Field != ColAgentCode || result.Errors[0].Row != 3 {
		t.Errorf("duplicate code error = %+v, want row 3 field %s", result.Errors[0], ColAgentCode)
	}
}

func TestImportStatusNormalized(t *testing.T) {
	fx := newImportFixture()

	rows := []models.ImportRow{
		validRow(2, map[string]string{ColStatus: "Suspended"}),
	}

	result, err := fx.svc.Run(1, rows, 0, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.SuccessCount != 1 {
		t.Fatalf("successCount = %d, want 1: %+v", result.SuccessCount, result.Errors)
	}
	if result.CreatedAgents[0].Status != models.AgentStatusSuspended {
		t.Errorf("status = %q, want suspended", result.CreatedAgents[0].Status)
	}
}

func TestImportAppointmentDateParsed(t *testing.T) {
	fx := newImportFixture()

	rows := []models.ImportRow{
		validRow(2, map[string]string{ColAppointmentDate: "2024-06-15"}),
	}

	result, err := fx.svc.Run(1, rows, 0, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.SuccessCount != 1 {
		t.Fatalf("successCount = %d, want 1: %+v", result.SuccessCount, result.Errors)
	}

	created := fx.agents.agents[0]
	if !created.AppointmentDate.Valid {
		t.Fatal("appointment date not set")
	}
	if got := created.AppointmentDate.Time.Format("2006-01-02"); got != "2024-06-15" {
		t.Errorf("appointment date = %s, want 2024-06-15", got)
	}
}

func TestImportUnexpectedLookupError(t *testing.T) {
	fx := newImportFixture()
	fx.channels.errRef = "BROKEN"

	rows := []models.ImportRow{
		validRow(2, map[string]string{ColChannel: "BROKEN"}),
		validRow(3, nil),
	}

	result, err := fx.svc.Run(1, rows, 0, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertCountInvariant(t, result)

	// The broken row fails with a generic row-level error; the run continues.
	if result.SuccessCount != 1 || result.FailureCount != 1 {
		t.Fatalf("counts = %d/%d, want 1 success, 1 failure", result.SuccessCount, result.FailureCount)
	}
	e := result.Errors[0]
	if e.Row != 2 || e.Field != "row" {
		t.Errorf("error = row %d field %q, want row 2 field \"row\"", e.Row, e.Field)
	}
}

func TestImportCreateFailureIsRowError(t *testing.T) {
	fx := newImportFixture()
	fx.agents.createErr = errors.New("duplicate entry 'MS00001' for key 'agent_code'")

	result, err := fx.svc.Run(1, []models.ImportRow{validRow(2, nil)}, 0, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.FailureCount != 1 || result.SuccessCount != 0 {
		t.Fatalf("counts = %d/%d, want 0 success, 1 failure", result.SuccessCount, result.FailureCount)
	}
	if result.Errors[0].Field != "row" {
		t.Errorf("field = %q, want \"row\"", result.Errors[0].Field)
	}
}

func TestImportBatchSizeClamped(t *testing.T) {
	tests := []struct {
		name  string
		given int
		want  int
	}{
		{"zero falls back to default", 0, DefaultBatchSize},
		{"negative falls back to default", -5, DefaultBatchSize},
		{"over maximum falls back to default", MaxBatchSize + 1, DefaultBatchSize},
		{"in range kept", 25, 25},
		{"maximum kept", MaxBatchSize, MaxBatchSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newImportFixture()
			result, err := fx.svc.Run(1, []models.ImportRow{validRow(2, nil)}, tt.given, 1)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if result.BatchSize != tt.want {
				t.Errorf("batchSize = %d, want %d", result.BatchSize, tt.want)
			}
		})
	}
}

func TestImportResubmissionIdempotent(t *testing.T) {
	fx := newImportFixture()

	rows := []models.ImportRow{validRow(2, nil), validRow(3, nil)}

	first, err := fx.svc.Run(1, rows, 0, 1)
	if err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if first.SuccessCount != 2 {
		t.Fatalf("first run success = %d, want 2", first.SuccessCount)
	}

	// Resubmitting the same file creates nothing: every row now trips the
	// uniqueness checks.
	second, err := fx.svc.Run(1, rows, 0, 1)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	assertCountInvariant(t, second)

	if second.SuccessCount != 0 || second.FailureCount != 2 {
		t.Fatalf("second run counts = %d/%d, want 0 success, 2 failure",
			second.SuccessCount, second.FailureCount)
	}
	if len(fx.agents.agents) != 2 {
		t.Errorf("agent count after resubmission = %d, want 2", len(fx.agents.agents))
	}
	for _, e := range second.Errors {
		if !strings.Contains(e.Error, "already exists") {
			t.Errorf("resubmission error = %q, want uniqueness message", e.Error)
		}
	}
}

func TestImportEmptyRowSet(t *testing.T) {
	fx := newImportFixture()

	result, err := fx.svc.Run(1, nil, 0, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.TotalProcessed != 0 || len(result.Errors) != 0 || len(result.CreatedAgents) != 0 {
		t.Errorf("empty input produced %+v", result)
	}
}

func TestImportBatchBoundaryOrdering(t *testing.T) {
	fx := newImportFixture()

	// Five rows with batch size two: uniqueness across batch boundaries
	// must still see earlier creations.
	rows := []models.ImportRow{
		validRow(2, nil),
		validRow(3, nil),
		validRow(4, nil),
		validRow(5, map[string]string{ColEmail: "agent2@example.com"}), // duplicate of row 2
		validRow(6, nil),
	}

	result, err := fx.svc.Run(1, rows, 2, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	assertCountInvariant(t, result)

	if result.SuccessCount != 4 || result.FailureCount != 1 {
		t.Fatalf("counts = %d/%d, want 4 success, 1 failure", result.SuccessCount, result.FailureCount)
	}
	if result.Errors[0].Row != 5 {
		t.Errorf("duplicate detected at row %d, want 5", result.Errors[0].Row)
	}

	// Created agents keep row order and contiguous codes.
	wantCodes := []string{"MS00001", "MS00002", "MS00003", "MS00004"}
	for i, created := range result.CreatedAgents {
		if created.AgentCode != wantCodes[i] {
			t.Errorf("createdAgents[%d].AgentCode = %q, want %q", i, created.AgentCode, wantCodes[i])
		}
	}
}
