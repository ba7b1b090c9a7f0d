package service

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"salesops-web/internal/models"

	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes a header row and data rows onto the default sheet and
// returns the encoded workbook.
func buildWorkbook(t *testing.T, header []string, data [][]string) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, key := range header {
		cell := fmt.Sprintf("%s1", getColumnName(col))
		if err := f.SetCellValue(sheet, cell, key); err != nil {
			t.Fatalf("set header cell: %v", err)
		}
	}
	for rowIdx, row := range data {
		for col, value := range row {
			if value == "" {
				continue
			}
			cell := fmt.Sprintf("%s%d", getColumnName(col), rowIdx+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set data cell: %v", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("encode workbook: %v", err)
	}
	return buf
}

func TestParseAgentRows(t *testing.T) {
	header := []string{ColFirstName, ColLastName, ColEmail, ColBranch}
	data := [][]string{
		{"Maria", "Santos", "maria@example.com", "Makati"},
		{"Jose", "Reyes", "jose@example.com", ""}, // blank branch cell
	}

	buf := buildWorkbook(t, header, data)
	rows, err := NewExcelService().ParseAgentRows(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ParseAgentRows: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}

	// Row numbers are 1-based spreadsheet rows; data starts at row 2.
	if rows[0].Num != 2 || rows[1].Num != 3 {
		t.Errorf("row numbers = %d, %d; want 2, 3", rows[0].Num, rows[1].Num)
	}

	if got := rows[0].Value(ColFirstName); got != "Maria" {
		t.Errorf("first name = %q, want Maria", got)
	}
	if got := rows[0].Value(ColBranch); got != "Makati" {
		t.Errorf("branch = %q, want Makati", got)
	}

	// Blank cells are absent from the map, not empty strings.
	if _, ok := rows[1].Values[ColBranch]; ok {
		t.Errorf("blank branch cell present in row values: %v", rows[1].Values)
	}
	if got := rows[1].Value(ColBranch); got != "" {
		t.Errorf("Value on absent column = %q, want empty", got)
	}
}

func TestParseAgentRowsSkipsEmptyRows(t *testing.T) {
	header := []string{ColFirstName, ColEmail}
	data := [][]string{
		{"Maria", "maria@example.com"},
		{"", ""}, // fully empty
		{"Jose", "jose@example.com"},
	}

	buf := buildWorkbook(t, header, data)
	rows, err := NewExcelService().ParseAgentRows(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ParseAgentRows: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2 (empty row skipped)", len(rows))
	}
	// The skipped row still occupies its spreadsheet position.
	if rows[0].Num != 2 || rows[1].Num != 4 {
		t.Errorf("row numbers = %d, %d; want 2, 4", rows[0].Num, rows[1].Num)
	}
}

func TestParseAgentRowsHeaderOnly(t *testing.T) {
	buf := buildWorkbook(t, []string{ColFirstName, ColEmail}, nil)
	rows, err := NewExcelService().ParseAgentRows(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ParseAgentRows: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestParseAgentRowsMalformed(t *testing.T) {
	_, err := NewExcelService().ParseAgentRows(strings.NewReader("this is not a spreadsheet"))
	if !errors.Is(err, ErrMalformedWorkbook) {
		t.Fatalf("err = %v, want ErrMalformedWorkbook", err)
	}
}

func TestParseAgentRowsFileMissing(t *testing.T) {
	_, err := NewExcelService().ParseAgentRowsFile(filepath.Join(t.TempDir(), "missing.xlsx"))
	if !errors.Is(err, ErrMalformedWorkbook) {
		t.Fatalf("err = %v, want ErrMalformedWorkbook", err)
	}
}

func TestGenerateAgentTemplateRoundTrip(t *testing.T) {
	svc := NewExcelService()
	path := filepath.Join(t.TempDir(), "template.xlsx")

	if err := svc.GenerateAgentTemplate(path); err != nil {
		t.Fatalf("GenerateAgentTemplate: %v", err)
	}

	// The template must decode through the same parser the import uses.
	rows, err := svc.ParseAgentRowsFile(path)
	if err != nil {
		t.Fatalf("ParseAgentRowsFile: %v", err)
	}
	if len(rows) < 2 {
		t.Fatalf("got %d sample rows, want at least 2", len(rows))
	}

	for _, col := range []string{ColFirstName, ColLastName, ColEmail, ColMobile, ColChannel, ColDesignation} {
		if rows[0].Value(col) == "" {
			t.Errorf("sample row missing required column %s: %v", col, rows[0].Values)
		}
	}
}

func TestGenerateImportErrorReport(t *testing.T) {
	svc := NewExcelService()
	path := filepath.Join(t.TempDir(), "errors.xlsx")

	result := &models.ImportResult{
		TotalProcessed: 3,
		SuccessCount:   1,
		FailureCount:   2,
		Errors: []models.ValidationError{
			{Row: 2, Field: ColEmail, Error: "invalid email format: nope", Data: map[string]string{
				ColEmail: "nope", ColFirstName: "Maria", ColLastName: "Santos",
			}},
			{Row: 4, Field: ColChannel, Error: "channel not found: NOSUCH", Data: map[string]string{
				ColEmail: "jose@example.com", ColFirstName: "Jose", ColLastName: "Reyes",
			}},
		},
	}

	if err := svc.GenerateImportErrorReport(result, path); err != nil {
		t.Fatalf("GenerateImportErrorReport: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen report: %v", err)
	}
	defer f.Close()

	sheet := "Import Errors"
	if got, _ := f.GetCellValue(sheet, "A2"); got != "2" {
		t.Errorf("first error row = %q, want 2", got)
	}
	if got, _ := f.GetCellValue(sheet, "B2"); got != ColEmail {
		t.Errorf("first error field = %q, want %s", got, ColEmail)
	}
	if got, _ := f.GetCellValue(sheet, "E2"); got != "Maria Santos" {
		t.Errorf("first error agent name = %q, want Maria Santos", got)
	}
	if got, _ := f.GetCellValue(sheet, "A3"); got != "4" {
		t.Errorf("second error row cell = %q, want 4", got)
	}
}
