package service

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"salesops-web/internal/models"

	"github.com/xuri/excelize/v2"
)

// ErrMalformedWorkbook marks an upload that cannot be decoded at all: not a
// spreadsheet, no sheets, or no header row. It aborts the whole run.
var ErrMalformedWorkbook = errors.New("malformed workbook")

type ExcelService struct{}

func NewExcelService() *ExcelService {
	return &ExcelService{}
}

// ParseAgentRows decodes the first sheet of a workbook into ordered import
// rows. The first row is the header; header cell text becomes the column key
// exactly (case- and whitespace-sensitive). Blank cells are omitted from the
// row map. Row numbers are the 1-based spreadsheet rows, so the first data
// row is 2. Completely empty rows are skipped.
func (s *ExcelService) ParseAgentRows(r io.Reader) ([]models.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
	}
	defer f.Close()

	return s.parseAgentRows(f)
}

// ParseAgentRowsFile is ParseAgentRows for a workbook already on disk.
func (s *ExcelService) ParseAgentRowsFile(path string) ([]models.ImportRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
	}
	defer f.Close()

	return s.parseAgentRows(f)
}

func (s *ExcelService) parseAgentRows(f *excelize.File) ([]models.ImportRow, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: no sheets found", ErrMalformedWorkbook)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkbook, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedWorkbook)
	}

	header := rows[0]
	if len(header) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrMalformedWorkbook)
	}

	var imported []models.ImportRow
	for i := 1; i < len(rows); i++ {
		row := rows[i]

		values := make(map[string]string)
		for col, key := range header {
			if key == "" {
				continue
			}
			if cell := getCellValue(row, col); cell != "" {
				values[key] = cell
			}
		}

		// Skip completely empty rows
		if len(values) == 0 {
			continue
		}

		imported = append(imported, models.ImportRow{Num: i + 1, Values: values})
	}

	return imported, nil
}

// GenerateAgentTemplate creates a template Excel file for agent bulk upload
func (s *ExcelService) GenerateAgentTemplate(outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Agents"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{
		ColFirstName, ColLastName, ColEmail, ColMobile, ColChannel, ColDesignation,
		ColAgentCode, ColBranch, ColAppointmentDate, ColCANumber, ColProvince,
		ColCity, ColPinCode, ColStatus, ColReportingManager, ColTIN,
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	// Sample data
	sampleData := [][]interface{}{
		{"Maria", "Santos", "maria.santos@example.com", "+639171234501", "Direct Sales", "Sales Agent",
			"", "Makati", "2024-01-15", "CA-1001", "Metro Manila", "Makati", "1200", "active", "", "123-456-001"},
		{"Jose", "Reyes", "jose.reyes@example.com", "+639171234502", "Bancassurance", "Financial Advisor",
			"", "Cebu", "2024-02-01", "CA-1002", "Cebu", "Cebu City", "6000", "active", "MS00001", "123-456-002"},
	}

	for rowIdx, rowData := range sampleData {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range headers {
		colName := getColumnName(i)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	// Add instructions
	instructionsStartRow := len(sampleData) + 4
	instructions := []string{
		"Instructions:",
		"1. Required columns: Agent First Name, Agent Last Name, Email, Mobile Number, Channel, Designation.",
		"2. Channel and Designation accept either the code or the display name; the designation must belong to the channel.",
		"3. Leave Agent Code empty to have a code generated from the project name.",
		"4. Mobile Number: international format, optional leading +, 10-15 digits.",
		"5. Status must be one of: active, inactive, suspended (defaults to active).",
		"6. Reporting Manager ID is an existing agent code.",
		"",
		"Note: Do not modify the header row. Fill data starting from row 2.",
	}

	for i, instruction := range instructions {
		cell := fmt.Sprintf("A%d", instructionsStartRow+i)
		f.SetCellValue(sheetName, cell, instruction)
	}

	instructionStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F0F8FF"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", instructionsStartRow), fmt.Sprintf("A%d", instructionsStartRow), instructionStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// GenerateImportErrorReport creates an Excel report with import validation errors
func (s *ExcelService) GenerateImportErrorReport(result *models.ImportResult, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Import Errors"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return err
	}

	headers := []string{
		"Row Number", "Field", "Error Message", "Email", "Agent Name",
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFE6E6"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	errorStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFFFCC"}, Pattern: 1},
	})

	for rowIdx, verr := range result.Errors {
		row := rowIdx + 2
		values := []interface{}{
			verr.Row,
			verr.Field,
			verr.Error,
			verr.Data[ColEmail],
			strings.TrimSpace(verr.Data[ColFirstName] + " " + verr.Data[ColLastName]),
		}

		for colIdx, value := range values {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}

		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", getColumnName(len(headers)-1), row), errorStyle)
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 22)
	f.SetColWidth(sheetName, "C", "C", 50)
	f.SetColWidth(sheetName, "D", "D", 30)
	f.SetColWidth(sheetName, "E", "E", 25)

	// Add summary section
	summaryStartRow := len(result.Errors) + 4
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow), "Import Summary")
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+1), "Total Rows Processed:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+1), result.TotalProcessed)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+2), "Agents Created:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+2), result.SuccessCount)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryStartRow+3), "Rows Failed:")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", summaryStartRow+3), result.FailureCount)

	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryStartRow), fmt.Sprintf("A%d", summaryStartRow), summaryStyle)

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	return f.SaveAs(outputPath)
}

// Helper functions
func getCellValue(row []string, index int) string {
	if index < len(row) {
		return row[index]
	}
	return ""
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	formats := []string{
		"2006-01-02",            // YYYY-MM-DD (ISO standard)
		"2006/01/02",            // YYYY/MM/DD
		"01/02/2006",            // MM/DD/YYYY (US format)
		"01-02-06",              // MM-DD-YY (Excel US format with dash)
		"01/02/2006 3:04:05 PM", // MM/DD/YYYY with time
		"01/02/06",              // MM/DD/YY (short year)
		"02-01-2006",            // DD-MM-YYYY (European format)
		"Jan 02, 2006",          // Month DD, YYYY
		"02 Jan 2006",           // DD Month YYYY
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
	}
	return result
}
