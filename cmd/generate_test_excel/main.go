package main

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

func main() {
	// Create new Excel file
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Agents"
	_, err := f.NewSheet(sheetName)
	if err != nil {
		fmt.Printf("Error creating sheet: %v\n", err)
		return
	}

	// Set headers - must match the import column names exactly
	headers := []string{
		"Agent First Name", "Agent Last Name", "Email", "Mobile Number",
		"Channel", "Designation", "Agent Code", "Branch", "Appointment Date",
		"CA Number", "Province", "City", "Pin Code", "Status",
		"Reporting Manager ID", "TIN",
	}

	// Write headers
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", getColumnName(i))
		f.SetCellValue(sheetName, cell, header)
	}

	// Set header style
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", getColumnName(len(headers)-1)), headerStyle)

	// Test data. Channel and Designation values must exist in master data
	// (matched by code or name, case-insensitive).
	testData := [][]interface{}{
		// Valid rows
		{"Ravi", "Kumar", "ravi.kumar@example.com", "+919876543210", "BANCA", "Relationship Manager", "", "Mumbai Central", "2024-06-15", "CA-1001", "Maharashtra", "Mumbai", "400001", "active", "", "TIN100001"},
		{"Priya", "Sharma", "priya.sharma@example.com", "9876543211", "AGENCY", "Agency Leader", "", "Pune East", "2024-07-01", "CA-1002", "Maharashtra", "Pune", "411001", "active", "", "TIN100002"},
		{"Amit", "Patel", "amit.patel@example.com", "9876543212", "DIRECT", "Sales Officer", "MS90001", "Ahmedabad", "", "", "Gujarat", "Ahmedabad", "380001", "", "", ""},

		// Invalid rows - missing required fields
		{"", "Singh", "missing.first@example.com", "9876543213", "BANCA", "Relationship Manager", "", "", "", "", "", "", "", "", "", ""},
		{"Neha", "Gupta", "", "9876543214", "AGENCY", "Agency Leader", "", "", "", "", "", "", "", "", "", ""},

		// Invalid rows - bad formats
		{"Rahul", "Verma", "not-an-email", "9876543215", "BANCA", "Relationship Manager", "", "", "", "", "", "", "", "", "", ""},
		{"Sunita", "Rao", "sunita.rao@example.com", "12345", "BANCA", "Relationship Manager", "", "", "", "", "", "", "", "", "", ""},

		// Invalid rows - unresolved references
		{"Vikram", "Joshi", "vikram.joshi@example.com", "9876543216", "NOSUCH", "Relationship Manager", "", "", "", "", "", "", "", "", "", ""},
		{"Anjali", "Mehta", "anjali.mehta@example.com", "9876543217", "BANCA", "Agency Leader", "", "", "", "", "", "", "", "", "", ""},

		// Invalid row - duplicate email within the file
		{"Ravi", "Duplicate", "ravi.kumar@example.com", "9876543218", "BANCA", "Relationship Manager", "", "", "", "", "", "", "", "", "", ""},

		// Invalid row - bad status
		{"Karan", "Malhotra", "karan.malhotra@example.com", "9876543219", "DIRECT", "Sales Officer", "", "", "", "", "", "", "", "retired", "", ""},
	}

	// Write test data
	for rowIdx, rowData := range testData {
		row := rowIdx + 2
		for colIdx, value := range rowData {
			cell := fmt.Sprintf("%s%d", getColumnName(colIdx), row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	// Set column widths
	f.SetColWidth(sheetName, "A", "B", 18)
	f.SetColWidth(sheetName, "C", "C", 30)
	f.SetColWidth(sheetName, "D", "D", 18)
	f.SetColWidth(sheetName, "E", "F", 22)
	f.SetColWidth(sheetName, "G", "N", 15)
	f.SetColWidth(sheetName, "O", "O", 22)
	f.SetColWidth(sheetName, "P", "P", 15)

	// Add instructions sheet
	instructionsSheet := "Instructions"
	instIndex, _ := f.NewSheet(instructionsSheet)
	f.SetCellValue(instructionsSheet, "A1", "TEST DATA INSTRUCTIONS")
	f.SetCellValue(instructionsSheet, "A3", "This file exercises the agent import validation pipeline")
	f.SetCellValue(instructionsSheet, "A5", "Test cases:")
	f.SetCellValue(instructionsSheet, "A6", "1. Rows 2-4: valid agents (row 4 carries a pre-assigned Agent Code)")
	f.SetCellValue(instructionsSheet, "A7", "2. Rows 5-6: missing required fields (first name, email)")
	f.SetCellValue(instructionsSheet, "A8", "3. Rows 7-8: invalid email / mobile format")
	f.SetCellValue(instructionsSheet, "A9", "4. Row 9: unknown channel")
	f.SetCellValue(instructionsSheet, "A10", "5. Row 10: designation not mapped to the given channel")
	f.SetCellValue(instructionsSheet, "A11", "6. Row 11: duplicate email within the same file")
	f.SetCellValue(instructionsSheet, "A12", "7. Row 12: invalid status value")
	f.SetCellValue(instructionsSheet, "A14", "MASTER DATA REQUIRED:")
	f.SetCellValue(instructionsSheet, "A15", "- Channels: BANCA, AGENCY, DIRECT")
	f.SetCellValue(instructionsSheet, "A16", "- Designations: Relationship Manager (BANCA), Agency Leader (AGENCY), Sales Officer (DIRECT)")

	f.SetActiveSheet(instIndex)
	f.DeleteSheet("Sheet1")

	// Save file
	outputPath := filepath.Join("storage", "uploads", "test_agent_import.xlsx")
	if err := f.SaveAs(outputPath); err != nil {
		fmt.Printf("Error saving file: %v\n", err)
		return
	}

	fmt.Printf("✓ Test file created: %s\n", outputPath)
	fmt.Printf("  Total rows: %d\n", len(testData))
}

func getColumnName(index int) string {
	result := ""
	for index >= 0 {
		result = string(rune('A'+(index%26))) + result
		index = index/26 - 1
		if index < 0 {
			break
		}
	}
	return result
}
