package emitter

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/testforge-hq/testforge/pkg/model"
)

const (
	summarySheet = "Summary"
	casesSheet   = "Test Cases"

	headerFillColor = "DDEBF7"
)

var caseHeaders = []string{"Case #", "Case Name", "Type", "Step #", "Action", "Expected Result"}

// XLSXEmitter renders a suite as an Excel workbook: a summary sheet
// plus a cases sheet with one row per step, for teams that manage
// test execution in spreadsheets.
type XLSXEmitter struct{}

func (e *XLSXEmitter) Name() string          { return "xlsx" }
func (e *XLSXEmitter) Language() string      { return "spreadsheet" }
func (e *XLSXEmitter) Framework() string     { return "excel" }
func (e *XLSXEmitter) FileExtension() string { return ".xlsx" }

func (e *XLSXEmitter) Emit(suite model.TestSuite) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	if err := e.writeSummary(f, suite); err != nil {
		return nil, err
	}
	if err := e.writeCases(f, suite); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *XLSXEmitter) writeSummary(f *excelize.File, suite model.TestSuite) error {
	stats := suite.Stats()

	rows := [][]interface{}{
		{"Suite", suite.Name},
		{"Source", string(suite.Source)},
		{"Location", suite.Location},
		{"Focus", suite.Focus},
		{"Cases", len(suite.Cases)},
		{"Steps", stats["steps"]},
	}
	for _, caseType := range []model.CaseType{
		model.CaseAPI, model.CaseUI, model.CaseSecurity,
		model.CaseAccessibility, model.CasePerformance,
	} {
		if n := stats[strings.ToLower(string(caseType))]; n > 0 {
			rows = append(rows, []interface{}{string(caseType) + " cases", n})
		}
	}

	for i, row := range rows {
		for j, v := range row {
			cell := fmt.Sprintf("%c%d", 'A'+j, i+1)
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return fmt.Errorf("failed to write summary cell %s: %w", cell, err)
			}
		}
	}

	f.SetColWidth(summarySheet, "A", "A", 20)
	f.SetColWidth(summarySheet, "B", "B", 50)
	return nil
}

func (e *XLSXEmitter) writeCases(f *excelize.File, suite model.TestSuite) error {
	index, err := f.NewSheet(casesSheet)
	if err != nil {
		return fmt.Errorf("failed to create cases sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{headerFillColor},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range caseHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(casesSheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header cell %s: %w", cell, err)
		}
	}
	lastHeader := fmt.Sprintf("%c1", 'A'+len(caseHeaders)-1)
	if err := f.SetCellStyle(casesSheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	row := 2
	for ci, tc := range suite.Cases {
		steps := tc.Steps
		if len(steps) == 0 {
			// A case without steps still gets a row.
			steps = []model.TestStep{{}}
		}
		for si, step := range steps {
			values := []interface{}{ci + 1, tc.Name, string(tc.Type), si + 1, step.Action, step.Expected}
			for j, v := range values {
				cell := fmt.Sprintf("%c%d", 'A'+j, row)
				if err := f.SetCellValue(casesSheet, cell, v); err != nil {
					return fmt.Errorf("failed to write case cell %s: %w", cell, err)
				}
			}
			row++
		}
	}

	f.SetColWidth(casesSheet, "A", "A", 8)
	f.SetColWidth(casesSheet, "B", "B", 44)
	f.SetColWidth(casesSheet, "C", "C", 16)
	f.SetColWidth(casesSheet, "D", "D", 8)
	f.SetColWidth(casesSheet, "E", "F", 60)
	return nil
}
