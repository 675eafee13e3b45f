package roster

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aurelhr/payroll-backend-go/internal/domain/roster"
	"github.com/shopspring/decimal"
)

// Ingestor parses an uploaded workbook into canonical employee records.
// It is pure: no I/O, deterministic output in input row order.
type Ingestor struct{}

func NewIngestor() *Ingestor {
	return &Ingestor{}
}

// Parse locates the salary sheet (and, when present, the attendance
// sheet), matches headers against the synonym table and returns one
// EmployeeRecord per usable row. Row-level problems become warnings and
// never abort the upload; a missing required column aborts it with a
// SchemaError. cycleDays bounds the attendance invariant check.
func (ing *Ingestor) Parse(wb roster.Workbook, cycleDays int) ([]roster.EmployeeRecord, []roster.RowWarning, error) {
	salary, ok := findSalarySheet(wb)
	if !ok {
		return nil, nil, roster.ErrNoSalarySheet
	}
	if len(salary.Rows) < 2 {
		return nil, nil, roster.ErrEmptyRoster
	}

	headers := salary.Rows[0]
	cols := map[field]int{}
	var missing []string
	for f := range synonyms {
		cols[f] = columnIndex(headers, f)
	}
	for _, f := range requiredFields {
		if cols[f] < 0 {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return nil, nil, &roster.SchemaError{MissingFields: missing}
	}

	attendance := parseAttendance(wb, cycleDays)

	var (
		records  []roster.EmployeeRecord
		warnings []roster.RowWarning
	)
	for i := 1; i < len(salary.Rows); i++ {
		row := salary.Rows[i]
		if emptyRow(row) {
			continue
		}
		rowNum := i + 1

		empID := strings.TrimSpace(cell(row, cols[fieldEmpID]))
		if empID == "" {
			warnings = append(warnings, roster.RowWarning{
				Row:     rowNum,
				Message: "missing employee id, row skipped",
			})
			continue
		}

		rec := roster.EmployeeRecord{
			EmpID:       empID,
			Name:        strings.TrimSpace(cell(row, cols[fieldName])),
			Designation: strings.TrimSpace(cell(row, cols[fieldDesignation])),
			Department:  strings.TrimSpace(cell(row, cols[fieldDepartment])),
			Email:       strings.TrimSpace(cell(row, cols[fieldEmail])),
		}
		rec.BasicDA = parseAmount(row, cols[fieldBasicDA], rowNum, empID, "basic_da", &warnings)
		rec.HRA = parseAmount(row, cols[fieldHRA], rowNum, empID, "hra", &warnings)
		rec.OtherAllowances = parseAmount(row, cols[fieldOtherAllowances], rowNum, empID, "other_allowances", &warnings)
		rec.TDS = parseAmount(row, cols[fieldTDS], rowNum, empID, "tds", &warnings)

		if att, found := attendance.lookup(empID); found {
			if att.PresentDays+att.ApprovedPaidLeaves+att.LOPDays > float64(cycleDays) {
				warnings = append(warnings, roster.RowWarning{
					Row:     rowNum,
					EmpID:   empID,
					Message: "attendance days exceed cycle length, attendance ignored",
				})
			} else {
				a := att
				rec.Attendance = &a
			}
		}

		records = append(records, rec)
	}

	if len(records) == 0 && len(warnings) == 0 {
		return nil, nil, roster.ErrEmptyRoster
	}
	return records, warnings, nil
}

// attendanceIndex joins attendance rows by normalized employee id.
type attendanceIndex struct {
	byID map[string]roster.Attendance
}

func (idx attendanceIndex) lookup(empID string) (roster.Attendance, bool) {
	att, ok := idx.byID[roster.NormalizeID(empID)]
	return att, ok
}

// parseAttendance reads the attendance sheet if the workbook has one. A
// sheet without a recognizable employee id column is treated the same as
// no sheet at all: everyone is fully payable.
func parseAttendance(wb roster.Workbook, cycleDays int) attendanceIndex {
	idx := attendanceIndex{byID: map[string]roster.Attendance{}}

	var sheet roster.Sheet
	found := false
	for _, s := range wb.Sheets {
		if strings.Contains(strings.ToLower(s.Name), attendanceSheetToken) {
			sheet = s
			found = true
			break
		}
	}
	if !found || len(sheet.Rows) < 2 {
		return idx
	}

	headers := sheet.Rows[0]
	idCol := columnIndex(headers, fieldEmpID)
	if idCol < 0 {
		return idx
	}
	presentCol := columnIndex(headers, fieldPresentDays)
	paidCol := columnIndex(headers, fieldApprovedPaidLeaves)
	lopCol := columnIndex(headers, fieldLOPDays)
	balanceCol := columnIndex(headers, fieldRemainingBalance)

	for i := 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		empID := strings.TrimSpace(cell(row, idCol))
		if empID == "" {
			continue
		}
		att := roster.Attendance{
			// No present column means the sheet tracks only exceptions;
			// default to fully present.
			PresentDays: float64(cycleDays),
		}
		if presentCol >= 0 {
			att.PresentDays = parseDays(cell(row, presentCol))
		}
		if paidCol >= 0 {
			att.ApprovedPaidLeaves = parseDays(cell(row, paidCol))
		}
		if lopCol >= 0 {
			att.LOPDays = parseDays(cell(row, lopCol))
		}
		if balanceCol >= 0 {
			att.RemainingLeaveBalance = parseDays(cell(row, balanceCol))
		}
		idx.byID[roster.NormalizeID(empID)] = att
	}
	return idx
}

func findSalarySheet(wb roster.Workbook) (roster.Sheet, bool) {
	for _, s := range wb.Sheets {
		if len(s.Rows) > 0 && isSalaryHeader(s.Rows[0]) {
			return s, true
		}
	}
	return roster.Sheet{}, false
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func emptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseAmount coerces a monetary cell. Empty cells are zero; non-numeric
// content defaults to zero with a warning.
func parseAmount(row []string, idx, rowNum int, empID, fieldName string, warnings *[]roster.RowWarning) decimal.Decimal {
	raw := strings.TrimSpace(cell(row, idx))
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		*warnings = append(*warnings, roster.RowWarning{
			Row:     rowNum,
			EmpID:   empID,
			Message: fmt.Sprintf("non-numeric %s %q, defaulted to 0", fieldName, raw),
		})
		return decimal.Zero
	}
	return d
}

// parseDays coerces a day-count cell; unparseable content counts as zero.
func parseDays(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
