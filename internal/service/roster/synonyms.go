package roster

import "strings"

// Logical fields of the salary and attendance sheets.
type field string

const (
	fieldEmpID           field = "emp_id"
	fieldName            field = "name"
	fieldDesignation     field = "designation"
	fieldDepartment      field = "department"
	fieldEmail           field = "email"
	fieldBasicDA         field = "basic_da"
	fieldHRA             field = "hra"
	fieldOtherAllowances field = "other_allowances"
	fieldTDS             field = "tds"

	fieldPresentDays        field = "present_days"
	fieldApprovedPaidLeaves field = "approved_paid_leaves"
	fieldLOPDays            field = "lop_days"
	fieldRemainingBalance   field = "remaining_leave_balance"
)

// synonyms maps each logical field to the header spellings real-world
// sheets use for it. A header satisfies a synonym when the lowercased
// header contains it. The table is consulted once per sheet at ingestion
// and never re-interpreted later.
var synonyms = map[field][]string{
	fieldEmpID:           {"emp id", "emp code", "e.code", "emp. code", "employee id", "code", "id"},
	fieldName:            {"name"},
	fieldDesignation:     {"designation", "role"},
	fieldDepartment:      {"department", "dept"},
	fieldEmail:           {"email", "mail"},
	fieldBasicDA:         {"basic"},
	fieldHRA:             {"hra"},
	fieldOtherAllowances: {"other allow", "allowance"},
	fieldTDS:             {"tds"},

	fieldPresentDays:        {"present"},
	fieldApprovedPaidLeaves: {"paid leave", "cl", "el"},
	fieldLOPDays:            {"lop"},
	fieldRemainingBalance:   {"remaining", "balance"},
}

// requiredFields must all be matched by some salary-sheet header or the
// whole upload is rejected with a SchemaError.
var requiredFields = []field{fieldEmpID, fieldName, fieldBasicDA}

// salarySheetTokens identify the salary sheet: any header containing one
// of these marks the sheet as the salary extract.
var salarySheetTokens = []string{"basic", "hra", "gross", "ctc", "salary"}

// attendanceSheetToken identifies the attendance sheet by its tab name.
const attendanceSheetToken = "atten"

// columnIndex returns the index of the first header satisfying any
// synonym for f, or -1.
func columnIndex(headers []string, f field) int {
	for i, h := range headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		if lower == "" {
			continue
		}
		for _, syn := range synonyms[f] {
			if strings.Contains(lower, syn) {
				return i
			}
		}
	}
	return -1
}

// isSalaryHeader reports whether a header row looks like a salary sheet.
func isSalaryHeader(headers []string) bool {
	for _, h := range headers {
		lower := strings.ToLower(strings.TrimSpace(h))
		for _, tok := range salarySheetTokens {
			if strings.Contains(lower, tok) {
				return true
			}
		}
	}
	return false
}
