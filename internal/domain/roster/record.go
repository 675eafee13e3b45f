package roster

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Attendance holds the per-cycle attendance figures joined from the
// attendance sheet. Day counts may be fractional (half days).
type Attendance struct {
	PresentDays           float64
	ApprovedPaidLeaves    float64
	LOPDays               float64
	RemainingLeaveBalance float64
}

// EmployeeRecord is the canonical form of one salary-sheet row, optionally
// merged with its attendance row. Immutable once constructed; one instance
// per employee per upload.
type EmployeeRecord struct {
	EmpID       string
	Name        string
	Designation string
	Department  string
	Email       string

	BasicDA         decimal.Decimal
	HRA             decimal.Decimal
	OtherAllowances decimal.Decimal
	TDS             decimal.Decimal

	// Attendance is nil when the upload carried no attendance sheet or no
	// matching row; the employee is then treated as fully payable.
	Attendance *Attendance
}

// NormalizeID canonicalizes an employee identifier for joining and lookup:
// lowercased with spaces and punctuation stripped, so "EMP-001", "emp 001"
// and "Emp001" all match.
func NormalizeID(id string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(id)) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
