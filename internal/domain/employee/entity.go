package employee

import (
	"context"
	"time"

	"github.com/aurelhr/payroll-backend-go/internal/domain/roster"
	"github.com/shopspring/decimal"
)

// Employee is an ingested roster row persisted under its batch. Rows are
// immutable once stored; regeneration reads them back so repeated runs see
// exactly the inputs the upload produced.
type Employee struct {
	ID      string
	BatchID string

	EmpID       string
	Name        string
	Designation *string
	Department  *string
	Email       *string

	BasicDA         decimal.Decimal
	HRA             decimal.Decimal
	OtherAllowances decimal.Decimal
	TDS             decimal.Decimal

	HasAttendance         bool
	PresentDays           float64
	ApprovedPaidLeaves    float64
	LOPDays               float64
	RemainingLeaveBalance float64

	CreatedAt time.Time
}

// Record reconstructs the engine's input form of this employee.
func (e Employee) Record() roster.EmployeeRecord {
	rec := roster.EmployeeRecord{
		EmpID:           e.EmpID,
		Name:            e.Name,
		BasicDA:         e.BasicDA,
		HRA:             e.HRA,
		OtherAllowances: e.OtherAllowances,
		TDS:             e.TDS,
	}
	if e.Designation != nil {
		rec.Designation = *e.Designation
	}
	if e.Department != nil {
		rec.Department = *e.Department
	}
	if e.Email != nil {
		rec.Email = *e.Email
	}
	if e.HasAttendance {
		rec.Attendance = &roster.Attendance{
			PresentDays:           e.PresentDays,
			ApprovedPaidLeaves:    e.ApprovedPaidLeaves,
			LOPDays:               e.LOPDays,
			RemainingLeaveBalance: e.RemainingLeaveBalance,
		}
	}
	return rec
}

// FromRecord builds a persistable employee from an ingested record.
func FromRecord(batchID string, rec roster.EmployeeRecord) Employee {
	e := Employee{
		BatchID:         batchID,
		EmpID:           rec.EmpID,
		Name:            rec.Name,
		BasicDA:         rec.BasicDA,
		HRA:             rec.HRA,
		OtherAllowances: rec.OtherAllowances,
		TDS:             rec.TDS,
	}
	if rec.Designation != "" {
		e.Designation = &rec.Designation
	}
	if rec.Department != "" {
		e.Department = &rec.Department
	}
	if rec.Email != "" {
		e.Email = &rec.Email
	}
	if rec.Attendance != nil {
		e.HasAttendance = true
		e.PresentDays = rec.Attendance.PresentDays
		e.ApprovedPaidLeaves = rec.Attendance.ApprovedPaidLeaves
		e.LOPDays = rec.Attendance.LOPDays
		e.RemainingLeaveBalance = rec.Attendance.RemainingLeaveBalance
	}
	return e
}

// EmployeeRepository defines data access for batch roster rows.
type EmployeeRepository interface {
	InsertForBatch(ctx context.Context, batchID string, employees []Employee) ([]Employee, error)
	// GetByBatchID returns employees in their original upload order.
	GetByBatchID(ctx context.Context, batchID string) ([]Employee, error)
	GetByBatchAndEmpID(ctx context.Context, batchID, empID string) (Employee, error)
}
