package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollPolicy is the rule set applied uniformly to every employee in a
// cycle. One policy is active at a time; set-policy supersedes, never
// mutates.
type PayrollPolicy struct {
	ID                     string
	PFRate                 decimal.Decimal
	PFCap                  decimal.Decimal
	ESIEmployeeRate        decimal.Decimal
	ESIThreshold           decimal.Decimal
	PTAmount               decimal.Decimal
	LeaveEncashmentEnabled bool
	EncashMaxDays          int
	TDSAmount              decimal.Decimal
	PolicyText             *string
	IsActive               bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// PayslipResult is the calculator's output for one employee in one cycle.
// Produced fresh on every calculation call and never mutated; regenerating
// for the same employee replaces the prior result.
type PayslipResult struct {
	EmpID string

	PayableDays           float64
	PresentDays           float64
	ApprovedPaidLeaves    float64
	LOPDays               float64
	RemainingLeaveBalance float64

	BasicDA         decimal.Decimal // prorated
	HRA             decimal.Decimal // prorated
	OtherAllowances decimal.Decimal // prorated
	Encashment      decimal.Decimal
	Gross           decimal.Decimal

	PF              decimal.Decimal
	ESI             decimal.Decimal
	PT              decimal.Decimal
	TDS             decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal

	// Anomaly flags a negative net pay. The result is surfaced as-is, not
	// clamped: the caller must resolve the policy/data mismatch before
	// approval.
	Anomaly bool
}

// Payslip is a persisted PayslipResult together with its display metadata
// and the batch it belongs to.
type Payslip struct {
	ID         string
	BatchID    string
	EmployeeID string

	EmpID       string
	Name        string
	Designation *string
	Month       string

	Result PayslipResult

	DocumentPath *string
	CreatedAt    time.Time
}

// BatchStatus enum
type BatchStatus string

const (
	BatchStatusDraft     BatchStatus = "draft"
	BatchStatusGenerated BatchStatus = "generated"
	BatchStatusApproved  BatchStatus = "approved"
)

// PayrollBatch is the generation/approval workflow unit for one cycle.
type PayrollBatch struct {
	ID             string
	Month          string
	CycleDays      int
	Status         BatchStatus
	SourcePath     *string
	TotalEmployees int
	TotalAmount    decimal.Decimal
	ApprovedBy     *string
	ApprovedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanGenerate reports whether the batch may (re)generate payslips.
// Approved is terminal: a new cycle needs a new batch.
func (b *PayrollBatch) CanGenerate() error {
	if b.Status == BatchStatusApproved {
		return ErrBatchAlreadyApproved
	}
	return nil
}

// CanApprove reports whether the batch may transition to approved. It
// requires a completed generation with at least one payslip.
func (b *PayrollBatch) CanApprove(payslipCount int) error {
	if b.Status == BatchStatusApproved {
		return ErrBatchAlreadyApproved
	}
	if b.Status != BatchStatusGenerated {
		return ErrBatchNotGenerated
	}
	if payslipCount < 1 {
		return ErrBatchHasNoPayslips
	}
	return nil
}
