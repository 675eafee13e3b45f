package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PayrollRepository defines data access for batches, payslips and policies.
type PayrollRepository interface {
	// Batches
	CreateBatch(ctx context.Context, batch PayrollBatch) (PayrollBatch, error)
	GetBatchByID(ctx context.Context, id string) (PayrollBatch, error)
	GetCurrentBatch(ctx context.Context) (PayrollBatch, error)
	MarkBatchGenerated(ctx context.Context, id string, totalAmount decimal.Decimal) error
	// MarkBatchApproved stamps the approval in the database and returns the
	// stored approval time, so responses report exactly what was persisted.
	MarkBatchApproved(ctx context.Context, id string, approvedBy string) (time.Time, error)

	// Payslips
	ReplacePayslips(ctx context.Context, batchID string, slips []Payslip) ([]Payslip, error)
	UpsertPayslip(ctx context.Context, slip Payslip) (Payslip, error)
	SetPayslipDocument(ctx context.Context, id string, path string) error
	ListPayslipsByBatch(ctx context.Context, batchID string) ([]Payslip, error)
	GetPayslip(ctx context.Context, batchID, empID string) (Payslip, error)
	GetLatestApprovedPayslip(ctx context.Context, empID string) (Payslip, error)
	CountPayslips(ctx context.Context, batchID string) (int, error)

	// Policies
	GetActivePolicy(ctx context.Context) (PayrollPolicy, error)
	ReplaceActivePolicy(ctx context.Context, policy PayrollPolicy) (PayrollPolicy, error)
}
