package payroll

import (
	"context"
	"io"
)

// PayrollService is the HR-facing payroll workflow: roster upload, policy
// management, batch generation and approval, payslip access.
type PayrollService interface {
	UploadRoster(ctx context.Context, file io.Reader, req UploadRosterRequest) (UploadRosterResponse, error)
	SetPolicy(ctx context.Context, req SetPolicyRequest) (PolicyResponse, error)
	GetPolicy(ctx context.Context) (PolicyResponse, error)

	Generate(ctx context.Context, batchID string) (GenerateResponse, error)
	// RegenerateSlip recomputes a single employee from the stored roster and
	// active policy. Permitted on an approved batch as a correction path; it
	// does not roll the batch state back.
	RegenerateSlip(ctx context.Context, batchID, empID string) (PayslipResponse, error)
	Approve(ctx context.Context, batchID, approverID string) (ApproveResponse, error)

	BatchStatus(ctx context.Context, batchID string) (BatchStatusResponse, error)
	CurrentBatch(ctx context.Context) (BatchStatusResponse, error)
	// ListEmployees returns the stored roster rows of a batch, or of the
	// most recent batch when batchID is empty.
	ListEmployees(ctx context.Context, batchID string) (EmployeeListResponse, error)
	ListPayslips(ctx context.Context, batchID string) ([]PayslipResponse, error)
	// EmployeePayslip returns the latest payslip from an approved batch for
	// the given employee id.
	EmployeePayslip(ctx context.Context, empID string) (PayslipResponse, error)

	// DownloadPayslip streams the rendered PDF of one payslip in a batch.
	DownloadPayslip(ctx context.Context, batchID, empID string) (PayslipDocument, error)
	// DownloadEmployeePayslip streams the PDF of the employee's latest
	// payslip from an approved batch.
	DownloadEmployeePayslip(ctx context.Context, empID string) (PayslipDocument, error)
}

// DocumentRenderer turns a computed payslip into a stored document and
// returns its storage path. Layout is the renderer's concern; the engine
// only hands over the figures and display metadata.
type DocumentRenderer interface {
	RenderPayslip(ctx context.Context, slip Payslip) (string, error)
}
