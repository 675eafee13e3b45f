package payroll

import (
	"io"

	"github.com/aurelhr/payroll-backend-go/internal/domain/roster"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== POLICY DTOs ==========

// SetPolicyRequest carries the structured policy fields plus the optional
// free-text policy statement. Omitted fields fall back to the documented
// defaults; text overrides structured values for the fields it mentions.
type SetPolicyRequest struct {
	PFRate                 *decimal.Decimal `json:"pf_rate,omitempty"`
	PFCap                  *decimal.Decimal `json:"pf_cap,omitempty"`
	ESIEmployeeRate        *decimal.Decimal `json:"esi_employee_rate,omitempty"`
	ESIThreshold           *decimal.Decimal `json:"esi_threshold,omitempty"`
	PTAmount               *decimal.Decimal `json:"pt_amount,omitempty"`
	LeaveEncashmentEnabled *bool            `json:"leave_encashment_enabled,omitempty"`
	EncashMaxDays          *int             `json:"encash_max_days,omitempty"`
	TDSAmount              *decimal.Decimal `json:"tds_amount,omitempty"`
	PolicyText             *string          `json:"policy_text,omitempty"`
}

func (r *SetPolicyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PFRate != nil && r.PFRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "pf_rate", Message: "must be non-negative"})
	}
	if r.PFCap != nil && r.PFCap.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "pf_cap", Message: "must be non-negative"})
	}
	if r.ESIEmployeeRate != nil && r.ESIEmployeeRate.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "esi_employee_rate", Message: "must be non-negative"})
	}
	if r.ESIThreshold != nil && r.ESIThreshold.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "esi_threshold", Message: "must be non-negative"})
	}
	if r.PTAmount != nil && r.PTAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "pt_amount", Message: "must be non-negative"})
	}
	if r.EncashMaxDays != nil && *r.EncashMaxDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "encash_max_days", Message: "must be non-negative"})
	}
	if r.TDSAmount != nil && r.TDSAmount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "tds_amount", Message: "must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PolicyResponse struct {
	ID                     string          `json:"id"`
	PFRate                 decimal.Decimal `json:"pf_rate"`
	PFCap                  decimal.Decimal `json:"pf_cap"`
	ESIEmployeeRate        decimal.Decimal `json:"esi_employee_rate"`
	ESIThreshold           decimal.Decimal `json:"esi_threshold"`
	PTAmount               decimal.Decimal `json:"pt_amount"`
	LeaveEncashmentEnabled bool            `json:"leave_encashment_enabled"`
	EncashMaxDays          int             `json:"encash_max_days"`
	TDSAmount              decimal.Decimal `json:"tds_amount"`
	PolicyText             *string         `json:"policy_text,omitempty"`
}

// ========== ROSTER UPLOAD DTOs ==========

type UploadRosterRequest struct {
	// Month labels the cycle, e.g. "January 2026". Defaults to the current
	// month when empty.
	Month string `json:"month,omitempty"`
	// CycleDays is the number of days in the cycle. Defaults to the number
	// of calendar days in Month.
	CycleDays int `json:"cycle_days,omitempty"`
}

func (r *UploadRosterRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.CycleDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "cycle_days", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UploadRosterResponse struct {
	BatchID        string              `json:"batch_id"`
	Month          string              `json:"month"`
	CycleDays      int                 `json:"cycle_days"`
	TotalEmployees int                 `json:"total_employees"`
	Warnings       []roster.RowWarning `json:"warnings,omitempty"`
}

// ========== BATCH DTOs ==========

type GenerateResponse struct {
	BatchID           string          `json:"batch_id"`
	PayslipsGenerated int             `json:"payslips_generated"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	// Anomalies lists employee ids whose net pay came out negative. These
	// must be resolved before the batch can reasonably be approved.
	Anomalies []string `json:"anomalies,omitempty"`
}

type ApproveResponse struct {
	BatchID          string `json:"batch_id"`
	ApprovedAt       string `json:"approved_at"`
	EmployeesEnabled int    `json:"employees_enabled"`
}

type BatchStatusResponse struct {
	BatchID        string          `json:"batch_id"`
	Month          string          `json:"month"`
	Status         string          `json:"status"`
	TotalEmployees int             `json:"total_employees"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	ApprovedAt     *string         `json:"approved_at,omitempty"`
}

// ========== PAYSLIP DTOs ==========

type PayslipResponse struct {
	ID          string  `json:"id"`
	BatchID     string  `json:"batch_id"`
	EmpID       string  `json:"emp_id"`
	Name        string  `json:"name"`
	Designation *string `json:"designation,omitempty"`
	Month       string  `json:"month"`

	PayableDays           float64 `json:"payable_days"`
	PresentDays           float64 `json:"present_days"`
	ApprovedPaidLeaves    float64 `json:"approved_paid_leaves"`
	LOPDays               float64 `json:"lop_days"`
	RemainingLeaveBalance float64 `json:"remaining_leave_balance"`

	BasicDA         decimal.Decimal `json:"basic_da"`
	HRA             decimal.Decimal `json:"hra"`
	OtherAllowances decimal.Decimal `json:"other_allowances"`
	Encashment      decimal.Decimal `json:"encashment"`
	Gross           decimal.Decimal `json:"gross"`

	PF              decimal.Decimal `json:"pf"`
	ESI             decimal.Decimal `json:"esi"`
	PT              decimal.Decimal `json:"pt"`
	TDS             decimal.Decimal `json:"tds"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`

	Anomaly      bool    `json:"anomaly,omitempty"`
	DocumentPath *string `json:"document_path,omitempty"`
}

// PayslipDocument streams a rendered payslip PDF. The caller owns closing
// Content.
type PayslipDocument struct {
	FileName    string
	ContentType string
	Content     io.ReadCloser
}

// ========== EMPLOYEE DTOs ==========

type EmployeeResponse struct {
	EmpID           string          `json:"emp_id"`
	Name            string          `json:"name"`
	Designation     *string         `json:"designation,omitempty"`
	Department      *string         `json:"department,omitempty"`
	Email           *string         `json:"email,omitempty"`
	BasicDA         decimal.Decimal `json:"basic_da"`
	HRA             decimal.Decimal `json:"hra"`
	OtherAllowances decimal.Decimal `json:"other_allowances"`
	HasAttendance   bool            `json:"has_attendance"`
}

type EmployeeListResponse struct {
	BatchID   string             `json:"batch_id"`
	Employees []EmployeeResponse `json:"employees"`
	Total     int                `json:"total"`
}
