package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/aurelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== BATCHES ==========

const batchColumns = `id, month, cycle_days, status, source_path, total_employees,
			   total_amount, approved_by, approved_at, created_at, updated_at`

func (r *payrollRepository) CreateBatch(ctx context.Context, batch payroll.PayrollBatch) (payroll.PayrollBatch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_batches (id, month, cycle_days, status, source_path, total_employees, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + batchColumns

	return scanBatch(q.QueryRow(ctx, query,
		batch.ID, batch.Month, batch.CycleDays, batch.Status, batch.SourcePath,
		batch.TotalEmployees, batch.TotalAmount,
	))
}

func (r *payrollRepository) GetBatchByID(ctx context.Context, id string) (payroll.PayrollBatch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + batchColumns + `
		FROM payroll_batches
		WHERE id = $1
	`

	batch, err := scanBatch(q.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollBatch{}, payroll.ErrBatchNotFound
		}
		return payroll.PayrollBatch{}, err
	}
	return batch, nil
}

func (r *payrollRepository) GetCurrentBatch(ctx context.Context) (payroll.PayrollBatch, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + batchColumns + `
		FROM payroll_batches
		ORDER BY created_at DESC
		LIMIT 1
	`

	batch, err := scanBatch(q.QueryRow(ctx, query))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollBatch{}, payroll.ErrBatchNotFound
		}
		return payroll.PayrollBatch{}, err
	}
	return batch, nil
}

func (r *payrollRepository) MarkBatchGenerated(ctx context.Context, id string, totalAmount decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_batches
		SET status = $2, total_amount = $3, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id, payroll.BatchStatusGenerated, totalAmount)
	if err != nil {
		return fmt.Errorf("failed to mark batch generated: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrBatchNotFound
	}
	return nil
}

func (r *payrollRepository) MarkBatchApproved(ctx context.Context, id string, approvedBy string) (time.Time, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_batches
		SET status = $2, approved_by = $3, approved_at = NOW(), updated_at = NOW()
		WHERE id = $1
		RETURNING approved_at
	`

	var approvedAt time.Time
	err := q.QueryRow(ctx, query, id, payroll.BatchStatusApproved, approvedBy).Scan(&approvedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return time.Time{}, payroll.ErrBatchNotFound
		}
		return time.Time{}, fmt.Errorf("failed to mark batch approved: %w", err)
	}
	return approvedAt, nil
}

func scanBatch(row pgx.Row) (payroll.PayrollBatch, error) {
	var b payroll.PayrollBatch
	err := row.Scan(
		&b.ID, &b.Month, &b.CycleDays, &b.Status, &b.SourcePath, &b.TotalEmployees,
		&b.TotalAmount, &b.ApprovedBy, &b.ApprovedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollBatch{}, err
		}
		return payroll.PayrollBatch{}, fmt.Errorf("failed to scan payroll batch: %w", err)
	}
	return b, nil
}

// ========== PAYSLIPS ==========

const payslipColumns = `id, batch_id, employee_id, emp_id, name, designation, month,
			   payable_days, present_days, approved_paid_leaves, lop_days, remaining_leave_balance,
			   basic_da, hra, other_allowances, encashment, gross,
			   pf, esi, pt, tds, total_deductions, net_pay, anomaly,
			   document_path, created_at`

func (r *payrollRepository) ReplacePayslips(ctx context.Context, batchID string, slips []payroll.Payslip) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM payslips WHERE batch_id = $1`, batchID); err != nil {
		return nil, fmt.Errorf("failed to clear payslips: %w", err)
	}

	stored := make([]payroll.Payslip, 0, len(slips))
	for _, slip := range slips {
		s, err := r.insertPayslip(ctx, q, slip)
		if err != nil {
			return nil, err
		}
		stored = append(stored, s)
	}
	return stored, nil
}

func (r *payrollRepository) UpsertPayslip(ctx context.Context, slip payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx,
		`DELETE FROM payslips WHERE batch_id = $1 AND emp_id = $2`,
		slip.BatchID, slip.EmpID,
	); err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to replace payslip: %w", err)
	}
	return r.insertPayslip(ctx, q, slip)
}

func (r *payrollRepository) insertPayslip(ctx context.Context, q database.Querier, slip payroll.Payslip) (payroll.Payslip, error) {
	query := `
		INSERT INTO payslips (
			id, batch_id, employee_id, emp_id, name, designation, month,
			payable_days, present_days, approved_paid_leaves, lop_days, remaining_leave_balance,
			basic_da, hra, other_allowances, encashment, gross,
			pf, esi, pt, tds, total_deductions, net_pay, anomaly
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17,
			$18, $19, $20, $21, $22, $23, $24
		)
		RETURNING ` + payslipColumns

	res := slip.Result
	stored, err := scanPayslip(q.QueryRow(ctx, query,
		slip.ID, slip.BatchID, slip.EmployeeID, slip.EmpID, slip.Name, slip.Designation, slip.Month,
		res.PayableDays, res.PresentDays, res.ApprovedPaidLeaves, res.LOPDays, res.RemainingLeaveBalance,
		res.BasicDA, res.HRA, res.OtherAllowances, res.Encashment, res.Gross,
		res.PF, res.ESI, res.PT, res.TDS, res.TotalDeductions, res.NetPay, res.Anomaly,
	))
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to insert payslip: %w", err)
	}
	return stored, nil
}

func (r *payrollRepository) SetPayslipDocument(ctx context.Context, id string, path string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payslips SET document_path = $2 WHERE id = $1`, id, path)
	if err != nil {
		return fmt.Errorf("failed to set payslip document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayslipNotFound
	}
	return nil
}

func (r *payrollRepository) ListPayslipsByBatch(ctx context.Context, batchID string) ([]payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips
		WHERE batch_id = $1
		ORDER BY created_at ASC, emp_id ASC
	`

	rows, err := q.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	var slips []payroll.Payslip
	for rows.Next() {
		slip, err := scanPayslip(rows)
		if err != nil {
			return nil, err
		}
		slips = append(slips, slip)
	}
	return slips, rows.Err()
}

func (r *payrollRepository) GetPayslip(ctx context.Context, batchID, empID string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips
		WHERE batch_id = $1 AND LOWER(emp_id) = LOWER($2)
	`

	slip, err := scanPayslip(q.QueryRow(ctx, query, batchID, empID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, err
	}
	return slip, nil
}

func (r *payrollRepository) GetLatestApprovedPayslip(ctx context.Context, empID string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.id, p.batch_id, p.employee_id, p.emp_id, p.name, p.designation, p.month,
			   p.payable_days, p.present_days, p.approved_paid_leaves, p.lop_days, p.remaining_leave_balance,
			   p.basic_da, p.hra, p.other_allowances, p.encashment, p.gross,
			   p.pf, p.esi, p.pt, p.tds, p.total_deductions, p.net_pay, p.anomaly,
			   p.document_path, p.created_at
		FROM payslips p
		JOIN payroll_batches b ON b.id = p.batch_id
		WHERE LOWER(p.emp_id) = LOWER($1) AND b.status = $2
		ORDER BY b.approved_at DESC
		LIMIT 1
	`

	slip, err := scanPayslip(q.QueryRow(ctx, query, empID, payroll.BatchStatusApproved))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, err
	}
	return slip, nil
}

func (r *payrollRepository) CountPayslips(ctx context.Context, batchID string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payslips WHERE batch_id = $1`, batchID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count payslips: %w", err)
	}
	return count, nil
}

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var p payroll.Payslip
	res := &p.Result
	err := row.Scan(
		&p.ID, &p.BatchID, &p.EmployeeID, &p.EmpID, &p.Name, &p.Designation, &p.Month,
		&res.PayableDays, &res.PresentDays, &res.ApprovedPaidLeaves, &res.LOPDays, &res.RemainingLeaveBalance,
		&res.BasicDA, &res.HRA, &res.OtherAllowances, &res.Encashment, &res.Gross,
		&res.PF, &res.ESI, &res.PT, &res.TDS, &res.TotalDeductions, &res.NetPay, &res.Anomaly,
		&p.DocumentPath, &p.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payslip{}, err
		}
		return payroll.Payslip{}, fmt.Errorf("failed to scan payslip: %w", err)
	}
	res.EmpID = p.EmpID
	return p, nil
}

// ========== POLICIES ==========

const policyColumns = `id, pf_rate, pf_cap, esi_employee_rate, esi_threshold, pt_amount,
			   leave_encashment_enabled, encash_max_days, tds_amount, policy_text,
			   is_active, created_at, updated_at`

func (r *payrollRepository) GetActivePolicy(ctx context.Context) (payroll.PayrollPolicy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + policyColumns + `
		FROM payroll_policies
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`

	pol, err := scanPolicy(q.QueryRow(ctx, query))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollPolicy{}, payroll.ErrPolicyNotFound
		}
		return payroll.PayrollPolicy{}, err
	}
	return pol, nil
}

// ReplaceActivePolicy deactivates any current policy and inserts the new
// one as active. Old policies are kept for audit.
func (r *payrollRepository) ReplaceActivePolicy(ctx context.Context, policy payroll.PayrollPolicy) (payroll.PayrollPolicy, error) {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx,
		`UPDATE payroll_policies SET is_active = FALSE, updated_at = NOW() WHERE is_active = TRUE`,
	); err != nil {
		return payroll.PayrollPolicy{}, fmt.Errorf("failed to deactivate policies: %w", err)
	}

	query := `
		INSERT INTO payroll_policies (
			id, pf_rate, pf_cap, esi_employee_rate, esi_threshold, pt_amount,
			leave_encashment_enabled, encash_max_days, tds_amount, policy_text, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)
		RETURNING ` + policyColumns

	pol, err := scanPolicy(q.QueryRow(ctx, query,
		policy.ID, policy.PFRate, policy.PFCap, policy.ESIEmployeeRate, policy.ESIThreshold,
		policy.PTAmount, policy.LeaveEncashmentEnabled, policy.EncashMaxDays, policy.TDSAmount,
		policy.PolicyText,
	))
	if err != nil {
		return payroll.PayrollPolicy{}, fmt.Errorf("failed to insert policy: %w", err)
	}
	return pol, nil
}

func scanPolicy(row pgx.Row) (payroll.PayrollPolicy, error) {
	var p payroll.PayrollPolicy
	err := row.Scan(
		&p.ID, &p.PFRate, &p.PFCap, &p.ESIEmployeeRate, &p.ESIThreshold, &p.PTAmount,
		&p.LeaveEncashmentEnabled, &p.EncashMaxDays, &p.TDSAmount, &p.PolicyText,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollPolicy{}, err
		}
		return payroll.PayrollPolicy{}, fmt.Errorf("failed to scan payroll policy: %w", err)
	}
	return p, nil
}
