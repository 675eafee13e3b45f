package postgresql

import (
	"context"
	"fmt"

	"github.com/aurelhr/payroll-backend-go/internal/domain/employee"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepository{db: db}
}

const employeeColumns = `id, batch_id, emp_id, name, designation, department, email,
			   basic_da, hra, other_allowances, tds,
			   has_attendance, present_days, approved_paid_leaves, lop_days, remaining_leave_balance,
			   created_at`

func (r *employeeRepository) InsertForBatch(ctx context.Context, batchID string, employees []employee.Employee) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO batch_employees (
			id, batch_id, emp_id, name, designation, department, email,
			basic_da, hra, other_allowances, tds,
			has_attendance, present_days, approved_paid_leaves, lop_days, remaining_leave_balance
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11,
			$12, $13, $14, $15, $16
		)
		RETURNING ` + employeeColumns

	stored := make([]employee.Employee, 0, len(employees))
	for _, emp := range employees {
		e, err := scanEmployee(q.QueryRow(ctx, query,
			emp.ID, batchID, emp.EmpID, emp.Name, emp.Designation, emp.Department, emp.Email,
			emp.BasicDA, emp.HRA, emp.OtherAllowances, emp.TDS,
			emp.HasAttendance, emp.PresentDays, emp.ApprovedPaidLeaves, emp.LOPDays, emp.RemainingLeaveBalance,
		))
		if err != nil {
			return nil, fmt.Errorf("failed to insert batch employee: %w", err)
		}
		stored = append(stored, e)
	}
	return stored, nil
}

func (r *employeeRepository) GetByBatchID(ctx context.Context, batchID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	// created_at ties are broken by insert order via the serial column.
	query := `
		SELECT ` + employeeColumns + `
		FROM batch_employees
		WHERE batch_id = $1
		ORDER BY row_seq ASC
	`

	rows, err := q.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list batch employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

func (r *employeeRepository) GetByBatchAndEmpID(ctx context.Context, batchID, empID string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM batch_employees
		WHERE batch_id = $1 AND LOWER(emp_id) = LOWER($2)
	`

	e, err := scanEmployee(q.QueryRow(ctx, query, batchID, empID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get batch employee: %w", err)
	}
	return e, nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var e employee.Employee
	err := row.Scan(
		&e.ID, &e.BatchID, &e.EmpID, &e.Name, &e.Designation, &e.Department, &e.Email,
		&e.BasicDA, &e.HRA, &e.OtherAllowances, &e.TDS,
		&e.HasAttendance, &e.PresentDays, &e.ApprovedPaidLeaves, &e.LOPDays, &e.RemainingLeaveBalance,
		&e.CreatedAt,
	)
	return e, err
}
