package payroll

import (
	"github.com/aurelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/aurelhr/payroll-backend-go/internal/domain/roster"
)

// Orchestrator runs the calculator across a roster. Per-employee
// calculations are independent; the all-or-nothing contract is that no
// results are reported unless every employee computed successfully, so a
// failed run leaves the batch in draft.
type Orchestrator struct {
	calc *Calculator
}

func NewOrchestrator(calc *Calculator) *Orchestrator {
	return &Orchestrator{calc: calc}
}

// GenerateAll computes every employee's payslip, in roster order. Any
// error discards the whole run.
func (o *Orchestrator) GenerateAll(records []roster.EmployeeRecord, pol payroll.PayrollPolicy, cycleDays int) ([]payroll.PayslipResult, error) {
	results := make([]payroll.PayslipResult, 0, len(records))
	for _, rec := range records {
		res, err := o.calc.Calculate(rec, pol, cycleDays)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// GenerateOne recomputes a single employee, looked up by
// case/format-insensitive id. With unchanged roster and policy the result
// is field-for-field identical on every call.
func (o *Orchestrator) GenerateOne(records []roster.EmployeeRecord, pol payroll.PayrollPolicy, cycleDays int, empID string) (payroll.PayslipResult, error) {
	want := roster.NormalizeID(empID)
	for _, rec := range records {
		if roster.NormalizeID(rec.EmpID) == want {
			return o.calc.Calculate(rec, pol, cycleDays)
		}
	}
	return payroll.PayslipResult{}, payroll.ErrEmployeeNotInRoster
}
