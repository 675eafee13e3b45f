package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrBatchNotFound        = errors.New("payroll batch not found")
	ErrBatchAlreadyApproved = errors.New("payroll batch already approved")
	ErrBatchNotGenerated    = errors.New("payroll batch must be generated before approval")
	ErrBatchHasNoPayslips   = errors.New("payroll batch has no payslips")
	ErrPayslipNotFound      = errors.New("payslip not found")
	ErrDocumentNotRendered  = errors.New("payslip document has not been rendered")
	ErrPolicyNotFound       = errors.New("no active payroll policy")
	ErrEmployeeNotInRoster  = errors.New("employee not found in roster")
)

// PolicyViolation reports an invalid cycle length or contradictory policy
// values. Fatal to the calculation or resolution call that raised it only;
// prior batch state is untouched.
type PolicyViolation struct {
	Reason string
}

func (e *PolicyViolation) Error() string {
	return fmt.Sprintf("policy violation: %s", e.Reason)
}
