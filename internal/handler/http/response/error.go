package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/aurelhr/payroll-backend-go/internal/domain/auth"
	"github.com/aurelhr/payroll-backend-go/internal/domain/employee"
	"github.com/aurelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/aurelhr/payroll-backend-go/internal/domain/roster"
	"github.com/aurelhr/payroll-backend-go/internal/domain/user"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Ingestion schema errors carry the missing column names
	var schemaErr *roster.SchemaError
	if errors.As(err, &schemaErr) {
		details := make(map[string]string, len(schemaErr.MissingFields))
		for i, field := range schemaErr.MissingFields {
			details["missing_column_"+strconv.Itoa(i+1)] = field
		}
		BadRequest(w, schemaErr.Error(), details)
		return
	}

	var policyErr *payroll.PolicyViolation
	if errors.As(err, &policyErr) {
		PolicyError(w, policyErr.Error())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrLoginNotEnabled), errors.Is(err, user.ErrLoginDisabled):
		Forbidden(w, "Login is not enabled until payroll is approved")
	case errors.Is(err, user.ErrHRPrivilegeNeeded):
		Forbidden(w, "HR privilege required")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")

	// Roster ingestion errors
	case errors.Is(err, roster.ErrNoSalarySheet):
		BadRequest(w, "No salary sheet found in uploaded workbook", nil)
	case errors.Is(err, roster.ErrEmptyRoster):
		BadRequest(w, "Salary sheet has no employee rows", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrBatchNotFound):
		NotFound(w, "Payroll batch not found")
	case errors.Is(err, payroll.ErrBatchAlreadyApproved):
		Conflict(w, "Payroll batch already approved")
	case errors.Is(err, payroll.ErrBatchNotGenerated):
		Conflict(w, "Payroll batch must be generated before approval")
	case errors.Is(err, payroll.ErrBatchHasNoPayslips):
		Conflict(w, "Payroll batch has no payslips")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrDocumentNotRendered):
		NotFound(w, "Payslip document has not been rendered")
	case errors.Is(err, payroll.ErrPolicyNotFound):
		NotFound(w, "No active payroll policy")
	case errors.Is(err, payroll.ErrEmployeeNotInRoster):
		NotFound(w, "Employee not found in batch roster")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
