package payroll

import (
	"fmt"

	"github.com/aurelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/aurelhr/payroll-backend-go/internal/domain/roster"
	"github.com/shopspring/decimal"
)

// Calculator derives one employee's payslip from their record and the
// cycle policy. It is a pure function of its inputs: no clock, no
// counters, so recomputing with the same inputs is bit-identical.
//
// Rounding: every monetary line item is rounded half-up exactly once. PF
// and ESI round to the whole currency unit, as statutory deductions are
// filed; all other line items round to two decimal places. Totals are
// identities over the rounded items and are never re-rounded.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

func (c *Calculator) Calculate(rec roster.EmployeeRecord, pol payroll.PayrollPolicy, cycleDays int) (payroll.PayslipResult, error) {
	if cycleDays <= 0 {
		return payroll.PayslipResult{}, &payroll.PolicyViolation{Reason: fmt.Sprintf("cycle days must be positive, got %d", cycleDays)}
	}

	res := payroll.PayslipResult{EmpID: rec.EmpID}
	cycle := decimal.NewFromInt(int64(cycleDays))

	// Payable days: LOP days are excluded; no attendance means fully
	// payable for the cycle.
	var payable decimal.Decimal
	if rec.Attendance != nil {
		att := rec.Attendance
		res.PresentDays = att.PresentDays
		res.ApprovedPaidLeaves = att.ApprovedPaidLeaves
		res.LOPDays = att.LOPDays
		res.RemainingLeaveBalance = att.RemainingLeaveBalance
		payable = decimal.NewFromFloat(att.PresentDays).Add(decimal.NewFromFloat(att.ApprovedPaidLeaves))
	} else {
		res.PresentDays = float64(cycleDays)
		payable = cycle
	}
	res.PayableDays, _ = payable.Float64()

	// Prorate earnings. At full attendance the factor is exactly 1 and the
	// originals pass through unchanged.
	if rec.Attendance != nil {
		res.BasicDA = prorate(rec.BasicDA, payable, cycle)
		res.HRA = prorate(rec.HRA, payable, cycle)
		res.OtherAllowances = prorate(rec.OtherAllowances, payable, cycle)
	} else {
		res.BasicDA = rec.BasicDA.Round(2)
		res.HRA = rec.HRA.Round(2)
		res.OtherAllowances = rec.OtherAllowances.Round(2)
	}

	// Leave encashment: unused balance paid at the prorated basic day rate,
	// capped by policy.
	res.Encashment = decimal.Zero
	if pol.LeaveEncashmentEnabled && res.RemainingLeaveBalance > 0 && payable.IsPositive() {
		encashDays := decimal.NewFromFloat(res.RemainingLeaveBalance)
		maxDays := decimal.NewFromInt(int64(pol.EncashMaxDays))
		if encashDays.GreaterThan(maxDays) {
			encashDays = maxDays
		}
		perDay := res.BasicDA.Div(payable)
		res.Encashment = perDay.Mul(encashDays).Round(2)
	}

	res.Gross = res.BasicDA.Add(res.HRA).Add(res.OtherAllowances).Add(res.Encashment)

	// PF on the capped prorated basic.
	pfBase := res.BasicDA
	if pfBase.GreaterThan(pol.PFCap) {
		pfBase = pol.PFCap
	}
	res.PF = pfBase.Mul(pol.PFRate).Round(0)

	// ESI is an all-or-nothing eligibility cutoff at the gross threshold.
	res.ESI = decimal.Zero
	if res.Gross.LessThanOrEqual(pol.ESIThreshold) {
		res.ESI = res.Gross.Mul(pol.ESIEmployeeRate).Round(0)
	}

	// PT is an unconditional flat deduction.
	res.PT = pol.PTAmount.Round(2)

	// TDS is taken as supplied, never computed: the roster figure when one
	// was given, otherwise the policy's flat amount.
	if rec.TDS.IsPositive() {
		res.TDS = rec.TDS.Round(2)
	} else {
		res.TDS = pol.TDSAmount.Round(2)
	}

	res.TotalDeductions = res.PF.Add(res.ESI).Add(res.PT).Add(res.TDS)
	res.NetPay = res.Gross.Sub(res.TotalDeductions)
	res.Anomaly = res.NetPay.IsNegative()

	return res, nil
}

func prorate(amount, payable, cycle decimal.Decimal) decimal.Decimal {
	return amount.Mul(payable).Div(cycle).Round(2)
}
