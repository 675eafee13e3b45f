package policy

import (
	"fmt"

	"github.com/aurelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// Resolver merges structured policy fields and free-text policy statements
// into one canonical PayrollPolicy. Precedence, lowest to highest:
// documented defaults, structured fields, text rules. Text wins because it
// is the most recent explicit instruction in the HR workflow.
type Resolver struct{}

func NewResolver() *Resolver {
	return &Resolver{}
}

// Defaults returns the documented baseline policy.
func Defaults() payroll.PayrollPolicy {
	return payroll.PayrollPolicy{
		PFRate:          decimal.NewFromFloat(0.12),
		PFCap:           decimal.NewFromInt(1800),
		ESIEmployeeRate: decimal.NewFromFloat(0.0075),
		ESIThreshold:    decimal.NewFromInt(21000),
		PTAmount:        decimal.NewFromInt(200),
		EncashMaxDays:   10,
		TDSAmount:       decimal.Zero,
	}
}

// Resolve is pure and order-independent apart from the documented
// precedence. Unrecognized policy text is ignored, never an error.
func (r *Resolver) Resolve(req payroll.SetPolicyRequest) (payroll.PayrollPolicy, error) {
	p := Defaults()

	if req.PFRate != nil {
		p.PFRate = *req.PFRate
	}
	if req.PFCap != nil {
		p.PFCap = *req.PFCap
	}
	if req.ESIEmployeeRate != nil {
		p.ESIEmployeeRate = *req.ESIEmployeeRate
	}
	if req.ESIThreshold != nil {
		p.ESIThreshold = *req.ESIThreshold
	}
	if req.PTAmount != nil {
		p.PTAmount = *req.PTAmount
	}
	if req.LeaveEncashmentEnabled != nil {
		p.LeaveEncashmentEnabled = *req.LeaveEncashmentEnabled
	}
	if req.EncashMaxDays != nil {
		p.EncashMaxDays = *req.EncashMaxDays
	}
	if req.TDSAmount != nil {
		p.TDSAmount = *req.TDSAmount
	}

	if req.PolicyText != nil && *req.PolicyText != "" {
		applyText(&p, *req.PolicyText)
		text := *req.PolicyText
		p.PolicyText = &text
	}

	if err := validate(p); err != nil {
		return payroll.PayrollPolicy{}, err
	}
	return p, nil
}

func validate(p payroll.PayrollPolicy) error {
	checks := []struct {
		name  string
		value decimal.Decimal
	}{
		{"pf_rate", p.PFRate},
		{"pf_cap", p.PFCap},
		{"esi_employee_rate", p.ESIEmployeeRate},
		{"esi_threshold", p.ESIThreshold},
		{"pt_amount", p.PTAmount},
		{"tds_amount", p.TDSAmount},
	}
	for _, c := range checks {
		if c.value.IsNegative() {
			return &payroll.PolicyViolation{Reason: fmt.Sprintf("%s must be non-negative", c.name)}
		}
	}
	if p.EncashMaxDays < 0 {
		return &payroll.PolicyViolation{Reason: "encash_max_days must be non-negative"}
	}
	return nil
}
