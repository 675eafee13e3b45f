package policy

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aurelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// textRule recognizes one policy phrasing and applies its extracted value.
// Rules run in order against the lowercased text; unmatched rules are
// simply skipped, so unrecognized text never fails resolution.
type textRule struct {
	re    *regexp.Regexp
	apply func(p *payroll.PayrollPolicy, match []string)
}

var textRules = []textRule{
	{
		// "PT 250" / "pt amount 250"
		re: regexp.MustCompile(`\bpt\s*(?:amount\s*)?(?:of\s*)?(?:rs\.?\s*)?(\d+(?:\.\d+)?)`),
		apply: func(p *payroll.PayrollPolicy, m []string) {
			p.PTAmount = mustDecimal(m[1])
		},
	},
	{
		// any mention of encashment enables it
		re: regexp.MustCompile(`\bencash`),
		apply: func(p *payroll.PayrollPolicy, m []string) {
			p.LeaveEncashmentEnabled = true
		},
	},
	{
		// "encash unused leaves up to 10 days"
		re: regexp.MustCompile(`\bencash\w*[^.]*?up\s*to\s+(\d+)\s*days?`),
		apply: func(p *payroll.PayrollPolicy, m []string) {
			if n, err := strconv.Atoi(m[1]); err == nil {
				p.EncashMaxDays = n
			}
		},
	},
	{
		// "pf cap 1800"
		re: regexp.MustCompile(`\bpf\s*cap\s*(?:of\s*)?(\d+(?:\.\d+)?)`),
		apply: func(p *payroll.PayrollPolicy, m []string) {
			p.PFCap = mustDecimal(m[1])
		},
	},
	{
		// "pf rate 12%" or "pf rate 0.12"
		re: regexp.MustCompile(`\bpf\s*rate\s*(?:of\s*)?(\d+(?:\.\d+)?)\s*(%?)`),
		apply: func(p *payroll.PayrollPolicy, m []string) {
			p.PFRate = asRate(m[1], m[2])
		},
	},
	{
		// "esi rate 0.75%" or "esi rate 0.0075"
		re: regexp.MustCompile(`\besi\s*rate\s*(?:of\s*)?(\d+(?:\.\d+)?)\s*(%?)`),
		apply: func(p *payroll.PayrollPolicy, m []string) {
			p.ESIEmployeeRate = asRate(m[1], m[2])
		},
	},
	{
		// "esi threshold 21000"
		re: regexp.MustCompile(`\besi\s*threshold\s*(?:of\s*)?(\d+(?:\.\d+)?)`),
		apply: func(p *payroll.PayrollPolicy, m []string) {
			p.ESIThreshold = mustDecimal(m[1])
		},
	},
	{
		// "tds 500"
		re: regexp.MustCompile(`\btds\s*(?:of\s*)?(?:rs\.?\s*)?(\d+(?:\.\d+)?)`),
		apply: func(p *payroll.PayrollPolicy, m []string) {
			p.TDSAmount = mustDecimal(m[1])
		},
	},
}

// applyText runs the rule table over the free-text policy statement.
func applyText(p *payroll.PayrollPolicy, text string) {
	lower := strings.ToLower(text)
	for _, rule := range textRules {
		if m := rule.re.FindStringSubmatch(lower); m != nil {
			rule.apply(p, m)
		}
	}
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// asRate interprets a numeric token as a fraction: an explicit percent
// sign, or any value above 1, is divided by 100.
func asRate(s, percent string) decimal.Decimal {
	d := mustDecimal(s)
	if percent == "%" || d.GreaterThan(decimal.NewFromInt(1)) {
		return d.Div(decimal.NewFromInt(100))
	}
	return d
}
