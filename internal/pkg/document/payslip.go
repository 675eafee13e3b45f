package document

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aurelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/aurelhr/payroll-backend-go/internal/pkg/storage"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// PayslipRenderer lays out a payslip PDF and hands the bytes to file
// storage. It implements payroll.DocumentRenderer.
type PayslipRenderer struct {
	fileStorage storage.FileStorage
	companyName string
}

func NewPayslipRenderer(fileStorage storage.FileStorage, companyName string) *PayslipRenderer {
	if companyName == "" {
		companyName = "Payroll"
	}
	return &PayslipRenderer{fileStorage: fileStorage, companyName: companyName}
}

func (r *PayslipRenderer) RenderPayslip(ctx context.Context, slip payroll.Payslip) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, r.companyName)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Payslip for %s", slip.Month))
	pdf.Ln(12)

	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (%s)", slip.Name, slip.EmpID))
	pdf.Ln(6)
	if slip.Designation != nil {
		pdf.Cell(0, 7, fmt.Sprintf("Designation: %s", *slip.Designation))
		pdf.Ln(6)
	}
	res := slip.Result
	pdf.Cell(0, 7, fmt.Sprintf("Payable days: %s", formatDays(res.PayableDays)))
	pdf.Ln(10)

	r.section(pdf, "Earnings")
	r.row(pdf, "Basic + DA", res.BasicDA)
	r.row(pdf, "HRA", res.HRA)
	r.row(pdf, "Other Allowances", res.OtherAllowances)
	if res.Encashment.IsPositive() {
		r.row(pdf, "Leave Encashment", res.Encashment)
	}
	r.row(pdf, "Gross", res.Gross)
	pdf.Ln(4)

	r.section(pdf, "Deductions")
	r.row(pdf, "Provident Fund", res.PF)
	r.row(pdf, "ESI", res.ESI)
	r.row(pdf, "Professional Tax", res.PT)
	r.row(pdf, "TDS", res.TDS)
	r.row(pdf, "Total Deductions", res.TotalDeductions)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	r.row(pdf, "Net Pay", res.NetPay)
	if res.Anomaly {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 6, "Net pay is negative; this payslip needs review before payout.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", fmt.Errorf("failed to render payslip pdf: %w", err)
	}

	path := fmt.Sprintf("payslips/%s/%s.pdf", slip.BatchID, slip.EmpID)
	return r.fileStorage.Upload(ctx, &buf, path, "application/pdf")
}

func (r *PayslipRenderer) section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
}

func (r *PayslipRenderer) row(pdf *gofpdf.Fpdf, label string, amount decimal.Decimal) {
	pdf.Cell(90, 6, label)
	pdf.CellFormat(40, 6, amount.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(6)
}

func formatDays(days float64) string {
	if days == float64(int(days)) {
		return fmt.Sprintf("%d", int(days))
	}
	return fmt.Sprintf("%.1f", days)
}
