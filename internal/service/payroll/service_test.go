package payroll

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aurelhr/payroll-backend-go/internal/domain/employee"
	"github.com/aurelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/aurelhr/payroll-backend-go/internal/domain/roster"
	policyService "github.com/aurelhr/payroll-backend-go/internal/service/policy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCycleExplicit(t *testing.T) {
	month, cycleDays, err := resolveCycle("January 2026", 30)
	require.NoError(t, err)
	assert.Equal(t, "January 2026", month)
	assert.Equal(t, 30, cycleDays)
}

func TestResolveCycleDefaultsDaysFromMonth(t *testing.T) {
	tests := []struct {
		month string
		days  int
	}{
		{"January 2026", 31},
		{"February 2026", 28},
		{"February 2028", 29}, // leap year
		{"April 2026", 30},
	}

	for _, tt := range tests {
		_, cycleDays, err := resolveCycle(tt.month, 0)
		require.NoError(t, err, tt.month)
		assert.Equal(t, tt.days, cycleDays, tt.month)
	}
}

func TestResolveCycleRejectsBadMonth(t *testing.T) {
	_, _, err := resolveCycle("2026-01", 0)
	assert.Error(t, err)
}

func TestResolveCycleDefaultsToCurrentMonth(t *testing.T) {
	month, cycleDays, err := resolveCycle("", 0)
	require.NoError(t, err)
	assert.NotEmpty(t, month)
	assert.GreaterOrEqual(t, cycleDays, 28)
	assert.LessOrEqual(t, cycleDays, 31)
}

func TestApproveResponseCarriesStoredTimestamp(t *testing.T) {
	// 10:30 IST is 05:00 UTC; the response must reflect the time the
	// database recorded, not the app clock.
	storedAt := time.Date(2026, 3, 1, 10, 30, 0, 0, time.FixedZone("IST", 19800))

	resp := mapToApproveResponse("batch-1", storedAt, 5)

	assert.Equal(t, "batch-1", resp.BatchID)
	assert.Equal(t, "2026-03-01T05:00:00Z", resp.ApprovedAt)
	assert.Equal(t, 5, resp.EmployeesEnabled)
}

// ========== IN-MEMORY REPOS ==========

type memPayrollRepo struct {
	batch payroll.PayrollBatch
	slips map[string]payroll.Payslip
}

func newMemPayrollRepo(batch payroll.PayrollBatch) *memPayrollRepo {
	return &memPayrollRepo{batch: batch, slips: make(map[string]payroll.Payslip)}
}

func (r *memPayrollRepo) CreateBatch(ctx context.Context, batch payroll.PayrollBatch) (payroll.PayrollBatch, error) {
	r.batch = batch
	return batch, nil
}

func (r *memPayrollRepo) GetBatchByID(ctx context.Context, id string) (payroll.PayrollBatch, error) {
	if id != r.batch.ID {
		return payroll.PayrollBatch{}, payroll.ErrBatchNotFound
	}
	return r.batch, nil
}

func (r *memPayrollRepo) GetCurrentBatch(ctx context.Context) (payroll.PayrollBatch, error) {
	return r.batch, nil
}

func (r *memPayrollRepo) MarkBatchGenerated(ctx context.Context, id string, totalAmount decimal.Decimal) error {
	return nil
}

func (r *memPayrollRepo) MarkBatchApproved(ctx context.Context, id string, approvedBy string) (time.Time, error) {
	return time.Now(), nil
}

func (r *memPayrollRepo) ReplacePayslips(ctx context.Context, batchID string, slips []payroll.Payslip) ([]payroll.Payslip, error) {
	for _, slip := range slips {
		r.slips[strings.ToLower(slip.EmpID)] = slip
	}
	return slips, nil
}

func (r *memPayrollRepo) UpsertPayslip(ctx context.Context, slip payroll.Payslip) (payroll.Payslip, error) {
	r.slips[strings.ToLower(slip.EmpID)] = slip
	return slip, nil
}

func (r *memPayrollRepo) SetPayslipDocument(ctx context.Context, id string, path string) error {
	for key, slip := range r.slips {
		if slip.ID == id {
			slip.DocumentPath = &path
			r.slips[key] = slip
		}
	}
	return nil
}

func (r *memPayrollRepo) ListPayslipsByBatch(ctx context.Context, batchID string) ([]payroll.Payslip, error) {
	var out []payroll.Payslip
	for _, slip := range r.slips {
		out = append(out, slip)
	}
	return out, nil
}

func (r *memPayrollRepo) GetPayslip(ctx context.Context, batchID, empID string) (payroll.Payslip, error) {
	slip, ok := r.slips[strings.ToLower(empID)]
	if !ok {
		return payroll.Payslip{}, payroll.ErrPayslipNotFound
	}
	return slip, nil
}

func (r *memPayrollRepo) GetLatestApprovedPayslip(ctx context.Context, empID string) (payroll.Payslip, error) {
	return r.GetPayslip(ctx, "", empID)
}

func (r *memPayrollRepo) CountPayslips(ctx context.Context, batchID string) (int, error) {
	return len(r.slips), nil
}

func (r *memPayrollRepo) GetActivePolicy(ctx context.Context) (payroll.PayrollPolicy, error) {
	return payroll.PayrollPolicy{}, payroll.ErrPolicyNotFound
}

func (r *memPayrollRepo) ReplaceActivePolicy(ctx context.Context, policy payroll.PayrollPolicy) (payroll.PayrollPolicy, error) {
	return policy, nil
}

type memEmployeeRepo struct {
	rows []employee.Employee
	// exactLookups counts GetByBatchAndEmpID calls so tests can tell the
	// direct lookup path from the normalized scan.
	exactLookups int
}

func (r *memEmployeeRepo) InsertForBatch(ctx context.Context, batchID string, employees []employee.Employee) ([]employee.Employee, error) {
	r.rows = append(r.rows, employees...)
	return employees, nil
}

func (r *memEmployeeRepo) GetByBatchID(ctx context.Context, batchID string) ([]employee.Employee, error) {
	return r.rows, nil
}

func (r *memEmployeeRepo) GetByBatchAndEmpID(ctx context.Context, batchID, empID string) (employee.Employee, error) {
	r.exactLookups++
	for _, row := range r.rows {
		if strings.EqualFold(row.EmpID, empID) {
			return row, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

type memFileStorage struct {
	files map[string][]byte
}

func newMemFileStorage() *memFileStorage {
	return &memFileStorage{files: make(map[string][]byte)}
}

func (s *memFileStorage) Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	s.files[path] = data
	return path, nil
}

func (s *memFileStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, payroll.ErrPayslipNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memFileStorage) Delete(ctx context.Context, path string) error {
	delete(s.files, path)
	return nil
}

// ========== REGENERATION ==========

func regenFixture() (payroll.PayrollService, *memPayrollRepo, *memEmployeeRepo) {
	pRepo := newMemPayrollRepo(payroll.PayrollBatch{
		ID:        "batch-1",
		Month:     "January 2026",
		CycleDays: 30,
		Status:    payroll.BatchStatusGenerated,
	})
	eRepo := &memEmployeeRepo{rows: []employee.Employee{
		{ID: "row-1", BatchID: "batch-1", EmpID: "EMP-001", Name: "Asha Verma", BasicDA: d("20000"), HRA: d("8000")},
		{ID: "row-2", BatchID: "batch-1", EmpID: "EMP-002", Name: "Ravi Nair", BasicDA: d("15000")},
	}}
	svc := NewPayrollService(nil, pRepo, eRepo, nil, nil, newMemFileStorage(), nil)
	return svc, pRepo, eRepo
}

func TestRegenerateSlipResolvesStoredRowDirectly(t *testing.T) {
	svc, _, eRepo := regenFixture()

	resp, err := svc.RegenerateSlip(context.Background(), "batch-1", "EMP-001")
	require.NoError(t, err)

	assert.Equal(t, "EMP-001", resp.EmpID)
	assert.Equal(t, "Asha Verma", resp.Name)
	assert.Equal(t, 1, eRepo.exactLookups)

	orch := NewOrchestrator(NewCalculator())
	expected, err := orch.GenerateOne([]roster.EmployeeRecord{
		{EmpID: "EMP-001", Name: "Asha Verma", BasicDA: d("20000"), HRA: d("8000")},
		{EmpID: "EMP-002", Name: "Ravi Nair", BasicDA: d("15000")},
	}, policyService.Defaults(), 30, "EMP-001")
	require.NoError(t, err)
	assertAmount(t, expected.NetPay.String(), resp.NetPay, "net_pay")
}

func TestRegenerateSlipNormalizedFallback(t *testing.T) {
	svc, pRepo, eRepo := regenFixture()

	// "emp001" misses the stored "EMP-001" on an exact lookup but must
	// still resolve through punctuation-insensitive matching.
	resp, err := svc.RegenerateSlip(context.Background(), "batch-1", "emp001")
	require.NoError(t, err)

	assert.Equal(t, "EMP-001", resp.EmpID)
	assert.Equal(t, 1, eRepo.exactLookups)

	stored, err := pRepo.GetPayslip(context.Background(), "batch-1", "EMP-001")
	require.NoError(t, err)
	assert.Equal(t, "row-1", stored.EmployeeID)
}

func TestRegenerateSlipUnknownEmployee(t *testing.T) {
	svc, _, _ := regenFixture()

	_, err := svc.RegenerateSlip(context.Background(), "batch-1", "EMP-999")
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotInRoster)
}

// ========== DOCUMENT DOWNLOAD ==========

func TestDownloadPayslipStreamsStoredDocument(t *testing.T) {
	pRepo := newMemPayrollRepo(payroll.PayrollBatch{ID: "batch-1", Status: payroll.BatchStatusGenerated})
	store := newMemFileStorage()
	pdfBytes := []byte("%PDF-1.3 rendered payslip")
	store.files["payslips/batch-1/EMP-001.pdf"] = pdfBytes

	docPath := "payslips/batch-1/EMP-001.pdf"
	pRepo.slips["emp-001"] = payroll.Payslip{
		ID:           "slip-1",
		BatchID:      "batch-1",
		EmpID:        "EMP-001",
		DocumentPath: &docPath,
	}

	svc := NewPayrollService(nil, pRepo, &memEmployeeRepo{}, nil, nil, store, nil)

	doc, err := svc.DownloadPayslip(context.Background(), "batch-1", "EMP-001")
	require.NoError(t, err)
	defer doc.Content.Close()

	assert.Equal(t, "EMP-001.pdf", doc.FileName)
	assert.Equal(t, "application/pdf", doc.ContentType)

	data, err := io.ReadAll(doc.Content)
	require.NoError(t, err)
	assert.Equal(t, pdfBytes, data)
}

func TestDownloadPayslipWithoutDocument(t *testing.T) {
	pRepo := newMemPayrollRepo(payroll.PayrollBatch{ID: "batch-1"})
	pRepo.slips["emp-001"] = payroll.Payslip{ID: "slip-1", BatchID: "batch-1", EmpID: "EMP-001"}

	svc := NewPayrollService(nil, pRepo, &memEmployeeRepo{}, nil, nil, newMemFileStorage(), nil)

	_, err := svc.DownloadPayslip(context.Background(), "batch-1", "EMP-001")
	assert.ErrorIs(t, err, payroll.ErrDocumentNotRendered)
}

// ========== EMPLOYEE LISTING ==========

func TestListEmployeesDefaultsToCurrentBatch(t *testing.T) {
	pRepo := newMemPayrollRepo(payroll.PayrollBatch{ID: "batch-1"})
	eRepo := &memEmployeeRepo{rows: []employee.Employee{
		{ID: "row-1", BatchID: "batch-1", EmpID: "EMP-001", Name: "Asha Verma", BasicDA: d("20000")},
		{ID: "row-2", BatchID: "batch-1", EmpID: "EMP-002", Name: "Ravi Nair", BasicDA: d("15000")},
	}}
	svc := NewPayrollService(nil, pRepo, eRepo, nil, nil, newMemFileStorage(), nil)

	resp, err := svc.ListEmployees(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "batch-1", resp.BatchID)
	assert.Equal(t, 2, resp.Total)
	require.Len(t, resp.Employees, 2)
	assert.Equal(t, "EMP-001", resp.Employees[0].EmpID)
	assertAmount(t, "20000", resp.Employees[0].BasicDA, "basic_da")
}
