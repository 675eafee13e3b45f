package document

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aurelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	files map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: map[string][]byte{}}
}

func (m *memoryStorage) Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	m.files[path] = data
	return path, nil
}

func (m *memoryStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(m.files[path])), nil
}

func (m *memoryStorage) Delete(ctx context.Context, path string) error {
	delete(m.files, path)
	return nil
}

func testSlip() payroll.Payslip {
	designation := "Engineer"
	return payroll.Payslip{
		ID:          "slip-1",
		BatchID:     "batch-1",
		EmpID:       "EMP-001",
		Name:        "Asha Verma",
		Designation: &designation,
		Month:       "January 2026",
		Result: payroll.PayslipResult{
			EmpID:           "EMP-001",
			PayableDays:     30,
			BasicDA:         decimal.NewFromInt(20000),
			HRA:             decimal.NewFromInt(8000),
			OtherAllowances: decimal.NewFromInt(2000),
			Gross:           decimal.NewFromInt(30000),
			PF:              decimal.NewFromInt(216),
			PT:              decimal.NewFromInt(200),
			TotalDeductions: decimal.NewFromInt(416),
			NetPay:          decimal.NewFromInt(29584),
		},
	}
}

func TestRenderPayslipStoresPDF(t *testing.T) {
	store := newMemoryStorage()
	renderer := NewPayslipRenderer(store, "Aurel HR")

	path, err := renderer.RenderPayslip(context.Background(), testSlip())
	require.NoError(t, err)
	assert.Equal(t, "payslips/batch-1/EMP-001.pdf", path)

	data := store.files[path]
	require.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "stored file is not a PDF")
}

func TestRenderPayslipAnomalyNote(t *testing.T) {
	store := newMemoryStorage()
	renderer := NewPayslipRenderer(store, "Aurel HR")

	slip := testSlip()
	slip.Result.NetPay = decimal.NewFromInt(-200)
	slip.Result.Anomaly = true

	path, err := renderer.RenderPayslip(context.Background(), slip)
	require.NoError(t, err)
	assert.NotEmpty(t, store.files[path])
}
