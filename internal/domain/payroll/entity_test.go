package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchCanGenerate(t *testing.T) {
	tests := []struct {
		status  BatchStatus
		wantErr error
	}{
		{BatchStatusDraft, nil},
		{BatchStatusGenerated, nil}, // regeneration before approval is fine
		{BatchStatusApproved, ErrBatchAlreadyApproved},
	}

	for _, tt := range tests {
		b := PayrollBatch{Status: tt.status}
		err := b.CanGenerate()
		if tt.wantErr == nil {
			assert.NoError(t, err, "status %s", tt.status)
		} else {
			assert.ErrorIs(t, err, tt.wantErr, "status %s", tt.status)
		}
	}
}

func TestBatchCanApprove(t *testing.T) {
	tests := []struct {
		name         string
		status       BatchStatus
		payslipCount int
		wantErr      error
	}{
		{"draft cannot approve", BatchStatusDraft, 5, ErrBatchNotGenerated},
		{"generated with payslips", BatchStatusGenerated, 5, nil},
		{"generated without payslips", BatchStatusGenerated, 0, ErrBatchHasNoPayslips},
		{"already approved", BatchStatusApproved, 5, ErrBatchAlreadyApproved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := PayrollBatch{Status: tt.status}
			err := b.CanApprove(tt.payslipCount)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
