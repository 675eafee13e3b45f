package payroll

import (
	"testing"

	"github.com/aurelhr/payroll-backend-go/internal/domain/payroll"
	"github.com/aurelhr/payroll-backend-go/internal/domain/roster"
	policyService "github.com/aurelhr/payroll-backend-go/internal/service/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoster() []roster.EmployeeRecord {
	return []roster.EmployeeRecord{
		{EmpID: "EMP-001", Name: "Asha Verma", BasicDA: d("20000"), HRA: d("8000")},
		{EmpID: "EMP-002", Name: "Ravi Nair", BasicDA: d("15000")},
		{EmpID: "EMP-003", Name: "Meera Iyer", BasicDA: d("40000"), HRA: d("16000")},
	}
}

func TestGenerateAllKeepsRosterOrder(t *testing.T) {
	orch := NewOrchestrator(NewCalculator())

	results, err := orch.GenerateAll(testRoster(), policyService.Defaults(), 30)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "EMP-001", results[0].EmpID)
	assert.Equal(t, "EMP-002", results[1].EmpID)
	assert.Equal(t, "EMP-003", results[2].EmpID)
}

func TestGenerateAllDiscardsRunOnError(t *testing.T) {
	orch := NewOrchestrator(NewCalculator())

	results, err := orch.GenerateAll(testRoster(), policyService.Defaults(), 0)
	require.Error(t, err)
	assert.Nil(t, results)
}

func TestGenerateOneNormalizesLookup(t *testing.T) {
	orch := NewOrchestrator(NewCalculator())

	// same employee under different id spellings
	for _, id := range []string{"EMP-001", "emp001", "emp-001", "EMP 001"} {
		res, err := orch.GenerateOne(testRoster(), policyService.Defaults(), 30, id)
		require.NoError(t, err, "lookup %q", id)
		assert.Equal(t, "EMP-001", res.EmpID)
	}
}

func TestGenerateOneUnknownEmployee(t *testing.T) {
	orch := NewOrchestrator(NewCalculator())

	_, err := orch.GenerateOne(testRoster(), policyService.Defaults(), 30, "EMP-999")
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotInRoster)
}

func TestGenerateOneMatchesGenerateAll(t *testing.T) {
	orch := NewOrchestrator(NewCalculator())

	all, err := orch.GenerateAll(testRoster(), policyService.Defaults(), 30)
	require.NoError(t, err)

	one, err := orch.GenerateOne(testRoster(), policyService.Defaults(), 30, "EMP-002")
	require.NoError(t, err)
	assert.Equal(t, all[1], one)
}
