package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "Salary"))
	require.NoError(t, f.SetSheetRow("Salary", "A1", &[]interface{}{"Emp ID", "Name", "Basic"}))
	require.NoError(t, f.SetSheetRow("Salary", "A2", &[]interface{}{"EMP-001", "Asha Verma", 20000}))

	_, err := f.NewSheet("Attendance")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Attendance", "A1", &[]interface{}{"Emp ID", "Present Days"}))
	require.NoError(t, f.SetSheetRow("Attendance", "A2", &[]interface{}{"EMP-001", 22}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestLoadReadsAllSheets(t *testing.T) {
	loader := NewExcelLoader()

	wb, err := loader.Load(buildWorkbook(t))
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 2)

	assert.Equal(t, "Salary", wb.Sheets[0].Name)
	require.Len(t, wb.Sheets[0].Rows, 2)
	assert.Equal(t, []string{"Emp ID", "Name", "Basic"}, wb.Sheets[0].Rows[0])
	assert.Equal(t, []string{"EMP-001", "Asha Verma", "20000"}, wb.Sheets[0].Rows[1])

	assert.Equal(t, "Attendance", wb.Sheets[1].Name)
}

func TestLoadRejectsNonWorkbook(t *testing.T) {
	loader := NewExcelLoader()

	_, err := loader.Load(bytes.NewReader([]byte("not an xlsx file")))
	assert.Error(t, err)
}
