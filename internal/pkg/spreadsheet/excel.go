package spreadsheet

import (
	"fmt"
	"io"

	"github.com/aurelhr/payroll-backend-go/internal/domain/roster"
	"github.com/xuri/excelize/v2"
)

// ExcelLoader reads an xlsx stream into the cell model the ingestion
// engine consumes. It is the only place the backend touches spreadsheet
// files.
type ExcelLoader struct{}

func NewExcelLoader() *ExcelLoader {
	return &ExcelLoader{}
}

func (l *ExcelLoader) Load(r io.Reader) (roster.Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return roster.Workbook{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var wb roster.Workbook
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return roster.Workbook{}, fmt.Errorf("failed to read sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, roster.Sheet{Name: name, Rows: rows})
	}

	return wb, nil
}
