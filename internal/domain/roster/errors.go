package roster

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoSalarySheet = errors.New("no salary sheet found in workbook")
	ErrEmptyRoster   = errors.New("no employee rows found in salary sheet")
)

// SchemaError reports required columns the salary sheet does not carry
// under any accepted header synonym. Fatal to ingestion of that upload.
type SchemaError struct {
	MissingFields []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("salary sheet is missing required columns: %s", strings.Join(e.MissingFields, ", "))
}

// RowWarning records a single malformed row. The row is excluded or its
// bad field defaulted, and ingestion continues; warnings never abort a
// batch.
type RowWarning struct {
	Row     int    `json:"row"` // 1-based row number in the source sheet
	EmpID   string `json:"emp_id,omitempty"`
	Message string `json:"message"`
}
