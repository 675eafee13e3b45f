package roster

import "io"

// Sheet is one tab of an uploaded workbook. Cells arrive as raw strings,
// exactly as the spreadsheet loader read them; numeric coercion happens
// during ingestion, not here.
type Sheet struct {
	Name string
	Rows [][]string // Rows[0] is the header row when the sheet is non-empty
}

// Workbook is the already-parsed form of an uploaded extract. The
// ingestion engine never opens files itself; a Loader hands it a Workbook.
type Workbook struct {
	Sheets []Sheet
}

// Loader opens a spreadsheet stream and returns its cell contents.
type Loader interface {
	Load(r io.Reader) (Workbook, error)
}
