package export

import (
	"bytes"
	"time"

	"github.com/adnsv/go-plate/plate"
)

// Render produces the record table CSV and the grid workbook for s.
func Render(s plate.State, now time.Time) ([]Artifact, error) {
	var csvBuf bytes.Buffer
	if err := WriteCSV(&csvBuf, s.Records); err != nil {
		return nil, err
	}
	var xlsxBuf bytes.Buffer
	if err := WriteWorkbook(&xlsxBuf, SheetFromState(s, now)); err != nil {
		return nil, err
	}
	return []Artifact{
		{Name: CSVFileName, ContentType: CSVContentType, Data: csvBuf.Bytes()},
		{Name: WorkbookFileName, ContentType: WorkbookContentType, Data: xlsxBuf.Bytes()},
	}, nil
}
