package xl

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleWorkbook(t *testing.T) *Workbook {
	t.Helper()
	wb := NewWorkbook()
	wb.AppName = "go-plate"
	sh, err := wb.AddSheet("9x12_Table")
	require.NoError(t, err)

	sh.Cell(1, 1).SetStr("File: plate.csv")
	c := sh.Cell(2, 3)
	c.SetStr("S1_10_1")
	c.SetStyle(Style{Fill: Fill{Color: "#a1c9f4"}, Border: BorderAll(BorderThin)})
	blank := sh.Cell(3, 3)
	blank.SetStyle(Style{Border: BorderAll(BorderThin)})
	sh.Cell(4, 3).SetInt(42)
	return wb
}

func TestWriterParts(t *testing.T) {
	ms := NewMemStorage()
	w := NewWriter(ms)
	w.Created = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, w.Write(sampleWorkbook(t)))

	for _, part := range []string{
		"/[Content_Types].xml",
		"/_rels/.rels",
		"/xl/workbook.xml",
		"/xl/_rels/workbook.xml.rels",
		"/xl/styles.xml",
		"/xl/sharedStrings.xml",
		"/xl/worksheets/sheet1.xml",
		"/docProps/core.xml",
		"/docProps/app.xml",
	} {
		assert.Contains(t, ms.Parts, part)
	}

	styles := string(ms.Parts["/xl/styles.xml"])
	assert.Contains(t, styles, "FFA1C9F4")
	assert.Contains(t, styles, "solid")
	assert.Contains(t, styles, "thin")

	sheet := string(ms.Parts["/xl/worksheets/sheet1.xml"])
	assert.Contains(t, sheet, "B3")
	assert.Contains(t, sheet, "C3")
	assert.Regexp(t, `\bs=["']1["']`, sheet)
	assert.Regexp(t, `\bs=["']2["']`, sheet)

	assert.Contains(t, string(ms.Parts["/xl/workbook.xml"]), "9x12_Table")

	assert.Contains(t, string(ms.Parts["/docProps/core.xml"]), "2024-05-01T10:00:00Z")
}

func TestWriterInvalidColor(t *testing.T) {
	wb := NewWorkbook()
	sh, err := wb.AddSheet("s")
	require.NoError(t, err)
	sh.Cell(1, 1).SetStyle(Style{Fill: Fill{Color: "blue"}})

	err = NewWriter(NewMemStorage()).Write(wb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s!A1")
}

func TestWriterEmptyWorkbook(t *testing.T) {
	assert.Error(t, NewWriter(NewMemStorage()).Write(NewWorkbook()))
}

func TestWorkbookSaveZip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, sampleWorkbook(t).Save(&buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["xl/workbook.xml"])
	assert.True(t, names["[Content_Types].xml"])
}

func TestDirStorage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewWriter(NewDirStorage(dir)).Write(sampleWorkbook(t)))

	data, err := os.ReadFile(filepath.Join(dir, "xl", "sharedStrings.xml"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "S1_10_1"))
}

func TestStyleTableDedup(t *testing.T) {
	st := newStyleTable()
	a, err := st.index(Style{Fill: Fill{Color: "#ffb482"}})
	require.NoError(t, err)
	b, err := st.index(Style{Fill: Fill{Color: "FFB482"}})
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, st.fills, 3)

	d, err := st.index(Style{})
	require.NoError(t, err)
	assert.Equal(t, 0, d)
}

func TestRowAndSheetOrdering(t *testing.T) {
	wb := NewWorkbook()
	sh, err := wb.AddSheet("s")
	require.NoError(t, err)

	sh.Cell(16, 3)
	sh.Cell(2, 3)
	sh.Cell(1, 1)
	require.Len(t, sh.Rows, 2)
	assert.Equal(t, 1, sh.Rows[0].Number())
	assert.Equal(t, 3, sh.Rows[1].Number())
	assert.Equal(t, "B3", sh.Rows[1].Cells[0].Coord())
	assert.Equal(t, "P3", sh.Rows[1].Cells[1].Coord())

	next := sh.Rows[1].AddCell()
	assert.Equal(t, "Q3", next.Coord())
	assert.Equal(t, 4, sh.AddRow().Number())

	c, ok := sh.Lookup("P3")
	require.True(t, ok)
	assert.Same(t, sh.Cell(16, 3), c)
	_, ok = sh.Lookup("Z9")
	assert.False(t, ok)
}

func TestCellCoords(t *testing.T) {
	assert.Equal(t, "A", ColumnNumberAsLetters(1))
	assert.Equal(t, "O", ColumnNumberAsLetters(15))
	assert.Equal(t, "AA", ColumnNumberAsLetters(27))

	col, row, err := ParseCellCoord("AB12")
	require.NoError(t, err)
	assert.Equal(t, 28, col)
	assert.Equal(t, 12, row)

	for _, bad := range []string{"", "12", "A", "A0", "a1"} {
		_, _, err := ParseCellCoord(bad)
		assert.Error(t, err, bad)
	}
}

func TestCellValues(t *testing.T) {
	var c Cell
	c.SetFloat(0.5)
	assert.Equal(t, CellTypeNumber, c.Type())
	assert.Equal(t, "0.5", c.Value())

	c.SetStr("")
	assert.Equal(t, CellTypeUnset, c.Type())

	c.SetBool(true)
	assert.Equal(t, "1", c.Value())
}

func TestSheetNames(t *testing.T) {
	wb := NewWorkbook()
	_, err := wb.AddSheet("9x12_Table")
	require.NoError(t, err)
	_, err = wb.AddSheet("9x12_Table")
	assert.Error(t, err)
	_, err = wb.AddSheet("bad/name")
	assert.Error(t, err)
	_, ok := wb.Sheet("9x12_Table")
	assert.True(t, ok)
}
