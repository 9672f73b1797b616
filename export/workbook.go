// Package export renders a plate session as the downloadable artifacts: a
// styled xlsx workbook of the grid and a flat CSV of the record table.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/adnsv/go-plate/plate"
	"github.com/adnsv/go-plate/xl"
)

const (
	WorkbookFileName    = "9x12_table.xlsx"
	WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	SheetName           = "9x12_Table"
	TimestampLayout     = "2006-01-02 15:04:05"

	// grid data starts at B3, the legend at O2
	firstDataRow  = 3
	firstDataCol  = 2
	legendCol     = 15
	legendTitleRw = 2
)

// LegendEntry is one category swatch.
type LegendEntry struct {
	Category string
	Color    string // #rrggbb
}

// Sheet is everything the workbook renderer needs. It carries no records,
// only what is drawn.
type Sheet struct {
	Name       string
	SourceName string
	Timestamp  time.Time
	Cells      plate.Grid // display strings
	Colors     map[plate.Position]string
	Legend     []LegendEntry
}

// SheetFromState prepares the colored grid of s for rendering.
func SheetFromState(s plate.State, now time.Time) Sheet {
	legend := make([]LegendEntry, 0, s.Colors.Len())
	for _, cat := range s.Colors.Categories() {
		c, _ := s.Colors.Color(cat)
		legend = append(legend, LegendEntry{Category: cat, Color: c})
	}
	return Sheet{
		Name:       SheetName,
		SourceName: s.SourceName,
		Timestamp:  now,
		Cells:      s.DisplayGrid(),
		Colors:     s.CellColors(),
		Legend:     legend,
	}
}

var gridBorder = xl.BorderAll(xl.BorderThin)

// BuildWorkbook lays the sheet out:
//
//	A1 file name, B1 timestamp
//	B2.. column labels, A3.. row labels
//	B3.. grid cells, bordered and filled with their color
//	O2 "Legend", O3.. category names with P3.. swatches
func BuildWorkbook(s Sheet) (*xl.Workbook, error) {
	name := s.Name
	if name == "" {
		name = SheetName
	}
	wb := xl.NewWorkbook()
	wb.AppName = "go-plate"
	sh, err := wb.AddSheet(name)
	if err != nil {
		return nil, err
	}

	sh.Cell(1, 1).SetStr("File: " + s.SourceName)
	sh.Cell(2, 1).SetStr("Date: " + s.Timestamp.Format(TimestampLayout))

	dims := s.Cells.Dims()
	for j, label := range dims.ColLabels() {
		sh.Cell(firstDataCol+j, firstDataRow-1).SetStr(label)
	}
	for i, label := range dims.RowLabels() {
		sh.Cell(1, firstDataRow+i).SetStr(label)
	}

	for _, p := range dims.Positions() {
		c := sh.Cell(firstDataCol+p.Col, firstDataRow+p.Row)
		c.SetStr(s.Cells.At(p))
		style := xl.Style{Border: gridBorder}
		if color, ok := s.Colors[p]; ok {
			style.Fill = xl.Fill{Color: color}
		}
		c.SetStyle(style)
	}

	lc := legendCol
	if last := firstDataCol + dims.Cols; lc <= last {
		lc = last + 1
	}
	title := sh.Cell(lc, legendTitleRw)
	title.SetStr("Legend")
	title.SetStyle(xl.Style{Font: xl.Font{Bold: true}})
	for i, e := range s.Legend {
		sh.Cell(lc, firstDataRow+i).SetStr(e.Category)
		sh.Cell(lc+1, firstDataRow+i).SetStyle(xl.Style{Fill: xl.Fill{Color: e.Color}, Border: gridBorder})
	}

	for j := 0; j < dims.Cols; j++ {
		sh.SetColumnWidth(firstDataCol+j, 14)
	}
	sh.SetColumnWidth(lc, 16)
	return wb, nil
}

// WriteWorkbook renders s as an xlsx package to w.
func WriteWorkbook(w io.Writer, s Sheet) error {
	wb, err := BuildWorkbook(s)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	if err := wb.Save(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
