package xl

import (
	"fmt"
	"sort"
	"strconv"
)

type Row struct {
	Cells []*Cell // sorted by column number

	Height float32 // when Height=0, use default ~30?

	sheet            *Sheet
	rowNumber        int // 1-based
	nextColumnNumber int // 1-based, incremented as we add cells
}

func (r *Row) Number() int { return r.rowNumber }

// AddCell appends a cell after the right-most existing cell.
func (r *Row) AddCell() *Cell {
	return r.Cell(r.nextColumnNumber)
}

// Cell returns the cell at the 1-based column number, creating it if needed.
func (r *Row) Cell(col int) *Cell {
	if col < 1 {
		panic("invalid column number")
	}
	i := sort.Search(len(r.Cells), func(i int) bool {
		return r.Cells[i].columnNumber >= col
	})
	if i < len(r.Cells) && r.Cells[i].columnNumber == col {
		return r.Cells[i]
	}
	c := &Cell{
		row:          r,
		columnNumber: col,
		coord:        CellCoordAsString(col, r.rowNumber),
	}
	r.Cells = append(r.Cells, nil)
	copy(r.Cells[i+1:], r.Cells[i:])
	r.Cells[i] = c
	if col >= r.nextColumnNumber {
		r.nextColumnNumber = col + 1
	}
	return c
}

func ColumnNumberAsLetters(n int) string {
	if n < 1 {
		panic("invalid column number")
	}
	var s string
	for n > 0 {
		s = string(rune((n-1)%26+65)) + s
		n = (n - 1) / 26
	}
	return s
}

func CellCoordAsString(col, row int) string {
	if row < 0 {
		panic("invalid row number")
	}
	return ColumnNumberAsLetters(col) + strconv.Itoa(row)
}

// ParseCellCoord splits an A1-style reference into 1-based column and row.
func ParseCellCoord(coord string) (col, row int, err error) {
	i := 0
	for i < len(coord) && coord[i] >= 'A' && coord[i] <= 'Z' {
		col = col*26 + int(coord[i]-'A'+1)
		i++
	}
	if i == 0 || i == len(coord) {
		return 0, 0, fmt.Errorf("invalid cell reference '%s'", coord)
	}
	row, err = strconv.Atoi(coord[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("invalid cell reference '%s'", coord)
	}
	return col, row, nil
}
