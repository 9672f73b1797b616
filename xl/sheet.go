package xl

import "sort"

type Sheet struct {
	Name    string
	Rows    []*Row          // sorted by row number
	Columns map[int]*Column // 1-based

	workbook      *Workbook
	nextRowNumber int // 1-based, incremented as we add rows
}

type Column struct {
	Width float32
}

// AddRow appends a row below the bottom-most existing row.
func (s *Sheet) AddRow() *Row {
	return s.Row(s.nextRowNumber)
}

// Row returns the row with the 1-based number n, creating it if needed.
func (s *Sheet) Row(n int) *Row {
	if n < 1 {
		panic("invalid row number")
	}
	i := sort.Search(len(s.Rows), func(i int) bool {
		return s.Rows[i].rowNumber >= n
	})
	if i < len(s.Rows) && s.Rows[i].rowNumber == n {
		return s.Rows[i]
	}
	r := &Row{
		sheet:            s,
		rowNumber:        n,
		nextColumnNumber: 1,
	}
	s.Rows = append(s.Rows, nil)
	copy(s.Rows[i+1:], s.Rows[i:])
	s.Rows[i] = r
	if n >= s.nextRowNumber {
		s.nextRowNumber = n + 1
	}
	return r
}

// Cell returns the cell at the 1-based column and row.
func (s *Sheet) Cell(col, row int) *Cell {
	return s.Row(row).Cell(col)
}

// Lookup finds an existing cell by its A1-style reference.
func (s *Sheet) Lookup(coord string) (*Cell, bool) {
	col, row, err := ParseCellCoord(coord)
	if err != nil {
		return nil, false
	}
	for _, r := range s.Rows {
		if r.rowNumber != row {
			continue
		}
		for _, c := range r.Cells {
			if c.columnNumber == col {
				return c, true
			}
		}
	}
	return nil, false
}

func (s *Sheet) SetColumnWidth(colNumber int, w float32) {
	if colNumber <= 0 {
		return
	}
	if w <= 0.0 {
		delete(s.Columns, colNumber)
	} else {
		c, exists := s.Columns[colNumber]
		if !exists {
			c = &Column{
				Width: w,
			}
		} else {
			c.Width = w
		}
		s.Columns[colNumber] = c
	}
}
