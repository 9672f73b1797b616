package plate

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/adnsv/go-plate/internal/csvio"
)

// Grid holds one string per cell. The zero value of a cell is "" (empty).
type Grid struct {
	dims  Dims
	cells []string
}

func NewGrid(d Dims) Grid {
	return Grid{dims: d, cells: make([]string, d.Capacity())}
}

func (g Grid) Dims() Dims { return g.dims }

func (g Grid) At(p Position) string {
	if !g.dims.Contains(p) {
		return ""
	}
	return g.cells[p.Row*g.dims.Cols+p.Col]
}

// Set stores s at p; positions outside the grid are ignored.
func (g Grid) Set(p Position, s string) {
	if g.dims.Contains(p) {
		g.cells[p.Row*g.dims.Cols+p.Col] = s
	}
}

func (g Grid) Clone() Grid {
	return Grid{dims: g.dims, cells: append([]string(nil), g.cells...)}
}

func (g Grid) Equal(o Grid) bool {
	if g.dims != o.dims {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// Rows returns a copy of the cells as one slice per grid row.
func (g Grid) Rows() [][]string {
	out := make([][]string, g.dims.Rows)
	for r := range out {
		out[r] = append([]string(nil), g.cells[r*g.dims.Cols:(r+1)*g.dims.Cols]...)
	}
	return out
}

// labelGrid renders records through label. When two records share a cell
// the first one in record order is shown.
func labelGrid(records []Record, dims Dims, label func(Record) string) Grid {
	g := NewGrid(dims)
	filled := map[Position]bool{}
	for _, r := range records {
		if !dims.Contains(r.Position) || filled[r.Position] {
			continue
		}
		filled[r.Position] = true
		g.Set(r.Position, label(r))
	}
	return g
}

// EditableGrid renders each record's key label at its position. This is the
// grid handed to the user for editing.
func EditableGrid(records []Record, dims Dims) Grid {
	return labelGrid(records, dims, func(r Record) string { return r.Key().String() })
}

// DisplayGrid renders each record's display value at its position.
func DisplayGrid(records []Record, dims Dims) Grid {
	return labelGrid(records, dims, Record.DisplayValue)
}

// WriteGridCSV writes g with a header of column labels and one line per
// grid row, the row label first. The output carries a UTF-8 BOM.
func WriteGridCSV(w io.Writer, g Grid) error {
	cw := csvio.NewWriter(w)
	header := append([]string{""}, g.dims.ColLabels()...)
	if err := cw.Write(header); err != nil {
		return err
	}
	for r, cells := range g.Rows() {
		if err := cw.Write(append([]string{RowLabel(r)}, cells...)); err != nil {
			return err
		}
	}
	return cw.Close()
}

// ReadGridCSV parses a grid in the WriteGridCSV layout. Rows and columns may
// appear in any order or be missing; unknown labels fail with *SchemaError.
func ReadGridCSV(r io.Reader, dims Dims) (Grid, error) {
	recs, err := csvio.NewReader(r).ReadAll()
	if err != nil {
		return Grid{}, &SchemaError{Reason: err.Error()}
	}
	if len(recs) == 0 {
		return Grid{}, &SchemaError{Reason: "empty grid file"}
	}

	cols := make([]int, len(recs[0]))
	for i, h := range recs[0] {
		cols[i] = -1
		if i == 0 {
			continue
		}
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		n, err := strconv.Atoi(h)
		if err != nil || n < 1 || n > dims.Cols {
			return Grid{}, &SchemaError{Reason: fmt.Sprintf("unknown grid column '%s'", h)}
		}
		cols[i] = n - 1
	}

	g := NewGrid(dims)
	seen := map[int]bool{}
	for _, rec := range recs[1:] {
		if blankRecord(rec) {
			continue
		}
		row, err := ParseRowLabel(rec[0])
		if err != nil || row >= dims.Rows {
			return Grid{}, &SchemaError{Reason: fmt.Sprintf("unknown grid row '%s'", rec[0])}
		}
		if seen[row] {
			return Grid{}, &SchemaError{Reason: fmt.Sprintf("duplicate grid row '%s'", rec[0])}
		}
		seen[row] = true
		for i := 1; i < len(rec); i++ {
			v := strings.TrimSpace(rec[i])
			if i >= len(cols) || cols[i] < 0 {
				if v != "" {
					return Grid{}, &SchemaError{Reason: fmt.Sprintf("value %q in row %s has no column", v, RowLabel(row))}
				}
				continue
			}
			g.Set(Position{Row: row, Col: cols[i]}, v)
		}
	}
	return g, nil
}
