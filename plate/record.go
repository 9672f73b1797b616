package plate

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one repetition of a source row.
type Record struct {
	SampleID      string
	SampleName    string
	Category      string
	Concentration string
	Repetition    int // 1..RepeatCount of the parent row
	Position      Position
}

func (r Record) Key() Key {
	return Key{
		SampleName:    r.SampleName,
		Category:      r.Category,
		Concentration: r.Concentration,
		Repetition:    r.Repetition,
	}
}

// DisplayValue is the label shown on the colored grid. The category is
// conveyed by the cell color so it is left out.
func (r Record) DisplayValue() string {
	return strings.Join([]string{r.SampleName, r.Concentration, strconv.Itoa(r.Repetition)}, KeyDelimiter)
}

func (row SourceRow) record(rep int, pos Position) Record {
	return Record{
		SampleID:      row.SampleID,
		SampleName:    row.SampleName,
		Category:      row.Category,
		Concentration: row.Concentration,
		Repetition:    rep,
		Position:      pos,
	}
}

func totalRepeats(rows []SourceRow) int {
	n := 0
	for _, row := range rows {
		n += row.RepeatCount
	}
	return n
}

// Expand produces RepeatCount records per source row, in source order, and
// assigns the i-th record the i-th cell in row-major order. Records past the
// grid capacity are kept with an Unplaced position.
func Expand(rows []SourceRow, dims Dims) ([]Record, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateRows(rows); err != nil {
		return nil, err
	}
	positions := dims.Positions()
	records := make([]Record, 0, totalRepeats(rows))
	for _, row := range rows {
		for rep := 1; rep <= row.RepeatCount; rep++ {
			pos := Unplaced
			if i := len(records); i < len(positions) {
				pos = positions[i]
			}
			records = append(records, row.record(rep, pos))
		}
	}
	return records, nil
}

// cursor walks the grid column first. Once the row reaches the grid height
// it stays there and nothing more is placed.
type cursor struct {
	dims Dims
	row  int
	col  int
}

func (c *cursor) done() bool {
	return c.row >= c.dims.Rows
}

func (c *cursor) advance() {
	c.col++
	if c.col >= c.dims.Cols {
		c.col = 0
		c.row++
	}
}

func (c *cursor) newline() {
	c.col = 0
	c.row++
}

// Layout places records the way an experimenter authored them: each row's
// repeats go into consecutive cells, followed by BlankCount empty cells, and
// a set Newline flag moves the cursor to the start of the next grid row,
// even when it already sits at column 1. Once the grid is exhausted every
// remaining record is kept Unplaced.
func Layout(rows []SourceRow, dims Dims) ([]Record, error) {
	if err := dims.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateRows(rows); err != nil {
		return nil, err
	}
	cur := cursor{dims: dims}
	records := make([]Record, 0, totalRepeats(rows))
	for _, row := range rows {
		for rep := 1; rep <= row.RepeatCount; rep++ {
			pos := Unplaced
			if !cur.done() {
				pos = Position{Row: cur.row, Col: cur.col}
				cur.advance()
			}
			records = append(records, row.record(rep, pos))
		}
		for b := 0; b < row.BlankCount && !cur.done(); b++ {
			cur.advance()
		}
		if row.Newline && !cur.done() {
			cur.newline()
		}
	}
	return records, nil
}

// Assign places rows with the strategy selected by v.
func Assign(v Variant, rows []SourceRow, dims Dims) ([]Record, error) {
	switch v {
	case VariantSequential, "":
		return Expand(rows, dims)
	case VariantFlagged:
		return Layout(rows, dims)
	}
	return nil, fmt.Errorf("unknown layout variant '%s'", v)
}

// UnplacedKeys lists the keys of records without a grid cell, in record order.
func UnplacedKeys(records []Record) []Key {
	var out []Key
	for _, r := range records {
		if !r.Position.Placed() {
			out = append(out, r.Key())
		}
	}
	return out
}

// CheckCapacity returns an *OverflowError when any record is unplaced.
func CheckCapacity(records []Record, dims Dims) error {
	keys := UnplacedKeys(records)
	if len(keys) == 0 {
		return nil
	}
	return &OverflowError{Capacity: dims.Capacity(), Unplaced: keys}
}
