package plate

import (
	"fmt"
	"strconv"
	"strings"
)

// Dims is the size of a plate grid.
type Dims struct {
	Rows int
	Cols int
}

var (
	Dims10x12 = Dims{Rows: 10, Cols: 12} // rows A..J
	Dims9x12  = Dims{Rows: 9, Cols: 12}  // rows A..I
)

func (d Dims) Capacity() int {
	return d.Rows * d.Cols
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%d", d.Rows, d.Cols)
}

func (d Dims) Validate() error {
	if d.Rows < 1 || d.Rows > 26 {
		return fmt.Errorf("grid rows must be within 1..26, got %d", d.Rows)
	}
	if d.Cols < 1 {
		return fmt.Errorf("grid columns must be positive, got %d", d.Cols)
	}
	return nil
}

func (d Dims) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < d.Rows && p.Col >= 0 && p.Col < d.Cols
}

// Positions enumerates every cell in row-major order: A1, A2, .., A12, B1, ..
func (d Dims) Positions() []Position {
	out := make([]Position, 0, d.Capacity())
	for r := 0; r < d.Rows; r++ {
		for c := 0; c < d.Cols; c++ {
			out = append(out, Position{Row: r, Col: c})
		}
	}
	return out
}

// RowLabels returns "A", "B", .. for every grid row.
func (d Dims) RowLabels() []string {
	out := make([]string, d.Rows)
	for r := range out {
		out[r] = RowLabel(r)
	}
	return out
}

// ColLabels returns "1", "2", .. for every grid column.
func (d Dims) ColLabels() []string {
	out := make([]string, d.Cols)
	for c := range out {
		out[c] = strconv.Itoa(c + 1)
	}
	return out
}

// Position is a 0-based grid cell.
type Position struct {
	Row int
	Col int
}

// Unplaced marks a record that has no grid cell.
var Unplaced = Position{Row: -1, Col: -1}

func (p Position) Placed() bool {
	return p.Row >= 0 && p.Col >= 0
}

// Label formats the position as row letter plus 1-based column, e.g. "B12".
// Unplaced positions format as "".
func (p Position) Label() string {
	if !p.Placed() {
		return ""
	}
	return RowLabel(p.Row) + strconv.Itoa(p.Col+1)
}

func (p Position) String() string {
	if !p.Placed() {
		return "unplaced"
	}
	return p.Label()
}

// Less orders positions row-major.
func (p Position) Less(o Position) bool {
	if p.Row != o.Row {
		return p.Row < o.Row
	}
	return p.Col < o.Col
}

func RowLabel(r int) string {
	return string(rune('A' + r))
}

// ParseRowLabel is the inverse of RowLabel.
func ParseRowLabel(s string) (int, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 || s[0] < 'A' || s[0] > 'Z' {
		return 0, fmt.Errorf("invalid row label '%s'", s)
	}
	return int(s[0] - 'A'), nil
}

// ParsePosition parses labels such as "A1" or "j12". An empty label yields
// Unplaced.
func ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unplaced, nil
	}
	row, err := ParseRowLabel(s[:1])
	if err != nil {
		return Unplaced, fmt.Errorf("invalid position '%s'", s)
	}
	col, err := strconv.Atoi(s[1:])
	if err != nil || col < 1 {
		return Unplaced, fmt.Errorf("invalid position '%s'", s)
	}
	return Position{Row: row, Col: col - 1}, nil
}
