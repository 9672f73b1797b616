package xl

import "strconv"

type Cell struct {
	row          *Row
	columnNumber int // 1-based
	coord        string
	typ          CellType
	v            string
	style        Style
}

// CellType is the type of cell value type.
type CellType int

// Cell value types enumeration.
const (
	CellTypeUnset CellType = iota
	CellTypeBool
	CellTypeNumber
	CellTypeSharedString
)

func (c *Cell) Coord() string  { return c.coord }
func (c *Cell) Type() CellType { return c.typ }
func (c *Cell) Value() string  { return c.v }
func (c *Cell) Style() Style   { return c.style }

func (c *Cell) SetBool(v bool) {
	c.typ = CellTypeBool
	if v {
		c.v = "1"
	} else {
		c.v = "0"
	}
}

func (c *Cell) SetInt(v int64) {
	c.typ = CellTypeNumber
	c.v = strconv.FormatInt(v, 10)
}

func (c *Cell) SetFloat(v float64) {
	c.typ = CellTypeNumber
	c.v = strconv.FormatFloat(v, 'g', -1, 64)
}

// SetStr stores v as a shared string. An empty string leaves the cell
// unset so that styled blank cells stay blank.
func (c *Cell) SetStr(v string) {
	if v == "" {
		c.typ = CellTypeUnset
		c.v = ""
		return
	}
	c.typ = CellTypeSharedString
	c.v = v
}

// SetStyle replaces the cell formatting.
func (c *Cell) SetStyle(s Style) {
	c.style = s
}
