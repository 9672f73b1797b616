package xl

import (
	"fmt"
	"strings"
)

// Style is the complete formatting of a cell. Styles are plain values;
// identical styles share one cellXfs entry in the written workbook.
type Style struct {
	Font   Font
	Fill   Fill
	Border Border
}

// Fill is a solid pattern fill. An empty Color means no fill.
type Fill struct {
	Color string // RRGGBB, a leading '#' is accepted
}

// BorderStyle corresponds to ST_BorderStyle.
type BorderStyle string

const (
	BorderNone   BorderStyle = ""
	BorderThin   BorderStyle = "thin"
	BorderMedium BorderStyle = "medium"
	BorderThick  BorderStyle = "thick"
	BorderDashed BorderStyle = "dashed"
)

// Border holds the line style of each cell edge.
type Border struct {
	Left   BorderStyle
	Right  BorderStyle
	Top    BorderStyle
	Bottom BorderStyle
}

// BorderAll returns a border with the same style on all four sides.
func BorderAll(s BorderStyle) Border {
	return Border{Left: s, Right: s, Top: s, Bottom: s}
}

func (s Style) IsDefault() bool {
	return s == Style{}
}

// NormalizeColor converts "#rrggbb" or "rrggbb" to the upper case
// RRGGBB form used in styles.xml.
func NormalizeColor(c string) (string, error) {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	if len(c) != 6 {
		return "", fmt.Errorf("invalid color '%s'", c)
	}
	for _, r := range c {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return "", fmt.Errorf("invalid color '%s'", c)
		}
	}
	return strings.ToUpper(c), nil
}

// styleTable assigns stable indices to the distinct fonts, fills, borders
// and cell formats used by a workbook. Index 0 is always the default entry,
// fills additionally reserve index 1 for the mandatory gray125 pattern.
type styleTable struct {
	fonts   []Font
	fills   []Fill
	borders []Border
	xfs     []xfEntry

	fontMap   map[Font]int
	fillMap   map[Fill]int
	borderMap map[Border]int
	xfMap     map[Style]int
}

type xfEntry struct {
	fontID   int
	fillID   int
	borderID int
}

func newStyleTable() *styleTable {
	t := &styleTable{
		fontMap:   map[Font]int{},
		fillMap:   map[Fill]int{},
		borderMap: map[Border]int{},
		xfMap:     map[Style]int{},
	}
	t.fonts = append(t.fonts, Font{})
	t.fontMap[Font{}] = 0
	t.fills = append(t.fills, Fill{}, Fill{Color: "gray125"})
	t.fillMap[Fill{}] = 0
	t.borders = append(t.borders, Border{})
	t.borderMap[Border{}] = 0
	t.xfs = append(t.xfs, xfEntry{})
	t.xfMap[Style{}] = 0
	return t
}

// index returns the cellXfs index for s, registering it when needed.
func (t *styleTable) index(s Style) (int, error) {
	if s.Fill.Color != "" {
		c, err := NormalizeColor(s.Fill.Color)
		if err != nil {
			return 0, err
		}
		s.Fill.Color = c
	}
	if s.Font.Color != "" {
		c, err := NormalizeColor(s.Font.Color)
		if err != nil {
			return 0, err
		}
		s.Font.Color = c
	}
	if i, ok := t.xfMap[s]; ok {
		return i, nil
	}

	fontID, ok := t.fontMap[s.Font]
	if !ok {
		fontID = len(t.fonts)
		t.fonts = append(t.fonts, s.Font)
		t.fontMap[s.Font] = fontID
	}
	fillID, ok := t.fillMap[s.Fill]
	if !ok {
		fillID = len(t.fills)
		t.fills = append(t.fills, s.Fill)
		t.fillMap[s.Fill] = fillID
	}
	borderID, ok := t.borderMap[s.Border]
	if !ok {
		borderID = len(t.borders)
		t.borders = append(t.borders, s.Border)
		t.borderMap[s.Border] = borderID
	}

	i := len(t.xfs)
	t.xfs = append(t.xfs, xfEntry{fontID: fontID, fillID: fillID, borderID: borderID})
	t.xfMap[s] = i
	return i, nil
}
