package plate

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// PastelPalette is the seaborn "pastel" palette.
var PastelPalette = []string{
	"#a1c9f4", "#ffb482", "#8de5a1", "#ff9f9b", "#d0bbff",
	"#debb9b", "#fab0e4", "#cfcfcf", "#fffea3", "#b9f2f0",
}

const goldenAngle = 137.50776405003785

// Palette returns n distinct colors. The first colors come from
// PastelPalette; further ones are light HCL colors with hues spread by the
// golden angle, skipping any hex value already handed out.
func Palette(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	used := map[string]bool{}
	for _, c := range PastelPalette {
		if len(out) == n {
			return out
		}
		out = append(out, c)
		used[c] = true
	}
	for i := 0; len(out) < n; i++ {
		h := math.Mod(20+float64(i)*goldenAngle, 360)
		l := 0.88 - 0.06*float64((i/12)%4)
		hex := colorful.Hcl(h, 0.22, l).Clamped().Hex()
		if used[hex] {
			continue
		}
		used[hex] = true
		out = append(out, hex)
	}
	return out
}

// ColorMap maps categories to "#rrggbb" colors in first-seen order.
type ColorMap struct {
	order  []string
	colors map[string]string
}

// AssignColors builds a fresh map: the k-th distinct category (first
// occurrence order) gets palette color k.
func AssignColors(categories []string) ColorMap {
	var order []string
	seen := map[string]bool{}
	for _, c := range categories {
		if !seen[c] {
			seen[c] = true
			order = append(order, c)
		}
	}
	palette := Palette(len(order))
	colors := make(map[string]string, len(order))
	for i, c := range order {
		colors[c] = palette[i]
	}
	return ColorMap{order: order, colors: colors}
}

// ColorsFor assigns colors to the categories of records in record order.
func ColorsFor(records []Record) ColorMap {
	cats := make([]string, len(records))
	for i, r := range records {
		cats[i] = r.Category
	}
	return AssignColors(cats)
}

func (m ColorMap) Len() int { return len(m.order) }

// Categories returns the categories in assignment order.
func (m ColorMap) Categories() []string {
	return append([]string(nil), m.order...)
}

func (m ColorMap) Color(category string) (string, bool) {
	c, ok := m.colors[category]
	return c, ok
}

// RGB returns the 0..255 components of a category color, for renderers that
// need them.
func (m ColorMap) RGB(category string) (r, g, b uint8, ok bool) {
	hex, ok := m.colors[category]
	if !ok {
		return 0, 0, 0, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, false
	}
	r, g, b = c.RGB255()
	return r, g, b, true
}
