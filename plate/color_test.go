package plate

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignColorsFirstSeenOrder(t *testing.T) {
	m := AssignColors([]string{"Yeast", "E.coli", "Yeast", "Staph", "E.coli"})
	assert.Equal(t, []string{"Yeast", "E.coli", "Staph"}, m.Categories())
	assert.Equal(t, 3, m.Len())

	c, ok := m.Color("Yeast")
	require.True(t, ok)
	assert.Equal(t, PastelPalette[0], c)
	c, _ = m.Color("Staph")
	assert.Equal(t, PastelPalette[2], c)

	_, ok = m.Color("Listeria")
	assert.False(t, ok)
}

func TestAssignColorsStable(t *testing.T) {
	cats := []string{"b", "a", "c", "a", "d"}
	assert.Equal(t, AssignColors(cats), AssignColors(cats))
}

func TestAssignColorsDistinctBeyondPalette(t *testing.T) {
	var cats []string
	for i := 0; i < 60; i++ {
		cats = append(cats, fmt.Sprintf("cat%d", i))
	}
	m := AssignColors(cats)
	seen := map[string]string{}
	for _, cat := range m.Categories() {
		c, ok := m.Color(cat)
		require.True(t, ok)
		assert.Regexp(t, `^#[0-9a-f]{6}$`, c)
		if prev, dup := seen[c]; dup {
			t.Fatalf("%s and %s share color %s", prev, cat, c)
		}
		seen[c] = cat
	}
}

func TestPalette(t *testing.T) {
	assert.Nil(t, Palette(0))
	assert.Equal(t, PastelPalette[:4], Palette(4))
	assert.Len(t, Palette(25), 25)
}

func TestColorMapRGB(t *testing.T) {
	m := AssignColors([]string{"x"})
	r, g, b, ok := m.RGB("x")
	require.True(t, ok)
	assert.Equal(t, []uint8{0xa1, 0xc9, 0xf4}, []uint8{r, g, b})
	_, _, _, ok = m.RGB("y")
	assert.False(t, ok)
}

func TestColorsForRecords(t *testing.T) {
	m := ColorsFor(scenarioRecords(t))
	assert.Equal(t, []string{"E.coli", "Yeast"}, m.Categories())
}
