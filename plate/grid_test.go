package plate

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/adnsv/go-plate/internal/csvio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridCSVRoundTrip(t *testing.T) {
	records := scenarioRecords(t)
	g := EditableGrid(records, Dims10x12)

	var buf bytes.Buffer
	require.NoError(t, WriteGridCSV(&buf, g))
	assert.True(t, strings.HasPrefix(buf.String(), csvio.BOM+",1,2,3"))

	back, err := ReadGridCSV(&buf, Dims10x12)
	require.NoError(t, err)
	assert.True(t, g.Equal(back))
}

func TestReadGridCSVPartial(t *testing.T) {
	input := ",3,1\nB,S1_E.coli_10_1, x \n\n"
	g, err := ReadGridCSV(strings.NewReader(input), Dims9x12)
	require.NoError(t, err)
	assert.Equal(t, "S1_E.coli_10_1", g.At(Position{Row: 1, Col: 2}))
	assert.Equal(t, "x", g.At(Position{Row: 1, Col: 0}))
	assert.Equal(t, "", g.At(Position{Row: 0, Col: 0}))
}

func TestReadGridCSVSchemaErrors(t *testing.T) {
	for name, input := range map[string]string{
		"empty":          "",
		"bad column":     ",1,13\nA,,\n",
		"bad row":        ",1\nJ,x\n",
		"duplicate row":  ",1\nA,x\nA,y\n",
		"value past hdr": ",1\nA,x,y\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ReadGridCSV(strings.NewReader(input), Dims9x12)
			var se *SchemaError
			assert.True(t, errors.As(err, &se), "got %v", err)
		})
	}
}

func TestDisplayGrid(t *testing.T) {
	records := scenarioRecords(t)
	g := DisplayGrid(records, Dims10x12)
	assert.Equal(t, "S1_10_1", g.At(Position{Row: 0, Col: 0}))
	assert.Equal(t, "S2_5_2", g.At(Position{Row: 0, Col: 4}))
	assert.Equal(t, "", g.At(Position{Row: 0, Col: 5}))

	rows := g.Rows()
	require.Len(t, rows, 10)
	rows[0][0] = "changed"
	assert.Equal(t, "S1_10_1", g.At(Position{Row: 0, Col: 0}), "Rows returns a copy")
}

func TestGridCloneIndependent(t *testing.T) {
	g := NewGrid(Dims9x12)
	c := g.Clone()
	c.Set(Position{Row: 0, Col: 0}, "x")
	assert.Equal(t, "", g.At(Position{Row: 0, Col: 0}))
	assert.False(t, g.Equal(c))
	assert.False(t, g.Equal(NewGrid(Dims10x12)))
}
