package plate

import (
	"errors"
	"strings"
	"testing"

	"github.com/adnsv/go-plate/internal/csvio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sequentialCSV = `sample_id,sample_name,bac,conc,iter
1,S1,E.coli,10,3
2,S2,Yeast,5,2
`

func TestReadSourceSequential(t *testing.T) {
	rows, err := ReadSource(strings.NewReader(csvio.BOM+sequentialCSV), VariantSequential)
	require.NoError(t, err)
	assert.Equal(t, scenarioRows(), rows)
}

func TestReadSourceFlagged(t *testing.T) {
	input := "Sample_ID,sample_name,bac,conc,iter,newline_flag,blank_flag,note\n" +
		"1,S1,E.coli,10,2,1,3,first\n" +
		"2,S2,Yeast,0.5,1.0,FALSE,,\n" +
		",,,,,,,\n"
	rows, err := ReadSource(strings.NewReader(input), VariantFlagged)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, SourceRow{SampleID: "1", SampleName: "S1", Category: "E.coli", Concentration: "10", RepeatCount: 2, BlankCount: 3, Newline: true}, rows[0])
	assert.Equal(t, SourceRow{SampleID: "2", SampleName: "S2", Category: "Yeast", Concentration: "0.5", RepeatCount: 1}, rows[1])
}

func TestReadSourceSchemaError(t *testing.T) {
	_, err := ReadSource(strings.NewReader(sequentialCSV), VariantFlagged)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, []string{ColNewline, ColBlank}, se.Missing)

	_, err = ReadSource(strings.NewReader(""), VariantSequential)
	assert.ErrorAs(t, err, &se)

	_, err = ReadSource(strings.NewReader("sample_id,sample_id,sample_name,bac,conc,iter\n"), VariantSequential)
	assert.ErrorAs(t, err, &se)
}

func TestReadSourceValidationErrors(t *testing.T) {
	input := "sample_id,sample_name,bac,conc,iter\n" +
		"1,S1,E.coli,10,-1\n" +
		"2,S2,Yeast,5,two\n" +
		"3,S3,Yeast,5\n"
	_, err := ReadSource(strings.NewReader(input), VariantSequential)
	require.Error(t, err)

	var fields []string
	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	for _, e := range joined.Unwrap() {
		var ve *ValidationError
		require.ErrorAs(t, e, &ve)
		fields = append(fields, ve.Field)
		assert.NotZero(t, ve.Row)
	}
	assert.Equal(t, []string{ColIter, ColIter, ColIter}, fields)
}

func TestReadSourceRejectsDelimiter(t *testing.T) {
	input := "sample_id,sample_name,bac,conc,iter\n1,S_1,E.coli,10,1\n"
	_, err := ReadSource(strings.NewReader(input), VariantSequential)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, ColSampleName, ve.Field)
}

func TestReadSourceBadFlag(t *testing.T) {
	input := "sample_id,sample_name,bac,conc,iter,newline_flag,blank_flag\n1,S1,b,1,1,maybe,0\n"
	_, err := ReadSource(strings.NewReader(input), VariantFlagged)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, ColNewline, ve.Field)
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("Flagged")
	require.NoError(t, err)
	assert.Equal(t, VariantFlagged, v)
	assert.Equal(t, Dims9x12, v.DefaultDims())

	v, err = ParseVariant("")
	require.NoError(t, err)
	assert.Equal(t, VariantSequential, v)
	assert.Equal(t, Dims10x12, v.DefaultDims())

	_, err = ParseVariant("spiral")
	assert.Error(t, err)
}
