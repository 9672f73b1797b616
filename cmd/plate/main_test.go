package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/adnsv/go-plate/export"
	"github.com/adnsv/go-plate/internal/auth"
	"github.com/adnsv/go-plate/plate"
)

const sourceCSV = "sample_id,sample_name,bac,conc,iter\n" +
	"1,S1,E.coli,10,3\n" +
	"2,S2,Yeast,5,2\n"

// setup points the global flags at a temp workspace and returns it along
// with the path of a source file.
func setup(t *testing.T) (string, string) {
	for _, k := range []string{"PLATE_PASSWORD", "PLATE_VARIANT", "PLATE_OUTPUT_DIR", "PLATE_S3_BUCKET"} {
		t.Setenv(k, "")
	}
	logger = zap.NewNop()
	ws := t.TempDir()
	configPath = filepath.Join(ws, "plate.yaml")
	outDir = filepath.Join(ws, "out")
	variantFlag = ""
	prompter = nil
	t.Cleanup(func() {
		outDir, variantFlag, prompter = "", "", nil
	})

	src := filepath.Join(ws, "samples.csv")
	require.NoError(t, os.WriteFile(src, []byte(sourceCSV), 0644))
	return ws, src
}

func testCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	return cmd, &out, &errOut
}

func TestLayoutCmd(t *testing.T) {
	_, src := setup(t)
	cmd, out, _ := testCmd()

	require.NoError(t, runLayout(cmd, []string{src}))

	f, err := os.Open(filepath.Join(outDir, "grid.csv"))
	require.NoError(t, err)
	defer f.Close()
	g, err := plate.ReadGridCSV(f, plate.Dims10x12)
	require.NoError(t, err)
	assert.Equal(t, "S1_E.coli_10_1", g.At(plate.Position{Row: 0, Col: 0}))
	assert.Equal(t, "S2_Yeast_5_2", g.At(plate.Position{Row: 0, Col: 4}))

	assert.Contains(t, out.String(), "S1_10_1")
	assert.Contains(t, out.String(), "editable grid:")
}

func TestApplyCmdMovesAndExports(t *testing.T) {
	ws, src := setup(t)
	cmd, _, _ := testCmd()
	require.NoError(t, runLayout(cmd, []string{src}))

	gridPath := filepath.Join(outDir, "grid.csv")
	f, err := os.Open(gridPath)
	require.NoError(t, err)
	g, err := plate.ReadGridCSV(f, plate.Dims10x12)
	f.Close()
	require.NoError(t, err)

	// move S1 repetition 1 from A1 to B1
	a1, b1 := plate.Position{Row: 0, Col: 0}, plate.Position{Row: 1, Col: 0}
	g.Set(b1, g.At(a1))
	g.Set(a1, "")
	g.Set(plate.Position{Row: 2, Col: 0}, "garbage")
	edited := filepath.Join(ws, "edited.csv")
	var buf bytes.Buffer
	require.NoError(t, plate.WriteGridCSV(&buf, g))
	require.NoError(t, os.WriteFile(edited, buf.Bytes(), 0644))

	cmd, out, errOut := testCmd()
	require.NoError(t, runApply(cmd, []string{src, edited}))

	assert.Contains(t, errOut.String(), "garbage")
	assert.Contains(t, out.String(), export.CSVFileName)
	assert.Contains(t, out.String(), export.WorkbookFileName)

	cf, err := os.Open(filepath.Join(outDir, export.CSVFileName))
	require.NoError(t, err)
	defer cf.Close()
	records, err := export.ReadCSV(cf)
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "B1", records[0].Position.Label())
	assert.Equal(t, "A2", records[1].Position.Label())

	_, err = os.Stat(filepath.Join(outDir, export.WorkbookFileName))
	assert.NoError(t, err)
}

func TestApplyCmdRejectsWrongGrid(t *testing.T) {
	ws, src := setup(t)
	bad := filepath.Join(ws, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte(",1,2\nZ,x,y\n"), 0644))

	cmd, _, _ := testCmd()
	var se *plate.SchemaError
	assert.ErrorAs(t, runApply(cmd, []string{src, bad}), &se)
}

func TestLayoutCmdRejectsBadSource(t *testing.T) {
	ws, _ := setup(t)
	src := filepath.Join(ws, "broken.csv")
	require.NoError(t, os.WriteFile(src, []byte("sample_id,sample_name\n1,S1\n"), 0644))

	cmd, _, _ := testCmd()
	var se *plate.SchemaError
	assert.ErrorAs(t, runLayout(cmd, []string{src}), &se)
}

func TestPasswordGate(t *testing.T) {
	_, src := setup(t)
	t.Setenv("PLATE_PASSWORD", "pw")

	t.Run("accepted", func(t *testing.T) {
		prompter = auth.NewLinePrompter(strings.NewReader("nope\npw\n"), nil)
		cmd, _, _ := testCmd()
		assert.NoError(t, runLayout(cmd, []string{src}))
	})

	t.Run("rejected", func(t *testing.T) {
		prompter = auth.NewLinePrompter(strings.NewReader("a\nb\nc\n"), nil)
		cmd, _, _ := testCmd()
		assert.ErrorIs(t, runLayout(cmd, []string{src}), auth.ErrTooManyAttempt)
	})
}

func TestFlaggedVariantFlag(t *testing.T) {
	_, src := setup(t)
	variantFlag = "flagged"
	cmd, _, _ := testCmd()
	// flagged needs newline_flag and blank_flag
	var se *plate.SchemaError
	assert.ErrorAs(t, runLayout(cmd, []string{src}), &se)

	variantFlag = "diagonal"
	assert.Error(t, runLayout(cmd, []string{src}))
}

func TestPaletteCmd(t *testing.T) {
	t.Run("count", func(t *testing.T) {
		setup(t)
		paletteCount, paletteNoANSI = 12, true
		t.Cleanup(func() { paletteCount, paletteNoANSI = len(plate.PastelPalette), false })

		cmd, out, _ := testCmd()
		require.NoError(t, runPalette(cmd, nil))
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 12)
		assert.Equal(t, "#a1c9f4  #1", lines[0])
	})

	t.Run("source", func(t *testing.T) {
		_, src := setup(t)
		cmd, out, _ := testCmd()
		require.NoError(t, runPalette(cmd, []string{src}))
		assert.Contains(t, out.String(), "\x1b[48;2;161;201;244m")
		assert.Contains(t, out.String(), "E.coli")
		assert.Contains(t, out.String(), "Yeast")
	})
}
