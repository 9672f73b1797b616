package plate

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/adnsv/go-plate/internal/csvio"
)

// SourceRow is one uploaded sample line. RepeatCount copies of it are placed
// on the grid. BlankCount and Newline are only honored by Layout.
type SourceRow struct {
	SampleID      string
	SampleName    string
	Category      string
	Concentration string
	RepeatCount   int
	BlankCount    int
	Newline       bool
}

// Variant selects how source rows are placed on the grid.
type Variant string

const (
	// VariantSequential fills cells row-major, ignoring blank and newline flags.
	VariantSequential Variant = "sequential"
	// VariantFlagged honors blank_flag and newline_flag.
	VariantFlagged Variant = "flagged"
)

func ParseVariant(s string) (Variant, error) {
	switch v := Variant(strings.ToLower(strings.TrimSpace(s))); v {
	case VariantSequential, VariantFlagged:
		return v, nil
	case "":
		return VariantSequential, nil
	}
	return "", fmt.Errorf("unknown layout variant '%s'", s)
}

// DefaultDims returns the grid used by each variant.
func (v Variant) DefaultDims() Dims {
	if v == VariantFlagged {
		return Dims9x12
	}
	return Dims10x12
}

// Source CSV column names.
const (
	ColSampleID   = "sample_id"
	ColSampleName = "sample_name"
	ColCategory   = "bac"
	ColConc       = "conc"
	ColIter       = "iter"
	ColNewline    = "newline_flag"
	ColBlank      = "blank_flag"
)

// RequiredColumns lists the source columns a variant needs.
func (v Variant) RequiredColumns() []string {
	cols := []string{ColSampleID, ColSampleName, ColCategory, ColConc, ColIter}
	if v == VariantFlagged {
		cols = append(cols, ColNewline, ColBlank)
	}
	return cols
}

// ReadSource parses an uploaded CSV. Missing columns fail with a
// *SchemaError; unparseable or invalid values fail with one or more
// *ValidationError joined together. Either way no rows are returned.
func ReadSource(r io.Reader, v Variant) ([]SourceRow, error) {
	cr := csvio.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SchemaError{Reason: "empty file", Missing: v.RequiredColumns()}
	}
	if err != nil {
		return nil, &SchemaError{Reason: err.Error()}
	}

	index := map[string]int{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[h]; dup && h != "" {
			return nil, &SchemaError{Reason: fmt.Sprintf("duplicate column '%s'", h)}
		}
		index[h] = i
	}
	var missing []string
	for _, c := range v.RequiredColumns() {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	var rows []SourceRow
	var errs []error
	for n := 1; ; n++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &SchemaError{Reason: err.Error()}
		}
		if blankRecord(rec) {
			n--
			continue
		}
		field := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		row := SourceRow{
			SampleID:      field(ColSampleID),
			SampleName:    field(ColSampleName),
			Category:      field(ColCategory),
			Concentration: field(ColConc),
		}
		if row.RepeatCount, err = parseCount(n, ColIter, field(ColIter), true); err != nil {
			errs = append(errs, err)
		}
		if v == VariantFlagged {
			if row.BlankCount, err = parseCount(n, ColBlank, field(ColBlank), false); err != nil {
				errs = append(errs, err)
			}
			if row.Newline, err = parseFlag(n, ColNewline, field(ColNewline)); err != nil {
				errs = append(errs, err)
			}
		}
		rows = append(rows, row)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := ValidateRows(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ValidateRows checks every row and returns all problems joined. Rows are
// rejected when a required field is empty, a key field contains the key
// delimiter, a count is negative, or two rows share the same
// (sample_name, bac, conc) triple, which would make record keys ambiguous.
func ValidateRows(rows []SourceRow) error {
	var errs []error
	type triple struct{ name, cat, conc string }
	seen := map[triple]int{}
	for i, row := range rows {
		n := i + 1
		if strings.TrimSpace(row.SampleID) == "" {
			errs = append(errs, &ValidationError{Row: n, Field: ColSampleID, Reason: "required"})
		}
		for _, f := range []struct{ name, value string }{
			{ColSampleName, row.SampleName},
			{ColCategory, row.Category},
			{ColConc, row.Concentration},
		} {
			if err := CheckField(f.value); err != nil {
				reason := err.Error()
				if errors.Is(err, errEmptyField) {
					reason = "required"
				}
				errs = append(errs, &ValidationError{Row: n, Field: f.name, Value: f.value, Reason: reason})
			}
		}
		if row.RepeatCount < 0 {
			errs = append(errs, &ValidationError{Row: n, Field: ColIter, Value: strconv.Itoa(row.RepeatCount), Reason: "must not be negative"})
		}
		if row.BlankCount < 0 {
			errs = append(errs, &ValidationError{Row: n, Field: ColBlank, Value: strconv.Itoa(row.BlankCount), Reason: "must not be negative"})
		}
		t := triple{row.SampleName, row.Category, row.Concentration}
		if prev, dup := seen[t]; dup {
			errs = append(errs, &ValidationError{Row: n, Field: ColSampleName, Value: row.SampleName,
				Reason: fmt.Sprintf("same sample_name, bac and conc as row %d", prev)})
		} else {
			seen[t] = n
		}
	}
	return errors.Join(errs...)
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// parseCount accepts integers and integral floats ("3.0") since spreadsheet
// tools often export counts that way.
func parseCount(row int, field, s string, required bool) (int, error) {
	if s == "" {
		if required {
			return 0, &ValidationError{Row: row, Field: field, Reason: "required"}
		}
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return validCount(row, field, s, n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, &ValidationError{Row: row, Field: field, Value: s, Reason: "not an integer"}
	}
	return validCount(row, field, s, int(f))
}

func validCount(row int, field, s string, n int) (int, error) {
	if n < 0 {
		return 0, &ValidationError{Row: row, Field: field, Value: s, Reason: "must not be negative"}
	}
	return n, nil
}

func parseFlag(row int, field, s string) (bool, error) {
	switch strings.ToLower(s) {
	case "", "0", "false", "no", "n", "off":
		return false, nil
	case "1", "true", "yes", "y", "on":
		return true, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f != 0, nil
	}
	return false, &ValidationError{Row: row, Field: field, Value: s, Reason: "not a flag"}
}
