package plate

import (
	"fmt"
	"strings"
)

// SchemaError reports a source or grid file whose columns do not match
// what ingestion requires. Nothing from such a file is used.
type SchemaError struct {
	Missing []string // required columns not found
	Reason  string
}

func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("schema: missing required columns: %s", strings.Join(e.Missing, ", "))
	}
	return "schema: " + e.Reason
}

// ValidationError reports a source row that cannot be expanded.
// Row is the 1-based index of the row in the upload.
type ValidationError struct {
	Row    int
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("row %d: %s %q: %s", e.Row, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
}

// ParseError reports an edited grid cell whose label could not be decoded
// into a key. The cell is ignored during reconciliation.
type ParseError struct {
	Cell  Position
	Label string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cell %s: cannot parse %q: %v", e.Cell.Label(), e.Label, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// OverflowError reports records that did not fit on the grid. The records
// themselves are kept in the record table with an Unplaced position.
type OverflowError struct {
	Capacity int
	Unplaced []Key
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%d records exceed the grid capacity of %d and were not placed", len(e.Unplaced), e.Capacity)
}

// Keys formats the unplaced keys for display.
func (e *OverflowError) Keys() []string {
	out := make([]string, len(e.Unplaced))
	for i, k := range e.Unplaced {
		out[i] = k.String()
	}
	return out
}
