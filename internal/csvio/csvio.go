// Package csvio wraps encoding/csv with UTF-8 byte order mark handling so
// that files round-trip through spreadsheet tools that expect one.
package csvio

import (
	"encoding/csv"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewReader returns a csv reader that strips a leading BOM if present.
// Records may have a variable number of fields.
func NewReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(transform.NewReader(r, unicode.UTF8BOM.NewDecoder()))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return cr
}

// Writer is a csv writer that prefixes its output with a BOM.
// Close must be called to flush the csv buffer and the encoder.
type Writer struct {
	*csv.Writer
	enc io.WriteCloser
}

func NewWriter(w io.Writer) *Writer {
	enc := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	return &Writer{Writer: csv.NewWriter(enc), enc: enc}
}

func (w *Writer) Close() error {
	w.Writer.Flush()
	if err := w.Writer.Error(); err != nil {
		w.enc.Close()
		return err
	}
	return w.enc.Close()
}

// BOM is the UTF-8 encoded byte order mark.
const BOM = "\uFEFF"
