package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/adnsv/go-plate/internal/csvio"
	"github.com/adnsv/go-plate/plate"
)

const (
	CSVFileName    = "updated_data.csv"
	CSVContentType = "text/csv"
)

// CSVHeader is the column order of the record table.
var CSVHeader = []string{"sample_id", "sample_name", "bac", "conc", "iter_count", "position", "display_value"}

// WriteCSV writes one line per record, unplaced records with an empty
// position. The output is UTF-8 with a BOM.
func WriteCSV(w io.Writer, records []plate.Record) error {
	cw := csvio.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		err := cw.Write([]string{
			r.SampleID,
			r.SampleName,
			r.Category,
			r.Concentration,
			strconv.Itoa(r.Repetition),
			r.Position.Label(),
			r.DisplayValue(),
		})
		if err != nil {
			return err
		}
	}
	return cw.Close()
}

// ReadCSV reads a table written by WriteCSV back into records.
func ReadCSV(r io.Reader) ([]plate.Record, error) {
	recs, err := csvio.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, &plate.SchemaError{Reason: "empty record table"}
	}
	index := map[string]int{}
	for i, h := range recs[0] {
		index[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, h := range CSVHeader[:6] {
		if _, ok := index[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, &plate.SchemaError{Missing: missing}
	}

	out := make([]plate.Record, 0, len(recs)-1)
	for n, rec := range recs[1:] {
		get := func(h string) string {
			if i := index[h]; i < len(rec) {
				return rec[i]
			}
			return ""
		}
		rep, err := strconv.Atoi(get("iter_count"))
		if err != nil {
			return nil, &plate.ValidationError{Row: n + 1, Field: "iter_count", Value: get("iter_count"), Reason: "not an integer"}
		}
		pos, err := plate.ParsePosition(get("position"))
		if err != nil {
			return nil, &plate.ValidationError{Row: n + 1, Field: "position", Value: get("position"), Reason: err.Error()}
		}
		out = append(out, plate.Record{
			SampleID:      get("sample_id"),
			SampleName:    get("sample_name"),
			Category:      get("bac"),
			Concentration: get("conc"),
			Repetition:    rep,
			Position:      pos,
		})
	}
	return out, nil
}

// Artifact is a rendered download.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

func (a Artifact) String() string {
	return fmt.Sprintf("%s (%s, %d bytes)", a.Name, a.ContentType, len(a.Data))
}
