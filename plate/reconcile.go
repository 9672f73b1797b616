package plate

import "sort"

// candidates maps each key to the edited cells carrying its label, in
// row-major order. It is built once and only read afterwards.
type candidates map[Key][]Position

func indexGrid(edited Grid) (candidates, []*ParseError) {
	idx := candidates{}
	var perrs []*ParseError
	for _, p := range edited.Dims().Positions() {
		label := edited.At(p)
		if label == "" {
			continue
		}
		k, err := ParseKey(label)
		if err != nil {
			perrs = append(perrs, &ParseError{Cell: p, Label: label, Err: err})
			continue
		}
		idx[k] = append(idx[k], p)
	}
	return idx, perrs
}

// Reconcile recomputes record positions from a user-edited grid.
//
// Records are visited in their current order. Each takes the first cell
// carrying its key label that no earlier record has claimed. A record with
// no such cell keeps its previous position. The result always has the same
// length and order as records. Cells whose labels cannot be parsed are
// reported and ignored.
func Reconcile(records []Record, edited Grid) ([]Record, []*ParseError) {
	idx, perrs := indexGrid(edited)

	claimed := make(map[Position]bool, len(records))
	out := make([]Record, len(records))
	for i, r := range records {
		for _, p := range idx[r.Key()] {
			if !claimed[p] {
				claimed[p] = true
				r.Position = p
				break
			}
		}
		out[i] = r
	}
	return out, perrs
}

// Conflict is a cell held by more than one record. It can only arise when a
// record falls back to its previous position after another record has
// claimed that cell.
type Conflict struct {
	Position Position
	Keys     []Key // in record order; the first one is displayed
}

// Conflicts lists shared cells in row-major order.
func Conflicts(records []Record) []Conflict {
	byPos := map[Position][]Key{}
	for _, r := range records {
		if r.Position.Placed() {
			byPos[r.Position] = append(byPos[r.Position], r.Key())
		}
	}
	var out []Conflict
	for p, keys := range byPos {
		if len(keys) > 1 {
			out = append(out, Conflict{Position: p, Keys: keys})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position.Less(out[j].Position) })
	return out
}
