package plate

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is everything one editing session knows. Operations never modify a
// State in place; they return a new one.
type State struct {
	ID         uuid.UUID
	SourceName string
	Variant    Variant
	Dims       Dims
	Rows       []SourceRow
	Records    []Record
	Colors     ColorMap
	Revision   int // incremented by every Apply
	UpdatedAt  time.Time
}

func (s State) EditableGrid() Grid { return EditableGrid(s.Records, s.Dims) }
func (s State) DisplayGrid() Grid  { return DisplayGrid(s.Records, s.Dims) }
func (s State) Conflicts() []Conflict {
	return Conflicts(s.Records)
}

// Overflow returns the records that did not fit, or nil.
func (s State) Overflow() *OverflowError {
	var oe *OverflowError
	if errors.As(CheckCapacity(s.Records, s.Dims), &oe) {
		return oe
	}
	return nil
}

// CellColors maps each occupied position to the color of the record shown
// there.
func (s State) CellColors() map[Position]string {
	out := map[Position]string{}
	for _, r := range s.Records {
		if !s.Dims.Contains(r.Position) {
			continue
		}
		if _, taken := out[r.Position]; taken {
			continue
		}
		if c, ok := s.Colors.Color(r.Category); ok {
			out[r.Position] = c
		}
	}
	return out
}

// Editor runs the session operations with a fixed layout configuration.
type Editor struct {
	log     *zap.Logger
	variant Variant
	dims    Dims
	now     func() time.Time
}

type Option func(*Editor)

func WithLogger(l *zap.Logger) Option {
	return func(e *Editor) {
		if l != nil {
			e.log = l
		}
	}
}

// WithVariant selects the placement strategy and its default grid size.
func WithVariant(v Variant) Option {
	return func(e *Editor) {
		e.variant = v
		e.dims = v.DefaultDims()
	}
}

// WithDims overrides the grid size. Apply it after WithVariant.
func WithDims(d Dims) Option {
	return func(e *Editor) { e.dims = d }
}

func withClock(now func() time.Time) Option {
	return func(e *Editor) { e.now = now }
}

func NewEditor(opts ...Option) *Editor {
	e := &Editor{
		log:     zap.NewNop(),
		variant: VariantSequential,
		dims:    VariantSequential.DefaultDims(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

func (e *Editor) Variant() Variant { return e.variant }
func (e *Editor) Dims() Dims       { return e.dims }

// Upload parses a source CSV and lays it out. The returned error is a
// *SchemaError or one or more joined *ValidationError values.
func (e *Editor) Upload(name string, r io.Reader) (State, error) {
	rows, err := ReadSource(r, e.variant)
	if err != nil {
		e.log.Warn("upload rejected", zap.String("source", name), zap.Error(err))
		return State{}, err
	}
	return e.Load(name, rows)
}

// Load lays out already parsed rows and starts a new session state.
func (e *Editor) Load(name string, rows []SourceRow) (State, error) {
	records, err := Assign(e.variant, rows, e.dims)
	if err != nil {
		return State{}, err
	}
	s := State{
		ID:         uuid.New(),
		SourceName: name,
		Variant:    e.variant,
		Dims:       e.dims,
		Rows:       append([]SourceRow(nil), rows...),
		Records:    records,
		Colors:     ColorsFor(records),
		UpdatedAt:  e.now(),
	}
	e.log.Info("layout created",
		zap.String("session", s.ID.String()),
		zap.String("source", name),
		zap.String("variant", string(e.variant)),
		zap.Stringer("grid", e.dims),
		zap.Int("rows", len(rows)),
		zap.Int("records", len(records)),
		zap.Int("categories", s.Colors.Len()),
	)
	if oe := s.Overflow(); oe != nil {
		e.log.Warn("grid capacity exceeded",
			zap.String("session", s.ID.String()),
			zap.Int("capacity", oe.Capacity),
			zap.Strings("unplaced", oe.Keys()),
		)
	}
	return s, nil
}

// Apply reconciles an edited grid against s. Unparseable cells are
// returned as parse errors and do not stop the operation; the error result
// is only set when the grid does not match the session's dimensions.
func (e *Editor) Apply(s State, edited Grid) (State, []*ParseError, error) {
	if edited.Dims() != s.Dims {
		return s, nil, fmt.Errorf("edited grid is %s, session grid is %s", edited.Dims(), s.Dims)
	}
	records, perrs := Reconcile(s.Records, edited)

	moved := 0
	for i := range records {
		if records[i].Position != s.Records[i].Position {
			moved++
		}
	}
	for _, pe := range perrs {
		e.log.Warn("ignoring unparseable cell",
			zap.String("session", s.ID.String()),
			zap.String("cell", pe.Cell.Label()),
			zap.String("label", pe.Label),
			zap.Error(pe.Err),
		)
	}

	next := s
	next.Records = records
	next.Colors = ColorsFor(records)
	next.Revision = s.Revision + 1
	next.UpdatedAt = e.now()

	conflicts := next.Conflicts()
	for _, c := range conflicts {
		e.log.Warn("cell held by more than one record",
			zap.String("session", s.ID.String()),
			zap.String("cell", c.Position.Label()),
			zap.Int("records", len(c.Keys)),
		)
	}
	e.log.Info("edits applied",
		zap.String("session", s.ID.String()),
		zap.Int("revision", next.Revision),
		zap.Int("moved", moved),
		zap.Int("parse_errors", len(perrs)),
		zap.Int("conflicts", len(conflicts)),
	)
	return next, perrs, nil
}
