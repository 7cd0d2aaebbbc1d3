package dataset

import (
	"fmt"
	"math"
	"sort"

	"creditfeatures/internal/errors"
)

// KeyColumn is the applicant identifier, the sole join key across all tables.
const KeyColumn = "SK_ID_CURR"

// Kind identifies the storage type of a column.
type Kind int

const (
	// KindFloat holds float64 values; NaN marks a missing cell.
	KindFloat Kind = iota
	// KindString holds string values; the empty string marks a missing cell.
	KindString
	// KindBool holds boolean indicator values and has no missing state.
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Column is a single named column of homogeneous values. Exactly one of the
// value slices is populated, according to Kind.
type Column struct {
	Name    string
	Kind    Kind
	Floats  []float64
	Strings []string
	Bools   []bool
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	switch c.Kind {
	case KindFloat:
		return len(c.Floats)
	case KindString:
		return len(c.Strings)
	default:
		return len(c.Bools)
	}
}

// Table is an ordered collection of equally sized columns. It is the working
// representation for the applicant table and for aggregate feature tables.
type Table struct {
	name  string
	rows  int
	cols  []*Column
	index map[string]int
}

// NewTable creates an empty table with the given name and row count. Columns
// added later must match the row count exactly.
func NewTable(name string, rows int) *Table {
	return &Table{
		name:  name,
		rows:  rows,
		index: make(map[string]int),
	}
}

// Name returns the table name used in error and log messages.
func (t *Table) Name() string { return t.name }

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// ColumnNames returns the column names in column order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column, or nil if absent.
func (t *Table) Column(name string) *Column {
	i, ok := t.index[name]
	if !ok {
		return nil
	}
	return t.cols[i]
}

func (t *Table) addColumn(c *Column) error {
	if _, ok := t.index[c.Name]; ok {
		return fmt.Errorf("table %s: duplicate column %s", t.name, c.Name)
	}
	if c.Len() != t.rows {
		return fmt.Errorf("table %s: column %s has %d values, table has %d rows", t.name, c.Name, c.Len(), t.rows)
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// AddFloats appends a float column. The slice is owned by the table afterwards.
func (t *Table) AddFloats(name string, values []float64) error {
	return t.addColumn(&Column{Name: name, Kind: KindFloat, Floats: values})
}

// AddStrings appends a string column.
func (t *Table) AddStrings(name string, values []string) error {
	return t.addColumn(&Column{Name: name, Kind: KindString, Strings: values})
}

// AddBools appends a boolean indicator column.
func (t *Table) AddBools(name string, values []bool) error {
	return t.addColumn(&Column{Name: name, Kind: KindBool, Bools: values})
}

// Floats returns the values of a float column.
func (t *Table) Floats(name string) ([]float64, error) {
	c := t.Column(name)
	if c == nil {
		return nil, errors.NewSchemaError(t.name, []string{name})
	}
	if c.Kind != KindFloat {
		return nil, fmt.Errorf("table %s: column %s is %s, want float", t.name, name, c.Kind)
	}
	return c.Floats, nil
}

// Strings returns the values of a string column.
func (t *Table) Strings(name string) ([]string, error) {
	c := t.Column(name)
	if c == nil {
		return nil, errors.NewSchemaError(t.name, []string{name})
	}
	if c.Kind != KindString {
		return nil, fmt.Errorf("table %s: column %s is %s, want string", t.name, name, c.Kind)
	}
	return c.Strings, nil
}

// Bools returns the values of a boolean column.
func (t *Table) Bools(name string) ([]bool, error) {
	c := t.Column(name)
	if c == nil {
		return nil, errors.NewSchemaError(t.name, []string{name})
	}
	if c.Kind != KindBool {
		return nil, fmt.Errorf("table %s: column %s is %s, want bool", t.name, name, c.Kind)
	}
	return c.Bools, nil
}

// Require verifies that every named column is present, returning a single
// schema error listing all absentees.
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, name := range names {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errors.NewSchemaError(t.name, missing)
	}
	return nil
}

// Keys returns the applicant identifiers of the key column as integers, in row
// order. A missing or non-integral key is reported as a validation error.
func (t *Table) Keys() ([]int64, error) {
	vals, err := t.Floats(KeyColumn)
	if err != nil {
		return nil, err
	}
	keys := make([]int64, len(vals))
	for i, v := range vals {
		if IsMissing(v) || v != math.Trunc(v) {
			return nil, errors.NewValidationError(t.name, fmt.Sprintf("row %d: invalid applicant identifier", i))
		}
		keys[i] = int64(v)
	}
	return keys, nil
}

// Missing returns the canonical missing marker for numeric cells.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether a numeric cell holds the missing marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Sanitize maps every non-finite value to the missing marker, so downstream
// consumers see one missing-value contract instead of two.
func Sanitize(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return math.NaN()
	}
	return v
}
