// Package table provides the native tabular shapes fixture cases are written
// in: tuples, ordered columnar mappings, typed numeric grids, fixed-width record
// arrays and indexed frames, plus the ordered option record passed to the
// renderer.
//
// Plain Go values cover the remaining shapes: a slice of slices is a list of
// rows, and a slice of structs is a list of field-tagged records.
package table

import "fmt"

// Tuple is an ordered, fixed sequence of values. It is rendered as a tuple by
// the reference renderer and canonicalized as a sequence.
type Tuple []any

// T is shorthand for building a Tuple.
func T(items ...any) Tuple { return Tuple(items) }

// Column is one named column of a Columns mapping.
type Column struct {
	Name string
	// Values must be a slice or array. Columns may differ in length.
	Values any
}

// Columns maps column names to their values, in declaration order.
type Columns []Column

// Col is shorthand for building a Column.
func Col(name string, values any) Column {
	return Column{Name: name, Values: values}
}

// Field is a named, typed member of a record array. Type uses numpy dtype
// codes such as "i4", "f8", "?" or "U10".
type Field struct {
	Name string
	Type DType
}

// RecordArray is a fixed-width structured array: every row holds exactly one
// value per field, in field order.
type RecordArray struct {
	Fields []Field
	Rows   []Tuple
}

// NewRecordArray builds a record array, rejecting rows whose width does not
// match the field list.
func NewRecordArray(fields []Field, rows ...Tuple) (*RecordArray, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("record array needs at least one field")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("record array field name is empty")
		}
		if seen[f.Name] {
			return nil, fmt.Errorf("duplicate record array field %q", f.Name)
		}
		seen[f.Name] = true
	}
	for i, row := range rows {
		if len(row) != len(fields) {
			return nil, fmt.Errorf("record array row %d has %d values, want %d", i, len(row), len(fields))
		}
	}
	return &RecordArray{Fields: fields, Rows: rows}, nil
}

// Index labels the rows of a Frame. Every label holds one value per level;
// Names holds one entry per level, "" for an unnamed level.
type Index struct {
	Names  []string
	Labels []Tuple
}

// Levels is the number of index levels.
func (ix *Index) Levels() int { return len(ix.Names) }

// NewIndex builds a single-level index.
func NewIndex(name string, labels ...any) *Index {
	ix := &Index{Names: []string{name}}
	for _, l := range labels {
		ix.Labels = append(ix.Labels, Tuple{l})
	}
	return ix
}

// MultiIndexFromProduct builds the cartesian product of the given level values,
// varying the last level fastest.
func MultiIndexFromProduct(names []string, levels ...[]any) (*Index, error) {
	if len(names) != len(levels) {
		return nil, fmt.Errorf("multi-index has %d names for %d levels", len(names), len(levels))
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("multi-index needs at least one level")
	}
	labels := []Tuple{{}}
	for _, level := range levels {
		next := make([]Tuple, 0, len(labels)*len(level))
		for _, prefix := range labels {
			for _, v := range level {
				label := make(Tuple, len(prefix), len(prefix)+1)
				copy(label, prefix)
				next = append(next, append(label, v))
			}
		}
		labels = next
	}
	return &Index{Names: names, Labels: labels}, nil
}

// Frame is a table with named columns and a row index. A nil Index stands for
// the default range index 0..n-1.
type Frame struct {
	Columns []string
	Data    [][]any
	Index   *Index
}

// NewFrame validates the frame dimensions.
func NewFrame(columns []string, data [][]any, index *Index) (*Frame, error) {
	for i, row := range data {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("frame row %d has %d values, want %d", i, len(row), len(columns))
		}
	}
	if index != nil {
		if len(index.Labels) != len(data) {
			return nil, fmt.Errorf("frame index has %d labels for %d rows", len(index.Labels), len(data))
		}
		for i, label := range index.Labels {
			if len(label) != index.Levels() {
				return nil, fmt.Errorf("frame index label %d has %d levels, want %d", i, len(label), index.Levels())
			}
		}
	}
	return &Frame{Columns: columns, Data: data, Index: index}, nil
}

// FrameFromColumns builds a frame from ordered columns of equal length.
func FrameFromColumns(cols Columns, index *Index) (*Frame, error) {
	names := make([]string, len(cols))
	var data [][]any
	for j, c := range cols {
		names[j] = c.Name
		values, ok := c.Values.([]any)
		if !ok {
			return nil, fmt.Errorf("frame column %q must be []any, got %T", c.Name, c.Values)
		}
		if j == 0 {
			data = make([][]any, len(values))
			for i := range data {
				data[i] = make([]any, len(cols))
			}
		}
		if len(values) != len(data) {
			return nil, fmt.Errorf("frame column %q has %d values, want %d", c.Name, len(values), len(data))
		}
		for i, v := range values {
			data[i][j] = v
		}
	}
	return NewFrame(names, data, index)
}
