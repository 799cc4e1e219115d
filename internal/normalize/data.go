// Package normalize reduces native tabular data and formatting options to
// canonical values.
//
// Data sources are classified against a fixed, ordered list of shapes and the
// first match wins. Classification looks only at static Go types and reflect
// kinds; it never probes for methods.
package normalize

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/AndreyAkinshin/tabsnap/internal/canon"
	"github.com/AndreyAkinshin/tabsnap/internal/errors"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

// Shape names, as reported by Classify.
const (
	ShapeIndexedTable    = "indexed table"
	ShapeStructuredArray = "structured array"
	ShapeNumericArray    = "numeric array"
	ShapeColumnar        = "columnar mapping"
	ShapeRecords         = "records"
	ShapeRows            = "rows"
)

type shape struct {
	name    string
	match   func(source any, rv reflect.Value) bool
	convert func(source any, rv reflect.Value) (canon.Value, error)
}

var (
	tupleType   = reflect.TypeFor[table.Tuple]()
	columnsType = reflect.TypeFor[table.Columns]()
	scalarType  = reflect.TypeFor[table.Scalar]()
	valueType   = reflect.TypeFor[canon.Value]()
)

// shapes is consulted in order; the most specific native types come first so
// that, for example, table.Columns is never mistaken for a slice of records.
var shapes = []shape{
	{ShapeIndexedTable, isFrame, convertFrame},
	{ShapeStructuredArray, isRecordArray, convertRecordArray},
	{ShapeNumericArray, isGrid, convertGrid},
	{ShapeColumnar, isColumnar, convertColumnar},
	{ShapeRecords, isRecords, convertRecords},
	{ShapeRows, isRows, convertRows},
}

// Classify returns the name of the shape source is normalized as, or "" when
// no shape matches.
func Classify(source any) string {
	rv := reflect.ValueOf(source)
	for _, s := range shapes {
		if s.match(source, rv) {
			return s.name
		}
	}
	return ""
}

// Data converts a native tabular source into its canonical form. The result is
// always a sequence: rows and records map to one element per row, while the
// single-object shapes (columnar mapping, structured array, indexed table) are
// wrapped in a one-element sequence.
func Data(source any) (canon.Value, error) {
	rv := reflect.ValueOf(source)
	for _, s := range shapes {
		if s.match(source, rv) {
			return s.convert(source, rv)
		}
	}
	return canon.Value{}, errors.UnsupportedType("data", source)
}

func isFrame(source any, _ reflect.Value) bool {
	switch f := source.(type) {
	case table.Frame:
		return true
	case *table.Frame:
		return f != nil
	}
	return false
}

func convertFrame(source any, _ reflect.Value) (canon.Value, error) {
	f, _ := source.(*table.Frame)
	if f == nil {
		v := source.(table.Frame)
		f = &v
	}
	tagged, err := Frame(f)
	if err != nil {
		return canon.Value{}, err
	}
	return canon.Seq(tagged), nil
}

func isRecordArray(source any, _ reflect.Value) bool {
	switch r := source.(type) {
	case table.RecordArray:
		return true
	case *table.RecordArray:
		return r != nil
	}
	return false
}

func convertRecordArray(source any, _ reflect.Value) (canon.Value, error) {
	r, _ := source.(*table.RecordArray)
	if r == nil {
		v := source.(table.RecordArray)
		r = &v
	}
	tagged, err := RecordArray(r)
	if err != nil {
		return canon.Value{}, err
	}
	return canon.Seq(tagged), nil
}

func isGrid(source any, _ reflect.Value) bool {
	switch g := source.(type) {
	case table.Grid:
		return true
	case *table.Grid:
		return g != nil
	}
	return false
}

func convertGrid(source any, _ reflect.Value) (canon.Value, error) {
	g, _ := source.(*table.Grid)
	if g == nil {
		v := source.(table.Grid)
		g = &v
	}
	// Table data needs rows, so a one-dimensional array is not a table.
	if len(g.Shape()) < 2 {
		return canon.Value{}, errors.UnsupportedType("data", source)
	}
	return grid("data", g)
}

func isColumnar(_ any, rv reflect.Value) bool {
	if !rv.IsValid() {
		return false
	}
	if rv.Type() == columnsType {
		return true
	}
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return false
	}
	switch rv.Type().Elem().Kind() {
	case reflect.Slice, reflect.Array:
		return true
	case reflect.Interface:
		iter := rv.MapRange()
		for iter.Next() {
			if !isSequence(iter.Value().Elem()) {
				return false
			}
		}
		return true
	}
	return false
}

// convertColumnar passes columns through as-is. Columns of different lengths
// keep their lengths; how the renderer treats the mismatch is recorded in the
// rendered output, not decided here.
func convertColumnar(source any, rv reflect.Value) (canon.Value, error) {
	m := canon.NewMap()
	if cols, ok := source.(table.Columns); ok {
		for _, c := range cols {
			path := fmt.Sprintf("data[%q]", c.Name)
			values := reflect.ValueOf(c.Values)
			if !isSequence(values) {
				return canon.Value{}, errors.UnsupportedType(path, c.Values)
			}
			v, err := cell(path, c.Values)
			if err != nil {
				return canon.Value{}, err
			}
			m.Set(c.Name, v)
		}
		return canon.Seq(canon.FromMap(m)), nil
	}

	// Go maps carry no order, so keys are sorted.
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	for _, k := range keys {
		path := fmt.Sprintf("data[%q]", k)
		v, err := cell(path, rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
		if err != nil {
			return canon.Value{}, err
		}
		m.Set(k, v)
	}
	return canon.Seq(canon.FromMap(m)), nil
}

func isRecords(_ any, rv reflect.Value) bool {
	if !isSequence(rv) || rv.Type() == tupleType || rv.Len() == 0 {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if !isRecord(rv.Index(i)) {
			return false
		}
	}
	return true
}

func isRecord(v reflect.Value) bool {
	v = indirect(v)
	return v.IsValid() && v.Kind() == reflect.Struct &&
		v.Type() != scalarType && v.Type() != valueType
}

func convertRecords(_ any, rv reflect.Value) (canon.Value, error) {
	rows := make([]canon.Value, rv.Len())
	for i := range rows {
		m, err := record(fmt.Sprintf("data[%d]", i), indirect(rv.Index(i)))
		if err != nil {
			return canon.Value{}, err
		}
		rows[i] = canon.FromMap(m)
	}
	return canon.Seq(rows...), nil
}

// record maps the exported fields of a struct to their values in declaration
// order. A json tag renames the field; "-" skips it.
func record(path string, v reflect.Value) (*canon.Map, error) {
	m := canon.NewMap()
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		fv, err := cell(path+"."+name, v.Field(i).Interface())
		if err != nil {
			return nil, err
		}
		m.Set(name, fv)
	}
	return m, nil
}

func isRows(_ any, rv reflect.Value) bool {
	if !isSequence(rv) || rv.Type() == tupleType {
		return false
	}
	for i := 0; i < rv.Len(); i++ {
		if !isSequence(indirect(rv.Index(i))) {
			return false
		}
	}
	return true
}

func convertRows(_ any, rv reflect.Value) (canon.Value, error) {
	rows := make([]canon.Value, rv.Len())
	for i := range rows {
		row := indirect(rv.Index(i))
		cells := make([]canon.Value, row.Len())
		for j := range cells {
			c, err := cell(fmt.Sprintf("data[%d][%d]", i, j), row.Index(j).Interface())
			if err != nil {
				return canon.Value{}, err
			}
			cells[j] = c
		}
		rows[i] = canon.Seq(cells...)
	}
	return canon.Seq(rows...), nil
}

// Grid converts a numeric array to nested sequences following its shape, with
// every scalar unwrapped to a plain number. A grid without dimensions, such as
// the zero value, is rejected.
func Grid(g *table.Grid) (canon.Value, error) {
	return grid("grid", g)
}

func grid(path string, g *table.Grid) (canon.Value, error) {
	shape := g.Shape()
	if len(shape) == 0 {
		return canon.Value{}, errors.UnsupportedType(path, g)
	}
	var build func(dim, offset int) canon.Value
	build = func(dim, offset int) canon.Value {
		stride := 1
		for _, n := range shape[dim+1:] {
			stride *= n
		}
		items := make([]canon.Value, shape[dim])
		for i := range items {
			if dim == len(shape)-1 {
				items[i] = scalar(g.At(offset + i))
			} else {
				items[i] = build(dim+1, offset+i*stride)
			}
		}
		return canon.Seq(items...)
	}
	return build(0, 0), nil
}

// RecordArray converts a structured array to its tagged form: the field
// name/type pairs in declaration order followed by the rows in row order.
func RecordArray(r *table.RecordArray) (canon.Value, error) {
	dtype := make([]canon.Value, len(r.Fields))
	for i, f := range r.Fields {
		dtype[i] = canon.Strings(f.Name, string(f.Type))
	}
	rows := make([]canon.Value, len(r.Rows))
	for i, row := range r.Rows {
		if len(row) != len(r.Fields) {
			return canon.Value{}, fmt.Errorf("record array row %d has %d values, want %d", i, len(row), len(r.Fields))
		}
		v, err := cell(fmt.Sprintf("rows[%d]", i), row)
		if err != nil {
			return canon.Value{}, err
		}
		rows[i] = v
	}
	m := canon.Tagged(canon.TagRecordArray).
		Set("dtype", canon.Seq(dtype...)).
		Set("rows", canon.Seq(rows...))
	return canon.FromMap(m), nil
}

// Frame converts an indexed table to its tagged form. Labels of a multi-level
// index are written as the Python string of their tuple; index_label is set
// only when exactly one index level is named.
func Frame(f *table.Frame) (canon.Value, error) {
	data := make([]canon.Value, len(f.Data))
	for i, row := range f.Data {
		v, err := cell(fmt.Sprintf("data[%d]", i), row)
		if err != nil {
			return canon.Value{}, err
		}
		data[i] = v
	}

	index := make([]canon.Value, len(f.Data))
	label := ""
	if f.Index == nil {
		for i := range index {
			index[i] = canon.Int(int64(i))
		}
	} else {
		if len(f.Index.Labels) != len(f.Data) {
			return canon.Value{}, fmt.Errorf("frame index has %d labels for %d rows", len(f.Index.Labels), len(f.Data))
		}
		for i, l := range f.Index.Labels {
			path := fmt.Sprintf("index[%d]", i)
			if len(l) == 1 {
				v, err := cell(path, l[0])
				if err != nil {
					return canon.Value{}, err
				}
				index[i] = v
				continue
			}
			s, err := pyStr(path, l)
			if err != nil {
				return canon.Value{}, err
			}
			index[i] = canon.String(s)
		}
		var named []string
		for _, n := range f.Index.Names {
			if n != "" {
				named = append(named, n)
			}
		}
		if len(named) == 1 {
			label = named[0]
		}
	}

	m := canon.Tagged(canon.TagDataFrame).
		Set("columns", canon.Strings(f.Columns...)).
		Set("data", canon.Seq(data...)).
		Set("index", canon.Seq(index...))
	if label != "" {
		m.Set("index_label", canon.String(label))
	}
	return canon.FromMap(m), nil
}

// cell converts a value found inside a data source. Numeric wrappers and named
// numeric types are unwrapped to plain numbers at any depth.
func cell(path string, x any) (canon.Value, error) {
	switch v := x.(type) {
	case nil:
		return canon.Null(), nil
	case canon.Value:
		return v, nil
	case table.Scalar:
		return scalar(v), nil
	case []byte:
		return canon.String(string(v)), nil
	}

	rv := reflect.ValueOf(x)
	if p, ok := primitive(rv); ok {
		return p, nil
	}
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return canon.Null(), nil
		}
		return cell(path, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items := make([]canon.Value, rv.Len())
		for i := range items {
			c, err := cell(fmt.Sprintf("%s[%d]", path, i), rv.Index(i).Interface())
			if err != nil {
				return canon.Value{}, err
			}
			items[i] = c
		}
		return canon.Seq(items...), nil
	}
	return canon.Value{}, errors.UnsupportedType(path, x)
}

// primitive converts bools, strings and numbers, including named types built
// on them.
func primitive(rv reflect.Value) (canon.Value, bool) {
	switch rv.Kind() {
	case reflect.Bool:
		return canon.Bool(rv.Bool()), true
	case reflect.String:
		return canon.String(rv.String()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return canon.Int(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return canon.Float(float64(u)), true
		}
		return canon.Int(int64(u)), true
	case reflect.Float32, reflect.Float64:
		return canon.Float(rv.Float()), true
	}
	return canon.Value{}, false
}

func scalar(s table.Scalar) canon.Value {
	switch v := s.Value().(type) {
	case bool:
		return canon.Bool(v)
	case float64:
		return canon.Float(v)
	case int64:
		return canon.Int(v)
	}
	return canon.Null()
}

func isSequence(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	k := v.Kind()
	return (k == reflect.Slice || k == reflect.Array) && v.Type().Elem().Kind() != reflect.Uint8
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
