package python

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/AndreyAkinshin/tabsnap/internal/canon"
	"github.com/AndreyAkinshin/tabsnap/internal/errors"
	"github.com/AndreyAkinshin/tabsnap/internal/normalize"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

// Wire tags understood by the driver. A tagged value is a JSON object with a
// single key.
const (
	tagTuple      = "$tuple"
	tagDict       = "$dict"
	tagScalar     = "$scalar"
	tagNDArray    = "$ndarray"
	tagRecArray   = "$recarray"
	tagNamedTuple = "$namedtuple"
	tagDataclass  = "$dataclass"
	tagDataFrame  = "$dataframe"
)

// Encode converts native data into the wire form the driver rebuilds Python
// objects from. Unlike normalize.Data it keeps the native shape: tuples stay
// tuples, grids become ndarrays, frames become DataFrames.
//
// A slice of struct values travels as namedtuples and a slice of struct
// pointers as dataclass instances. Mappings travel as ordered key/value pairs
// so that key order survives.
func Encode(data any) (canon.Value, error) {
	return encode("data", data)
}

// EncodeOptions converts an option record into wire form, keeping key order.
func EncodeOptions(opts table.Options) (canon.Value, error) {
	m := canon.NewMap()
	for _, opt := range opts {
		v, err := encode("kwargs."+opt.Name, opt.Value)
		if err != nil {
			return canon.Value{}, err
		}
		m.Set(opt.Name, v)
	}
	return canon.FromMap(m), nil
}

func tagged(tag string, body canon.Value) canon.Value {
	return canon.FromMap(canon.NewMap().Set(tag, body))
}

func encode(path string, x any) (canon.Value, error) {
	switch v := x.(type) {
	case nil:
		return canon.Null(), nil
	case canon.Value:
		return encodeCanon(v), nil
	case *canon.Map:
		if v == nil {
			return canon.Null(), nil
		}
		return encodeCanon(canon.FromMap(v)), nil
	case table.Scalar:
		return encodeScalar(v), nil
	case table.Tuple:
		items, err := encodeItems(path, v)
		if err != nil {
			return canon.Value{}, err
		}
		return tagged(tagTuple, canon.Seq(items...)), nil
	case table.Columns:
		return encodeColumns(path, v)
	case *table.Grid:
		return encodeGrid(v)
	case table.Grid:
		return encodeGrid(&v)
	case *table.RecordArray:
		return encodeRecordArray(path, v)
	case table.RecordArray:
		return encodeRecordArray(path, &v)
	case *table.Frame:
		return encodeFrame(path, v)
	case table.Frame:
		return encodeFrame(path, &v)
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
		return encode(path, rv.Elem().Interface())
	case reflect.Map:
		return encodeMap(path, rv)
	case reflect.Slice, reflect.Array:
		if tag, ok := recordTag(rv); ok {
			return encodeRecords(path, tag, rv)
		}
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		out, err := encodeItems(path, items)
		if err != nil {
			return canon.Value{}, err
		}
		return canon.Seq(out...), nil
	}
	return canon.Value{}, errors.UnsupportedType(path, x)
}

func encodeItems(path string, items []any) ([]canon.Value, error) {
	out := make([]canon.Value, len(items))
	for i, item := range items {
		v, err := encode(fmt.Sprintf("%s[%d]", path, i), item)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// encodeCanon rewrites the maps inside an already canonical value as ordered
// pairs.
func encodeCanon(v canon.Value) canon.Value {
	switch v.Kind() {
	case canon.KindSeq:
		items := make([]canon.Value, v.Len())
		for i, item := range v.Items() {
			items[i] = encodeCanon(item)
		}
		return canon.Seq(items...)
	case canon.KindMap:
		var pairs []canon.Value
		v.Map().Range(func(key string, item canon.Value) bool {
			pairs = append(pairs, canon.Seq(canon.String(key), encodeCanon(item)))
			return true
		})
		return tagged(tagDict, canon.Seq(pairs...))
	}
	return v
}

func encodeScalar(s table.Scalar) canon.Value {
	var value canon.Value
	switch v := s.Value().(type) {
	case bool:
		value = canon.Bool(v)
	case float64:
		value = canon.Float(v)
	case int64:
		value = canon.Int(v)
	}
	body := canon.NewMap().
		Set("dtype", canon.String(string(s.DType()))).
		Set("value", value)
	return tagged(tagScalar, canon.FromMap(body))
}

func encodeGrid(g *table.Grid) (canon.Value, error) {
	if g == nil {
		return canon.Null(), nil
	}
	data, err := normalize.Grid(g)
	if err != nil {
		return canon.Value{}, err
	}
	body := canon.NewMap().
		Set("dtype", canon.String(string(g.DType()))).
		Set("data", data)
	return tagged(tagNDArray, canon.FromMap(body)), nil
}

func encodeColumns(path string, cols table.Columns) (canon.Value, error) {
	pairs := make([]canon.Value, len(cols))
	for i, c := range cols {
		v, err := encode(fmt.Sprintf("%s[%q]", path, c.Name), c.Values)
		if err != nil {
			return canon.Value{}, err
		}
		pairs[i] = canon.Seq(canon.String(c.Name), v)
	}
	return tagged(tagDict, canon.Seq(pairs...)), nil
}

// encodeMap sorts the keys of a Go map, matching normalize.Data.
func encodeMap(path string, rv reflect.Value) (canon.Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return canon.Value{}, errors.UnsupportedType(path, rv.Interface())
	}
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	pairs := make([]canon.Value, len(keys))
	for i, k := range keys {
		item := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface()
		v, err := encode(fmt.Sprintf("%s[%q]", path, k), item)
		if err != nil {
			return canon.Value{}, err
		}
		pairs[i] = canon.Seq(canon.String(k), v)
	}
	return tagged(tagDict, canon.Seq(pairs...)), nil
}

func encodeRecordArray(path string, r *table.RecordArray) (canon.Value, error) {
	if r == nil {
		return canon.Null(), nil
	}
	dtype := make([]canon.Value, len(r.Fields))
	for i, f := range r.Fields {
		dtype[i] = canon.Strings(f.Name, string(f.Type))
	}
	rows := make([]canon.Value, len(r.Rows))
	for i, row := range r.Rows {
		cells, err := encodeItems(fmt.Sprintf("%s.rows[%d]", path, i), row)
		if err != nil {
			return canon.Value{}, err
		}
		rows[i] = canon.Seq(cells...)
	}
	body := canon.NewMap().
		Set("dtype", canon.Seq(dtype...)).
		Set("rows", canon.Seq(rows...))
	return tagged(tagRecArray, canon.FromMap(body)), nil
}

func encodeFrame(path string, f *table.Frame) (canon.Value, error) {
	if f == nil {
		return canon.Null(), nil
	}
	rows := make([]canon.Value, len(f.Data))
	for i, row := range f.Data {
		cells, err := encodeItems(fmt.Sprintf("%s.data[%d]", path, i), row)
		if err != nil {
			return canon.Value{}, err
		}
		rows[i] = canon.Seq(cells...)
	}
	index := canon.Null()
	if f.Index != nil {
		labels := make([]canon.Value, len(f.Index.Labels))
		for i, label := range f.Index.Labels {
			cells, err := encodeItems(fmt.Sprintf("%s.index[%d]", path, i), label)
			if err != nil {
				return canon.Value{}, err
			}
			labels[i] = canon.Seq(cells...)
		}
		index = canon.FromMap(canon.NewMap().
			Set("names", canon.Strings(f.Index.Names...)).
			Set("labels", canon.Seq(labels...)))
	}
	body := canon.NewMap().
		Set("columns", canon.Strings(f.Columns...)).
		Set("data", canon.Seq(rows...)).
		Set("index", index)
	return tagged(tagDataFrame, canon.FromMap(body)), nil
}

// recordTag reports whether rv is a non-empty sequence of structs and which
// record kind it travels as.
func recordTag(rv reflect.Value) (string, bool) {
	elem := rv.Type().Elem()
	switch {
	case elem.Kind() == reflect.Struct && isRecordType(elem):
		return tagNamedTuple, rv.Len() > 0
	case elem.Kind() == reflect.Pointer && elem.Elem().Kind() == reflect.Struct && isRecordType(elem.Elem()):
		return tagDataclass, rv.Len() > 0
	}
	return "", false
}

func isRecordType(t reflect.Type) bool {
	return t != reflect.TypeFor[table.Scalar]() && t != reflect.TypeFor[canon.Value]() &&
		t != reflect.TypeFor[table.Grid]() && t != reflect.TypeFor[table.Frame]() &&
		t != reflect.TypeFor[table.RecordArray]()
}

// encodeRecords sends a sequence of structs as a record class definition plus
// one positional row per element. Field names follow the json tag rules of
// normalize.Data.
func encodeRecords(path, tag string, rv reflect.Value) (canon.Value, error) {
	t := rv.Type().Elem()
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var (
		fields []string
		index  []int
	)
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if jsonTag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(jsonTag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		fields = append(fields, name)
		index = append(index, i)
	}

	rows := make([]canon.Value, rv.Len())
	for i := range rows {
		elem := rv.Index(i)
		if elem.Kind() == reflect.Pointer {
			if elem.IsNil() {
				return canon.Value{}, errors.UnsupportedType(fmt.Sprintf("%s[%d]", path, i), nil)
			}
			elem = elem.Elem()
		}
		cells := make([]canon.Value, len(index))
		for j, fi := range index {
			v, err := encode(fmt.Sprintf("%s[%d].%s", path, i, fields[j]), elem.Field(fi).Interface())
			if err != nil {
				return canon.Value{}, err
			}
			cells[j] = v
		}
		rows[i] = canon.Seq(cells...)
	}
	name := t.Name()
	if name == "" {
		name = "Row"
	}
	body := canon.NewMap().
		Set("name", canon.String(name)).
		Set("fields", canon.Strings(fields...)).
		Set("rows", canon.Seq(rows...))
	return tagged(tag, canon.FromMap(body)), nil
}

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
