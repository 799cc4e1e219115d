package table

import (
	"fmt"
	"reflect"
	"strconv"
)

// DType names an element type using numpy conventions. Grids use the long
// names ("int64"); record array fields may also use the short codes ("i4").
type DType string

const (
	Bool    DType = "bool"
	Int32   DType = "int32"
	Int64   DType = "int64"
	Float32 DType = "float32"
	Float64 DType = "float64"
)

// Number lists the Go element types a Grid can be built from.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 |
		~float32 | ~float64
}

type scalarKind uint8

const (
	scalarInt scalarKind = iota
	scalarFloat
	scalarBool
)

// Scalar is a typed numeric value: the element type of a Grid. It is distinct
// from the Go primitive it wraps and is unwrapped to that primitive during
// canonicalization.
type Scalar struct {
	dtype DType
	kind  scalarKind
	i     int64
	f     float64
}

func IntScalar(dtype DType, v int64) Scalar { return Scalar{dtype: dtype, kind: scalarInt, i: v} }
func FloatScalar(dtype DType, v float64) Scalar { return Scalar{dtype: dtype, kind: scalarFloat, f: v} }

func BoolScalar(v bool) Scalar {
	s := Scalar{dtype: Bool, kind: scalarBool}
	if v {
		s.i = 1
	}
	return s
}

func (s Scalar) DType() DType { return s.dtype }

// Value returns the wrapped primitive: int64, float64 or bool.
func (s Scalar) Value() any {
	switch s.kind {
	case scalarFloat:
		return s.f
	case scalarBool:
		return s.i != 0
	default:
		return s.i
	}
}

func (s Scalar) String() string {
	switch s.kind {
	case scalarFloat:
		return strconv.FormatFloat(s.f, 'g', -1, 64)
	case scalarBool:
		return strconv.FormatBool(s.i != 0)
	default:
		return strconv.FormatInt(s.i, 10)
	}
}

// Grid is a homogeneous, typed N-dimensional numeric array stored row-major.
type Grid struct {
	dtype DType
	shape []int
	data  []Scalar
}

// NewGrid builds a grid of the given shape. The number of scalars must match
// the shape and every scalar must carry dtype.
func NewGrid(dtype DType, shape []int, data []Scalar) (*Grid, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("grid shape is empty")
	}
	size := 1
	for _, n := range shape {
		if n < 0 {
			return nil, fmt.Errorf("grid dimension %d is negative", n)
		}
		size *= n
	}
	if size != len(data) {
		return nil, fmt.Errorf("grid of shape %v needs %d values, got %d", shape, size, len(data))
	}
	for i, s := range data {
		if s.dtype != dtype {
			return nil, fmt.Errorf("grid value %d has dtype %s, want %s", i, s.dtype, dtype)
		}
	}
	return &Grid{dtype: dtype, shape: append([]int(nil), shape...), data: data}, nil
}

// GridOf builds a two-dimensional grid from rows of equal length, deriving the
// dtype from T.
func GridOf[T Number](rows [][]T) (*Grid, error) {
	dtype, isFloat := dtypeOf[T]()
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}
	data := make([]Scalar, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("grid row %d has %d values, want %d", i, len(row), cols)
		}
		for _, v := range row {
			if isFloat {
				data = append(data, FloatScalar(dtype, float64(v)))
			} else {
				data = append(data, IntScalar(dtype, int64(v)))
			}
		}
	}
	return NewGrid(dtype, []int{len(rows), cols}, data)
}

func dtypeOf[T Number]() (DType, bool) {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Float32:
		return Float32, true
	case reflect.Float64:
		return Float64, true
	case reflect.Int8:
		return "int8", false
	case reflect.Int16:
		return "int16", false
	case reflect.Int32:
		return Int32, false
	case reflect.Uint8:
		return "uint8", false
	case reflect.Uint16:
		return "uint16", false
	case reflect.Uint32:
		return "uint32", false
	default:
		return Int64, false
	}
}

func (g *Grid) DType() DType { return g.dtype }

// Shape returns a copy of the grid dimensions.
func (g *Grid) Shape() []int { return append([]int(nil), g.shape...) }

// Len is the total number of scalars.
func (g *Grid) Len() int { return len(g.data) }

// At returns the scalar at the given flat row-major offset.
func (g *Grid) At(i int) Scalar { return g.data[i] }

// Flat returns a copy of the scalars in row-major order.
func (g *Grid) Flat() []Scalar { return append([]Scalar(nil), g.data...) }
