package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordArray(t *testing.T) {
	fields := []Field{{"id", "i4"}, {"name", "U10"}}

	ra, err := NewRecordArray(fields, T(1, "Alice"), T(2, "Bob"))
	require.NoError(t, err)
	assert.Len(t, ra.Rows, 2)

	_, err = NewRecordArray(fields, T(1))
	assert.ErrorContains(t, err, "row 0 has 1 values, want 2")

	_, err = NewRecordArray([]Field{{"id", "i4"}, {"id", "i8"}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = NewRecordArray(nil)
	assert.Error(t, err)
}

func TestMultiIndexFromProduct(t *testing.T) {
	ix, err := MultiIndexFromProduct(
		[]string{"first", "second"},
		[]any{"foo", "bar"},
		[]any{"one", "two"},
	)
	require.NoError(t, err)

	assert.Equal(t, 2, ix.Levels())
	assert.Equal(t, []Tuple{
		{"foo", "one"}, {"foo", "two"},
		{"bar", "one"}, {"bar", "two"},
	}, ix.Labels)

	_, err = MultiIndexFromProduct([]string{"a"}, []any{1}, []any{2})
	assert.Error(t, err)
}

func TestNewFrame_Validates(t *testing.T) {
	_, err := NewFrame([]string{"a", "b"}, [][]any{{1}}, nil)
	assert.ErrorContains(t, err, "row 0")

	_, err = NewFrame([]string{"a"}, [][]any{{1}, {2}}, NewIndex("id", "x"))
	assert.ErrorContains(t, err, "1 labels for 2 rows")

	f, err := NewFrame([]string{"a"}, [][]any{{1}}, NewIndex("id", "x"))
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, f.Index.Names)
}

func TestFrameFromColumns(t *testing.T) {
	f, err := FrameFromColumns(Columns{
		Col("A", []any{1, 2}),
		Col("B", []any{5, 6}),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, f.Columns)
	assert.Equal(t, [][]any{{1, 5}, {2, 6}}, f.Data)

	_, err = FrameFromColumns(Columns{
		Col("A", []any{1, 2}),
		Col("B", []any{5}),
	}, nil)
	assert.ErrorContains(t, err, `"B" has 1 values`)
}

func TestGridOf(t *testing.T) {
	g, err := GridOf([][]int64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	assert.Equal(t, Int64, g.DType())
	assert.Equal(t, []int{2, 2}, g.Shape())
	assert.Equal(t, 4, g.Len())
	assert.Equal(t, int64(3), g.At(2).Value())

	f, err := GridOf([][]float32{{1.5}})
	require.NoError(t, err)
	assert.Equal(t, Float32, f.DType())
	assert.Equal(t, 1.5, f.At(0).Value())

	_, err = GridOf([][]int32{{1, 2}, {3}})
	assert.Error(t, err)
}

func TestGridOf_NamedElementType(t *testing.T) {
	type celsius float64
	g, err := GridOf([][]celsius{{21.5}})
	require.NoError(t, err)
	assert.Equal(t, Float64, g.DType())
}

func TestNewGrid_Validates(t *testing.T) {
	_, err := NewGrid(Int64, []int{2}, []Scalar{IntScalar(Int64, 1)})
	assert.ErrorContains(t, err, "needs 2 values")

	_, err = NewGrid(Int64, []int{1}, []Scalar{FloatScalar(Float64, 1)})
	assert.ErrorContains(t, err, "dtype")

	g, err := NewGrid(Int64, []int{2, 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
}

func TestScalar(t *testing.T) {
	assert.Equal(t, true, BoolScalar(true).Value())
	assert.Equal(t, Bool, BoolScalar(false).DType())
	assert.Equal(t, "2.5", FloatScalar(Float64, 2.5).String())
	assert.Equal(t, "-7", IntScalar(Int32, -7).String())
}

func TestOptions(t *testing.T) {
	opts := Kwargs("headers", "firstrow", "tablefmt", "pipe")
	assert.Equal(t, []string{"headers", "tablefmt"}, opts.Keys())
	assert.Equal(t, "pipe", opts.Format())

	replaced := opts.Set("headers", "keys")
	assert.Equal(t, []string{"headers", "tablefmt"}, replaced.Keys())
	v, _ := replaced.Get("headers")
	assert.Equal(t, "keys", v)

	orig, _ := opts.Get("headers")
	assert.Equal(t, "firstrow", orig, "Set does not mutate the receiver")

	_, ok := opts.Get("colalign")
	assert.False(t, ok)

	assert.Panics(t, func() { Kwargs("tablefmt") })
}
