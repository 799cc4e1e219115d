package python

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/tabsnap/internal/canon"
	"github.com/AndreyAkinshin/tabsnap/internal/errors"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type person struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	secret string
}

func wire(t *testing.T, data any) string {
	t.Helper()
	v, err := Encode(data)
	require.NoError(t, err)
	return v.String()
}

func TestEncode_Shapes(t *testing.T) {
	grid, err := table.GridOf([][]int64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	recs, err := table.NewRecordArray(
		[]table.Field{{Name: "id", Type: "i4"}, {Name: "name", Type: "U10"}},
		table.T(1, "Alice"),
	)
	require.NoError(t, err)

	tests := []struct {
		name string
		data any
		want string
	}{
		{
			"rows",
			[][]any{{"a", 1}, {"b", 2.5}},
			`[["a", 1], ["b", 2.5]]`,
		},
		{
			"tuple",
			table.T("left", "right"),
			`{"$tuple": ["left", "right"]}`,
		},
		{
			"columns keep order",
			table.Columns{table.Col("b", []int{1}), table.Col("a", []any{nil})},
			`{"$dict": [["b", [1]], ["a", [null]]]}`,
		},
		{
			"go map sorted",
			map[string][]int{"z": {1}, "a": {2}},
			`{"$dict": [["a", [2]], ["z", [1]]]}`,
		},
		{
			"grid",
			grid,
			`{"$ndarray": {"dtype": "int64", "data": [[1, 2], [3, 4]]}}`,
		},
		{
			"record array",
			recs,
			`{"$recarray": {"dtype": [["id", "i4"], ["name", "U10"]], "rows": [[1, "Alice"]]}}`,
		},
		{
			"struct values are namedtuples",
			[]point{{1, 2}},
			`{"$namedtuple": {"name": "point", "fields": ["x", "y"], "rows": [[1, 2]]}}`,
		},
		{
			"struct pointers are dataclasses",
			[]*person{{Name: "Alice", Age: 30, secret: "x"}},
			`{"$dataclass": {"name": "person", "fields": ["name", "age"], "rows": [["Alice", 30]]}}`,
		},
		{
			"scalar",
			[]any{table.FloatScalar(table.Float32, 0.5)},
			`[{"$scalar": {"dtype": "float32", "value": 0.5}}]`,
		},
		{
			"canonical map",
			canon.Seq(canon.FromMap(canon.NewMap().Set("k", canon.Int(1)))),
			`[{"$dict": [["k", 1]]}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wire(t, tt.data))
		})
	}
}

func TestEncode_Frame(t *testing.T) {
	ix, err := table.MultiIndexFromProduct([]string{"first", "second"}, []any{"bar"}, []any{"one", "two"})
	require.NoError(t, err)
	f, err := table.NewFrame([]string{"A"}, [][]any{{1}, {2}}, ix)
	require.NoError(t, err)

	assert.Equal(t,
		`{"$dataframe": {"columns": ["A"], "data": [[1], [2]], "index": {"names": ["first", "second"], "labels": [["bar", "one"], ["bar", "two"]]}}}`,
		wire(t, f))

	plain, err := table.NewFrame([]string{"A"}, [][]any{{1}}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"$dataframe": {"columns": ["A"], "data": [[1]], "index": null}}`, wire(t, plain))
}

func TestEncodeOptions(t *testing.T) {
	v, err := EncodeOptions(table.Kwargs(
		"tablefmt", "pipe",
		"colalign", table.T("left", "right"),
		"maxcolwidths", []any{nil, 10},
	))
	require.NoError(t, err)
	assert.Equal(t,
		`{"tablefmt": "pipe", "colalign": {"$tuple": ["left", "right"]}, "maxcolwidths": [null, 10]}`,
		v.String())
}

func TestEncode_Unsupported(t *testing.T) {
	_, err := Encode([][]any{{make(chan int)}})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindUnsupportedType))
	assert.Contains(t, err.Error(), "data[0][0]")

	_, err = Encode(map[int]string{1: "a"})
	assert.True(t, errors.IsKind(err, errors.KindUnsupportedType))

	_, err = EncodeOptions(table.Kwargs("maxcolwidths", new(table.Grid)))
	assert.True(t, errors.IsKind(err, errors.KindUnsupportedType))
}
