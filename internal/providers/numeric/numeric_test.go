package numeric

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/tabsnap/internal/normalize"
)

type probe map[string]bool

func (p probe) HasModule(_ context.Context, name string) bool { return p[name] }

func TestProvider(t *testing.T) {
	cs, err := Provider(probe{"pandas": true}).Cases(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cs, "numpy missing")

	cs, err = Provider(probe{"numpy": true}).Cases(context.Background())
	require.NoError(t, err)
	require.Len(t, cs, 2)

	tests := []struct {
		name  string
		shape string
		want  string
	}{
		{"numpy_array_plain", normalize.ShapeNumericArray, `[[1, 2], [3, 4]]`},
		{
			"numpy_recarray_keys_plain",
			normalize.ShapeStructuredArray,
			`[{"__tabulate_numpy_recarray__": true, "dtype": [["id", "i4"], ["name", "U10"]], "rows": [[1, "Alice"], [2, "Bob"]]}]`,
		},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, cs[i].Name)
			assert.Equal(t, tt.shape, normalize.Classify(cs[i].Data))
			v, err := normalize.Data(cs[i].Data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.String())
		})
	}
}
