// Package numeric contributes typed array cases. They need numpy in the
// rendering runtime.
package numeric

import (
	"context"

	"github.com/AndreyAkinshin/tabsnap/internal/catalog"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

// Module is the runtime library the batch depends on.
const Module = "numpy"

// Provider returns the numeric batch, gated on probe finding numpy.
func Provider(probe catalog.ModuleProbe) catalog.Provider {
	return catalog.Requires(provider{}, probe, Module)
}

type provider struct{}

func (provider) Name() string { return "numeric" }

func (provider) Cases(context.Context) ([]catalog.Case, error) {
	grid, err := table.GridOf([][]int64{{1, 2}, {3, 4}})
	if err != nil {
		return nil, err
	}
	people, err := People()
	if err != nil {
		return nil, err
	}
	return []catalog.Case{
		{
			Name:    "numpy_array_plain",
			Data:    grid,
			Options: table.Kwargs("tablefmt", "plain"),
		},
		{
			Name:    "numpy_recarray_keys_plain",
			Data:    people,
			Options: table.Kwargs("headers", "keys", "tablefmt", "plain"),
		},
	}, nil
}

// People is a structured array with an i4 id field and a U10 name field.
func People() (*table.RecordArray, error) {
	return table.NewRecordArray(
		[]table.Field{{Name: "id", Type: "i4"}, {Name: "name", Type: "U10"}},
		table.T(int32(1), "Alice"),
		table.T(int32(2), "Bob"),
	)
}
