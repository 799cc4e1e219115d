// Package frame contributes indexed-table cases. They need pandas in the
// rendering runtime.
package frame

import (
	"context"

	"github.com/AndreyAkinshin/tabsnap/internal/catalog"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

// Module is the runtime library the batch depends on.
const Module = "pandas"

// Provider returns the frame batch, gated on probe finding pandas.
func Provider(probe catalog.ModuleProbe) catalog.Provider {
	return catalog.Requires(provider{}, probe, Module)
}

type provider struct{}

func (provider) Name() string { return "frame" }

func (provider) Cases(context.Context) ([]catalog.Case, error) {
	multi, err := MultiIndexed()
	if err != nil {
		return nil, err
	}
	labelled, err := Labelled()
	if err != nil {
		return nil, err
	}
	return []catalog.Case{
		{
			Name:    "dataframe_multiindex_grid",
			Data:    multi,
			Options: table.Kwargs("headers", "keys", "tablefmt", "grid"),
		},
		{
			Name:    "dataframe_index_label_plain",
			Data:    labelled,
			Options: table.Kwargs("headers", "keys", "tablefmt", "plain"),
		},
	}, nil
}

// MultiIndexed is a two-column frame over the product of ("foo", "bar") and
// ("one", "two"), with levels named first and second.
func MultiIndexed() (*table.Frame, error) {
	ix, err := table.MultiIndexFromProduct(
		[]string{"first", "second"},
		[]any{"foo", "bar"},
		[]any{"one", "two"},
	)
	if err != nil {
		return nil, err
	}
	return table.FrameFromColumns(table.Columns{
		table.Col("A", []any{1, 2, 3, 4}),
		table.Col("B", []any{5, 6, 7, 8}),
	}, ix)
}

// Labelled is a frame whose single index level is named "id".
func Labelled() (*table.Frame, error) {
	return table.FrameFromColumns(table.Columns{
		table.Col("name", []any{"Alice", "Bob"}),
		table.Col("score", []any{10, 20}),
	}, table.NewIndex("id", "row 1", "row 2"))
}
