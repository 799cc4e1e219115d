package cases

import (
	"github.com/AndreyAkinshin/tabsnap/internal/catalog"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

// Point is an immutable record; a slice of Point values renders as a list of
// namedtuples.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Person is a mutable record; a slice of *Person renders as a list of
// dataclass instances.
type Person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Records returns the batch of field-tagged and columnar sources.
func Records() catalog.Provider {
	keys := table.Kwargs("headers", "keys", "tablefmt", "plain")
	return catalog.Static{Label: "records", Batch: []catalog.Case{
		{
			Name:    "namedtuple_keys_plain",
			Data:    []Point{{X: 1, Y: 2}, {X: 3, Y: 4}},
			Options: keys,
		},
		{
			Name:    "dataclass_keys_plain",
			Data:    []*Person{{Name: "Alice", Age: 30}, {Name: "Bob", Age: 25}},
			Options: keys,
		},
		{
			// Column lengths differ on purpose.
			Name: "dict_iterables_mismatch_plain",
			Data: table.Columns{
				table.Col("name", []string{"Alice", "Bob", "Cara"}),
				table.Col("age", []int{30, 25}),
				table.Col("city", []string{"NYC", "Paris", "Berlin"}),
			},
			Options: keys,
		},
	}}
}
