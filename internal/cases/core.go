// Package cases defines the built-in fixture cases: the row-of-rows core
// batch, the record batch and the batch loaded from extra.yaml.
package cases

import (
	"github.com/AndreyAkinshin/tabsnap/internal/catalog"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

func planets() [][]any {
	return [][]any{
		{"Sun", "696000", "1989100000"},
		{"Earth", "6371", "5973.6"},
		{"Moon", "1737", "73.5"},
		{"Mars", "3390", "641.85"},
	}
}

func scores() [][]any {
	return [][]any{{"Name", "Score"}, {"Alice", 10}, {"Bob", 1000}}
}

func descriptions() [][]any {
	return [][]any{
		{"Name", "Description"},
		{"Mercury", "nearest\nplanet"},
		{"Venus", "second\nplanet"},
	}
}

func radii() [][]any {
	return [][]any{{"Planet", "Radius"}, {"Mercury", 2440}, {"Venus", 6052}}
}

func regions() [][]any {
	return [][]any{{"Region", "Value"}, {"EU", "42992e1"}, {"US", "1000"}}
}

// firstrow is the option prefix shared by cases whose first row is the header.
func firstrow(format string, more ...any) table.Options {
	return table.Kwargs(append([]any{"headers", "firstrow", "tablefmt", format}, more...)...)
}

// Core returns the row-of-rows batch covering the main table formats and
// alignment, wrapping and number-parsing options.
func Core() catalog.Provider {
	return catalog.Static{Label: "core", Batch: []catalog.Case{
		{Name: "plain_simple", Data: planets(), Options: table.Kwargs("tablefmt", "plain")},
		{Name: "simple_with_headers", Data: scores(), Options: firstrow("simple")},
		{
			Name:    "pipe_alignment",
			Data:    scores(),
			Options: firstrow("pipe", "colalign", table.T("left", "right")),
		},
		{Name: "grid_rowalign", Data: descriptions(), Options: firstrow("grid", "rowalign", "bottom")},
		{
			Name:    "github_multiline",
			Data:    [][]any{{"Name", "Quote"}, {"Alice", "Hello\nWorld"}, {"Bob", "Hi"}},
			Options: firstrow("github"),
		},
		{Name: "orgtbl_numeric", Data: scores(), Options: firstrow("orgtbl")},
		{
			Name:    "psql_numbers",
			Data:    [][]any{{"planet", "radius"}, {"Mercury", 2440}, {"Venus", 6052}},
			Options: firstrow("psql"),
		},
		{
			Name:    "html_simple",
			Data:    [][]any{{"Name", "Score"}, {"Alice", 1}, {"Bob", 2}},
			Options: firstrow("html"),
		},
		{
			Name:    "unsafehtml_simple",
			Data:    [][]any{{"Name", "Score"}, {"<b>Alice</b>", 10}, {"<i>Bob</i>", 1000}},
			Options: firstrow("unsafehtml"),
		},
		{Name: "latex_table", Data: radii(), Options: firstrow("latex")},
		{Name: "latex_booktabs", Data: radii(), Options: firstrow("latex_booktabs")},
		{
			Name: "grid_maxcolwidth",
			Data: [][]any{
				{"Name", "Description"},
				{"Mercury", "Nearest planet to the Sun"},
				{"Venus", "Has a thick atmosphere"},
			},
			Options: firstrow("grid", "maxcolwidths", []any{nil, 10}),
		},
		{Name: "grid_disable_numparse", Data: regions(), Options: firstrow("grid", "disable_numparse", []int{1})},
		{
			Name:    "pipe_rowalign_mixed",
			Data:    descriptions(),
			Options: firstrow("pipe", "rowalign", []string{"top", "bottom"}),
		},
		{Name: "pipe_disable_numparse", Data: regions(), Options: firstrow("pipe", "disable_numparse", []int{1})},
		{
			Name:    "plain_showindex",
			Data:    [][]any{{"Sun", "696000"}, {"Earth", "6371"}},
			Options: firstrow("plain", "showindex", "always"),
		},
		{
			Name:    "plain_colglobal_right",
			Data:    [][]any{{"Alice", 10}, {"Bob", 1000}},
			Options: table.Kwargs("tablefmt", "plain", "colalign", table.T("right", "right")),
		},
		{
			Name:    "ansi_plain",
			Data:    [][]any{{"Name", "Value"}, {"\x1b[31mRed\x1b[0m", 10}, {"Plain", 5}},
			Options: firstrow("plain"),
		},
		{
			Name:    "wide_grid",
			Data:    [][]any{{"Name", "Note"}, {"寿司", "おいしい"}, {"カレー", "辛い"}},
			Options: firstrow("grid"),
		},
		{
			Name:    "plain_preserve_whitespace",
			Data:    [][]any{{"Name", "Value"}, {"  Alice", " 10"}, {"Bob  ", "5"}},
			Options: firstrow("plain"),
		},
		{Name: "mediawiki_basic", Data: scores(), Options: firstrow("mediawiki")},
		{Name: "textile_basic", Data: scores(), Options: firstrow("textile")},
	}}
}
