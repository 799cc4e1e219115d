// Package schema provides the embedded JSON schemas for the fixture file and
// tabsnap.yaml.
package schema

import "embed"

// FS contains the embedded schema files.
//
//go:embed *.schema.json
var FS embed.FS
