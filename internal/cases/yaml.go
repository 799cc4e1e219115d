package cases

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/tabsnap/internal/catalog"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

//go:embed extra.yaml
var extraYAML []byte

// TupleTag marks a YAML sequence that is passed to the renderer as a tuple.
const TupleTag = "!tuple"

// Extra returns the batch defined in the embedded extra.yaml.
func Extra() catalog.Provider {
	return yamlBatch{label: "extra", load: func() ([]byte, error) { return extraYAML, nil }}
}

// File returns a batch read from a YAML case file on disk, in the format of
// extra.yaml.
func File(path string) catalog.Provider {
	return yamlBatch{label: path, load: func() ([]byte, error) { return os.ReadFile(path) }}
}

type yamlBatch struct {
	label string
	load  func() ([]byte, error)
}

func (b yamlBatch) Name() string { return b.label }

func (b yamlBatch) Cases(context.Context) ([]catalog.Case, error) {
	data, err := b.load()
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}

// ParseYAML parses a case batch. Cases and their options keep the order they
// are written in, which a plain map decode would lose.
func ParseYAML(data []byte) ([]catalog.Case, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse cases: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: cases must be a mapping of case names", root.Line)
	}

	var out []catalog.Case
	for i := 0; i < len(root.Content); i += 2 {
		name, body := root.Content[i].Value, root.Content[i+1]
		c, err := parseCase(name, body)
		if err != nil {
			return nil, fmt.Errorf("case %q: %w", name, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func parseCase(name string, body *yaml.Node) (catalog.Case, error) {
	c := catalog.Case{Name: name}
	if body.Kind != yaml.MappingNode {
		return c, fmt.Errorf("line %d: case must be a mapping", body.Line)
	}
	for i := 0; i < len(body.Content); i += 2 {
		key, value := body.Content[i], body.Content[i+1]
		switch key.Value {
		case "data":
			rows, err := parseRows(value)
			if err != nil {
				return c, err
			}
			c.Data = rows
		case "kwargs":
			opts, err := parseOptions(value)
			if err != nil {
				return c, err
			}
			c.Options = opts
		default:
			return c, fmt.Errorf("line %d: unknown field %q", key.Line, key.Value)
		}
	}
	return c, nil
}

func parseRows(n *yaml.Node) ([][]any, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: data must be a list of rows", n.Line)
	}
	rows := make([][]any, len(n.Content))
	for i, rowNode := range n.Content {
		v, err := parseValue(rowNode)
		if err != nil {
			return nil, err
		}
		row, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("line %d: row must be a list", rowNode.Line)
		}
		rows[i] = row
	}
	return rows, nil
}

func parseOptions(n *yaml.Node) (table.Options, error) {
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: kwargs must be a mapping", n.Line)
	}
	var opts table.Options
	for i := 0; i < len(n.Content); i += 2 {
		v, err := parseValue(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		opts = opts.Set(n.Content[i].Value, v)
	}
	return opts, nil
}

// parseValue decodes scalars with the YAML core schema, lists into []any and
// !tuple lists into table.Tuple.
func parseValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	case yaml.SequenceNode:
		items := make([]any, len(n.Content))
		for i, child := range n.Content {
			v, err := parseValue(child)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		if n.Tag == TupleTag {
			return table.Tuple(items), nil
		}
		return items, nil
	}
	return nil, fmt.Errorf("line %d: unsupported value", n.Line)
}
