package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeRaw decodes the document into plain values for schema validation.
// An empty document decodes to an empty mapping.
func decodeRaw(data []byte) (map[string]any, error) {
	var raw any
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, &ValidationError{Field: "(root)", Message: "must be a mapping"}
	}
	return m, nil
}

// checkUnknownFields rejects keys Config does not declare, naming the
// accepted ones.
func checkUnknownFields(raw map[string]any) error {
	known := getYAMLFields(reflect.TypeOf(Config{}))
	var unknown []string
	for key := range raw {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)

	accepted := make([]string, 0, len(known))
	for key := range known {
		accepted = append(accepted, key)
	}
	sort.Strings(accepted)

	return &ValidationError{
		Field:   unknown[0],
		Message: fmt.Sprintf("unknown field (accepted: %s)", strings.Join(accepted, ", ")),
	}
}

// getYAMLFields returns the set of YAML field names of a struct type.
func getYAMLFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			fields[name] = true
		}
	}
	return fields
}
