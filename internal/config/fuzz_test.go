package config

import "testing"

// FuzzParse checks that arbitrary YAML never panics the loader.
// Run: go test -fuzz=FuzzParse -fuzztime=30s ./internal/config
func FuzzParse(f *testing.F) {
	seeds := []string{
		``,
		`{}`,
		`output: tests/fixtures/python_snapshots.json`,
		`cases: [a.yaml, b.yaml]`,
		`verify_determinism: true`,
		`- a`,
		`"string"`,
		`123`,
		`log_level: [nested, [list]]`,
		`output: "寿司.json"`,
		"\t",
		`&a [*a]`,
	}
	for _, s := range seeds {
		f.Add([]byte(s))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		cfg, err := Parse(data)
		if err != nil {
			return
		}
		applyDefaults(cfg)
		_, _ = Validate(cfg)

		if raw, err := decodeRaw(data); err == nil {
			_ = checkUnknownFields(raw)
		}
	})
}
