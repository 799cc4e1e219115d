// Package testhelper loads tabsnap fixture files and compares rendered tables
// against them, for Go implementations of the table renderer.
//
// Example usage in a Go test:
//
//	func TestSnapshots(t *testing.T) {
//	    root, err := testhelper.FindProjectRoot()
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//
//	    fixture, err := testhelper.LoadFixture(testhelper.DefaultFixturePath(root))
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//
//	    for _, tc := range fixture.Cases {
//	        t.Run(tc.Name, func(t *testing.T) {
//	            actual := render(tc.Data, tc.Kwargs)
//	            if ok, diff := testhelper.CompareOutput(tc.Output, actual); !ok {
//	                t.Error(diff)
//	            }
//	        })
//	    }
//	}
package testhelper

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AndreyAkinshin/tabsnap/internal/canon"
)

// FixturePath is the fixture location relative to the project root.
var FixturePath = filepath.Join("tests", "fixtures", "python_snapshots.json")

// ProjectMarkers are the files whose directory is taken as the project root.
var ProjectMarkers = []string{"tabsnap.yaml", "Cargo.toml"}

// Case is one recorded rendering.
type Case struct {
	Name string
	// Data is the canonical input: rows, records or a one-element sequence
	// holding a columnar mapping or a tagged struct.
	Data canon.Value
	// Kwargs is the canonical option mapping, in recorded order.
	Kwargs canon.Value
	// Output is the exact reference rendering.
	Output string
}

// Value returns the case as its fixture entry.
func (c Case) Value() canon.Value {
	m := canon.NewMap().
		Set("data", c.Data).
		Set("kwargs", c.Kwargs).
		Set("output", canon.String(c.Output))
	return canon.FromMap(m)
}

// Digest returns the RFC 8785 digest of the fixture entry.
func (c Case) Digest() (string, error) {
	return canon.Digest(c.Value())
}

// Fixture is a parsed fixture file, cases in file order.
type Fixture struct {
	Cases []Case
	index map[string]int
}

// Get returns the named case.
func (f *Fixture) Get(name string) (Case, bool) {
	i, ok := f.index[name]
	if !ok {
		return Case{}, false
	}
	return f.Cases[i], true
}

// Names returns case names in file order.
func (f *Fixture) Names() []string {
	names := make([]string, len(f.Cases))
	for i, c := range f.Cases {
		names[i] = c.Name
	}
	return names
}

func (f *Fixture) Len() int { return len(f.Cases) }

// Digest returns the RFC 8785 digest of the whole fixture. It matches the
// digest of any fixture recording the same entries, whatever the key order.
func (f *Fixture) Digest() (string, error) {
	doc := canon.NewMap()
	for _, c := range f.Cases {
		doc.Set(c.Name, c.Value())
	}
	return canon.Digest(canon.FromMap(doc))
}

// LoadFixture reads and parses the fixture at path.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := ParseFixture(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// ParseFixture parses fixture content. Every entry must carry data, kwargs
// and a string output.
func ParseFixture(data []byte) (*Fixture, error) {
	doc, err := canon.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if doc.Kind() != canon.KindMap {
		return nil, fmt.Errorf("fixture must be an object, got %s", doc.Kind())
	}

	f := &Fixture{index: make(map[string]int, doc.Len())}
	var parseErr error
	doc.Map().Range(func(name string, entry canon.Value) bool {
		c, err := parseCase(name, entry)
		if err != nil {
			parseErr = err
			return false
		}
		f.index[name] = len(f.Cases)
		f.Cases = append(f.Cases, c)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return f, nil
}

func parseCase(name string, entry canon.Value) (Case, error) {
	if entry.Kind() != canon.KindMap {
		return Case{}, fmt.Errorf("case %q: entry must be an object", name)
	}
	m := entry.Map()
	data, ok := m.Get("data")
	if !ok {
		return Case{}, fmt.Errorf("case %q: missing data", name)
	}
	kwargs, ok := m.Get("kwargs")
	if !ok || kwargs.Kind() != canon.KindMap {
		return Case{}, fmt.Errorf("case %q: kwargs must be an object", name)
	}
	output, ok := m.Get("output")
	if !ok || output.Kind() != canon.KindString {
		return Case{}, fmt.Errorf("case %q: output must be a string", name)
	}
	return Case{Name: name, Data: data, Kwargs: kwargs, Output: output.AsString()}, nil
}

// DefaultFixturePath returns the fixture location under projectRoot.
func DefaultFixturePath(projectRoot string) string {
	return filepath.Join(projectRoot, FixturePath)
}

// FindProjectRoot walks up from the working directory to the nearest
// directory holding one of ProjectMarkers.
func FindProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindProjectRootFrom(cwd)
}

// FindProjectRootFrom finds the project root starting from a specific directory.
func FindProjectRootFrom(startDir string) (string, error) {
	dir := startDir

	for {
		for _, marker := range ProjectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", &ProjectNotFoundError{StartDir: startDir}
}

// ProjectNotFoundError indicates that no project marker was found.
type ProjectNotFoundError struct {
	StartDir string
}

func (e *ProjectNotFoundError) Error() string {
	return "tabsnap.yaml or Cargo.toml not found (searched from " + e.StartDir + ")"
}
