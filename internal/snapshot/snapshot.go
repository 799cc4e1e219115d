// Package snapshot assembles rendered cases into a fixture document and writes
// it to disk.
package snapshot

import (
	"github.com/AndreyAkinshin/tabsnap/internal/canon"
	"github.com/AndreyAkinshin/tabsnap/pkg/testhelper"
)

// Snapshot is the recorded triple for one case.
type Snapshot struct {
	Data   canon.Value
	Kwargs canon.Value
	Output string
}

// Value returns the snapshot as its fixture entry: data, kwargs, output.
func (s Snapshot) Value() canon.Value {
	return s.testCase("").Value()
}

func (s Snapshot) testCase(name string) testhelper.Case {
	return testhelper.Case{Name: name, Data: s.Data, Kwargs: s.Kwargs, Output: s.Output}
}

// Store holds snapshots in insertion order. Inserting an existing name
// replaces the snapshot in place.
type Store struct {
	names []string
	byKey map[string]Snapshot
}

func NewStore() *Store {
	return &Store{byKey: make(map[string]Snapshot)}
}

// Insert records s under name.
func (s *Store) Insert(name string, snap Snapshot) {
	if _, ok := s.byKey[name]; !ok {
		s.names = append(s.names, name)
	}
	s.byKey[name] = snap
}

// Get returns the snapshot recorded under name.
func (s *Store) Get(name string) (Snapshot, bool) {
	snap, ok := s.byKey[name]
	return snap, ok
}

// Names returns case names in insertion order.
func (s *Store) Names() []string {
	return append([]string(nil), s.names...)
}

func (s *Store) Len() int { return len(s.names) }

// Document returns the fixture as a mapping from case name to entry.
func (s *Store) Document() canon.Value {
	doc := canon.NewMap()
	for _, name := range s.names {
		doc.Set(name, s.byKey[name].Value())
	}
	return canon.FromMap(doc)
}

// Digest returns the RFC 8785 digest of the whole document. Two runs that
// record the same entries share a digest whatever their key order.
func (s *Store) Digest() (string, error) {
	return canon.Digest(s.Document())
}

// Encode returns the fixture content: two-space indentation, non-ASCII text
// written literally, no trailing newline.
func Encode(s *Store) ([]byte, error) {
	return canon.MarshalIndent(s.Document(), 2)
}
