package snapshot

import (
	"github.com/AndreyAkinshin/tabsnap/pkg/testhelper"
)

// Change describes one case whose recorded entry differs.
type Change struct {
	Name   string
	Reason string
}

// Drift compares a freshly assembled store with the fixture it replaces.
type Drift struct {
	Added     []string
	Removed   []string
	Changed   []Change
	Unchanged int
	// Digest and PreviousDigest identify the two fixtures by content. They
	// are empty when a fixture has no canonical form or does not exist.
	Digest         string
	PreviousDigest string
}

// Empty reports whether the new fixture records exactly the old cases.
func (d Drift) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Diff classifies the cases of store against previous, which may be nil when
// no fixture exists yet. For changed entries the reason names the first
// difference.
func Diff(previous *testhelper.Fixture, store *Store) Drift {
	var d Drift
	d.Digest, _ = store.Digest()
	if previous != nil {
		d.PreviousDigest, _ = previous.Digest()
	}
	for _, name := range store.Names() {
		snap, _ := store.Get(name)
		current := snap.testCase(name)

		var old testhelper.Case
		ok := false
		if previous != nil {
			old, ok = previous.Get(name)
		}
		if !ok {
			d.Added = append(d.Added, name)
			continue
		}

		if same, reason := compare(old, current); same {
			d.Unchanged++
		} else {
			d.Changed = append(d.Changed, Change{Name: name, Reason: reason})
		}
	}

	if previous != nil {
		for _, name := range previous.Names() {
			if _, ok := store.Get(name); !ok {
				d.Removed = append(d.Removed, name)
			}
		}
	}
	return d
}

// SameContent reports whether both fixtures record the same entries, ignoring
// key order.
func (d Drift) SameContent() bool {
	return d.Digest != "" && d.Digest == d.PreviousDigest
}

// compare decides by RFC 8785 digest and asks CompareCase for the reason.
// Digests ignore key order, which the fixture records, so entries with equal
// digests are still compared structurally. Entries with non-finite floats have
// no digest.
func compare(old, current testhelper.Case) (bool, string) {
	da, errA := old.Digest()
	db, errB := current.Digest()
	if errA != nil || errB != nil || da == db {
		return testhelper.CompareCase(old, current)
	}
	if same, reason := testhelper.CompareCase(old, current); !same {
		return false, reason
	}
	return false, "entry differs"
}
