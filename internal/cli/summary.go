package cli

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/tabsnap/internal/catalog"
	"github.com/AndreyAkinshin/tabsnap/internal/output"
	"github.com/AndreyAkinshin/tabsnap/internal/snapshot"
)

// previewWidth bounds the reason column of the drift table.
const previewWidth = 72

// digestWidth is how many hex digits of a corpus digest the summary shows.
const digestWidth = 16

type summary struct {
	path    string
	version string
	batches []catalog.Batch
	store   *snapshot.Store
	drift   snapshot.Drift
}

func (e *env) summarize(s summary) {
	e.out.Section("Providers")
	rows := make([][]string, 0, len(s.batches))
	for _, b := range s.batches {
		status := "ok"
		if b.Skipped {
			status = "skipped"
		}
		rows = append(rows, []string{displayName(b.Provider), strconv.Itoa(b.Cases), status})
	}
	e.out.Table([]string{"Provider", "Cases", "Status"}, rows)

	if s.drift.Empty() {
		e.out.Hint("No case changed since the previous fixture.")
	} else {
		e.out.Section("Changes")
		var changes [][]string
		for _, name := range s.drift.Added {
			changes = append(changes, []string{name, "added", ""})
		}
		for _, c := range s.drift.Changed {
			changes = append(changes, []string{c.Name, "changed", output.Preview(c.Reason, previewWidth)})
		}
		for _, name := range s.drift.Removed {
			changes = append(changes, []string{name, "removed", ""})
		}
		e.out.Table([]string{"Case", "Change", "Detail"}, changes)
	}

	e.out.Section("Summary")
	e.out.SummaryItem("Fixture", s.path)
	e.out.SummaryItem("Cases", strconv.Itoa(s.store.Len()))
	e.out.SummaryItem("tabulate", s.version)
	e.out.SummaryItem("Unchanged", strconv.Itoa(s.drift.Unchanged))
	if s.drift.Digest != "" {
		e.out.SummaryItem("Digest", digestLabel(s.drift))
	}
	e.out.FinalSuccess("Wrote %d cases to %s", s.store.Len(), s.path)
}

// digestLabel shortens the corpus digest and notes whether the content
// matches the replaced fixture.
func digestLabel(d snapshot.Drift) string {
	label := d.Digest[:min(len(d.Digest), digestWidth)]
	switch {
	case d.PreviousDigest == "":
		return label
	case d.SameContent():
		return label + " (same content)"
	default:
		return label + " (was " + d.PreviousDigest[:min(len(d.PreviousDigest), digestWidth)] + ")"
	}
}

// displayName title-cases built-in provider names. Case file paths are shown
// as they were configured.
func displayName(provider string) string {
	if strings.ContainsAny(provider, `./\`) {
		return provider
	}
	return cases.Title(language.English).String(provider)
}
