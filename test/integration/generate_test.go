// Package integration contains end-to-end tests that run the real reference
// renderer. They skip when python3 or tabulate is unavailable.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AndreyAkinshin/tabsnap/internal/cases"
	"github.com/AndreyAkinshin/tabsnap/internal/catalog"
	"github.com/AndreyAkinshin/tabsnap/internal/oracle/python"
	"github.com/AndreyAkinshin/tabsnap/internal/project"
	"github.com/AndreyAkinshin/tabsnap/internal/snapshot"
	"github.com/AndreyAkinshin/tabsnap/pkg/testhelper"
)

func requireTabulate(t *testing.T) (*python.Oracle, context.Context) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	o := python.New("")
	if _, err := o.Version(ctx); err != nil {
		t.Skipf("reference renderer unavailable: %v", err)
	}
	return o, ctx
}

func generate(t *testing.T, ctx context.Context, o *python.Oracle, path string) *snapshot.Store {
	t.Helper()
	b := catalog.NewBuilder()
	if err := b.Include(ctx, cases.Core(), cases.Records(), cases.Extra()); err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	cat, err := b.Build()
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}

	store, err := (&snapshot.Assembler{Oracle: o, VerifyDeterminism: true}).Assemble(ctx, cat)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if err := (&snapshot.Writer{}).Write(store, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	return store
}

func TestGenerate_EndToEnd(t *testing.T) {
	o, ctx := requireTabulate(t)

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "tabsnap.yaml"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	proj, err := project.LoadProjectFrom(root)
	if err != nil {
		t.Fatalf("load project: %v", err)
	}

	path := proj.OutputPath()
	generate(t, ctx, o, path)

	fixture, err := testhelper.LoadFixture(path)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	if fixture.Len() != 42 {
		t.Errorf("fixture has %d cases, want 42", fixture.Len())
	}

	plain, ok := fixture.Get("plain_simple")
	if !ok {
		t.Fatal("plain_simple missing")
	}
	want := "Sun    696000     1.9891e+09\n" +
		"Earth    6371  5973.6\n" +
		"Moon     1737    73.5\n" +
		"Mars     3390   641.85"
	if ok, diff := testhelper.CompareOutput(want, plain.Output); !ok {
		t.Errorf("plain_simple output:\n%s", diff)
	}

	records, _ := fixture.Get("namedtuple_keys_plain")
	if records.Data.Len() != 2 {
		t.Errorf("namedtuple_keys_plain data = %s", records.Data)
	}
}

func TestGenerate_Reproducible(t *testing.T) {
	o, ctx := requireTabulate(t)

	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")
	generate(t, ctx, o, first)
	generate(t, ctx, o, second)

	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if string(a) != string(b) {
		t.Error("regenerated fixture differs from the first run")
	}
}
