package snapshot

import (
	"context"
	stderrors "errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/tabsnap/internal/canon"
	"github.com/AndreyAkinshin/tabsnap/internal/cases"
	"github.com/AndreyAkinshin/tabsnap/internal/catalog"
	"github.com/AndreyAkinshin/tabsnap/internal/errors"
	"github.com/AndreyAkinshin/tabsnap/internal/oracle"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
	"github.com/AndreyAkinshin/tabsnap/pkg/testhelper"
)

// echo renders the format name and the row count, enough to tell cases apart.
var echo = oracle.Func(func(_ context.Context, data any, opts table.Options) (string, error) {
	rows := 0
	if r, ok := data.([][]any); ok {
		rows = len(r)
	}
	return fmt.Sprintf("%s %d", opts.Format(), rows), nil
})

func coreCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	b := catalog.NewBuilder()
	require.NoError(t, b.Include(context.Background(), cases.Core()))
	cat, err := b.Build()
	require.NoError(t, err)
	return cat
}

func TestAssemble_CoreCases(t *testing.T) {
	a := &Assembler{Oracle: echo}
	store, err := a.Assemble(context.Background(), coreCatalog(t))
	require.NoError(t, err)

	assert.Equal(t, 22, store.Len())
	assert.Equal(t, "plain_simple", store.Names()[0])
	assert.Equal(t, "textile_basic", store.Names()[21])

	plain, ok := store.Get("plain_simple")
	require.True(t, ok)
	assert.Equal(t, "plain 4", plain.Output)
	data, err := canon.Marshal(plain.Data)
	require.NoError(t, err)
	assert.Equal(t, `[["Sun", "696000", "1989100000"], ["Earth", "6371", "5973.6"], `+
		`["Moon", "1737", "73.5"], ["Mars", "3390", "641.85"]]`, string(data))

	pipe, ok := store.Get("pipe_alignment")
	require.True(t, ok)
	kwargs, err := canon.Marshal(pipe.Kwargs)
	require.NoError(t, err)
	assert.Equal(t, `{"headers": "firstrow", "tablefmt": "pipe", "colalign": ["left", "right"]}`, string(kwargs))
}

func TestAssemble_MissingData(t *testing.T) {
	cat, err := catalog.NewBuilder().
		Register("ok", [][]any{{1}}, nil).
		Register("empty", nil, nil).
		Build()
	require.NoError(t, err)

	store, err := (&Assembler{Oracle: echo}).Assemble(context.Background(), cat)
	require.Error(t, err)
	assert.Nil(t, store)
	assert.True(t, errors.IsKind(err, errors.KindMissingData))
	assert.Contains(t, err.Error(), "[empty]")
}

func TestAssemble_UnsupportedData(t *testing.T) {
	cat, err := catalog.NewBuilder().Register("bad", [][]any{{struct{}{}}}, nil).Build()
	require.NoError(t, err)

	_, err = (&Assembler{Oracle: echo}).Assemble(context.Background(), cat)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindUnsupportedType))
	assert.Contains(t, err.Error(), "[bad]")
}

func TestAssemble_OracleFailureAborts(t *testing.T) {
	var rendered []string
	failing := oracle.Func(func(_ context.Context, data any, opts table.Options) (string, error) {
		rendered = append(rendered, opts.Format())
		if opts.Format() == "grid" {
			return "", stderrors.New("boom")
		}
		return "ok", nil
	})
	cat, err := catalog.NewBuilder().
		Register("a", [][]any{{1}}, table.Kwargs("tablefmt", "plain")).
		Register("b", [][]any{{1}}, table.Kwargs("tablefmt", "grid")).
		Register("c", [][]any{{1}}, table.Kwargs("tablefmt", "pipe")).
		Build()
	require.NoError(t, err)

	store, err := (&Assembler{Oracle: failing}).Assemble(context.Background(), cat)
	require.Error(t, err)
	assert.Nil(t, store)
	assert.True(t, errors.IsKind(err, errors.KindOracleInvocation))
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []string{"plain", "grid"}, rendered)
}

func TestAssemble_Override(t *testing.T) {
	override := canon.Seq(canon.Strings("x", "y"))
	var got any
	capture := oracle.Func(func(_ context.Context, data any, _ table.Options) (string, error) {
		got = data
		return "x  y", nil
	})

	cat, err := catalog.NewBuilder().Register("only", nil, nil, override).Build()
	require.NoError(t, err)

	store, err := (&Assembler{Oracle: capture}).Assemble(context.Background(), cat)
	require.NoError(t, err)
	snap, _ := store.Get("only")
	assert.True(t, override.Equal(snap.Data))
	assert.Equal(t, []any{[]any{"x", "y"}}, got)
	assert.Equal(t, "{}", mustMarshal(t, snap.Kwargs))
}

func TestAssemble_OverrideKeepsNativeData(t *testing.T) {
	override := canon.Seq(canon.Strings("recorded"))
	var got any
	capture := oracle.Func(func(_ context.Context, data any, _ table.Options) (string, error) {
		got = data
		return "", nil
	})

	cat, err := catalog.NewBuilder().Register("both", [][]any{{"native"}}, nil, override).Build()
	require.NoError(t, err)

	store, err := (&Assembler{Oracle: capture}).Assemble(context.Background(), cat)
	require.NoError(t, err)
	snap, _ := store.Get("both")
	assert.True(t, override.Equal(snap.Data))
	assert.Equal(t, [][]any{{"native"}}, got)
}

func TestAssemble_VerifyDeterminism(t *testing.T) {
	calls := 0
	drifting := oracle.Func(func(context.Context, any, table.Options) (string, error) {
		calls++
		return strings.Repeat("x", calls), nil
	})
	cat, err := catalog.NewBuilder().Register("a", [][]any{{1}}, nil).Build()
	require.NoError(t, err)

	_, err = (&Assembler{Oracle: drifting}).Assemble(context.Background(), cat)
	require.NoError(t, err)

	_, err = (&Assembler{Oracle: drifting, VerifyDeterminism: true}).Assemble(context.Background(), cat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nondeterministic")
}

func TestAssemble_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Assembler{Oracle: echo}).Assemble(ctx, coreCatalog(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_InsertReplacesInPlace(t *testing.T) {
	s := NewStore()
	s.Insert("a", Snapshot{Output: "1"})
	s.Insert("b", Snapshot{Output: "2"})
	s.Insert("a", Snapshot{Output: "3"})

	assert.Equal(t, []string{"a", "b"}, s.Names())
	a, _ := s.Get("a")
	assert.Equal(t, "3", a.Output)
}

func TestEncode_Layout(t *testing.T) {
	s := NewStore()
	s.Insert("plain_simple", Snapshot{
		Data:   canon.Seq(canon.Seq(canon.String("Sun"), canon.Int(696000))),
		Kwargs: canon.FromMap(canon.NewMap().Set("tablefmt", canon.String("plain"))),
		Output: "Sun  696000",
	})

	data, err := Encode(s)
	require.NoError(t, err)
	want := `{
  "plain_simple": {
    "data": [
      [
        "Sun",
        696000
      ]
    ],
    "kwargs": {
      "tablefmt": "plain"
    },
    "output": "Sun  696000"
  }
}`
	assert.Equal(t, want, string(data))
}

func TestWriter_WritesAndRegeneratesIdentically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tests", "fixtures", "python_snapshots.json")
	a := &Assembler{Oracle: echo}
	w := &Writer{}

	store, err := a.Assemble(context.Background(), coreCatalog(t))
	require.NoError(t, err)
	require.NoError(t, w.Write(store, path))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	store, err = a.Assemble(context.Background(), coreCatalog(t))
	require.NoError(t, err)
	require.NoError(t, w.Write(store, path))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.False(t, strings.HasSuffix(string(first), "\n"))

	fixture, err := testhelper.ParseFixture(first)
	require.NoError(t, err)
	assert.Equal(t, store.Names(), fixture.Names())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestWriter_ValidationFailureKeepsPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	s := NewStore()
	s.Insert("nan", Snapshot{
		Data:   canon.Seq(canon.Seq(canon.Float(math.NaN()))),
		Kwargs: canon.FromMap(canon.NewMap()),
	})

	err := (&Writer{}).Write(s, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(got))
}

func TestWriter_KeepsFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions")
	}
	dir := t.TempDir()

	fresh := filepath.Join(dir, "fresh.json")
	require.NoError(t, (&Writer{}).Write(NewStore(), fresh))
	info, err := os.Stat(fresh)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode().Perm()&0o400, "owner can read a new fixture")
	assert.Zero(t, info.Mode().Perm()&^0o644, "new fixture is at most 0644")

	private := filepath.Join(dir, "private.json")
	require.NoError(t, os.WriteFile(private, []byte("{}"), 0o600))
	require.NoError(t, os.Chmod(private, 0o600))
	require.NoError(t, (&Writer{}).Write(NewStore(), private))
	info, err = os.Stat(private)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriter_CustomValidator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	w := &Writer{Validate: func([]byte) error { return stderrors.New("rejected") }}

	err := w.Write(NewStore(), path)
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDiff(t *testing.T) {
	previous, err := testhelper.ParseFixture([]byte(`{
  "kept": {"data": [["a"]], "kwargs": {"tablefmt": "plain"}, "output": "a"},
  "changed": {"data": [["b"]], "kwargs": {}, "output": "b"},
  "reordered": {"data": [], "kwargs": {"headers": "firstrow", "tablefmt": "grid"}, "output": ""},
  "gone": {"data": [], "kwargs": {}, "output": ""}
}`))
	require.NoError(t, err)

	plain := canon.FromMap(canon.NewMap().Set("tablefmt", canon.String("plain")))
	store := NewStore()
	store.Insert("kept", Snapshot{Data: canon.Seq(canon.Strings("a")), Kwargs: plain, Output: "a"})
	store.Insert("changed", Snapshot{Data: canon.Seq(canon.Strings("b")), Kwargs: canon.FromMap(canon.NewMap()), Output: "B"})
	store.Insert("reordered", Snapshot{
		Data: canon.Seq(),
		Kwargs: canon.FromMap(canon.NewMap().
			Set("tablefmt", canon.String("grid")).
			Set("headers", canon.String("firstrow"))),
	})
	store.Insert("new", Snapshot{Data: canon.Seq(), Kwargs: canon.FromMap(canon.NewMap())})

	d := Diff(previous, store)
	assert.Equal(t, []string{"new"}, d.Added)
	assert.Equal(t, []string{"gone"}, d.Removed)
	assert.Equal(t, 1, d.Unchanged)
	require.Len(t, d.Changed, 2)
	assert.Equal(t, "changed", d.Changed[0].Name)
	assert.Contains(t, d.Changed[0].Reason, "output: line 1 differs")
	assert.Equal(t, "reordered", d.Changed[1].Name)
	assert.Contains(t, d.Changed[1].Reason, "key order mismatch")
	assert.False(t, d.Empty())
	assert.Len(t, d.Digest, 64)
	assert.NotEqual(t, d.Digest, d.PreviousDigest)
	assert.False(t, d.SameContent())
}

func TestDiff_DigestMatchesWrittenFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	store, err := (&Assembler{Oracle: echo}).Assemble(context.Background(), coreCatalog(t))
	require.NoError(t, err)
	require.NoError(t, (&Writer{}).Write(store, path))

	previous, err := testhelper.LoadFixture(path)
	require.NoError(t, err)
	d := Diff(previous, store)
	assert.True(t, d.Empty())
	assert.True(t, d.SameContent())
	assert.Equal(t, store.Len(), d.Unchanged)

	want, err := store.Digest()
	require.NoError(t, err)
	assert.Equal(t, want, d.Digest)
}

func TestCompare_DigestDecides(t *testing.T) {
	base := testhelper.Case{
		Data:   canon.Seq(canon.Seq(canon.Int(1))),
		Kwargs: canon.FromMap(canon.NewMap().Set("a", canon.Int(1)).Set("b", canon.Int(2))),
		Output: "1",
	}
	reordered := base
	reordered.Kwargs = canon.FromMap(canon.NewMap().Set("b", canon.Int(2)).Set("a", canon.Int(1)))
	edited := base
	edited.Output = "2"
	nan := base
	nan.Data = canon.Seq(canon.Seq(canon.Float(math.NaN())))

	same, _ := compare(base, base)
	assert.True(t, same)

	same, reason := compare(base, reordered)
	assert.False(t, same, "equal digests, different key order")
	assert.Contains(t, reason, "key order")

	same, reason = compare(base, edited)
	assert.False(t, same)
	assert.Contains(t, reason, "output")

	same, _ = compare(base, nan)
	assert.False(t, same, "entries without a digest fall back to structure")
}

func TestDiff_NoPrevious(t *testing.T) {
	store := NewStore()
	store.Insert("a", Snapshot{Data: canon.Seq(), Kwargs: canon.FromMap(canon.NewMap())})

	d := Diff(nil, store)
	assert.Equal(t, []string{"a"}, d.Added)
	assert.Zero(t, d.Unchanged)
}

func mustMarshal(t *testing.T, v canon.Value) string {
	t.Helper()
	data, err := canon.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
