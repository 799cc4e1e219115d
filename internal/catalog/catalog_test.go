package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyAkinshin/tabsnap/internal/canon"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

func names(c *Catalog) []string {
	var out []string
	for _, cs := range c.All() {
		out = append(out, cs.Name)
	}
	return out
}

func TestBuilder_RegistrationOrder(t *testing.T) {
	cat, err := NewBuilder().
		Register("a", [][]any{{1}}, table.Kwargs("tablefmt", "plain")).
		Register("b", [][]any{{2}}, nil).
		Register("c", [][]any{{3}}, nil).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, names(cat))
	assert.Equal(t, 3, cat.Len())
}

func TestBuilder_LastRegistrationWins(t *testing.T) {
	cat, err := NewBuilder().
		Register("a", [][]any{{"old"}}, table.Kwargs("tablefmt", "plain")).
		Register("b", [][]any{{2}}, nil).
		Register("a", [][]any{{"new"}}, table.Kwargs("tablefmt", "grid")).
		Build()
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, names(cat), "re-registered name moves to the end")
	a, ok := cat.Get("a")
	require.True(t, ok)
	assert.Equal(t, [][]any{{"new"}}, a.Data)
	assert.Equal(t, "grid", a.Options.Format())
}

func TestBuilder_Override(t *testing.T) {
	override := canon.Seq(canon.Strings("x"))
	cat, err := NewBuilder().
		Register("with", [][]any{{"x"}}, nil, override).
		Register("without", [][]any{{"x"}}, nil).
		Build()
	require.NoError(t, err)

	with, _ := cat.Get("with")
	require.NotNil(t, with.Override)
	assert.True(t, override.Equal(*with.Override))

	without, _ := cat.Get("without")
	assert.Nil(t, without.Override)
}

func TestBuilder_EmptyName(t *testing.T) {
	_, err := NewBuilder().Register("", nil, nil).Build()
	assert.Error(t, err)
}

func TestCatalog_AllIsACopy(t *testing.T) {
	cat, err := NewBuilder().Register("a", nil, nil).Build()
	require.NoError(t, err)

	all := cat.All()
	all[0].Name = "mutated"
	assert.Equal(t, []string{"a"}, names(cat))

	_, ok := cat.Get("missing")
	assert.False(t, ok)
}

type fakeProbe map[string]bool

func (p fakeProbe) HasModule(_ context.Context, name string) bool { return p[name] }

type failingProvider struct{}

func (failingProvider) Name() string { return "broken" }
func (failingProvider) Cases(context.Context) ([]Case, error) {
	return nil, errors.New("cannot build cases")
}

func TestBuilder_Include(t *testing.T) {
	ctx := context.Background()
	probe := fakeProbe{"numpy": true}

	numeric := Static{Label: "numeric", Batch: []Case{{Name: "numpy_array_plain"}}}
	frame := Static{Label: "frame", Batch: []Case{{Name: "dataframe_grid"}}}
	extra := Static{Label: "extra", Batch: []Case{{Name: "core", Data: "replaced"}}}

	b := NewBuilder().Register("core", [][]any{}, nil)
	err := b.Include(ctx,
		Requires(numeric, probe, "numpy"),
		Requires(frame, probe, "pandas", "numpy"),
		extra,
	)
	require.NoError(t, err)

	cat, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, []string{"numpy_array_plain", "core"}, names(cat))

	core, _ := cat.Get("core")
	assert.Equal(t, "replaced", core.Data)

	assert.Equal(t, []Batch{
		{Provider: "numeric", Cases: 1},
		{Provider: "frame", Cases: 0, Skipped: true},
		{Provider: "extra", Cases: 1},
	}, b.Batches())
}

func TestBuilder_IncludeError(t *testing.T) {
	err := NewBuilder().Include(context.Background(), failingProvider{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider broken")
}
