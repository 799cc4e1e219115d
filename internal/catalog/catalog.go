// Package catalog holds the ordered set of named fixture cases.
//
// A Catalog is built once by a Builder and is read-only afterwards. Cases come
// from literal registrations and from providers, which contribute whole batches
// and contribute nothing when the library their cases need is unavailable.
package catalog

import (
	"context"
	"fmt"

	"github.com/AndreyAkinshin/tabsnap/internal/canon"
	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

// Case is one named rendering scenario.
type Case struct {
	Name string
	// Data is the native source handed to the renderer.
	Data any
	// Override, when set, is written to the fixture instead of the normalized
	// form of Data.
	Override *canon.Value
	Options  table.Options
}

// Provider contributes a batch of cases. A provider whose underlying library is
// unavailable returns an empty batch and no error.
type Provider interface {
	Name() string
	Cases(ctx context.Context) ([]Case, error)
}

// ModuleProbe reports whether the rendering runtime can import an optional
// library.
type ModuleProbe interface {
	HasModule(ctx context.Context, name string) bool
}

// Batch records what one provider contributed.
type Batch struct {
	Provider string
	Cases    int
	// Skipped is set when the provider contributed nothing.
	Skipped bool
}

// Catalog is an immutable, ordered set of cases.
type Catalog struct {
	cases []Case
	index map[string]int
}

// All returns the cases in iteration order.
func (c *Catalog) All() []Case {
	out := make([]Case, len(c.cases))
	copy(out, c.cases)
	return out
}

func (c *Catalog) Len() int { return len(c.cases) }

// Get returns the case registered under name.
func (c *Catalog) Get(name string) (Case, bool) {
	i, ok := c.index[name]
	if !ok {
		return Case{}, false
	}
	return c.cases[i], true
}

// Builder accumulates cases. Registering a name that is already present
// replaces the earlier case and moves the name to the end of the iteration
// order, as if it had been registered for the first time.
type Builder struct {
	cases   []Case
	batches []Batch
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Register adds a case. At most one override may be given.
func (b *Builder) Register(name string, data any, opts table.Options, override ...canon.Value) *Builder {
	c := Case{Name: name, Data: data, Options: opts}
	if len(override) > 0 {
		v := override[0]
		c.Override = &v
	}
	return b.Add(c)
}

// Add appends cases in order, replacing earlier cases of the same name.
func (b *Builder) Add(cases ...Case) *Builder {
	for _, c := range cases {
		b.remove(c.Name)
		b.cases = append(b.cases, c)
	}
	return b
}

func (b *Builder) remove(name string) {
	for i := range b.cases {
		if b.cases[i].Name == name {
			b.cases = append(b.cases[:i], b.cases[i+1:]...)
			return
		}
	}
}

// Include folds in the batch of each provider, in order. A provider error
// aborts the build.
func (b *Builder) Include(ctx context.Context, providers ...Provider) error {
	for _, p := range providers {
		cases, err := p.Cases(ctx)
		if err != nil {
			return fmt.Errorf("provider %s: %w", p.Name(), err)
		}
		b.batches = append(b.batches, Batch{
			Provider: p.Name(),
			Cases:    len(cases),
			Skipped:  len(cases) == 0,
		})
		b.Add(cases...)
	}
	return nil
}

// Batches reports the providers folded in so far.
func (b *Builder) Batches() []Batch {
	out := make([]Batch, len(b.batches))
	copy(out, b.batches)
	return out
}

// Build returns the catalog. Case names must be non-empty.
func (b *Builder) Build() (*Catalog, error) {
	c := &Catalog{
		cases: make([]Case, len(b.cases)),
		index: make(map[string]int, len(b.cases)),
	}
	for i, cs := range b.cases {
		if cs.Name == "" {
			return nil, fmt.Errorf("case %d has an empty name", i)
		}
		c.cases[i] = cs
		c.index[cs.Name] = i
	}
	return c, nil
}

// Static is a Provider over a fixed batch of cases.
type Static struct {
	Label string
	Batch []Case
}

func (s Static) Name() string { return s.Label }

func (s Static) Cases(context.Context) ([]Case, error) { return s.Batch, nil }

// Requires wraps a provider so that it only contributes when probe can import
// every listed module.
func Requires(p Provider, probe ModuleProbe, modules ...string) Provider {
	return &gated{Provider: p, probe: probe, modules: modules}
}

type gated struct {
	Provider
	probe   ModuleProbe
	modules []string
}

func (g *gated) Cases(ctx context.Context) ([]Case, error) {
	for _, m := range g.modules {
		if !g.probe.HasModule(ctx, m) {
			return nil, nil
		}
	}
	return g.Provider.Cases(ctx)
}
