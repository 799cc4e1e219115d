package cli

import (
	"context"
	"os"

	"github.com/AndreyAkinshin/tabsnap/internal/cases"
	"github.com/AndreyAkinshin/tabsnap/internal/catalog"
	"github.com/AndreyAkinshin/tabsnap/internal/errors"
	"github.com/AndreyAkinshin/tabsnap/internal/project"
	"github.com/AndreyAkinshin/tabsnap/internal/providers/frame"
	"github.com/AndreyAkinshin/tabsnap/internal/providers/numeric"
	"github.com/AndreyAkinshin/tabsnap/internal/providers/parquet"
	"github.com/AndreyAkinshin/tabsnap/internal/snapshot"
	"github.com/AndreyAkinshin/tabsnap/pkg/testhelper"
)

// generate runs the whole action. Nothing is written unless every case
// renders.
func (e *env) generate(ctx context.Context) error {
	p, err := e.loadProject()
	if err != nil {
		return &errors.Error{Kind: errors.KindConfig, Message: "load project", Cause: err}
	}
	for _, w := range p.Warnings {
		e.out.Warning("%s", w)
	}

	log := e.logger(p.Config.LogLevel)
	log.Debug("project loaded", "version", Version, "root", p.Root, "config", p.HasConfigFile)

	renderer := e.newRenderer(p.Config.Python)
	version, err := renderer.Version(ctx)
	if err != nil {
		return err
	}
	log.Info("reference renderer ready", "python", p.Config.Python, "tabulate", version)

	sources, err := providers(p, renderer)
	if err != nil {
		return err
	}
	b := catalog.NewBuilder()
	if err := b.Include(ctx, sources...); err != nil {
		return errors.Wrap(err, "build catalog")
	}
	cat, err := b.Build()
	if err != nil {
		return errors.Wrap(err, "build catalog")
	}
	for _, batch := range b.Batches() {
		if batch.Skipped {
			log.Warn("provider contributed no cases", "provider", batch.Provider)
		}
	}

	assembler := &snapshot.Assembler{
		Oracle:            renderer,
		Logger:            log,
		VerifyDeterminism: p.Config.VerifyDeterminism,
	}
	store, err := assembler.Assemble(ctx, cat)
	if err != nil {
		return err
	}

	path := p.OutputPath()
	e.out.Info("Rendered %d cases", store.Len())
	previous := e.previous(path)
	drift := snapshot.Diff(previous, store)
	log.Info("corpus digest", "digest", drift.Digest, "previous", drift.PreviousDigest)

	writer := &snapshot.Writer{Logger: log}
	if err := writer.Write(store, path); err != nil {
		return err
	}

	e.summarize(summary{
		path:    path,
		version: version,
		batches: b.Batches(),
		store:   store,
		drift:   drift,
	})
	return nil
}

// providers lists every case source in registration order. Configured case
// files come last so their cases can replace built-in ones.
func providers(p *project.Project, renderer catalog.ModuleProbe) ([]catalog.Provider, error) {
	list := []catalog.Provider{
		cases.Core(),
		cases.Records(),
		frame.Provider(renderer),
		numeric.Provider(renderer),
		cases.Extra(),
		parquet.Provider(renderer),
	}
	for _, path := range p.CaseFiles() {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Configf("case file %s: %v", path, err)
		}
		list = append(list, cases.File(path))
	}
	return list, nil
}

// previous loads the fixture being replaced. A missing or unreadable file
// only disables the drift report.
func (e *env) previous(path string) *testhelper.Fixture {
	f, err := testhelper.LoadFixture(path)
	if err != nil {
		if !os.IsNotExist(err) {
			e.out.Warning("previous fixture ignored: %v", err)
		}
		return nil
	}
	return f
}
